// Package okctl registers the MCP tools that manage OceanBase clusters on
// Kubernetes through the okctl command line tool.
package okctl

import (
	"log/slog"

	"github.com/oceanbase/awesome-oceanbase-mcp/internal/okctl"
	"github.com/oceanbase/awesome-oceanbase-mcp/internal/server"
)

// ToolServer registers and handles the okctl tools.
type ToolServer struct {
	server *server.Server
	runner okctl.Runner
	kube   *okctl.KubeClient
	logger *slog.Logger
}

// NewToolServer creates a tool server backed by a command runner. The
// Kubernetes client is optional; component checks degrade to an error
// message when it is nil.
func NewToolServer(srv *server.Server, runner okctl.Runner, kube *okctl.KubeClient, logger *slog.Logger) *ToolServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ToolServer{
		server: srv,
		runner: runner,
		kube:   kube,
		logger: logger,
	}
}

// RegisterAll registers every okctl tool with the server.
func (ts *ToolServer) RegisterAll() {
	// Cluster tools
	ts.registerListAllClusters()
	ts.registerShowCluster()
	ts.registerCreateCluster()
	ts.registerScaleCluster()
	ts.registerUpdateCluster()
	ts.registerUpgradeCluster()
	ts.registerDeleteCluster()

	// Tenant tools
	ts.registerListAllTenants()
	ts.registerShowTenant()
	ts.registerCreateTenant()
	ts.registerDeleteTenant()
	ts.registerScaleTenant()
	ts.registerUpdateTenant()
	ts.registerUpgradeTenant()
	ts.registerChangeTenantPassword()
	ts.registerActivateStandbyTenant()
	ts.registerReplayStandbyLog()
	ts.registerSwitchoverTenant()

	// Backup policy tools
	ts.registerListBackupPolicies()
	ts.registerCreateBackupPolicy()
	ts.registerShowBackupPolicy()
	ts.registerPauseBackupPolicy()
	ts.registerResumeBackupPolicy()
	ts.registerUpdateBackupPolicy()
	ts.registerDeleteBackupPolicy()

	// Component tools
	ts.registerInstallComponent()
	ts.registerUpdateComponent()
	ts.registerCheckComponentInstalled()
	ts.registerInstallOBOperator()
	ts.registerListOBClusterResources()
	ts.registerGetOBClusterResource()
	ts.registerListOBTenantResources()
}
