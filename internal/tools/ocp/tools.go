// Package ocp registers the MCP tools backed by the OCP REST API.
package ocp

import (
	"log/slog"

	"github.com/oceanbase/awesome-oceanbase-mcp/internal/ocp"
	"github.com/oceanbase/awesome-oceanbase-mcp/internal/server"
)

// ToolServer registers and handles the OCP tools.
type ToolServer struct {
	server *server.Server
	client *ocp.Client
	logger *slog.Logger
}

// NewToolServer creates a new tool server backed by an OCP client.
func NewToolServer(srv *server.Server, client *ocp.Client, logger *slog.Logger) *ToolServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ToolServer{
		server: srv,
		client: client,
		logger: logger,
	}
}

// RegisterAll registers every OCP tool with the server.
func (ts *ToolServer) RegisterAll() {
	// Cluster tools
	ts.registerListClusters()
	ts.registerGetClusterZones()
	ts.registerGetClusterServers()
	ts.registerGetZoneServers()
	ts.registerGetClusterStats()
	ts.registerGetClusterServerStats()
	ts.registerGetClusterUnits()
	ts.registerGetClusterParameters()
	ts.registerSetClusterParameters()

	// Tenant tools
	ts.registerGetClusterTenants()
	ts.registerGetAllTenants()
	ts.registerGetTenantDetail()
	ts.registerGetTenantUnits()
	ts.registerGetTenantParameters()
	ts.registerSetTenantParameters()
	ts.registerGetTenantDatabases()
	ts.registerGetTenantUsers()
	ts.registerGetTenantUserDetail()
	ts.registerGetTenantRoles()
	ts.registerGetTenantRoleDetail()
	ts.registerGetTenantObjects()

	// OBProxy tools
	ts.registerListOBProxyClusters()
	ts.registerGetOBProxyClusterDetail()
	ts.registerGetOBProxyClusterParameters()

	// Monitoring tools
	ts.registerGetMetricGroups()
	ts.registerGetMetricDataWithLabel()

	// Alarm tools
	ts.registerGetAlarms()
	ts.registerGetAlarmDetail()

	// Inspection tools
	ts.registerGetInspectionTasks()
	ts.registerGetInspectionOverview()
	ts.registerGetInspectionReport()
	ts.registerRunInspection()
	ts.registerGetInspectionItemLastResult()
	ts.registerGetInspectionReportInfo()

	// SQL performance tools
	ts.registerGetTenantTopSQL()
	ts.registerGetSQLTrends()
	ts.registerGetSQLText()
	ts.registerGetTenantSlowSQL()
	ts.registerCreatePerformanceReport()
	ts.registerGetClusterSnapshots()
	ts.registerGetPerformanceReport()
}
