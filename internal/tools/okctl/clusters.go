package okctl

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/oceanbase/awesome-oceanbase-mcp/internal/okctl"
	"github.com/oceanbase/awesome-oceanbase-mcp/internal/tools"
)

const (
	createReadyRetries  = 30
	createReadyInterval = 10 * time.Second
)

// clusterScope pulls and validates the cluster_name and namespace arguments
// shared by most cluster tools.
func clusterScope(req mcp.CallToolRequest) (name, namespace string, errResult *mcp.CallToolResult) {
	name = tools.StringOr(req, "cluster_name", "")
	namespace = tools.StringOr(req, "namespace", "default")
	if name == "" {
		return "", "", mcp.NewToolResultError("cluster_name is required")
	}
	if err := okctl.ValidateIdentifier(name, "cluster name"); err != nil {
		return "", "", mcp.NewToolResultError(err.Error())
	}
	if err := okctl.ValidateIdentifier(namespace, "namespace"); err != nil {
		return "", "", mcp.NewToolResultError(err.Error())
	}
	return name, namespace, nil
}

func (ts *ToolServer) registerListAllClusters() {
	tool := mcp.NewTool("list_all_clusters",
		mcp.WithDescription("List all OceanBase clusters managed by ob-operator"),
	)
	ts.server.AddTool(tool, ts.handleListAllClusters)
}

func (ts *ToolServer) handleListAllClusters(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := ts.runner.Run(ctx, "okctl", "cluster", "list")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list clusters: %v", err)), nil
	}
	if out == "" {
		return mcp.NewToolResultText("no clusters found"), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (ts *ToolServer) registerShowCluster() {
	tool := mcp.NewTool("show_cluster",
		mcp.WithDescription("Show the overview of an OceanBase cluster"),
		mcp.WithString("cluster_name", mcp.Required(), mcp.Description("Name of the cluster to show")),
		mcp.WithString("namespace", mcp.Description("Namespace of the cluster (default \"default\")")),
	)
	ts.server.AddTool(tool, ts.handleShowCluster)
}

func (ts *ToolServer) handleShowCluster(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, namespace, errResult := clusterScope(req)
	if errResult != nil {
		return errResult, nil
	}
	out, err := ts.runner.Run(ctx, "okctl", "cluster", "show", name, "-n", namespace)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to show cluster: %v", err)), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (ts *ToolServer) registerCreateCluster() {
	tool := mcp.NewTool("create_cluster",
		mcp.WithDescription("Create a new OceanBase cluster and wait for it to become ready. This operation may take several minutes."),
		mcp.WithString("cluster_name", mcp.Required(), mcp.Description("Name of the cluster to create")),
		mcp.WithString("namespace", mcp.Description("Namespace to create the cluster in (default \"default\")")),
		mcp.WithString("backup_storage_address", mcp.Description("Address of the backup storage")),
		mcp.WithString("backup_storage_path", mcp.Description("Path of the backup storage")),
		mcp.WithString("cpu", mcp.Description("CPU of each observer (default 2)")),
		mcp.WithString("data_storage_class", mcp.Description("Storage class of the data volume (default \"local-path\")")),
		mcp.WithString("data_storage_size", mcp.Description("Size of the data volume in Gi (default 50)")),
		mcp.WithString("id", mcp.Description("ID of the cluster")),
		mcp.WithString("image", mcp.Description("Image of each observer")),
		mcp.WithString("log_storage_class", mcp.Description("Storage class of the log volume (default \"local-path\")")),
		mcp.WithString("log_storage_size", mcp.Description("Size of the log volume in Gi (default 20)")),
		mcp.WithString("memory", mcp.Description("Memory of each observer in Gi (default 10)")),
		mcp.WithString("mode", mcp.Description("Mode of the cluster (default \"service\")")),
		mcp.WithString("parameters", mcp.Description("Extra OBCluster parameters, e.g. __min_full_resource_pool_memory")),
		mcp.WithString("redo_log_storage_class", mcp.Description("Storage class of the redo log volume (default \"local-path\")")),
		mcp.WithString("redo_log_storage_size", mcp.Description("Size of the redo log volume in Gi (default 50)")),
		mcp.WithString("root_password", mcp.Description("Root password of the cluster")),
		mcp.WithString("zones", mcp.Description("Zone topology of the cluster, e.g. z1=1 (default z1=1)")),
	)
	ts.server.AddTool(tool, ts.handleCreateCluster)
}

func (ts *ToolServer) handleCreateCluster(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, namespace, errResult := clusterScope(req)
	if errResult != nil {
		return errResult, nil
	}
	if zones := tools.StringOr(req, "zones", ""); zones != "" {
		if err := okctl.ValidateZones(zones); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	args := []string{"cluster", "create", name, "-n", namespace}
	optional := []struct {
		arg  string
		flag string
	}{
		{"backup_storage_address", "--backup-storage-address"},
		{"backup_storage_path", "--backup-storage-path"},
		{"cpu", "--cpu"},
		{"data_storage_class", "--data-storage-class"},
		{"data_storage_size", "--data-storage-size"},
		{"id", "--id"},
		{"image", "--image"},
		{"log_storage_class", "--log-storage-class"},
		{"log_storage_size", "--log-storage-size"},
		{"memory", "--memory"},
		{"mode", "--mode"},
		{"parameters", "--parameters"},
		{"redo_log_storage_class", "--redo-log-storage-class"},
		{"redo_log_storage_size", "--redo-log-storage-size"},
		{"root_password", "--root-password"},
		{"zones", "--zones"},
	}
	for _, opt := range optional {
		if v := tools.StringOr(req, opt.arg, ""); v != "" {
			args = append(args, opt.flag, v)
		}
	}

	out, err := ts.runner.Run(ctx, "okctl", args...)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create cluster: %v", err)), nil
	}

	ready, err := okctl.WaitReady(ctx, ts.runner, name, createReadyRetries, createReadyInterval, "cluster", "list")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to wait for cluster: %v", err)), nil
	}
	if !ready {
		return mcp.NewToolResultText(fmt.Sprintf("%s\nwarning: cluster %s was created but did not reach running state in time, check its status manually", out, name)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s\ncluster %s is created and ready", out, name)), nil
}

func (ts *ToolServer) registerScaleCluster() {
	tool := mcp.NewTool("scale_cluster",
		mcp.WithDescription("Scale an OceanBase cluster by adding, adjusting or removing zones. Set the replica count to 0 to remove a zone. Only one zone can be changed per call."),
		mcp.WithString("cluster_name", mcp.Required(), mcp.Description("Name of the cluster to scale")),
		mcp.WithString("zones", mcp.Required(), mcp.Description("Zone topology change, e.g. z1=1")),
		mcp.WithString("namespace", mcp.Description("Namespace of the cluster (default \"default\")")),
	)
	ts.server.AddTool(tool, ts.handleScaleCluster)
}

func (ts *ToolServer) handleScaleCluster(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, namespace, errResult := clusterScope(req)
	if errResult != nil {
		return errResult, nil
	}
	zones := tools.StringOr(req, "zones", "")
	if zones == "" {
		return mcp.NewToolResultError("zones is required"), nil
	}
	if err := okctl.ValidateZones(zones); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := ts.runner.Run(ctx, "okctl", "cluster", "scale", name, "-n", namespace, "--zones="+zones)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to scale cluster: %v", err)), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (ts *ToolServer) registerUpdateCluster() {
	tool := mcp.NewTool("update_cluster",
		mcp.WithDescription("Update the CPU, memory or storage settings of an OceanBase cluster. This operation may take several minutes."),
		mcp.WithString("cluster_name", mcp.Required(), mcp.Description("Name of the cluster to update")),
		mcp.WithString("namespace", mcp.Description("Namespace of the cluster (default \"default\")")),
		mcp.WithString("cpu", mcp.Description("CPU of each observer")),
		mcp.WithString("memory", mcp.Description("Memory of each observer in Gi")),
		mcp.WithString("data_storage_class", mcp.Description("Storage class of the data volume")),
		mcp.WithString("data_storage_size", mcp.Description("Size of the data volume in Gi")),
		mcp.WithString("log_storage_class", mcp.Description("Storage class of the log volume")),
		mcp.WithString("log_storage_size", mcp.Description("Size of the log volume in Gi")),
		mcp.WithString("redo_log_storage_class", mcp.Description("Storage class of the redo log volume")),
		mcp.WithString("redo_log_storage_size", mcp.Description("Size of the redo log volume in Gi")),
	)
	ts.server.AddTool(tool, ts.handleUpdateCluster)
}

func (ts *ToolServer) handleUpdateCluster(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, namespace, errResult := clusterScope(req)
	if errResult != nil {
		return errResult, nil
	}
	args := []string{"cluster", "update", name, "-n", namespace}
	optional := []struct {
		arg  string
		flag string
	}{
		{"cpu", "--cpu"},
		{"memory", "--memory"},
		{"data_storage_class", "--data-storage-class"},
		{"data_storage_size", "--data-storage-size"},
		{"log_storage_class", "--log-storage-class"},
		{"log_storage_size", "--log-storage-size"},
		{"redo_log_storage_class", "--redo-log-storage-class"},
		{"redo_log_storage_size", "--redo-log-storage-size"},
	}
	for _, opt := range optional {
		if v := tools.StringOr(req, opt.arg, ""); v != "" {
			args = append(args, opt.flag, v)
		}
	}
	out, err := ts.runner.Run(ctx, "okctl", args...)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to update cluster: %v", err)), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (ts *ToolServer) registerUpgradeCluster() {
	tool := mcp.NewTool("upgrade_cluster",
		mcp.WithDescription("Upgrade an OceanBase cluster to a new observer image. This operation may take several minutes."),
		mcp.WithString("cluster_name", mcp.Required(), mcp.Description("Name of the cluster to upgrade")),
		mcp.WithString("image", mcp.Required(), mcp.Description("New observer image")),
		mcp.WithString("namespace", mcp.Description("Namespace of the cluster (default \"default\")")),
	)
	ts.server.AddTool(tool, ts.handleUpgradeCluster)
}

func (ts *ToolServer) handleUpgradeCluster(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, namespace, errResult := clusterScope(req)
	if errResult != nil {
		return errResult, nil
	}
	image := tools.StringOr(req, "image", "")
	if image == "" {
		return mcp.NewToolResultError("image is required"), nil
	}
	out, err := ts.runner.Run(ctx, "okctl", "cluster", "upgrade", name, "-n", namespace, "--image", image)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to upgrade cluster: %v", err)), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (ts *ToolServer) registerDeleteCluster() {
	tool := mcp.NewTool("delete_cluster",
		mcp.WithDescription("Delete an OceanBase cluster from a namespace"),
		mcp.WithString("cluster_name", mcp.Required(), mcp.Description("Name of the cluster to delete")),
		mcp.WithString("namespace", mcp.Description("Namespace of the cluster (default \"default\")")),
	)
	ts.server.AddTool(tool, ts.handleDeleteCluster)
}

func (ts *ToolServer) handleDeleteCluster(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, namespace, errResult := clusterScope(req)
	if errResult != nil {
		return errResult, nil
	}
	out, err := ts.runner.Run(ctx, "okctl", "cluster", "delete", name, "-n", namespace)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to delete cluster: %v", err)), nil
	}
	return mcp.NewToolResultText(out), nil
}
