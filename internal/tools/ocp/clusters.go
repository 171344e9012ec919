package ocp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/oceanbase/awesome-oceanbase-mcp/internal/ocp"
	"github.com/oceanbase/awesome-oceanbase-mcp/internal/tools"
)

// registerListClusters registers the list_oceanbase_clusters tool.
func (ts *ToolServer) registerListClusters() {
	tool := mcp.NewTool("list_oceanbase_clusters",
		mcp.WithDescription("List OceanBase clusters managed by OCP with pagination and optional name/status filters."),
		mcp.WithNumber("page", mcp.Description("Page number, starting from 1")),
		mcp.WithNumber("size", mcp.Description("Page size, default 10")),
		mcp.WithString("sort", mcp.Description("Sort expression, e.g. 'name,asc'")),
		mcp.WithString("name", mcp.Description("Filter clusters by name substring")),
		mcp.WithString("status", mcp.Description("Comma-separated cluster status filter, e.g. 'RUNNING,STOPPED'")),
	)
	ts.server.AddTool(tool, ts.handleListClusters)
}

func (ts *ToolServer) handleListClusters(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q := ocp.ClusterQuery{
		Page: ocp.Page{
			Page: tools.IntOr(req, "page", 1),
			Size: tools.IntOr(req, "size", 10),
		},
		Sort: tools.StringOr(req, "sort", ""),
		Name: tools.StringOr(req, "name", ""),
	}
	if status, ok := tools.StringArg(req, "status"); ok {
		q.Status = splitList(status)
	}

	raw, err := ts.client.Get(ctx, "/api/v2/ob/clusters", q.Encode())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list clusters: %v", err)), nil
	}
	return tools.RawJSONResult(raw)
}

// registerGetClusterZones registers the get_oceanbase_cluster_zones tool.
func (ts *ToolServer) registerGetClusterZones() {
	tool := mcp.NewTool("get_oceanbase_cluster_zones",
		mcp.WithDescription("Get the zone list of an OceanBase cluster, including zone status and region."),
		mcp.WithNumber("cluster_id", mcp.Required(), mcp.Description("Cluster ID")),
	)
	ts.server.AddTool(tool, ts.handleGetClusterZones)
}

func (ts *ToolServer) handleGetClusterZones(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterID, ok := tools.IntArg(req, "cluster_id")
	if !ok {
		return mcp.NewToolResultError("cluster_id is required"), nil
	}

	raw, err := ts.client.Get(ctx, fmt.Sprintf("/api/v2/ob/clusters/%d/zones", clusterID), nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get zones for cluster %d: %v", clusterID, err)), nil
	}
	return tools.RawJSONResult(raw)
}

// registerGetClusterServers registers the get_oceanbase_cluster_servers tool.
func (ts *ToolServer) registerGetClusterServers() {
	tool := mcp.NewTool("get_oceanbase_cluster_servers",
		mcp.WithDescription("Get the OBServer list of a cluster, optionally filtered by region or IDC."),
		mcp.WithNumber("cluster_id", mcp.Required(), mcp.Description("Cluster ID")),
		mcp.WithString("region_name", mcp.Description("Filter servers by region name")),
		mcp.WithString("idc_name", mcp.Description("Filter servers by IDC name")),
	)
	ts.server.AddTool(tool, ts.handleGetClusterServers)
}

func (ts *ToolServer) handleGetClusterServers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterID, ok := tools.IntArg(req, "cluster_id")
	if !ok {
		return mcp.NewToolResultError("cluster_id is required"), nil
	}

	q := ocp.ServerQuery{
		RegionName: tools.StringOr(req, "region_name", ""),
		IDCName:    tools.StringOr(req, "idc_name", ""),
	}
	raw, err := ts.client.Get(ctx, fmt.Sprintf("/api/v2/ob/clusters/%d/servers", clusterID), q.Encode())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get servers for cluster %d: %v", clusterID, err)), nil
	}
	return tools.RawJSONResult(raw)
}

// registerGetZoneServers registers the get_oceanbase_zone_servers tool.
func (ts *ToolServer) registerGetZoneServers() {
	tool := mcp.NewTool("get_oceanbase_zone_servers",
		mcp.WithDescription("Get the OBServer list of a specific zone in a cluster."),
		mcp.WithNumber("cluster_id", mcp.Required(), mcp.Description("Cluster ID")),
		mcp.WithString("zone_name", mcp.Required(), mcp.Description("Zone name, e.g. 'zone1'")),
	)
	ts.server.AddTool(tool, ts.handleGetZoneServers)
}

func (ts *ToolServer) handleGetZoneServers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterID, ok := tools.IntArg(req, "cluster_id")
	if !ok {
		return mcp.NewToolResultError("cluster_id is required"), nil
	}
	zoneName, ok := tools.StringArg(req, "zone_name")
	if !ok {
		return mcp.NewToolResultError("zone_name is required"), nil
	}

	raw, err := ts.client.Get(ctx, fmt.Sprintf("/api/v2/ob/clusters/%d/zones/%s/servers", clusterID, zoneName), nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get servers for zone %s: %v", zoneName, err)), nil
	}
	return tools.RawJSONResult(raw)
}

// registerGetClusterStats registers the get_oceanbase_cluster_stats tool.
func (ts *ToolServer) registerGetClusterStats() {
	tool := mcp.NewTool("get_oceanbase_cluster_stats",
		mcp.WithDescription("Get resource statistics of a cluster: CPU, memory and disk usage."),
		mcp.WithNumber("cluster_id", mcp.Required(), mcp.Description("Cluster ID")),
	)
	ts.server.AddTool(tool, ts.handleGetClusterStats)
}

func (ts *ToolServer) handleGetClusterStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterID, ok := tools.IntArg(req, "cluster_id")
	if !ok {
		return mcp.NewToolResultError("cluster_id is required"), nil
	}

	raw, err := ts.client.Get(ctx, fmt.Sprintf("/api/v2/ob/clusters/%d/stats", clusterID), nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get stats for cluster %d: %v", clusterID, err)), nil
	}
	return tools.RawJSONResult(raw)
}

// registerGetClusterServerStats registers the get_oceanbase_cluster_server_stats tool.
func (ts *ToolServer) registerGetClusterServerStats() {
	tool := mcp.NewTool("get_oceanbase_cluster_server_stats",
		mcp.WithDescription("Get per-server resource statistics for every OBServer in a cluster."),
		mcp.WithNumber("cluster_id", mcp.Required(), mcp.Description("Cluster ID")),
	)
	ts.server.AddTool(tool, ts.handleGetClusterServerStats)
}

func (ts *ToolServer) handleGetClusterServerStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterID, ok := tools.IntArg(req, "cluster_id")
	if !ok {
		return mcp.NewToolResultError("cluster_id is required"), nil
	}

	raw, err := ts.client.Get(ctx, fmt.Sprintf("/api/v2/ob/clusters/%d/serverStats", clusterID), nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get server stats for cluster %d: %v", clusterID, err)), nil
	}
	return tools.RawJSONResult(raw)
}

// registerGetClusterUnits registers the get_oceanbase_cluster_units tool.
func (ts *ToolServer) registerGetClusterUnits() {
	tool := mcp.NewTool("get_oceanbase_cluster_units",
		mcp.WithDescription("Get all resource units of a cluster and the tenants they belong to."),
		mcp.WithNumber("cluster_id", mcp.Required(), mcp.Description("Cluster ID")),
	)
	ts.server.AddTool(tool, ts.handleGetClusterUnits)
}

func (ts *ToolServer) handleGetClusterUnits(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterID, ok := tools.IntArg(req, "cluster_id")
	if !ok {
		return mcp.NewToolResultError("cluster_id is required"), nil
	}

	raw, err := ts.client.Get(ctx, fmt.Sprintf("/api/v2/ob/clusters/%d/units", clusterID), nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get units for cluster %d: %v", clusterID, err)), nil
	}
	return tools.RawJSONResult(raw)
}

// registerGetClusterParameters registers the get_oceanbase_cluster_parameters tool.
func (ts *ToolServer) registerGetClusterParameters() {
	tool := mcp.NewTool("get_oceanbase_cluster_parameters",
		mcp.WithDescription("Get the configuration parameters of a cluster with current values."),
		mcp.WithNumber("cluster_id", mcp.Required(), mcp.Description("Cluster ID")),
	)
	ts.server.AddTool(tool, ts.handleGetClusterParameters)
}

func (ts *ToolServer) handleGetClusterParameters(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterID, ok := tools.IntArg(req, "cluster_id")
	if !ok {
		return mcp.NewToolResultError("cluster_id is required"), nil
	}

	raw, err := ts.client.Get(ctx, fmt.Sprintf("/api/v2/ob/clusters/%d/parameters", clusterID), nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get parameters for cluster %d: %v", clusterID, err)), nil
	}
	return tools.RawJSONResult(raw)
}

// registerSetClusterParameters registers the set_oceanbase_cluster_parameters tool.
func (ts *ToolServer) registerSetClusterParameters() {
	tool := mcp.NewTool("set_oceanbase_cluster_parameters",
		mcp.WithDescription("Update configuration parameters of a cluster. IMPORTANT: parameter changes affect the whole cluster; review values before applying."),
		mcp.WithNumber("cluster_id", mcp.Required(), mcp.Description("Cluster ID")),
		mcp.WithString("parameters_json", mcp.Required(),
			mcp.Description("JSON array of parameters. Format: [{\"name\": \"major_freeze_duty_time\", \"value\": \"02:00\"}]")),
	)
	ts.server.AddTool(tool, ts.handleSetClusterParameters)
}

func (ts *ToolServer) handleSetClusterParameters(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterID, ok := tools.IntArg(req, "cluster_id")
	if !ok {
		return mcp.NewToolResultError("cluster_id is required"), nil
	}
	params, resErr := parseParameters(req, false)
	if resErr != nil {
		return resErr, nil
	}

	raw, err := ts.client.Put(ctx, fmt.Sprintf("/api/v2/ob/clusters/%d/parameters", clusterID), params, nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to set parameters for cluster %d: %v", clusterID, err)), nil
	}
	return tools.RawJSONResult(raw)
}
