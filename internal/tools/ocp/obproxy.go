package ocp

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/oceanbase/awesome-oceanbase-mcp/internal/tools"
)

// registerListOBProxyClusters registers the list_obproxy_clusters tool.
func (ts *ToolServer) registerListOBProxyClusters() {
	tool := mcp.NewTool("list_obproxy_clusters",
		mcp.WithDescription("List OBProxy clusters managed by OCP with pagination."),
		mcp.WithNumber("page", mcp.Description("Page number, starting from 1")),
		mcp.WithNumber("size", mcp.Description("Page size, default 10")),
	)
	ts.server.AddTool(tool, ts.handleListOBProxyClusters)
}

func (ts *ToolServer) handleListOBProxyClusters(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := map[string]string{
		"page": strconv.Itoa(tools.IntOr(req, "page", 1)),
		"size": strconv.Itoa(tools.IntOr(req, "size", 10)),
	}
	raw, err := ts.client.Get(ctx, "/api/v2/obproxy/clusters", params)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list OBProxy clusters: %v", err)), nil
	}
	return tools.RawJSONResult(raw)
}

// registerGetOBProxyClusterDetail registers the get_obproxy_cluster_detail tool.
func (ts *ToolServer) registerGetOBProxyClusterDetail() {
	tool := mcp.NewTool("get_obproxy_cluster_detail",
		mcp.WithDescription("Get detailed information about an OBProxy cluster, including its proxy instances."),
		mcp.WithNumber("cluster_id", mcp.Required(), mcp.Description("OBProxy cluster ID")),
	)
	ts.server.AddTool(tool, ts.handleGetOBProxyClusterDetail)
}

func (ts *ToolServer) handleGetOBProxyClusterDetail(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterID, ok := tools.IntArg(req, "cluster_id")
	if !ok {
		return mcp.NewToolResultError("cluster_id is required"), nil
	}

	raw, err := ts.client.Get(ctx, fmt.Sprintf("/api/v2/obproxy/clusters/%d", clusterID), nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get OBProxy cluster %d: %v", clusterID, err)), nil
	}
	return tools.RawJSONResult(raw)
}

// registerGetOBProxyClusterParameters registers the get_obproxy_cluster_parameters tool.
func (ts *ToolServer) registerGetOBProxyClusterParameters() {
	tool := mcp.NewTool("get_obproxy_cluster_parameters",
		mcp.WithDescription("Get the configuration parameters of an OBProxy cluster."),
		mcp.WithNumber("cluster_id", mcp.Required(), mcp.Description("OBProxy cluster ID")),
	)
	ts.server.AddTool(tool, ts.handleGetOBProxyClusterParameters)
}

func (ts *ToolServer) handleGetOBProxyClusterParameters(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterID, ok := tools.IntArg(req, "cluster_id")
	if !ok {
		return mcp.NewToolResultError("cluster_id is required"), nil
	}

	raw, err := ts.client.Get(ctx, fmt.Sprintf("/api/v2/obproxy/clusters/%d/parameters", clusterID), nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get parameters for OBProxy cluster %d: %v", clusterID, err)), nil
	}
	return tools.RawJSONResult(raw)
}
