package ocp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/oceanbase/awesome-oceanbase-mcp/internal/ocp"
	"github.com/oceanbase/awesome-oceanbase-mcp/internal/tools"
)

// timeRangeArgs extracts the required start_time/end_time pair.
func timeRangeArgs(req mcp.CallToolRequest) (string, string, *mcp.CallToolResult) {
	startTime, ok := tools.StringArg(req, "start_time")
	if !ok {
		return "", "", mcp.NewToolResultError("start_time is required")
	}
	endTime, ok := tools.StringArg(req, "end_time")
	if !ok {
		return "", "", mcp.NewToolResultError("end_time is required")
	}
	return startTime, endTime, nil
}

// registerGetTenantTopSQL registers the get_oceanbase_tenant_top_sql tool.
func (ts *ToolServer) registerGetTenantTopSQL() {
	tool := mcp.NewTool("get_oceanbase_tenant_top_sql",
		mcp.WithDescription("Query TopSQL performance statistics of a tenant over a time range, with optional server and search filters."),
		mcp.WithNumber("cluster_id", mcp.Required(), mcp.Description("Cluster ID")),
		mcp.WithNumber("tenant_id", mcp.Required(), mcp.Description("Tenant ID")),
		mcp.WithString("start_time", mcp.Required(), mcp.Description("Start time in ISO 8601 format, e.g. '2025-01-01T00:00:00+08:00'")),
		mcp.WithString("end_time", mcp.Required(), mcp.Description("End time in ISO 8601 format")),
		mcp.WithNumber("server_id", mcp.Description("Restrict statistics to one OBServer")),
		mcp.WithBoolean("inner", mcp.Description("Include internal SQL")),
		mcp.WithString("sql_text", mcp.Description("Filter by SQL text substring")),
		mcp.WithString("search_attr", mcp.Description("Attribute name for advanced search, e.g. 'avgElapsedTime'")),
		mcp.WithString("search_op", mcp.Description("Comparison operator for advanced search: EQ, NE, GT, GE, LT or LE")),
		mcp.WithString("search_val", mcp.Description("Comparison value for advanced search")),
	)
	ts.server.AddTool(tool, ts.handleGetTenantTopSQL)
}

func (ts *ToolServer) handleGetTenantTopSQL(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterID, tenantID, errResult := tenantPathArgs(req)
	if errResult != nil {
		return errResult, nil
	}
	startTime, endTime, errResult := timeRangeArgs(req)
	if errResult != nil {
		return errResult, nil
	}

	q := ocp.TopSQLQuery{
		StartTime:  startTime,
		EndTime:    endTime,
		ServerID:   tools.IntOr(req, "server_id", 0),
		Inner:      tools.OptionalBool(req, "inner"),
		SQLText:    tools.StringOr(req, "sql_text", ""),
		SearchAttr: tools.StringOr(req, "search_attr", ""),
		SearchOp:   tools.StringOr(req, "search_op", ""),
		SearchVal:  tools.StringOr(req, "search_val", ""),
	}
	raw, err := ts.client.Get(ctx, fmt.Sprintf("/api/v2/ob/clusters/%d/tenants/%d/topSql", clusterID, tenantID), q.Encode())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get top SQL for tenant %d: %v", tenantID, err)), nil
	}
	return tools.RawJSONResult(raw)
}

// registerGetSQLTrends registers the get_oceanbase_sql_trends tool.
func (ts *ToolServer) registerGetSQLTrends() {
	tool := mcp.NewTool("get_oceanbase_sql_trends",
		mcp.WithDescription("Query the performance trend of one SQL statement over a time range. Each sampling point carries the statistics at that timestamp."),
		mcp.WithNumber("cluster_id", mcp.Required(), mcp.Description("Cluster ID")),
		mcp.WithNumber("tenant_id", mcp.Required(), mcp.Description("Tenant ID")),
		mcp.WithString("sql_id", mcp.Required(), mcp.Description("SQL ID")),
		mcp.WithString("start_time", mcp.Required(), mcp.Description("Start time in ISO 8601 format")),
		mcp.WithString("end_time", mcp.Required(), mcp.Description("End time in ISO 8601 format")),
		mcp.WithNumber("server_id", mcp.Description("Restrict the trend to one OBServer")),
		mcp.WithString("db_name", mcp.Description("Restrict the trend to one database")),
	)
	ts.server.AddTool(tool, ts.handleGetSQLTrends)
}

func (ts *ToolServer) handleGetSQLTrends(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterID, tenantID, errResult := tenantPathArgs(req)
	if errResult != nil {
		return errResult, nil
	}
	sqlID, ok := tools.StringArg(req, "sql_id")
	if !ok {
		return mcp.NewToolResultError("sql_id is required"), nil
	}
	startTime, endTime, errResult := timeRangeArgs(req)
	if errResult != nil {
		return errResult, nil
	}

	params := map[string]string{
		"startTime": startTime,
		"endTime":   endTime,
	}
	if serverID := tools.IntOr(req, "server_id", 0); serverID > 0 {
		params["serverId"] = strconv.Itoa(serverID)
	}
	if dbName, ok := tools.StringArg(req, "db_name"); ok {
		params["dbName"] = dbName
	}
	raw, err := ts.client.Get(ctx,
		fmt.Sprintf("/api/v2/ob/clusters/%d/tenants/%d/sqls/%s/trends", clusterID, tenantID, sqlID), params)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get trends for SQL %s: %v", sqlID, err)), nil
	}
	return tools.RawJSONResult(raw)
}

// registerGetSQLText registers the get_oceanbase_sql_text tool.
func (ts *ToolServer) registerGetSQLText() {
	tool := mcp.NewTool("get_oceanbase_sql_text",
		mcp.WithDescription("Get the full text of a SQL statement by its SQL ID."),
		mcp.WithNumber("cluster_id", mcp.Required(), mcp.Description("Cluster ID")),
		mcp.WithNumber("tenant_id", mcp.Required(), mcp.Description("Tenant ID")),
		mcp.WithString("sql_id", mcp.Required(), mcp.Description("SQL ID")),
		mcp.WithString("start_time", mcp.Required(), mcp.Description("Start time in ISO 8601 format")),
		mcp.WithString("end_time", mcp.Required(), mcp.Description("End time in ISO 8601 format")),
		mcp.WithString("db_name", mcp.Description("Database the SQL ran against")),
	)
	ts.server.AddTool(tool, ts.handleGetSQLText)
}

func (ts *ToolServer) handleGetSQLText(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterID, tenantID, errResult := tenantPathArgs(req)
	if errResult != nil {
		return errResult, nil
	}
	sqlID, ok := tools.StringArg(req, "sql_id")
	if !ok {
		return mcp.NewToolResultError("sql_id is required"), nil
	}
	startTime, endTime, errResult := timeRangeArgs(req)
	if errResult != nil {
		return errResult, nil
	}

	params := map[string]string{
		"startTime": startTime,
		"endTime":   endTime,
	}
	if dbName, ok := tools.StringArg(req, "db_name"); ok {
		params["dbName"] = dbName
	}
	raw, err := ts.client.Get(ctx,
		fmt.Sprintf("/api/v2/ob/clusters/%d/tenants/%d/sqls/%s/text", clusterID, tenantID, sqlID), params)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get text for SQL %s: %v", sqlID, err)), nil
	}
	return tools.RawJSONResult(raw)
}

// registerGetTenantSlowSQL registers the get_oceanbase_tenant_slow_sql tool.
func (ts *ToolServer) registerGetTenantSlowSQL() {
	tool := mcp.NewTool("get_oceanbase_tenant_slow_sql",
		mcp.WithDescription("Query slow SQL statements of a tenant over a time range."),
		mcp.WithNumber("cluster_id", mcp.Required(), mcp.Description("Cluster ID")),
		mcp.WithNumber("tenant_id", mcp.Required(), mcp.Description("Tenant ID")),
		mcp.WithString("start_time", mcp.Required(), mcp.Description("Start time in ISO 8601 format")),
		mcp.WithString("end_time", mcp.Required(), mcp.Description("End time in ISO 8601 format")),
		mcp.WithNumber("server_id", mcp.Description("Restrict statistics to one OBServer")),
		mcp.WithBoolean("inner", mcp.Description("Include internal SQL")),
		mcp.WithString("sql_text", mcp.Description("Filter by SQL text substring")),
		mcp.WithString("filter_expression", mcp.Description("Advanced filter expression, e.g. 'avgElapsedTime > 1000'")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of statements to return")),
		mcp.WithNumber("sql_text_length", mcp.Description("Truncate returned SQL text to this length")),
	)
	ts.server.AddTool(tool, ts.handleGetTenantSlowSQL)
}

func (ts *ToolServer) handleGetTenantSlowSQL(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterID, tenantID, errResult := tenantPathArgs(req)
	if errResult != nil {
		return errResult, nil
	}
	startTime, endTime, errResult := timeRangeArgs(req)
	if errResult != nil {
		return errResult, nil
	}

	q := ocp.SlowSQLQuery{
		StartTime:        startTime,
		EndTime:          endTime,
		ServerID:         tools.IntOr(req, "server_id", 0),
		Inner:            tools.OptionalBool(req, "inner"),
		SQLText:          tools.StringOr(req, "sql_text", ""),
		FilterExpression: tools.StringOr(req, "filter_expression", ""),
		Limit:            tools.IntOr(req, "limit", 0),
		SQLTextLength:    tools.IntOr(req, "sql_text_length", 0),
	}
	raw, err := ts.client.Get(ctx, fmt.Sprintf("/api/v2/ob/clusters/%d/tenants/%d/slowSql", clusterID, tenantID), q.Encode())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get slow SQL for tenant %d: %v", tenantID, err)), nil
	}
	return tools.RawJSONResult(raw)
}

// registerCreatePerformanceReport registers the create_oceanbase_performance_report tool.
func (ts *ToolServer) registerCreatePerformanceReport() {
	tool := mcp.NewTool("create_oceanbase_performance_report",
		mcp.WithDescription("Create a workload performance report between two cluster snapshots. Use get_oceanbase_cluster_snapshots to find snapshot IDs."),
		mcp.WithNumber("cluster_id", mcp.Required(), mcp.Description("Cluster ID")),
		mcp.WithNumber("start_snapshot_id", mcp.Required(), mcp.Description("Snapshot ID at the start of the report window")),
		mcp.WithNumber("end_snapshot_id", mcp.Required(), mcp.Description("Snapshot ID at the end of the report window")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Report name")),
	)
	ts.server.AddTool(tool, ts.handleCreatePerformanceReport)
}

func (ts *ToolServer) handleCreatePerformanceReport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterID, ok := tools.IntArg(req, "cluster_id")
	if !ok {
		return mcp.NewToolResultError("cluster_id is required"), nil
	}
	startSnapshot, ok := tools.IntArg(req, "start_snapshot_id")
	if !ok {
		return mcp.NewToolResultError("start_snapshot_id is required"), nil
	}
	endSnapshot, ok := tools.IntArg(req, "end_snapshot_id")
	if !ok {
		return mcp.NewToolResultError("end_snapshot_id is required"), nil
	}
	name, ok := tools.StringArg(req, "name")
	if !ok {
		return mcp.NewToolResultError("name is required"), nil
	}

	params := map[string]string{
		"name":            name,
		"startSnapshotId": strconv.Itoa(startSnapshot),
		"endSnapshotId":   strconv.Itoa(endSnapshot),
	}
	raw, err := ts.client.Post(ctx, fmt.Sprintf("/api/v2/ob/clusters/%d/performance/workload/reports", clusterID), nil, params)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create performance report: %v", err)), nil
	}
	return tools.RawJSONResult(raw)
}

// registerGetClusterSnapshots registers the get_oceanbase_cluster_snapshots tool.
func (ts *ToolServer) registerGetClusterSnapshots() {
	tool := mcp.NewTool("get_oceanbase_cluster_snapshots",
		mcp.WithDescription("List the workload snapshots of a cluster with their IDs and capture times."),
		mcp.WithNumber("cluster_id", mcp.Required(), mcp.Description("Cluster ID")),
	)
	ts.server.AddTool(tool, ts.handleGetClusterSnapshots)
}

func (ts *ToolServer) handleGetClusterSnapshots(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterID, ok := tools.IntArg(req, "cluster_id")
	if !ok {
		return mcp.NewToolResultError("cluster_id is required"), nil
	}

	raw, err := ts.client.Get(ctx, fmt.Sprintf("/api/v2/ob/clusters/%d/performance/workload/snapshots", clusterID), nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get snapshots for cluster %d: %v", clusterID, err)), nil
	}
	return tools.RawJSONResult(raw)
}

// registerGetPerformanceReport registers the get_oceanbase_performance_report tool.
func (ts *ToolServer) registerGetPerformanceReport() {
	tool := mcp.NewTool("get_oceanbase_performance_report",
		mcp.WithDescription("Download a workload performance report as HTML and save it to a local directory."),
		mcp.WithNumber("cluster_id", mcp.Required(), mcp.Description("Cluster ID")),
		mcp.WithNumber("report_id", mcp.Required(), mcp.Description("Performance report ID")),
		mcp.WithString("directory", mcp.Required(), mcp.Description("Absolute path of the directory to save the HTML report into")),
	)
	ts.server.AddTool(tool, ts.handleGetPerformanceReport)
}

func (ts *ToolServer) handleGetPerformanceReport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterID, ok := tools.IntArg(req, "cluster_id")
	if !ok {
		return mcp.NewToolResultError("cluster_id is required"), nil
	}
	reportID, ok := tools.IntArg(req, "report_id")
	if !ok {
		return mcp.NewToolResultError("report_id is required"), nil
	}
	directory, ok := tools.StringArg(req, "directory")
	if !ok {
		return mcp.NewToolResultError("directory is required"), nil
	}

	params := map[string]string{
		"id":       strconv.Itoa(clusterID),
		"reportId": strconv.Itoa(reportID),
	}
	content, err := ts.client.GetBinary(ctx,
		fmt.Sprintf("/api/v2/ob/clusters/%d/performance/workload/reports/%d", clusterID, reportID), params)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get performance report %d: %v", reportID, err)), nil
	}

	outputFile := filepath.Join(directory, fmt.Sprintf("performance_report_%d_%d.html", clusterID, reportID))
	if err := os.WriteFile(outputFile, content, 0o644); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to save performance report: %v", err)), nil
	}

	return tools.JSONResult(map[string]any{
		"success":     true,
		"cluster_id":  clusterID,
		"report_id":   reportID,
		"output_file": outputFile,
		"message":     fmt.Sprintf("HTML report saved to %s", outputFile),
	})
}
