package ocp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/oceanbase/awesome-oceanbase-mcp/internal/ocp"
	"github.com/oceanbase/awesome-oceanbase-mcp/internal/tools"
)

// registerGetMetricGroups registers the get_oceanbase_metric_groups tool.
func (ts *ToolServer) registerGetMetricGroups() {
	tool := mcp.NewTool("get_oceanbase_metric_groups",
		mcp.WithDescription("List monitoring metric groups for a metric class and scope. Use this to discover metric names before querying metric data."),
		mcp.WithString("type", mcp.Required(),
			mcp.Description("Metric class: TOP or NORMAL"),
			mcp.Enum("TOP", "NORMAL")),
		mcp.WithString("scope", mcp.Required(),
			mcp.Description("Metric scope: CLUSTER, TENANT, HOST, OBPROXY or SERVICE"),
			mcp.Enum("CLUSTER", "TENANT", "HOST", "OBPROXY", "SERVICE")),
		mcp.WithNumber("page", mcp.Description("Page number, starting from 1")),
		mcp.WithNumber("size", mcp.Description("Page size, default 10")),
		mcp.WithString("sort", mcp.Description("Sort expression")),
		mcp.WithString("target", mcp.Description("Metric target filter")),
		mcp.WithNumber("target_id", mcp.Description("Metric target ID filter")),
	)
	ts.server.AddTool(tool, ts.handleGetMetricGroups)
}

func (ts *ToolServer) handleGetMetricGroups(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	metricType, ok := tools.StringArg(req, "type")
	if !ok {
		return mcp.NewToolResultError("type is required"), nil
	}
	scope, ok := tools.StringArg(req, "scope")
	if !ok {
		return mcp.NewToolResultError("scope is required"), nil
	}

	q := ocp.MetricGroupQuery{
		Page: ocp.Page{
			Page: tools.IntOr(req, "page", 1),
			Size: tools.IntOr(req, "size", 10),
		},
		Type:     metricType,
		Scope:    scope,
		Sort:     tools.StringOr(req, "sort", ""),
		Target:   tools.StringOr(req, "target", ""),
		TargetID: tools.IntOr(req, "target_id", 0),
	}
	raw, err := ts.client.Get(ctx, "/api/v2/monitor/metricGroups", q.Encode())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get metric groups: %v", err)), nil
	}
	return tools.RawJSONResult(raw)
}

// registerGetMetricDataWithLabel registers the get_oceanbase_metric_data_with_label tool.
func (ts *ToolServer) registerGetMetricDataWithLabel() {
	tool := mcp.NewTool("get_oceanbase_metric_data_with_label",
		mcp.WithDescription("Query metric time series with label grouping. Returns sampled data points between start_time and end_time."),
		mcp.WithString("start_time", mcp.Required(),
			mcp.Description("Start time in ISO 8601 format, e.g. '2025-01-01T00:00:00+08:00'")),
		mcp.WithString("end_time", mcp.Required(),
			mcp.Description("End time in ISO 8601 format")),
		mcp.WithString("metrics", mcp.Required(),
			mcp.Description("Comma-separated metric names, e.g. 'sql_all_count,sql_all_rt'")),
		mcp.WithString("group_by", mcp.Required(),
			mcp.Description("Comma-separated label names to group series by, e.g. 'ob_cluster_name'")),
		mcp.WithNumber("interval", mcp.Required(),
			mcp.Description("Sampling interval in seconds")),
		mcp.WithString("labels", mcp.Required(),
			mcp.Description("Label filter in 'name:value' form, comma-separated")),
		mcp.WithNumber("min_step", mcp.Description("Minimum sampling step in seconds")),
		mcp.WithNumber("max_points", mcp.Description("Maximum number of data points to return")),
	)
	ts.server.AddTool(tool, ts.handleGetMetricDataWithLabel)
}

func (ts *ToolServer) handleGetMetricDataWithLabel(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	for _, field := range []string{"start_time", "end_time", "metrics", "group_by", "labels"} {
		if _, ok := tools.StringArg(req, field); !ok {
			return mcp.NewToolResultError(field + " is required"), nil
		}
	}
	interval, ok := tools.IntArg(req, "interval")
	if !ok {
		return mcp.NewToolResultError("interval is required"), nil
	}

	q := ocp.MetricDataQuery{
		StartTime: tools.StringOr(req, "start_time", ""),
		EndTime:   tools.StringOr(req, "end_time", ""),
		Metrics:   splitList(tools.StringOr(req, "metrics", "")),
		GroupBy:   splitList(tools.StringOr(req, "group_by", "")),
		Interval:  interval,
		Labels:    tools.StringOr(req, "labels", ""),
		MinStep:   tools.IntOr(req, "min_step", 0),
		MaxPoints: tools.IntOr(req, "max_points", 0),
	}
	raw, err := ts.client.Get(ctx, "/api/v2/monitor/metricsWithLabel", q.Encode())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get metric data: %v", err)), nil
	}
	return tools.RawJSONResult(raw)
}
