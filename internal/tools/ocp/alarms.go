package ocp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/oceanbase/awesome-oceanbase-mcp/internal/ocp"
	"github.com/oceanbase/awesome-oceanbase-mcp/internal/tools"
)

// registerGetAlarms registers the get_oceanbase_alarms tool.
func (ts *ToolServer) registerGetAlarms() {
	tool := mcp.NewTool("get_oceanbase_alarms",
		mcp.WithDescription("List OCP alarm events with pagination and optional filters on type, scope, level, status and time range."),
		mcp.WithNumber("page", mcp.Description("Page number, starting from 1")),
		mcp.WithNumber("size", mcp.Description("Page size, default 10")),
		mcp.WithString("app_type", mcp.Description("Application type filter, e.g. 'OB' or 'OCP'")),
		mcp.WithString("scope", mcp.Description("Alarm scope filter")),
		mcp.WithNumber("level", mcp.Description("Alarm level filter, 1 (critical) to 5 (info)")),
		mcp.WithString("status", mcp.Description("Comma-separated alarm status filter, e.g. 'ACTIVE,INACTIVE'")),
		mcp.WithString("active_at_start", mcp.Description("Only alarms active after this ISO 8601 time")),
		mcp.WithString("active_at_end", mcp.Description("Only alarms active before this ISO 8601 time")),
		mcp.WithBoolean("is_subscribed_by_me", mcp.Description("Only alarms the current access key subscribes to")),
		mcp.WithString("keyword", mcp.Description("Full-text keyword filter")),
	)
	ts.server.AddTool(tool, ts.handleGetAlarms)
}

func (ts *ToolServer) handleGetAlarms(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q := ocp.AlarmQuery{
		Page: ocp.Page{
			Page: tools.IntOr(req, "page", 1),
			Size: tools.IntOr(req, "size", 10),
		},
		AppType:        tools.StringOr(req, "app_type", ""),
		Scope:          tools.StringOr(req, "scope", ""),
		Level:          tools.IntOr(req, "level", 0),
		ActiveAtStart:  tools.StringOr(req, "active_at_start", ""),
		ActiveAtEnd:    tools.StringOr(req, "active_at_end", ""),
		SubscribedByMe: tools.OptionalBool(req, "is_subscribed_by_me"),
		Keyword:        tools.StringOr(req, "keyword", ""),
	}
	if status, ok := tools.StringArg(req, "status"); ok {
		q.Status = splitList(status)
	}

	raw, err := ts.client.Get(ctx, "/api/v2/alarm/alarms", q.Encode())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get alarms: %v", err)), nil
	}
	return tools.RawJSONResult(raw)
}

// registerGetAlarmDetail registers the get_oceanbase_alarm_detail tool.
func (ts *ToolServer) registerGetAlarmDetail() {
	tool := mcp.NewTool("get_oceanbase_alarm_detail",
		mcp.WithDescription("Get detailed information about a single alarm event."),
		mcp.WithNumber("alarm_id", mcp.Required(), mcp.Description("Alarm ID")),
	)
	ts.server.AddTool(tool, ts.handleGetAlarmDetail)
}

func (ts *ToolServer) handleGetAlarmDetail(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	alarmID, ok := tools.IntArg(req, "alarm_id")
	if !ok {
		return mcp.NewToolResultError("alarm_id is required"), nil
	}

	raw, err := ts.client.Get(ctx, fmt.Sprintf("/api/v2/alarm/alarms/%d", alarmID), nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get alarm %d: %v", alarmID, err)), nil
	}
	return tools.RawJSONResult(raw)
}
