package seekdb

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/oceanbase/awesome-oceanbase-mcp/internal/tools"
)

func (ts *ToolServer) registerExecuteSQL() {
	tool := mcp.NewTool("execute_sql",
		mcp.WithDescription("Execute a SQL statement on seekdb"),
		mcp.WithString("sql", mcp.Required(), mcp.Description("The SQL statement to execute")),
	)
	ts.server.AddTool(tool, ts.handleExecuteSQL)
}

func (ts *ToolServer) handleExecuteSQL(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := tools.StringOr(req, "sql", "")
	if query == "" {
		return mcp.NewToolResultError("sql is required"), nil
	}
	return tools.JSONResult(ts.exec.Execute(ctx, query))
}

func (ts *ToolServer) registerGetCurrentTime() {
	tool := mcp.NewTool("get_current_time",
		mcp.WithDescription("Get current time"),
	)
	ts.server.AddTool(tool, ts.handleGetCurrentTime)
}

func (ts *ToolServer) handleGetCurrentTime(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return tools.JSONResult(ts.exec.Execute(ctx, "SELECT NOW()"))
}
