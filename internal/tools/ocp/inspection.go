package ocp

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/oceanbase/awesome-oceanbase-mcp/internal/ocp"
	"github.com/oceanbase/awesome-oceanbase-mcp/internal/tools"
)

// registerGetInspectionTasks registers the get_oceanbase_inspection_tasks tool.
func (ts *ToolServer) registerGetInspectionTasks() {
	tool := mcp.NewTool("get_oceanbase_inspection_tasks",
		mcp.WithDescription("List inspection tasks with optional filters on object type, tag, state and name."),
		mcp.WithString("inspection_object_types", mcp.Description("Comma-separated object types: OB_CLUSTER, OB_TENANT, HOST, OB_PROXY")),
		mcp.WithString("tags", mcp.Description("Comma-separated inspection tag IDs")),
		mcp.WithString("task_states", mcp.Description("Comma-separated task states, e.g. 'RUNNING,SUCCESS,FAILED'")),
		mcp.WithString("name", mcp.Description("Filter tasks by name")),
	)
	ts.server.AddTool(tool, ts.handleGetInspectionTasks)
}

func (ts *ToolServer) handleGetInspectionTasks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q := ocp.InspectionTaskQuery{
		ObjectTypes: splitList(tools.StringOr(req, "inspection_object_types", "")),
		Tags:        splitList(tools.StringOr(req, "tags", "")),
		TaskStates:  splitList(tools.StringOr(req, "task_states", "")),
		Name:        tools.StringOr(req, "name", ""),
	}
	raw, err := ts.client.Get(ctx, "/api/v2/inspection/task", q.Encode())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get inspection tasks: %v", err)), nil
	}
	return tools.RawJSONResult(raw)
}

// registerGetInspectionOverview registers the get_oceanbase_inspection_overview tool.
func (ts *ToolServer) registerGetInspectionOverview() {
	tool := mcp.NewTool("get_oceanbase_inspection_overview",
		mcp.WithDescription("Get the inspection overview: latest scheduling state and results per inspected object."),
		mcp.WithString("object_ids", mcp.Description("Comma-separated object IDs")),
		mcp.WithString("inspection_object_type", mcp.Description("Object type: OB_CLUSTER, OB_TENANT, HOST or OB_PROXY")),
		mcp.WithString("schedule_states", mcp.Description("Comma-separated schedule states")),
		mcp.WithString("name", mcp.Description("Filter by object name")),
		mcp.WithString("parent_name", mcp.Description("Filter by parent object name")),
	)
	ts.server.AddTool(tool, ts.handleGetInspectionOverview)
}

func (ts *ToolServer) handleGetInspectionOverview(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if objectType, ok := tools.StringArg(req, "inspection_object_type"); ok {
		if err := ocp.ValidateInspectionObjectType("inspection_object_type", objectType); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	q := ocp.InspectionOverviewQuery{
		ObjectIDs:      splitList(tools.StringOr(req, "object_ids", "")),
		ObjectType:     tools.StringOr(req, "inspection_object_type", ""),
		ScheduleStates: splitList(tools.StringOr(req, "schedule_states", "")),
		Name:           tools.StringOr(req, "name", ""),
		ParentName:     tools.StringOr(req, "parent_name", ""),
	}
	raw, err := ts.client.Get(ctx, "/api/v2/inspection/overview", q.Encode())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get inspection overview: %v", err)), nil
	}
	return tools.RawJSONResult(raw)
}

// registerGetInspectionReport registers the get_oceanbase_inspection_report tool.
func (ts *ToolServer) registerGetInspectionReport() {
	tool := mcp.NewTool("get_oceanbase_inspection_report",
		mcp.WithDescription("Get a full inspection report by ID, including every checked item and its result."),
		mcp.WithNumber("report_id", mcp.Required(), mcp.Description("Inspection report ID")),
	)
	ts.server.AddTool(tool, ts.handleGetInspectionReport)
}

func (ts *ToolServer) handleGetInspectionReport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reportID, ok := tools.IntArg(req, "report_id")
	if !ok {
		return mcp.NewToolResultError("report_id is required"), nil
	}

	raw, err := ts.client.Get(ctx, fmt.Sprintf("/api/v2/inspection/report/%d", reportID), nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get inspection report %d: %v", reportID, err)), nil
	}
	return tools.RawJSONResult(raw)
}

// registerRunInspection registers the run_oceanbase_inspection tool.
func (ts *ToolServer) registerRunInspection() {
	tool := mcp.NewTool("run_oceanbase_inspection",
		mcp.WithDescription("Trigger an inspection run for the given objects. Tag selects the inspection profile (1-4)."),
		mcp.WithString("inspection_object_type", mcp.Required(),
			mcp.Description("Object type: OB_CLUSTER, OB_TENANT, HOST or OB_PROXY"),
			mcp.Enum("OB_CLUSTER", "OB_TENANT", "HOST", "OB_PROXY")),
		mcp.WithString("object_ids", mcp.Required(),
			mcp.Description("Comma-separated IDs of the objects to inspect")),
		mcp.WithNumber("tag", mcp.Required(),
			mcp.Description("Inspection profile tag: 1, 2, 3 or 4")),
	)
	ts.server.AddTool(tool, ts.handleRunInspection)
}

func (ts *ToolServer) handleRunInspection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	objectType, ok := tools.StringArg(req, "inspection_object_type")
	if !ok {
		return mcp.NewToolResultError("inspection_object_type is required"), nil
	}
	objectIDs, ok := tools.StringArg(req, "object_ids")
	if !ok {
		return mcp.NewToolResultError("object_ids is required"), nil
	}
	tag, ok := tools.IntArg(req, "tag")
	if !ok {
		return mcp.NewToolResultError("tag is required"), nil
	}

	if err := ocp.ValidateInspectionObjectType("inspection_object_type", objectType); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := ocp.ValidateInspectionTag("tag", tag); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	params := map[string]string{
		"inspectionObjectType": objectType,
		"objectIds":            objectIDs,
		"tag":                  strconv.Itoa(tag),
	}
	raw, err := ts.client.Post(ctx, "/api/v2/inspection/run", nil, params)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to run inspection: %v", err)), nil
	}
	return tools.RawJSONResult(raw)
}

// inspectionInfoParams validates and encodes the tag_id/object_type pair
// shared by the report-info tools.
func inspectionInfoParams(req mcp.CallToolRequest) (map[string]string, *mcp.CallToolResult) {
	tagID, ok := tools.IntArg(req, "tag_id")
	if !ok {
		return nil, mcp.NewToolResultError("tag_id is required")
	}
	objectType, ok := tools.StringArg(req, "object_type")
	if !ok {
		return nil, mcp.NewToolResultError("object_type is required")
	}
	if err := ocp.ValidateInspectionTag("tag_id", tagID); err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}
	if err := ocp.ValidateInspectionObjectType("object_type", objectType); err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}

	params := map[string]string{
		"tagId":      strconv.Itoa(tagID),
		"objectType": objectType,
	}
	if objectID, ok := tools.IntArg(req, "object_id"); ok {
		params["objectId"] = strconv.Itoa(objectID)
	}
	return params, nil
}

// registerGetInspectionItemLastResult registers the get_oceanbase_inspection_item_last_result tool.
func (ts *ToolServer) registerGetInspectionItemLastResult() {
	tool := mcp.NewTool("get_oceanbase_inspection_item_last_result",
		mcp.WithDescription("Get the most recent result of a single inspection item."),
		mcp.WithNumber("item_id", mcp.Required(), mcp.Description("Inspection item ID")),
		mcp.WithNumber("tag_id", mcp.Required(), mcp.Description("Inspection profile tag: 1, 2, 3 or 4")),
		mcp.WithString("object_type", mcp.Required(),
			mcp.Description("Object type: OB_CLUSTER, OB_TENANT, HOST or OB_PROXY"),
			mcp.Enum("OB_CLUSTER", "OB_TENANT", "HOST", "OB_PROXY")),
		mcp.WithNumber("object_id", mcp.Description("Restrict the result to one inspected object")),
	)
	ts.server.AddTool(tool, ts.handleGetInspectionItemLastResult)
}

func (ts *ToolServer) handleGetInspectionItemLastResult(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	itemID, ok := tools.IntArg(req, "item_id")
	if !ok {
		return mcp.NewToolResultError("item_id is required"), nil
	}
	params, errResult := inspectionInfoParams(req)
	if errResult != nil {
		return errResult, nil
	}

	raw, err := ts.client.Get(ctx, fmt.Sprintf("/api/v2/inspection/report/info/item/%d", itemID), params)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get inspection item %d: %v", itemID, err)), nil
	}
	return tools.RawJSONResult(raw)
}

// registerGetInspectionReportInfo registers the get_oceanbase_inspection_report_info tool.
func (ts *ToolServer) registerGetInspectionReportInfo() {
	tool := mcp.NewTool("get_oceanbase_inspection_report_info",
		mcp.WithDescription("Get summary information of the latest inspection reports for a profile tag."),
		mcp.WithNumber("tag_id", mcp.Required(), mcp.Description("Inspection profile tag: 1, 2, 3 or 4")),
		mcp.WithString("object_type", mcp.Required(),
			mcp.Description("Object type: OB_CLUSTER, OB_TENANT, HOST or OB_PROXY"),
			mcp.Enum("OB_CLUSTER", "OB_TENANT", "HOST", "OB_PROXY")),
		mcp.WithNumber("object_id", mcp.Description("Restrict the report info to one inspected object")),
	)
	ts.server.AddTool(tool, ts.handleGetInspectionReportInfo)
}

func (ts *ToolServer) handleGetInspectionReportInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params, errResult := inspectionInfoParams(req)
	if errResult != nil {
		return errResult, nil
	}

	raw, err := ts.client.Get(ctx, "/api/v2/inspection/report/info", params)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get inspection report info: %v", err)), nil
	}
	return tools.RawJSONResult(raw)
}
