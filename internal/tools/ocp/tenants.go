package ocp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/oceanbase/awesome-oceanbase-mcp/internal/ocp"
	"github.com/oceanbase/awesome-oceanbase-mcp/internal/tools"
)

func tenantQueryFromRequest(req mcp.CallToolRequest) ocp.TenantQuery {
	q := ocp.TenantQuery{
		Page: ocp.Page{
			Page: tools.IntOr(req, "page", 1),
			Size: tools.IntOr(req, "size", 10),
		},
		Sort: tools.StringOr(req, "sort", ""),
		Name: tools.StringOr(req, "name", ""),
		Mode: tools.StringOr(req, "mode", ""),
	}
	if status, ok := tools.StringArg(req, "status"); ok {
		q.Status = splitList(status)
	}
	return q
}

// registerGetClusterTenants registers the get_oceanbase_cluster_tenants tool.
func (ts *ToolServer) registerGetClusterTenants() {
	tool := mcp.NewTool("get_oceanbase_cluster_tenants",
		mcp.WithDescription("List the tenants of a specific cluster with pagination and optional filters."),
		mcp.WithNumber("cluster_id", mcp.Required(), mcp.Description("Cluster ID")),
		mcp.WithNumber("page", mcp.Description("Page number, starting from 1")),
		mcp.WithNumber("size", mcp.Description("Page size, default 10")),
		mcp.WithString("sort", mcp.Description("Sort expression, e.g. 'name,asc'")),
		mcp.WithString("name", mcp.Description("Filter tenants by name substring")),
		mcp.WithString("mode", mcp.Description("Tenant compatibility mode: MYSQL or ORACLE")),
		mcp.WithString("status", mcp.Description("Comma-separated tenant status filter")),
	)
	ts.server.AddTool(tool, ts.handleGetClusterTenants)
}

func (ts *ToolServer) handleGetClusterTenants(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterID, ok := tools.IntArg(req, "cluster_id")
	if !ok {
		return mcp.NewToolResultError("cluster_id is required"), nil
	}

	q := tenantQueryFromRequest(req)
	raw, err := ts.client.Get(ctx, fmt.Sprintf("/api/v2/ob/clusters/%d/tenants", clusterID), q.Encode())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get tenants for cluster %d: %v", clusterID, err)), nil
	}
	return tools.RawJSONResult(raw)
}

// registerGetAllTenants registers the get_all_oceanbase_tenants tool.
func (ts *ToolServer) registerGetAllTenants() {
	tool := mcp.NewTool("get_all_oceanbase_tenants",
		mcp.WithDescription("List tenants across all clusters managed by OCP with pagination and optional filters."),
		mcp.WithNumber("page", mcp.Description("Page number, starting from 1")),
		mcp.WithNumber("size", mcp.Description("Page size, default 10")),
		mcp.WithString("sort", mcp.Description("Sort expression, e.g. 'name,asc'")),
		mcp.WithString("name", mcp.Description("Filter tenants by name substring")),
		mcp.WithString("mode", mcp.Description("Tenant compatibility mode: MYSQL or ORACLE")),
		mcp.WithString("status", mcp.Description("Comma-separated tenant status filter")),
	)
	ts.server.AddTool(tool, ts.handleGetAllTenants)
}

func (ts *ToolServer) handleGetAllTenants(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q := tenantQueryFromRequest(req)
	raw, err := ts.client.Get(ctx, "/api/v2/ob/tenants", q.Encode())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get tenants: %v", err)), nil
	}
	return tools.RawJSONResult(raw)
}

// registerGetTenantDetail registers the get_oceanbase_tenant_detail tool.
func (ts *ToolServer) registerGetTenantDetail() {
	tool := mcp.NewTool("get_oceanbase_tenant_detail",
		mcp.WithDescription("Get detailed information about a tenant: zones, units, whitelist and charset."),
		mcp.WithNumber("cluster_id", mcp.Required(), mcp.Description("Cluster ID")),
		mcp.WithNumber("tenant_id", mcp.Required(), mcp.Description("Tenant ID")),
	)
	ts.server.AddTool(tool, ts.handleGetTenantDetail)
}

func (ts *ToolServer) handleGetTenantDetail(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterID, tenantID, errResult := tenantPathArgs(req)
	if errResult != nil {
		return errResult, nil
	}

	raw, err := ts.client.Get(ctx, fmt.Sprintf("/api/v2/ob/clusters/%d/tenants/%d", clusterID, tenantID), nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get tenant %d: %v", tenantID, err)), nil
	}
	return tools.RawJSONResult(raw)
}

// tenantPathArgs extracts the cluster_id/tenant_id pair shared by the
// tenant-scoped tools.
func tenantPathArgs(req mcp.CallToolRequest) (int, int, *mcp.CallToolResult) {
	clusterID, ok := tools.IntArg(req, "cluster_id")
	if !ok {
		return 0, 0, mcp.NewToolResultError("cluster_id is required")
	}
	tenantID, ok := tools.IntArg(req, "tenant_id")
	if !ok {
		return 0, 0, mcp.NewToolResultError("tenant_id is required")
	}
	return clusterID, tenantID, nil
}

// registerGetTenantUnits registers the get_oceanbase_tenant_units tool.
func (ts *ToolServer) registerGetTenantUnits() {
	tool := mcp.NewTool("get_oceanbase_tenant_units",
		mcp.WithDescription("Get the resource units of a tenant, optionally filtered by zone."),
		mcp.WithNumber("cluster_id", mcp.Required(), mcp.Description("Cluster ID")),
		mcp.WithNumber("tenant_id", mcp.Required(), mcp.Description("Tenant ID")),
		mcp.WithString("zone_name", mcp.Description("Filter units by zone name")),
	)
	ts.server.AddTool(tool, ts.handleGetTenantUnits)
}

func (ts *ToolServer) handleGetTenantUnits(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterID, tenantID, errResult := tenantPathArgs(req)
	if errResult != nil {
		return errResult, nil
	}

	params := map[string]string{}
	if zone, ok := tools.StringArg(req, "zone_name"); ok {
		params["zoneName"] = zone
	}
	raw, err := ts.client.Get(ctx, fmt.Sprintf("/api/v2/ob/clusters/%d/tenants/%d/units", clusterID, tenantID), params)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get units for tenant %d: %v", tenantID, err)), nil
	}
	return tools.RawJSONResult(raw)
}

// registerGetTenantParameters registers the get_oceanbase_tenant_parameters tool.
func (ts *ToolServer) registerGetTenantParameters() {
	tool := mcp.NewTool("get_oceanbase_tenant_parameters",
		mcp.WithDescription("Get the configuration parameters of a tenant with current values."),
		mcp.WithNumber("cluster_id", mcp.Required(), mcp.Description("Cluster ID")),
		mcp.WithNumber("tenant_id", mcp.Required(), mcp.Description("Tenant ID")),
	)
	ts.server.AddTool(tool, ts.handleGetTenantParameters)
}

func (ts *ToolServer) handleGetTenantParameters(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterID, tenantID, errResult := tenantPathArgs(req)
	if errResult != nil {
		return errResult, nil
	}

	raw, err := ts.client.Get(ctx, fmt.Sprintf("/api/v2/ob/clusters/%d/tenants/%d/parameters", clusterID, tenantID), nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get parameters for tenant %d: %v", tenantID, err)), nil
	}
	return tools.RawJSONResult(raw)
}

// registerSetTenantParameters registers the set_oceanbase_tenant_parameters tool.
func (ts *ToolServer) registerSetTenantParameters() {
	tool := mcp.NewTool("set_oceanbase_tenant_parameters",
		mcp.WithDescription("Update configuration parameters of a tenant. Every entry needs name, value and parameterType."),
		mcp.WithNumber("cluster_id", mcp.Required(), mcp.Description("Cluster ID")),
		mcp.WithNumber("tenant_id", mcp.Required(), mcp.Description("Tenant ID")),
		mcp.WithString("parameters_json", mcp.Required(),
			mcp.Description("JSON array of parameters. Format: [{\"name\": \"max_connections\", \"value\": 2000, \"parameterType\": \"OB_TENANT_PARAMETER\"}]")),
	)
	ts.server.AddTool(tool, ts.handleSetTenantParameters)
}

func (ts *ToolServer) handleSetTenantParameters(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterID, tenantID, errResult := tenantPathArgs(req)
	if errResult != nil {
		return errResult, nil
	}
	params, resErr := parseParameters(req, true)
	if resErr != nil {
		return resErr, nil
	}

	raw, err := ts.client.Put(ctx, fmt.Sprintf("/api/v2/ob/clusters/%d/tenants/%d/parameters", clusterID, tenantID), params, nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to set parameters for tenant %d: %v", tenantID, err)), nil
	}
	return tools.RawJSONResult(raw)
}

// registerGetTenantDatabases registers the get_oceanbase_tenant_databases tool.
func (ts *ToolServer) registerGetTenantDatabases() {
	tool := mcp.NewTool("get_oceanbase_tenant_databases",
		mcp.WithDescription("List the databases of a MySQL-mode tenant."),
		mcp.WithNumber("cluster_id", mcp.Required(), mcp.Description("Cluster ID")),
		mcp.WithNumber("tenant_id", mcp.Required(), mcp.Description("Tenant ID")),
	)
	ts.server.AddTool(tool, ts.handleGetTenantDatabases)
}

func (ts *ToolServer) handleGetTenantDatabases(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterID, tenantID, errResult := tenantPathArgs(req)
	if errResult != nil {
		return errResult, nil
	}

	raw, err := ts.client.Get(ctx, fmt.Sprintf("/api/v2/ob/clusters/%d/tenants/%d/databases", clusterID, tenantID), nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get databases for tenant %d: %v", tenantID, err)), nil
	}
	return tools.RawJSONResult(raw)
}

// registerGetTenantUsers registers the get_oceanbase_tenant_users tool.
func (ts *ToolServer) registerGetTenantUsers() {
	tool := mcp.NewTool("get_oceanbase_tenant_users",
		mcp.WithDescription("List the database users of a tenant with their global privileges."),
		mcp.WithNumber("cluster_id", mcp.Required(), mcp.Description("Cluster ID")),
		mcp.WithNumber("tenant_id", mcp.Required(), mcp.Description("Tenant ID")),
	)
	ts.server.AddTool(tool, ts.handleGetTenantUsers)
}

func (ts *ToolServer) handleGetTenantUsers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterID, tenantID, errResult := tenantPathArgs(req)
	if errResult != nil {
		return errResult, nil
	}

	raw, err := ts.client.Get(ctx, fmt.Sprintf("/api/v2/ob/clusters/%d/tenants/%d/users", clusterID, tenantID), nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get users for tenant %d: %v", tenantID, err)), nil
	}
	return tools.RawJSONResult(raw)
}

// registerGetTenantUserDetail registers the get_oceanbase_tenant_user_detail tool.
func (ts *ToolServer) registerGetTenantUserDetail() {
	tool := mcp.NewTool("get_oceanbase_tenant_user_detail",
		mcp.WithDescription("Get detailed information about a database user, including object privileges."),
		mcp.WithNumber("cluster_id", mcp.Required(), mcp.Description("Cluster ID")),
		mcp.WithNumber("tenant_id", mcp.Required(), mcp.Description("Tenant ID")),
		mcp.WithString("username", mcp.Required(), mcp.Description("Database user name")),
		mcp.WithString("host_name", mcp.Description("Host pattern of the user, e.g. '%'")),
	)
	ts.server.AddTool(tool, ts.handleGetTenantUserDetail)
}

func (ts *ToolServer) handleGetTenantUserDetail(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterID, tenantID, errResult := tenantPathArgs(req)
	if errResult != nil {
		return errResult, nil
	}
	username, ok := tools.StringArg(req, "username")
	if !ok {
		return mcp.NewToolResultError("username is required"), nil
	}

	params := map[string]string{}
	if host, ok := tools.StringArg(req, "host_name"); ok {
		params["hostName"] = host
	}
	raw, err := ts.client.Get(ctx, fmt.Sprintf("/api/v2/ob/clusters/%d/tenants/%d/users/%s", clusterID, tenantID, username), params)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get user %s: %v", username, err)), nil
	}
	return tools.RawJSONResult(raw)
}

// registerGetTenantRoles registers the get_oceanbase_tenant_roles tool.
func (ts *ToolServer) registerGetTenantRoles() {
	tool := mcp.NewTool("get_oceanbase_tenant_roles",
		mcp.WithDescription("List the roles of an Oracle-mode tenant."),
		mcp.WithNumber("cluster_id", mcp.Required(), mcp.Description("Cluster ID")),
		mcp.WithNumber("tenant_id", mcp.Required(), mcp.Description("Tenant ID")),
	)
	ts.server.AddTool(tool, ts.handleGetTenantRoles)
}

func (ts *ToolServer) handleGetTenantRoles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterID, tenantID, errResult := tenantPathArgs(req)
	if errResult != nil {
		return errResult, nil
	}

	raw, err := ts.client.Get(ctx, fmt.Sprintf("/api/v2/ob/clusters/%d/tenants/%d/roles", clusterID, tenantID), nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get roles for tenant %d: %v", tenantID, err)), nil
	}
	return tools.RawJSONResult(raw)
}

// registerGetTenantRoleDetail registers the get_oceanbase_tenant_role_detail tool.
func (ts *ToolServer) registerGetTenantRoleDetail() {
	tool := mcp.NewTool("get_oceanbase_tenant_role_detail",
		mcp.WithDescription("Get detailed information about a role in an Oracle-mode tenant."),
		mcp.WithNumber("cluster_id", mcp.Required(), mcp.Description("Cluster ID")),
		mcp.WithNumber("tenant_id", mcp.Required(), mcp.Description("Tenant ID")),
		mcp.WithString("role_name", mcp.Required(), mcp.Description("Role name")),
	)
	ts.server.AddTool(tool, ts.handleGetTenantRoleDetail)
}

func (ts *ToolServer) handleGetTenantRoleDetail(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterID, tenantID, errResult := tenantPathArgs(req)
	if errResult != nil {
		return errResult, nil
	}
	roleName, ok := tools.StringArg(req, "role_name")
	if !ok {
		return mcp.NewToolResultError("role_name is required"), nil
	}

	raw, err := ts.client.Get(ctx, fmt.Sprintf("/api/v2/ob/clusters/%d/tenants/%d/roles/%s", clusterID, tenantID, roleName), nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get role %s: %v", roleName, err)), nil
	}
	return tools.RawJSONResult(raw)
}

// registerGetTenantObjects registers the get_oceanbase_tenant_objects tool.
func (ts *ToolServer) registerGetTenantObjects() {
	tool := mcp.NewTool("get_oceanbase_tenant_objects",
		mcp.WithDescription("List the database objects of a tenant that privileges can be granted on."),
		mcp.WithNumber("cluster_id", mcp.Required(), mcp.Description("Cluster ID")),
		mcp.WithNumber("tenant_id", mcp.Required(), mcp.Description("Tenant ID")),
	)
	ts.server.AddTool(tool, ts.handleGetTenantObjects)
}

func (ts *ToolServer) handleGetTenantObjects(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusterID, tenantID, errResult := tenantPathArgs(req)
	if errResult != nil {
		return errResult, nil
	}

	raw, err := ts.client.Get(ctx, fmt.Sprintf("/api/v2/ob/clusters/%d/tenants/%d/objects", clusterID, tenantID), nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get objects for tenant %d: %v", tenantID, err)), nil
	}
	return tools.RawJSONResult(raw)
}
