package okctl

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/oceanbase/awesome-oceanbase-mcp/internal/okctl"
	"github.com/oceanbase/awesome-oceanbase-mcp/internal/tools"
)

// tenantScope pulls and validates the tenant_name and namespace arguments
// shared by most tenant tools.
func tenantScope(req mcp.CallToolRequest) (name, namespace string, errResult *mcp.CallToolResult) {
	name = tools.StringOr(req, "tenant_name", "")
	namespace = tools.StringOr(req, "namespace", "default")
	if name == "" {
		return "", "", mcp.NewToolResultError("tenant_name is required")
	}
	if err := okctl.ValidateIdentifier(name, "tenant name"); err != nil {
		return "", "", mcp.NewToolResultError(err.Error())
	}
	if err := okctl.ValidateIdentifier(namespace, "namespace"); err != nil {
		return "", "", mcp.NewToolResultError(err.Error())
	}
	return name, namespace, nil
}

func (ts *ToolServer) registerListAllTenants() {
	tool := mcp.NewTool("list_all_tenants",
		mcp.WithDescription("List all OceanBase tenants in a namespace"),
		mcp.WithString("namespace", mcp.Description("Namespace to list tenants from (default \"default\")")),
	)
	ts.server.AddTool(tool, ts.handleListAllTenants)
}

func (ts *ToolServer) handleListAllTenants(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	namespace := tools.StringOr(req, "namespace", "default")
	if err := okctl.ValidateIdentifier(namespace, "namespace"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := ts.runner.Run(ctx, "okctl", "tenant", "list", "-p", namespace)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list tenants: %v", err)), nil
	}
	if out == "" {
		return mcp.NewToolResultText("no tenants found"), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (ts *ToolServer) registerShowTenant() {
	tool := mcp.NewTool("show_tenant",
		mcp.WithDescription("Show the overview of an OceanBase tenant"),
		mcp.WithString("tenant_name", mcp.Required(), mcp.Description("Name of the tenant to show")),
		mcp.WithString("namespace", mcp.Description("Namespace of the tenant (default \"default\")")),
	)
	ts.server.AddTool(tool, ts.handleShowTenant)
}

func (ts *ToolServer) handleShowTenant(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, namespace, errResult := tenantScope(req)
	if errResult != nil {
		return errResult, nil
	}
	out, err := ts.runner.Run(ctx, "okctl", "tenant", "show", name, "-n", namespace)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to show tenant: %v", err)), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (ts *ToolServer) registerCreateTenant() {
	tool := mcp.NewTool("create_tenant",
		mcp.WithDescription("Create an OceanBase tenant and wait for it to become ready. This operation may take several minutes."),
		mcp.WithString("tenant_name", mcp.Required(), mcp.Description("Name of the tenant to create")),
		mcp.WithString("cluster", mcp.Required(), mcp.Description("Name of the cluster the tenant belongs to")),
		mcp.WithString("priority", mcp.Required(), mcp.Description("Zone priority of the tenant, e.g. zone1=1,zone2=2")),
		mcp.WithString("namespace", mcp.Description("Namespace of the tenant (default \"default\")")),
		mcp.WithString("archive_source", mcp.Description("Archive source for restore")),
		mcp.WithString("bak_data_source", mcp.Description("Backup data source for restore")),
		mcp.WithString("bak_encryption_password", mcp.Description("Password of the encrypted backup")),
		mcp.WithString("charset", mcp.Description("Charset of the tenant (default \"utf8mb4\")")),
		mcp.WithString("connect_white_list", mcp.Description("Connection white list of the tenant (default \"%\")")),
		mcp.WithString("cpu_count", mcp.Description("CPU count of each unit (default \"1\")")),
		mcp.WithString("from_tenant", mcp.Description("Source tenant when creating a standby or restored tenant")),
		mcp.WithNumber("iops_weight", mcp.Description("IOPS weight of each unit (default 1)")),
		mcp.WithString("log_disk_size", mcp.Description("Log disk size of each unit (default \"4Gi\")")),
		mcp.WithNumber("max_iops", mcp.Description("Max IOPS of each unit (default 1024)")),
		mcp.WithString("memory_size", mcp.Description("Memory size of each unit (default \"2Gi\")")),
		mcp.WithNumber("min_iops", mcp.Description("Min IOPS of each unit (default 1024)")),
		mcp.WithString("oss_access_id", mcp.Description("OSS access ID for archive storage")),
		mcp.WithString("oss_access_key", mcp.Description("OSS access key for archive storage")),
		mcp.WithBoolean("restore", mcp.Description("Restore the tenant from a backup (default false)")),
		mcp.WithString("restore_type", mcp.Description("Restore type, OSS or NFS (default \"OSS\")")),
		mcp.WithString("root_password", mcp.Description("Root password of the tenant, generated when unset")),
		mcp.WithString("tenant_name_override", mcp.Description("Tenant name inside OceanBase, defaults to the Kubernetes name")),
		mcp.WithNumber("unit_number", mcp.Description("Unit number of the tenant (default 1)")),
		mcp.WithBoolean("unlimited", mcp.Description("Replay without a time bound (default true)")),
		mcp.WithString("until_timestamp", mcp.Description("Timestamp bound for restore")),
	)
	ts.server.AddTool(tool, ts.handleCreateTenant)
}

func (ts *ToolServer) handleCreateTenant(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, namespace, errResult := tenantScope(req)
	if errResult != nil {
		return errResult, nil
	}
	cluster := tools.StringOr(req, "cluster", "")
	if cluster == "" {
		return mcp.NewToolResultError("cluster is required"), nil
	}
	if err := okctl.ValidateIdentifier(cluster, "cluster name"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	priority := tools.StringOr(req, "priority", "")
	if priority == "" {
		return mcp.NewToolResultError("priority is required, e.g. zone1=1,zone2=2"), nil
	}
	if tools.StringOr(req, "from_tenant", "") != "" && tools.StringOr(req, "root_password", "") == "" {
		return mcp.NewToolResultError("root_password of the primary tenant is required when creating a standby tenant"), nil
	}

	args := []string{"tenant", "create", name, "--cluster=" + cluster, "-n", namespace, "--priority", priority}
	optionalStrings := []struct {
		arg  string
		flag string
	}{
		{"archive_source", "--archive-source"},
		{"bak_data_source", "--bak-data-source"},
		{"bak_encryption_password", "--bak-encryption-password"},
		{"charset", "--charset"},
		{"connect_white_list", "--connect-white-list"},
		{"cpu_count", "--cpu-count"},
		{"from_tenant", "--from"},
		{"log_disk_size", "--log-disk-size"},
		{"memory_size", "--memory-size"},
		{"oss_access_id", "--oss-access-id"},
		{"oss_access_key", "--oss-access-key"},
		{"restore_type", "--restore-type"},
		{"root_password", "--root-password"},
		{"tenant_name_override", "--tenant-name"},
		{"until_timestamp", "--until-timestamp"},
	}
	for _, opt := range optionalStrings {
		if v := tools.StringOr(req, opt.arg, ""); v != "" {
			args = append(args, opt.flag, v)
		}
	}
	optionalInts := []struct {
		arg  string
		flag string
	}{
		{"iops_weight", "--iops-weight"},
		{"max_iops", "--max-iops"},
		{"min_iops", "--min-iops"},
		{"unit_number", "--unit-number"},
	}
	for _, opt := range optionalInts {
		if v := tools.IntOr(req, opt.arg, 0); v != 0 {
			args = append(args, opt.flag, strconv.Itoa(v))
		}
	}
	if tools.BoolOr(req, "restore", false) {
		args = append(args, "-r")
	}
	if unlimited := tools.OptionalBool(req, "unlimited"); unlimited != nil {
		args = append(args, "--unlimited", strconv.FormatBool(*unlimited))
	}

	out, err := ts.runner.Run(ctx, "okctl", args...)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create tenant: %v", err)), nil
	}

	ready, err := okctl.WaitReady(ctx, ts.runner, name, createReadyRetries, createReadyInterval, "tenant", "list", "-p", namespace)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to wait for tenant: %v", err)), nil
	}
	if !ready {
		return mcp.NewToolResultText(fmt.Sprintf("%s\nwarning: tenant %s was created but did not reach running state in time, check its status manually", out, name)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s\ntenant %s is created and ready", out, name)), nil
}

func (ts *ToolServer) registerDeleteTenant() {
	tool := mcp.NewTool("delete_tenant",
		mcp.WithDescription("Delete an OceanBase tenant from a namespace"),
		mcp.WithString("tenant_name", mcp.Required(), mcp.Description("Name of the tenant to delete")),
		mcp.WithString("namespace", mcp.Description("Namespace of the tenant (default \"default\")")),
	)
	ts.server.AddTool(tool, ts.handleDeleteTenant)
}

func (ts *ToolServer) handleDeleteTenant(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, namespace, errResult := tenantScope(req)
	if errResult != nil {
		return errResult, nil
	}
	out, err := ts.runner.Run(ctx, "okctl", "tenant", "delete", name, "-n", namespace)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to delete tenant: %v", err)), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (ts *ToolServer) registerScaleTenant() {
	tool := mcp.NewTool("scale_tenant",
		mcp.WithDescription("Scale the unit resources of an OceanBase tenant"),
		mcp.WithString("tenant_name", mcp.Required(), mcp.Description("Name of the tenant to scale")),
		mcp.WithString("namespace", mcp.Description("Namespace of the tenant (default \"default\")")),
		mcp.WithString("cpu_count", mcp.Description("CPU count of each unit")),
		mcp.WithNumber("iops_weight", mcp.Description("IOPS weight of each unit")),
		mcp.WithString("log_disk_size", mcp.Description("Log disk size of each unit")),
		mcp.WithNumber("max_iops", mcp.Description("Max IOPS of each unit")),
		mcp.WithString("memory_size", mcp.Description("Memory size of each unit")),
		mcp.WithNumber("min_iops", mcp.Description("Min IOPS of each unit")),
		mcp.WithNumber("unit_number", mcp.Description("Unit number of the tenant")),
		mcp.WithBoolean("force", mcp.Description("Skip the confirmation prompt (default false)")),
	)
	ts.server.AddTool(tool, ts.handleScaleTenant)
}

func (ts *ToolServer) handleScaleTenant(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, namespace, errResult := tenantScope(req)
	if errResult != nil {
		return errResult, nil
	}
	args := []string{"tenant", "scale", name, "-n", namespace}
	if v := tools.StringOr(req, "cpu_count", ""); v != "" {
		args = append(args, "--cpu-count", v)
	}
	if tools.BoolOr(req, "force", false) {
		args = append(args, "-f")
	}
	if v := tools.IntOr(req, "iops_weight", 0); v != 0 {
		args = append(args, "--iops-weight", strconv.Itoa(v))
	}
	if v := tools.StringOr(req, "log_disk_size", ""); v != "" {
		args = append(args, "--log-disk-size", v)
	}
	if v := tools.IntOr(req, "max_iops", 0); v != 0 {
		args = append(args, "--max-iops", strconv.Itoa(v))
	}
	if v := tools.StringOr(req, "memory_size", ""); v != "" {
		args = append(args, "--memory-size", v)
	}
	if v := tools.IntOr(req, "min_iops", 0); v != 0 {
		args = append(args, "--min-iops", strconv.Itoa(v))
	}
	if v := tools.IntOr(req, "unit_number", 0); v != 0 {
		args = append(args, "--unit-number", strconv.Itoa(v))
	}
	out, err := ts.runner.Run(ctx, "okctl", args...)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to scale tenant: %v", err)), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (ts *ToolServer) registerUpdateTenant() {
	tool := mcp.NewTool("update_tenant",
		mcp.WithDescription("Update the connection white list or zone priority of an OceanBase tenant"),
		mcp.WithString("tenant_name", mcp.Required(), mcp.Description("Name of the tenant to update")),
		mcp.WithString("namespace", mcp.Description("Namespace of the tenant (default \"default\")")),
		mcp.WithString("connect_white_list", mcp.Description("New connection white list of the tenant")),
		mcp.WithString("priority", mcp.Description("New zone priority of the tenant, e.g. zone1=1,zone2=2")),
		mcp.WithBoolean("force", mcp.Description("Skip the confirmation prompt (default false)")),
	)
	ts.server.AddTool(tool, ts.handleUpdateTenant)
}

func (ts *ToolServer) handleUpdateTenant(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, namespace, errResult := tenantScope(req)
	if errResult != nil {
		return errResult, nil
	}
	args := []string{"tenant", "update", name, "-n", namespace}
	if v := tools.StringOr(req, "connect_white_list", ""); v != "" {
		args = append(args, "--connect-white-list", v)
	}
	if tools.BoolOr(req, "force", false) {
		args = append(args, "-f")
	}
	if v := tools.StringOr(req, "priority", ""); v != "" {
		args = append(args, "--priority", v)
	}
	out, err := ts.runner.Run(ctx, "okctl", args...)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to update tenant: %v", err)), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (ts *ToolServer) registerUpgradeTenant() {
	tool := mcp.NewTool("upgrade_tenant",
		mcp.WithDescription("Upgrade the compatible version of an OceanBase tenant to match its cluster"),
		mcp.WithString("tenant_name", mcp.Required(), mcp.Description("Name of the tenant to upgrade")),
		mcp.WithString("namespace", mcp.Description("Namespace of the tenant (default \"default\")")),
		mcp.WithBoolean("force", mcp.Description("Skip the confirmation prompt (default false)")),
	)
	ts.server.AddTool(tool, ts.handleUpgradeTenant)
}

func (ts *ToolServer) handleUpgradeTenant(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, namespace, errResult := tenantScope(req)
	if errResult != nil {
		return errResult, nil
	}
	args := []string{"tenant", "upgrade", name, "-n", namespace}
	if tools.BoolOr(req, "force", false) {
		args = append(args, "-f")
	}
	out, err := ts.runner.Run(ctx, "okctl", args...)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to upgrade tenant: %v", err)), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (ts *ToolServer) registerChangeTenantPassword() {
	tool := mcp.NewTool("change_tenant_password",
		mcp.WithDescription("Change the root password of an OceanBase tenant"),
		mcp.WithString("tenant_name", mcp.Required(), mcp.Description("Name of the tenant")),
		mcp.WithString("password", mcp.Required(), mcp.Description("New root password")),
		mcp.WithString("namespace", mcp.Description("Namespace of the tenant (default \"default\")")),
		mcp.WithBoolean("force", mcp.Description("Skip the confirmation prompt (default false)")),
	)
	ts.server.AddTool(tool, ts.handleChangeTenantPassword)
}

func (ts *ToolServer) handleChangeTenantPassword(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, namespace, errResult := tenantScope(req)
	if errResult != nil {
		return errResult, nil
	}
	password := tools.StringOr(req, "password", "")
	if password == "" {
		return mcp.NewToolResultError("password is required"), nil
	}
	args := []string{"tenant", "changepwd", name, "--password=" + password, "-n", namespace}
	if tools.BoolOr(req, "force", false) {
		args = append(args, "-f")
	}
	out, err := ts.runner.Run(ctx, "okctl", args...)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to change tenant password: %v", err)), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (ts *ToolServer) registerActivateStandbyTenant() {
	tool := mcp.NewTool("activate_standby_tenant",
		mcp.WithDescription("Activate a standby OceanBase tenant to primary"),
		mcp.WithString("tenant_name", mcp.Required(), mcp.Description("Name of the standby tenant to activate")),
		mcp.WithString("namespace", mcp.Description("Namespace of the tenant (default \"default\")")),
		mcp.WithBoolean("force", mcp.Description("Skip the confirmation prompt (default false)")),
	)
	ts.server.AddTool(tool, ts.handleActivateStandbyTenant)
}

func (ts *ToolServer) handleActivateStandbyTenant(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, namespace, errResult := tenantScope(req)
	if errResult != nil {
		return errResult, nil
	}
	args := []string{"tenant", "activate", name, "-n", namespace}
	if tools.BoolOr(req, "force", false) {
		args = append(args, "-f")
	}
	out, err := ts.runner.Run(ctx, "okctl", args...)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to activate tenant: %v", err)), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (ts *ToolServer) registerReplayStandbyLog() {
	tool := mcp.NewTool("replay_standby_log",
		mcp.WithDescription("Replay the log of a standby OceanBase tenant"),
		mcp.WithString("tenant_name", mcp.Required(), mcp.Description("Name of the standby tenant")),
		mcp.WithString("namespace", mcp.Description("Namespace of the tenant (default \"default\")")),
		mcp.WithBoolean("force", mcp.Description("Skip the confirmation prompt (default false)")),
		mcp.WithBoolean("unlimited", mcp.Description("Replay without a time bound")),
		mcp.WithString("until_timestamp", mcp.Description("Replay up to the given timestamp")),
	)
	ts.server.AddTool(tool, ts.handleReplayStandbyLog)
}

func (ts *ToolServer) handleReplayStandbyLog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, namespace, errResult := tenantScope(req)
	if errResult != nil {
		return errResult, nil
	}
	args := []string{"tenant", "replaylog", name, "-n", namespace}
	if tools.BoolOr(req, "force", false) {
		args = append(args, "-f")
	}
	if unlimited := tools.OptionalBool(req, "unlimited"); unlimited != nil {
		args = append(args, "--unlimited", strconv.FormatBool(*unlimited))
	}
	if v := tools.StringOr(req, "until_timestamp", ""); v != "" {
		args = append(args, "--until-timestamp", v)
	}
	out, err := ts.runner.Run(ctx, "okctl", args...)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to replay standby log: %v", err)), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (ts *ToolServer) registerSwitchoverTenant() {
	tool := mcp.NewTool("switchover_tenant",
		mcp.WithDescription("Switch the roles of a primary and a standby OceanBase tenant"),
		mcp.WithString("primary_tenant_name", mcp.Required(), mcp.Description("Name of the primary tenant")),
		mcp.WithString("standby_tenant_name", mcp.Required(), mcp.Description("Name of the standby tenant")),
		mcp.WithString("namespace", mcp.Description("Namespace of the tenants (default \"default\")")),
		mcp.WithBoolean("force", mcp.Description("Skip the confirmation prompt (default false)")),
	)
	ts.server.AddTool(tool, ts.handleSwitchoverTenant)
}

func (ts *ToolServer) handleSwitchoverTenant(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	primary := tools.StringOr(req, "primary_tenant_name", "")
	standby := tools.StringOr(req, "standby_tenant_name", "")
	namespace := tools.StringOr(req, "namespace", "default")
	if primary == "" || standby == "" {
		return mcp.NewToolResultError("primary_tenant_name and standby_tenant_name are required"), nil
	}
	if err := okctl.ValidateIdentifier(primary, "primary tenant name"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := okctl.ValidateIdentifier(standby, "standby tenant name"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := okctl.ValidateIdentifier(namespace, "namespace"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	args := []string{"tenant", "switchover", primary, standby, "-n", namespace}
	if tools.BoolOr(req, "force", false) {
		args = append(args, "-f")
	}
	out, err := ts.runner.Run(ctx, "okctl", args...)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to switch over tenants: %v", err)), nil
	}
	return mcp.NewToolResultText(out), nil
}
