package okctl

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/oceanbase/awesome-oceanbase-mcp/internal/tools"
)

func (ts *ToolServer) registerListBackupPolicies() {
	tool := mcp.NewTool("list_backup_policies",
		mcp.WithDescription("List the backup policies of an OceanBase cluster"),
		mcp.WithString("cluster_name", mcp.Required(), mcp.Description("Name of the cluster")),
		mcp.WithString("namespace", mcp.Description("Namespace of the cluster (default \"default\")")),
	)
	ts.server.AddTool(tool, ts.handleListBackupPolicies)
}

func (ts *ToolServer) handleListBackupPolicies(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, namespace, errResult := clusterScope(req)
	if errResult != nil {
		return errResult, nil
	}
	out, err := ts.runner.Run(ctx, "okctl", "backup-policy", "list", name, "-n", namespace)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list backup policies: %v", err)), nil
	}
	if out == "" {
		return mcp.NewToolResultText("no backup policies found"), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (ts *ToolServer) registerCreateBackupPolicy() {
	tool := mcp.NewTool("create_backup_policy",
		mcp.WithDescription("Create a backup policy for an OceanBase tenant"),
		mcp.WithString("tenant_name", mcp.Required(), mcp.Description("Name of the tenant")),
		mcp.WithString("namespace", mcp.Description("Namespace of the tenant (default \"default\")")),
		mcp.WithString("archive_path", mcp.Description("Path of the archive storage")),
		mcp.WithString("bak_data_path", mcp.Description("Path of the backup data storage")),
		mcp.WithString("bak_encryption_password", mcp.Description("Password to encrypt the backup")),
		mcp.WithString("dest_type", mcp.Description("Destination type, OSS or NFS")),
		mcp.WithString("full", mcp.Description("Crontab schedule of full backups, e.g. \"0 0 * * 6\"")),
		mcp.WithString("inc", mcp.Description("Crontab schedule of incremental backups")),
		mcp.WithNumber("job_keep_days", mcp.Description("Days to keep backup jobs")),
		mcp.WithString("oss_access_id", mcp.Description("OSS access ID for the backup destination")),
		mcp.WithString("oss_access_key", mcp.Description("OSS access key for the backup destination")),
		mcp.WithNumber("recovery_days", mcp.Description("Days the tenant stays recoverable")),
	)
	ts.server.AddTool(tool, ts.handleCreateBackupPolicy)
}

func (ts *ToolServer) handleCreateBackupPolicy(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, namespace, errResult := tenantScope(req)
	if errResult != nil {
		return errResult, nil
	}
	args := []string{"backup-policy", "create", name, "-n", namespace}
	optional := []struct {
		arg  string
		flag string
	}{
		{"archive_path", "--archive-path"},
		{"bak_data_path", "--bak-data-path"},
		{"bak_encryption_password", "--bak-encryption-password"},
		{"dest_type", "--dest-type"},
		{"full", "--full"},
		{"inc", "--inc"},
		{"oss_access_id", "--oss-access-id"},
		{"oss_access_key", "--oss-access-key"},
	}
	for _, opt := range optional {
		if v := tools.StringOr(req, opt.arg, ""); v != "" {
			args = append(args, opt.flag, v)
		}
	}
	if v := tools.IntOr(req, "job_keep_days", 0); v != 0 {
		args = append(args, "--job-keep-days", strconv.Itoa(v))
	}
	if v := tools.IntOr(req, "recovery_days", 0); v != 0 {
		args = append(args, "--recovery-days", strconv.Itoa(v))
	}
	out, err := ts.runner.Run(ctx, "okctl", args...)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create backup policy: %v", err)), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (ts *ToolServer) registerShowBackupPolicy() {
	tool := mcp.NewTool("show_backup_policy",
		mcp.WithDescription("Show the backup policy of an OceanBase tenant and its recent backup jobs"),
		mcp.WithString("tenant_name", mcp.Required(), mcp.Description("Name of the tenant")),
		mcp.WithString("namespace", mcp.Description("Namespace of the tenant (default \"default\")")),
		mcp.WithString("job_type", mcp.Description("Type of backup jobs to show, FULL or INC")),
		mcp.WithNumber("limit", mcp.Description("Number of backup jobs to show")),
	)
	ts.server.AddTool(tool, ts.handleShowBackupPolicy)
}

func (ts *ToolServer) handleShowBackupPolicy(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, namespace, errResult := tenantScope(req)
	if errResult != nil {
		return errResult, nil
	}
	args := []string{"backup-policy", "show", name, "-n", namespace}
	if v := tools.StringOr(req, "job_type", ""); v != "" {
		args = append(args, "-t", v)
	}
	if v := tools.IntOr(req, "limit", 0); v != 0 {
		args = append(args, "--limit", strconv.Itoa(v))
	}
	out, err := ts.runner.Run(ctx, "okctl", args...)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to show backup policy: %v", err)), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (ts *ToolServer) registerPauseBackupPolicy() {
	tool := mcp.NewTool("pause_backup_policy",
		mcp.WithDescription("Pause the backup policy of an OceanBase tenant"),
		mcp.WithString("tenant_name", mcp.Required(), mcp.Description("Name of the tenant")),
		mcp.WithString("namespace", mcp.Description("Namespace of the tenant (default \"default\")")),
	)
	ts.server.AddTool(tool, ts.handlePauseBackupPolicy)
}

func (ts *ToolServer) handlePauseBackupPolicy(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, namespace, errResult := tenantScope(req)
	if errResult != nil {
		return errResult, nil
	}
	out, err := ts.runner.Run(ctx, "okctl", "backup-policy", "pause", name, "-n", namespace)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to pause backup policy: %v", err)), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (ts *ToolServer) registerResumeBackupPolicy() {
	tool := mcp.NewTool("resume_backup_policy",
		mcp.WithDescription("Resume the paused backup policy of an OceanBase tenant"),
		mcp.WithString("tenant_name", mcp.Required(), mcp.Description("Name of the tenant")),
		mcp.WithString("namespace", mcp.Description("Namespace of the tenant (default \"default\")")),
	)
	ts.server.AddTool(tool, ts.handleResumeBackupPolicy)
}

func (ts *ToolServer) handleResumeBackupPolicy(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, namespace, errResult := tenantScope(req)
	if errResult != nil {
		return errResult, nil
	}
	out, err := ts.runner.Run(ctx, "okctl", "backup-policy", "resume", name, "-n", namespace)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to resume backup policy: %v", err)), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (ts *ToolServer) registerUpdateBackupPolicy() {
	tool := mcp.NewTool("update_backup_policy",
		mcp.WithDescription("Update the schedules or retention of a tenant backup policy"),
		mcp.WithString("tenant_name", mcp.Required(), mcp.Description("Name of the tenant")),
		mcp.WithString("namespace", mcp.Description("Namespace of the tenant (default \"default\")")),
		mcp.WithString("full", mcp.Description("Crontab schedule of full backups")),
		mcp.WithString("inc", mcp.Description("Crontab schedule of incremental backups")),
		mcp.WithNumber("job_keep_days", mcp.Description("Days to keep backup jobs")),
		mcp.WithNumber("piece_interval_days", mcp.Description("Interval in days between archive pieces")),
		mcp.WithNumber("recovery_days", mcp.Description("Days the tenant stays recoverable")),
	)
	ts.server.AddTool(tool, ts.handleUpdateBackupPolicy)
}

func (ts *ToolServer) handleUpdateBackupPolicy(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, namespace, errResult := tenantScope(req)
	if errResult != nil {
		return errResult, nil
	}
	args := []string{"backup-policy", "update", name, "-n", namespace}
	if v := tools.StringOr(req, "full", ""); v != "" {
		args = append(args, "--full", v)
	}
	if v := tools.StringOr(req, "inc", ""); v != "" {
		args = append(args, "--inc", v)
	}
	if v := tools.IntOr(req, "job_keep_days", 0); v != 0 {
		args = append(args, "--job-keep-days", strconv.Itoa(v))
	}
	if v := tools.IntOr(req, "piece_interval_days", 0); v != 0 {
		args = append(args, "--piece-interval-days", strconv.Itoa(v))
	}
	if v := tools.IntOr(req, "recovery_days", 0); v != 0 {
		args = append(args, "--recovery-days", strconv.Itoa(v))
	}
	out, err := ts.runner.Run(ctx, "okctl", args...)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to update backup policy: %v", err)), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (ts *ToolServer) registerDeleteBackupPolicy() {
	tool := mcp.NewTool("delete_backup_policy",
		mcp.WithDescription("Delete the backup policy of an OceanBase tenant"),
		mcp.WithString("tenant_name", mcp.Required(), mcp.Description("Name of the tenant")),
		mcp.WithString("namespace", mcp.Description("Namespace of the tenant (default \"default\")")),
		mcp.WithBoolean("force", mcp.Description("Skip the confirmation prompt (default false)")),
	)
	ts.server.AddTool(tool, ts.handleDeleteBackupPolicy)
}

func (ts *ToolServer) handleDeleteBackupPolicy(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, namespace, errResult := tenantScope(req)
	if errResult != nil {
		return errResult, nil
	}
	args := []string{"backup-policy", "delete", name, "-n", namespace}
	if tools.BoolOr(req, "force", false) {
		args = append(args, "-f")
	}
	out, err := ts.runner.Run(ctx, "okctl", args...)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to delete backup policy: %v", err)), nil
	}
	return mcp.NewToolResultText(out), nil
}
