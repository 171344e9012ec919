package okctl

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanbase/awesome-oceanbase-mcp/internal/server"
)

// fakeRunner records every invocation and replays a canned output.
type fakeRunner struct {
	calls  [][]string
	output string
	err    error
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.err != nil {
		return "", f.err
	}
	return f.output, nil
}

func newTestServer(runner *fakeRunner) *ToolServer {
	return NewToolServer(server.New("test", "0.0.0", nil), runner, nil, nil)
}

func callReq(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestListAllClusters(t *testing.T) {
	runner := &fakeRunner{output: "demo   running"}
	ts := newTestServer(runner)

	res, err := ts.handleListAllClusters(context.Background(), callReq(nil))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "demo   running", resultText(t, res))

	want := [][]string{{"okctl", "cluster", "list"}}
	if diff := cmp.Diff(want, runner.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestListAllClustersEmpty(t *testing.T) {
	ts := newTestServer(&fakeRunner{output: ""})

	res, err := ts.handleListAllClusters(context.Background(), callReq(nil))
	require.NoError(t, err)
	assert.Equal(t, "no clusters found", resultText(t, res))
}

func TestShowClusterRejectsUnsafeName(t *testing.T) {
	runner := &fakeRunner{}
	ts := newTestServer(runner)

	res, err := ts.handleShowCluster(context.Background(), callReq(map[string]any{
		"cluster_name": "demo; rm -rf /",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "invalid characters")
	assert.Empty(t, runner.calls, "no command should run for a rejected name")
}

func TestScaleClusterArgs(t *testing.T) {
	runner := &fakeRunner{output: "ok"}
	ts := newTestServer(runner)

	res, err := ts.handleScaleCluster(context.Background(), callReq(map[string]any{
		"cluster_name": "demo",
		"zones":        "z1=2",
		"namespace":    "oceanbase",
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	want := [][]string{{"okctl", "cluster", "scale", "demo", "-n", "oceanbase", "--zones=z1=2"}}
	if diff := cmp.Diff(want, runner.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestScaleClusterRejectsBadZones(t *testing.T) {
	ts := newTestServer(&fakeRunner{})

	res, err := ts.handleScaleCluster(context.Background(), callReq(map[string]any{
		"cluster_name": "demo",
		"zones":        "z1=1;z2",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestCreateClusterWaitsForReady(t *testing.T) {
	runner := &fakeRunner{output: "demo   running"}
	ts := newTestServer(runner)

	res, err := ts.handleCreateCluster(context.Background(), callReq(map[string]any{
		"cluster_name":  "demo",
		"zones":         "z1=1",
		"root_password": "secret",
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), "created and ready")

	want := [][]string{
		{"okctl", "cluster", "create", "demo", "-n", "default", "--root-password", "secret", "--zones", "z1=1"},
		{"okctl", "cluster", "list"},
	}
	if diff := cmp.Diff(want, runner.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateTenantRequiresRootPasswordForStandby(t *testing.T) {
	runner := &fakeRunner{}
	ts := newTestServer(runner)

	res, err := ts.handleCreateTenant(context.Background(), callReq(map[string]any{
		"tenant_name": "t1",
		"cluster":     "demo",
		"priority":    "zone1=1",
		"from_tenant": "primary",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "root_password")
	assert.Empty(t, runner.calls)
}

func TestCreateTenantArgs(t *testing.T) {
	runner := &fakeRunner{output: "t1   running"}
	ts := newTestServer(runner)

	res, err := ts.handleCreateTenant(context.Background(), callReq(map[string]any{
		"tenant_name": "t1",
		"cluster":     "demo",
		"priority":    "zone1=1",
		"namespace":   "oceanbase",
		"charset":     "utf8mb4",
		"unit_number": float64(2),
		"restore":     true,
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	want := [][]string{
		{
			"okctl", "tenant", "create", "t1", "--cluster=demo", "-n", "oceanbase",
			"--priority", "zone1=1", "--charset", "utf8mb4", "--unit-number", "2", "-r",
		},
		{"okctl", "tenant", "list", "-p", "oceanbase"},
	}
	if diff := cmp.Diff(want, runner.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestChangeTenantPasswordArgs(t *testing.T) {
	runner := &fakeRunner{output: "ok"}
	ts := newTestServer(runner)

	_, err := ts.handleChangeTenantPassword(context.Background(), callReq(map[string]any{
		"tenant_name": "t1",
		"password":    "newpass",
		"force":       true,
	}))
	require.NoError(t, err)

	want := [][]string{{"okctl", "tenant", "changepwd", "t1", "--password=newpass", "-n", "default", "-f"}}
	if diff := cmp.Diff(want, runner.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestSwitchoverTenantArgs(t *testing.T) {
	runner := &fakeRunner{output: "ok"}
	ts := newTestServer(runner)

	_, err := ts.handleSwitchoverTenant(context.Background(), callReq(map[string]any{
		"primary_tenant_name": "t1",
		"standby_tenant_name": "t2",
	}))
	require.NoError(t, err)

	want := [][]string{{"okctl", "tenant", "switchover", "t1", "t2", "-n", "default"}}
	if diff := cmp.Diff(want, runner.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestShowBackupPolicyArgs(t *testing.T) {
	runner := &fakeRunner{output: "policy"}
	ts := newTestServer(runner)

	_, err := ts.handleShowBackupPolicy(context.Background(), callReq(map[string]any{
		"tenant_name": "t1",
		"job_type":    "FULL",
		"limit":       float64(5),
	}))
	require.NoError(t, err)

	want := [][]string{{"okctl", "backup-policy", "show", "t1", "-n", "default", "-t", "FULL", "--limit", "5"}}
	if diff := cmp.Diff(want, runner.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestCommandFailureIsToolError(t *testing.T) {
	runner := &fakeRunner{err: errors.New("command failed: not found")}
	ts := newTestServer(runner)

	res, err := ts.handleDeleteTenant(context.Background(), callReq(map[string]any{
		"tenant_name": "t1",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "Failed to delete tenant")
}

func TestInstallComponentRejectsUnknown(t *testing.T) {
	runner := &fakeRunner{}
	ts := newTestServer(runner)

	res, err := ts.handleInstallComponent(context.Background(), callReq(map[string]any{
		"component_name": "mystery",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Empty(t, runner.calls)
}

func TestCheckComponentOperatorFallsBackToKubectl(t *testing.T) {
	runner := &fakeRunner{output: "ob-operator 1/1"}
	ts := newTestServer(runner)

	res, err := ts.handleCheckComponentInstalled(context.Background(), callReq(map[string]any{
		"component_name": "ob-operator",
	}))
	require.NoError(t, err)
	assert.Equal(t, "ob-operator is installed", resultText(t, res))

	want := [][]string{{"kubectl", "get", "deployment", "-n", "oceanbase", "ob-operator"}}
	if diff := cmp.Diff(want, runner.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}
