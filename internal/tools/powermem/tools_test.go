package powermem

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanbase/awesome-oceanbase-mcp/internal/powermem"
	"github.com/oceanbase/awesome-oceanbase-mcp/internal/server"
)

func newTestServer(t *testing.T) *ToolServer {
	t.Helper()
	store, err := powermem.Open(filepath.Join(t.TempDir(), "memories.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewToolServer(server.New("test", "0.0.0", nil), store, nil)
}

func callReq(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultJSON(t *testing.T, res *mcp.CallToolResult) map[string]any {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &out))
	return out
}

func addMemory(t *testing.T, ts *ToolServer, args map[string]any) string {
	t.Helper()
	res, err := ts.handleAddMemory(context.Background(), callReq(args))
	require.NoError(t, err)
	require.False(t, res.IsError)
	results := resultJSON(t, res)["results"].([]any)
	require.Len(t, results, 1)
	return results[0].(map[string]any)["id"].(string)
}

func TestAddMemoryRequiresScope(t *testing.T) {
	ts := newTestServer(t)

	res, err := ts.handleAddMemory(context.Background(), callReq(map[string]any{
		"content": "unscoped note",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestAddAndGetMemory(t *testing.T) {
	ts := newTestServer(t)

	id := addMemory(t, ts, map[string]any{
		"content":  "prefers short replies",
		"user_id":  "alice",
		"metadata": map[string]any{"topic": "style"},
	})

	res, err := ts.handleGetMemoryByID(context.Background(), callReq(map[string]any{"memory_id": id}))
	require.NoError(t, err)

	got := resultJSON(t, res)
	assert.Equal(t, "prefers short replies", got["memory"])
	assert.Equal(t, "alice", got["user_id"])
	assert.Equal(t, map[string]any{"topic": "style"}, got["metadata"])
}

func TestGetMemoryNotFound(t *testing.T) {
	ts := newTestServer(t)

	res, err := ts.handleGetMemoryByID(context.Background(), callReq(map[string]any{"memory_id": "missing"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestSearchMemoriesScoped(t *testing.T) {
	ts := newTestServer(t)

	addMemory(t, ts, map[string]any{"content": "alice works on billing", "user_id": "alice"})
	addMemory(t, ts, map[string]any{"content": "bob works on billing", "user_id": "bob"})

	res, err := ts.handleSearchMemories(context.Background(), callReq(map[string]any{
		"query":   "billing",
		"user_id": "alice",
	}))
	require.NoError(t, err)

	results := resultJSON(t, res)["results"].([]any)
	require.Len(t, results, 1)
	assert.Equal(t, "alice works on billing", results[0].(map[string]any)["memory"])
}

func TestUpdateMemory(t *testing.T) {
	ts := newTestServer(t)

	id := addMemory(t, ts, map[string]any{"content": "draft", "run_id": "run-1"})

	res, err := ts.handleUpdateMemory(context.Background(), callReq(map[string]any{
		"memory_id": id,
		"content":   "final",
	}))
	require.NoError(t, err)
	assert.Equal(t, "final", resultJSON(t, res)["memory"])
}

func TestDeleteMemory(t *testing.T) {
	ts := newTestServer(t)

	id := addMemory(t, ts, map[string]any{"content": "temporary", "agent_id": "planner"})

	res, err := ts.handleDeleteMemory(context.Background(), callReq(map[string]any{"memory_id": id}))
	require.NoError(t, err)
	assert.Equal(t, true, resultJSON(t, res)["success"])

	res, err = ts.handleDeleteMemory(context.Background(), callReq(map[string]any{"memory_id": id}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestDeleteAllMemoriesScoped(t *testing.T) {
	ts := newTestServer(t)

	addMemory(t, ts, map[string]any{"content": "one", "run_id": "run-1"})
	addMemory(t, ts, map[string]any{"content": "two", "run_id": "run-1"})
	addMemory(t, ts, map[string]any{"content": "keep", "run_id": "run-2"})

	res, err := ts.handleDeleteAllMemories(context.Background(), callReq(map[string]any{"run_id": "run-1"}))
	require.NoError(t, err)
	assert.Equal(t, float64(2), resultJSON(t, res)["deleted"])

	res, err = ts.handleListMemories(context.Background(), callReq(map[string]any{"run_id": "run-2"}))
	require.NoError(t, err)
	assert.Equal(t, float64(1), resultJSON(t, res)["count"])
}

func TestListMemoriesRequiresScope(t *testing.T) {
	ts := newTestServer(t)

	res, err := ts.handleListMemories(context.Background(), callReq(nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
