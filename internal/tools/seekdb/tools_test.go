package seekdb

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanbase/awesome-oceanbase-mcp/internal/seekdb"
	"github.com/oceanbase/awesome-oceanbase-mcp/internal/server"
)

// fakeExec records every statement and replays canned results in order.
// Once the queue is drained it keeps returning empty successful results.
type fakeExec struct {
	executed []string
	results  []*seekdb.Result
}

func (f *fakeExec) Execute(_ context.Context, query string) *seekdb.Result {
	f.executed = append(f.executed, query)
	if len(f.results) == 0 {
		return &seekdb.Result{SQL: query, Success: true}
	}
	res := f.results[0]
	f.results = f.results[1:]
	res.SQL = query
	return res
}

func okRows(rows [][]string) *seekdb.Result {
	return &seekdb.Result{Success: true, Data: rows}
}

func failWith(msg string) *seekdb.Result {
	return &seekdb.Result{Success: false, Error: &msg}
}

func newTestServer(exec *fakeExec) *ToolServer {
	return NewToolServer(server.New("test", "0.0.0", nil), exec, nil)
}

func callReq(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultEnvelope(t *testing.T, res *mcp.CallToolResult) map[string]any {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &out))
	return out
}

func TestExecuteSQLRequiresStatement(t *testing.T) {
	ts := newTestServer(&fakeExec{})

	res, err := ts.handleExecuteSQL(context.Background(), callReq(nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestCreateCollectionExecutesTableAndIndex(t *testing.T) {
	exec := &fakeExec{}
	ts := newTestServer(exec)

	res, err := ts.handleCreateCollection(context.Background(), callReq(map[string]any{
		"collection_name": "docs",
		"dimension":       float64(3),
		"distance":        "cosine",
	}))
	require.NoError(t, err)

	env := resultEnvelope(t, res)
	assert.Equal(t, true, env["success"])

	want := []string{
		"CREATE TABLE `docs` (id VARCHAR(255) PRIMARY KEY, document LONGTEXT, metadata JSON, embedding VECTOR(3))",
		"CREATE VECTOR INDEX `idx_docs_embedding` ON `docs` (embedding) WITH (distance=cosine, type=hnsw, lib=vsag)",
	}
	if diff := cmp.Diff(want, exec.executed); diff != "" {
		t.Errorf("executed SQL mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateCollectionRejectsBadName(t *testing.T) {
	exec := &fakeExec{}
	ts := newTestServer(exec)

	res, err := ts.handleCreateCollection(context.Background(), callReq(map[string]any{
		"collection_name": "docs; DROP TABLE users",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Empty(t, exec.executed)
}

func TestListCollectionsExtractsNames(t *testing.T) {
	exec := &fakeExec{results: []*seekdb.Result{okRows([][]string{{"docs"}, {"notes"}})}}
	ts := newTestServer(exec)

	res, err := ts.handleListCollections(context.Background(), callReq(nil))
	require.NoError(t, err)

	env := resultEnvelope(t, res)
	assert.Equal(t, true, env["success"])
	assert.Equal(t, []any{"docs", "notes"}, env["collections"])
	assert.Equal(t, float64(2), env["count"])
}

func TestQueryCollectionRunsOneQueryPerVector(t *testing.T) {
	exec := &fakeExec{results: []*seekdb.Result{
		okRows([][]string{{"a", "doc a", "NULL", "0.1"}}),
		okRows([][]string{{"b", "doc b", "NULL", "0.2"}}),
	}}
	ts := newTestServer(exec)

	res, err := ts.handleQueryCollection(context.Background(), callReq(map[string]any{
		"collection_name":  "docs",
		"query_embeddings": []any{[]any{0.1, 0.2}, []any{0.3, 0.4}},
		"n_results":        float64(5),
	}))
	require.NoError(t, err)

	env := resultEnvelope(t, res)
	assert.Equal(t, true, env["success"])

	require.Len(t, exec.executed, 2)
	assert.Contains(t, exec.executed[0], "l2_distance(embedding, '[0.1,0.2]')")
	assert.Contains(t, exec.executed[1], "l2_distance(embedding, '[0.3,0.4]')")
	assert.Contains(t, exec.executed[0], "APPROXIMATE LIMIT 5")

	data := env["data"].([]any)
	require.Len(t, data, 2)
}

func TestQueryCollectionRequiresEmbeddings(t *testing.T) {
	ts := newTestServer(&fakeExec{})

	res, err := ts.handleQueryCollection(context.Background(), callReq(map[string]any{
		"collection_name": "docs",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestDeleteDocumentsReportsIDs(t *testing.T) {
	exec := &fakeExec{}
	ts := newTestServer(exec)

	res, err := ts.handleDeleteDocuments(context.Background(), callReq(map[string]any{
		"collection_name": "docs",
		"ids":             []any{"a", "b"},
	}))
	require.NoError(t, err)

	env := resultEnvelope(t, res)
	assert.Equal(t, true, env["success"])
	assert.Equal(t, []any{"a", "b"}, env["deleted_ids"])
	require.Len(t, exec.executed, 1)
	assert.Equal(t, "DELETE FROM `docs` WHERE id IN ('a', 'b')", exec.executed[0])
}

func TestFullTextSearchEnvelopeCarriesSQL(t *testing.T) {
	exec := &fakeExec{results: []*seekdb.Result{okRows([][]string{{"1", "go tutorial"}})}}
	ts := newTestServer(exec)

	res, err := ts.handleFullTextSearch(context.Background(), callReq(map[string]any{
		"table_name":  "articles",
		"column_name": "body",
		"search_expr": "+golang",
	}))
	require.NoError(t, err)

	env := resultEnvelope(t, res)
	assert.Equal(t, true, env["success"])
	assert.Contains(t, env["sql"], "MATCH (`body`) AGAINST ('+golang' IN BOOLEAN MODE)")
}

func TestCreateSemanticIndexRequiresRegisteredModel(t *testing.T) {
	exec := &fakeExec{results: []*seekdb.Result{okRows([][]string{{"0"}})}}
	ts := newTestServer(exec)

	res, err := ts.handleCreateSemanticIndex(context.Background(), callReq(map[string]any{
		"table_name":  "articles",
		"column_name": "body",
		"index_name":  "idx_body",
		"model_name":  "ob_embed",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	// Only the endpoint lookup ran, not the CREATE VECTOR INDEX.
	require.Len(t, exec.executed, 1)
	assert.Contains(t, exec.executed[0], "DBA_OB_AI_MODEL_ENDPOINTS")
}

func TestCreateSemanticIndexBuildsIndex(t *testing.T) {
	exec := &fakeExec{results: []*seekdb.Result{
		okRows([][]string{{"1"}}),
		okRows(nil),
	}}
	ts := newTestServer(exec)

	res, err := ts.handleCreateSemanticIndex(context.Background(), callReq(map[string]any{
		"table_name":  "articles",
		"column_name": "body",
		"index_name":  "idx_body",
		"model_name":  "ob_embed",
	}))
	require.NoError(t, err)

	env := resultEnvelope(t, res)
	assert.Equal(t, true, env["success"])
	require.Len(t, exec.executed, 2)
	assert.Equal(t,
		"CREATE VECTOR INDEX `idx_body` ON `articles` (`body`) WITH (distance=l2, lib=vsag, type=hnsw, model=ob_embed, dim=1024, sync_mode=immediate)",
		exec.executed[1])
}

func TestAICompleteReturnsResponse(t *testing.T) {
	exec := &fakeExec{results: []*seekdb.Result{okRows([][]string{{"positive"}})}}
	ts := newTestServer(exec)

	res, err := ts.handleAIComplete(context.Background(), callReq(map[string]any{
		"model_name": "ob_complete",
		"prompt":     "Classify: great product",
	}))
	require.NoError(t, err)

	env := resultEnvelope(t, res)
	assert.Equal(t, true, env["success"])
	assert.Equal(t, "positive", env["response"])
	require.Len(t, exec.executed, 1)
	assert.Equal(t, "SELECT AI_COMPLETE('ob_complete', 'Classify: great product') AS response", exec.executed[0])
}

func TestAIRerankMapsDocumentsByIndex(t *testing.T) {
	ranking := `[{"index": 2, "relevance_score": 0.9}, {"index": 0, "relevance_score": 0.4}]`
	exec := &fakeExec{results: []*seekdb.Result{okRows([][]string{{ranking}})}}
	ts := newTestServer(exec)

	res, err := ts.handleAIRerank(context.Background(), callReq(map[string]any{
		"model_name": "ob_rerank",
		"query":      "fruit",
		"documents":  []any{"carrot", "potato", "apple"},
	}))
	require.NoError(t, err)

	env := resultEnvelope(t, res)
	assert.Equal(t, true, env["success"])
	assert.Equal(t, []any{"apple", "carrot"}, env["reranked_documents"])
}

func TestExecutionFailureFoldsIntoEnvelope(t *testing.T) {
	exec := &fakeExec{results: []*seekdb.Result{failWith("[Error]: table not found")}}
	ts := newTestServer(exec)

	res, err := ts.handlePeekCollection(context.Background(), callReq(map[string]any{
		"collection_name": "missing",
	}))
	require.NoError(t, err)

	env := resultEnvelope(t, res)
	assert.Equal(t, false, env["success"])
	assert.Equal(t, "[Error]: table not found", env["error"])
}
