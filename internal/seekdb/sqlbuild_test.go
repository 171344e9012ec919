package seekdb

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateIdentifier(t *testing.T) {
	assert.NoError(t, ValidateIdentifier("docs_2024", "table name"))
	assert.Error(t, ValidateIdentifier("", "table name"))
	assert.Error(t, ValidateIdentifier("docs; DROP TABLE users", "table name"))
	assert.Error(t, ValidateIdentifier("a-b", "table name"))

	long := make([]byte, 65)
	for i := range long {
		long[i] = 'a'
	}
	err := ValidateIdentifier(string(long), "table name")
	require.Error(t, err)
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestCreateCollectionSQL(t *testing.T) {
	stmts, err := CreateCollectionSQL("docs", 384, "l2")
	require.NoError(t, err)
	want := []string{
		"CREATE TABLE `docs` (id VARCHAR(255) PRIMARY KEY, document LONGTEXT, metadata JSON, embedding VECTOR(384))",
		"CREATE VECTOR INDEX `idx_docs_embedding` ON `docs` (embedding) WITH (distance=l2, type=hnsw, lib=vsag)",
	}
	if diff := cmp.Diff(want, stmts); diff != "" {
		t.Errorf("statements mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateCollectionSQLMapsInnerProduct(t *testing.T) {
	stmts, err := CreateCollectionSQL("docs", 128, "ip")
	require.NoError(t, err)
	assert.Contains(t, stmts[1], "distance=inner_product")
}

func TestCreateCollectionSQLRejectsBadInput(t *testing.T) {
	_, err := CreateCollectionSQL("docs", 0, "l2")
	assert.Error(t, err)
	_, err = CreateCollectionSQL("docs", 384, "hamming")
	assert.Error(t, err)
	_, err = CreateCollectionSQL("bad name", 384, "l2")
	assert.Error(t, err)
}

func TestInsertSQL(t *testing.T) {
	sql, err := InsertSQL("docs",
		[]string{"id1", "id2"},
		[]string{"hello", "it's fine"},
		[]map[string]any{{"k": "v"}, {"n": 2}},
	)
	require.NoError(t, err)
	want := "INSERT INTO `docs` (id, document, metadata) VALUES " +
		"('id1', 'hello', '{\"k\":\"v\"}'), ('id2', 'it''s fine', '{\"n\":2}')"
	assert.Equal(t, want, sql)
}

func TestInsertSQLLengthMismatch(t *testing.T) {
	_, err := InsertSQL("docs", []string{"id1", "id2"}, []string{"only one"}, nil)
	assert.Error(t, err)
}

func TestUpdateSQL(t *testing.T) {
	stmts, err := UpdateSQL("docs", []string{"id1"}, []string{"new text"}, nil)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	assert.Equal(t, "UPDATE `docs` SET document = 'new text' WHERE id = 'id1'", stmts[0])

	_, err = UpdateSQL("docs", []string{"id1"}, nil, nil)
	assert.Error(t, err, "update with nothing to set should fail")
}

func TestDeleteSQL(t *testing.T) {
	sql, err := DeleteSQL("docs", []string{"id1", "id2"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM `docs` WHERE id IN ('id1', 'id2')", sql)

	sql, err = DeleteSQL("docs", nil,
		map[string]any{"status": map[string]any{"$eq": "obsolete"}},
		map[string]any{"$contains": "deprecated"},
	)
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM `docs` WHERE metadata->>'$.status' = 'obsolete' AND document LIKE '%deprecated%'", sql)

	_, err = DeleteSQL("docs", nil, nil, nil)
	assert.Error(t, err, "delete without any selector should fail")
}

func TestVectorQuerySQL(t *testing.T) {
	sql, err := VectorQuerySQL("docs", []float64{0.1, 0.25}, 5,
		map[string]any{"category": "tech"}, nil)
	require.NoError(t, err)
	want := "SELECT id, document, metadata, l2_distance(embedding, '[0.1,0.25]') AS distance " +
		"FROM `docs` WHERE metadata->>'$.category' = 'tech' ORDER BY distance APPROXIMATE LIMIT 5"
	assert.Equal(t, want, sql)
}

func TestMetadataClauseOperators(t *testing.T) {
	clause, err := metadataClause(map[string]any{
		"score": map[string]any{"$gte": float64(90)},
		"year":  map[string]any{"$in": []any{float64(2023), float64(2024)}},
	})
	require.NoError(t, err)
	assert.Equal(t, "metadata->>'$.score' >= 90 AND metadata->>'$.year' IN (2023, 2024)", clause)

	_, err = metadataClause(map[string]any{"x": map[string]any{"$regex": "a"}})
	assert.Error(t, err)
}

func TestFullTextSearchSQL(t *testing.T) {
	sql, err := FullTextSearchSQL("documents", "content", "+machine +learning", "boolean", false, 10, nil)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT * FROM `documents` WHERE MATCH (`content`) AGAINST ('+machine +learning' IN BOOLEAN MODE) LIMIT 10",
		sql)

	sql, err = FullTextSearchSQL("documents", "content", "ai research", "natural", true, 3, []string{"title"})
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT `title`, MATCH (`content`) AGAINST ('ai research') AS score FROM `documents` "+
			"WHERE MATCH (`content`) AGAINST ('ai research') ORDER BY score DESC LIMIT 3",
		sql)
}

func TestCreateAIModelSQL(t *testing.T) {
	sql, err := CreateAIModelSQL("ob_embed", "dense_embedding", "BAAI/bge-m3")
	require.NoError(t, err)
	assert.Equal(t,
		`CALL DBMS_AI_SERVICE.CREATE_AI_MODEL('ob_embed', '{"model_name":"BAAI/bge-m3","type":"dense_embedding"}')`,
		sql)

	_, err = CreateAIModelSQL("ob_embed", "sparse", "x")
	assert.Error(t, err)
}

func TestAICompleteSQL(t *testing.T) {
	sql, err := AICompleteSQL("ob_complete", "What's new?", nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT AI_COMPLETE('ob_complete', 'What''s new?') AS response", sql)

	sql, err = AICompleteSQL("ob_complete", "Recommend {0} of the {1}", []string{"three", "phones"})
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT AI_COMPLETE('ob_complete', AI_PROMPT('Recommend {0} of the {1}', 'three', 'phones')) AS response",
		sql)
}

func TestAIRerankSQL(t *testing.T) {
	sql, err := AIRerankSQL("ob_rerank", "Apple", []string{"apple", "banana"})
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT AI_RERANK('ob_rerank', 'Apple', '["apple","banana"]') AS rerank_result`,
		sql)
}

func TestCreateSemanticIndexSQL(t *testing.T) {
	sql, err := CreateSemanticIndexSQL("items", "doc", "vector_idx", "ob_embed", 1024, "l2", "immediate")
	require.NoError(t, err)
	assert.Equal(t,
		"CREATE VECTOR INDEX `vector_idx` ON `items` (`doc`) WITH (distance=l2, lib=vsag, type=hnsw, model=ob_embed, dim=1024, sync_mode=immediate)",
		sql)

	_, err = CreateSemanticIndexSQL("items", "doc", "idx", "ob_embed", 1024, "hamming", "immediate")
	assert.Error(t, err)
	_, err = CreateSemanticIndexSQL("items", "doc", "idx", "ob_embed", 1024, "l2", "eventually")
	assert.Error(t, err)
}

func TestSemanticSearchSQLEscapesQuery(t *testing.T) {
	sql, err := SemanticSearchSQL("items", "doc", "it's a flower", 3, []string{"id", "doc"})
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT `id`, `doc` FROM `items` ORDER BY semantic_distance(`doc`, 'it''s a flower') APPROXIMATE LIMIT 3",
		sql)
}

func TestSemanticVectorSearchSQL(t *testing.T) {
	sql, err := SemanticVectorSearchSQL("items", "doc", []float64{0.5, 1}, 10, nil)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT * FROM `items` ORDER BY semantic_vector_distance(`doc`, '[0.5,1]') APPROXIMATE LIMIT 10",
		sql)
}

// scriptedExecutor maps exact SQL strings to canned results.
type scriptedExecutor struct {
	responses map[string]*Result
	executed  []string
}

func (s *scriptedExecutor) Execute(_ context.Context, query string) *Result {
	s.executed = append(s.executed, query)
	if res, ok := s.responses[query]; ok {
		return res
	}
	return &Result{SQL: query, Success: true}
}

func rowsOf(ids ...string) [][]string {
	out := make([][]string, len(ids))
	for i, id := range ids {
		out[i] = []string{id, "doc " + id, "{}"}
	}
	return out
}

func TestHybridSearchFusesLegs(t *testing.T) {
	ftSQL := "SELECT id FROM `docs` WHERE document LIKE '%ml%' LIMIT 10"
	knnSQL := "SELECT id FROM `docs` ORDER BY l2_distance(embedding, '[0.1]') APPROXIMATE LIMIT 10"
	fetchSQL := "SELECT id, document, metadata FROM `docs` WHERE id IN ('b', 'a', 'c')"

	ex := &scriptedExecutor{responses: map[string]*Result{
		ftSQL:    {Success: true, Data: [][]string{{"a"}, {"b"}}},
		knnSQL:   {Success: true, Data: [][]string{{"b"}, {"c"}}},
		fetchSQL: {Success: true, Data: rowsOf("a", "b", "c")},
	}}

	res, err := HybridSearch(context.Background(), ex, HybridParams{
		Collection:      "docs",
		FulltextKeyword: "ml",
		KNNEmbedding:    []float64{0.1},
		NResults:        3,
	})
	require.NoError(t, err)

	// "b" appears in both legs (rank 2 and rank 1), so it outranks "a".
	assert.Equal(t, []string{"b", "a", "c"}, res.IDs)
	assert.Equal(t, []string{"doc b", "doc a", "doc c"}, res.Documents)
	require.Len(t, res.Scores, 3)
	assert.Greater(t, res.Scores[0], res.Scores[1])
}

func TestHybridSearchRequiresALeg(t *testing.T) {
	ex := &scriptedExecutor{}
	_, err := HybridSearch(context.Background(), ex, HybridParams{Collection: "docs"})
	require.Error(t, err)
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestReturnsRows(t *testing.T) {
	assert.True(t, returnsRows("SELECT 1"))
	assert.True(t, returnsRows("  show tables"))
	assert.True(t, returnsRows("CALL DBMS_AI_SERVICE.DROP_AI_MODEL('m')"))
	assert.False(t, returnsRows("INSERT INTO t VALUES (1)"))
	assert.False(t, returnsRows("CREATE TABLE t (id INT)"))
}
