package seekdb

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/oceanbase/awesome-oceanbase-mcp/internal/seekdb"
	"github.com/oceanbase/awesome-oceanbase-mcp/internal/tools"
)

func (ts *ToolServer) registerFullTextSearch() {
	tool := mcp.NewTool("full_text_search",
		mcp.WithDescription("Perform full-text search on a seekdb table using MATCH...AGAINST with BM25 relevance scoring. The table must have a FULLTEXT INDEX on the target column."),
		mcp.WithString("table_name", mcp.Required(), mcp.Description("Name of the table to search")),
		mcp.WithString("column_name", mcp.Required(), mcp.Description("Column with a FULLTEXT INDEX")),
		mcp.WithString("search_expr", mcp.Required(), mcp.Description("Search expression. Boolean mode: '+required -excluded'. Natural mode: keywords separated by spaces.")),
		mcp.WithString("mode", mcp.Description("Search mode (default \"boolean\")"), mcp.Enum("boolean", "natural")),
		mcp.WithBoolean("return_score", mcp.Description("Return relevance scores (default false)")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 10)")),
		mcp.WithArray("additional_columns", mcp.Description("Columns to include in results instead of *")),
	)
	ts.server.AddTool(tool, ts.handleFullTextSearch)
}

func (ts *ToolServer) handleFullTextSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	table := tools.StringOr(req, "table_name", "")
	query, err := seekdb.FullTextSearchSQL(
		table,
		tools.StringOr(req, "column_name", ""),
		tools.StringOr(req, "search_expr", ""),
		tools.StringOr(req, "mode", "boolean"),
		tools.BoolOr(req, "return_score", false),
		tools.IntOr(req, "limit", 10),
		tools.StringSliceArg(req, "additional_columns"),
	)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res := ts.exec.Execute(ctx, query)
	if !res.Success {
		return tools.JSONResult(map[string]any{"table_name": table, "success": false, "sql": query, "error": res.Error})
	}
	return tools.JSONResult(map[string]any{
		"table_name": table,
		"success":    true,
		"data":       res.Data,
		"sql":        query,
		"message":    fmt.Sprintf("Full-text search returned %d result(s)", len(res.Data)),
	})
}

func (ts *ToolServer) registerHybridSearch() {
	tool := mcp.NewTool("hybrid_search",
		mcp.WithDescription("Perform hybrid search combining keyword matching and vector similarity in seekdb. Results are fused with Reciprocal Rank Fusion."),
		mcp.WithString("collection_name", mcp.Required(), mcp.Description("Name of the collection to search")),
		mcp.WithString("fulltext_search_keyword", mcp.Description("Keywords for the full-text leg, matched with $contains")),
		mcp.WithObject("fulltext_where", mcp.Description("Metadata filter for the full-text leg")),
		mcp.WithNumber("fulltext_n_results", mcp.Description("Candidate count for the full-text leg (default 10)")),
		mcp.WithArray("knn_query_embeddings", mcp.Description("Query vector for the vector leg, e.g. [0.1, 0.2, 0.3]")),
		mcp.WithObject("knn_where", mcp.Description("Metadata filter for the vector leg")),
		mcp.WithNumber("knn_n_results", mcp.Description("Candidate count for the vector leg (default 10)")),
		mcp.WithNumber("n_results", mcp.Description("Final number of results after fusion (default 5)")),
	)
	ts.server.AddTool(tool, ts.handleHybridSearch)
}

func (ts *ToolServer) handleHybridSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := tools.StringOr(req, "collection_name", "")
	fulltextWhere, _ := tools.MapArg(req, "fulltext_where")
	knnWhere, _ := tools.MapArg(req, "knn_where")

	result, err := seekdb.HybridSearch(ctx, ts.exec, seekdb.HybridParams{
		Collection:      name,
		FulltextKeyword: tools.StringOr(req, "fulltext_search_keyword", ""),
		FulltextWhere:   fulltextWhere,
		FulltextN:       tools.IntOr(req, "fulltext_n_results", 10),
		KNNEmbedding:    floatSliceArg(req, "knn_query_embeddings"),
		KNNWhere:        knnWhere,
		KNNN:            tools.IntOr(req, "knn_n_results", 10),
		NResults:        tools.IntOr(req, "n_results", 5),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to perform hybrid search: %v", err)), nil
	}
	return tools.JSONResult(map[string]any{
		"collection_name": name,
		"success":         true,
		"data":            result,
		"message":         fmt.Sprintf("Hybrid search returned %d result(s)", len(result.IDs)),
	})
}

func (ts *ToolServer) registerCreateSemanticIndex() {
	tool := mcp.NewTool("create_semantic_index",
		mcp.WithDescription("Create a hybrid vector index on a VARCHAR column in seekdb. Text written to the column is embedded automatically through the registered model; searches take raw text."),
		mcp.WithString("table_name", mcp.Required(), mcp.Description("Name of the existing table")),
		mcp.WithString("column_name", mcp.Required(), mcp.Description("VARCHAR column to index")),
		mcp.WithString("index_name", mcp.Required(), mcp.Description("Name for the vector index")),
		mcp.WithString("model_name", mcp.Required(), mcp.Description("Registered embedding model name")),
		mcp.WithNumber("dimension", mcp.Description("Dimension of the embedding vectors (default 1024)")),
		mcp.WithString("distance", mcp.Description("Distance metric (default \"l2\")"), mcp.Enum("l2", "inner_product", "cosine")),
		mcp.WithString("sync_mode", mcp.Description("Embedding mode (default \"immediate\")"), mcp.Enum("immediate", "async")),
	)
	ts.server.AddTool(tool, ts.handleCreateSemanticIndex)
}

func (ts *ToolServer) handleCreateSemanticIndex(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	table := tools.StringOr(req, "table_name", "")
	index := tools.StringOr(req, "index_name", "")
	model := tools.StringOr(req, "model_name", "")

	// The model must have an endpoint before the index can embed anything.
	checkSQL, err := seekdb.ModelEndpointCountSQL(model)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	check := ts.exec.Execute(ctx, checkSQL)
	if !check.Success {
		return tools.JSONResult(map[string]any{"table_name": table, "index_name": index, "success": false, "error": check.Error})
	}
	count := 0
	if len(check.Data) > 0 && len(check.Data[0]) > 0 {
		count, _ = strconv.Atoi(check.Data[0][0])
	}
	if count == 0 {
		return mcp.NewToolResultError(fmt.Sprintf(
			"Model '%s' does not exist. Create it first with create_ai_model and create_ai_model_endpoint.", model)), nil
	}

	query, err := seekdb.CreateSemanticIndexSQL(
		table,
		tools.StringOr(req, "column_name", ""),
		index,
		model,
		tools.IntOr(req, "dimension", 1024),
		tools.StringOr(req, "distance", "l2"),
		tools.StringOr(req, "sync_mode", "immediate"),
	)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res := ts.exec.Execute(ctx, query)
	if !res.Success {
		return tools.JSONResult(map[string]any{"table_name": table, "index_name": index, "success": false, "error": res.Error})
	}
	return tools.JSONResult(map[string]any{
		"table_name": table,
		"index_name": index,
		"success":    true,
		"message":    fmt.Sprintf("Semantic index '%s' created successfully on %s", index, table),
	})
}

func (ts *ToolServer) registerSemanticSearch() {
	tool := mcp.NewTool("semantic_search",
		mcp.WithDescription("Search a semantically indexed column by text meaning. The table must have a hybrid vector index on the target column."),
		mcp.WithString("table_name", mcp.Required(), mcp.Description("Name of the table to search")),
		mcp.WithString("column_name", mcp.Required(), mcp.Description("Column with the semantic index")),
		mcp.WithString("query_text", mcp.Required(), mcp.Description("Text to search for similar content")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 10)")),
		mcp.WithArray("select_columns", mcp.Description("Columns to include in results instead of *")),
	)
	ts.server.AddTool(tool, ts.handleSemanticSearch)
}

func (ts *ToolServer) handleSemanticSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	table := tools.StringOr(req, "table_name", "")
	query, err := seekdb.SemanticSearchSQL(
		table,
		tools.StringOr(req, "column_name", ""),
		tools.StringOr(req, "query_text", ""),
		tools.IntOr(req, "limit", 10),
		tools.StringSliceArg(req, "select_columns"),
	)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res := ts.exec.Execute(ctx, query)
	if !res.Success {
		return tools.JSONResult(map[string]any{"table_name": table, "success": false, "error": res.Error})
	}
	return tools.JSONResult(map[string]any{
		"table_name": table,
		"success":    true,
		"data":       res.Data,
		"message":    fmt.Sprintf("Semantic search returned %d result(s)", len(res.Data)),
	})
}

func (ts *ToolServer) registerSemanticVectorSearch() {
	tool := mcp.NewTool("semantic_vector_search",
		mcp.WithDescription("Search a semantically indexed column with a pre-computed query vector, avoiding a repeated embedding call."),
		mcp.WithString("table_name", mcp.Required(), mcp.Description("Name of the table to search")),
		mcp.WithString("column_name", mcp.Required(), mcp.Description("Column with the semantic index")),
		mcp.WithArray("query_vector", mcp.Required(), mcp.Description("Pre-computed query vector matching the index dimension")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 10)")),
		mcp.WithArray("select_columns", mcp.Description("Columns to include in results instead of *")),
	)
	ts.server.AddTool(tool, ts.handleSemanticVectorSearch)
}

func (ts *ToolServer) handleSemanticVectorSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	table := tools.StringOr(req, "table_name", "")
	query, err := seekdb.SemanticVectorSearchSQL(
		table,
		tools.StringOr(req, "column_name", ""),
		floatSliceArg(req, "query_vector"),
		tools.IntOr(req, "limit", 10),
		tools.StringSliceArg(req, "select_columns"),
	)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res := ts.exec.Execute(ctx, query)
	if !res.Success {
		return tools.JSONResult(map[string]any{"table_name": table, "success": false, "error": res.Error})
	}
	return tools.JSONResult(map[string]any{
		"table_name": table,
		"success":    true,
		"data":       res.Data,
		"message":    fmt.Sprintf("Semantic vector search returned %d result(s)", len(res.Data)),
	})
}
