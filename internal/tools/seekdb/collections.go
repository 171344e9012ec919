package seekdb

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/oceanbase/awesome-oceanbase-mcp/internal/seekdb"
	"github.com/oceanbase/awesome-oceanbase-mcp/internal/tools"
)

func (ts *ToolServer) registerCreateCollection() {
	tool := mcp.NewTool("create_collection",
		mcp.WithDescription("Create a new collection in seekdb. A collection is a table with id, document, metadata and embedding columns plus an HNSW vector index."),
		mcp.WithString("collection_name", mcp.Required(), mcp.Description("Name of the collection. Must be unique within the database and no longer than 64 characters.")),
		mcp.WithNumber("dimension", mcp.Description("Dimension of the stored vectors (default 384)")),
		mcp.WithString("distance", mcp.Description("Distance metric for vector similarity (default \"l2\")"),
			mcp.Enum("cosine", "l2", "ip")),
	)
	ts.server.AddTool(tool, ts.handleCreateCollection)
}

func (ts *ToolServer) handleCreateCollection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := tools.StringOr(req, "collection_name", "")
	dimension := tools.IntOr(req, "dimension", 384)
	distance := tools.StringOr(req, "distance", "l2")

	stmts, err := seekdb.CreateCollectionSQL(name, dimension, distance)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	for _, stmt := range stmts {
		if res := ts.exec.Execute(ctx, stmt); !res.Success {
			return tools.JSONResult(map[string]any{
				"collection_name": name,
				"success":         false,
				"error":           res.Error,
			})
		}
	}
	return tools.JSONResult(map[string]any{
		"collection_name": name,
		"success":         true,
		"message":         fmt.Sprintf("Collection '%s' created successfully with dimension=%d, distance=%s", name, dimension, distance),
	})
}

func (ts *ToolServer) registerListCollections() {
	tool := mcp.NewTool("list_collections",
		mcp.WithDescription("List all collections in seekdb"),
	)
	ts.server.AddTool(tool, ts.handleListCollections)
}

func (ts *ToolServer) handleListCollections(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res := ts.exec.Execute(ctx, seekdb.ListCollectionsSQL())
	if !res.Success {
		return tools.JSONResult(map[string]any{"success": false, "error": res.Error})
	}
	names := make([]string, 0, len(res.Data))
	for _, row := range res.Data {
		if len(row) > 0 {
			names = append(names, row[0])
		}
	}
	return tools.JSONResult(map[string]any{
		"success":     true,
		"collections": names,
		"count":       len(names),
		"message":     fmt.Sprintf("Found %d collection(s)", len(names)),
	})
}

func (ts *ToolServer) registerPeekCollection() {
	tool := mcp.NewTool("peek_collection",
		mcp.WithDescription("Peek at documents in a seekdb collection for quick inspection"),
		mcp.WithString("collection_name", mcp.Required(), mcp.Description("Name of the collection to peek into")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of documents to return (default 3)")),
	)
	ts.server.AddTool(tool, ts.handlePeekCollection)
}

func (ts *ToolServer) handlePeekCollection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := tools.StringOr(req, "collection_name", "")
	query, err := seekdb.PeekCollectionSQL(name, tools.IntOr(req, "limit", 3))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res := ts.exec.Execute(ctx, query)
	if !res.Success {
		return tools.JSONResult(map[string]any{"collection_name": name, "success": false, "error": res.Error})
	}
	return tools.JSONResult(map[string]any{
		"collection_name": name,
		"success":         true,
		"data":            res.Data,
		"message":         fmt.Sprintf("Peeked %d document(s) from collection '%s'", len(res.Data), name),
	})
}

func (ts *ToolServer) registerAddDataToCollection() {
	tool := mcp.NewTool("add_data_to_collection",
		mcp.WithDescription("Add data to an existing collection in seekdb"),
		mcp.WithString("collection_name", mcp.Required(), mcp.Description("Name of the collection to add data to")),
		mcp.WithArray("ids", mcp.Required(), mcp.Description("Unique IDs for the data items")),
		mcp.WithArray("documents", mcp.Description("Text documents, one per id")),
		mcp.WithArray("metadatas", mcp.Description("Metadata objects, one per id")),
	)
	ts.server.AddTool(tool, ts.handleAddDataToCollection)
}

func (ts *ToolServer) handleAddDataToCollection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := tools.StringOr(req, "collection_name", "")
	ids := tools.StringSliceArg(req, "ids")
	documents := tools.StringSliceArg(req, "documents")
	metadatas := mapSliceArg(req, "metadatas")

	query, err := seekdb.InsertSQL(name, ids, documents, metadatas)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res := ts.exec.Execute(ctx, query)
	if !res.Success {
		return tools.JSONResult(map[string]any{"collection_name": name, "success": false, "ids": ids, "error": res.Error})
	}
	return tools.JSONResult(map[string]any{
		"collection_name": name,
		"success":         true,
		"ids":             ids,
		"message":         fmt.Sprintf("Successfully added %d item(s) to collection '%s'", len(ids), name),
	})
}

func (ts *ToolServer) registerUpdateCollection() {
	tool := mcp.NewTool("update_collection",
		mcp.WithDescription("Update existing documents in a seekdb collection by their IDs"),
		mcp.WithString("collection_name", mcp.Required(), mcp.Description("Name of the collection to update data in")),
		mcp.WithArray("ids", mcp.Required(), mcp.Description("IDs of the data items to update")),
		mcp.WithArray("documents", mcp.Description("New text documents, one per id")),
		mcp.WithArray("metadatas", mcp.Description("New metadata objects, one per id")),
	)
	ts.server.AddTool(tool, ts.handleUpdateCollection)
}

func (ts *ToolServer) handleUpdateCollection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := tools.StringOr(req, "collection_name", "")
	ids := tools.StringSliceArg(req, "ids")
	documents := tools.StringSliceArg(req, "documents")
	metadatas := mapSliceArg(req, "metadatas")

	stmts, err := seekdb.UpdateSQL(name, ids, documents, metadatas)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	for _, stmt := range stmts {
		if res := ts.exec.Execute(ctx, stmt); !res.Success {
			return tools.JSONResult(map[string]any{"collection_name": name, "success": false, "ids": ids, "error": res.Error})
		}
	}
	return tools.JSONResult(map[string]any{
		"collection_name": name,
		"success":         true,
		"ids":             ids,
		"message":         fmt.Sprintf("Successfully updated %d item(s) in collection '%s'", len(ids), name),
	})
}

func (ts *ToolServer) registerDeleteDocuments() {
	tool := mcp.NewTool("delete_documents",
		mcp.WithDescription("Delete documents from a seekdb collection by IDs or filter conditions. At least one of ids, where, or where_document must be provided."),
		mcp.WithString("collection_name", mcp.Required(), mcp.Description("Name of the collection to delete documents from")),
		mcp.WithArray("ids", mcp.Description("Document IDs to delete")),
		mcp.WithObject("where", mcp.Description("Metadata filter, e.g. {\"category\": {\"$eq\": \"obsolete\"}}. Supported operators: $eq, $ne, $gt, $gte, $lt, $lte, $in, $nin")),
		mcp.WithObject("where_document", mcp.Description("Document content filter, e.g. {\"$contains\": \"deprecated\"}")),
	)
	ts.server.AddTool(tool, ts.handleDeleteDocuments)
}

func (ts *ToolServer) handleDeleteDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := tools.StringOr(req, "collection_name", "")
	ids := tools.StringSliceArg(req, "ids")
	where, _ := tools.MapArg(req, "where")
	whereDocument, _ := tools.MapArg(req, "where_document")

	query, err := seekdb.DeleteSQL(name, ids, where, whereDocument)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res := ts.exec.Execute(ctx, query)
	if !res.Success {
		return tools.JSONResult(map[string]any{"collection_name": name, "success": false, "error": res.Error})
	}
	out := map[string]any{
		"collection_name": name,
		"success":         true,
		"message":         fmt.Sprintf("Successfully deleted documents from collection '%s'", name),
	}
	if len(ids) > 0 {
		out["deleted_ids"] = ids
	}
	return tools.JSONResult(out)
}

func (ts *ToolServer) registerQueryCollection() {
	tool := mcp.NewTool("query_collection",
		mcp.WithDescription("Query data from a collection in seekdb using vector similarity search. Provide pre-computed query embeddings; for text queries use semantic_search on a semantically indexed table."),
		mcp.WithString("collection_name", mcp.Required(), mcp.Description("Name of the collection to query")),
		mcp.WithArray("query_embeddings", mcp.Required(), mcp.Description("Query vectors for similarity search, e.g. [[0.1, 0.2, 0.3]]")),
		mcp.WithNumber("n_results", mcp.Description("Number of similar results to return per query (default 10)")),
		mcp.WithObject("where", mcp.Description("Metadata filter, e.g. {\"category\": {\"$eq\": \"AI\"}}")),
		mcp.WithObject("where_document", mcp.Description("Document filter, e.g. {\"$contains\": \"machine learning\"}")),
	)
	ts.server.AddTool(tool, ts.handleQueryCollection)
}

func (ts *ToolServer) handleQueryCollection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := tools.StringOr(req, "collection_name", "")
	embeddings := floatMatrixArg(req, "query_embeddings")
	if len(embeddings) == 0 {
		return mcp.NewToolResultError("query_embeddings is required, e.g. [[0.1, 0.2, 0.3]]"), nil
	}
	nResults := tools.IntOr(req, "n_results", 10)
	where, _ := tools.MapArg(req, "where")
	whereDocument, _ := tools.MapArg(req, "where_document")

	// One result set per query vector, like the batched query API.
	data := make([][][]string, 0, len(embeddings))
	for _, embedding := range embeddings {
		query, err := seekdb.VectorQuerySQL(name, embedding, nResults, where, whereDocument)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		res := ts.exec.Execute(ctx, query)
		if !res.Success {
			return tools.JSONResult(map[string]any{"collection_name": name, "success": false, "error": res.Error})
		}
		data = append(data, res.Data)
	}
	return tools.JSONResult(map[string]any{
		"collection_name": name,
		"success":         true,
		"data":            data,
		"message":         fmt.Sprintf("Query returned results for %d vector(s)", len(data)),
	})
}

func (ts *ToolServer) registerDeleteCollection() {
	tool := mcp.NewTool("delete_collection",
		mcp.WithDescription("Delete a collection from seekdb. This permanently deletes the collection and all its data."),
		mcp.WithString("collection_name", mcp.Required(), mcp.Description("Name of the collection to delete")),
	)
	ts.server.AddTool(tool, ts.handleDeleteCollection)
}

func (ts *ToolServer) handleDeleteCollection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := tools.StringOr(req, "collection_name", "")
	query, err := seekdb.DropCollectionSQL(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res := ts.exec.Execute(ctx, query)
	if !res.Success {
		return tools.JSONResult(map[string]any{"collection_name": name, "success": false, "error": res.Error})
	}
	return tools.JSONResult(map[string]any{
		"collection_name": name,
		"success":         true,
		"message":         fmt.Sprintf("Collection '%s' deleted successfully", name),
	})
}
