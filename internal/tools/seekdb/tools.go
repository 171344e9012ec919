// Package seekdb registers the MCP tools for seekdb: raw SQL, vector
// collections, full-text and hybrid search, and the AI SQL functions.
package seekdb

import (
	"log/slog"

	"github.com/oceanbase/awesome-oceanbase-mcp/internal/seekdb"
	"github.com/oceanbase/awesome-oceanbase-mcp/internal/server"
)

// ToolServer registers and handles the seekdb tools.
type ToolServer struct {
	server *server.Server
	exec   seekdb.Executor
	logger *slog.Logger
}

// NewToolServer creates a tool server backed by a seekdb executor.
func NewToolServer(srv *server.Server, exec seekdb.Executor, logger *slog.Logger) *ToolServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ToolServer{
		server: srv,
		exec:   exec,
		logger: logger,
	}
}

// RegisterAll registers every seekdb tool with the server.
func (ts *ToolServer) RegisterAll() {
	// Raw SQL
	ts.registerExecuteSQL()
	ts.registerGetCurrentTime()

	// Vector collections
	ts.registerCreateCollection()
	ts.registerListCollections()
	ts.registerPeekCollection()
	ts.registerAddDataToCollection()
	ts.registerUpdateCollection()
	ts.registerDeleteDocuments()
	ts.registerQueryCollection()
	ts.registerDeleteCollection()

	// Search
	ts.registerFullTextSearch()
	ts.registerHybridSearch()
	ts.registerCreateSemanticIndex()
	ts.registerSemanticSearch()
	ts.registerSemanticVectorSearch()

	// AI functions
	ts.registerCreateAIModel()
	ts.registerCreateAIModelEndpoint()
	ts.registerDropAIModel()
	ts.registerDropAIModelEndpoint()
	ts.registerAIComplete()
	ts.registerAIRerank()
	ts.registerAIPrompt()
}
