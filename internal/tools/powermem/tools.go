// Package powermem registers the MCP tools for the agent memory store.
package powermem

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/oceanbase/awesome-oceanbase-mcp/internal/powermem"
	"github.com/oceanbase/awesome-oceanbase-mcp/internal/server"
	"github.com/oceanbase/awesome-oceanbase-mcp/internal/tools"
)

// ToolServer registers and handles the memory tools.
type ToolServer struct {
	server *server.Server
	store  *powermem.Store
	logger *slog.Logger
}

// NewToolServer creates a tool server backed by a memory store.
func NewToolServer(srv *server.Server, store *powermem.Store, logger *slog.Logger) *ToolServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ToolServer{
		server: srv,
		store:  store,
		logger: logger,
	}
}

// RegisterAll registers every memory tool with the server.
func (ts *ToolServer) RegisterAll() {
	ts.registerAddMemory()
	ts.registerSearchMemories()
	ts.registerGetMemoryByID()
	ts.registerUpdateMemory()
	ts.registerDeleteMemory()
	ts.registerDeleteAllMemories()
	ts.registerListMemories()
}

func scopeFromRequest(req mcp.CallToolRequest) powermem.Scope {
	return powermem.Scope{
		UserID:  tools.StringOr(req, "user_id", ""),
		AgentID: tools.StringOr(req, "agent_id", ""),
		RunID:   tools.StringOr(req, "run_id", ""),
	}
}

func storeError(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(err.Error())
}

func (ts *ToolServer) registerAddMemory() {
	tool := mcp.NewTool("add_memory",
		mcp.WithDescription("Add a new memory to storage. At least one of user_id, agent_id or run_id is required to scope the memory."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Memory content to store")),
		mcp.WithString("user_id", mcp.Description("User identifier")),
		mcp.WithString("agent_id", mcp.Description("Agent identifier")),
		mcp.WithString("run_id", mcp.Description("Run or session identifier")),
		mcp.WithObject("metadata", mcp.Description("Arbitrary metadata attached to the memory")),
	)
	ts.server.AddTool(tool, ts.handleAddMemory)
}

func (ts *ToolServer) handleAddMemory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	metadata, _ := tools.MapArg(req, "metadata")
	memory, err := ts.store.Add(ctx, tools.StringOr(req, "content", ""), scopeFromRequest(req), metadata)
	if err != nil {
		return storeError(err), nil
	}
	return tools.JSONResult(map[string]any{"results": []*powermem.Memory{memory}})
}

func (ts *ToolServer) registerSearchMemories() {
	tool := mcp.NewTool("search_memories",
		mcp.WithDescription("Search stored memories by content. Results are scoped by user_id, agent_id and/or run_id and ordered newest first."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query text")),
		mcp.WithString("user_id", mcp.Description("User identifier")),
		mcp.WithString("agent_id", mcp.Description("Agent identifier")),
		mcp.WithString("run_id", mcp.Description("Run or session identifier")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 10)")),
	)
	ts.server.AddTool(tool, ts.handleSearchMemories)
}

func (ts *ToolServer) handleSearchMemories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	memories, err := ts.store.Search(ctx,
		tools.StringOr(req, "query", ""),
		scopeFromRequest(req),
		tools.IntOr(req, "limit", 10))
	if err != nil {
		return storeError(err), nil
	}
	if memories == nil {
		memories = []powermem.Memory{}
	}
	return tools.JSONResult(map[string]any{"results": memories})
}

func (ts *ToolServer) registerGetMemoryByID() {
	tool := mcp.NewTool("get_memory_by_id",
		mcp.WithDescription("Get a specific memory by its id"),
		mcp.WithString("memory_id", mcp.Required(), mcp.Description("ID of the memory")),
	)
	ts.server.AddTool(tool, ts.handleGetMemoryByID)
}

func (ts *ToolServer) handleGetMemoryByID(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := tools.StringOr(req, "memory_id", "")
	memory, err := ts.store.Get(ctx, id)
	if errors.Is(err, powermem.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("Memory %s not found", id)), nil
	}
	if err != nil {
		return storeError(err), nil
	}
	return tools.JSONResult(memory)
}

func (ts *ToolServer) registerUpdateMemory() {
	tool := mcp.NewTool("update_memory",
		mcp.WithDescription("Update the content, and optionally the metadata, of a stored memory"),
		mcp.WithString("memory_id", mcp.Required(), mcp.Description("ID of the memory to update")),
		mcp.WithString("content", mcp.Required(), mcp.Description("New memory content")),
		mcp.WithObject("metadata", mcp.Description("New metadata for the memory")),
	)
	ts.server.AddTool(tool, ts.handleUpdateMemory)
}

func (ts *ToolServer) handleUpdateMemory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := tools.StringOr(req, "memory_id", "")
	metadata, _ := tools.MapArg(req, "metadata")
	memory, err := ts.store.Update(ctx, id, tools.StringOr(req, "content", ""), metadata)
	if errors.Is(err, powermem.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("Memory %s not found", id)), nil
	}
	if err != nil {
		return storeError(err), nil
	}
	return tools.JSONResult(memory)
}

func (ts *ToolServer) registerDeleteMemory() {
	tool := mcp.NewTool("delete_memory",
		mcp.WithDescription("Delete a stored memory by its id"),
		mcp.WithString("memory_id", mcp.Required(), mcp.Description("ID of the memory to delete")),
	)
	ts.server.AddTool(tool, ts.handleDeleteMemory)
}

func (ts *ToolServer) handleDeleteMemory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := tools.StringOr(req, "memory_id", "")
	err := ts.store.Delete(ctx, id)
	if errors.Is(err, powermem.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("Memory %s not found", id)), nil
	}
	if err != nil {
		return storeError(err), nil
	}
	return tools.JSONResult(map[string]any{"success": true, "memory_id": id})
}

func (ts *ToolServer) registerDeleteAllMemories() {
	tool := mcp.NewTool("delete_all_memories",
		mcp.WithDescription("Delete every memory in the given scope. At least one of user_id, agent_id or run_id is required."),
		mcp.WithString("user_id", mcp.Description("User identifier")),
		mcp.WithString("agent_id", mcp.Description("Agent identifier")),
		mcp.WithString("run_id", mcp.Description("Run or session identifier")),
	)
	ts.server.AddTool(tool, ts.handleDeleteAllMemories)
}

func (ts *ToolServer) handleDeleteAllMemories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	deleted, err := ts.store.DeleteAll(ctx, scopeFromRequest(req))
	if err != nil {
		return storeError(err), nil
	}
	return tools.JSONResult(map[string]any{"success": true, "deleted": deleted})
}

func (ts *ToolServer) registerListMemories() {
	tool := mcp.NewTool("list_memories",
		mcp.WithDescription("List memories in the given scope, newest first. At least one of user_id, agent_id or run_id is required."),
		mcp.WithString("user_id", mcp.Description("User identifier")),
		mcp.WithString("agent_id", mcp.Description("Agent identifier")),
		mcp.WithString("run_id", mcp.Description("Run or session identifier")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 100)")),
		mcp.WithNumber("offset", mcp.Description("Number of results to skip (default 0)")),
	)
	ts.server.AddTool(tool, ts.handleListMemories)
}

func (ts *ToolServer) handleListMemories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	memories, err := ts.store.List(ctx,
		scopeFromRequest(req),
		tools.IntOr(req, "limit", 100),
		tools.IntOr(req, "offset", 0))
	if err != nil {
		return storeError(err), nil
	}
	if memories == nil {
		memories = []powermem.Memory{}
	}
	return tools.JSONResult(map[string]any{"results": memories, "count": len(memories)})
}
