package seekdb

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/oceanbase/awesome-oceanbase-mcp/internal/seekdb"
	"github.com/oceanbase/awesome-oceanbase-mcp/internal/tools"
)

func (ts *ToolServer) registerCreateAIModel() {
	tool := mcp.NewTool("create_ai_model",
		mcp.WithDescription("Register an AI model in seekdb through DBMS_AI_SERVICE.CREATE_AI_MODEL so that AI_EMBED, AI_COMPLETE and AI_RERANK can use it."),
		mcp.WithString("model_name", mcp.Required(), mcp.Description("Name for the model inside seekdb, e.g. \"ob_embed\"")),
		mcp.WithString("model_type", mcp.Required(), mcp.Description("Kind of model"), mcp.Enum("dense_embedding", "completion", "rerank")),
		mcp.WithString("provider_model_name", mcp.Required(), mcp.Description("Model name at the provider, e.g. \"BAAI/bge-m3\"")),
	)
	ts.server.AddTool(tool, ts.handleCreateAIModel)
}

func (ts *ToolServer) handleCreateAIModel(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := tools.StringOr(req, "model_name", "")
	modelType := tools.StringOr(req, "model_type", "")
	providerModel := tools.StringOr(req, "provider_model_name", "")

	query, err := seekdb.CreateAIModelSQL(name, modelType, providerModel)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res := ts.exec.Execute(ctx, query)
	if !res.Success {
		return tools.JSONResult(map[string]any{"model_name": name, "success": false, "error": res.Error})
	}
	return tools.JSONResult(map[string]any{
		"model_name": name,
		"success":    true,
		"message":    fmt.Sprintf("AI model '%s' created successfully with type=%s, provider_model=%s", name, modelType, providerModel),
	})
}

func (ts *ToolServer) registerCreateAIModelEndpoint() {
	tool := mcp.NewTool("create_ai_model_endpoint",
		mcp.WithDescription("Attach a service endpoint to a registered AI model through DBMS_AI_SERVICE.CREATE_AI_MODEL_ENDPOINT. The model is callable once it has an endpoint."),
		mcp.WithString("endpoint_name", mcp.Required(), mcp.Description("Name for the endpoint, e.g. \"ob_embed_endpoint\"")),
		mcp.WithString("ai_model_name", mcp.Required(), mcp.Description("Name of the registered model")),
		mcp.WithString("url", mcp.Required(), mcp.Description("Provider API URL, e.g. \"https://api.siliconflow.cn/v1/embeddings\"")),
		mcp.WithString("access_key", mcp.Required(), mcp.Description("Provider API key")),
		mcp.WithString("provider", mcp.Description("Service provider (default \"siliconflow\"), e.g. \"openai\", \"dashscope\"")),
	)
	ts.server.AddTool(tool, ts.handleCreateAIModelEndpoint)
}

func (ts *ToolServer) handleCreateAIModelEndpoint(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	endpoint := tools.StringOr(req, "endpoint_name", "")
	model := tools.StringOr(req, "ai_model_name", "")

	query, err := seekdb.CreateAIModelEndpointSQL(
		endpoint,
		model,
		tools.StringOr(req, "url", ""),
		tools.StringOr(req, "access_key", ""),
		tools.StringOr(req, "provider", "siliconflow"),
	)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res := ts.exec.Execute(ctx, query)
	if !res.Success {
		return tools.JSONResult(map[string]any{"endpoint_name": endpoint, "success": false, "error": res.Error})
	}
	return tools.JSONResult(map[string]any{
		"endpoint_name": endpoint,
		"success":       true,
		"message":       fmt.Sprintf("Endpoint '%s' created successfully for model '%s'", endpoint, model),
	})
}

func (ts *ToolServer) registerDropAIModel() {
	tool := mcp.NewTool("drop_ai_model",
		mcp.WithDescription("Remove a registered AI model from seekdb. Drop its endpoints first."),
		mcp.WithString("model_name", mcp.Required(), mcp.Description("Name of the model to drop")),
	)
	ts.server.AddTool(tool, ts.handleDropAIModel)
}

func (ts *ToolServer) handleDropAIModel(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := tools.StringOr(req, "model_name", "")
	query, err := seekdb.DropAIModelSQL(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res := ts.exec.Execute(ctx, query)
	if !res.Success {
		return tools.JSONResult(map[string]any{"model_name": name, "success": false, "error": res.Error})
	}
	return tools.JSONResult(map[string]any{
		"model_name": name,
		"success":    true,
		"message":    fmt.Sprintf("AI model '%s' dropped successfully", name),
	})
}

func (ts *ToolServer) registerDropAIModelEndpoint() {
	tool := mcp.NewTool("drop_ai_model_endpoint",
		mcp.WithDescription("Remove an AI model endpoint from seekdb."),
		mcp.WithString("endpoint_name", mcp.Required(), mcp.Description("Name of the endpoint to drop")),
	)
	ts.server.AddTool(tool, ts.handleDropAIModelEndpoint)
}

func (ts *ToolServer) handleDropAIModelEndpoint(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := tools.StringOr(req, "endpoint_name", "")
	query, err := seekdb.DropAIModelEndpointSQL(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res := ts.exec.Execute(ctx, query)
	if !res.Success {
		return tools.JSONResult(map[string]any{"endpoint_name": name, "success": false, "error": res.Error})
	}
	return tools.JSONResult(map[string]any{
		"endpoint_name": name,
		"success":       true,
		"message":       fmt.Sprintf("Endpoint '%s' dropped successfully", name),
	})
}

func (ts *ToolServer) registerAIComplete() {
	tool := mcp.NewTool("ai_complete",
		mcp.WithDescription("Call a registered completion model through AI_COMPLETE for text generation. With template_args, the prompt is treated as an AI_PROMPT template with {0}, {1} placeholders."),
		mcp.WithString("model_name", mcp.Required(), mcp.Description("Name of a registered completion model")),
		mcp.WithString("prompt", mcp.Required(), mcp.Description("Prompt text, or a template when template_args is given")),
		mcp.WithArray("template_args", mcp.Description("Values substituted into the prompt template")),
	)
	ts.server.AddTool(tool, ts.handleAIComplete)
}

func (ts *ToolServer) handleAIComplete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := tools.StringOr(req, "model_name", "")
	query, err := seekdb.AICompleteSQL(name, tools.StringOr(req, "prompt", ""), tools.StringSliceArg(req, "template_args"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res := ts.exec.Execute(ctx, query)
	if !res.Success {
		return tools.JSONResult(map[string]any{"model_name": name, "success": false, "error": res.Error})
	}
	var response string
	if len(res.Data) > 0 && len(res.Data[0]) > 0 {
		response = res.Data[0][0]
	}
	return tools.JSONResult(map[string]any{
		"model_name": name,
		"success":    true,
		"response":   response,
		"message":    "AI completion successful",
	})
}

func (ts *ToolServer) registerAIRerank() {
	tool := mcp.NewTool("ai_rerank",
		mcp.WithDescription("Rerank documents by relevance to a query through AI_RERANK. Returns the provider's scored ranking plus the documents reordered accordingly."),
		mcp.WithString("model_name", mcp.Required(), mcp.Description("Name of a registered rerank model")),
		mcp.WithString("query", mcp.Required(), mcp.Description("Query to rank against")),
		mcp.WithArray("documents", mcp.Required(), mcp.Description("Documents to rank, e.g. [\"apple\", \"banana\"]")),
	)
	ts.server.AddTool(tool, ts.handleAIRerank)
}

func (ts *ToolServer) handleAIRerank(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := tools.StringOr(req, "model_name", "")
	documents := tools.StringSliceArg(req, "documents")

	query, err := seekdb.AIRerankSQL(name, tools.StringOr(req, "query", ""), documents)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res := ts.exec.Execute(ctx, query)
	if !res.Success {
		return tools.JSONResult(map[string]any{"model_name": name, "success": false, "error": res.Error})
	}

	var raw string
	if len(res.Data) > 0 && len(res.Data[0]) > 0 {
		raw = res.Data[0][0]
	}
	out := map[string]any{
		"model_name": name,
		"success":    true,
		"data":       raw,
		"message":    "Documents successfully reranked by relevance",
	}
	if raw != "" {
		var ranking []struct {
			Index *int `json:"index"`
		}
		if err := json.Unmarshal([]byte(raw), &ranking); err != nil {
			ts.logger.Warn("failed to parse rerank result", "error", err)
		} else {
			reranked := make([]string, 0, len(ranking))
			for _, item := range ranking {
				if item.Index != nil && *item.Index >= 0 && *item.Index < len(documents) {
					reranked = append(reranked, documents[*item.Index])
				}
			}
			out["reranked_documents"] = reranked
		}
	}
	return tools.JSONResult(out)
}

func (ts *ToolServer) registerAIPrompt() {
	tool := mcp.NewTool("ai_prompt",
		mcp.WithDescription("Render an AI_PROMPT template with positional arguments and return the expanded prompt text. Useful for previewing prompts before ai_complete."),
		mcp.WithString("template", mcp.Required(), mcp.Description("Prompt template with {0}, {1} placeholders")),
		mcp.WithArray("args", mcp.Description("Values substituted into the placeholders")),
	)
	ts.server.AddTool(tool, ts.handleAIPrompt)
}

func (ts *ToolServer) handleAIPrompt(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := seekdb.AIPromptSQL(tools.StringOr(req, "template", ""), tools.StringSliceArg(req, "args"))
	res := ts.exec.Execute(ctx, query)
	if !res.Success {
		return tools.JSONResult(map[string]any{"success": false, "error": res.Error})
	}
	var prompt string
	if len(res.Data) > 0 && len(res.Data[0]) > 0 {
		prompt = res.Data[0][0]
	}
	return tools.JSONResult(map[string]any{
		"success": true,
		"prompt":  prompt,
	})
}
