package seekdb

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/oceanbase/awesome-oceanbase-mcp/internal/tools"
)

// mapSliceArg returns an array-of-objects argument, e.g. metadatas.
func mapSliceArg(req mcp.CallToolRequest, key string) []map[string]any {
	raw, ok := tools.SliceArg(req, key)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	if len(out) != len(raw) {
		return nil
	}
	return out
}

// floatSliceArg returns an array-of-numbers argument, e.g. a query vector.
func floatSliceArg(req mcp.CallToolRequest, key string) []float64 {
	raw, ok := tools.SliceArg(req, key)
	if !ok {
		return nil
	}
	out := make([]float64, 0, len(raw))
	for _, item := range raw {
		if f, ok := item.(float64); ok {
			out = append(out, f)
		}
	}
	if len(out) != len(raw) {
		return nil
	}
	return out
}

// floatMatrixArg returns an array-of-vectors argument, e.g. query_embeddings.
func floatMatrixArg(req mcp.CallToolRequest, key string) [][]float64 {
	raw, ok := tools.SliceArg(req, key)
	if !ok {
		return nil
	}
	out := make([][]float64, 0, len(raw))
	for _, item := range raw {
		inner, ok := item.([]any)
		if !ok {
			return nil
		}
		vec := make([]float64, 0, len(inner))
		for _, cell := range inner {
			f, ok := cell.(float64)
			if !ok {
				return nil
			}
			vec = append(vec, f)
		}
		out = append(out, vec)
	}
	return out
}
