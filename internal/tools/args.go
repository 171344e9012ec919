// Package tools holds helpers shared by the per-server tool packages:
// argument extraction from MCP requests and result formatting.
package tools

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"sigs.k8s.io/yaml"
)

// StringArg returns a string argument. The second return is false when the
// argument is absent, not a string, or empty.
func StringArg(req mcp.CallToolRequest, key string) (string, bool) {
	v, ok := req.Params.Arguments[key].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// StringOr returns a string argument or def when absent or empty.
func StringOr(req mcp.CallToolRequest, key, def string) string {
	if v, ok := StringArg(req, key); ok {
		return v
	}
	return def
}

// IntArg returns an integer argument. JSON numbers arrive as float64.
func IntArg(req mcp.CallToolRequest, key string) (int, bool) {
	switch v := req.Params.Arguments[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}

// IntOr returns an integer argument or def when absent.
func IntOr(req mcp.CallToolRequest, key string, def int) int {
	if v, ok := IntArg(req, key); ok {
		return v
	}
	return def
}

// BoolArg returns a boolean argument.
func BoolArg(req mcp.CallToolRequest, key string) (bool, bool) {
	v, ok := req.Params.Arguments[key].(bool)
	return v, ok
}

// BoolOr returns a boolean argument or def when absent.
func BoolOr(req mcp.CallToolRequest, key string, def bool) bool {
	if v, ok := BoolArg(req, key); ok {
		return v
	}
	return def
}

// OptionalBool returns a pointer to the boolean argument, or nil when the
// argument is absent. Used for tri-state filters.
func OptionalBool(req mcp.CallToolRequest, key string) *bool {
	if v, ok := BoolArg(req, key); ok {
		return &v
	}
	return nil
}

// StringSliceArg returns a string-array argument. Non-string elements are
// skipped.
func StringSliceArg(req mcp.CallToolRequest, key string) []string {
	raw, ok := req.Params.Arguments[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// SliceArg returns a raw array argument.
func SliceArg(req mcp.CallToolRequest, key string) ([]any, bool) {
	v, ok := req.Params.Arguments[key].([]any)
	return v, ok
}

// MapArg returns a raw object argument.
func MapArg(req mcp.CallToolRequest, key string) (map[string]any, bool) {
	v, ok := req.Params.Arguments[key].(map[string]any)
	return v, ok
}

// JSONResult marshals v as indented JSON into a tool result.
func JSONResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// RawJSONResult returns an API response body as a tool result, re-indenting
// it when possible.
func RawJSONResult(raw json.RawMessage) (*mcp.CallToolResult, error) {
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return mcp.NewToolResultText(string(raw)), nil
	}
	return JSONResult(decoded)
}

// FormatResult renders v as JSON or YAML according to outputFormat.
func FormatResult(v any, outputFormat string) (*mcp.CallToolResult, error) {
	if outputFormat == "yaml" {
		jsonData, err := json.Marshal(v)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal result: %v", err)), nil
		}
		yamlData, err := yaml.JSONToYAML(jsonData)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to convert result to YAML: %v", err)), nil
		}
		return mcp.NewToolResultText(string(yamlData)), nil
	}
	return JSONResult(v)
}
