package ocp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/oceanbase/awesome-oceanbase-mcp/internal/ocp"
	"github.com/oceanbase/awesome-oceanbase-mcp/internal/tools"
)

// splitList splits a comma-separated argument into trimmed values.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// parseParameters decodes and validates the parameters_json argument.
// Returns a non-nil error result when the input is rejected.
func parseParameters(req mcp.CallToolRequest, needType bool) ([]ocp.Parameter, *mcp.CallToolResult) {
	raw, ok := tools.StringArg(req, "parameters_json")
	if !ok {
		return nil, mcp.NewToolResultError("parameters_json is required")
	}
	var params []ocp.Parameter
	if err := json.Unmarshal([]byte(raw), &params); err != nil {
		return nil, mcp.NewToolResultError(fmt.Sprintf("Failed to parse parameters_json: %v", err))
	}
	if err := ocp.ValidateParameters(params, needType); err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}
	return params, nil
}
