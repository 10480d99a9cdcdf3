// Package tools implements the MCP tools exposed to protocol clients,
// each wrapping one or more Todoist API calls.
//
// Each file holds one tool (complete/uncomplete share a file).
// Upstream failures become structured tool error results at this
// boundary; they never propagate as Go errors that would tear down
// the session.
package tools

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// jsonResult marshals v into a tool result, degrading to an error
// result if v cannot be encoded.
func jsonResult(v any) *mcp.CallToolResult {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err))
	}
	return result
}

// clampLimit bounds a requested result count to [1, 100].
func clampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > 100 {
		return 100
	}
	return limit
}

// validPriority reports whether p is a Todoist priority (1 normal to
// 4 urgent).
func validPriority(p int) bool {
	return p >= 1 && p <= 4
}
