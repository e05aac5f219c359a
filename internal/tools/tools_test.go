package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// isErrorResult reports whether a CallToolResult is an error result.
func isErrorResult(result *mcp.CallToolResult) bool {
	return result != nil && result.IsError
}

// getResultText extracts the text content from a CallToolResult.
func getResultText(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

// reasonerFunc adapts a plain function to the scoring.Reasoner interface.
type reasonerFunc func(ctx context.Context, system, message string) (string, error)

func (f reasonerFunc) Reason(ctx context.Context, system, message string) (string, error) {
	return f(ctx, system, message)
}
