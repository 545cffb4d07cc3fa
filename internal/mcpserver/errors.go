package mcpserver

import (
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

var (
	errRoomNotFound  = errors.New("room_not_found")
	errStoreDisabled = errors.New("store_disabled")
)

func toolResult(data any) *mcp.CallToolResult {
	return mcp.NewToolResultStructuredOnly(data)
}

func toolError(code, message string) *mcp.CallToolResult {
	result := mcp.NewToolResultStructured(
		map[string]any{
			"error": map[string]any{
				"code":    code,
				"message": message,
			},
		},
		fmt.Sprintf("%s: %s", code, message),
	)
	result.IsError = true
	return result
}

func mapError(err error) *mcp.CallToolResult {
	switch {
	case err == nil:
		return toolError("internal_error", "unknown error")
	case errors.Is(err, errRoomNotFound):
		return toolError("not_found", "room not found")
	case errors.Is(err, errStoreDisabled):
		return toolError("store_disabled", "outcome store is not configured")
	default:
		return toolError("internal_error", err.Error())
	}
}
