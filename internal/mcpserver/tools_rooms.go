package mcpserver

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 500
)

func clampPagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (s *Server) registerRoomTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"list_rooms",
			mcp.WithDescription("List live rooms with seat occupancy"),
		),
		s.handleListRooms,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"get_room",
			mcp.WithDescription("Spectator snapshot of one room: shared state, locks, blackjack round"),
			mcp.WithString("room_id", mcp.Required(), mcp.Description("Room id")),
		),
		s.handleGetRoom,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"room_stats",
			mcp.WithDescription("Aggregate counts across all live rooms"),
		),
		s.handleRoomStats,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"list_outcomes",
			mcp.WithDescription("Recent resolved wagers of a room, newest first"),
			mcp.WithString("room_id", mcp.Required(), mcp.Description("Room id")),
			mcp.WithNumber("limit", mcp.Description("Page size, default 50, max 500")),
			mcp.WithNumber("offset", mcp.Description("Page offset, default 0")),
		),
		s.handleListOutcomes,
	)
}

func (s *Server) handleListRooms(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toolResult(map[string]any{"items": s.rooms.List()}), nil
}

func (s *Server) handleGetRoom(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	roomID, err := request.RequireString("room_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	snap, ok := s.rooms.Snapshot(strings.TrimSpace(roomID))
	if !ok {
		return mapError(errRoomNotFound), nil
	}
	return toolResult(snap), nil
}

func (s *Server) handleRoomStats(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toolResult(s.rooms.Stats()), nil
}

func (s *Server) handleListOutcomes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.outcomes == nil {
		return mapError(errStoreDisabled), nil
	}
	roomID, err := request.RequireString("room_id")
	if err != nil {
		return toolError("invalid_request", err.Error()), nil
	}
	limit, offset := clampPagination(request.GetInt("limit", defaultPageLimit), request.GetInt("offset", 0))
	items, err := s.outcomes.ListOutcomes(ctx, strings.TrimSpace(roomID), limit, offset)
	if err != nil {
		return mapError(err), nil
	}
	return toolResult(map[string]any{"items": items, "limit": limit, "offset": offset}), nil
}
