package mcpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"duo-casino/internal/room"
	"duo-casino/internal/store"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Rooms is the read side of the room registry.
type Rooms interface {
	List() []room.Summary
	Snapshot(id string) (room.Snapshot, bool)
	Stats() room.Stats
}

// Outcomes is the read side of the audit store. May be nil.
type Outcomes interface {
	ListOutcomes(ctx context.Context, roomID string, limit, offset int) ([]store.OutcomeRecord, error)
}

type Server struct {
	rooms    Rooms
	outcomes Outcomes

	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
}

func New(rooms Rooms, outcomes Outcomes) *Server {
	mcpSrv := server.NewMCPServer(
		"duo-casino",
		"0.1.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithRecovery(),
		server.WithResourceRecovery(),
	)
	s := &Server{
		rooms:      rooms,
		outcomes:   outcomes,
		mcpServer:  mcpSrv,
		httpServer: server.NewStreamableHTTPServer(mcpSrv, server.WithStateLess(true), server.WithDisableStreaming(true)),
	}
	s.registerRoomTools()
	s.registerResources()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.httpServer
}

func (s *Server) registerResources() {
	s.mcpServer.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"room://{room_id}/snapshot",
			"room_snapshot",
			mcp.WithTemplateDescription("Spectator view of a live room"),
			mcp.WithTemplateMIMEType("application/json"),
		),
		func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			raw := string(request.Params.URI)
			if !strings.HasPrefix(raw, "room://") || !strings.HasSuffix(raw, "/snapshot") {
				return nil, nil
			}
			roomID := strings.TrimSuffix(strings.TrimPrefix(raw, "room://"), "/snapshot")
			if roomID == "" {
				return nil, nil
			}
			snap, ok := s.rooms.Snapshot(roomID)
			if !ok {
				return nil, errRoomNotFound
			}
			payload, err := json.Marshal(snap)
			if err != nil {
				return nil, err
			}
			return []mcp.ResourceContents{
				mcp.TextResourceContents{
					URI:      raw,
					MIMEType: "application/json",
					Text:     string(payload),
				},
			}, nil
		},
	)
}
