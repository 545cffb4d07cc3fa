package main

import (
	"context"
	"fmt"

	"duo-casino/internal/audit"
	"duo-casino/internal/config"
	"duo-casino/internal/jobs"
	"duo-casino/internal/mcpserver"
	"duo-casino/internal/room"
	"duo-casino/internal/store"
	httptransport "duo-casino/internal/transport/http"
	"duo-casino/internal/ws"

	"github.com/coder/quartz"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type app struct {
	registry *room.Registry
	store    *store.Store
	audit    *audit.Recorder
	stats    *jobs.Reporter
	router   *chi.Mux
}

func newApp(ctx context.Context, cfg config.ServerConfig) (*app, error) {
	clock := quartz.NewReal()
	a := &app{}
	opts := room.Options{
		DefaultMode: cfg.Mode(),
		DefaultRoom: cfg.DefaultRoom,
		Limits:      cfg.Limits(),
		Clock:       clock,
	}

	// Interfaces stay nil unless the store is configured.
	var outcomes httptransport.OutcomeStore
	var mcpOutcomes mcpserver.Outcomes
	if cfg.StoreEnabled() {
		st, err := store.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("store init: %w", err)
		}
		if err := st.Ping(ctx); err != nil {
			st.Close()
			return nil, fmt.Errorf("db ping: %w", err)
		}
		if err := st.EnsureSchema(ctx); err != nil {
			st.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		a.store = st
		a.audit = audit.NewRecorder(st, cfg.AuditQueueSize)
		opts.Sink = a.audit
		outcomes, mcpOutcomes = st, st
		log.Info().Int("queue", cfg.AuditQueueSize).Msg("audit_enabled")
	} else {
		log.Warn().Msg("POSTGRES_DSN empty; outcome audit disabled")
	}

	a.registry = room.NewRegistry(opts)
	a.stats = jobs.NewReporter(a.registry)
	if err := a.stats.Start(cfg.StatsCron); err != nil {
		a.close()
		return nil, err
	}

	deps := httptransport.Deps{
		Rooms: a.registry,
		WS:    ws.NewServer(a.registry, clock).HandleWS,
		Store: outcomes,
		Clock: clock,
	}
	if cfg.MCPEnabled {
		deps.MCP = mcpserver.New(a.registry, mcpOutcomes).Handler()
	}
	a.router = httptransport.NewRouter(deps)
	httptransport.LogRoutes(a.router)

	log.Info().
		Str("mode", string(cfg.Mode())).
		Str("default_room", cfg.DefaultRoom).
		Int64("min_bet", cfg.MinBet).
		Int64("max_bet", cfg.MaxBet).
		Msg("registry_ready")
	return a, nil
}

// close runs after the audit worker has drained.
func (a *app) close() {
	if a.stats != nil {
		a.stats.Stop()
	}
	if a.store != nil {
		a.store.Close()
	}
}
