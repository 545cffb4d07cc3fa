package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"duo-casino/internal/config"
	"duo-casino/internal/logging"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.LoadApp()
	if initErr := logging.Init(cfg.Log); initErr != nil {
		panic(initErr)
	}
	defer logging.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("load config failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg.Server); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server_exit")
}

func run(ctx context.Context, cfg config.ServerConfig) error {
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           a.router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	if a.audit != nil {
		g.Go(func() error { return a.audit.Run(gctx) })
	}
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("http_listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("http_shutdown")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
