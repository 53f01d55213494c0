package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/linkup/linkup-server/internal/adapters/http"
	"github.com/linkup/linkup-server/internal/app"
	"github.com/linkup/linkup-server/internal/auth"
	"github.com/linkup/linkup-server/internal/config"
	"github.com/linkup/linkup-server/internal/storage"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
		return
	}

	// Signaling survives a dead database: chat just loses durability
	// and the account API is not mounted.
	var store *storage.Store
	connectCtx, connectCancel := context.WithTimeout(ctx, 10*time.Second)
	store, err = storage.Connect(connectCtx, cfg.MongoURI, cfg.MongoDB)
	connectCancel()
	if err != nil {
		log.Error().Err(err).Msg("mongo unavailable, running without persistence")
		store = nil
	}

	var msgStore app.MessageStore
	if store != nil {
		msgStore = store.Messages()
	}
	coord := app.NewCoordinator(msgStore)
	tokens := auth.NewTokens(cfg.Secret, cfg.JWTTTL)

	r := router.SetupRouter(ctx, &router.Deps{
		Cfg:     cfg,
		Coord:   coord,
		Store:   store,
		Tokens:  tokens,
		Started: time.Now(),
	})
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("LinkUp server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	if store != nil {
		if err := store.Close(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		}
	}
	log.Info().Msg("Server exited gracefully")
}
