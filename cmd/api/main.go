package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/petermazzocco/blogly/internal/blog"
	"github.com/petermazzocco/blogly/internal/config"
	"github.com/petermazzocco/blogly/internal/database"
	"github.com/petermazzocco/blogly/internal/router"
	"github.com/petermazzocco/blogly/internal/session"
	"github.com/petermazzocco/blogly/internal/store"
	"github.com/petermazzocco/blogly/internal/views"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	cfg := config.Load()
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	} else {
		log.Warn().Str("level", cfg.LogLevel).Msg("Unknown log level, using info")
	}

	// Database connection
	db, err := database.Open(cfg.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to auto migrate models")
	}

	v, err := views.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse templates")
	}

	svc := blog.NewService(store.New(db))
	sessions := session.NewStore(cfg.SessionSecret, cfg.SessionSecure)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router.New(svc, v, sessions),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("Starting blog server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
	if err := database.Close(db); err != nil {
		log.Error().Err(err).Msg("Failed to close database")
	}
	log.Info().Msg("Server exited")
}
