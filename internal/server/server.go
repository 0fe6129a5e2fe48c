package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"sketchit/internal/analytics"
	"sketchit/internal/config"
	"sketchit/internal/db"
	"sketchit/internal/events"
	"sketchit/internal/game"
	"sketchit/internal/logger"
	"sketchit/internal/rooms"
	"sketchit/internal/words"
	"sketchit/internal/wshub"
)

type Server struct {
	Engine  *game.Engine
	Hub     *wshub.Hub
	Config  config.Config
	DB      *db.DB             // nil if no database configured
	Queries *analytics.Queries // nil if no database configured

	log zerolog.Logger
}

func New(engine *game.Engine, hub *wshub.Hub, cfg config.Config) *Server {
	return &Server{
		Engine: engine,
		Hub:    hub,
		Config: cfg,
		log:    logger.For("server"),
	}
}

// Run wires the game together and serves until ctx is cancelled.
func Run(ctx context.Context, cfg config.Config) error {
	store := rooms.NewStore(rooms.Options{MaxRounds: cfg.MaxRounds})
	hub := wshub.NewHub()
	bus := events.NewBus()

	gameCfg := game.DefaultConfig()
	gameCfg.RoundSeconds = cfg.RoundDuration
	gameCfg.RevealDelay = cfg.RevealDelay
	engine := game.New(store, hub, words.Default(), bus, gameCfg)

	srv := New(engine, hub, cfg)

	// Optional database connection
	var results ResultStore
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Warn().Err(err).Msg("database unavailable, running without the game archive")
		} else {
			defer database.Close()
			if err := database.Migrate(); err != nil {
				log.Error().Err(err).Msg("migration failed")
			}
			srv.DB = database
			srv.Queries = analytics.NewQueries(database)
			results = database
		}
	} else {
		log.Info().Msg("DATABASE_URL not set, running without the game archive")
	}

	go srv.runArchiver(ctx, bus, results)

	httpSrv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.ListenAndServe()
	}()
	log.Info().Str("addr", cfg.Addr()).Msg("server listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	}
}
