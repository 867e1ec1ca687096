package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/linechat-server/internal/config"
	"github.com/vovakirdan/linechat-server/internal/core"
	"github.com/vovakirdan/linechat-server/internal/store"
	"github.com/vovakirdan/linechat-server/internal/store/sqlite"
	transporthttp "github.com/vovakirdan/linechat-server/internal/transport/http"
	transporttcp "github.com/vovakirdan/linechat-server/internal/transport/tcp"
)

// App wires together the store, the hub and both transports.
type App struct {
	chatServer      *transporttcp.Server
	httpServer      *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	store           store.Store
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg config.Config, logger *zerolog.Logger) (*App, error) {
	st, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	logger.Info().Str("db_path", cfg.DatabasePath).Msg("database initialized")

	hub := core.NewHub(st, logger)
	chatServer := transporttcp.NewServer(cfg.Addr, hub, logger)
	httpServer := transporthttp.NewServer(hub, cfg, logger)

	return &App{
		chatServer:      chatServer,
		httpServer:      httpServer,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		store:           st,
		log:             logger,
	}, nil
}

// Run starts the hub and both listeners and blocks until context
// cancellation or a fatal listener error.
func (a *App) Run(ctx context.Context) error {
	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()

	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		a.hub.Run(hubCtx)
	}()

	serverErr := make(chan error, 2)

	if err := a.chatServer.Listen(); err != nil {
		a.cleanup()
		return err
	}
	go func() {
		serverErr <- a.chatServer.Serve(ctx)
	}()

	go func() {
		a.log.Info().Str("addr", a.httpServer.Addr).Msg("http listener started")
		if err := a.httpServer.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		stopHub()
		<-hubDone
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		err := a.httpServer.Shutdown(shutdownCtx)

		<-serverErr // chat listener exits with the cancelled context
		stopHub()
		<-hubDone
		a.cleanup()
		return err
	}
}

// cleanup closes the database and other resources.
func (a *App) cleanup() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}
