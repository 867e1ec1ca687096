// Package http exposes the admin surface (health, participants, groups)
// and a WebSocket bridge speaking the same line protocol as the TCP
// listener.
package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/linechat-server/internal/config"
	"github.com/vovakirdan/linechat-server/internal/core"
)

// NewServer builds the admin HTTP server.
func NewServer(hub *core.Hub, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	handlers := NewAdminHandlers(hub, logger)
	router.GET("/health", handlers.Health)

	api := router.Group("/api")
	{
		api.GET("/participants", handlers.Participants)
		api.GET("/groups", handlers.Groups)
	}

	router.GET("/ws", gin.WrapH(NewWSHandler(hub, logger)))

	return &stdhttp.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
