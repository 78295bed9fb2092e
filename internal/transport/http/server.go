package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomrelay/internal/config"
	"github.com/vovakirdan/roomrelay/internal/core"
)

// NewServer builds an HTTP server exposing the relay endpoints.
// A nil metrics handler leaves /metrics unrouted.
func NewServer(hub *core.Hub, cfg *config.Config, logger *zerolog.Logger, metrics stdhttp.Handler) *stdhttp.Server {
	if logger.GetLevel() > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", healthHandler)
	router.GET("/ws", gin.WrapH(NewWSHandler(hub, cfg, logger)))

	api := router.Group("/api")
	api.Use(LoggerMiddleware(logger))
	api.GET("/stats", statsHandler(hub))

	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}

func statsHandler(hub *core.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(stdhttp.StatusOK, hub.Stats())
	}
}
