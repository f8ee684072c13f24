package handler

import (
	"log/slog"
	"strings"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/lexihelp/lexi-server/internal/config"
	"github.com/lexihelp/lexi-server/internal/metrics"
	"github.com/lexihelp/lexi-server/internal/middleware"
	"github.com/lexihelp/lexi-server/internal/session"
)

// NewRouter assembles the HTTP router.
func NewRouter(
	cfg *config.Config,
	logger *slog.Logger,
	sessionStore *session.Store,
	metricsStore *metrics.Store,
	writingHandler *WritingHandler,
	documentsHandler *DocumentsHandler,
	readingHandler *ReadingHandler,
	chatHandler *ChatHandler,
	speechHandler *SpeechHandler,
	assessmentHandler *AssessmentHandler,
) *gin.Engine {
	setGinMode(cfg.Logging.Level)

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		gin.Recovery(),
		middleware.APIKeyAuth(cfg),
		middleware.RateLimit(cfg),
		gzip.Gzip(gzip.DefaultCompression, gzip.WithCustomShouldCompressFn(func(c *gin.Context) bool {
			// The custom fn replaces the middleware's whole decision,
			// so the Accept-Encoding check must be repeated here.
			if !strings.Contains(c.GetHeader("Accept-Encoding"), "gzip") {
				return false
			}
			// mp3 artifacts are already compressed
			return !strings.HasPrefix(c.Request.URL.Path, "/api/audio/")
		})),
	)

	RegisterHealthRoutes(router, cfg, sessionStore, metricsStore)
	writingHandler.RegisterRoutes(router)
	documentsHandler.RegisterRoutes(router)
	readingHandler.RegisterRoutes(router)
	chatHandler.RegisterRoutes(router)
	speechHandler.RegisterRoutes(router)
	assessmentHandler.RegisterRoutes(router)

	return router
}

func setGinMode(level string) {
	if strings.EqualFold(strings.TrimSpace(level), "debug") {
		gin.SetMode(gin.DebugMode)
		return
	}
	gin.SetMode(gin.ReleaseMode)
}
