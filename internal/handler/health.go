package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lexihelp/lexi-server/internal/config"
	"github.com/lexihelp/lexi-server/internal/health"
	"github.com/lexihelp/lexi-server/internal/metrics"
	"github.com/lexihelp/lexi-server/internal/session"
)

// ModelConfigResponse is the model configuration response body.
type ModelConfigResponse struct {
	ModelDefault   string  `json:"model_default"`
	ModelJudge     string  `json:"model_judge"`
	Temperature    float64 `json:"temperature"`
	TimeoutSeconds int     `json:"timeout_seconds"`
	HTTP2Enabled   bool    `json:"http2_enabled"`
	TransportMode  string  `json:"transport_mode"`
}

// UsageResponse is the aggregate token usage response body.
type UsageResponse struct {
	InputTokens  int64  `json:"input_tokens"`
	OutputTokens int64  `json:"output_tokens"`
	TotalTokens  int64  `json:"total_tokens"`
	TotalCalls   int64  `json:"total_calls"`
	Model        string `json:"model"`
}

// RegisterHealthRoutes registers health, metrics, and usage routes.
func RegisterHealthRoutes(router *gin.Engine, cfg *config.Config, store *session.Store, metricsStore *metrics.Store) {
	router.GET("/health", func(c *gin.Context) {
		// Liveness stays shallow so a session store outage never marks
		// the process as down.
		payload := health.Collect(c.Request.Context(), cfg, store, false)
		c.JSON(http.StatusOK, payload)
	})

	router.GET("/health/ready", func(c *gin.Context) {
		payload := health.Collect(c.Request.Context(), cfg, store, true)
		status := http.StatusOK
		if payload.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, payload)
	})

	router.GET("/health/models", func(c *gin.Context) {
		transportMode := "h1"
		if cfg.HTTP.HTTP2Enabled {
			transportMode = "h2c"
		}

		c.JSON(http.StatusOK, ModelConfigResponse{
			ModelDefault:   cfg.Gemini.DefaultModel,
			ModelJudge:     cfg.Gemini.ModelForTask("judge"),
			Temperature:    cfg.Gemini.Temperature,
			TimeoutSeconds: cfg.Gemini.TimeoutSeconds,
			HTTP2Enabled:   cfg.HTTP.HTTP2Enabled,
			TransportMode:  transportMode,
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/api/usage", func(c *gin.Context) {
		totals := metricsStore.UsageTotals()
		snapshot := metricsStore.Snapshot()
		c.JSON(http.StatusOK, UsageResponse{
			InputTokens:  int64(totals.InputTokens),
			OutputTokens: int64(totals.OutputTokens),
			TotalTokens:  int64(totals.TotalTokens),
			TotalCalls:   int64(snapshot["total_calls"]),
			Model:        cfg.Gemini.DefaultModel,
		})
	})
}
