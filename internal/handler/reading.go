package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lexihelp/lexi-server/internal/httperror"
	"github.com/lexihelp/lexi-server/internal/usecase/assist"
)

// FluencyResponse is the reading fluency response body.
type FluencyResponse struct {
	FluencyRating int     `json:"fluency_rating"`
	FeedbackText  string  `json:"feedback_text"`
	FeedbackAudio *string `json:"feedback_audio"`
}

// ReadingResultsRequest carries client-computed reading metrics.
type ReadingResultsRequest struct {
	ReadingSpeed float64 `json:"readingSpeed"`
	TimeTaken    float64 `json:"timeTaken"`
}

// ReadingHandler serves the reading assistance API.
type ReadingHandler struct {
	svc    *assist.Service
	logger *slog.Logger
}

// NewReadingHandler creates a reading handler.
func NewReadingHandler(svc *assist.Service, logger *slog.Logger) *ReadingHandler {
	return &ReadingHandler{svc: svc, logger: logger}
}

// RegisterRoutes registers the reading routes.
func (h *ReadingHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/upload-audio", h.handleFluency)
	router.POST("/api/save-reading-results", h.handleSaveResults)
}

func (h *ReadingHandler) handleFluency(c *gin.Context) {
	audio, err := formMedia(c, "audio")
	if err != nil {
		writeError(c, httperror.NewInvalidInput(err.Error()))
		return
	}
	if audio == nil {
		writeError(c, httperror.NewInvalidInput("No audio file provided!"))
		return
	}

	speed := formFloat(c, "readingSpeed")
	timeTaken := formFloat(c, "timeTaken")

	result, err := h.svc.AssessFluency(c.Request.Context(), *audio, speed, timeTaken)
	if err != nil {
		h.logError(err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, FluencyResponse{
		FluencyRating: result.Rating,
		FeedbackText:  result.FeedbackText,
		FeedbackAudio: result.FeedbackAudio,
	})
}

func (h *ReadingHandler) handleSaveResults(c *gin.Context) {
	var req ReadingResultsRequest
	if !bindJSON(c, &req) {
		return
	}

	h.logger.Info("reading_results_saved", "reading_speed", req.ReadingSpeed, "time_taken", req.TimeTaken)
	c.JSON(http.StatusOK, gin.H{"message": "Reading results saved successfully!"})
}

func formFloat(c *gin.Context, field string) float64 {
	parsed, err := strconv.ParseFloat(c.PostForm(field), 64)
	if err != nil {
		return 0
	}
	return parsed
}

func (h *ReadingHandler) logError(err error) {
	if err == nil {
		return
	}
	h.logger.Warn("reading_request_failed", "err", err)
}
