package handler

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lexihelp/lexi-server/internal/httperror"
	"github.com/lexihelp/lexi-server/internal/usecase/assessment"
)

// SessionIDHeader carries the assessment session across requests.
const SessionIDHeader = "X-Session-ID"

// CheckResponse is the spelling check response body.
type CheckResponse struct {
	Result    string `json:"result"`
	Word      string `json:"word"`
	SessionID string `json:"session_id"`
}

// SubmitRequest is the assessment submission request body.
type SubmitRequest struct {
	SessionID string `json:"session_id"`
}

// ScoreResponse is the assessment score response body.
type ScoreResponse struct {
	Score          float64 `json:"score"`
	TotalQuestions int     `json:"total_questions"`
	CorrectAnswers int     `json:"correct_answers"`
}

// AssessmentHandler serves the spelling assessment API.
type AssessmentHandler struct {
	svc    *assessment.Service
	logger *slog.Logger
}

// NewAssessmentHandler creates an assessment handler.
func NewAssessmentHandler(svc *assessment.Service, logger *slog.Logger) *AssessmentHandler {
	return &AssessmentHandler{svc: svc, logger: logger}
}

// RegisterRoutes registers the assessment routes.
func (h *AssessmentHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/upload_image", h.handleCheck)
	router.POST("/api/submit_results", h.handleSubmit)
}

func (h *AssessmentHandler) handleCheck(c *gin.Context) {
	image, err := formMedia(c, "image")
	if err != nil {
		writeError(c, httperror.NewInvalidInput(err.Error()))
		return
	}
	if image == nil {
		writeError(c, httperror.NewInvalidInput("No image file provided"))
		return
	}
	if !allowedImageFile(image.Name) {
		writeError(c, httperror.NewInvalidInput("Invalid or no image file provided"))
		return
	}

	sessionID := sessionIDFrom(c)
	result, err := h.svc.Check(c.Request.Context(), sessionID, *image, c.PostForm("word"))
	if err != nil {
		h.logError(err)
		writeError(c, err)
		return
	}

	c.Header(SessionIDHeader, result.SessionID)
	c.JSON(http.StatusOK, CheckResponse{
		Result:    result.Result,
		Word:      result.Word,
		SessionID: result.SessionID,
	})
}

func (h *AssessmentHandler) handleSubmit(c *gin.Context) {
	var req SubmitRequest
	if !bindJSONAllowEmpty(c, &req) {
		return
	}

	sessionID := strings.TrimSpace(c.GetHeader(SessionIDHeader))
	if sessionID == "" {
		sessionID = strings.TrimSpace(req.SessionID)
	}

	score, err := h.svc.Submit(c.Request.Context(), sessionID)
	if err != nil {
		h.logError(err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ScoreResponse{
		Score:          score.Percentage,
		TotalQuestions: score.TotalQuestions,
		CorrectAnswers: score.CorrectAnswers,
	})
}

func sessionIDFrom(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(SessionIDHeader)); id != "" {
		return id
	}
	return strings.TrimSpace(c.PostForm("session_id"))
}

func allowedImageFile(name string) bool {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")) {
	case "png", "jpg", "jpeg", "gif":
		return true
	}
	return false
}

func (h *AssessmentHandler) logError(err error) {
	if err == nil {
		return
	}
	h.logger.Warn("assessment_request_failed", "err", err)
}
