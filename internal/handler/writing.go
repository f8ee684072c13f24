package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lexihelp/lexi-server/internal/httperror"
	"github.com/lexihelp/lexi-server/internal/usecase/assist"
)

// WritingResponse is the writing assistant response body.
type WritingResponse struct {
	Message      string `json:"message"`
	ImprovedText string `json:"improved_text"`
}

// WritingHandler serves the writing assistant API.
type WritingHandler struct {
	svc    *assist.Service
	logger *slog.Logger
}

// NewWritingHandler creates a writing handler.
func NewWritingHandler(svc *assist.Service, logger *slog.Logger) *WritingHandler {
	return &WritingHandler{svc: svc, logger: logger}
}

// RegisterRoutes registers the writing assistant routes.
func (h *WritingHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/writing-assistant", h.handleImprove)
	router.POST("/api/writing-assistant-spelling", h.handleSpelling)
}

func (h *WritingHandler) handleImprove(c *gin.Context) {
	text := c.PostForm("text")
	image, err := formMedia(c, "image")
	if err != nil {
		writeError(c, httperror.NewInvalidInput(err.Error()))
		return
	}

	result, err := h.svc.ImproveWriting(c.Request.Context(), text, image)
	if err != nil {
		h.logError(err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, WritingResponse{Message: result.Message, ImprovedText: result.ImprovedText})
}

func (h *WritingHandler) handleSpelling(c *gin.Context) {
	text := c.PostForm("text")
	image, err := formMedia(c, "image")
	if err != nil {
		writeError(c, httperror.NewInvalidInput(err.Error()))
		return
	}

	result, err := h.svc.ListSpellingMistakes(c.Request.Context(), text, image)
	if err != nil {
		h.logError(err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, WritingResponse{Message: result.Message, ImprovedText: result.ImprovedText})
}

func (h *WritingHandler) logError(err error) {
	if err == nil {
		return
	}
	h.logger.Warn("writing_request_failed", "err", err)
}
