package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lexihelp/lexi-server/internal/guard"
	"github.com/lexihelp/lexi-server/internal/httperror"
	"github.com/lexihelp/lexi-server/internal/llm"
	"github.com/lexihelp/lexi-server/internal/usecase/assist"
)

// AskResponse is the free-form question response body.
type AskResponse struct {
	Message       string  `json:"message"`
	Response      string  `json:"response"`
	AudioFilename *string `json:"audio_filename"`
}

// ChatRequest is the persona chat request body.
type ChatRequest struct {
	Message string             `json:"message"`
	Context string             `json:"context"`
	VoiceID string             `json:"voice_id"`
	Page    string             `json:"page"`
	History []llm.HistoryEntry `json:"history"`
}

// ChatResponse is the persona chat response body.
type ChatResponse struct {
	Response      string  `json:"response"`
	AudioFilename *string `json:"audio_filename"`
}

// VerifyRequest is the object naming verification request body.
type VerifyRequest struct {
	Answer  string `json:"answer"`
	Correct string `json:"correct"`
}

// VerifyResponse is the object naming verification response body.
type VerifyResponse struct {
	Correct       bool    `json:"correct"`
	Feedback      string  `json:"feedback"`
	AudioFilename *string `json:"audio_filename"`
}

// ChatHandler serves the conversational API.
type ChatHandler struct {
	svc    *assist.Service
	guard  guard.Guard
	logger *slog.Logger
}

// NewChatHandler creates a chat handler.
func NewChatHandler(svc *assist.Service, contentGuard guard.Guard, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{svc: svc, guard: contentGuard, logger: logger}
}

// RegisterRoutes registers the conversational routes.
func (h *ChatHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/ask", h.handleAsk)
	router.POST("/api/chat", h.handleChat)
	router.POST("/api/verify-object", h.handleVerify)
}

func (h *ChatHandler) handleAsk(c *gin.Context) {
	text := c.PostForm("text")
	image, err := formMedia(c, "image")
	if err != nil {
		writeError(c, httperror.NewInvalidInput(err.Error()))
		return
	}
	audio, err := formMedia(c, "audio")
	if err != nil {
		writeError(c, httperror.NewInvalidInput(err.Error()))
		return
	}

	if strings.TrimSpace(text) != "" {
		if err := h.guard.EnsureSafe(text); err != nil {
			h.logError(err)
			writeError(c, err)
			return
		}
	}

	reply, err := h.svc.Ask(c.Request.Context(), text, image, audio)
	if err != nil {
		h.logError(err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, AskResponse{
		Message:       "Response generated",
		Response:      reply.Response,
		AudioFilename: reply.AudioID,
	})
}

func (h *ChatHandler) handleChat(c *gin.Context) {
	var req ChatRequest
	if !bindJSONAllowEmpty(c, &req) {
		return
	}

	if strings.TrimSpace(req.Message) != "" {
		if err := h.guard.EnsureSafe(req.Message); err != nil {
			h.logError(err)
			writeError(c, err)
			return
		}
	}

	reply, err := h.svc.Chat(c.Request.Context(), req.Page, req.Context, req.History, req.Message, req.VoiceID)
	if err != nil {
		h.logError(err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ChatResponse{Response: reply.Response, AudioFilename: reply.AudioID})
}

func (h *ChatHandler) handleVerify(c *gin.Context) {
	var req VerifyRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.svc.VerifyObject(c.Request.Context(), req.Correct, req.Answer)
	if err != nil {
		h.logError(err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, VerifyResponse{
		Correct:       result.Correct,
		Feedback:      result.Feedback,
		AudioFilename: result.AudioID,
	})
}

func (h *ChatHandler) logError(err error) {
	if err == nil {
		return
	}
	h.logger.Warn("chat_request_failed", "err", err)
}
