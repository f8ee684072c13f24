package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lexihelp/lexi-server/internal/artifact"
	"github.com/lexihelp/lexi-server/internal/handler/shared"
	"github.com/lexihelp/lexi-server/internal/httperror"
	"github.com/lexihelp/lexi-server/internal/tts"
	"github.com/lexihelp/lexi-server/internal/usecase/assist"
)

// TTSRequest is the text-to-speech request body.
type TTSRequest struct {
	Text          string         `json:"text"`
	VoiceID       string         `json:"voice_id"`
	VoiceSettings map[string]any `json:"voice_settings"`
}

// TTSResponse is the text-to-speech response body.
type TTSResponse struct {
	AudioFilename string `json:"audio_filename"`
}

// SpeechHandler serves synthesis and audio artifact retrieval.
type SpeechHandler struct {
	svc       *assist.Service
	artifacts *artifact.Store
	logger    *slog.Logger
}

// NewSpeechHandler creates a speech handler.
func NewSpeechHandler(svc *assist.Service, artifacts *artifact.Store, logger *slog.Logger) *SpeechHandler {
	return &SpeechHandler{svc: svc, artifacts: artifacts, logger: logger}
}

// RegisterRoutes registers the speech routes.
func (h *SpeechHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/tts", h.handleSynthesize)
	router.GET("/api/audio/:filename", h.handleServeAudio)
}

func (h *SpeechHandler) handleSynthesize(c *gin.Context) {
	var req TTSRequest
	if !bindJSONAllowEmpty(c, &req) {
		return
	}

	var settings *tts.VoiceSettings
	if req.VoiceSettings != nil {
		settings = &tts.VoiceSettings{}
		if err := shared.Decode(req.VoiceSettings, settings); err != nil {
			writeError(c, httperror.NewInvalidInput("Invalid voice_settings"))
			return
		}
	}

	id, err := h.svc.Speak(c.Request.Context(), req.Text, req.VoiceID, settings)
	if err != nil {
		h.logError(err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, TTSResponse{AudioFilename: id})
}

func (h *SpeechHandler) handleServeAudio(c *gin.Context) {
	file, err := h.artifacts.Open(c.Param("filename"))
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	c.Header("Content-Type", "audio/mpeg")
	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), file)
}

func (h *SpeechHandler) logError(err error) {
	if err == nil {
		return
	}
	h.logger.Warn("tts_request_failed", "err", err)
}
