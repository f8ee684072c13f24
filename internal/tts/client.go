package tts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/lexihelp/lexi-server/internal/artifact"
	"github.com/lexihelp/lexi-server/internal/config"
)

// ErrSynthesisFailed is returned when the speech backend rejects a request.
var ErrSynthesisFailed = errors.New("speech synthesis failed")

const defaultBaseURL = "https://api.elevenlabs.io"

// Client streams ElevenLabs audio into the artifact store.
type Client struct {
	cfg       config.ElevenConfig
	http      *resty.Client
	artifacts *artifact.Store
	logger    *slog.Logger
}

var _ Synthesizer = (*Client)(nil)

// NewClient creates an ElevenLabs client.
func NewClient(cfg config.ElevenConfig, artifacts *artifact.Store, logger *slog.Logger) (*Client, error) {
	if artifacts == nil {
		return nil, errors.New("artifact store is nil")
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second).
		SetHeader("xi-api-key", cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetDoNotParseResponse(true)

	return &Client{
		cfg:       cfg,
		http:      http,
		artifacts: artifacts,
		logger:    logger,
	}, nil
}

type synthesisBody struct {
	Text          string         `json:"text"`
	ModelID       string         `json:"model_id"`
	VoiceSettings *VoiceSettings `json:"voice_settings,omitempty"`
}

// Synthesize streams one synthesis call to disk and returns the artifact ID.
// A partially written file is removed on failure.
func (c *Client) Synthesize(ctx context.Context, req Request) (string, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return "", fmt.Errorf("%w: empty text", ErrSynthesisFailed)
	}

	voiceID := req.VoiceID
	if voiceID == "" {
		voiceID = c.cfg.VoiceID
	}
	outputFormat := req.OutputFormat
	if outputFormat == "" {
		outputFormat = c.cfg.OutputFormat
	}
	settings := req.Settings
	if settings == nil {
		settings = &VoiceSettings{
			Stability:       c.cfg.Stability,
			SimilarityBoost: c.cfg.SimilarityBoost,
		}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("output_format", outputFormat).
		SetBody(synthesisBody{
			Text:          text,
			ModelID:       c.cfg.ModelID,
			VoiceSettings: settings,
		}).
		Post("/v1/text-to-speech/" + voiceID + "/stream")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSynthesisFailed, err)
	}

	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(body, 512))
		if c.logger != nil {
			c.logger.Error("tts_request_failed", "status", resp.StatusCode(), "body", string(detail))
		}
		return "", fmt.Errorf("%w: status %d", ErrSynthesisFailed, resp.StatusCode())
	}

	id, file, err := c.artifacts.Create("bot_resp", ".mp3")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSynthesisFailed, err)
	}

	if _, err := io.Copy(file, body); err != nil {
		file.Close()
		_ = c.artifacts.Remove(id)
		return "", fmt.Errorf("%w: stream audio: %v", ErrSynthesisFailed, err)
	}
	if err := file.Close(); err != nil {
		_ = c.artifacts.Remove(id)
		return "", fmt.Errorf("%w: close artifact: %v", ErrSynthesisFailed, err)
	}

	return id, nil
}
