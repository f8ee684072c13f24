package tts

import "context"

// VoiceSettings tunes the synthesis voice.
type VoiceSettings struct {
	Stability       float64 `json:"stability" mapstructure:"stability"`
	SimilarityBoost float64 `json:"similarity_boost" mapstructure:"similarity_boost"`
}

// Request describes one synthesis call. Zero-valued fields fall back to
// the configured defaults.
type Request struct {
	Text         string
	VoiceID      string
	OutputFormat string
	Settings     *VoiceSettings
}

// Synthesizer converts text to a stored audio artifact and returns its ID.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) (string, error)
}
