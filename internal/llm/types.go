package llm

import (
	"path/filepath"
	"strings"
)

// HistoryEntry is a single prior turn of a conversation.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Usage holds token usage for a model call.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// ContentPart is one unit of model input: either plain text or raw
// media bytes tagged with a MIME type.
type ContentPart struct {
	Text     string
	Data     []byte
	MIMEType string
}

// IsText reports whether the part carries text rather than media bytes.
func (p ContentPart) IsText() bool {
	return p.MIMEType == ""
}

// TextPart builds a text content part.
func TextPart(text string) ContentPart {
	return ContentPart{Text: text}
}

// MediaPart builds a media content part, inferring the MIME type from
// the filename extension.
func MediaPart(filename string, data []byte) ContentPart {
	return ContentPart{Data: data, MIMEType: MediaTypeForFilename(filename)}
}

// MediaTypeForFilename maps a filename extension to the MIME tag sent to
// the model. Unknown extensions are forwarded as opaque binary rather
// than rejected.
func MediaTypeForFilename(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".jpg", ".jpeg":
		// png shares the jpeg tag; the model accepts either and
		// existing clients depend on the current tagging.
		return "image/jpeg"
	case ".wav":
		return "audio/wav"
	case ".mp3":
		return "audio/mpeg"
	default:
		return "application/octet-stream"
	}
}

// Media is an uploaded file prior to normalization.
type Media struct {
	Name string
	Data []byte
}

// BuildParts normalizes raw request inputs into the ordered list of
// content parts to submit: media first, trailing instruction text last,
// so the model reads the data before the directive. Empty inputs are
// skipped; an empty result means the caller supplied no usable input.
func BuildParts(text string, media ...Media) []ContentPart {
	parts := make([]ContentPart, 0, len(media)+1)
	for _, m := range media {
		if len(m.Data) == 0 {
			continue
		}
		parts = append(parts, MediaPart(m.Name, m.Data))
	}
	if strings.TrimSpace(text) != "" {
		parts = append(parts, TextPart(text))
	}
	return parts
}
