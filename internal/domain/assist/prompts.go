package assist

import (
	"embed"
	"fmt"
	"strconv"

	"github.com/lexihelp/lexi-server/internal/prompt"
)

//go:embed prompts/*.yml
var promptFS embed.FS

// Prompts exposes the instruction templates used by the assist flows.
type Prompts struct {
	prompts map[string]map[string]string
}

// LoadPrompts parses the embedded prompt templates.
func LoadPrompts() (*Prompts, error) {
	loaded, err := prompt.LoadYAMLDir(promptFS, "prompts")
	if err != nil {
		return nil, fmt.Errorf("load assist prompts: %w", err)
	}
	return &Prompts{prompts: loaded}, nil
}

func (p *Prompts) static(group string, key string) (string, error) {
	mapping, err := prompt.Get(p.prompts, group, "assist")
	if err != nil {
		return "", err
	}
	return prompt.Field(mapping, key, group+"."+key)
}

func (p *Prompts) formatted(group string, key string, values map[string]string) (string, error) {
	template, err := p.static(group, key)
	if err != nil {
		return "", err
	}
	return prompt.FormatTemplate(template, values)
}

// ImproveText is the writing improvement instruction for raw text.
func (p *Prompts) ImproveText(text string) (string, error) {
	return p.formatted("writing", "improve_text", map[string]string{"text": text})
}

// ImproveImage is the writing improvement instruction for an image.
func (p *Prompts) ImproveImage() (string, error) {
	return p.static("writing", "improve_image")
}

// SpellingText is the spelling review instruction for raw text.
func (p *Prompts) SpellingText(text string) (string, error) {
	return p.formatted("writing", "spelling_text", map[string]string{"text": text})
}

// SpellingImage is the spelling review instruction for an image.
func (p *Prompts) SpellingImage() (string, error) {
	return p.static("writing", "spelling_image")
}

// Simplify is the document simplification instruction.
func (p *Prompts) Simplify(text string) (string, error) {
	return p.formatted("documents", "simplify", map[string]string{"text": text})
}

// ImportantWords asks for the key vocabulary of a text as a quoted array.
func (p *Prompts) ImportantWords(text string) (string, error) {
	return p.formatted("documents", "important_words", map[string]string{"text": text})
}

// Notes is the note generation instruction.
func (p *Prompts) Notes(text string) (string, error) {
	return p.formatted("documents", "notes", map[string]string{"text": text})
}

// KeyPoints asks for five mindmap points as a quoted array.
func (p *Prompts) KeyPoints(text string) (string, error) {
	return p.formatted("documents", "key_points", map[string]string{"text": text})
}

// Fluency is the reading coach instruction sent with the learner's audio.
func (p *Prompts) Fluency(speed float64, timeTaken float64) (string, error) {
	return p.formatted("reading", "fluency", map[string]string{
		"speed":      strconv.FormatFloat(speed, 'f', -1, 64),
		"time_taken": strconv.FormatFloat(timeTaken, 'f', 2, 64),
	})
}

// AskText is the Q&A instruction for a text question.
func (p *Prompts) AskText(text string) (string, error) {
	return p.formatted("ask", "ask_text", map[string]string{"text": text})
}

// AskImage is the Q&A instruction for an image without text.
func (p *Prompts) AskImage() (string, error) {
	return p.static("ask", "ask_image")
}

// AskAudio is the Q&A instruction for an audio question.
func (p *Prompts) AskAudio() (string, error) {
	return p.static("ask", "ask_audio")
}

// Verify is the object naming check instruction.
func (p *Prompts) Verify(correct string, answer string) (string, error) {
	return p.formatted("verify", "verify", map[string]string{
		"correct": correct,
		"answer":  answer,
	})
}
