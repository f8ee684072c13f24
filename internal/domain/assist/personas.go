package assist

import (
	"fmt"
	"strings"

	"github.com/lexihelp/lexi-server/internal/llm"
	"github.com/lexihelp/lexi-server/internal/prompt"
)

const defaultPersonaKey = "default"

// PersonaTable maps site pages to chat persona prompts.
type PersonaTable struct {
	personas map[string]string
}

// LoadPersonas parses the embedded persona table. A "default" persona
// must be present.
func LoadPersonas() (*PersonaTable, error) {
	personas, err := prompt.LoadYAMLMapping(promptFS, "prompts/personas.yml")
	if err != nil {
		return nil, fmt.Errorf("load personas: %w", err)
	}
	if strings.TrimSpace(personas[defaultPersonaKey]) == "" {
		return nil, fmt.Errorf("personas: missing %q entry", defaultPersonaKey)
	}
	return &PersonaTable{personas: personas}, nil
}

// Lookup returns the persona for a page, falling back to the default.
// Page keys are case insensitive.
func (t *PersonaTable) Lookup(page string) string {
	key := strings.ToLower(strings.TrimSpace(page))
	if key == "" {
		key = defaultPersonaKey
	}
	persona, ok := t.personas[key]
	if !ok || strings.TrimSpace(persona) == "" {
		return t.personas[defaultPersonaKey]
	}
	return persona
}

// ComposeChatPrompt builds the full chat prompt: persona, optional
// context, prior turns, the user message, and the closing directive.
func (t *PersonaTable) ComposeChatPrompt(page string, context string, history []llm.HistoryEntry, message string) string {
	system := strings.TrimSpace(t.Lookup(page))
	if strings.TrimSpace(page) != "" {
		system += fmt.Sprintf("\nThe user is currently on the page: %s. ", page)
		system += "Guide them specifically for this page."
	}

	parts := []string{system}
	if strings.TrimSpace(context) != "" {
		parts = append(parts, "Context: "+context)
	}
	for _, entry := range history {
		role := "User"
		if strings.EqualFold(entry.Role, "assistant") {
			role = "Assistant"
		}
		parts = append(parts, role+": "+entry.Content)
	}
	parts = append(parts, "User: "+message)
	parts = append(parts, "\nAnswer succinctly and simply:")
	return strings.Join(parts, "\n\n")
}
