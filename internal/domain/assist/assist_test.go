package assist

import (
	"reflect"
	"strings"
	"testing"

	"github.com/lexihelp/lexi-server/internal/llm"
)

func loadTestPrompts(t *testing.T) *Prompts {
	t.Helper()
	prompts, err := LoadPrompts()
	if err != nil {
		t.Fatalf("LoadPrompts: %v", err)
	}
	return prompts
}

func TestPromptsSubstituteText(t *testing.T) {
	prompts := loadTestPrompts(t)

	improve, err := prompts.ImproveText("teh cat sat")
	if err != nil {
		t.Fatalf("ImproveText: %v", err)
	}
	if !strings.Contains(improve, "teh cat sat") {
		t.Fatalf("text not substituted: %q", improve)
	}
	if !strings.Contains(improve, "dyslexic reader") {
		t.Fatalf("unexpected template: %q", improve)
	}

	simplify, err := prompts.Simplify("dense prose")
	if err != nil {
		t.Fatalf("Simplify: %v", err)
	}
	if !strings.Contains(simplify, "'dense prose'") {
		t.Fatalf("text not quoted: %q", simplify)
	}
}

func TestFluencyPromptCarriesMetrics(t *testing.T) {
	prompts := loadTestPrompts(t)

	fluency, err := prompts.Fluency(92, 31.5)
	if err != nil {
		t.Fatalf("Fluency: %v", err)
	}
	if !strings.Contains(fluency, "Reading speed: 92 words per minute") {
		t.Fatalf("speed missing: %q", fluency)
	}
	if !strings.Contains(fluency, "Time taken: 31.50 seconds") {
		t.Fatalf("time missing: %q", fluency)
	}
	if !strings.Contains(fluency, "fluency score from 0 to 100") {
		t.Fatalf("coach instructions missing: %q", fluency)
	}
}

func TestVerifyPromptQuotesBothWords(t *testing.T) {
	prompts := loadTestPrompts(t)

	verify, err := prompts.Verify("apple", "appel")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !strings.Contains(verify, `Correct word: "apple"`) || !strings.Contains(verify, `User said: "appel"`) {
		t.Fatalf("words missing: %q", verify)
	}
}

func TestPersonaLookup(t *testing.T) {
	personas, err := LoadPersonas()
	if err != nil {
		t.Fatalf("LoadPersonas: %v", err)
	}

	home := personas.Lookup("home")
	if !strings.Contains(home, "explore the platform") {
		t.Fatalf("home persona = %q", home)
	}
	if personas.Lookup("Home") != home {
		t.Fatal("lookup should be case insensitive")
	}

	fallback := personas.Lookup("no-such-page")
	if !strings.Contains(fallback, "friendly assistant for users with dyslexia") {
		t.Fatalf("fallback persona = %q", fallback)
	}
	if personas.Lookup("") != fallback {
		t.Fatal("empty page should use default persona")
	}
}

func TestComposeChatPrompt(t *testing.T) {
	personas, err := LoadPersonas()
	if err != nil {
		t.Fatalf("LoadPersonas: %v", err)
	}

	history := []llm.HistoryEntry{
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hello"},
	}
	composed := personas.ComposeChatPrompt("memory-game", "first visit", history, "how do I play?")

	if !strings.Contains(composed, "memory exercises") {
		t.Fatalf("persona missing: %q", composed)
	}
	if !strings.Contains(composed, "The user is currently on the page: memory-game.") {
		t.Fatalf("page reminder missing: %q", composed)
	}
	if !strings.Contains(composed, "Context: first visit") {
		t.Fatalf("context missing: %q", composed)
	}
	if !strings.Contains(composed, "User: hi") || !strings.Contains(composed, "Assistant: hello") {
		t.Fatalf("history missing: %q", composed)
	}
	if !strings.HasSuffix(composed, "Answer succinctly and simply:") {
		t.Fatalf("closing directive missing: %q", composed)
	}

	userIdx := strings.Index(composed, "User: how do I play?")
	historyIdx := strings.Index(composed, "Assistant: hello")
	if userIdx < historyIdx {
		t.Fatal("user message should follow history")
	}
}

func TestExtractQuoted(t *testing.T) {
	got := ExtractQuoted(`Here: ["cat", "dog", "sun"]`)
	want := []string{"cat", "dog", "sun"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ExtractQuoted = %v, want %v", got, want)
	}

	if got := ExtractQuoted("no quotes here"); len(got) != 0 {
		t.Fatalf("expected no matches, got %v", got)
	}
}

func TestExtractScore(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"85\nGreat reading!", 85},
		{"Score: 100", 100},
		{"999 too big", 100},
		{"no digits", 0},
		{"7 out of ten", 7},
	}
	for _, tc := range cases {
		if got := ExtractScore(tc.in); got != tc.want {
			t.Fatalf("ExtractScore(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestCleanMarkup(t *testing.T) {
	if got := CleanMarkup("**bold** and *italic*"); got != "bold and italic" {
		t.Fatalf("CleanMarkup = %q", got)
	}
}
