package config

import "testing"

func TestParseAPIKeys(t *testing.T) {
	t.Setenv("GEMINI_API_KEYS", "k1, k2")
	keys := parseAPIKeys()
	if len(keys) != 2 || keys[0] != "k1" || keys[1] != "k2" {
		t.Fatalf("unexpected keys: %+v", keys)
	}

	t.Setenv("GEMINI_API_KEYS", "")
	t.Setenv("GEMINI_API_KEY", "single")
	keys = parseAPIKeys()
	if len(keys) != 1 || keys[0] != "single" {
		t.Fatalf("unexpected single key: %+v", keys)
	}
}

func TestSplitKeys(t *testing.T) {
	keys := splitKeys("a,b c\td\n")
	if len(keys) != 4 {
		t.Fatalf("unexpected keys length: %d", len(keys))
	}
}

func TestGeminiConfigModelSelection(t *testing.T) {
	cfg := GeminiConfig{DefaultModel: "gemini-2.5-flash", JudgeModel: "gemini-2.5-pro"}
	if cfg.ModelForTask("judge") != "gemini-2.5-pro" {
		t.Fatalf("unexpected model for judge")
	}
	if cfg.ModelForTask("chat") != "gemini-2.5-flash" {
		t.Fatalf("unexpected default model")
	}

	cfg = GeminiConfig{DefaultModel: "gemini-2.5-flash"}
	if cfg.ModelForTask("judge") != "gemini-2.5-flash" {
		t.Fatalf("expected fallback to default model")
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error without keys")
	}

	cfg = &Config{
		Gemini: GeminiConfig{APIKeys: []string{"k"}},
		Eleven: ElevenConfig{APIKey: "e"},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestBuildConfigDefaults(t *testing.T) {
	cfg := buildConfig()
	if cfg.Gemini.DefaultModel != "gemini-2.5-flash" {
		t.Fatalf("unexpected default model: %s", cfg.Gemini.DefaultModel)
	}
	if cfg.Eleven.OutputFormat != "mp3_44100_128" {
		t.Fatalf("unexpected output format: %s", cfg.Eleven.OutputFormat)
	}
	if cfg.Artifacts.Dir != "uploads" {
		t.Fatalf("unexpected artifact dir: %s", cfg.Artifacts.Dir)
	}
}

func TestMaskSecret(t *testing.T) {
	if maskSecret("") != "<missing>" {
		t.Fatalf("expected missing marker")
	}
	if maskSecret("abcd") != "****" {
		t.Fatalf("expected full mask for short secret")
	}
	if masked := maskSecret("supersecret"); masked != "su***et" {
		t.Fatalf("unexpected mask: %s", masked)
	}
}
