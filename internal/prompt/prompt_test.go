package prompt

import (
	"testing"
	"testing/fstest"
)

func TestFormatTemplate(t *testing.T) {
	out, err := FormatTemplate("Improve {text} for {grade}", map[string]string{
		"text":  "this",
		"grade": "3rd",
	})
	if err != nil {
		t.Fatalf("FormatTemplate: %v", err)
	}
	if out != "Improve this for 3rd" {
		t.Fatalf("out = %q", out)
	}
}

func TestFormatTemplateLiteralBraces(t *testing.T) {
	out, err := FormatTemplate("{{json}} {x}", map[string]string{"x": "ok"})
	if err != nil {
		t.Fatalf("FormatTemplate: %v", err)
	}
	if out != "{json} ok" {
		t.Fatalf("out = %q", out)
	}
}

func TestFormatTemplateMissingValue(t *testing.T) {
	if _, err := FormatTemplate("{missing}", map[string]string{}); err == nil {
		t.Fatal("expected error for missing value")
	}
}

func TestFormatTemplateUnterminated(t *testing.T) {
	if _, err := FormatTemplate("{oops", nil); err == nil {
		t.Fatal("expected error for unterminated placeholder")
	}
	if _, err := FormatTemplate("oops}", nil); err == nil {
		t.Fatal("expected error for stray close brace")
	}
}

func TestValidateSystemStatic(t *testing.T) {
	if err := ValidateSystemStatic("p", "plain text with {{literal}}"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateSystemStatic("p", "has {variable}"); err == nil {
		t.Fatal("expected error for template variable")
	}
}

func TestLoadYAMLDir(t *testing.T) {
	fsys := fstest.MapFS{
		"prompts/improve.yml": &fstest.MapFile{
			Data: []byte("template: \"Improve {text}\"\n"),
		},
		"prompts/simplify.yaml": &fstest.MapFile{
			Data: []byte("template: Simplify\nsystem: You are a helper.\n"),
		},
	}

	prompts, err := LoadYAMLDir(fsys, "prompts")
	if err != nil {
		t.Fatalf("LoadYAMLDir: %v", err)
	}
	if len(prompts) != 2 {
		t.Fatalf("loaded %d prompts", len(prompts))
	}

	improve, err := Get(prompts, "improve", "assist")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	tmpl, err := Field(improve, "template", "improve.template")
	if err != nil {
		t.Fatalf("Field: %v", err)
	}
	if tmpl != "Improve {text}" {
		t.Fatalf("template = %q", tmpl)
	}

	if _, err := Get(prompts, "nope", "assist"); err == nil {
		t.Fatal("expected error for unknown prompt")
	}
}

func TestLoadYAMLMappingRejectsDynamicSystem(t *testing.T) {
	fsys := fstest.MapFS{
		"bad.yml": &fstest.MapFile{Data: []byte("system: \"uses {var}\"\n")},
	}
	if _, err := LoadYAMLMapping(fsys, "bad.yml"); err == nil {
		t.Fatal("expected error for templated system prompt")
	}
}
