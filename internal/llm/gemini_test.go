package llm

import (
	"testing"

	"google.golang.org/genai"
)

func TestGeminiAliases(t *testing.T) {
	for in, want := range map[string]string{
		"gemini-flash":     "gemini-2.0-flash",
		"gemini-pro":       "gemini-2.5-pro",
		"gemini-2.5-flash": "gemini-2.5-flash",
	} {
		if got := resolveModel(in, geminiAliases); got != want {
			t.Errorf("resolveModel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{"type": "string", "description": "why"},
			"keyPoints": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"confidence": map[string]any{"type": "string", "enum": []any{"low", "high"}},
			"weird":      map[string]any{"type": "null"},
		},
		"required": []string{"explanation"},
	})

	if s.Type != genai.TypeObject {
		t.Fatalf("type = %s, want OBJECT", s.Type)
	}
	if len(s.Properties) != 4 {
		t.Fatalf("properties = %d, want 4", len(s.Properties))
	}
	if got := s.Properties["explanation"]; got.Type != genai.TypeString || got.Description != "why" {
		t.Errorf("explanation = %+v", got)
	}
	if got := s.Properties["keyPoints"]; got.Type != genai.TypeArray || got.Items.Type != genai.TypeString {
		t.Errorf("keyPoints = %+v", got)
	}
	if got := s.Properties["confidence"].Enum; len(got) != 2 || got[1] != "high" {
		t.Errorf("confidence enum = %v", got)
	}
	if got := s.Properties["weird"].Type; got != genai.TypeString {
		t.Errorf("unknown type mapped to %s, want STRING", got)
	}
	if len(s.Required) != 1 || s.Required[0] != "explanation" {
		t.Errorf("required = %v", s.Required)
	}
}
