package googlegenai

import (
	"context"
	"errors"
	"testing"

	"github.com/hashicorp/go-hclog"
	"google.golang.org/genai"

	"github.com/jmylchreest/moodboard/internal/apperr"
	"github.com/jmylchreest/moodboard/internal/config"
	"github.com/jmylchreest/moodboard/internal/llm"
)

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: genai.NewContentFromText(text, genai.RoleModel),
		}},
	}
}

func newTestGenerator(fn contentFunc) *Generator {
	return &Generator{
		model:    config.DefaultModel,
		logger:   hclog.NewNullLogger(),
		generate: fn,
	}
}

func TestGenerate(t *testing.T) {
	var gotModel string
	var gotConfig *genai.GenerateContentConfig
	var gotContents []*genai.Content

	g := newTestGenerator(func(_ context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		gotModel = model
		gotContents = contents
		gotConfig = cfg
		return textResponse("你好"), nil
	})

	text, err := g.Generate(context.Background(), llm.Request{
		Prompt:            "hello",
		SystemInstruction: "be kind",
		Temperature:       llm.Temperature(0.4),
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if text != "你好" {
		t.Errorf("Generate() = %q, want %q", text, "你好")
	}
	if gotModel != config.DefaultModel {
		t.Errorf("model = %q, want %q", gotModel, config.DefaultModel)
	}
	if len(gotContents) != 1 || gotContents[0].Parts[0].Text != "hello" {
		t.Errorf("contents = %+v", gotContents)
	}
	if gotConfig.SystemInstruction == nil || gotConfig.SystemInstruction.Parts[0].Text != "be kind" {
		t.Errorf("system instruction not set: %+v", gotConfig.SystemInstruction)
	}
	if gotConfig.Temperature == nil || *gotConfig.Temperature != 0.4 {
		t.Errorf("temperature = %v, want 0.4", gotConfig.Temperature)
	}
}

func TestGenerateWithoutOptionalFields(t *testing.T) {
	var gotConfig *genai.GenerateContentConfig
	g := newTestGenerator(func(_ context.Context, _ string, _ []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		gotConfig = cfg
		return textResponse("ok"), nil
	})

	if _, err := g.Generate(context.Background(), llm.Request{Prompt: "p"}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if gotConfig.SystemInstruction != nil {
		t.Error("SystemInstruction should be nil")
	}
	if gotConfig.Temperature != nil {
		t.Error("Temperature should be nil")
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		err  error
	}{
		{name: "transport failure", err: errors.New("429 quota exceeded")},
		{name: "nil response"},
		{name: "blank text", resp: textResponse("   ")},
		{
			name: "blocked prompt",
			resp: &genai.GenerateContentResponse{
				PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGenerator(func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
				return tt.resp, tt.err
			})
			_, err := g.Generate(context.Background(), llm.Request{Prompt: "p"})
			if !apperr.Is(err, apperr.KindService) {
				t.Errorf("Generate() error = %v, want service error", err)
			}
		})
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	cfg := &config.Config{Backend: config.BackendGeminiAPI, Model: config.DefaultModel}
	_, err := New(context.Background(), cfg, nil)
	if !apperr.Is(err, apperr.KindConfiguration) {
		t.Errorf("New() error = %v, want configuration error", err)
	}
}

func TestClientConfig(t *testing.T) {
	cc := clientConfig(&config.Config{Backend: config.BackendGeminiAPI, APIKey: "k"})
	if cc.Backend != genai.BackendGeminiAPI || cc.APIKey != "k" {
		t.Errorf("gemini config = %+v", cc)
	}

	cc = clientConfig(&config.Config{Backend: config.BackendVertexAI, APIKey: "k"})
	if cc.Backend != genai.BackendVertexAI || cc.APIKey != "" {
		t.Errorf("vertex config = %+v", cc)
	}
}

func TestIsTextModel(t *testing.T) {
	tests := []struct {
		model *genai.Model
		want  bool
	}{
		{&genai.Model{Name: "models/gemini-2.5-flash", SupportedActions: []string{"generateContent"}}, true},
		{&genai.Model{Name: "models/gemini-embedding-001", SupportedActions: []string{"embedContent"}}, false},
		{&genai.Model{Name: "models/imagen-4.0-generate-001"}, false},
		{&genai.Model{Name: "models/gemini-2.0-flash"}, true},
		{nil, false},
	}
	for _, tt := range tests {
		if got := isTextModel(tt.model); got != tt.want {
			name := "<nil>"
			if tt.model != nil {
				name = tt.model.Name
			}
			t.Errorf("isTextModel(%s) = %v, want %v", name, got, tt.want)
		}
	}
}
