// Package googlegenai implements llm.Generator on top of Google's Gen AI SDK.
package googlegenai

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/hashicorp/go-hclog"
	"google.golang.org/genai"

	"github.com/jmylchreest/moodboard/internal/apperr"
	"github.com/jmylchreest/moodboard/internal/config"
	"github.com/jmylchreest/moodboard/internal/llm"
)

// modelPrefix is the prefix that Google API returns for model names.
const modelPrefix = "models/"

// contentFunc matches genai's Models.GenerateContent.
type contentFunc func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// Generator sends prompts to a Gemini model.
type Generator struct {
	client   *genai.Client
	model    string
	logger   hclog.Logger
	generate contentFunc
}

// New creates a client from cfg. The caller owns the returned generator and
// shares it between requests; there is no package-level client.
func New(ctx context.Context, cfg *config.Config, logger hclog.Logger) (*Generator, error) {
	const op = "googlegenai.new"

	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	client, err := genai.NewClient(ctx, clientConfig(cfg))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindConfiguration, op, err, "failed to create Gen AI client")
	}

	backendName := "Gemini API"
	if client.ClientConfig().Backend == genai.BackendVertexAI {
		backendName = "Vertex AI"
	}
	logger = logger.Named("genai")
	logger.Debug("client ready", "backend", backendName, "model", cfg.Model)

	return &Generator{
		client:   client,
		model:    strings.TrimPrefix(cfg.Model, modelPrefix),
		logger:   logger,
		generate: client.Models.GenerateContent,
	}, nil
}

func clientConfig(cfg *config.Config) *genai.ClientConfig {
	cc := &genai.ClientConfig{Backend: genai.BackendGeminiAPI}
	if cfg.Backend == config.BackendVertexAI {
		cc.Backend = genai.BackendVertexAI
	}
	if cc.Backend == genai.BackendGeminiAPI {
		cc.APIKey = cfg.APIKey
	}
	return cc
}

// Generate implements llm.Generator.
func (g *Generator) Generate(ctx context.Context, req llm.Request) (string, error) {
	const op = "googlegenai.generate"

	genConfig := &genai.GenerateContentConfig{}
	if req.SystemInstruction != "" {
		genConfig.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if req.Temperature != nil {
		genConfig.Temperature = genai.Ptr(*req.Temperature)
	}

	g.logger.Debug("calling GenerateContent", "model", g.model,
		"prompt_chars", len(req.Prompt), "has_system", req.SystemInstruction != "")

	resp, err := g.generate(ctx, g.model, genai.Text(req.Prompt), genConfig)
	if err != nil {
		g.logger.Warn("generation failed", "model", g.model, "error", err)
		return "", apperr.Service(op, err)
	}

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		reason := "empty response"
		if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != "" {
			reason = fmt.Sprintf("empty response (finish reason: %s)", resp.Candidates[0].FinishReason)
		}
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			reason = fmt.Sprintf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return "", apperr.Service(op, errors.New(reason))
	}

	g.logger.Debug("received response", "chars", len(text))
	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	return resp.Text()
}

// ModelInfo describes a model that can serve text generation.
type ModelInfo struct {
	Name        string
	DisplayName string
	Description string
}

// ListModels returns the Gemini models that support content generation.
func (g *Generator) ListModels(ctx context.Context) ([]ModelInfo, error) {
	const op = "googlegenai.list_models"

	var models []ModelInfo
	for model, err := range g.client.Models.All(ctx) {
		if err != nil {
			return models, apperr.Service(op, err)
		}
		if !isTextModel(model) {
			continue
		}
		models = append(models, ModelInfo{
			Name:        strings.TrimPrefix(model.Name, modelPrefix),
			DisplayName: model.DisplayName,
			Description: model.Description,
		})
	}
	return models, nil
}

func isTextModel(m *genai.Model) bool {
	if m == nil || !strings.Contains(m.Name, "gemini") {
		return false
	}
	if len(m.SupportedActions) == 0 {
		return true
	}
	return slices.Contains(m.SupportedActions, "generateContent")
}

var _ llm.Generator = (*Generator)(nil)
