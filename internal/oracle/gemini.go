// internal/oracle/gemini.go
package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "finops-assessment/internal/common/errors"

	"google.golang.org/genai"
)

const ProviderGemini = "gemini"

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini completes prompts with the Google GenAI SDK.
type Gemini struct {
	models contentGenerator
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, apperrors.NewOracleNotConfiguredError("gemini api key is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Gemini{models: client.Models, model: model}, nil
}

func (g *Gemini) Complete(ctx context.Context, prompt Prompt) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(prompt.Temperature)),
	}
	if prompt.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(prompt.MaxTokens)
	}
	if prompt.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(prompt.System, genai.RoleUser)
	}

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt.User), cfg)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", apperrors.NewOracleTimeoutError(ProviderGemini)
		}
		return "", apperrors.NewOracleFailedError(ProviderGemini, err)
	}
	if resp == nil {
		return "", apperrors.NewOracleMalformedResponseError("empty gemini response")
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", apperrors.NewOracleMalformedResponseError("gemini response has no text")
	}
	return text, nil
}
