// internal/oracle/openai.go
package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "finops-assessment/internal/common/errors"
	apphttp "finops-assessment/internal/common/http"

	"github.com/tidwall/gjson"
)

const ProviderOpenAI = "openai"

// OpenAI talks to any OpenAI-compatible chat completions endpoint.
type OpenAI struct {
	client  *apphttp.Client
	baseURL string
	apiKey  string
	model   string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

func NewOpenAI(client *apphttp.Client, baseURL, apiKey, model string) *OpenAI {
	return &OpenAI{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
	}
}

func (o *OpenAI) Complete(ctx context.Context, prompt Prompt) (string, error) {
	if o.apiKey == "" {
		return "", apperrors.NewOracleNotConfiguredError("openai api key is not set")
	}

	req := chatRequest{
		Model:       o.model,
		MaxTokens:   prompt.MaxTokens,
		Temperature: prompt.Temperature,
	}
	if prompt.System != "" {
		req.Messages = append(req.Messages, chatMessage{Role: "system", Content: prompt.System})
	}
	req.Messages = append(req.Messages, chatMessage{Role: "user", Content: prompt.User})

	body, err := o.client.PostJSON(ctx, o.baseURL+"/chat/completions", map[string]string{
		"Authorization": "Bearer " + o.apiKey,
	}, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", apperrors.NewOracleTimeoutError(ProviderOpenAI)
		}
		var statusErr *apphttp.StatusError
		if errors.As(err, &statusErr) {
			msg := gjson.GetBytes(statusErr.Body, "error.message").String()
			return "", apperrors.NewOracleFailedError(ProviderOpenAI,
				fmt.Errorf("status %d: %s", statusErr.StatusCode, msg))
		}
		return "", apperrors.NewOracleFailedError(ProviderOpenAI, err)
	}

	if !gjson.ValidBytes(body) {
		return "", apperrors.NewOracleMalformedResponseError("response is not valid JSON")
	}
	content := gjson.GetBytes(body, "choices.0.message.content")
	if !content.Exists() || content.Type == gjson.Null {
		return "", apperrors.NewOracleMalformedResponseError("response has no choices[0].message.content")
	}
	return content.String(), nil
}
