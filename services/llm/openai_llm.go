package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/sakxhamm/CivicsCoach-sub000/services/prompting/datatypes"
)

// OpenAIClient talks to the OpenAI chat completion API. The API key is
// sealed in a SecureKey and the underlying client is rebuilt per call,
// so the key is only in plain memory while a request is in flight.
type OpenAIClient struct {
	key   *SecureKey
	model string
}

func NewOpenAIClient() (*OpenAIClient, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	model := os.Getenv("OPENAI_MODEL") // e.g., "gpt-4o"
	if apiKey == "" {
		secretPath := "/run/secrets/openai_api_key"
		apiKeyBytes, err := os.ReadFile(secretPath)
		if err == nil {
			apiKey = strings.TrimSpace(string(apiKeyBytes))
			slog.Info("Read the OpenAI API Key from Podman Secrets")
		} else {
			slog.Error("OPENAI_API_KEY environment variable not set and secret not found", "path", secretPath)
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}
	if model == "" {
		model = "gpt-4o-mini"
		slog.Warn("OPENAI_MODEL not set, defaulting to gpt-4o-mini")
	}

	key, err := NewSecureKey(apiKey)
	if err != nil {
		return nil, fmt.Errorf("seal OpenAI API key: %w", err)
	}
	slog.Info("Initializing OpenAI client", "model", model)
	return &OpenAIClient{
		key:   key,
		model: model,
	}, nil
}

// Generate implements the Client interface.
func (o *OpenAIClient) Generate(ctx context.Context, prompt string, params GenerationParams) (string, error) {
	persona := os.Getenv("CIVICS_PERSONA")
	if persona == "" {
		persona = "You are CivicsCoach, a constitutional education assistant."
	}
	messages := []Message{
		{Role: openai.ChatMessageRoleSystem, Content: persona},
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	}
	return o.Chat(ctx, messages, params)
}

// Chat implements the Client interface.
func (o *OpenAIClient) Chat(ctx context.Context, messages []Message, params GenerationParams) (string, error) {
	slog.Debug("Generating text via OpenAI", "model", o.model, "message_count", len(messages))

	req := openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, msg := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}
	if params.Temperature != nil {
		req.Temperature = *params.Temperature
	}
	if params.MaxTokens != nil {
		req.MaxCompletionTokens = *params.MaxTokens
	}
	if params.TopP != nil {
		req.TopP = *params.TopP
	}
	if len(params.Stop) > 0 {
		req.Stop = params.Stop
	}

	var resp openai.ChatCompletionResponse
	err := o.key.Use(func(apiKey string) error {
		var callErr error
		resp, callErr = openai.NewClient(apiKey).CreateChatCompletion(ctx, req)
		return callErr
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			slog.Warn("OpenAI rate limit hit", "model", o.model)
			return "", &datatypes.BackendError{Err: err, RateLimited: true}
		}
		slog.Error("OpenAI API call failed", "error", err)
		return "", fmt.Errorf("OpenAI API call failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		slog.Warn("OpenAI returned no choices or empty content")
		return "", fmt.Errorf("OpenAI returned no choices")
	}
	slog.Debug("Received response from OpenAI", "finish_reason", resp.Choices[0].FinishReason)
	return resp.Choices[0].Message.Content, nil
}
