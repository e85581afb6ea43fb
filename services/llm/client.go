package llm

import (
	"context"

	"github.com/sakxhamm/CivicsCoach-sub000/services/prompting/datatypes"
)

// Message is one chat turn in the wire format backends expect.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type GenerationParams struct {
	Temperature *float32 `json:"temperature"`
	TopK        *int     `json:"top_k"`
	TopP        *float32 `json:"top_p"`
	MaxTokens   *int     `json:"max_tokens"`
	Stop        []string `json:"stop"`
}

// Client defines the standard interface for any LLM backend.
type Client interface {
	Generate(ctx context.Context, prompt string, params GenerationParams) (string, error)
	Chat(ctx context.Context, messages []Message, params GenerationParams) (string, error)
}

// ParamsFromProfile maps an optimized parameter profile onto generation
// params. Temperature and nucleus threshold translate directly; the
// evidence pool size is a retrieval concern and never reaches the
// backend.
func ParamsFromProfile(profile datatypes.ParameterProfile) GenerationParams {
	temp := float32(profile.Temperature)
	topP := float32(profile.NucleusThreshold)
	return GenerationParams{
		Temperature: &temp,
		TopP:        &topP,
	}
}

// MessagesFromPayload flattens an instruction payload into chat turns,
// one message per block, preserving order.
func MessagesFromPayload(p datatypes.InstructionPayload) []Message {
	messages := make([]Message, 0, len(p.Blocks))
	for _, block := range p.Blocks {
		messages = append(messages, Message{
			Role:    string(block.Role),
			Content: block.Text,
		})
	}
	return messages
}
