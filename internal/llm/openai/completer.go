package openai

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/anupamsr/skydoc/internal/domain"
	"github.com/anupamsr/skydoc/internal/llm"
)

// Config configures the OpenAI-compatible completion client. BaseURL may
// point at any gateway speaking the chat completions API.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

type openAICompleter struct {
	client      *openai.Client
	model       string
	temperature float32
	timeout     time.Duration
}

// NewCompleter creates a Completer backed by an OpenAI-compatible API.
func NewCompleter(cfg Config) llm.Completer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4.1-nano"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &openAICompleter{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       model,
		temperature: cfg.Temperature,
		timeout:     timeout,
	}
}

func (c *openAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	}

	rsp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: chat completion: %v", domain.ErrUpstream, err)
	}

	if len(rsp.Choices) == 0 || len(rsp.Choices[0].Message.Content) == 0 {
		return "", fmt.Errorf("%w: empty completion response", domain.ErrUpstream)
	}

	return rsp.Choices[0].Message.Content, nil
}
