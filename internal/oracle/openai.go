package oracle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nmarceau/devine/internal/model"
	"github.com/sashabaranov/go-openai"
)

// generativeProvider asks an OpenAI-compatible chat completion endpoint
type generativeProvider struct {
	client         *openai.Client
	model          string
	timeout        time.Duration
	promptTemplate string
}

func newGenerativeProvider(cfg model.OracleConfig, promptTemplate string) *generativeProvider {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	m := cfg.Model
	if m == "" {
		m = openai.GPT4oMini
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &generativeProvider{
		client:         openai.NewClientWithConfig(clientConfig),
		model:          m,
		timeout:        timeout,
		promptTemplate: promptTemplate,
	}
}

// Name returns the provider name
func (p *generativeProvider) Name() string {
	return "generative"
}

// Answer submits the templated prompt and returns the model's reply
func (p *generativeProvider) Answer(ctx context.Context, question string, profile model.SubjectProfile) (string, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(p.promptTemplate, question, profile),
			},
		},
		MaxTokens:   20,
		Temperature: 0.2, // Short, literal replies
	}

	resp, err := p.client.CreateChatCompletion(ctxWithTimeout, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
