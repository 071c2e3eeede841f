package coach

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/eliteprep/eliteprep-api/internal/domain/onboarding"
	"github.com/eliteprep/eliteprep-api/internal/domain/trend"
	"github.com/sashabaranov/go-openai"
	"gopkg.in/yaml.v2"
)

//go:embed prompt/insight.yaml
var insightYAML []byte

var ErrEmptyCompletion = errors.New("coach: empty completion")

type prompt struct {
	SystemPrompt string `yaml:"system_prompt"`
}

type OpenAICoach struct {
	client *openai.Client
	model  string
	system string
}

// NewOpenAICoach leaves the OpenAI default endpoint in place when baseURL is
// empty.
func NewOpenAICoach(apiKey, baseURL, model string) (*OpenAICoach, error) {
	var p prompt
	if err := yaml.Unmarshal(insightYAML, &p); err != nil {
		return nil, fmt.Errorf("error parsing prompt yaml: %w", err)
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4oMini
	}

	return &OpenAICoach{
		client: openai.NewClientWithConfig(config),
		model:  model,
		system: strings.TrimSpace(p.SystemPrompt),
	}, nil
}

func (c *OpenAICoach) Summarize(ctx context.Context, avg trend.Averages, profile *onboarding.Data) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: c.system,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: describe(avg, profile),
			},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return "", ErrEmptyCompletion
	}

	return summary, nil
}
