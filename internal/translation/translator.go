package translation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
)

// Translator turns plain text into the target locale. Translation is cosmetic, callers
// keep the original text on failure.
type Translator interface {
	Translate(ctx context.Context, text, sourceLocale, targetLocale string) (string, error)
}

type OpenAITranslator struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

func NewOpenAITranslator(apiKey, baseURL, model string, timeout time.Duration) *OpenAITranslator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAITranslator{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		timeout: timeout,
	}
}

func (t *OpenAITranslator) Translate(ctx context.Context, text, sourceLocale, targetLocale string) (string, error) {
	if strings.TrimSpace(text) == "" || sourceLocale == targetLocale {
		return text, nil
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       t.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf(
					"Translate the user's message from locale %q to locale %q. Reply with the translation only.",
					sourceLocale, targetLocale),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to translate to %s", targetLocale)
	}
	if len(resp.Choices) == 0 {
		return "", errors.Errorf("translation to %s returned no choices", targetLocale)
	}

	translated := strings.TrimSpace(resp.Choices[0].Message.Content)
	if translated == "" {
		return "", errors.Errorf("translation to %s is empty", targetLocale)
	}
	return translated, nil
}

// NoopTranslator returns the text unchanged. Used when translation is disabled.
type NoopTranslator struct{}

func (NoopTranslator) Translate(_ context.Context, text, _, _ string) (string, error) {
	return text, nil
}
