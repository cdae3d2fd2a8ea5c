package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/kirillkom/prospect-radar/internal/core/domain"
	"github.com/kirillkom/prospect-radar/internal/infrastructure/resilience"
)

// Client is a chat-completions backend for the analyst. It requests JSON
// object responses so prompts can rely on a parseable reply.
type Client struct {
	api         *goopenai.Client
	model       string
	temperature float32
	executor    *resilience.Executor
}

func New(apiKey, baseURL, model string, executor *resilience.Executor) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, domain.WrapError(domain.ErrCollaboratorUnavailable, "openai client", errors.New("api key is not configured"))
	}
	cfg := goopenai.DefaultConfig(apiKey)
	if base := strings.TrimSpace(baseURL); base != "" {
		cfg.BaseURL = strings.TrimRight(base, "/")
	}
	return &Client{
		api:         goopenai.NewClientWithConfig(cfg),
		model:       model,
		temperature: 0.2,
		executor:    executor,
	}, nil
}

func (c *Client) Name() string { return "openai" }

func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	req := goopenai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: system},
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	text, err := resilience.Do(ctx, c.executor, "openai.chat", func(callCtx context.Context) (string, error) {
		resp, err := c.api.CreateChatCompletion(callCtx, req)
		if err != nil {
			return "", normalizeError(err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("openai chat: empty choices")
		}
		return strings.TrimSpace(resp.Choices[0].Message.Content), nil
	}, resilience.ClassifyHTTPError)
	if err != nil {
		return "", resilience.WrapTemporary("openai chat", err)
	}
	return text, nil
}

// normalizeError maps SDK errors onto resilience.HTTPStatusError so the shared
// classifier can decide about retries.
func normalizeError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return &resilience.HTTPStatusError{
			Service:    "openai",
			Operation:  "chat",
			StatusCode: apiErr.HTTPStatusCode,
			Status:     http.StatusText(apiErr.HTTPStatusCode),
			Body:       apiErr.Message,
		}
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return &resilience.HTTPStatusError{
			Service:    "openai",
			Operation:  "chat",
			StatusCode: reqErr.HTTPStatusCode,
			Status:     http.StatusText(reqErr.HTTPStatusCode),
			Body:       fmt.Sprint(reqErr.Err),
		}
	}
	return err
}
