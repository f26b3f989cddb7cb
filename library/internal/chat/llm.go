package chat

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Astemirdum/library-lending/pkg/circuit_breaker"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func system(content string) Message { return Message{Role: "system", Content: content} }

func user(content string) Message { return Message{Role: "user", Content: content} }

type Completer interface {
	Complete(ctx context.Context, msgs []Message) (string, error)
}

type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// OpenAIClient talks to any endpoint that implements the OpenAI chat
// completions API. Calls go through a circuit breaker so that an outage
// fails fast instead of holding requests for the full timeout.
type OpenAIClient struct {
	cfg    Config
	client *openai.Client
	cb     circuit_breaker.CircuitBreaker
}

func NewOpenAIClient(cfg Config) *OpenAIClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	return &OpenAIClient{
		cfg:    cfg,
		client: openai.NewClientWithConfig(oc),
		cb:     circuit_breaker.NewCircuitBreaker(10, 30*time.Second, 0.5, 2),
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, msgs []Message) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:    c.cfg.Model,
		Messages: make([]openai.ChatCompletionMessage, 0, len(msgs)),
	}
	for _, m := range msgs {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	var answer string
	err := c.cb.Call(func() error {
		resp, err := c.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return llmError(err)
		}
		if len(resp.Choices) == 0 {
			return errors.New("llm returned no choices")
		}
		answer = strings.TrimSpace(resp.Choices[0].Message.Content)
		return nil
	})
	return answer, err
}

func llmError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("llm status %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("llm status %d", reqErr.HTTPStatusCode)
	}
	return errors.Wrap(err, "llm request")
}
