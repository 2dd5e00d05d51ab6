package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/HamedGhaneS/My-AI-Tools/internal/services"
)

const defaultHTTPTimeout = 60 * time.Second

// Config captures the runtime settings required to talk to an
// OpenAI-compatible chat completion endpoint.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	Temperature    float64
	MaxTokens      int
	TimeoutSeconds int
}

// Client wraps the chat completion API. Each call is a single request;
// callers own retries.
type Client struct {
	cfg Config
	api *openai.Client
}

// NewClient constructs an LLM client using the supplied configuration.
func NewClient(cfg Config) *Client {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.Model = strings.TrimSpace(cfg.Model)

	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	apiCfg.HTTPClient = &http.Client{Timeout: timeout}
	return &Client{cfg: cfg, api: openai.NewClientWithConfig(apiCfg)}
}

// Model reports the configured model name.
func (c *Client) Model() string {
	return c.cfg.Model
}

// StatusCode reports the HTTP status carried by err, or 0 when err did not
// come from a non-2xx response.
func StatusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

type emptyContentError struct {
	Op           string
	FinishReason string
	Refusal      string
}

func (e *emptyContentError) Error() string {
	return fmt.Sprintf("%s: empty content (finish_reason=%q, refusal=%q)", e.Op, e.FinishReason, e.Refusal)
}

// Complete issues a plain-text chat completion using the configured
// temperature and token limit and returns the trimmed reply. A reply cut off
// at the token limit is an error, never a partial result.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	systemPrompt = strings.TrimSpace(systemPrompt)
	userPrompt = strings.TrimSpace(userPrompt)
	if systemPrompt == "" {
		return "", errors.New("llm complete: system prompt required")
	}
	if userPrompt == "" {
		return "", errors.New("llm complete: user prompt required")
	}
	if c.cfg.APIKey == "" {
		return "", services.Wrap(services.ErrConfiguration, "translate", "llm complete", "api key required", nil)
	}
	return c.complete(ctx, "llm complete", openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: float32(c.cfg.Temperature),
		MaxTokens:   c.cfg.MaxTokens,
	})
}

// HealthCheck issues a tiny completion to verify the API key and model are usable.
func (c *Client) HealthCheck(ctx context.Context) error {
	if c.cfg.APIKey == "" {
		return errors.New("llm health: api key required")
	}
	content, err := c.complete(ctx, "llm health", openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "Reply with the single word OK."},
			{Role: openai.ChatMessageRoleUser, Content: "ping"},
		},
		MaxTokens: 5,
	})
	if err != nil {
		return err
	}
	if !strings.Contains(strings.ToUpper(content), "OK") {
		return fmt.Errorf("llm health: unexpected response %q", summarizeSnippet(content))
	}
	return nil
}

func (c *Client) complete(ctx context.Context, op string, req openai.ChatCompletionRequest) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classify(ctx, op, err)
	}
	if len(resp.Choices) == 0 {
		return "", services.Wrap(services.ErrTransient, "translate", op, "empty choices", nil)
	}
	choice := resp.Choices[0]
	if choice.FinishReason == openai.FinishReasonLength {
		return "", services.Wrap(services.ErrConfiguration, "translate", op,
			fmt.Sprintf("reply truncated at max_tokens=%d; raise translation.max_tokens", req.MaxTokens), nil)
	}
	content := strings.TrimSpace(choice.Message.Content)
	if content == "" {
		return "", services.Wrap(services.ErrTransient, "translate", op, "no reply", &emptyContentError{
			Op:           op,
			FinishReason: string(choice.FinishReason),
			Refusal:      strings.TrimSpace(choice.Message.Refusal),
		})
	}
	return content, nil
}

// classify tags request failures so the retry loop stops on credential and
// model errors and keeps going on throttling and outages.
func classify(ctx context.Context, op string, err error) error {
	if ctx.Err() != nil {
		return err
	}
	status := StatusCode(err)
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return services.Wrap(services.ErrConfiguration, "translate", op, fmt.Sprintf("http %d", status), err)
	case 0:
		return services.Wrap(services.ErrTransient, "translate", op, "request failed", err)
	default:
		return services.Wrap(services.ErrTransient, "translate", op, fmt.Sprintf("http %d", status), err)
	}
}

func summarizeSnippet(content string) string {
	clean := strings.Join(strings.Fields(content), " ")
	if clean == "" {
		return "<empty>"
	}
	const limit = 160
	runes := []rune(clean)
	if len(runes) > limit {
		clean = string(runes[:limit]) + "..."
	}
	return clean
}
