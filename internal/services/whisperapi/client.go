package whisperapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	langpkg "github.com/HamedGhaneS/My-AI-Tools/internal/language"
	"github.com/HamedGhaneS/My-AI-Tools/internal/services"
)

const defaultHTTPTimeout = 10 * time.Minute

// Config captures the settings for the hosted Whisper transcription API.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

// Client uploads audio to an OpenAI-compatible /audio/transcriptions endpoint.
type Client struct {
	cfg Config
	api *openai.Client
}

// NewClient constructs a transcription client.
func NewClient(cfg Config) *Client {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.Model = strings.TrimSpace(cfg.Model)
	if cfg.Model == "" {
		cfg.Model = openai.Whisper1
	}

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

// Model returns the configured model name for logging.
func (c *Client) Model() string {
	return c.cfg.Model
}

// Segment is one timed span of recognised speech.
type Segment struct {
	Text  string
	Start float64
	End   float64
}

// Result is the decoded verbose_json transcription.
type Result struct {
	Text     string
	Language string
	Duration float64
	Segments []Segment
}

// Transcribe uploads the audio file and returns the recognised text with
// segment timings. Authentication failures are tagged as configuration errors
// so callers do not retry them.
func (c *Client) Transcribe(ctx context.Context, audioPath, language string) (Result, error) {
	if c.cfg.APIKey == "" {
		return Result{}, services.Wrap(services.ErrConfiguration, "speech", "transcribe", "speech API key is not configured", nil)
	}
	if strings.TrimSpace(audioPath) == "" {
		return Result{}, errors.New("whisper api: audio path required")
	}
	file, err := os.Open(audioPath)
	if err != nil {
		return Result{}, fmt.Errorf("whisper api: open audio: %w", err)
	}
	defer file.Close()

	resp, err := c.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.cfg.Model,
		FilePath: filepath.Base(audioPath),
		Reader:   file,
		Format:   openai.AudioResponseFormatVerboseJSON,
		Language: langpkg.ToISO2(language),
	})
	if err != nil {
		return Result{}, classify(err)
	}

	result := Result{
		Text:     strings.TrimSpace(resp.Text),
		Language: resp.Language,
		Duration: resp.Duration,
		Segments: make([]Segment, 0, len(resp.Segments)),
	}
	for _, seg := range resp.Segments {
		result.Segments = append(result.Segments, Segment{Text: seg.Text, Start: seg.Start, End: seg.End})
	}
	return result, nil
}

func classify(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}
	switch status {
	case 0:
		return services.Wrap(services.ErrTransient, "speech", "transcribe", "request failed", err)
	case http.StatusUnauthorized, http.StatusForbidden:
		return services.Wrap(services.ErrConfiguration, "speech", "transcribe", fmt.Sprintf("whisper api status %d", status), err)
	default:
		return services.Wrap(services.ErrTransient, "speech", "transcribe", fmt.Sprintf("whisper api status %d", status), err)
	}
}
