package translate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/HamedGhaneS/My-AI-Tools/internal/logging"
	"github.com/HamedGhaneS/My-AI-Tools/internal/services"
	"github.com/HamedGhaneS/My-AI-Tools/internal/transcript"
)

// DefaultChunkSize is the maximum number of characters sent per request.
const DefaultChunkSize = 1000

// Request is a single translation call.
type Request struct {
	Text           string
	TargetLanguage string
	// Context carries neighbouring subtitle lines; it may be empty.
	Context string
}

// Provider translates one request. Implementations make a single attempt;
// Translator owns chunking and retries.
type Provider interface {
	Translate(ctx context.Context, req Request) (string, error)
}

// ProgressFunc receives segment translation progress as a whole percentage.
type ProgressFunc func(percent int)

// Option configures a Translator.
type Option func(*Translator)

// WithChunkSize overrides the chunk length in characters.
func WithChunkSize(size int) Option {
	return func(t *Translator) {
		if size > 0 {
			t.chunkSize = size
		}
	}
}

// WithRetryPolicy overrides the per-chunk retry schedule.
func WithRetryPolicy(policy services.RetryPolicy) Option {
	return func(t *Translator) {
		t.retry = policy
	}
}

// WithContextLines sets how many neighbouring segments on each side are sent
// as context by TranslateSegments. Zero disables context.
func WithContextLines(n int) Option {
	return func(t *Translator) {
		if n >= 0 {
			t.contextLines = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Translator) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// Translator splits text into fixed-size chunks and translates each with
// bounded retries.
type Translator struct {
	provider     Provider
	chunkSize    int
	retry        services.RetryPolicy
	contextLines int
	logger       *slog.Logger
}

// New constructs a Translator around provider.
func New(provider Provider, opts ...Option) *Translator {
	t := &Translator{
		provider:     provider,
		chunkSize:    DefaultChunkSize,
		retry:        services.DefaultRetryPolicy,
		contextLines: 2,
		logger:       logging.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = logging.NewComponentLogger(t.logger, "translate")
	return t
}

// Translate translates text into language. The text is split into chunks of
// at most the configured size, each chunk is translated independently, and the
// results are joined with a single space. If any chunk exhausts its retries
// the whole call fails.
func (t *Translator) Translate(ctx context.Context, text, language string) (string, error) {
	return t.translate(ctx, text, language, "")
}

// TranslateSegments translates each segment on its own, keeping timings.
// Segments are never merged; long segments are chunked individually.
func (t *Translator) TranslateSegments(ctx context.Context, segments []transcript.Segment, language string, progress ProgressFunc) ([]transcript.Segment, error) {
	out := make([]transcript.Segment, len(segments))
	for i, seg := range segments {
		translated, err := t.translate(ctx, seg.Text, language, t.contextFor(segments, i))
		if err != nil {
			return nil, fmt.Errorf("translate segment %d: %w", i+1, err)
		}
		out[i] = transcript.Segment{Text: translated, Start: seg.Start, End: seg.End}
		if progress != nil {
			progress((i + 1) * 100 / len(segments))
		}
	}
	return out, nil
}

func (t *Translator) contextFor(segments []transcript.Segment, index int) string {
	if t.contextLines <= 0 {
		return ""
	}
	lo := max(0, index-t.contextLines)
	hi := min(len(segments), index+t.contextLines+1)
	parts := make([]string, 0, hi-lo)
	for i := lo; i < hi; i++ {
		if i == index {
			continue
		}
		if text := strings.TrimSpace(segments[i].Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

func (t *Translator) translate(ctx context.Context, text, language, neighbours string) (string, error) {
	if t.provider == nil {
		return "", services.Wrap(services.ErrConfiguration, "translate", "translate", "no translation provider configured", nil)
	}
	chunks := SplitChunks(text, t.chunkSize)
	results := make([]string, 0, len(chunks))
	for idx, chunk := range chunks {
		req := Request{Text: chunk, TargetLanguage: language, Context: neighbours}
		translated, err := services.Retry(ctx, t.retry, func(ctx context.Context, attempt int) (string, error) {
			return t.provider.Translate(ctx, req)
		}, func(attempt int, err error, next time.Duration) {
			logging.WarnWithContext(logging.WithContext(ctx, t.logger), "translation attempt failed", "translation_retry",
				logging.Int("chunk", idx+1),
				logging.Int("attempt", attempt),
				logging.Duration("retry_in", next),
				logging.Error(err),
				logging.String(logging.FieldImpact, "retrying translation chunk"),
			)
		})
		if err != nil {
			return "", services.Wrap(services.ErrTransient, "translate", fmt.Sprintf("chunk %d of %d", idx+1, len(chunks)), "translation failed", err)
		}
		results = append(results, translated)
	}
	return strings.Join(results, " "), nil
}

// SplitChunks splits text into consecutive pieces of at most size characters
// (runes). Word boundaries are ignored. Empty text yields no chunks.
func SplitChunks(text string, size int) []string {
	if text == "" {
		return nil
	}
	if size <= 0 {
		size = DefaultChunkSize
	}
	runes := []rune(text)
	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); start += size {
		end := min(start+size, len(runes))
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
