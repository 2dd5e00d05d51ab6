package transcript

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/HamedGhaneS/My-AI-Tools/internal/logging"
	"github.com/HamedGhaneS/My-AI-Tools/internal/services"
)

// Tier identifies which path produced a transcript.
type Tier string

const (
	TierDirect   Tier = "direct"
	TierFallback Tier = "fallback"
)

// Stage names the step the selector is about to run.
type Stage string

const (
	StageDirect    Stage = "direct"
	StageDownload  Stage = "download"
	StageRecognize Stage = "recognize"
)

// ProgressFunc receives download progress as a percentage in the range 0-100.
type ProgressFunc func(percent float64)

// CaptionSource returns published captions for a video, trying languages in
// order. The returned string is the language of the track it used.
type CaptionSource interface {
	FetchCaptions(ctx context.Context, videoID string, languages []string) ([]Entry, string, error)
}

// AudioSource downloads the audio track of a video into destDir and returns
// the file path. It blocks until the download finishes.
type AudioSource interface {
	DownloadAudio(ctx context.Context, videoID, destDir string, progress ProgressFunc) (string, error)
}

// Recognizer turns an audio file into timed segments in the given language.
// Text is the recognizer's own full transcript; when empty the segment text
// is joined instead.
type Recognizer interface {
	Transcribe(ctx context.Context, audioPath, language string) (Result, error)
}

// Outcome is a successful selection. DirectErr holds the direct-tier failure
// that caused the fallback; it is never part of a returned error.
type Outcome struct {
	Result    Result
	Tier      Tier
	DirectErr error
}

// Option configures a Selector.
type Option func(*Selector)

// WithLanguages sets the caption languages tried on the direct tier.
func WithLanguages(languages []string) Option {
	return func(s *Selector) {
		if len(languages) > 0 {
			s.languages = append([]string(nil), languages...)
		}
	}
}

// WithWorkDir sets the parent directory for the fallback's temporary audio.
func WithWorkDir(dir string) Option {
	return func(s *Selector) {
		s.workDir = dir
	}
}

// WithRetryPolicy overrides the speech recognition retry schedule.
func WithRetryPolicy(policy services.RetryPolicy) Option {
	return func(s *Selector) {
		s.retry = policy
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Selector) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStageHook registers a callback fired before each stage starts.
func WithStageHook(hook func(Stage)) Option {
	return func(s *Selector) {
		s.onStage = hook
	}
}

// Selector obtains a transcript from published captions, falling back to
// audio download plus speech recognition when captions are unavailable.
type Selector struct {
	captions   CaptionSource
	audio      AudioSource
	recognizer Recognizer

	languages []string
	workDir   string
	retry     services.RetryPolicy
	logger    *slog.Logger
	onStage   func(Stage)
}

// NewSelector wires the three collaborators. audio and recognizer may be nil
// when only the direct tier is wanted; the fallback then fails with a
// configuration error.
func NewSelector(captions CaptionSource, audio AudioSource, recognizer Recognizer, opts ...Option) *Selector {
	s := &Selector{
		captions:   captions,
		audio:      audio,
		recognizer: recognizer,
		languages:  []string{"en"},
		retry:      services.DefaultRetryPolicy,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "transcript")
	return s
}

// Select returns a transcript for videoID. language is the spoken language
// requested from speech recognition on the fallback tier. The temporary audio
// directory is removed before Select returns.
func (s *Selector) Select(ctx context.Context, videoID, language string, progress ProgressFunc) (Outcome, error) {
	ctx = services.WithVideoID(ctx, videoID)

	result, directErr := s.direct(ctx, videoID)
	if directErr == nil {
		logging.WithContext(ctx, s.logger).Info("direct transcript retrieved",
			logging.Args(append(logging.DecisionAttrs("transcript_tier", string(TierDirect), "captions available"),
				logging.Int("segments", len(result.Segments)),
				logging.String("language", result.Language),
			)...)...)
		return Outcome{Result: result, Tier: TierDirect}, nil
	}
	if ctx.Err() != nil {
		return Outcome{}, ctx.Err()
	}

	logging.WithContext(ctx, s.logger).Debug("direct tier failed, falling back to audio",
		logging.String(logging.FieldEventType, "direct_tier_failed"),
		logging.Error(directErr),
	)

	result, err := s.fallback(ctx, videoID, language, progress)
	if err != nil {
		return Outcome{DirectErr: directErr}, err
	}
	logging.WithContext(ctx, s.logger).Info("fallback transcript produced",
		logging.Args(append(logging.DecisionAttrs("transcript_tier", string(TierFallback), "captions unavailable"),
			logging.Int("segments", len(result.Segments)),
			logging.String("language", result.Language),
		)...)...)
	return Outcome{Result: result, Tier: TierFallback, DirectErr: directErr}, nil
}

func (s *Selector) direct(ctx context.Context, videoID string) (Result, error) {
	if s.captions == nil {
		return Result{}, errors.New("no caption source configured")
	}
	s.stage(StageDirect)
	ctx = services.WithStage(ctx, string(StageDirect))
	entries, lang, err := s.captions.FetchCaptions(ctx, videoID, s.languages)
	if err != nil {
		return Result{}, err
	}
	if len(entries) == 0 {
		return Result{}, services.Wrap(services.ErrNotFound, string(StageDirect), "fetch captions", "caption track is empty", nil)
	}
	if lang == "" && len(s.languages) > 0 {
		lang = s.languages[0]
	}
	return FromEntries(entries, lang), nil
}

func (s *Selector) fallback(ctx context.Context, videoID, language string, progress ProgressFunc) (Result, error) {
	if s.audio == nil || s.recognizer == nil {
		return Result{}, services.Wrap(services.ErrConfiguration, string(TierFallback), "select", "audio fallback is not configured", nil)
	}

	parent := s.workDir
	if parent != "" {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return Result{}, fmt.Errorf("fallback: ensure work dir: %w", err)
		}
	}
	tempDir, err := os.MkdirTemp(parent, "ytscribe-"+videoID+"-")
	if err != nil {
		return Result{}, fmt.Errorf("fallback: create temp dir: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(tempDir); rmErr != nil {
			logging.WarnWithContext(s.logger, "temporary audio cleanup failed", "temp_cleanup_failed",
				logging.String("path", tempDir),
				logging.Error(rmErr),
				logging.String(logging.FieldErrorHint, "remove the directory manually or run ytscribe clean"),
			)
		}
	}()

	s.stage(StageDownload)
	downloadCtx := services.WithStage(ctx, string(StageDownload))
	audioPath, err := s.audio.DownloadAudio(downloadCtx, videoID, tempDir, progress)
	if err != nil {
		return Result{}, err
	}
	logging.WithContext(downloadCtx, s.logger).Info("audio downloaded", logging.String("path", filepath.Base(audioPath)))

	s.stage(StageRecognize)
	recognizeCtx := services.WithStage(ctx, string(StageRecognize))
	logger := logging.WithContext(recognizeCtx, s.logger)
	recognized, err := services.Retry(recognizeCtx, s.retry, func(ctx context.Context, attempt int) (Result, error) {
		return s.recognizer.Transcribe(ctx, audioPath, language)
	}, func(attempt int, err error, next time.Duration) {
		logging.WarnWithContext(logger, "speech recognition attempt failed", "recognition_retry",
			logging.Int("attempt", attempt),
			logging.Duration("retry_in", next),
			logging.Error(err),
			logging.String(logging.FieldImpact, "retrying speech recognition"),
		)
	})
	if err != nil {
		return Result{}, err
	}
	if len(recognized.Segments) == 0 {
		return Result{}, services.Wrap(services.ErrExternalTool, string(StageRecognize), "transcribe", "speech recognition returned no segments", nil)
	}
	return recognized.Normalize(language), nil
}

func (s *Selector) stage(stage Stage) {
	if s.onStage != nil {
		s.onStage(stage)
	}
}
