package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/HamedGhaneS/My-AI-Tools/internal/config"
	"github.com/HamedGhaneS/My-AI-Tools/internal/history"
	"github.com/HamedGhaneS/My-AI-Tools/internal/logging"
	"github.com/HamedGhaneS/My-AI-Tools/internal/preflight"
	"github.com/HamedGhaneS/My-AI-Tools/internal/services"
	"github.com/HamedGhaneS/My-AI-Tools/internal/services/llm"
	"github.com/HamedGhaneS/My-AI-Tools/internal/services/whisperapi"
	"github.com/HamedGhaneS/My-AI-Tools/internal/services/whisperx"
	"github.com/HamedGhaneS/My-AI-Tools/internal/services/youtube"
	"github.com/HamedGhaneS/My-AI-Tools/internal/services/ytdlp"
	"github.com/HamedGhaneS/My-AI-Tools/internal/transcript"
	"github.com/HamedGhaneS/My-AI-Tools/internal/translate"
)

// Reporter receives user-facing status for a run. Implementations must
// tolerate being called from the goroutine reading yt-dlp output.
type Reporter interface {
	Status(message string)
	Progress(percent float64)
	Success(message string)
}

type nopReporter struct{}

func (nopReporter) Status(string)    {}
func (nopReporter) Progress(float64) {}
func (nopReporter) Success(string)   {}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithReporter sets the status sink.
func WithReporter(reporter Reporter) Option {
	return func(r *Runner) {
		if reporter != nil {
			r.reporter = reporter
		}
	}
}

// WithHistory records every run in store.
func WithHistory(store *history.Store) Option {
	return func(r *Runner) {
		r.history = store
	}
}

// WithCaptionSource replaces the YouTube caption client.
func WithCaptionSource(source transcript.CaptionSource) Option {
	return func(r *Runner) {
		r.captions = source
	}
}

// WithAudioSource replaces the yt-dlp audio downloader.
func WithAudioSource(source transcript.AudioSource) Option {
	return func(r *Runner) {
		r.audio = source
	}
}

// WithRecognizer replaces the configured speech backend.
func WithRecognizer(recognizer transcript.Recognizer) Option {
	return func(r *Runner) {
		r.recognizer = recognizer
	}
}

// WithTranslator replaces the LLM-backed translator.
func WithTranslator(translator *translate.Translator) Option {
	return func(r *Runner) {
		r.translator = translator
	}
}

// WithPreflight replaces the filesystem checks run before each transcription.
func WithPreflight(check func(context.Context, *config.Config) []preflight.Result) Option {
	return func(r *Runner) {
		r.preflight = check
	}
}

// Runner executes one transcription request at a time: resolve, select a
// transcript tier, optionally translate, write the subtitle file, and record
// the run.
type Runner struct {
	cfg      *config.Config
	logger   *slog.Logger
	reporter Reporter
	history  *history.Store

	captions      transcript.CaptionSource
	audio         transcript.AudioSource
	recognizer    transcript.Recognizer
	translator    *translate.Translator
	translatorErr error
	selector      *transcript.Selector

	speechRetry services.RetryPolicy
	preflight   func(context.Context, *config.Config) []preflight.Result
	newID       func() string
}

// New builds a Runner from cfg. Collaborators not supplied through options
// are constructed from configuration.
func New(cfg *config.Config, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("workflow: config is required")
	}
	r := &Runner{
		cfg:      cfg,
		logger:   logging.NewNop(),
		reporter: nopReporter{},
		speechRetry: services.RetryPolicy{
			MaxAttempts: cfg.Speech.MaxAttempts,
			Delay:       time.Duration(cfg.Speech.RetryDelaySeconds) * time.Second,
		},
		preflight: preflight.RunAll,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "workflow")
	if r.translator == nil {
		r.translatorErr = r.defaultTranslator()
	}

	if r.captions == nil {
		r.captions = captionSource{client: youtube.NewClient(youtube.Config{
			BaseURL:        cfg.Transcript.BaseURL,
			TimeoutSeconds: cfg.Transcript.TimeoutSeconds,
		})}
	}
	if r.audio == nil {
		r.audio = audioSource{client: ytdlp.New(cfg.Audio.YtDlpBinary, ytdlp.WithFormat(cfg.Audio.Format))}
	}
	if r.recognizer == nil {
		r.recognizer = r.defaultRecognizer()
	}

	r.selector = transcript.NewSelector(r.captions, r.audio, r.recognizer,
		transcript.WithLanguages(cfg.Transcript.Languages),
		transcript.WithWorkDir(cfg.Paths.WorkDir),
		transcript.WithRetryPolicy(r.speechRetry),
		transcript.WithLogger(r.logger),
		transcript.WithStageHook(r.announceStage),
	)
	return r, nil
}

func (r *Runner) defaultRecognizer() transcript.Recognizer {
	if r.cfg.Speech.Backend == config.SpeechBackendWhisperX {
		svc := whisperx.NewService(whisperx.Config{
			Model:       r.cfg.Speech.WhisperXModel,
			CUDAEnabled: r.cfg.Speech.WhisperXCUDAEnabled,
			VADMethod:   r.cfg.Speech.WhisperXVADMethod,
			HFToken:     r.cfg.Speech.WhisperXHuggingFace,
		}, r.cfg.Speech.FFmpegBinary)
		return localRecognizer{service: svc, workDir: r.cfg.Paths.WorkDir}
	}
	api := r.cfg.SpeechAPI()
	return apiRecognizer{client: whisperapi.NewClient(whisperapi.Config{
		APIKey:         api.APIKey,
		BaseURL:        api.BaseURL,
		Model:          api.Model,
		TimeoutSeconds: api.TimeoutSeconds,
	})}
}

// defaultTranslator wires the LLM translator when credentials are present and
// returns the reason it could not otherwise.
func (r *Runner) defaultTranslator() error {
	if err := r.cfg.TranslationReady(); err != nil {
		return err
	}
	tc := r.cfg.Translation
	client := llm.NewClient(llm.Config{
		APIKey:         tc.APIKey,
		BaseURL:        tc.BaseURL,
		Model:          tc.Model,
		Temperature:    tc.Temperature,
		MaxTokens:      tc.MaxTokens,
		TimeoutSeconds: tc.TimeoutSeconds,
	})
	r.translator = translate.New(translate.NewLLMProvider(client, tc.SourceLanguage),
		translate.WithChunkSize(tc.ChunkSize),
		translate.WithContextLines(tc.ContextLines),
		translate.WithRetryPolicy(services.RetryPolicy{
			MaxAttempts: tc.MaxAttempts,
			Delay:       time.Duration(tc.RetryDelaySeconds) * time.Second,
		}),
		translate.WithLogger(r.logger),
	)
	return nil
}

func (r *Runner) announceStage(stage transcript.Stage) {
	switch stage {
	case transcript.StageDirect:
		r.reporter.Status("Checking for YouTube transcript...")
	case transcript.StageDownload:
		r.reporter.Status("No transcript available. Downloading audio...")
	case transcript.StageRecognize:
		r.reporter.Status("Transcribing with Whisper...")
	}
}

// acquire takes the cross-process run lock. The returned release func is
// always safe to call.
func (r *Runner) acquire() (func(), error) {
	unlock, err := AcquireRunLock(r.cfg)
	if err != nil {
		return func() {}, err
	}
	return func() {
		if err := unlock(); err != nil {
			r.logger.Warn("failed to release run lock", logging.Error(err))
		}
	}, nil
}

// AcquireRunLock takes the lock that allows one transcription at a time.
// Anything that touches a run's scratch files holds it too. ErrBusy means
// another process holds it.
func AcquireRunLock(cfg *config.Config) (func() error, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "workflow", "prepare", "cannot create directories", err)
	}
	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrBusy, "", "", "another transcription is already running", nil)
	}
	return lock.Unlock, nil
}

// runPreflightChecks validates directories and disk space before any network work.
func (r *Runner) runPreflightChecks(ctx context.Context, logger *slog.Logger) error {
	if r.preflight == nil {
		return nil
	}
	results := r.preflight(ctx, r.cfg)
	for _, res := range results {
		if res.Passed {
			logger.Debug("preflight check passed",
				logging.String("check", res.Name),
				logging.String("detail", res.Detail),
				logging.String(logging.FieldEventType, "preflight_passed"),
			)
			continue
		}
		logger.Error("preflight check failed",
			logging.String("check", res.Name),
			logging.String("detail", res.Detail),
			logging.String(logging.FieldEventType, "preflight_failed"),
			logging.String(logging.FieldErrorHint, "run ytscribe doctor and fix the reported issue"),
		)
	}
	if msg := preflight.Failures(results); msg != "" {
		return services.Wrap(services.ErrConfiguration, "preflight", "", msg, nil)
	}
	return nil
}

func (r *Runner) begin(ctx context.Context, run history.Run) {
	if r.history == nil {
		return
	}
	if n, err := r.history.MarkInterrupted(ctx); err != nil {
		r.logger.Warn("history cleanup failed", logging.Error(err))
	} else if n > 0 {
		r.logger.Info("marked interrupted runs as failed", logging.Int("count", int(n)))
	}
	if _, err := r.history.Begin(ctx, run); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, r.logger), "history record failed", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "run will be missing from ytscribe history"),
		)
	}
}

func (r *Runner) finish(ctx context.Context, requestID string, outcome history.Outcome, runErr error) {
	if r.history == nil {
		return
	}
	if runErr != nil {
		outcome.Status = services.FailureStatus(runErr)
		outcome.ErrorMessage = services.UserMessage(runErr)
	} else {
		outcome.Status = services.StatusCompleted
	}
	// Cancellation must not stop the final history write.
	if err := r.history.Finish(context.WithoutCancel(ctx), requestID, outcome); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, r.logger), "history update failed", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "run status in ytscribe history may be stale"),
		)
	}
}

func (r *Runner) logFailure(ctx context.Context, err error) {
	if err == nil {
		return
	}
	logger := logging.WithContext(ctx, r.logger)
	if errors.Is(err, context.Canceled) {
		logger.Info("transcription canceled")
		return
	}
	logging.ErrorWithContext(logger, "transcription failed", "run_failed",
		logging.String("resolved_status", string(services.FailureStatus(err))),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, failureHint(err)),
	)
}

func failureHint(err error) string {
	switch {
	case errors.Is(err, services.ErrValidation):
		return "check the URL or language and try again"
	case errors.Is(err, services.ErrConfiguration):
		return "run ytscribe doctor to inspect configuration"
	case errors.Is(err, services.ErrExternalTool):
		return "check the yt-dlp/ffmpeg installation and output above"
	default:
		return "retry later; see the log for details"
	}
}
