package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/HamedGhaneS/My-AI-Tools/internal/history"
	"github.com/HamedGhaneS/My-AI-Tools/internal/language"
	"github.com/HamedGhaneS/My-AI-Tools/internal/logging"
	"github.com/HamedGhaneS/My-AI-Tools/internal/services"
	"github.com/HamedGhaneS/My-AI-Tools/internal/subtitles"
	"github.com/HamedGhaneS/My-AI-Tools/internal/transcript"
	"github.com/HamedGhaneS/My-AI-Tools/internal/videoid"
)

// Request describes a YouTube transcription.
type Request struct {
	URL string
	// Language is the desired transcript language; empty means English.
	Language string
	// WriteSubtitles controls whether an SRT file is written.
	WriteSubtitles bool
	// OutputDir overrides paths.output_dir for the subtitle file.
	OutputDir string
}

// FileRequest describes a local audio file transcription.
type FileRequest struct {
	Path           string
	Language       string
	WriteSubtitles bool
	OutputDir      string
}

// Result is what a successful run produced.
type Result struct {
	RequestID    string
	VideoID      string
	Tier         transcript.Tier
	Language     string
	Segments     []transcript.Segment
	Text         string
	Translated   bool
	SubtitlePath string
	// FallbackReason is the suppressed direct-tier error when the fallback ran.
	FallbackReason string
	// Message is the final status line shown to the user.
	Message string
}

// Run transcribes the video at req.URL.
func (r *Runner) Run(ctx context.Context, req Request) (Result, error) {
	release, err := r.acquire()
	defer release()
	if err != nil {
		return Result{}, err
	}

	requestID := r.newID()
	ctx = services.WithRequestID(ctx, requestID)
	source := strings.TrimSpace(req.URL)
	id, idOK := videoid.Resolve(source)
	if idOK {
		ctx = services.WithVideoID(ctx, id)
	}

	r.begin(ctx, history.Run{
		RequestID: requestID,
		Kind:      history.KindVideo,
		Source:    source,
		VideoID:   id,
		Language:  strings.TrimSpace(req.Language),
	})

	var outcome history.Outcome
	result, err := r.run(ctx, req, id, idOK, &outcome)
	result.RequestID = requestID
	r.finish(ctx, requestID, outcome, err)
	r.logFailure(ctx, err)
	if err != nil {
		return result, err
	}
	r.reporter.Success(result.Message)
	return result, nil
}

func (r *Runner) run(ctx context.Context, req Request, id string, idOK bool, outcome *history.Outcome) (Result, error) {
	logger := logging.WithContext(ctx, r.logger)
	if strings.TrimSpace(req.URL) == "" {
		return Result{}, services.Wrap(services.ErrValidation, "", "", "Please enter a YouTube URL", nil)
	}
	if !idOK {
		return Result{}, services.Wrap(services.ErrValidation, "", "", "Invalid YouTube URL", nil)
	}
	target, err := parseLanguage(req.Language)
	if err != nil {
		return Result{}, err
	}
	if err := r.runPreflightChecks(ctx, logger); err != nil {
		return Result{}, err
	}

	logger.Info("transcription started",
		logging.String(logging.FieldEventType, "run_started"),
		logging.String("language", target),
		logging.Bool("write_subtitles", req.WriteSubtitles),
	)

	sampler := logging.NewProgressSampler(5)
	progress := func(percent float64) {
		r.reporter.Progress(percent)
		if sampler.ShouldLog(percent, string(transcript.StageDownload)) {
			logger.Info("audio download progress", logging.Float64("percent", percent))
		}
	}

	selected, err := r.selector.Select(ctx, id, target, progress)
	if selected.DirectErr != nil {
		outcome.FallbackReason = services.UserMessage(selected.DirectErr)
	}
	if err != nil {
		return Result{VideoID: id, FallbackReason: outcome.FallbackReason}, err
	}
	outcome.Tier = string(selected.Tier)

	res := Result{
		VideoID:        id,
		Tier:           selected.Tier,
		Language:       language.Base(selected.Result.Language),
		Segments:       selected.Result.Segments,
		Text:           selected.Result.Text,
		FallbackReason: outcome.FallbackReason,
	}
	if res.Language == "" {
		res.Language = target
	}

	if selected.Tier == transcript.TierDirect && !language.Equal(target, res.Language) {
		if err := r.translateResult(ctx, &res, target); err != nil {
			return res, err
		}
	}
	outcome.Translated = res.Translated
	outcome.SegmentCount = len(res.Segments)

	if req.WriteSubtitles {
		path, err := r.writeSubtitles(ctx, req.OutputDir, subtitles.FileName(id, res.Language), res.Segments)
		if err != nil {
			return res, err
		}
		res.SubtitlePath = path
		outcome.SubtitlePath = path
	}
	res.Message = completionMessage(res)

	logger.Info("transcription completed",
		logging.Args(append(logging.DecisionAttrs("transcript_tier", string(res.Tier), tierReason(res)),
			logging.String(logging.FieldEventType, "run_completed"),
			logging.Int("segments", len(res.Segments)),
			logging.String("language", res.Language),
			logging.Bool("translated", res.Translated),
			logging.String("subtitle_path", res.SubtitlePath),
		)...)...)
	return res, nil
}

func (r *Runner) translateResult(ctx context.Context, res *Result, target string) error {
	logger := logging.WithContext(ctx, r.logger)
	if !r.cfg.Translation.Enabled {
		logging.WarnWithContext(logger, "translation disabled, keeping caption language", "translation_skipped",
			logging.String("caption_language", res.Language),
			logging.String("requested_language", target),
			logging.String(logging.FieldImpact, "transcript stays in the caption language"),
			logging.String(logging.FieldErrorHint, "set translation.enabled = true to translate captions"),
		)
		return nil
	}
	if r.translator == nil {
		msg := "translation is not configured"
		if r.translatorErr != nil {
			msg = r.translatorErr.Error()
		}
		return services.Wrap(services.ErrConfiguration, "translate", "", msg, nil)
	}

	r.reporter.Status(fmt.Sprintf("Translating to %s...", language.DisplayName(target)))
	step := newPercentStep(translationProgressStep)
	translated, err := r.translator.TranslateSegments(services.WithStage(ctx, "translate"), res.Segments, target,
		func(percent int) {
			if step.advance(percent) {
				r.reporter.Status(fmt.Sprintf("Translating subtitles... %d%%", percent))
			}
		})
	if err != nil {
		return err
	}
	lines := make([]string, 0, len(translated))
	for _, seg := range translated {
		lines = append(lines, seg.Text)
	}
	res.Segments = translated
	res.Text = strings.Join(lines, "\n")
	res.Language = target
	res.Translated = true
	return nil
}

func (r *Runner) writeSubtitles(ctx context.Context, outputDir, name string, segments []transcript.Segment) (string, error) {
	if strings.TrimSpace(outputDir) == "" {
		outputDir = r.cfg.Paths.OutputDir
	}
	path := filepath.Join(outputDir, name)
	if err := subtitles.Write(path, segments); err != nil {
		return "", fmt.Errorf("save subtitle file: %w", err)
	}
	if issues := subtitles.Validate(path); len(issues) > 0 {
		logging.WarnWithContext(logging.WithContext(ctx, r.logger), "subtitle validation issues", "subtitle_validation",
			logging.String("path", path),
			logging.String("issues", strings.Join(issues, ",")),
			logging.String(logging.FieldImpact, "subtitle file may not load in some players"),
		)
	}
	return path, nil
}

// RunFile transcribes a local audio file with the configured speech backend.
func (r *Runner) RunFile(ctx context.Context, req FileRequest) (Result, error) {
	release, err := r.acquire()
	defer release()
	if err != nil {
		return Result{}, err
	}

	requestID := r.newID()
	ctx = services.WithRequestID(ctx, requestID)
	r.begin(ctx, history.Run{
		RequestID: requestID,
		Kind:      history.KindFile,
		Source:    req.Path,
		Language:  strings.TrimSpace(req.Language),
	})

	var outcome history.Outcome
	result, err := r.runFile(ctx, req, &outcome)
	result.RequestID = requestID
	r.finish(ctx, requestID, outcome, err)
	r.logFailure(ctx, err)
	if err != nil {
		return result, err
	}
	r.reporter.Success(result.Message)
	return result, nil
}

func (r *Runner) runFile(ctx context.Context, req FileRequest, outcome *history.Outcome) (Result, error) {
	logger := logging.WithContext(ctx, r.logger)
	path := strings.TrimSpace(req.Path)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return Result{}, services.Wrap(services.ErrValidation, "", "", fmt.Sprintf("audio file %q not found", req.Path), nil)
	}
	target, err := parseLanguage(req.Language)
	if err != nil {
		return Result{}, err
	}
	if r.recognizer == nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "recognize", "", "speech recognition is not configured", nil)
	}
	if err := r.cfg.SpeechReady(); err != nil && !r.customRecognizer() {
		return Result{}, services.Wrap(services.ErrConfiguration, "recognize", "", err.Error(), nil)
	}

	r.reporter.Status("Transcribing with Whisper...")
	recognizeCtx := services.WithStage(ctx, string(transcript.StageRecognize))
	recognized, err := services.Retry(recognizeCtx, r.speechRetry, func(ctx context.Context, attempt int) (transcript.Result, error) {
		return r.recognizer.Transcribe(ctx, path, target)
	}, func(attempt int, err error, next time.Duration) {
		logging.WarnWithContext(logger, "speech recognition attempt failed", "recognition_retry",
			logging.Int("attempt", attempt),
			logging.Duration("retry_in", next),
			logging.Error(err),
		)
	})
	if err != nil {
		return Result{}, err
	}
	if len(recognized.Segments) == 0 {
		return Result{}, services.Wrap(services.ErrExternalTool, "recognize", "", "speech recognition returned no segments", nil)
	}

	recognized = recognized.Normalize(target)
	segments := recognized.Segments
	res := Result{
		Tier:     transcript.TierFallback,
		Language: target,
		Segments: recognized.Segments,
		Text:     recognized.Text,
	}
	outcome.Tier = string(res.Tier)
	outcome.SegmentCount = len(segments)

	if req.WriteSubtitles {
		outputDir := req.OutputDir
		if strings.TrimSpace(outputDir) == "" {
			outputDir = filepath.Dir(path)
		}
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		written, err := r.writeSubtitles(ctx, outputDir, fmt.Sprintf("%s_%s.srt", base, target), segments)
		if err != nil {
			return res, err
		}
		res.SubtitlePath = written
		outcome.SubtitlePath = written
	}
	res.Message = completionMessage(res)
	logger.Info("file transcription completed",
		logging.String(logging.FieldEventType, "run_completed"),
		logging.Int("segments", len(segments)),
		logging.String("subtitle_path", res.SubtitlePath),
	)
	return res, nil
}

// customRecognizer reports whether the recognizer was injected rather than
// built from the speech configuration.
func (r *Runner) customRecognizer() bool {
	switch r.recognizer.(type) {
	case apiRecognizer, localRecognizer:
		return false
	default:
		return true
	}
}

func parseLanguage(input string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "en", nil
	}
	code, err := language.Parse(input)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "", "", err.Error(), nil)
	}
	return code, nil
}

// translationProgressStep is the percent granularity of translation status
// lines; long videos have hundreds of segments.
const translationProgressStep = 10

// percentStep passes a percentage through only when it enters a new bucket of
// size step. 100 always passes once.
type percentStep struct {
	size int
	last int
}

func newPercentStep(size int) *percentStep {
	if size <= 0 {
		size = 1
	}
	return &percentStep{size: size, last: -1}
}

func (p *percentStep) advance(percent int) bool {
	bucket := percent / p.size
	if percent >= 100 {
		bucket = 100/p.size + 1
	}
	if bucket <= p.last {
		return false
	}
	p.last = bucket
	return true
}

func completionMessage(res Result) string {
	switch {
	case res.Tier == transcript.TierFallback && res.SubtitlePath != "":
		return "Transcription and subtitle file saved: " + res.SubtitlePath
	case res.Tier == transcript.TierFallback:
		return "Transcription completed!"
	case res.SubtitlePath != "":
		return "Transcript and subtitle file saved: " + res.SubtitlePath
	case res.Translated:
		return "Translation completed!"
	default:
		return "Transcript retrieved successfully!"
	}
}

func tierReason(res Result) string {
	if res.Tier == transcript.TierFallback {
		return "captions unavailable"
	}
	return "captions available"
}
