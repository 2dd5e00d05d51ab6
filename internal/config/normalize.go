package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/HamedGhaneS/My-AI-Tools/internal/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTranscript()
	c.normalizeAudio()
	c.normalizeSpeech()
	c.normalizeTranslation()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	var err error
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTranscript() {
	c.Transcript.Languages = language.NormalizeList(c.Transcript.Languages)
	if len(c.Transcript.Languages) == 0 {
		c.Transcript.Languages = []string{defaultTranscriptLanguageTag}
	}
	c.Transcript.BaseURL = strings.TrimRight(strings.TrimSpace(c.Transcript.BaseURL), "/")
	if c.Transcript.BaseURL == "" {
		c.Transcript.BaseURL = defaultTranscriptBaseURL
	}
	if c.Transcript.TimeoutSeconds <= 0 {
		c.Transcript.TimeoutSeconds = defaultTranscriptTimeout
	}
}

func (c *Config) normalizeAudio() {
	c.Audio.YtDlpBinary = strings.TrimSpace(c.Audio.YtDlpBinary)
	if c.Audio.YtDlpBinary == "" {
		c.Audio.YtDlpBinary = defaultYtDlpBinary
	}
	c.Audio.Format = strings.ToLower(strings.TrimSpace(c.Audio.Format))
	if c.Audio.Format == "" {
		c.Audio.Format = defaultAudioFormat
	}
}

func (c *Config) normalizeSpeech() {
	c.Speech.Backend = strings.ToLower(strings.TrimSpace(c.Speech.Backend))
	if c.Speech.Backend == "" {
		c.Speech.Backend = defaultSpeechBackend
	}
	c.Speech.APIKey = strings.TrimSpace(c.Speech.APIKey)
	if c.Speech.APIKey == "" {
		c.Speech.APIKey = lookupEnv("YTSCRIBE_SPEECH_API_KEY", "OPENAI_API_KEY")
	}
	c.Speech.BaseURL = strings.TrimSpace(c.Speech.BaseURL)
	if c.Speech.BaseURL == "" {
		c.Speech.BaseURL = defaultSpeechBaseURL
	}
	c.Speech.Model = strings.TrimSpace(c.Speech.Model)
	if c.Speech.Model == "" {
		c.Speech.Model = defaultSpeechModel
	}
	if c.Speech.TimeoutSeconds <= 0 {
		c.Speech.TimeoutSeconds = defaultSpeechTimeout
	}
	if c.Speech.MaxAttempts <= 0 {
		c.Speech.MaxAttempts = defaultMaxAttempts
	}
	if c.Speech.RetryDelaySeconds < 0 {
		c.Speech.RetryDelaySeconds = defaultRetryDelaySeconds
	}
	c.Speech.WhisperXModel = strings.TrimSpace(c.Speech.WhisperXModel)
	if c.Speech.WhisperXModel == "" {
		c.Speech.WhisperXModel = defaultWhisperXModel
	}
	c.Speech.WhisperXVADMethod = strings.ToLower(strings.TrimSpace(c.Speech.WhisperXVADMethod))
	if c.Speech.WhisperXVADMethod == "" {
		c.Speech.WhisperXVADMethod = defaultWhisperXVADMethod
	}
	c.Speech.WhisperXHuggingFace = strings.TrimSpace(c.Speech.WhisperXHuggingFace)
	if c.Speech.WhisperXHuggingFace == "" {
		c.Speech.WhisperXHuggingFace = lookupEnv("HUGGING_FACE_HUB_TOKEN", "HF_TOKEN")
	}
	c.Speech.FFmpegBinary = strings.TrimSpace(c.Speech.FFmpegBinary)
	if c.Speech.FFmpegBinary == "" {
		c.Speech.FFmpegBinary = defaultFFmpegBinary
	}
}

func (c *Config) normalizeTranslation() {
	c.Translation.APIKey = strings.TrimSpace(c.Translation.APIKey)
	if c.Translation.APIKey == "" {
		c.Translation.APIKey = lookupEnv("YTSCRIBE_TRANSLATION_API_KEY", "OPENAI_API_KEY")
	}
	c.Translation.BaseURL = strings.TrimSpace(c.Translation.BaseURL)
	if c.Translation.BaseURL == "" {
		c.Translation.BaseURL = defaultTranslationBaseURL
	}
	c.Translation.Model = strings.TrimSpace(c.Translation.Model)
	if c.Translation.Model == "" {
		c.Translation.Model = defaultTranslationModel
	}
	if c.Translation.MaxTokens <= 0 {
		c.Translation.MaxTokens = defaultTranslationMaxTokens
	}
	if c.Translation.TimeoutSeconds <= 0 {
		c.Translation.TimeoutSeconds = defaultTranslationTimeout
	}
	if iso := language.ToISO2(c.Translation.SourceLanguage); iso != "" {
		c.Translation.SourceLanguage = iso
	} else {
		c.Translation.SourceLanguage = defaultSourceLanguage
	}
	if c.Translation.ChunkSize <= 0 {
		c.Translation.ChunkSize = defaultChunkSize
	}
	if c.Translation.MaxAttempts <= 0 {
		c.Translation.MaxAttempts = defaultMaxAttempts
	}
	if c.Translation.RetryDelaySeconds < 0 {
		c.Translation.RetryDelaySeconds = defaultRetryDelaySeconds
	}
	if c.Translation.ContextLines < 0 {
		c.Translation.ContextLines = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// lookupEnv returns the first non-empty value among the named variables.
func lookupEnv(names ...string) string {
	for _, name := range names {
		if value, ok := os.LookupEnv(name); ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}
