package config

const (
	defaultConfigPath            = "~/.config/ytscribe/config.toml"
	defaultEnvPath               = "~/.config/ytscribe/.env"
	defaultOutputDir             = "~/Documents"
	defaultWorkDir               = "~/.cache/ytscribe/work"
	defaultStateDir              = "~/.local/share/ytscribe"
	defaultLogDir                = "~/.local/share/ytscribe/logs"
	defaultTranscriptBaseURL     = "https://www.youtube.com"
	defaultTranscriptTimeout     = 30
	defaultYtDlpBinary           = "yt-dlp"
	defaultAudioFormat           = "mp3"
	defaultSpeechBackend         = SpeechBackendOpenAI
	defaultSpeechBaseURL         = "https://api.openai.com/v1"
	defaultSpeechModel           = "whisper-1"
	defaultSpeechTimeout         = 600
	defaultWhisperXModel         = "large-v3"
	defaultWhisperXVADMethod     = "silero"
	defaultFFmpegBinary          = "ffmpeg"
	defaultTranslationBaseURL    = "https://api.openai.com/v1"
	defaultTranslationModel      = "gpt-3.5-turbo"
	defaultTranslationTemp       = 0.3
	defaultTranslationMaxTokens  = 1024
	defaultTranslationTimeout    = 60
	defaultSourceLanguage        = "en"
	defaultChunkSize             = 1000
	defaultMaxAttempts           = 3
	defaultRetryDelaySeconds     = 1
	defaultTranslationContext    = 2
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultHistoryEnabled        = true
	defaultTranslationEnabled    = true
	defaultTranscriptLanguageTag = "en"
)

// Speech recognition backends.
const (
	SpeechBackendOpenAI   = "openai"
	SpeechBackendWhisperX = "whisperx"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			WorkDir:   defaultWorkDir,
			StateDir:  defaultStateDir,
			LogDir:    defaultLogDir,
		},
		Transcript: Transcript{
			Languages:      []string{defaultTranscriptLanguageTag},
			BaseURL:        defaultTranscriptBaseURL,
			TimeoutSeconds: defaultTranscriptTimeout,
		},
		Audio: Audio{
			YtDlpBinary: defaultYtDlpBinary,
			Format:      defaultAudioFormat,
		},
		Speech: Speech{
			Backend:           defaultSpeechBackend,
			BaseURL:           defaultSpeechBaseURL,
			Model:             defaultSpeechModel,
			TimeoutSeconds:    defaultSpeechTimeout,
			MaxAttempts:       defaultMaxAttempts,
			RetryDelaySeconds: defaultRetryDelaySeconds,
			WhisperXModel:     defaultWhisperXModel,
			WhisperXVADMethod: defaultWhisperXVADMethod,
			FFmpegBinary:      defaultFFmpegBinary,
		},
		Translation: Translation{
			Enabled:           defaultTranslationEnabled,
			BaseURL:           defaultTranslationBaseURL,
			Model:             defaultTranslationModel,
			Temperature:       defaultTranslationTemp,
			MaxTokens:         defaultTranslationMaxTokens,
			TimeoutSeconds:    defaultTranslationTimeout,
			SourceLanguage:    defaultSourceLanguage,
			ChunkSize:         defaultChunkSize,
			MaxAttempts:       defaultMaxAttempts,
			RetryDelaySeconds: defaultRetryDelaySeconds,
			ContextLines:      defaultTranslationContext,
		},
		History: History{
			Enabled: defaultHistoryEnabled,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
