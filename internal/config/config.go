package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	OutputDir string `toml:"output_dir"`
	WorkDir   string `toml:"work_dir"`
	StateDir  string `toml:"state_dir"`
	LogDir    string `toml:"log_dir"`
}

// Transcript contains settings for the direct caption tier.
type Transcript struct {
	Languages      []string `toml:"languages"`
	BaseURL        string   `toml:"base_url"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
}

// Audio contains settings for audio acquisition through yt-dlp.
type Audio struct {
	YtDlpBinary string `toml:"ytdlp_binary"`
	Format      string `toml:"format"`
}

// Speech contains settings for the speech recognition fallback tier.
type Speech struct {
	Backend           string `toml:"backend"`
	APIKey            string `toml:"api_key"`
	BaseURL           string `toml:"base_url"`
	Model             string `toml:"model"`
	TimeoutSeconds    int    `toml:"timeout_seconds"`
	MaxAttempts       int    `toml:"max_attempts"`
	RetryDelaySeconds int    `toml:"retry_delay_seconds"`

	WhisperXModel       string `toml:"whisperx_model"`
	WhisperXCUDAEnabled bool   `toml:"whisperx_cuda_enabled"`
	WhisperXVADMethod   string `toml:"whisperx_vad_method"`
	WhisperXHuggingFace string `toml:"whisperx_hf_token"`
	FFmpegBinary        string `toml:"ffmpeg_binary"`
}

// Translation contains settings for the translator adapter.
type Translation struct {
	Enabled           bool    `toml:"enabled"`
	APIKey            string  `toml:"api_key"`
	BaseURL           string  `toml:"base_url"`
	Model             string  `toml:"model"`
	Temperature       float64 `toml:"temperature"`
	MaxTokens         int     `toml:"max_tokens"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	SourceLanguage    string  `toml:"source_language"`
	ChunkSize         int     `toml:"chunk_size"`
	MaxAttempts       int     `toml:"max_attempts"`
	RetryDelaySeconds int     `toml:"retry_delay_seconds"`
	ContextLines      int     `toml:"context_lines"`
}

// History contains settings for the run history database.
type History struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for ytscribe.
//
// Configuration sections by subsystem:
//   - Paths: output, scratch, state, and log directories
//   - Transcript: direct caption fetch settings
//   - Audio: yt-dlp audio download settings
//   - Speech: speech recognition backend (OpenAI Whisper API or local WhisperX)
//   - Translation: LLM translation settings
//   - History: run history database
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	Transcript  Transcript  `toml:"transcript"`
	Audio       Audio       `toml:"audio"`
	Speech      Speech      `toml:"speech"`
	Translation Translation `toml:"translation"`
	History     History     `toml:"history"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("ytscribe.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a transcription run writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.WorkDir, c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LockPath returns the file used to serialize transcription runs.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "ytscribe.lock")
}

// HistoryPath returns the run history database location.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// LogPath returns the application log file location.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.LogDir, "ytscribe.log")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// LLMConfig contains the connection settings for an OpenAI-compatible endpoint.
type LLMConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

// TranslationLLM returns the chat completion settings used for translation.
func (c *Config) TranslationLLM() LLMConfig {
	return LLMConfig{
		APIKey:         strings.TrimSpace(c.Translation.APIKey),
		BaseURL:        strings.TrimSpace(c.Translation.BaseURL),
		Model:          strings.TrimSpace(c.Translation.Model),
		TimeoutSeconds: c.Translation.TimeoutSeconds,
	}
}

// SpeechAPI returns the connection settings for the hosted speech backend.
func (c *Config) SpeechAPI() LLMConfig {
	return LLMConfig{
		APIKey:         strings.TrimSpace(c.Speech.APIKey),
		BaseURL:        strings.TrimSpace(c.Speech.BaseURL),
		Model:          strings.TrimSpace(c.Speech.Model),
		TimeoutSeconds: c.Speech.TimeoutSeconds,
	}
}
