package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/HamedGhaneS/My-AI-Tools/internal/config"
)

func TestLoadDefaultConfigUsesEnvKeyAndExpandsPaths(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("YTSCRIBE_SPEECH_API_KEY", "")
	t.Setenv("YTSCRIBE_TRANSLATION_API_KEY", "")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if want := filepath.Join(tempHome, "Documents"); cfg.Paths.OutputDir != want {
		t.Fatalf("unexpected output dir: got %q want %q", cfg.Paths.OutputDir, want)
	}
	if want := filepath.Join(tempHome, ".local", "share", "ytscribe", "logs"); cfg.Paths.LogDir != want {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, want)
	}
	if cfg.Speech.APIKey != "test-key" {
		t.Fatalf("expected speech key from env, got %q", cfg.Speech.APIKey)
	}
	if cfg.Translation.APIKey != "test-key" {
		t.Fatalf("expected translation key from env, got %q", cfg.Translation.APIKey)
	}
	if cfg.Speech.Backend != config.SpeechBackendOpenAI {
		t.Fatalf("expected openai backend by default, got %q", cfg.Speech.Backend)
	}
	if cfg.Speech.Model != "whisper-1" {
		t.Fatalf("unexpected speech model %q", cfg.Speech.Model)
	}
	if cfg.Speech.MaxAttempts != 3 || cfg.Speech.RetryDelaySeconds != 1 {
		t.Fatalf("unexpected speech retry policy %d/%d", cfg.Speech.MaxAttempts, cfg.Speech.RetryDelaySeconds)
	}
	if cfg.Translation.ChunkSize != 1000 {
		t.Fatalf("unexpected chunk size %d", cfg.Translation.ChunkSize)
	}
	if cfg.Translation.MaxTokens != 1024 {
		t.Fatalf("expected token limit large enough for a full chunk, got %d", cfg.Translation.MaxTokens)
	}
	if cfg.Translation.Model != "gpt-3.5-turbo" {
		t.Fatalf("unexpected translation model %q", cfg.Translation.Model)
	}
	if len(cfg.Transcript.Languages) != 1 || cfg.Transcript.Languages[0] != "en" {
		t.Fatalf("unexpected transcript languages %v", cfg.Transcript.Languages)
	}
	if cfg.LockPath() != filepath.Join(cfg.Paths.StateDir, "ytscribe.lock") {
		t.Fatalf("unexpected lock path %q", cfg.LockPath())
	}
}

func TestSpecificEnvKeysWinOverShared(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("OPENAI_API_KEY", "shared")
	t.Setenv("YTSCRIBE_SPEECH_API_KEY", "speech-only")
	t.Setenv("YTSCRIBE_TRANSLATION_API_KEY", "")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Speech.APIKey != "speech-only" {
		t.Fatalf("expected speech-specific key, got %q", cfg.Speech.APIKey)
	}
	if cfg.Translation.APIKey != "shared" {
		t.Fatalf("expected shared key for translation, got %q", cfg.Translation.APIKey)
	}
}

func TestLoadCustomConfigOverrides(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("OPENAI_API_KEY", "")

	configPath := filepath.Join(t.TempDir(), "config.toml")
	payload := map[string]any{
		"paths": map[string]any{
			"output_dir": "~/subs",
			"work_dir":   filepath.Join(tempHome, "scratch"),
		},
		"transcript": map[string]any{
			"languages": []string{"English", "de"},
		},
		"speech": map[string]any{
			"backend":        "WhisperX",
			"whisperx_model": "large-v3-turbo",
		},
		"translation": map[string]any{
			"api_key":       "file-key",
			"context_lines": 0,
		},
		"logging": map[string]any{
			"format": "JSON",
			"level":  "Debug",
		},
	}
	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected config at %s to be used, got %s (exists=%v)", configPath, resolved, exists)
	}
	if want := filepath.Join(tempHome, "subs"); cfg.Paths.OutputDir != want {
		t.Fatalf("unexpected output dir %q want %q", cfg.Paths.OutputDir, want)
	}
	if cfg.Speech.Backend != config.SpeechBackendWhisperX {
		t.Fatalf("expected whisperx backend, got %q", cfg.Speech.Backend)
	}
	if cfg.Speech.WhisperXModel != "large-v3-turbo" {
		t.Fatalf("unexpected whisperx model %q", cfg.Speech.WhisperXModel)
	}
	if got := strings.Join(cfg.Transcript.Languages, ","); got != "en,de" {
		t.Fatalf("expected normalized languages en,de, got %s", got)
	}
	if cfg.Translation.APIKey != "file-key" {
		t.Fatalf("unexpected translation key %q", cfg.Translation.APIKey)
	}
	if cfg.Translation.ContextLines != 0 {
		t.Fatalf("expected explicit zero context lines, got %d", cfg.Translation.ContextLines)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected normalized logging settings, got %q/%q", cfg.Logging.Format, cfg.Logging.Level)
	}
	if err := cfg.SpeechReady(); err != nil {
		t.Fatalf("whisperx backend should not need an api key: %v", err)
	}
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[speech]\nbackend = \"carrier-pigeon\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := config.Load(configPath)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "speech.backend") {
		t.Fatalf("expected error to name speech.backend, got %v", err)
	}
}

func TestValidateRejectsBadLogFormat(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "logging.format") {
		t.Fatalf("expected logging.format error, got %v", err)
	}
}

func TestReadinessChecks(t *testing.T) {
	cfg := config.Default()
	if err := cfg.SpeechReady(); err == nil {
		t.Fatal("expected missing speech key to be reported")
	}
	if err := cfg.TranslationReady(); err == nil {
		t.Fatal("expected missing translation key to be reported")
	}
	cfg.Translation.APIKey = "k"
	cfg.Translation.Enabled = false
	if err := cfg.TranslationReady(); err == nil || !strings.Contains(err.Error(), "disabled") {
		t.Fatalf("expected disabled error, got %v", err)
	}
}

func TestEnsureDirectoriesCreatesPaths(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.OutputDir = filepath.Join(base, "out")
	cfg.Paths.WorkDir = filepath.Join(base, "work")
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, dir := range []string{cfg.Paths.OutputDir, cfg.Paths.WorkDir, cfg.Paths.StateDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(target); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := config.Load(target)
	if err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Translation.Temperature != 0.3 || cfg.Translation.MaxTokens != 1024 {
		t.Fatalf("unexpected sample sampling settings %v/%d", cfg.Translation.Temperature, cfg.Translation.MaxTokens)
	}
}

func TestLoadEnvExplicitFile(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), "keys.env")
	if err := os.WriteFile(envPath, []byte("YTSCRIBE_TEST_DOTENV=from-file\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	os.Unsetenv("YTSCRIBE_TEST_DOTENV")
	t.Cleanup(func() { os.Unsetenv("YTSCRIBE_TEST_DOTENV") })

	loaded, err := config.LoadEnv(envPath)
	if err != nil {
		t.Fatalf("LoadEnv returned error: %v", err)
	}
	if len(loaded) != 1 || loaded[0] != envPath {
		t.Fatalf("unexpected loaded files %v", loaded)
	}
	if got := os.Getenv("YTSCRIBE_TEST_DOTENV"); got != "from-file" {
		t.Fatalf("expected env var from file, got %q", got)
	}
}

func TestLoadEnvMissingExplicitFile(t *testing.T) {
	if _, err := config.LoadEnv(filepath.Join(t.TempDir(), "absent.env")); err == nil {
		t.Fatal("expected error for missing explicit env file")
	}
}

func TestLoadEnvDefaultsSkipMissingFiles(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	loaded, err := config.LoadEnv("")
	if err != nil {
		t.Fatalf("LoadEnv returned error: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("expected no env files, got %v", loaded)
	}
}
