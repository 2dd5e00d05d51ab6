package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTranscript(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateSpeech(); err != nil {
		return err
	}
	if err := c.validateTranslation(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTranscript() error {
	if err := validateURL("transcript.base_url", c.Transcript.BaseURL); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAudio() error {
	switch c.Audio.Format {
	case "mp3", "m4a", "wav", "opus", "flac":
		return nil
	default:
		return fmt.Errorf("audio.format: unsupported value %q (expected mp3, m4a, wav, opus, or flac)", c.Audio.Format)
	}
}

func (c *Config) validateSpeech() error {
	switch c.Speech.Backend {
	case SpeechBackendOpenAI:
		if err := validateURL("speech.base_url", c.Speech.BaseURL); err != nil {
			return err
		}
	case SpeechBackendWhisperX:
		switch c.Speech.WhisperXVADMethod {
		case "silero", "pyannote":
		default:
			return fmt.Errorf("speech.whisperx_vad_method: unsupported value %q (expected silero or pyannote)", c.Speech.WhisperXVADMethod)
		}
	default:
		return fmt.Errorf("speech.backend must be %s or %s, got %q", SpeechBackendOpenAI, SpeechBackendWhisperX, c.Speech.Backend)
	}
	if c.Speech.MaxAttempts > 10 {
		return errors.New("speech.max_attempts must be 10 or fewer")
	}
	return nil
}

func (c *Config) validateTranslation() error {
	if err := validateURL("translation.base_url", c.Translation.BaseURL); err != nil {
		return err
	}
	if c.Translation.Temperature < 0 || c.Translation.Temperature > 2 {
		return errors.New("translation.temperature must be between 0 and 2")
	}
	if c.Translation.MaxAttempts > 10 {
		return errors.New("translation.max_attempts must be 10 or fewer")
	}
	if c.Translation.ContextLines > 10 {
		return errors.New("translation.context_lines must be 10 or fewer")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (expected console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q (expected debug, info, warn, or error)", c.Logging.Level)
	}
	return nil
}

func validateURL(key, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s must be set", key)
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", key, value)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s must include a host, got %q", key, value)
	}
	return nil
}

// TranslationReady reports whether translation can run with the configured credentials.
func (c *Config) TranslationReady() error {
	if !c.Translation.Enabled {
		return errors.New("translation is disabled (translation.enabled = false)")
	}
	if c.Translation.APIKey == "" {
		return errors.New("translation.api_key is required. Set OPENAI_API_KEY in the environment or a .env file")
	}
	return nil
}

// SpeechReady reports whether the configured speech backend has the credentials it needs.
func (c *Config) SpeechReady() error {
	if c.Speech.Backend == SpeechBackendOpenAI && c.Speech.APIKey == "" {
		return errors.New("speech.api_key is required for the openai backend. Set OPENAI_API_KEY in the environment or a .env file")
	}
	return nil
}
