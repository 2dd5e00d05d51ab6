package preflight

import (
	"strings"

	"github.com/HamedGhaneS/My-AI-Tools/internal/config"
)

// CheckSpeechFromConfig reports whether the fallback tier has what it needs,
// without contacting any service.
func CheckSpeechFromConfig(cfg *config.Config) Result {
	const name = "Speech recognition"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	switch cfg.Speech.Backend {
	case config.SpeechBackendWhisperX:
		return Result{Name: name, Passed: true, Detail: "WhisperX " + cfg.Speech.WhisperXModel + " (local)"}
	default:
		if strings.TrimSpace(cfg.Speech.APIKey) == "" {
			return Result{Name: name, Detail: "Missing API key (set OPENAI_API_KEY)"}
		}
		return Result{Name: name, Passed: true, Detail: "OpenAI " + cfg.Speech.Model}
	}
}

// CheckTranslationFromConfig reports translation readiness from config alone.
func CheckTranslationFromConfig(cfg *config.Config) Result {
	const name = "Translation"

	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	if !cfg.Translation.Enabled {
		return Result{Name: name, Passed: true, Detail: "Disabled"}
	}
	if strings.TrimSpace(cfg.Translation.APIKey) == "" {
		return Result{Name: name, Detail: "Missing API key (set OPENAI_API_KEY)"}
	}
	return Result{Name: name, Passed: true, Detail: cfg.Translation.Model}
}
