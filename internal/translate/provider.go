package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/HamedGhaneS/My-AI-Tools/internal/language"
	"github.com/HamedGhaneS/My-AI-Tools/internal/services"
)

// Completer is the chat completion surface LLMProvider needs.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// LLMProvider translates through an OpenAI-compatible chat model.
type LLMProvider struct {
	client         Completer
	sourceLanguage string
}

// NewLLMProvider wraps client. sourceLanguage names the language captions
// arrive in and only shapes the prompt.
func NewLLMProvider(client Completer, sourceLanguage string) *LLMProvider {
	return &LLMProvider{client: client, sourceLanguage: sourceLanguage}
}

// Translate implements Provider.
func (p *LLMProvider) Translate(ctx context.Context, req Request) (string, error) {
	if p == nil || p.client == nil {
		return "", services.Wrap(services.ErrConfiguration, "translate", "provider", "translation client unavailable", nil)
	}
	target := language.ToISO2(req.TargetLanguage)
	if target == "" {
		return "", services.Wrap(services.ErrValidation, "translate", "provider", fmt.Sprintf("unsupported target language %q", req.TargetLanguage), nil)
	}
	reply, err := p.client.Complete(ctx, systemPrompt(p.sourceLanguage, target), userPrompt(target, req.Text, req.Context))
	if err != nil {
		return "", err
	}
	return normalizeWhitespace(reply), nil
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
