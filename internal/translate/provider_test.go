package translate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/HamedGhaneS/My-AI-Tools/internal/services"
)

type fakeCompleter struct {
	system string
	user   string
	reply  string
	err    error
}

func (f *fakeCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.system = systemPrompt
	f.user = userPrompt
	return f.reply, f.err
}

func TestLLMProviderPersianPrompt(t *testing.T) {
	client := &fakeCompleter{reply: "  سلام \n  دنیا  "}
	provider := NewLLMProvider(client, "en")

	got, err := provider.Translate(context.Background(), Request{Text: "Hello world", TargetLanguage: "Persian", Context: "Hi there"})
	if err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if got != "سلام دنیا" {
		t.Fatalf("expected whitespace normalised reply, got %q", got)
	}
	if !strings.Contains(client.system, "English to Persian") {
		t.Fatalf("unexpected system prompt %q", client.system)
	}
	if !strings.Contains(client.system, "Persian language conventions") {
		t.Fatal("expected Persian guidance in system prompt")
	}
	if !strings.Contains(client.system, "7. Maintain consistency across connected dialogue") {
		t.Fatalf("expected seven numbered principles, got %q", client.system)
	}
	want := "Translate this subtitle line into natural, conversational Persian:\n\nLine: Hello world\n\nSurrounding context: Hi there"
	if client.user != want {
		t.Fatalf("unexpected user prompt %q", client.user)
	}
}

func TestLLMProviderGenericLanguage(t *testing.T) {
	client := &fakeCompleter{reply: "Hola"}
	provider := NewLLMProvider(client, "en")
	if _, err := provider.Translate(context.Background(), Request{Text: "Hello", TargetLanguage: "es"}); err != nil {
		t.Fatalf("Translate returned error: %v", err)
	}
	if strings.Contains(client.system, "Persian") {
		t.Fatal("Persian guidance must only apply to fa")
	}
	if strings.Contains(client.user, "Surrounding context") {
		t.Fatal("context section must be omitted when empty")
	}
	if !strings.Contains(client.user, "conversational Spanish") {
		t.Fatalf("unexpected user prompt %q", client.user)
	}
}

func TestLLMProviderRejectsUnknownLanguage(t *testing.T) {
	provider := NewLLMProvider(&fakeCompleter{}, "en")
	_, err := provider.Translate(context.Background(), Request{Text: "x", TargetLanguage: "klingon"})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLLMProviderPassesClientError(t *testing.T) {
	cause := errors.New("boom")
	provider := NewLLMProvider(&fakeCompleter{err: cause}, "en")
	if _, err := provider.Translate(context.Background(), Request{Text: "x", TargetLanguage: "fa"}); !errors.Is(err, cause) {
		t.Fatalf("expected client error, got %v", err)
	}
}
