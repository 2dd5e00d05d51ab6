package translate

import (
	"fmt"
	"strings"

	"github.com/HamedGhaneS/My-AI-Tools/internal/language"
)

var basePrinciples = []string{
	"Keep translations concise and readable at subtitle speed",
	"Maintain natural conversational flow in the target language",
	"Preserve the original tone (formal/informal/humorous)",
	"Ensure translations fit well in subtitle format",
	"Consider cultural context while staying true to the original meaning",
}

// Extra guidance for targets the tool is mostly used with.
var languageGuidance = map[string]string{
	"fa": "Use appropriate Persian language conventions and punctuation",
}

func systemPrompt(source, target string) string {
	from := language.DisplayName(source)
	if strings.TrimSpace(source) == "" {
		from = "the source language"
	}
	to := language.DisplayName(target)

	principles := append([]string(nil), basePrinciples...)
	if extra, ok := languageGuidance[target]; ok {
		principles = append(principles, extra)
	}
	principles = append(principles, "Maintain consistency across connected dialogue")

	var b strings.Builder
	fmt.Fprintf(&b, "You are a professional subtitle translator working with %s to %s translation.\n", from, to)
	b.WriteString("Follow these subtitle translation principles:")
	for i, p := range principles {
		fmt.Fprintf(&b, "\n%d. %s", i+1, p)
	}
	b.WriteString("\nReply with the translated line only.")
	return b.String()
}

func userPrompt(target, text, neighbours string) string {
	prompt := fmt.Sprintf("Translate this subtitle line into natural, conversational %s:\n\nLine: %s", language.DisplayName(target), text)
	if strings.TrimSpace(neighbours) != "" {
		prompt += "\n\nSurrounding context: " + neighbours
	}
	return prompt
}
