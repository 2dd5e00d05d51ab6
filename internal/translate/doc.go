// Package translate rewrites transcript text into a target language.
//
// Translator cuts text into fixed-size rune chunks and sends each through a
// Provider with a bounded fixed-delay retry. A chunk that exhausts its
// attempts fails the whole call. TranslateSegments works segment by segment
// so timings are untouched and no chunk spans two segments.
//
// LLMProvider is the production Provider, backed by the chat completion
// client in services/llm.
package translate
