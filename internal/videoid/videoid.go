// Package videoid extracts the 11-character YouTube video identifier from the
// URL shapes users paste: watch links, youtu.be short links, embeds, and shorts.
package videoid

import (
	"net/url"
	"regexp"
	"strings"
)

// Patterns are tried in order and the first match wins. The first pattern also
// matches path forms such as /embed/<id>, which keeps the result identical to
// the later, more specific patterns.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11}).*`),
	regexp.MustCompile(`(?:youtu\.be/)([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`(?:embed/)([0-9A-Za-z_-]{11})`),
	regexp.MustCompile(`(?:shorts/)([0-9A-Za-z_-]{11})`),
}

// Resolve returns the video identifier embedded in raw.
func Resolve(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	for _, re := range patterns {
		if match := re.FindStringSubmatch(raw); len(match) == 2 {
			return match[1], true
		}
	}
	return "", false
}

// WatchURL builds the canonical watch page URL for id.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(id)
}
