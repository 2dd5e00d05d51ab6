package transcript

import "strings"

// Segment is a timed span of text. Start and End are seconds from the
// beginning of the video.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Entry is a caption line as providers report it. Providers give an
// explicit end, a duration, or neither.
type Entry struct {
	Text        string
	Start       float64
	Duration    float64
	HasDuration bool
	End         float64
	HasEnd      bool
}

// DefaultDuration is used when an entry carries neither an end nor a duration.
const DefaultDuration = 3.0

// Segment converts the entry. An explicit end wins; otherwise end is start
// plus the duration, or plus DefaultDuration when none was reported.
func (e Entry) Segment() Segment {
	end := e.End
	if !e.HasEnd {
		duration := DefaultDuration
		if e.HasDuration {
			duration = e.Duration
		}
		end = e.Start + duration
	}
	start := e.Start
	if start < 0 {
		start = 0
	}
	if end < start {
		end = start
	}
	return Segment{Text: e.Text, Start: start, End: end}
}

// Result is an ordered transcript plus its concatenated text.
type Result struct {
	Segments []Segment `json:"segments"`
	Text     string    `json:"text"`
	Language string    `json:"language"`
}

// FromEntries builds a Result in entry order. Entries are not sorted and
// overlaps are kept.
func FromEntries(entries []Entry, language string) Result {
	segments := make([]Segment, 0, len(entries))
	for _, entry := range entries {
		segments = append(segments, entry.Segment())
	}
	return NewResult(segments, language)
}

// NewResult wraps segments and fills Text by joining segment text with spaces.
func NewResult(segments []Segment, language string) Result {
	return Result{Segments: segments, Text: JoinText(segments), Language: language}
}

// Normalize fills an empty Text from the segments and tags the result with
// the requested language.
func (r Result) Normalize(language string) Result {
	r.Text = strings.TrimSpace(r.Text)
	if r.Text == "" {
		r.Text = JoinText(r.Segments)
	}
	r.Language = language
	return r
}

// JoinText concatenates trimmed, non-empty segment text with single spaces.
func JoinText(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}
