package history

import (
	"time"

	"github.com/HamedGhaneS/My-AI-Tools/internal/services"
)

// Kind distinguishes a YouTube run from a local file run.
type Kind string

const (
	KindVideo Kind = "video"
	KindFile  Kind = "file"
)

// Run is one recorded transcription request.
type Run struct {
	ID           int64              `json:"id"`
	RequestID    string             `json:"request_id"`
	Kind         Kind               `json:"kind"`
	Source       string             `json:"source"`
	VideoID      string             `json:"video_id,omitempty"`
	Language     string             `json:"language"`
	Tier         string             `json:"tier,omitempty"`
	Status       services.RunStatus `json:"status"`
	SubtitlePath string             `json:"subtitle_path,omitempty"`
	SegmentCount int                `json:"segment_count"`
	Translated   bool               `json:"translated"`
	// FallbackReason is the suppressed direct-tier error when the fallback ran.
	FallbackReason string     `json:"fallback_reason,omitempty"`
	ErrorMessage   string     `json:"error_message,omitempty"`
	StartedAt      time.Time  `json:"started_at"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
}

// Duration reports how long a finished run took, or zero while it is running.
func (r Run) Duration() time.Duration {
	if r.FinishedAt == nil || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Outcome carries the fields written when a run finishes.
type Outcome struct {
	Status         services.RunStatus
	Tier           string
	SubtitlePath   string
	SegmentCount   int
	Translated     bool
	FallbackReason string
	ErrorMessage   string
}
