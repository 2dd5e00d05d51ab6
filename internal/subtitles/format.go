package subtitles

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/HamedGhaneS/My-AI-Tools/internal/transcript"
)

// timestampEpsilon absorbs float representation error so 5.999 renders as
// ,999 rather than ,998. It is far below one millisecond.
const timestampEpsilon = 1e-6

// Cue is one numbered subtitle block.
type Cue struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// maxTimestampMillis is 999999:59:59,999, the largest value rendered.
const maxTimestampMillis = 999999*3600*1000 + 3599999

// FormatTimestamp renders seconds as HH:MM:SS,mmm. Milliseconds are truncated,
// never rounded. Negative and NaN input renders as zero; anything past
// maxTimestampMillis, including +Inf, renders as that maximum.
func FormatTimestamp(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	millis := math.Floor(seconds*1000 + timestampEpsilon)
	if millis > maxTimestampMillis {
		millis = maxTimestampMillis
	}
	total := int64(millis)
	ms := total % 1000
	totalSeconds := total / 1000
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	secs := totalSeconds % 60
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, ms)
}

// Cues numbers segments from 1 in input order. Segments are neither sorted
// nor merged.
func Cues(segments []transcript.Segment) []Cue {
	cues := make([]Cue, 0, len(segments))
	for i, seg := range segments {
		cues = append(cues, Cue{Index: i + 1, Start: seg.Start, End: seg.End, Text: seg.Text})
	}
	return cues
}

// Format renders segments as an SRT document: each block is the index, the
// timing line, and the text, and blocks are separated by one blank line.
func Format(segments []transcript.Segment) string {
	return FormatCues(Cues(segments))
}

// FormatCues renders already numbered cues.
func FormatCues(cues []Cue) string {
	blocks := make([]string, 0, len(cues))
	for _, cue := range cues {
		var b strings.Builder
		b.WriteString(strconv.Itoa(cue.Index))
		b.WriteByte('\n')
		b.WriteString(FormatTimestamp(cue.Start))
		b.WriteString(" --> ")
		b.WriteString(FormatTimestamp(cue.End))
		b.WriteByte('\n')
		b.WriteString(cue.Text)
		b.WriteByte('\n')
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n")
}

// FileName returns the subtitle file name for a video and language.
func FileName(videoID, language string) string {
	return fmt.Sprintf("subtitle_%s_%s.srt", videoID, language)
}

// Write renders segments and stores them at path. The file is written to a
// sibling temp file first and renamed into place.
func Write(path string, segments []transcript.Segment) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("write srt: path required")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("write srt: ensure dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write srt: create temp: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.WriteString(Format(segments)); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write srt: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("write srt: close: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("write srt: chmod: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("write srt: rename: %w", err)
	}
	return nil
}
