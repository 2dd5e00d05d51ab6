package subtitles

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

func countSRTCues(data []byte) int {
	content := strings.TrimSpace(strings.ReplaceAll(string(data), "\r\n", "\n"))
	if content == "" {
		return 0
	}
	count := 0
	for _, block := range strings.Split(content, "\n\n") {
		if strings.TrimSpace(block) != "" {
			count++
		}
	}
	return count
}

// subtitleBounds reports the earliest start and latest end across every
// parseable timing line, and whether any timing line parsed at all.
func subtitleBounds(data []byte) (float64, float64, bool) {
	first := math.Inf(1)
	var last float64
	found := false
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.Contains(line, "-->") {
			continue
		}
		parts := strings.Split(line, "-->")
		if len(parts) != 2 {
			continue
		}
		startSeconds, errStart := parseSRTTimestamp(parts[0])
		endSeconds, errEnd := parseSRTTimestamp(parts[1])
		if errStart != nil || errEnd != nil {
			continue
		}
		found = true
		if startSeconds < first {
			first = startSeconds
		}
		if endSeconds > last {
			last = endSeconds
		}
	}
	if !found {
		return 0, 0, false
	}
	return first, last, true
}

func parseSRTTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	// Normalize period to comma (SRT standard uses comma for milliseconds)
	value = strings.ReplaceAll(value, ".", ",")
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}

// Validate checks an SRT file for format issues.
// Returns a list of issues found; empty slice means validation passed.
func Validate(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return []string{fmt.Sprintf("read_error: %v", err)}
	}
	if countSRTCues(data) == 0 {
		return []string{"empty_subtitle_file"}
	}
	var issues []string
	first, last, found := subtitleBounds(data)
	if !found {
		issues = append(issues, "no_valid_timestamps")
	} else if last < first {
		issues = append(issues, fmt.Sprintf("inverted_bounds: first=%.3f last=%.3f", first, last))
	}
	return issues
}
