package subtitles

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Parse reads an SRT document. Blocks are separated by blank lines; the
// millisecond separator may be a comma or a period. A UTF-8 BOM and CRLF line
// endings are tolerated.
func Parse(r io.Reader) ([]Cue, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("parse srt: %w", err)
	}
	content := strings.TrimPrefix(string(data), "\ufeff")
	content = strings.ReplaceAll(content, "\r\n", "\n")

	var cues []Cue
	for _, block := range splitBlocks(content) {
		lines := strings.Split(block, "\n")
		if len(lines) < 2 {
			return nil, fmt.Errorf("parse srt: incomplete block %q", block)
		}
		index, err := strconv.Atoi(strings.TrimSpace(lines[0]))
		if err != nil {
			return nil, fmt.Errorf("parse srt: invalid index %q", lines[0])
		}
		parts := strings.Split(lines[1], "-->")
		if len(parts) != 2 {
			return nil, fmt.Errorf("parse srt: cue %d: invalid timing line %q", index, lines[1])
		}
		start, err := parseSRTTimestamp(parts[0])
		if err != nil {
			return nil, fmt.Errorf("parse srt: cue %d: %w", index, err)
		}
		end, err := parseSRTTimestamp(parts[1])
		if err != nil {
			return nil, fmt.Errorf("parse srt: cue %d: %w", index, err)
		}
		cues = append(cues, Cue{
			Index: index,
			Start: start,
			End:   end,
			Text:  strings.Join(lines[2:], "\n"),
		})
	}
	return cues, nil
}

func splitBlocks(content string) []string {
	var blocks []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, strings.Join(current, "\n"))
			current = nil
		}
	}
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return blocks
}
