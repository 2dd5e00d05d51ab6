package logs_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/HamedGhaneS/My-AI-Tools/internal/logs"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ytscribe.log")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func TestLastLines(t *testing.T) {
	path := writeLog(t, "a\nb\nc\n")

	lines, offset, err := logs.Last(path, 2, nil)
	if err != nil {
		t.Fatalf("Last returned error: %v", err)
	}
	if len(lines) != 2 || lines[0] != "b" || lines[1] != "c" {
		t.Fatalf("unexpected lines: %#v", lines)
	}
	if offset != 6 {
		t.Fatalf("expected offset 6, got %d", offset)
	}
}

func TestLastFiltersByRequest(t *testing.T) {
	path := writeLog(t, "INFO run started request_id=aaa\nINFO run started request_id=bbb\nWARN retry request_id=aaa\n")

	lines, _, err := logs.Last(path, 10, logs.MatchRequest("aaa"))
	if err != nil {
		t.Fatalf("Last returned error: %v", err)
	}
	if len(lines) != 2 || lines[1] != "WARN retry request_id=aaa" {
		t.Fatalf("unexpected lines: %#v", lines)
	}
}

func TestLastSkipsPartialTrailingLine(t *testing.T) {
	path := writeLog(t, "done\nhalf")
	lines, offset, err := logs.Last(path, 5, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 || offset != 5 {
		t.Fatalf("expected one complete line at offset 5, got %#v at %d", lines, offset)
	}
}

func TestLastMissingFile(t *testing.T) {
	lines, offset, err := logs.Last(filepath.Join(t.TempDir(), "none.log"), 5, nil)
	if err != nil || lines != nil || offset != 0 {
		t.Fatalf("expected empty result, got %#v %d %v", lines, offset, err)
	}
}

func TestFollowEmitsAppendedLines(t *testing.T) {
	path := writeLog(t, "start\n")
	_, offset, err := logs.Last(path, 1, nil)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var got []string
	received := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- logs.Follow(ctx, path, offset, 20*time.Millisecond, nil, func(line string) {
			mu.Lock()
			got = append(got, line)
			mu.Unlock()
			select {
			case received <- struct{}{}:
			default:
			}
		})
	}()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open append: %v", err)
	}
	if _, err := f.WriteString("later\n"); err != nil {
		t.Fatalf("append log: %v", err)
	}
	_ = f.Close()

	select {
	case <-received:
	case <-time.After(5 * time.Second):
		t.Fatal("follow did not emit the appended line")
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Follow returned error: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || got[0] != "later" {
		t.Fatalf("unexpected lines %#v", got)
	}
}

func TestFollowRestartsAfterTruncation(t *testing.T) {
	path := writeLog(t, "one\ntwo\nthree\n")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := os.WriteFile(path, []byte("new\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	lines := make(chan string, 4)
	go func() {
		_ = logs.Follow(ctx, path, 14, 20*time.Millisecond, nil, func(line string) { lines <- line })
	}()
	select {
	case line := <-lines:
		if line != "new" {
			t.Fatalf("expected line from truncated file, got %q", line)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("follow did not restart after truncation")
	}
}
