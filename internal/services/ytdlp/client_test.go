package ytdlp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/HamedGhaneS/My-AI-Tools/internal/services"
)

type fakeExecutor struct {
	stdout []string
	stderr []string
	err    error
	create string
	args   []string
}

func (f *fakeExecutor) Run(ctx context.Context, binary string, args []string, onStdout, onStderr func(string)) error {
	f.args = args
	for _, line := range f.stdout {
		onStdout(line)
	}
	for _, line := range f.stderr {
		onStderr(line)
	}
	if f.create != "" {
		if err := os.WriteFile(f.create, []byte("audio"), 0o644); err != nil {
			return err
		}
	}
	return f.err
}

func TestParseProgress(t *testing.T) {
	cases := map[string]float64{
		"[download]   0.0% of 3.50MiB at 1.00MiB/s ETA 00:03": 0,
		"[download]  42.5% of 3.50MiB":                          42.5,
		"[download] 100% of 3.50MiB in 00:02":                   100,
	}
	for line, want := range cases {
		got, ok := ParseProgress(line)
		if !ok || got != want {
			t.Fatalf("ParseProgress(%q) = %v,%v want %v", line, got, ok, want)
		}
	}
	if _, ok := ParseProgress("[ExtractAudio] Destination: audio.mp3"); ok {
		t.Fatal("expected non-progress line to be ignored")
	}
}

func TestDownloadReportsProgressAndReturnsPath(t *testing.T) {
	dir := t.TempDir()
	exec := &fakeExecutor{
		stdout: []string{"[youtube] dQw4w9WgXcQ: Downloading webpage", "[download]  10.0% of 1MiB", "[download] 100% of 1MiB"},
		create: filepath.Join(dir, "audio_dQw4w9WgXcQ.mp3"),
	}
	client := New("", WithExecutor(exec))

	var seen []float64
	path, err := client.Download(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", dir, func(p float64) {
		seen = append(seen, p)
	})
	if err != nil {
		t.Fatalf("Download returned error: %v", err)
	}
	if path != exec.create {
		t.Fatalf("expected %s, got %s", exec.create, path)
	}
	if len(seen) != 2 || seen[0] != 10 || seen[1] != 100 {
		t.Fatalf("unexpected progress %v", seen)
	}
	for _, flag := range []string{"--extract-audio", "--newline"} {
		if !slices.Contains(exec.args, flag) {
			t.Fatalf("expected %s in args %v", flag, exec.args)
		}
	}
	if idx := slices.Index(exec.args, "-o"); idx < 0 || exec.args[idx+1] != filepath.Join(dir, "audio_dQw4w9WgXcQ.%(ext)s") {
		t.Fatalf("unexpected output template in %v", exec.args)
	}
}

func TestDownloadFailureCarriesStderr(t *testing.T) {
	exec := &fakeExecutor{
		stderr: []string{"ERROR: [youtube] dQw4w9WgXcQ: Video unavailable"},
		err:    errors.New("exit status 1"),
	}
	client := New("yt-dlp", WithExecutor(exec))
	_, err := client.Download(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", t.TempDir(), nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Video unavailable") {
		t.Fatalf("expected stderr text in error, got %v", err)
	}
}

func TestDownloadMissingOutputFails(t *testing.T) {
	client := New("yt-dlp", WithExecutor(&fakeExecutor{}))
	_, err := client.Download(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", t.TempDir(), nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestDownloadFindsAlternateExtension(t *testing.T) {
	dir := t.TempDir()
	exec := &fakeExecutor{create: filepath.Join(dir, "audio_dQw4w9WgXcQ.m4a")}
	client := New("yt-dlp", WithExecutor(exec))
	path, err := client.Download(context.Background(), "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", dir, nil)
	if err != nil {
		t.Fatalf("Download returned error: %v", err)
	}
	if path != exec.create {
		t.Fatalf("expected %s, got %s", exec.create, path)
	}
}
