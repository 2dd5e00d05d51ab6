package deps

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
	}

	results := CheckBinaries(context.Background(), reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}

	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}

	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}
}

func TestCheckFFmpegSidecar(t *testing.T) {
	tmp := t.TempDir()
	ytdlpPath := filepath.Join(tmp, executableName("yt-dlp"))
	ffmpegPath := filepath.Join(tmp, executableName("ffmpeg"))
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(ytdlpPath, script, 0o755); err != nil {
		t.Fatalf("write yt-dlp stub: %v", err)
	}
	if err := os.WriteFile(ffmpegPath, script, 0o755); err != nil {
		t.Fatalf("write ffmpeg sidecar: %v", err)
	}

	status := CheckFFmpeg(context.Background(), "", ytdlpPath)
	if !status.Available {
		t.Fatalf("expected ffmpeg sidecar to be available, got detail %q", status.Detail)
	}
	if status.Command != ffmpegPath {
		t.Fatalf("expected ffmpeg command %q, got %q", ffmpegPath, status.Command)
	}
}

func TestCheckFFmpegPathFallback(t *testing.T) {
	tmp := t.TempDir()
	ytdlpPath := filepath.Join(tmp, executableName("yt-dlp"))
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(ytdlpPath, script, 0o755); err != nil {
		t.Fatalf("write yt-dlp stub: %v", err)
	}

	binDir := filepath.Join(tmp, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin: %v", err)
	}
	ffmpegPath := filepath.Join(binDir, executableName("ffmpeg"))
	if err := os.WriteFile(ffmpegPath, script, 0o755); err != nil {
		t.Fatalf("write ffmpeg stub: %v", err)
	}
	t.Setenv("PATH", binDir)

	status := CheckFFmpeg(context.Background(), "ffmpeg", ytdlpPath)
	if !status.Available {
		t.Fatalf("expected ffmpeg fallback to be available, got detail %q", status.Detail)
	}
	if status.Command != ffmpegPath {
		t.Fatalf("expected ffmpeg command %q, got %q", ffmpegPath, status.Command)
	}
}

func TestCheckFFmpegConfiguredMissing(t *testing.T) {
	status := CheckFFmpeg(context.Background(), "/nonexistent/ffmpeg-custom", "")
	if status.Available || status.Detail == "" {
		t.Fatalf("expected configured binary to be reported missing, got %+v", status)
	}
}

func TestCheckFFmpegNotFound(t *testing.T) {
	t.Setenv("PATH", "")
	status := CheckFFmpeg(context.Background(), "", filepath.Join(t.TempDir(), "yt-dlp"))
	if status.Available {
		t.Fatal("expected ffmpeg resolution to fail")
	}
	if status.Detail == "" {
		t.Fatal("expected detail message when ffmpeg is unavailable")
	}
}

func TestCheckBinariesReadsVersion(t *testing.T) {
	binDir := t.TempDir()
	ytdlp := filepath.Join(binDir, "yt-dlp")
	script := []byte("#!/bin/sh\n[ \"$1\" = \"--version\" ] || exit 2\necho\necho 2024.08.06\n")
	if err := os.WriteFile(ytdlp, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	broken := filepath.Join(binDir, "broken")
	if err := os.WriteFile(broken, []byte("#!/bin/sh\nexit 1\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	results := CheckBinaries(context.Background(), []Requirement{
		{Name: "yt-dlp", Command: ytdlp, VersionArgs: []string{"--version"}},
		{Name: "broken", Command: broken, VersionArgs: []string{"--version"}},
	})
	if results[0].Version != "2024.08.06" || results[0].Detail != "" {
		t.Fatalf("expected version line, got %+v", results[0])
	}
	if !results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected failed version check to keep the binary available with a detail, got %+v", results[1])
	}
}

func TestShortFFmpegVersion(t *testing.T) {
	if got := shortFFmpegVersion("ffmpeg version 6.1.1-3ubuntu5 Copyright (c) 2000-2023"); got != "6.1.1-3ubuntu5" {
		t.Fatalf("unexpected version %q", got)
	}
	if got := shortFFmpegVersion("custom build"); got != "custom build" {
		t.Fatalf("unexpected passthrough %q", got)
	}
}

func executableName(base string) string {
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}
