package deps

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// CheckFFmpeg reports the FFmpeg binary audio extraction will use.
//
// An explicitly configured binary wins. Otherwise the lookup mirrors yt-dlp's
// own: an ffmpeg sitting next to the yt-dlp executable (the layout of the
// standalone release bundles) is preferred over the one on PATH.
func CheckFFmpeg(ctx context.Context, configured, ytdlpCommand string) Status {
	req := Requirement{
		Name:        "FFmpeg",
		Command:     "ffmpeg",
		Description: "Required by yt-dlp for audio extraction",
		VersionArgs: []string{"-version"},
	}
	if cmd := strings.TrimSpace(configured); cmd != "" && cmd != "ffmpeg" {
		req.Command = cmd
	} else if sidecar, ok := resolveSidecar(ytdlpCommand); ok {
		req.Command = sidecar
	}
	status := check(ctx, req)
	status.Version = shortFFmpegVersion(status.Version)
	return status
}

func resolveSidecar(ytdlpCommand string) (string, bool) {
	ytdlp := strings.TrimSpace(ytdlpCommand)
	if ytdlp == "" {
		return "", false
	}
	resolved, err := exec.LookPath(ytdlp)
	if err != nil {
		return "", false
	}
	candidate, ok := ffmpegSidecarCandidate(resolved)
	if !ok {
		return "", false
	}
	if info, statErr := os.Stat(candidate); statErr != nil || !isExecutable(info) {
		return "", false
	}
	return candidate, true
}

// shortFFmpegVersion reduces "ffmpeg version 6.1.1 Copyright ..." to "6.1.1".
func shortFFmpegVersion(line string) string {
	fields := strings.Fields(line)
	if len(fields) >= 3 && fields[0] == "ffmpeg" && fields[1] == "version" {
		return fields[2]
	}
	return line
}

func ffmpegSidecarCandidate(ytdlpPath string) (string, bool) {
	if ytdlpPath == "" {
		return "", false
	}
	dir := filepath.Dir(ytdlpPath)
	name := "ffmpeg"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(dir, name), true
}

func isExecutable(info os.FileInfo) bool {
	if info == nil {
		return false
	}
	if info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
