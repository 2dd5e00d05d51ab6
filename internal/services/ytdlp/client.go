package ytdlp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/HamedGhaneS/My-AI-Tools/internal/services"
)

const (
	DefaultBinary = "yt-dlp"
	DefaultFormat = "mp3"
	// maxStderrLines bounds how much diagnostic output is kept for error messages.
	maxStderrLines = 20
)

var progressPattern = regexp.MustCompile(`\[download\]\s+(\d+(?:\.\d+)?)%`)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onStdout, onStderr func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithFormat overrides the extracted audio format (defaults to mp3).
func WithFormat(format string) Option {
	return func(c *Client) {
		if format = strings.TrimSpace(format); format != "" {
			c.format = format
		}
	}
}

// Client downloads the audio track of a video with yt-dlp.
type Client struct {
	binary string
	format string
	exec   Executor
}

// New constructs a yt-dlp client.
func New(binary string, opts ...Option) *Client {
	if strings.TrimSpace(binary) == "" {
		binary = DefaultBinary
	}
	c := &Client{
		binary: binary,
		format: DefaultFormat,
		exec:   commandExecutor{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Download extracts the audio of watchURL into destDir as audio_<videoID>.<format>
// and returns the file path. progress, when non-nil, receives download
// percentages in the range 0-100 as yt-dlp reports them. The call blocks until
// yt-dlp exits.
func (c *Client) Download(ctx context.Context, watchURL, videoID, destDir string, progress func(percent float64)) (string, error) {
	if strings.TrimSpace(watchURL) == "" || strings.TrimSpace(videoID) == "" {
		return "", services.Wrap(services.ErrValidation, "fallback", "download audio", "video url and id required", nil)
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("ytdlp: ensure destination: %w", err)
	}

	template := filepath.Join(destDir, "audio_"+videoID+".%(ext)s")
	args := []string{
		"--extract-audio",
		"--audio-format", c.format,
		"--newline",
		"--no-playlist",
		"-o", template,
		watchURL,
	}

	var stderr tailBuffer
	onStdout := func(line string) {
		if percent, ok := ParseProgress(line); ok && progress != nil {
			progress(percent)
		}
	}
	if err := c.exec.Run(ctx, c.binary, args, onStdout, stderr.add); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		detail := stderr.String()
		if detail == "" {
			detail = err.Error()
		}
		return "", services.Wrap(services.ErrExternalTool, "fallback", "download audio", detail, err)
	}

	path, err := c.locate(destDir, videoID)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "fallback", "download audio", "yt-dlp produced no audio file", err)
	}
	return path, nil
}

func (c *Client) locate(destDir, videoID string) (string, error) {
	expected := filepath.Join(destDir, "audio_"+videoID+"."+c.format)
	if _, err := os.Stat(expected); err == nil {
		return expected, nil
	}
	matches, err := filepath.Glob(filepath.Join(destDir, "audio_"+videoID+".*"))
	if err != nil {
		return "", err
	}
	for _, match := range matches {
		if !strings.HasSuffix(match, ".part") {
			return match, nil
		}
	}
	return "", fmt.Errorf("no file matching audio_%s.* in %s", videoID, destDir)
}

// ParseProgress extracts the percentage from a yt-dlp "[download]  42.5%" line.
func ParseProgress(line string) (float64, bool) {
	match := progressPattern.FindStringSubmatch(line)
	if len(match) != 2 {
		return 0, false
	}
	percent, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}
	return percent, true
}

type tailBuffer struct {
	mu    sync.Mutex
	lines []string
}

func (b *tailBuffer) add(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = append(b.lines, line)
	if len(b.lines) > maxStderrLines {
		b.lines = b.lines[len(b.lines)-maxStderrLines:]
	}
}

func (b *tailBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Join(b.lines, "\n")
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, onStdout, onStderr func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	var scanErr error
	var once sync.Once

	scan := func(r io.Reader, forward func(string)) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			if forward != nil {
				forward(scanner.Text())
			}
		}
		if err := scanner.Err(); err != nil && !errors.Is(err, os.ErrClosed) {
			once.Do(func() {
				scanErr = err
			})
		}
	}

	wg.Add(2)
	go scan(stdout, onStdout)
	go scan(stderr, onStderr)

	wg.Wait()
	if scanErr != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return fmt.Errorf("scan output: %w", scanErr)
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}
