package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/HamedGhaneS/My-AI-Tools/internal/config"
	"github.com/HamedGhaneS/My-AI-Tools/internal/workflow"
)

type transcribeOptions struct {
	language      string
	noSubtitles   bool
	transcriptOut string
	outputDir     string
}

func (o *transcribeOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.language, "language", "l", "en", "Transcript language (code or name, e.g. en, fa, Persian)")
	cmd.Flags().BoolVar(&o.noSubtitles, "no-srt", false, "Print the transcript without writing an SRT file")
	cmd.Flags().StringVar(&o.transcriptOut, "transcript-out", "", "Write the transcript text to this file instead of stdout")
	cmd.Flags().StringVarP(&o.outputDir, "output", "o", "", "Directory for the subtitle file (default: paths.output_dir)")
}

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var opts transcribeOptions

	cmd := &cobra.Command{
		Use:   "transcribe <youtube-url>",
		Short: "Transcribe a YouTube video and write an SRT subtitle file",
		Long: "Fetch the published transcript of a YouTube video. When none is available the\n" +
			"audio is downloaded and transcribed with Whisper. Captions are translated when\n" +
			"the requested language differs from the caption language.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var url string
			if len(args) > 0 {
				url = args[0]
			}
			outputDir, err := expandOptional(opts.outputDir)
			if err != nil {
				return err
			}
			runner, closeFn, err := ctx.newRunner(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeFn()

			result, err := runner.Run(cmd.Context(), workflow.Request{
				URL:            url,
				Language:       opts.language,
				WriteSubtitles: !opts.noSubtitles,
				OutputDir:      outputDir,
			})
			if err != nil {
				return err
			}
			return emitTranscript(cmd.OutOrStdout(), opts.transcriptOut, result.Text)
		},
	}
	opts.bind(cmd)
	return cmd
}

func newTranscribeFileCommand(ctx *commandContext) *cobra.Command {
	var opts transcribeOptions

	cmd := &cobra.Command{
		Use:   "transcribe-file <audio-file>",
		Short: "Transcribe a local audio file with the configured speech backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			outputDir, err := expandOptional(opts.outputDir)
			if err != nil {
				return err
			}
			runner, closeFn, err := ctx.newRunner(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeFn()

			result, err := runner.RunFile(cmd.Context(), workflow.FileRequest{
				Path:           path,
				Language:       opts.language,
				WriteSubtitles: !opts.noSubtitles,
				OutputDir:      outputDir,
			})
			if err != nil {
				return err
			}
			return emitTranscript(cmd.OutOrStdout(), opts.transcriptOut, result.Text)
		},
	}
	opts.bind(cmd)
	return cmd
}

// newRunner wires a workflow runner with logging, history, and a terminal
// reporter writing to statusOut. The returned func closes the history store.
func (c *commandContext) newRunner(statusOut io.Writer) (*workflow.Runner, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, func() {}, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, func() {}, err
	}
	opts := []workflow.Option{
		workflow.WithLogger(logger),
		workflow.WithReporter(newTerminalReporter(statusOut)),
	}
	store, err := c.openHistory()
	if err != nil {
		fmt.Fprintln(statusOut, renderStatusLine("History", statusWarn, err.Error(), shouldColorize(statusOut)))
	}
	closeFn := func() {}
	if store != nil {
		opts = append(opts, workflow.WithHistory(store))
		closeFn = func() { _ = store.Close() }
	}
	runner, err := workflow.New(cfg, opts...)
	if err != nil {
		closeFn()
		return nil, func() {}, err
	}
	return runner, closeFn, nil
}

func emitTranscript(stdout io.Writer, path, text string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		_, err := fmt.Fprintln(stdout, text)
		return err
	}
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create transcript directory: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(text+"\n"), 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}

func expandOptional(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", nil
	}
	expanded, err := config.ExpandPath(strings.TrimSpace(path))
	if err != nil {
		return "", fmt.Errorf("resolve output directory: %w", err)
	}
	if err := os.MkdirAll(expanded, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	return expanded, nil
}
