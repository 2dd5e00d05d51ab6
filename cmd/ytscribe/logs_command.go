package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HamedGhaneS/My-AI-Tools/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow bool
	var requestID string

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the ytscribe log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			match := logs.MatchRequest(requestID)
			tail, offset, err := logs.Last(cfg.LogPath(), lines, match)
			if err != nil {
				return err
			}
			for _, line := range tail {
				fmt.Fprintln(out, line)
			}
			if !follow {
				return nil
			}
			return logs.Follow(cmd.Context(), cfg.LogPath(), offset, logs.DefaultPoll, match, func(line string) {
				fmt.Fprintln(out, line)
			})
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new lines until interrupted")
	cmd.Flags().StringVar(&requestID, "request", "", "Only show lines for this request ID (see ytscribe history --json)")
	return cmd
}
