package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/HamedGhaneS/My-AI-Tools/internal/history"
	"github.com/HamedGhaneS/My-AI-Tools/internal/services"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past transcription runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.requireHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list history: %w", err)
			}
			if asJSON {
				if runs == nil {
					runs = []history.Run{}
				}
				return writeJSON(cmd, runs)
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			fmt.Fprintln(out, renderHistoryTable(runs, time.Now()))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.requireHistory()
			if err != nil {
				return err
			}
			defer store.Close()
			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return fmt.Errorf("clear history: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d run(s) from history\n", removed)
			return nil
		},
	})
	return cmd
}

func (c *commandContext) requireHistory() (*history.Store, error) {
	store, err := c.openHistory()
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errors.New("run history is disabled (history.enabled = false)")
	}
	return store, nil
}

func renderHistoryTable(runs []history.Run, now time.Time) string {
	headers := []string{"Started", "Kind", "Source", "Lang", "Tier", "Status", "Took", "Subtitle / Error"}
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		source := run.VideoID
		if source == "" {
			source = truncate(run.Source, 40)
		}
		took := "-"
		if d := run.Duration(); d > 0 {
			took = d.Round(100 * time.Millisecond).String()
		}
		detail := run.SubtitlePath
		if run.Status != services.StatusCompleted && run.ErrorMessage != "" {
			detail = run.ErrorMessage
		}
		lang := run.Language
		if run.Translated {
			lang += " (translated)"
		}
		rows = append(rows, []string{
			humanize.RelTime(run.StartedAt, now, "ago", "from now"),
			string(run.Kind),
			source,
			lang,
			dashIfEmpty(run.Tier),
			string(run.Status),
			took,
			truncate(detail, 60),
		})
	}
	return renderTable(headers, rows, []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft})
}

func truncate(s string, max int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= max {
		return string(r)
	}
	return string(r[:max-1]) + "…"
}

func dashIfEmpty(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
