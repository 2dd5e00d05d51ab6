package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/HamedGhaneS/My-AI-Tools/internal/services"
	"github.com/HamedGhaneS/My-AI-Tools/internal/workflow"
)

// scratchPrefixes name the work_dir entries a run leaves behind when it is
// killed before cleanup.
var scratchPrefixes = []string{"audio_", "ytscribe-", "whisperx-"}

func newCleanCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove leftover temporary audio from the work directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			// A running transcription owns its scratch directory.
			unlock, err := workflow.AcquireRunLock(cfg)
			if err != nil {
				if errors.Is(err, services.ErrBusy) {
					return services.Wrap(services.ErrBusy, "", "", "a transcription is running; try again when it finishes", nil)
				}
				return err
			}
			defer func() { _ = unlock() }()

			out := cmd.OutOrStdout()
			removed, freed, err := cleanWorkDir(cfg.Paths.WorkDir, dryRun, func(path string) {
				if dryRun {
					fmt.Fprintf(out, "Would remove %s\n", path)
				}
			})
			if err != nil {
				return err
			}
			verb := "Removed"
			if dryRun {
				verb = "Would remove"
			}
			fmt.Fprintf(out, "%s %d item(s), %s\n", verb, removed, humanize.IBytes(uint64(freed)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List what would be removed without deleting")
	return cmd
}

func cleanWorkDir(dir string, dryRun bool, visit func(path string)) (int, int64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, 0, nil
		}
		return 0, 0, fmt.Errorf("read work directory: %w", err)
	}
	var removed int
	var freed int64
	for _, entry := range entries {
		if !isScratch(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		size := diskUsage(path)
		visit(path)
		if !dryRun {
			if err := os.RemoveAll(path); err != nil {
				return removed, freed, fmt.Errorf("remove %s: %w", path, err)
			}
		}
		removed++
		freed += size
	}
	return removed, freed, nil
}

func isScratch(name string) bool {
	for _, prefix := range scratchPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func diskUsage(path string) int64 {
	var total int64
	_ = filepath.WalkDir(path, func(_ string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if info, infoErr := d.Info(); infoErr == nil && info.Mode().IsRegular() {
			total += info.Size()
		}
		return nil
	})
	return total
}
