package preflight

import (
	"context"
	"strings"

	"github.com/HamedGhaneS/My-AI-Tools/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the filesystem checks a transcription run depends on.
// Network checks are left to the doctor command.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir),
		CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir),
	}
	if results[1].Passed {
		results = append(results, CheckFreeSpace("Work directory space", cfg.Paths.WorkDir, MinWorkDirFreeBytes))
	}
	return results
}

// Failures returns the failed results joined into a single line, or "" when all passed.
func Failures(results []Result) string {
	var parts []string
	for _, r := range results {
		if !r.Passed {
			parts = append(parts, r.Name+": "+r.Detail)
		}
	}
	return strings.Join(parts, "; ")
}
