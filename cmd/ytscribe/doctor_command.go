package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HamedGhaneS/My-AI-Tools/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var ping bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check external tools, directories, and API configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			failed := 0

			for _, line := range renderSectionHeader("Dependencies", colorize) {
				fmt.Fprintln(out, line)
			}
			rows := [][]string{}
			for _, status := range preflight.CheckSystemDeps(cmd.Context(), cfg) {
				state := "ok"
				if !status.Available {
					state = "missing"
					if !status.Optional {
						failed++
					}
				}
				rows = append(rows, []string{status.Name, status.Command, state, dashIfEmpty(truncate(status.Version, 24)), status.Detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Name", "Command", "Status", "Version", "Detail"}, rows, nil))

			fmt.Fprintln(out)
			for _, line := range renderSectionHeader("Environment", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderStatusLine("Config", statusInfo, ctx.configPath, colorize))
			checks := preflight.RunAll(cmd.Context(), cfg)
			checks = append(checks,
				preflight.CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
				preflight.CheckSpeechFromConfig(cfg),
				preflight.CheckTranslationFromConfig(cfg),
			)
			if ping && cfg.Translation.Enabled {
				checks = append(checks, preflight.CheckLLM(cmd.Context(), "Translation API", cfg.TranslationLLM()))
			}
			for _, res := range checks {
				kind := statusOK
				if !res.Passed {
					kind = statusError
					failed++
				}
				fmt.Fprintln(out, renderStatusLine(res.Name, kind, res.Detail, colorize))
			}

			if failed > 0 {
				return fmt.Errorf("%d check(s) failed", failed)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderMessage(statusOK, "All checks passed", colorize))
			return nil
		},
	}
	cmd.Flags().BoolVar(&ping, "ping", false, "Send a test request to the translation API")
	return cmd
}
