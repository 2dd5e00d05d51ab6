package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/HamedGhaneS/My-AI-Tools/internal/config"
	"github.com/HamedGhaneS/My-AI-Tools/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, extra string) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	for _, key := range []string{"OPENAI_API_KEY", "YTSCRIBE_SPEECH_API_KEY", "YTSCRIBE_TRANSLATION_API_KEY"} {
		t.Setenv(key, "")
	}

	configPath := filepath.Join(base, "ytscribe.toml")
	writeTestConfig(t, configPath, cfg, extra)
	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config, extra string) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\noutput_dir = %q\nwork_dir = %q\nstate_dir = %q\nlog_dir = %q\n\n[history]\nenabled = true\n%s",
		cfg.Paths.OutputDir,
		cfg.Paths.WorkDir,
		cfg.Paths.StateDir,
		cfg.Paths.LogDir,
		extra,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
