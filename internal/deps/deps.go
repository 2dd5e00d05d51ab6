package deps

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// versionTimeout bounds each "--version" call so a hung binary cannot
// stall doctor.
const versionTimeout = 5 * time.Second

// Requirement names an external binary ytscribe shells out to. VersionArgs,
// when set, are passed to the binary to read its version line.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	VersionArgs []string
}

// Status reports whether a requirement resolved, to which path, and the
// version it reported.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Version     string
	Detail      string
}

// CheckBinaries resolves each requirement on PATH and reads its version.
// A binary that resolves but fails the version check is still available; the
// error lands in Detail.
func CheckBinaries(ctx context.Context, requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		results = append(results, check(ctx, req))
	}
	return results
}

func check(ctx context.Context, req Requirement) Status {
	status := Status{
		Name:        req.Name,
		Command:     strings.TrimSpace(req.Command),
		Description: strings.TrimSpace(req.Description),
		Optional:    req.Optional,
	}
	if status.Command == "" {
		status.Detail = "command not configured"
		return status
	}
	resolved, err := exec.LookPath(status.Command)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", status.Command)
		return status
	}
	status.Command = resolved
	status.Available = true
	if len(req.VersionArgs) > 0 {
		version, err := readVersion(ctx, resolved, req.VersionArgs)
		if err != nil {
			status.Detail = fmt.Sprintf("version check failed: %v", err)
		}
		status.Version = version
	}
	return status
}

// readVersion runs the binary and returns the first non-empty output line.
func readVersion(ctx context.Context, binary string, args []string) (string, error) {
	versionCtx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()
	output, err := exec.CommandContext(versionCtx, binary, args...).CombinedOutput() //nolint:gosec
	if err != nil {
		return "", err
	}
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			return line, nil
		}
	}
	return "", nil
}
