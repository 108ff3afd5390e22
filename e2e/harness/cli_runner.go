package harness

import (
	"bytes"
	"context"
	"time"

	"github.com/artpar/marquee/internal/cli"
)

// CLIResult holds CLI execution results.
type CLIResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// CLIRunner executes CLI commands against the harness data directory.
type CLIRunner struct {
	harness *E2EHarness
}

// Run executes a CLI command with the given arguments.
func (r *CLIRunner) Run(args ...string) (*CLIResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.harness.timeout)
	defer cancel()

	start := time.Now()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	global := []string{
		"--config", r.harness.ConfigPath(),
		"--data-dir", r.harness.DataDir(),
		"--storage", r.harness.storage,
	}

	cmd := cli.NewRootCommand("test")
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(append(global, args...))

	err := cmd.ExecuteContext(ctx)

	result := &CLIResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		result.ExitCode = 1
	}

	return result, err
}

// Favorites runs a favorites subcommand.
func (r *CLIRunner) Favorites(args ...string) (*CLIResult, error) {
	return r.Run(append([]string{"favorites"}, args...)...)
}

// Search runs the search command.
func (r *CLIRunner) Search(args ...string) (*CLIResult, error) {
	return r.Run(append([]string{"search"}, args...)...)
}
