package adapter

import (
	"bytes"
	"context"
	"os/exec"
	"time"
)

// DefaultCommandTimeout bounds a single external command, including image
// builds, which may pull base layers over the network.
const DefaultCommandTimeout = 10 * time.Minute

// ProcessRunner is the narrow capability for driving external tools: a
// command, its arguments, the combined output, and an error for a non-zero
// exit. Components take it as a dependency so tests can substitute a fake.
type ProcessRunner interface {
	// Run executes the named command and returns its combined
	// stdout/stderr output along with any execution error.
	Run(ctx context.Context, name string, args ...string) (output string, err error)
}

// LocalProcessRunner provides a concrete implementation using os/exec.
type LocalProcessRunner struct {
	timeout time.Duration
}

// NewLocalProcessRunner constructs a LocalProcessRunner. A non-positive
// timeout falls back to DefaultCommandTimeout.
func NewLocalProcessRunner(timeout time.Duration) *LocalProcessRunner {
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}

	return &LocalProcessRunner{timeout: timeout}
}

// Run executes the command, bounded by the runner's timeout.
func (r *LocalProcessRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	output := stdout.String() + stderr.String()

	return output, err
}
