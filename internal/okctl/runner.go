// Package okctl wraps the okctl and kubectl command line tools for managing
// OceanBase clusters on Kubernetes.
package okctl

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
	"strings"
	"time"
)

// DefaultTimeout bounds a single command execution.
const DefaultTimeout = 30 * time.Second

// identifierPattern is the only shape accepted for names that end up in
// command arguments. Anything else is rejected before a process is spawned.
var identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// zonesPattern additionally allows '=' for zone=replica pairs.
var zonesPattern = regexp.MustCompile(`^[a-zA-Z0-9_=-]+$`)

// allowedCommands is the executable allowlist. Everything else is refused.
var allowedCommands = map[string]bool{
	"okctl":   true,
	"kubectl": true,
}

// ValidationError reports an argument that failed command-injection checks.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// ValidateIdentifier checks a name used as a command argument: non-empty,
// at most 100 characters, and only letters, digits, hyphens and underscores.
func ValidateIdentifier(value, field string) error {
	if value == "" {
		return &ValidationError{Field: field, Reason: "cannot be empty"}
	}
	if len(value) > 100 {
		return &ValidationError{Field: field, Reason: "length cannot exceed 100 characters"}
	}
	if !identifierPattern.MatchString(value) {
		return &ValidationError{Field: field, Reason: "contains invalid characters"}
	}
	return nil
}

// ValidateZones checks a zone=replica expression like "z1=1".
func ValidateZones(value string) error {
	if value == "" {
		return &ValidationError{Field: "zones", Reason: "cannot be empty"}
	}
	if !zonesPattern.MatchString(value) {
		return &ValidationError{Field: "zones", Reason: "contains invalid characters"}
	}
	return nil
}

// Runner executes allowlisted commands. The interface exists so tool
// handlers can be tested without spawning processes.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs commands through os/exec with a per-command timeout.
type ExecRunner struct {
	Timeout time.Duration
	logger  *slog.Logger
}

// NewRunner creates an ExecRunner with the default timeout.
func NewRunner(logger *slog.Logger) *ExecRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExecRunner{
		Timeout: DefaultTimeout,
		logger:  logger,
	}
}

// Run executes an allowlisted command and returns its stdout. Stderr is
// folded into the returned error on failure.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	if !allowedCommands[name] {
		return "", fmt.Errorf("command not allowed: %s", name)
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	r.logger.Info("executing command", "cmd", name, "args", strings.Join(args, " "))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("command timed out after %s", timeout)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("command failed: %s", msg)
	}
	return stdout.String(), nil
}

// WaitReady polls the given okctl list command until the named object shows
// up with a running status, or retries are exhausted. Returns true when the
// object became ready.
func WaitReady(ctx context.Context, r Runner, name string, retries int, interval time.Duration, listArgs ...string) (bool, error) {
	for i := 0; i < retries; i++ {
		out, err := r.Run(ctx, "okctl", listArgs...)
		if err == nil && strings.Contains(out, name) && strings.Contains(strings.ToLower(out), "running") {
			return true, nil
		}
		if i == retries-1 {
			break
		}
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(interval):
		}
	}
	return false, nil
}
