package utils

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"panelkeeper/internal/logger"
)

/**
 * CommandRunner abstracts external command execution
 * @description
 * - Everything that shells out (package manager, git, npm, systemctl, chown)
 *   goes through this interface so the workflow is testable without a root host
 * - Every command runs at most once per step; there is no retry layer
 */
type CommandRunner interface {
	// Run executes the command and returns an error on non-zero exit.
	Run(ctx context.Context, name string, args ...string) error
	// RunIn is Run with a working directory (npm/build steps).
	RunIn(ctx context.Context, dir, name string, args ...string) error
	// Output executes the command and returns its combined output.
	Output(ctx context.Context, name string, args ...string) (string, error)
	// LookPath reports where an executable resolves, mirroring exec.LookPath.
	LookPath(file string) (string, error)
}

// ExecRunner is the production CommandRunner backed by os/exec.
type ExecRunner struct{}

var _ CommandRunner = ExecRunner{}

func (r ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	return r.RunIn(ctx, "", name, args...)
}

func (ExecRunner) RunIn(ctx context.Context, dir, name string, args ...string) error {
	logger.Infof("exec: %s %s", name, strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		if len(out) > 0 {
			logger.Errorf("%s failed: %v\n%s", name, err, string(out))
		}
		return fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return nil
}

func (ExecRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (ExecRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}
