package gitfetch

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"panelkeeper/internal/logger"
	"panelkeeper/internal/models"
	"panelkeeper/internal/utils"
)

/**
 * Repository fetcher: destructive-replace clone of a component source
 * @property {int} countdownSeconds - Pre-delete warning countdown length
 * @description
 * - An existing target directory is removed before cloning; the countdown is
 *   the only safety gate, and cancelling the context during it aborts the
 *   whole fetch before anything is deleted
 * - Clone failures are errors; there is no partial-clone recovery
 */
type Fetcher struct {
	runner           utils.CommandRunner
	countdownSeconds int
	out              io.Writer
}

func NewFetcher(runner utils.CommandRunner, countdownSeconds int) *Fetcher {
	return &Fetcher{
		runner:           runner,
		countdownSeconds: countdownSeconds,
		out:              os.Stdout,
	}
}

// SetOutput redirects countdown output (tests, TUI).
func (f *Fetcher) SetOutput(w io.Writer) {
	f.out = w
}

/**
 * Fetch a component repository into its target directory
 * @param {models.ComponentSpec} spec - Component with repo URL, branch, directory
 * @returns {error} Countdown abort, deletion failure or clone failure
 */
func (f *Fetcher) Fetch(ctx context.Context, spec models.ComponentSpec) error {
	if _, err := os.Stat(spec.Directory); err == nil {
		if err := f.countdown(ctx, spec.Directory); err != nil {
			return err
		}
		logger.Warnf("Removing existing directory %s", spec.Directory)
		if err := os.RemoveAll(spec.Directory); err != nil {
			return fmt.Errorf("remove %s: %w", spec.Directory, err)
		}
	}

	args := []string{"clone", "--depth", "1"}
	if spec.Branch != "" {
		args = append(args, "-b", spec.Branch)
	}
	args = append(args, spec.RepoURL, spec.Directory)
	if err := f.runner.Run(ctx, "git", args...); err != nil {
		return fmt.Errorf("clone %s: %w", spec.RepoURL, err)
	}
	logger.Infof("Cloned %s into %s", spec.RepoURL, spec.Directory)
	return nil
}

/**
 * Run the cancellable pre-delete countdown
 * @returns {error} ctx.Err() when aborted, nil when the countdown completed
 */
func (f *Fetcher) countdown(ctx context.Context, dir string) error {
	fmt.Fprintf(f.out, "WARNING: %s exists and will be DELETED. Press Ctrl+C to abort.\n", dir)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for remaining := f.countdownSeconds; remaining > 0; remaining-- {
		fmt.Fprintf(f.out, "  deleting in %d...\n", remaining)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}
