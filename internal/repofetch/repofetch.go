// Package repofetch manages local repository checkouts for analysis runs.
package repofetch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Fetcher clones repositories beneath a fixed working directory and reuses
// checkouts that already exist from a previous run.
type Fetcher struct {
	workDir string
}

func New(workDir string) *Fetcher {
	return &Fetcher{workDir: workDir}
}

// Path returns where Ensure would place the checkout, whether or not it
// exists yet.
func (f *Fetcher) Path(owner, name string) string {
	return filepath.Join(f.workDir, owner, name)
}

// Ensure returns the checkout path for owner/name, cloning the default
// branch on first use. A checkout left behind by an earlier run is reused
// as-is; the analysis treats it as a snapshot, not a mirror.
func (f *Fetcher) Ensure(ctx context.Context, cloneURL, branch, owner, name string) (string, error) {
	dest := f.Path(owner, name)
	if _, err := os.Stat(dest); err == nil {
		return dest, nil
	} else if !os.IsNotExist(err) {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", err
	}
	opts := &gogit.CloneOptions{URL: cloneURL}
	if branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(branch)
		opts.SingleBranch = true
	}
	if _, err := gogit.PlainCloneContext(ctx, dest, false, opts); err != nil {
		// Remove whatever the failed clone left behind so the next attempt
		// starts clean instead of reusing a partial checkout.
		_ = os.RemoveAll(dest)
		return "", fmt.Errorf("repofetch: clone %s: %w", cloneURL, err)
	}
	return dest, nil
}
