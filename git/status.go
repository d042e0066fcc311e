package git

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// HasStagedChanges reports whether the index differs from HEAD.
func (s *GitService) HasStagedChanges(ctx context.Context) (bool, error) {
	// diff --quiet exits 1 when differences exist.
	_, _, err := s.executor.Run(ctx, s.dir, s.binary, "diff", "--cached", "--quiet")
	if err != nil {
		return true, nil
	}
	return false, nil
}

// HasTrackedChanges reports whether any tracked file differs from the index.
func (s *GitService) HasTrackedChanges(ctx context.Context) (bool, error) {
	_, _, err := s.executor.Run(ctx, s.dir, s.binary, "diff", "--quiet")
	if err != nil {
		return true, nil
	}
	return false, nil
}

// IsClean reports whether both the working tree and the index match HEAD.
// Untracked files do not count: they survive history rewrites untouched.
func (s *GitService) IsClean(ctx context.Context) (bool, error) {
	staged, err := s.HasStagedChanges(ctx)
	if err != nil {
		return false, err
	}
	if staged {
		return false, nil
	}
	tracked, err := s.HasTrackedChanges(ctx)
	if err != nil {
		return false, err
	}
	return !tracked, nil
}

// RebaseInProgress reports whether the repository is mid-rebase.
func (s *GitService) RebaseInProgress(ctx context.Context) bool {
	for _, name := range []string{"rebase-merge", "rebase-apply"} {
		out, err := s.outputTrimmed(ctx, "rev-parse", "--git-path", name)
		if err != nil || out == "" {
			continue
		}
		path := out
		if !filepath.IsAbs(path) {
			path = filepath.Join(s.dir, path)
		}
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

// IsRepository reports whether dir is inside a git work tree.
func (s *GitService) IsRepository(ctx context.Context) bool {
	out, err := s.outputTrimmed(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(out) == "true"
}
