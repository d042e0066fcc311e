package git

import (
	"context"

	"github.com/surgeonkit/surgeon/logger"
)

// CommitOptions configures a git commit invocation.
type CommitOptions struct {
	Message    string
	Amend      bool
	NoEdit     bool // with Amend: keep the existing message
	AllowEmpty bool
	Author     string // "Name <email>" to override the author
	Date       string // author date override
}

// Commit creates (or amends) a commit.
func (s *GitService) Commit(ctx context.Context, opts CommitOptions) error {
	args := []string{"commit"}
	if opts.Amend {
		args = append(args, "--amend")
	}
	if opts.NoEdit {
		args = append(args, "--no-edit")
	}
	if opts.AllowEmpty {
		args = append(args, "--allow-empty")
	}
	if opts.Author != "" {
		args = append(args, "--author", opts.Author)
	}
	if opts.Date != "" {
		args = append(args, "--date", opts.Date)
	}
	if opts.Message != "" {
		args = append(args, "-m", opts.Message)
	}

	logger.WithComponent("git").Debug("committing", "amend", opts.Amend, "allowEmpty", opts.AllowEmpty)

	_, err := s.run(ctx, args...)
	return err
}
