package git

import (
	"context"
)

// diffFormatArgs pin the diff output to the exact shape the parser expects,
// regardless of user diff configuration (external diff drivers, mnemonic
// prefixes, color).
var diffFormatArgs = []string{
	"--no-color",
	"--no-ext-diff",
	"--src-prefix=a/",
	"--dst-prefix=b/",
}

// Diff returns the unified diff of the working tree (or the index when
// staged is set), optionally limited to one file.
func (s *GitService) Diff(ctx context.Context, staged bool, file string) (string, error) {
	args := append([]string{"diff"}, diffFormatArgs...)
	if staged {
		args = append(args, "--cached")
	}
	if file != "" {
		args = append(args, "--", file)
	}
	out, err := s.run(ctx, args...)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// DiffCommit returns the unified diff introduced by a commit, optionally
// limited to one file.
func (s *GitService) DiffCommit(ctx context.Context, commit, file string) (string, error) {
	args := append([]string{"show", "--pretty="}, diffFormatArgs...)
	args = append(args, commit)
	if file != "" {
		args = append(args, "--", file)
	}
	out, err := s.run(ctx, args...)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
