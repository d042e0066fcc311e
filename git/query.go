package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// RevParse resolves a revision to its full hash.
func (s *GitService) RevParse(ctx context.Context, rev string) (string, error) {
	out, err := s.outputTrimmed(ctx, "rev-parse", "--verify", rev+"^{commit}")
	if err != nil {
		return "", fmt.Errorf("cannot resolve %s: %w", rev, err)
	}
	return out, nil
}

// ShortHash resolves a revision to its abbreviated hash.
func (s *GitService) ShortHash(ctx context.Context, rev string) (string, error) {
	return s.outputTrimmed(ctx, "rev-parse", "--short", rev)
}

// Subject returns the first line of a commit's message.
func (s *GitService) Subject(ctx context.Context, rev string) (string, error) {
	return s.outputTrimmed(ctx, "log", "-1", "--format=%s", rev)
}

// Message returns a commit's full message.
func (s *GitService) Message(ctx context.Context, rev string) (string, error) {
	return s.outputTrimmed(ctx, "log", "-1", "--format=%B", rev)
}

// Author holds the author identity of a commit.
type Author struct {
	Name  string
	Email string
	Date  string
}

// Ident formats the author as "Name <email>" for --author.
func (a Author) Ident() string {
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

// CommitAuthor returns the author identity and date of a commit.
func (s *GitService) CommitAuthor(ctx context.Context, rev string) (Author, error) {
	out, err := s.outputTrimmed(ctx, "log", "-1", "--format=%an%n%ae%n%aD", rev)
	if err != nil {
		return Author{}, err
	}
	parts := strings.SplitN(out, "\n", 3)
	if len(parts) != 3 {
		return Author{}, fmt.Errorf("unexpected author format for %s: %q", rev, out)
	}
	return Author{Name: parts[0], Email: parts[1], Date: parts[2]}, nil
}

// IsAncestor reports whether ancestor is reachable from descendant.
func (s *GitService) IsAncestor(ctx context.Context, ancestor, descendant string) (bool, error) {
	_, _, err := s.executor.Run(ctx, s.dir, s.binary, "merge-base", "--is-ancestor", ancestor, descendant)
	if err != nil {
		// Exit status 1 means "not an ancestor"; other failures are still
		// reported as false since the distinction never changes the outcome
		// the caller refuses with.
		return false, nil
	}
	return true, nil
}

// Distance counts commits in from..to.
func (s *GitService) Distance(ctx context.Context, from, to string) (int, error) {
	out, err := s.outputTrimmed(ctx, "rev-list", "--count", from+".."+to)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(out)
	if err != nil {
		return 0, fmt.Errorf("unexpected rev-list output %q: %w", out, err)
	}
	return n, nil
}

// MergeCount counts merge commits in from..to, inclusive of from itself.
func (s *GitService) MergeCount(ctx context.Context, from, to string) (int, error) {
	out, err := s.outputTrimmed(ctx, "rev-list", "--count", "--merges", from+"^.."+to)
	if err != nil {
		// A root commit has no parent to anchor the range; fall back to the
		// exclusive range.
		out, err = s.outputTrimmed(ctx, "rev-list", "--count", "--merges", from+".."+to)
		if err != nil {
			return 0, err
		}
	}
	n, convErr := strconv.Atoi(out)
	if convErr != nil {
		return 0, fmt.Errorf("unexpected rev-list output %q: %w", out, convErr)
	}
	return n, nil
}

// HasParent reports whether a commit has at least one parent.
func (s *GitService) HasParent(ctx context.Context, rev string) bool {
	_, _, err := s.executor.Run(ctx, s.dir, s.binary, "rev-parse", "--verify", "--quiet", rev+"^^{commit}")
	return err == nil
}

// IsSameCommit reports whether two revisions resolve to the same commit.
func (s *GitService) IsSameCommit(ctx context.Context, a, b string) (bool, error) {
	ha, err := s.RevParse(ctx, a)
	if err != nil {
		return false, err
	}
	hb, err := s.RevParse(ctx, b)
	if err != nil {
		return false, err
	}
	return ha == hb, nil
}
