package git

import (
	"context"

	"github.com/surgeonkit/surgeon/logger"
)

// ResetSoft moves HEAD to rev, leaving index and working tree untouched.
func (s *GitService) ResetSoft(ctx context.Context, rev string) error {
	logger.WithComponent("git").Debug("soft reset", "rev", rev)
	_, err := s.run(ctx, "reset", "--soft", rev)
	return err
}

// ResetMixed moves HEAD to rev and resets the index, leaving the working
// tree untouched.
func (s *GitService) ResetMixed(ctx context.Context, rev string) error {
	logger.WithComponent("git").Debug("mixed reset", "rev", rev)
	_, err := s.run(ctx, "reset", rev)
	return err
}

// DeleteHeadRef deletes the HEAD ref, making the branch unborn while keeping
// the index and working tree. Used when rewriting history down to the root
// commit, which has no parent to reset to.
func (s *GitService) DeleteHeadRef(ctx context.Context) error {
	logger.WithComponent("git").Debug("deleting HEAD ref")
	_, err := s.run(ctx, "update-ref", "-d", "HEAD")
	return err
}
