package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/surgeonkit/surgeon/logger"
)

// ApplyMode selects the target and direction of a patch application.
type ApplyMode int

const (
	// ApplyStage applies the patch to the index (git apply --cached).
	ApplyStage ApplyMode = iota
	// ApplyUnstage reverse-applies the patch to the index.
	ApplyUnstage
	// ApplyDiscard reverse-applies the patch to the working tree.
	ApplyDiscard
)

func (m ApplyMode) args() []string {
	switch m {
	case ApplyStage:
		return []string{"--cached"}
	case ApplyUnstage:
		return []string{"--cached", "--reverse"}
	default:
		return []string{"--reverse"}
	}
}

// String returns the mode name used in logs.
func (m ApplyMode) String() string {
	switch m {
	case ApplyStage:
		return "stage"
	case ApplyUnstage:
		return "unstage"
	default:
		return "discard"
	}
}

// Apply pipes a patch to git apply. The whole patch applies atomically: git
// apply verifies every hunk before touching anything, so a combined patch
// either lands completely or not at all.
func (s *GitService) Apply(ctx context.Context, patch string, mode ApplyMode) error {
	logger.WithComponent("git").Debug("applying patch", "mode", mode.String(), "bytes", len(patch))

	args := append([]string{"apply"}, mode.args()...)
	_, stderr, err := s.executor.RunInput(ctx, s.dir, []byte(patch), s.binary, args...)
	if err != nil {
		return fmt.Errorf("git apply failed: %s - %w", strings.TrimSpace(string(stderr)), err)
	}
	return nil
}
