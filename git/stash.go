package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/surgeonkit/surgeon/logger"
)

// StashMarker tags a stash entry so it can be found and popped later even if
// other stashes were pushed in between.
type StashMarker string

// NewStashMarker returns a unique marker message.
func NewStashMarker(operation string) StashMarker {
	return StashMarker(fmt.Sprintf("git-surgeon %s %s", operation, uuid.NewString()))
}

// StashPush stashes tracked modifications under the marker message. Returns
// false when there was nothing to stash.
func (s *GitService) StashPush(ctx context.Context, marker StashMarker) (bool, error) {
	out, err := s.run(ctx, "stash", "push", "-m", string(marker))
	if err != nil {
		return false, err
	}
	if strings.Contains(string(out), "No local changes") {
		return false, nil
	}
	logger.WithComponent("git").Debug("stashed changes", "marker", string(marker))
	return true, nil
}

// StashPop locates the stash entry carrying the marker and pops it. Returns
// an error if the entry is missing or the pop conflicts; the entry is kept
// by git in that case.
func (s *GitService) StashPop(ctx context.Context, marker StashMarker) error {
	out, err := s.outputTrimmed(ctx, "stash", "list", "--format=%gd %s")
	if err != nil {
		return err
	}

	ref := ""
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, string(marker)) {
			ref = strings.Fields(line)[0]
			break
		}
	}
	if ref == "" {
		return fmt.Errorf("stash entry %q not found", string(marker))
	}

	_, err = s.run(ctx, "stash", "pop", ref)
	return err
}
