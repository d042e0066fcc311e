// Package git wraps the git subprocess surface used by the hunk commands.
// All state lives in the repository itself; the service holds only the
// executor and the repository path.
package git

import (
	"context"
	"fmt"
	"strings"

	surgexec "github.com/surgeonkit/surgeon/exec"
)

// GitService provides git operations with explicit dependency injection.
// Each instance holds its own executor, enabling proper testing and
// avoiding global state.
type GitService struct {
	executor surgexec.CommandExecutor
	dir      string
	binary   string
}

// NewGitService creates a GitService running git in dir with the real executor.
func NewGitService(dir string) *GitService {
	return &GitService{executor: surgexec.NewRealExecutor(), dir: dir, binary: "git"}
}

// NewGitServiceWithExecutor creates a GitService with a custom executor.
// This is primarily used for testing where a mock executor is needed.
func NewGitServiceWithExecutor(executor surgexec.CommandExecutor, dir string) *GitService {
	return &GitService{executor: executor, dir: dir, binary: "git"}
}

// SetBinary overrides the git executable name or path.
func (s *GitService) SetBinary(binary string) {
	if binary != "" {
		s.binary = binary
	}
}

// Dir returns the repository path the service operates on.
func (s *GitService) Dir() string {
	return s.dir
}

// Executor exposes the underlying executor so collaborators (the blame
// annotator) can share it.
func (s *GitService) Executor() surgexec.CommandExecutor {
	return s.executor
}

// run executes git and wraps failures with trimmed stderr text.
func (s *GitService) run(ctx context.Context, args ...string) ([]byte, error) {
	stdout, stderr, err := s.executor.Run(ctx, s.dir, s.binary, args...)
	if err != nil {
		return stdout, wrapGitError(args, stderr, err)
	}
	return stdout, nil
}

// runEnv is run with extra environment variables appended.
func (s *GitService) runEnv(ctx context.Context, env []string, args ...string) ([]byte, []byte, error) {
	stdout, stderr, err := s.executor.RunEnv(ctx, s.dir, env, s.binary, args...)
	if err != nil {
		return stdout, stderr, wrapGitError(args, stderr, err)
	}
	return stdout, stderr, nil
}

// outputTrimmed runs git and returns stdout with surrounding whitespace removed.
func (s *GitService) outputTrimmed(ctx context.Context, args ...string) (string, error) {
	out, err := s.run(ctx, args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func wrapGitError(args []string, stderr []byte, err error) error {
	msg := strings.TrimSpace(string(stderr))
	if msg == "" {
		return fmt.Errorf("git %s failed: %w", args[0], err)
	}
	return fmt.Errorf("git %s failed: %s - %w", args[0], msg, err)
}
