// Package surgeon implements the hunk-level commands: listing, staging,
// committing, undoing and history rewrites, all addressed by content-derived
// hunk ids. Every command re-derives the diff fresh at the point of use;
// no hunk state survives across invocations.
package surgeon

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/surgeonkit/surgeon/blame"
	"github.com/surgeonkit/surgeon/diff"
	"github.com/surgeonkit/surgeon/git"
)

const defaultPreviewLines = 4

// Surgeon orchestrates hunk commands against one repository.
type Surgeon struct {
	git          *git.GitService
	annotator    *blame.Annotator
	stdout       io.Writer
	stderr       io.Writer
	previewLines int

	// seqEditorFor builds the GIT_SEQUENCE_EDITOR command line that marks
	// the target commit "edit" during a split of a non-HEAD commit.
	seqEditorFor func(targetHash string) string
}

// Option configures a Surgeon.
type Option func(*Surgeon)

// WithOutput redirects listing output (default os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(s *Surgeon) { s.stdout = w }
}

// WithErrOutput redirects progress output (default os.Stderr).
func WithErrOutput(w io.Writer) Option {
	return func(s *Surgeon) { s.stderr = w }
}

// WithPreviewLines sets how many changed lines the hunk listing previews.
func WithPreviewLines(n int) Option {
	return func(s *Surgeon) {
		if n > 0 {
			s.previewLines = n
		}
	}
}

// WithAnnotator injects a blame annotator (tests use one backed by a mock
// executor).
func WithAnnotator(a *blame.Annotator) Option {
	return func(s *Surgeon) { s.annotator = a }
}

// WithSequenceEditor overrides how the split command builds the sequence
// editor command line for pausing a rebase at the target commit.
func WithSequenceEditor(f func(targetHash string) string) Option {
	return func(s *Surgeon) { s.seqEditorFor = f }
}

// New creates a Surgeon operating on the repository behind gitService.
func New(gitService *git.GitService, opts ...Option) *Surgeon {
	s := &Surgeon{
		git:          gitService,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
		previewLines: defaultPreviewLines,
	}
	s.seqEditorFor = func(targetHash string) string {
		exe, err := os.Executable()
		if err != nil {
			exe = "git-surgeon"
		}
		return fmt.Sprintf("%s sequence-edit %s", exe, targetHash)
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.annotator == nil {
		s.annotator = blame.NewAnnotator(gitService.Executor(), gitService.Dir())
	}
	return s
}

// loadHunks parses the requested diff and assigns ids. With commit set, the
// diff is the one that commit introduced; otherwise the working tree (or
// index when staged) diff, optionally limited to one file.
func (s *Surgeon) loadHunks(ctx context.Context, staged bool, commit, file string) ([]diff.Identified, error) {
	var (
		text string
		err  error
	)
	if commit != "" {
		text, err = s.git.DiffCommit(ctx, commit, file)
	} else {
		text, err = s.git.Diff(ctx, staged, file)
	}
	if err != nil {
		return nil, err
	}

	return diff.AssignIDs(diff.Parse(text)), nil
}

// findHunk resolves one id against a listing. The commit argument only
// shapes the error message.
func findHunk(identified []diff.Identified, id, commit string) (*diff.Hunk, error) {
	if h := diff.Find(identified, id); h != nil {
		return h, nil
	}
	if commit != "" {
		return nil, fmt.Errorf("hunk %s not found in commit %s", id, commit)
	}
	return nil, fmt.Errorf("hunk %s not found (re-run 'hunks')", id)
}
