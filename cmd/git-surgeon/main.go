// git-surgeon is a non-interactive CLI for hunk-level git operations,
// built for automated callers: every changed region gets a content-derived
// id, and all commands address hunks by id instead of prompting.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/surgeonkit/surgeon/config"
	"github.com/surgeonkit/surgeon/git"
	"github.com/surgeonkit/surgeon/logger"
	"github.com/surgeonkit/surgeon/patch"
	"github.com/surgeonkit/surgeon/prereq"
	"github.com/surgeonkit/surgeon/skill"
	"github.com/surgeonkit/surgeon/surgeon"
)

var cfg = config.Default()

func main() {
	defer logger.Close()

	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "git-surgeon",
		Usage: "Non-interactive hunk-level git staging for automated callers",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			cfg = loaded

			if path, err := logger.DefaultLogPath(); err == nil {
				_ = logger.Init(path)
			}
			logger.SetDebug(cfg.Debug || c.Bool("debug"))
			return nil
		},
		Commands: []*cli.Command{
			hunksCommand(),
			showCommand(),
			applyCommand("stage", "Stage hunks by ID", (*surgeon.Surgeon).Stage),
			applyCommand("unstage", "Unstage hunks by ID", (*surgeon.Surgeon).Unstage),
			applyCommand("discard", "Discard working tree changes for hunks", (*surgeon.Surgeon).Discard),
			commitCommand(),
			undoCommand(),
			undoFileCommand(),
			fixupCommand(),
			rewordCommand(),
			squashCommand(),
			splitCommand(),
			installSkillCommand(),
			sequenceEditCommand(),
		},
	}
}

// newSurgeon builds a Surgeon for the current directory, checking that
// the configured git binary exists first.
func newSurgeon() (*surgeon.Surgeon, error) {
	if err := prereq.ValidateRequired(prereq.ForGit(cfg.GitBinary)); err != nil {
		return nil, err
	}

	dir, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	gitService := git.NewGitService(dir)
	gitService.SetBinary(cfg.GitBinary)
	return surgeon.New(gitService, surgeon.WithPreviewLines(cfg.PreviewLines)), nil
}

func hunksCommand() *cli.Command {
	return &cli.Command{
		Name:  "hunks",
		Usage: "List hunks in the diff",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "staged", Usage: "show staged hunks (git diff --cached)"},
			&cli.StringFlag{Name: "file", Usage: "filter to a specific file"},
			&cli.StringFlag{Name: "commit", Usage: "show hunks from a specific commit"},
			&cli.BoolFlag{Name: "full", Usage: "show full diff with line numbers"},
			&cli.BoolFlag{Name: "blame", Usage: "show git blame information for each line"},
		},
		Action: func(c *cli.Context) error {
			s, err := newSurgeon()
			if err != nil {
				return err
			}
			return s.Hunks(c.Context, surgeon.ListOptions{
				Staged: c.Bool("staged"),
				File:   c.String("file"),
				Commit: c.String("commit"),
				Full:   c.Bool("full"),
				Blame:  c.Bool("blame"),
			})
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show full diff for a specific hunk",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "commit", Usage: "look up hunk in a specific commit"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("show requires exactly one hunk ID")
			}
			s, err := newSurgeon()
			if err != nil {
				return err
			}
			return s.Show(c.Context, c.Args().First(), c.String("commit"))
		},
	}
}

// applyCommand builds stage, unstage and discard, which share their whole
// surface: hunk IDs plus an optional --lines range.
func applyCommand(name, usage string, run func(*surgeon.Surgeon, context.Context, []string, *patch.Range) error) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "<id>...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "lines", Usage: "hunk-relative line range (e.g. 5-30) to apply only part of a hunk"},
		},
		Action: func(c *cli.Context) error {
			lines, err := linesFlag(c)
			if err != nil {
				return err
			}
			s, err := newSurgeon()
			if err != nil {
				return err
			}
			return run(s, c.Context, c.Args().Slice(), lines)
		},
	}
}

func commitCommand() *cli.Command {
	return &cli.Command{
		Name:      "commit",
		Usage:     "Stage hunks and commit in one step",
		ArgsUsage: "<id[:START-END,...]>...",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:     "message",
				Aliases:  []string{"m"},
				Usage:    "commit message (multiple -m values are joined by blank lines)",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			picks := make([]surgeon.Pick, 0, c.NArg())
			for _, arg := range c.Args().Slice() {
				pick, err := parsePickID(arg)
				if err != nil {
					return err
				}
				picks = append(picks, pick)
			}
			s, err := newSurgeon()
			if err != nil {
				return err
			}
			return s.Commit(c.Context, picks, joinMessages(c.StringSlice("message")))
		},
	}
}

func undoCommand() *cli.Command {
	return &cli.Command{
		Name:      "undo",
		Usage:     "Undo hunks from a commit, reverse-applying them to the working tree",
		ArgsUsage: "<id>...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from", Usage: "commit to undo hunks from", Required: true},
			&cli.StringFlag{Name: "lines", Usage: "hunk-relative line range (e.g. 5-30) to apply only part of a hunk"},
		},
		Action: func(c *cli.Context) error {
			lines, err := linesFlag(c)
			if err != nil {
				return err
			}
			s, err := newSurgeon()
			if err != nil {
				return err
			}
			return s.Undo(c.Context, c.Args().Slice(), c.String("from"), lines)
		},
	}
}

func undoFileCommand() *cli.Command {
	return &cli.Command{
		Name:      "undo-file",
		Usage:     "Undo all changes to specific files from a commit",
		ArgsUsage: "<file>...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "from", Usage: "commit to undo files from", Required: true},
		},
		Action: func(c *cli.Context) error {
			s, err := newSurgeon()
			if err != nil {
				return err
			}
			return s.UndoFiles(c.Context, c.Args().Slice(), c.String("from"))
		},
	}
}

func fixupCommand() *cli.Command {
	return &cli.Command{
		Name:      "fixup",
		Usage:     "Fixup an earlier commit with currently staged changes",
		ArgsUsage: "<commit>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("fixup requires exactly one commit")
			}
			s, err := newSurgeon()
			if err != nil {
				return err
			}
			return s.Fixup(c.Context, c.Args().First())
		},
	}
}

func rewordCommand() *cli.Command {
	return &cli.Command{
		Name:      "reword",
		Usage:     "Change the commit message of an existing commit",
		ArgsUsage: "<commit>",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:     "message",
				Aliases:  []string{"m"},
				Usage:    "new commit message (multiple -m values are joined by blank lines)",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("reword requires exactly one commit")
			}
			s, err := newSurgeon()
			if err != nil {
				return err
			}
			return s.Reword(c.Context, c.Args().First(), joinMessages(c.StringSlice("message")))
		},
	}
}

func squashCommand() *cli.Command {
	return &cli.Command{
		Name:      "squash",
		Usage:     "Squash commits from <commit>..HEAD into a single commit",
		ArgsUsage: "<commit>",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:     "message",
				Aliases:  []string{"m"},
				Usage:    "commit message (multiple -m values are joined by blank lines)",
				Required: true,
			},
			&cli.BoolFlag{Name: "force", Usage: "squash even if the range contains merge commits (they are flattened)"},
			&cli.BoolFlag{Name: "no-preserve-author", Usage: "use the current user instead of the oldest commit's author"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("squash requires exactly one commit")
			}
			s, err := newSurgeon()
			if err != nil {
				return err
			}
			return s.Squash(c.Context, c.Args().First(), surgeon.SquashOptions{
				Message:        joinMessages(c.StringSlice("message")),
				Force:          c.Bool("force"),
				PreserveAuthor: !c.Bool("no-preserve-author"),
			})
		},
	}
}

func splitCommand() *cli.Command {
	return &cli.Command{
		Name:      "split",
		Usage:     "Split a commit into multiple commits by hunk selection",
		ArgsUsage: "<commit> --pick <ids...> -m <msg> [--pick ... -m ...] [--rest-message <msg>]",
		// The pick grammar repeats flags and interleaves them with IDs,
		// which flag parsing can't express; the args are taken raw.
		SkipFlagParsing: true,
		Action: func(c *cli.Context) error {
			args := c.Args().Slice()
			if len(args) == 0 {
				return fmt.Errorf("split requires a commit")
			}
			groups, restMessage, err := parseSplitArgs(args[1:])
			if err != nil {
				return err
			}
			s, err := newSurgeon()
			if err != nil {
				return err
			}
			return s.Split(c.Context, args[0], groups, restMessage)
		},
	}
}

func installSkillCommand() *cli.Command {
	return &cli.Command{
		Name:  "install-skill",
		Usage: "Install the git-surgeon skill for AI coding assistants",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "claude", Usage: "install for Claude Code (~/.claude/skills/)"},
			&cli.BoolFlag{Name: "opencode", Usage: "install for OpenCode (~/.config/opencode/skills/)"},
			&cli.BoolFlag{Name: "codex", Usage: "install for Codex (~/.codex/skills/)"},
		},
		Action: func(c *cli.Context) error {
			var platforms []skill.Platform
			if c.Bool("claude") {
				platforms = append(platforms, skill.Claude)
			}
			if c.Bool("opencode") {
				platforms = append(platforms, skill.OpenCode)
			}
			if c.Bool("codex") {
				platforms = append(platforms, skill.Codex)
			}
			return skill.Install(platforms, os.Stdout)
		},
	}
}

// sequenceEditCommand is the rebase todo editor the split command sets as
// GIT_SEQUENCE_EDITOR. git invokes it as
//
//	git-surgeon sequence-edit <target-hash> <todo-file>
//
// and it rewrites the todo so the target commit's step reads "edit".
func sequenceEditCommand() *cli.Command {
	return &cli.Command{
		Name:      "sequence-edit",
		Hidden:    true,
		ArgsUsage: "<target-hash> <todo-file>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return fmt.Errorf("sequence-edit requires a target hash and a todo file")
			}
			target := c.Args().Get(0)
			path := c.Args().Get(1)

			todo, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			marked, err := git.MarkTodoEdit(string(todo), target)
			if err != nil {
				return err
			}
			return os.WriteFile(path, []byte(marked), 0644)
		},
	}
}

// linesFlag parses the --lines flag when present.
func linesFlag(c *cli.Context) (*patch.Range, error) {
	raw := c.String("lines")
	if raw == "" {
		return nil, nil
	}
	r, err := parseLineRange(raw)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// joinMessages combines repeated -m values like git commit does.
func joinMessages(parts []string) string {
	return strings.Join(parts, "\n\n")
}
