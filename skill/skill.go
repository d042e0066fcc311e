// Package skill installs the bundled git-surgeon skill description into
// the skill directories of AI coding assistants.
package skill

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

//go:embed SKILL.md
var skillContent string

// Platform identifies an assistant that can consume the skill.
type Platform int

const (
	Claude Platform = iota
	OpenCode
	Codex
)

// Name returns the human-readable platform name.
func (p Platform) Name() string {
	switch p {
	case Claude:
		return "Claude Code"
	case OpenCode:
		return "OpenCode"
	case Codex:
		return "Codex"
	}
	return "unknown"
}

// dir returns the platform's skill directory under home.
func (p Platform) dir(home string) string {
	switch p {
	case Claude:
		return filepath.Join(home, ".claude", "skills", "git-surgeon")
	case OpenCode:
		return filepath.Join(home, ".config", "opencode", "skills", "git-surgeon")
	case Codex:
		return filepath.Join(home, ".codex", "skills", "git-surgeon")
	}
	return ""
}

// Install writes SKILL.md into each platform's skill directory, reporting
// each install on out.
func Install(platforms []Platform, out io.Writer) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	return installTo(home, platforms, out)
}

func installTo(home string, platforms []Platform, out io.Writer) error {
	if len(platforms) == 0 {
		return errors.New("at least one platform flag is required (--claude, --opencode, --codex)")
	}

	for _, platform := range platforms {
		dir := platform.dir(home)
		if dir == "" {
			return fmt.Errorf("unknown platform %d", platform)
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
		path := filepath.Join(dir, "SKILL.md")
		if err := os.WriteFile(path, []byte(skillContent), 0644); err != nil {
			return err
		}
		fmt.Fprintf(out, "installed %s skill to %s\n", platform.Name(), path)
	}
	return nil
}
