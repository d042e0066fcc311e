// Package prereq verifies the external tools git-surgeon depends on
// before any command runs.
package prereq

import (
	"fmt"
	"os/exec"
	"strings"
)

// Prerequisite represents a required external tool.
type Prerequisite struct {
	Name        string // command name or path (e.g. "git")
	Required    bool
	Description string
	InstallURL  string
}

// ForGit returns the prerequisites for the given git binary. The binary
// name comes from config so a git_binary override is what gets checked.
func ForGit(gitBinary string) []Prerequisite {
	return []Prerequisite{
		{
			Name:        gitBinary,
			Required:    true,
			Description: "Git version control",
			InstallURL:  "https://git-scm.com/downloads",
		},
	}
}

// CheckResult contains the result of checking a prerequisite.
type CheckResult struct {
	Prerequisite Prerequisite
	Found        bool
	Path         string
	Version      string
	Error        error
}

// Check verifies that a tool is available in PATH (or at an explicit path).
func Check(prereq Prerequisite) CheckResult {
	result := CheckResult{Prerequisite: prereq}

	path, err := exec.LookPath(prereq.Name)
	if err != nil {
		result.Error = fmt.Errorf("%s not found in PATH", prereq.Name)
		return result
	}

	result.Found = true
	result.Path = path
	result.Version = getVersion(path)
	return result
}

// ValidateRequired checks that all required prerequisites are met.
// Returns nil when everything required is found, otherwise an error
// describing what is missing and where to get it.
func ValidateRequired(prereqs []Prerequisite) error {
	var missing []string

	for _, prereq := range prereqs {
		if !prereq.Required {
			continue
		}
		result := Check(prereq)
		if !result.Found {
			missing = append(missing, fmt.Sprintf("  - %s (%s)\n    Install: %s",
				prereq.Name, prereq.Description, prereq.InstallURL))
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required tools:\n%s", strings.Join(missing, "\n"))
	}
	return nil
}

// getVersion runs `<tool> --version` and returns the first output line.
func getVersion(path string) string {
	output, err := exec.Command(path, "--version").Output()
	if err != nil {
		return ""
	}
	line, _, _ := strings.Cut(string(output), "\n")
	version := strings.TrimSpace(line)
	if len(version) > 100 {
		version = version[:100] + "..."
	}
	return version
}
