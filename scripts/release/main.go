// Command release bumps the version in pkg/constants.go, commits it and
// tags the commit.
//
//	go run ./scripts/release 1.2.0
package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"

	constants "github.com/ImGajeed76/shellpath/internal"
	"github.com/ImGajeed76/shellpath/pkg/shellpath/console"
)

const versionFile = "pkg/constants.go"

var (
	semver    = regexp.MustCompile(`^v\d+\.\d+\.\d+(-[a-zA-Z0-9.]+)?$`)
	versionRe = regexp.MustCompile(`(?m)^var Version = "[^"]*"$`)

	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(constants.Theme.PrimaryColor))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(constants.Theme.SecondaryColor)).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(constants.Theme.ErrorColor))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(constants.Theme.TertiaryColor))
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	if err := release(os.Args[1]); err != nil {
		fmt.Println(errorStyle.Render(err.Error()))
		os.Exit(1)
	}
}

func release(arg string) error {
	version, err := normalizeVersion(arg)
	if err != nil {
		return err
	}

	fmt.Println(stepStyle.Render(fmt.Sprintf("Releasing %s: update %s, commit, tag %s", version, versionFile, version)))
	if ok, err := console.YesNo(console.YesNoOptions{Prompt: "Continue?", YesText: "Yes", NoText: "No"}); err != nil || !ok {
		fmt.Println(hintStyle.Render("Aborted"))
		return nil
	}

	if hasUncommittedChanges() {
		return errors.New("you have uncommitted changes, commit or stash them first")
	}

	src, err := os.ReadFile(versionFile)
	if err != nil {
		return err
	}
	updated, err := rewriteVersion(string(src), strings.TrimPrefix(version, "v"))
	if err != nil {
		return err
	}
	if err := os.WriteFile(versionFile, []byte(updated), 0644); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ Updated " + versionFile))

	if err := runCommand("git", "add", versionFile); err != nil {
		return err
	}
	if err := runCommand("git", "commit", "-m", "chore: bump version to "+version); err != nil {
		return err
	}
	if err := runCommand("git", "tag", "-a", version, "-m", "Release "+version); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ Committed and tagged " + version))

	if ok, err := console.YesNo(console.YesNoOptions{Prompt: "Push to remote?", YesText: "Push", NoText: "Later"}); err != nil || !ok {
		fmt.Println(hintStyle.Render("Skipped push. Run:\n  git push origin HEAD\n  git push origin " + version))
		return nil
	}
	if err := runCommand("git", "push", "origin", "HEAD"); err != nil {
		return err
	}
	if err := runCommand("git", "push", "origin", version); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("✓ Released " + version))
	return nil
}

func printUsage() {
	fmt.Println("Usage: go run ./scripts/release <version>")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  go run ./scripts/release 1.0.0")
	fmt.Println("  go run ./scripts/release v2.1.3-beta.1")
}

// normalizeVersion adds the v prefix and checks the result is semver.
func normalizeVersion(arg string) (string, error) {
	version := arg
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	if !semver.MatchString(version) {
		return "", fmt.Errorf("invalid version %q, use 1.0.0 or v1.0.0", arg)
	}
	return version, nil
}

// rewriteVersion replaces the Version assignment in src.
func rewriteVersion(src, version string) (string, error) {
	if !versionRe.MatchString(src) {
		return "", fmt.Errorf("no Version variable in %s", versionFile)
	}
	return versionRe.ReplaceAllLiteralString(src, fmt.Sprintf("var Version = %q", version)), nil
}

func hasUncommittedChanges() bool {
	output, err := exec.Command("git", "status", "--porcelain").Output()
	if err != nil {
		return false
	}
	return len(strings.TrimSpace(string(output))) > 0
}

func runCommand(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
