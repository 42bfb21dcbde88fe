// Package console holds the interactive prompts of the command line tool.
// Every prompt renders on stderr so that stdout stays usable in pipes.
package console

import (
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	constants "github.com/ImGajeed76/shellpath/internal"
)

// ErrCancelled is returned when the user leaves a prompt with esc or ctrl+c.
var ErrCancelled = errors.New("input cancelled")

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(constants.Theme.PrimaryColor)).
			Bold(true)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(constants.Theme.PrimaryColor))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(constants.Theme.ErrorColor)).
			Italic(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(constants.Theme.TertiaryColor)).
			Italic(true)

	placeholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(constants.Theme.TertiaryColor))

	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(constants.Theme.SecondaryColor))

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(constants.Theme.PrimaryColor)).
				Bold(true)

	unselectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(constants.Theme.TertiaryColor))
)

func run(model tea.Model) (tea.Model, error) {
	return tea.NewProgram(model, tea.WithOutput(os.Stderr)).Run()
}
