package console

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// YesNoOptions allows customization of the yes/no input behavior
type YesNoOptions struct {
	Prompt     string
	DefaultYes bool   // If true, "Yes" is pre-selected
	YesText    string // Custom text for "Yes" option
	NoText     string // Custom text for "No" option
}

// DefaultYesNoOptions returns the default options
func DefaultYesNoOptions() YesNoOptions {
	return YesNoOptions{
		Prompt:     "Confirm?",
		DefaultYes: true,
		YesText:    "Yes",
		NoText:     "No",
	}
}

// YesNo displays a yes/no prompt and returns the user's choice
func YesNo(opts ...YesNoOptions) (bool, error) {
	options := DefaultYesNoOptions()
	if len(opts) > 0 {
		options = opts[0]
	}

	m, err := run(yesNoModel{options: options, yes: options.DefaultYes})
	if err != nil {
		return false, err
	}

	final := m.(yesNoModel)
	if final.quitted {
		return false, ErrCancelled
	}
	return final.yes, nil
}

type yesNoModel struct {
	options YesNoOptions
	yes     bool
	quitted bool
}

func (m yesNoModel) Init() tea.Cmd {
	return nil
}

func (m yesNoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "left", "right", "h", "l", "tab":
			m.yes = !m.yes
		case "y":
			m.yes = true
			return m, tea.Quit
		case "n":
			m.yes = false
			return m, tea.Quit
		case "enter":
			return m, tea.Quit
		case "ctrl+c", "esc":
			m.quitted = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m yesNoModel) View() string {
	var b strings.Builder

	b.WriteString(promptStyle.Render(m.options.Prompt))
	b.WriteString("\n\n")

	yesStyle, noStyle := unselectedStyle, selectedItemStyle
	if m.yes {
		yesStyle, noStyle = selectedItemStyle, unselectedStyle
	}
	b.WriteString(yesStyle.Render(m.options.YesText))
	b.WriteString("  ")
	b.WriteString(noStyle.Render(m.options.NoText))
	b.WriteString("\n\n")

	b.WriteString(hintStyle.Render("(←/→ to move, y/n, enter to select, esc to cancel)"))
	b.WriteString("\n")
	return b.String()
}
