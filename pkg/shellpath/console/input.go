package console

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// InputOptions allows customization of the input behavior
type InputOptions struct {
	Prompt      string
	Regex       string
	RegexError  string // Custom error message for regex validation
	Default     string
	Placeholder string
	CharLimit   int
	Width       int
	Required    bool // If true, empty input is not allowed
	Secret      bool // Mask what is typed, for passwords
}

// DefaultInputOptions returns the default options
func DefaultInputOptions() InputOptions {
	return InputOptions{
		Prompt:     "Enter value:",
		CharLimit:  156,
		Width:      20,
		RegexError: "Input format is invalid",
	}
}

// Input asks for one line of text and returns it once it validates.
func Input(opts ...InputOptions) (string, error) {
	options := DefaultInputOptions()
	if len(opts) > 0 {
		options = opts[0]
	}

	m, err := run(initialInputModel(options))
	if err != nil {
		return "", err
	}

	final := m.(inputModel)
	if final.quitted {
		return "", ErrCancelled
	}
	return final.textInput.Value(), nil
}

type inputModel struct {
	textInput textinput.Model
	options   InputOptions
	regex     *regexp.Regexp
	quitted   bool
}

func initialInputModel(options InputOptions) inputModel {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = options.CharLimit
	ti.Width = options.Width
	ti.Prompt = ""
	ti.TextStyle = inputStyle
	ti.PlaceholderStyle = placeholderStyle

	if options.Secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	if options.Default != "" {
		ti.SetValue(options.Default)
	}
	if options.Placeholder != "" {
		ti.Placeholder = options.Placeholder
	}

	var re *regexp.Regexp
	if options.Regex != "" {
		re = regexp.MustCompile(options.Regex)
	}

	return inputModel{
		textInput: ti,
		options:   options,
		regex:     re,
	}
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) validateInput(input string) (bool, string) {
	if m.options.Required && strings.TrimSpace(input) == "" {
		return false, "Input is required"
	}
	if m.regex != nil && input != "" && !m.regex.MatchString(input) {
		return false, m.options.RegexError
	}
	return true, ""
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEnter:
			if valid, _ := m.validateInput(m.textInput.Value()); valid {
				return m, tea.Quit
			}
			return m, nil
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	var b strings.Builder

	b.WriteString(promptStyle.Render(m.options.Prompt))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	if valid, errMsg := m.validateInput(m.textInput.Value()); !valid && m.textInput.Value() != "" {
		b.WriteString(errorStyle.Render(errMsg))
		b.WriteString("\n")
	}

	b.WriteString(hintStyle.Render("(esc to cancel)"))
	b.WriteString("\n")
	return b.String()
}
