package console

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ListSelectOptions allows customization of the list select behavior
type ListSelectOptions struct {
	Title string
	// Selected is the index the cursor starts on
	Selected int
}

// DefaultListSelectOptions returns the default options
func DefaultListSelectOptions() ListSelectOptions {
	return ListSelectOptions{
		Title: "Select an option:",
	}
}

// ListSelect shows items and returns the index of the chosen one.
func ListSelect(items []string, opts ...ListSelectOptions) (int, error) {
	if len(items) == 0 {
		return -1, errors.New("no items provided")
	}

	options := DefaultListSelectOptions()
	if len(opts) > 0 {
		options = opts[0]
	}

	m, err := run(initialListModel(items, options))
	if err != nil {
		return -1, err
	}

	final := m.(listModel)
	if final.quitted {
		return -1, ErrCancelled
	}
	return final.selected(), nil
}

// listModel scrolls a window of maxItems rows over items; cursor is the row
// inside that window.
type listModel struct {
	items    []string
	cursor   int
	offset   int
	maxItems int
	options  ListSelectOptions
	quitted  bool
}

func initialListModel(items []string, options ListSelectOptions) listModel {
	m := listModel{
		items:    items,
		options:  options,
		maxItems: len(items),
	}
	if options.Selected > 0 && options.Selected < len(items) {
		m.cursor = options.Selected
	}
	return m
}

func (m listModel) selected() int {
	return m.offset + m.cursor
}

func (m listModel) Init() tea.Cmd {
	return nil
}

func (m listModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		sel := m.selected()
		m.maxItems = max(1, min(len(m.items), msg.Height-4))
		m.offset = max(0, sel-m.maxItems+1)
		m.cursor = sel - m.offset
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitted = true
			return m, tea.Quit
		case "enter":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			} else if m.offset > 0 {
				m.offset--
			}
		case "down", "j":
			if m.cursor < m.maxItems-1 {
				m.cursor++
			} else if m.offset+m.maxItems < len(m.items) {
				m.offset++
			}
		}
	}
	return m, nil
}

func (m listModel) View() string {
	var b strings.Builder

	b.WriteString(promptStyle.Render(m.options.Title))
	b.WriteString("\n\n")

	for i, item := range m.items[m.offset : m.offset+m.maxItems] {
		if i == m.cursor {
			b.WriteString(selectedItemStyle.Render("▸ " + item))
		} else {
			b.WriteString(itemStyle.Render("  " + item))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(hintStyle.Render("↑/↓ to move • enter to select • esc to cancel"))
	return b.String()
}
