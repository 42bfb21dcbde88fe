package console

import (
	"log"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	constants "github.com/ImGajeed76/shellpath/internal"
)

const (
	padding  = 2
	maxWidth = 80
)

type ProgressOptions struct {
	GradientColors [2]string
	Width          int
	Padding        int
	// Label is shown above the bar
	Label string
}

func DefaultProgressOptions() ProgressOptions {
	return ProgressOptions{
		GradientColors: constants.Theme.ProgressGradient,
		Width:          maxWidth,
		Padding:        padding,
	}
}

// ProgressBar drives a bar running in its own program. Update may be called
// from any goroutine; calls after Close or Finish are dropped.
type ProgressBar struct {
	Update func(total, count int64)
	Close  func()
	Finish func()
}

type progressMsg struct {
	total int64
	count int64
}

type progressModel struct {
	progress progress.Model
	options  ProgressOptions
	percent  float64
	updateCh chan progressMsg
	closeCh  chan struct{}
}

func newProgressModel(options ProgressOptions) *progressModel {
	return &progressModel{
		progress: progress.New(
			progress.WithGradient(options.GradientColors[0], options.GradientColors[1]),
			progress.WithWidth(options.Width),
		),
		options:  options,
		updateCh: make(chan progressMsg),
		closeCh:  make(chan struct{}),
	}
}

func (m *progressModel) Init() tea.Cmd {
	return m.next
}

// next waits for the following update, or quits once the bar is closed.
func (m *progressModel) next() tea.Msg {
	select {
	case msg := <-m.updateCh:
		return msg
	case <-m.closeCh:
		return tea.Quit()
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.progress.Width = min(msg.Width-m.options.Padding*2-4, m.options.Width)
		return m, nil

	case progressMsg:
		m.percent = 0
		if msg.total > 0 {
			m.percent = min(1, float64(msg.count)/float64(msg.total))
		}
		return m, tea.Batch(m.progress.SetPercent(m.percent), m.next)

	case progress.FrameMsg:
		model, cmd := m.progress.Update(msg)
		m.progress = model.(progress.Model)
		return m, cmd

	default:
		return m, nil
	}
}

func (m *progressModel) View() string {
	pad := strings.Repeat(" ", m.options.Padding)
	var b strings.Builder
	b.WriteString("\n")
	if m.options.Label != "" {
		b.WriteString(pad + promptStyle.Render(m.options.Label) + "\n")
	}
	b.WriteString(pad + m.progress.View() + "\n\n")
	return b.String()
}

func NewProgressBar(opts ...ProgressOptions) *ProgressBar {
	options := DefaultProgressOptions()
	if len(opts) > 0 {
		options = opts[0]
	}

	m := newProgressModel(options)
	var (
		wg        sync.WaitGroup
		closeOnce sync.Once
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := run(m); err != nil {
			log.Printf("error running progress bar: %v", err)
			closeOnce.Do(func() { close(m.closeCh) })
		}
	}()

	send := func(msg progressMsg) {
		select {
		case <-m.closeCh:
		case m.updateCh <- msg:
		}
	}
	stop := func() {
		closeOnce.Do(func() { close(m.closeCh) })
		wg.Wait()
	}

	return &ProgressBar{
		Update: func(total, count int64) { send(progressMsg{total: total, count: count}) },
		Close:  stop,
		Finish: func() {
			send(progressMsg{total: 1, count: 1})
			stop()
		},
	}
}
