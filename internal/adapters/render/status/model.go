package status

import (
	"errors"
	"io"

	"github.com/bnema/tracker-accounts-cli/internal/application"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var ErrIncompleteRender = errors.New("status render stopped before all sections were built")

type section int

const (
	sectionHeader section = iota
	sectionActive
	sectionOthers
	sectionCount
)

type sectionRenderedMsg struct {
	section section
	body    string
}

// model builds the status screen one section at a time. Empty sections are
// skipped; the program quits once the last section has landed.
type model struct {
	status application.Status
	opts   RenderOptions
	styles styles
	blocks []string
	done   bool
}

func newModel(status application.Status, opts RenderOptions) model {
	return model{
		status: status,
		opts:   opts,
		styles: newStyles(),
	}
}

func (m model) Init() tea.Cmd {
	return m.build(sectionHeader)
}

func (m model) build(sec section) tea.Cmd {
	status, opts, s := m.status, m.opts, m.styles
	return func() tea.Msg {
		return sectionRenderedMsg{section: sec, body: renderSection(sec, status, opts, s)}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	rendered, ok := msg.(sectionRenderedMsg)
	if !ok {
		return m, nil
	}

	if rendered.body != "" {
		m.blocks = append(m.blocks, rendered.body)
	}
	next := rendered.section + 1
	if next >= sectionCount || accountCount(m.status) == 0 {
		m.done = true
		return m, tea.Quit
	}
	return m, m.build(next)
}

func (m model) View() string {
	if !m.done {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.blocks...)
}

// Render runs the model headless and returns the finished screen.
func Render(status application.Status, opts RenderOptions) (string, error) {
	final, err := tea.NewProgram(
		newModel(status, opts),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	).Run()
	if err != nil {
		return "", err
	}

	m, ok := final.(model)
	if !ok || !m.done {
		return "", ErrIncompleteRender
	}
	return m.View(), nil
}
