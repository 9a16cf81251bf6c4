package status

import (
	"testing"

	"github.com/bnema/tracker-accounts-cli/internal/application"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, m model) (model, []section) {
	t.Helper()

	var order []section
	cmd := m.Init()
	for cmd != nil {
		msg := cmd()
		if rendered, ok := msg.(sectionRenderedMsg); ok {
			order = append(order, rendered.section)
		}
		next, nextCmd := m.Update(msg)
		m = next.(model)
		cmd = nextCmd
		if _, quit := msg.(tea.QuitMsg); quit {
			break
		}
	}
	return m, order
}

func TestModelBuildsSectionsInOrder(t *testing.T) {
	status := application.Status{
		Active: &application.AccountSummary{CreationTimestamp: 100, BackendURL: "https://a.example"},
		Others: []application.AccountSummary{{CreationTimestamp: 50, BackendURL: "https://b.example"}},
	}

	m, order := drain(t, newModel(status, RenderOptions{Now: renderNow}))

	require.True(t, m.done)
	assert.Equal(t, []section{sectionHeader, sectionActive, sectionOthers}, order)
	assert.Len(t, m.blocks, 3)
}

func TestModelStopsAfterHeaderWithoutAccounts(t *testing.T) {
	m, order := drain(t, newModel(application.Status{}, RenderOptions{Now: renderNow}))

	require.True(t, m.done)
	assert.Equal(t, []section{sectionHeader}, order)
	assert.Contains(t, m.View(), "No accounts.")
}

func TestModelSkipsEmptySections(t *testing.T) {
	status := application.Status{
		Others: []application.AccountSummary{{CreationTimestamp: 50, BackendURL: "https://b.example"}},
	}

	m, order := drain(t, newModel(status, RenderOptions{Now: renderNow}))

	assert.Equal(t, []section{sectionHeader, sectionActive, sectionOthers}, order)
	assert.Len(t, m.blocks, 2)
	assert.Contains(t, m.View(), "other accounts")
}

func TestModelViewIsEmptyUntilDone(t *testing.T) {
	m := newModel(application.Status{}, RenderOptions{Now: renderNow})

	assert.Empty(t, m.View())
	_, cmd := m.Update(tea.KeyMsg{})
	assert.Nil(t, cmd)
}
