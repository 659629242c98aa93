package tui

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// ProgressBar Tests
// =============================================================================

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name       string
		percentage float64
		width      int
		filled     int
	}{
		{"zero", 0, 10, 0},
		{"half", 50, 10, 5},
		{"full", 100, 10, 10},
		{"over", 150, 10, 10},
		{"negative", -10, 10, 0},
		{"small_width", 50, 5, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := ProgressBar(tt.percentage, tt.width)
			assert.Equal(t, tt.filled, strings.Count(bar, "█"))
			assert.Equal(t, tt.width-tt.filled, strings.Count(bar, "░"))
		})
	}
}

func TestProgressBarWidth(t *testing.T) {
	assert.Greater(t, len(ProgressBar(50, 20)), len(ProgressBar(50, 10)))
}

// =============================================================================
// HelpBar Tests
// =============================================================================

func TestHelpBar(t *testing.T) {
	bar := HelpBar()

	assert.Contains(t, bar, "switch")
	assert.Contains(t, bar, "scroll")
	assert.Contains(t, bar, "send")
	assert.Contains(t, bar, "abort")
	assert.Contains(t, bar, "enter")
}

// =============================================================================
// PreviewModel Tests
// =============================================================================

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testPreview() *PreviewModel {
	return NewPreviewModel(PreviewConfig{
		Title: "Toggl report",
		Info:  "2020-12-01..2020-12-31",
		Tabs: []Tab{
			{Title: "Summary", Body: "*Alice*\nA: 1h"},
			{Title: "Table", Body: "Project,User\nA,Alice\n"},
		},
	})
}

func TestNewPreviewModel(t *testing.T) {
	t.Run("tabs", func(t *testing.T) {
		m := testPreview()
		assert.Len(t, m.tabs, 2)
		assert.Equal(t, 0, m.ActiveTab())
		assert.Equal(t, DecisionPending, m.Decision())
	})

	t.Run("shares_add_stats_tab", func(t *testing.T) {
		m := NewPreviewModel(PreviewConfig{
			Tabs:   []Tab{{Title: "Summary", Body: "x"}},
			Shares: []Share{{Label: "Alice", Hours: "1.5", Percent: 75}},
		})
		require.Len(t, m.tabs, 2)
		assert.Equal(t, "Stats", m.tabs[1].Title)
		assert.Contains(t, m.tabs[1].Body, "Alice")
		assert.Contains(t, m.tabs[1].Body, "1.5h")
	})

	t.Run("empty", func(t *testing.T) {
		m := NewPreviewModel(PreviewConfig{})
		require.Len(t, m.tabs, 1)
		assert.Equal(t, "toggl2slack preview", m.title)
	})
}

func TestPreviewInit(t *testing.T) {
	assert.Nil(t, testPreview().Init())
}

func TestPreviewKeys(t *testing.T) {
	tests := []struct {
		name     string
		key      tea.KeyMsg
		decision Decision
		quits    bool
	}{
		{"enter_sends", tea.KeyMsg{Type: tea.KeyEnter}, DecisionSend, true},
		{"y_sends", keyRunes("y"), DecisionSend, true},
		{"q_aborts", keyRunes("q"), DecisionAbort, true},
		{"esc_aborts", tea.KeyMsg{Type: tea.KeyEsc}, DecisionAbort, true},
		{"ctrl_c_aborts", tea.KeyMsg{Type: tea.KeyCtrlC}, DecisionAbort, true},
		{"tab_keeps_open", tea.KeyMsg{Type: tea.KeyTab}, DecisionPending, false},
		{"unknown_key", keyRunes("x"), DecisionPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testPreview()
			_, cmd := m.Update(tt.key)
			assert.Equal(t, tt.decision, m.Decision())
			if tt.quits {
				require.NotNil(t, cmd)
				assert.IsType(t, tea.QuitMsg{}, cmd())
			} else {
				assert.Nil(t, cmd)
			}
		})
	}
}

func TestPreviewTabSwitching(t *testing.T) {
	m := testPreview()

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 1, m.ActiveTab())

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 0, m.ActiveTab(), "wraps past the last tab")

	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 1, m.ActiveTab(), "wraps before the first tab")

	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, 0, m.ActiveTab())
}

func TestPreviewScrolling(t *testing.T) {
	var lines []string
	for i := 1; i <= 50; i++ {
		lines = append(lines, fmt.Sprintf("line %d", i))
	}
	m := NewPreviewModel(PreviewConfig{Tabs: []Tab{
		{Title: "Long", Body: strings.Join(lines, "\n")},
		{Title: "Short", Body: "one"},
	}})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	visible := 20 - chromeHeight

	m.Update(keyRunes("k"))
	assert.Equal(t, 0, m.Offset(), "cannot scroll above the top")

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(keyRunes("j"))
	assert.Equal(t, 2, m.Offset())

	m.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Equal(t, 2+visible, m.Offset())

	for i := 0; i < 100; i++ {
		m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, 50-visible, m.Offset(), "stops at the last page")

	view := m.View()
	assert.Contains(t, view, "line 50")
	assert.NotContains(t, view, "line 1\n")

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 0, m.Offset(), "switching tabs resets scroll")
}

func TestPreviewView(t *testing.T) {
	t.Run("before_size", func(t *testing.T) {
		assert.Equal(t, "Loading...", testPreview().View())
	})

	t.Run("renders_active_tab", func(t *testing.T) {
		m := testPreview()
		m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

		view := m.View()
		assert.Contains(t, view, "Toggl report")
		assert.Contains(t, view, "2020-12-01..2020-12-31")
		assert.Contains(t, view, "Summary")
		assert.Contains(t, view, "Table")
		assert.Contains(t, view, "A: 1h")
		assert.NotContains(t, view, "Project,User")

		m.Update(tea.KeyMsg{Type: tea.KeyTab})
		assert.Contains(t, m.View(), "Project,User")
	})
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "pending", DecisionPending.String())
	assert.Equal(t, "send", DecisionSend.String())
	assert.Equal(t, "abort", DecisionAbort.String())
}

// =============================================================================
// Style Tests
// =============================================================================

func TestColorConstants(t *testing.T) {
	assert.NotEmpty(t, ColorPrimary)
	assert.NotEmpty(t, ColorSecondary)
	assert.NotEmpty(t, ColorMuted)
	assert.NotEmpty(t, ColorSuccess)
	assert.NotEmpty(t, ColorActive)
	assert.NotEmpty(t, ColorBorder)
}
