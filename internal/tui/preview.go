package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Decision is what the user chose in the preview.
type Decision int

const (
	// DecisionPending means the preview is still open.
	DecisionPending Decision = iota
	// DecisionSend means the user confirmed delivery.
	DecisionSend
	// DecisionAbort means the user closed the preview without sending.
	DecisionAbort
)

func (d Decision) String() string {
	switch d {
	case DecisionSend:
		return "send"
	case DecisionAbort:
		return "abort"
	default:
		return "pending"
	}
}

// Tab is one page of the preview.
type Tab struct {
	Title string
	Body  string
}

// Share is one user's part of the tracked time, shown in the stats tab.
type Share struct {
	Label   string
	Hours   string
	Percent float64
}

// PreviewConfig holds the content of the preview.
type PreviewConfig struct {
	Title string
	Info  string
	Tabs  []Tab

	// Shares adds a "Stats" tab with one bar per entry when non-empty.
	Shares []Share
}

// chromeHeight is the number of lines around the body: header, tabs, box
// borders and help bar.
const chromeHeight = 8

// PreviewModel is the bubbletea model of the report preview.
type PreviewModel struct {
	title string
	info  string
	tabs  []Tab

	active   int
	offset   int
	width    int
	height   int
	decision Decision
}

// NewPreviewModel creates a preview over cfg's tabs.
func NewPreviewModel(cfg PreviewConfig) *PreviewModel {
	tabs := append([]Tab(nil), cfg.Tabs...)
	if len(cfg.Shares) > 0 {
		tabs = append(tabs, Tab{Title: "Stats", Body: renderShares(cfg.Shares)})
	}
	if len(tabs) == 0 {
		tabs = []Tab{{Title: "Report", Body: "(nothing to send)"}}
	}

	title := cfg.Title
	if title == "" {
		title = "toggl2slack preview"
	}

	return &PreviewModel{
		title: title,
		info:  cfg.Info,
		tabs:  tabs,
	}
}

// Init initializes the model.
func (m *PreviewModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m *PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampOffset()
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input.
func (m *PreviewModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Abort):
		m.decision = DecisionAbort
		return m, tea.Quit

	case key.Matches(msg, keys.Send):
		m.decision = DecisionSend
		return m, tea.Quit

	case key.Matches(msg, keys.NextTab):
		m.selectTab(m.active + 1)

	case key.Matches(msg, keys.PrevTab):
		m.selectTab(m.active - 1)

	case key.Matches(msg, keys.Down):
		m.offset++
		m.clampOffset()

	case key.Matches(msg, keys.Up):
		m.offset--
		m.clampOffset()

	case key.Matches(msg, keys.PageDown):
		m.offset += m.bodyHeight()
		m.clampOffset()

	case key.Matches(msg, keys.PageUp):
		m.offset -= m.bodyHeight()
		m.clampOffset()

	case key.Matches(msg, keys.Top):
		m.offset = 0
	}

	return m, nil
}

// selectTab activates tab i, wrapping around, and scrolls to its top.
func (m *PreviewModel) selectTab(i int) {
	n := len(m.tabs)
	m.active = ((i % n) + n) % n
	m.offset = 0
}

func (m *PreviewModel) bodyLines() []string {
	return strings.Split(strings.TrimRight(m.tabs[m.active].Body, "\n"), "\n")
}

// bodyHeight is the number of body lines visible at once.
func (m *PreviewModel) bodyHeight() int {
	return max(m.height-chromeHeight, 3)
}

func (m *PreviewModel) clampOffset() {
	maxOffset := max(len(m.bodyLines())-m.bodyHeight(), 0)
	m.offset = min(max(m.offset, 0), maxOffset)
}

// Decision returns the user's choice.
func (m *PreviewModel) Decision() Decision {
	return m.decision
}

// ActiveTab returns the index of the selected tab.
func (m *PreviewModel) ActiveTab() int {
	return m.active
}

// Offset returns the first visible body line.
func (m *PreviewModel) Offset() int {
	return m.offset
}

// View renders the preview.
func (m *PreviewModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	sections := []string{
		m.renderHeader(),
		m.renderTabs(),
		m.renderBody(),
		HelpBar(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *PreviewModel) renderHeader() string {
	title := StyleTitle.Render(m.title)
	if m.info == "" {
		return title
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", StyleSubtitle.Render(m.info))
}

func (m *PreviewModel) renderTabs() string {
	labels := make([]string, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.active {
			labels[i] = StyleActiveTab.Render(tab.Title)
		} else {
			labels[i] = StyleTab.Render(tab.Title)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, labels...)
}

func (m *PreviewModel) renderBody() string {
	lines := m.bodyLines()
	end := min(m.offset+m.bodyHeight(), len(lines))
	visible := lines[m.offset:end]

	content := strings.Join(visible, "\n")
	if len(lines) > m.bodyHeight() {
		content += "\n" + StyleSubtitle.Render(fmt.Sprintf("lines %d-%d of %d", m.offset+1, end, len(lines)))
	}

	box := StyleContentBox
	if m.width > 4 {
		box = box.Width(m.width - 4)
	}
	return box.Render(content)
}

func renderShares(shares []Share) string {
	labelWidth := 0
	for _, s := range shares {
		labelWidth = max(labelWidth, lipgloss.Width(s.Label))
	}

	var sb strings.Builder
	for i, s := range shares {
		if i > 0 {
			sb.WriteString("\n")
		}
		pad := strings.Repeat(" ", labelWidth-lipgloss.Width(s.Label))
		fmt.Fprintf(&sb, "%s%s  %s  %s",
			StyleUser.Render(s.Label), pad,
			ProgressBar(s.Percent, 20),
			StyleHours.Render(s.Hours+"h"))
	}
	return sb.String()
}

// Run opens the preview and blocks until the user sends or aborts.
func Run(cfg PreviewConfig, opts ...tea.ProgramOption) (Decision, error) {
	model := NewPreviewModel(cfg)
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	final, err := tea.NewProgram(model, opts...).Run()
	if err != nil {
		return DecisionAbort, err
	}
	if pm, ok := final.(*PreviewModel); ok && pm.decision == DecisionSend {
		return DecisionSend, nil
	}
	return DecisionAbort, nil
}
