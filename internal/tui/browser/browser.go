// Package browser implements the terminal report browser. It shows the
// records of each extraction variant on its own tab.
package browser

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nessus-flatten/nessus-flatten/internal/extract"
	"github.com/nessus-flatten/nessus-flatten/pkg/buildinfo"
)

// Tab is the outcome of one extractor run. Exactly one of Result and Err
// is set.
type Tab struct {
	Variant extract.Variant
	Result  *extract.Result
	Err     error
}

// Model is the Bubbletea model for the report browser.
type Model struct {
	source   string
	tabs     []Tab
	active   int
	viewport viewport.Model
	width    int
	height   int
	ready    bool
}

// New creates a browser over tabs. source names the loaded report file.
func New(source string, tabs []Tab) Model {
	return Model{source: source, tabs: tabs}
}

// Select makes the tab of variant v active. Unknown variants are ignored.
func (m *Model) Select(v extract.Variant) {
	for i, t := range m.tabs {
		if t.Variant == v {
			m.active = i
			return
		}
	}
}

// Active returns the active tab's variant.
func (m Model) Active() extract.Variant {
	if len(m.tabs) == 0 {
		return ""
	}
	return m.tabs[m.active].Variant
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		contentH := msg.Height - 6 // header, tabs, footer
		if contentH < 5 {
			contentH = 5
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, contentH)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = contentH
		}
		m.viewport.SetContent(m.renderContent())
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "right", "l":
			m.switchTab(1)
			return m, nil
		case "shift+tab", "left", "h":
			m.switchTab(-1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) switchTab(delta int) {
	if len(m.tabs) == 0 {
		return
	}
	m.active = (m.active + delta + len(m.tabs)) % len(m.tabs)
	if m.ready {
		m.viewport.SetContent(m.renderContent())
		m.viewport.GotoTop()
	}
}

// View renders the browser.
func (m Model) View() string {
	var b strings.Builder

	header := headerStyle.Render(
		titleStyle.Render("nessus-flatten") +
			dimStyle.Render(" "+buildinfo.ResolvedVersion()) +
			dimStyle.Render(" | "+m.source))
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	if !m.ready {
		b.WriteString("\n  Initializing...\n")
		return b.String()
	}

	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(footerStyle.Render(m.renderFooter()))
	return b.String()
}

func (m Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, t := range m.tabs {
		label := string(t.Variant)
		if t.Result != nil {
			label = fmt.Sprintf("%s (%d)", label, len(t.Result.Records))
		} else if t.Err != nil {
			label += " (!)"
		}
		if i == m.active {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) renderContent() string {
	var b strings.Builder

	if len(m.tabs) == 0 {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("  Nothing to show."))
		b.WriteString("\n")
		return b.String()
	}

	tab := m.tabs[m.active]
	if tab.Err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(fmt.Sprintf("  Error: %v", tab.Err)))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString("\n")
	b.WriteString(renderSummary(tab.Result))
	b.WriteString("\n")

	if len(tab.Result.Records) == 0 {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("  No matching findings."))
		b.WriteString("\n")
		return b.String()
	}
	for _, r := range tab.Result.Records {
		b.WriteString(renderRecord(tab.Variant, r))
	}
	return b.String()
}

func (m Model) renderFooter() string {
	scroll := ""
	if m.viewport.TotalLineCount() > m.viewport.Height {
		scroll = fmt.Sprintf(" | %d%%", int(m.viewport.ScrollPercent()*100))
	}
	return fmt.Sprintf(" tab/←→: switch variant | ↑↓: scroll | q: quit%s", scroll)
}
