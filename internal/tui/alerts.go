package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"scalp-radar/internal/domain"
)

// Alert explorer message types.
type filteredAlertsMsg []domain.ScalpAlert

var directionOptions = []string{"ALL", "CALL", "PUT"}

// AlertExplorerModel is the Bubble Tea model for the alert explorer screen.
type AlertExplorerModel struct {
	services     Services
	alerts       []domain.ScalpAlert
	directionIdx int
	pushedOnly   bool
	scrollOffset int
	width        int
	height       int
}

// NewAlertExplorerModel creates a new alert explorer model.
func NewAlertExplorerModel(svc Services) AlertExplorerModel {
	return AlertExplorerModel{services: svc}
}

// Init fires the initial alert fetch.
func (m AlertExplorerModel) Init() tea.Cmd {
	return m.fetchAlertsCmd()
}

// Update handles incoming messages.
func (m AlertExplorerModel) Update(msg tea.Msg) (AlertExplorerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case filteredAlertsMsg:
		m.alerts = []domain.ScalpAlert(msg)
		m.scrollOffset = 0
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, DefaultKeyMap.FilterDirection):
			m.directionIdx = (m.directionIdx + 1) % len(directionOptions)
			return m, m.fetchAlertsCmd()

		case key.Matches(msg, DefaultKeyMap.TogglePushed):
			m.pushedOnly = !m.pushedOnly
			return m, m.fetchAlertsCmd()

		case key.Matches(msg, DefaultKeyMap.Refresh):
			return m, m.fetchAlertsCmd()

		case msg.String() == "j" || msg.String() == "down":
			maxVisible := m.visibleRows()
			if m.scrollOffset < len(m.alerts)-maxVisible {
				m.scrollOffset++
			}
			return m, nil

		case msg.String() == "k" || msg.String() == "up":
			if m.scrollOffset > 0 {
				m.scrollOffset--
			}
			return m, nil
		}
	}

	return m, nil
}

// View renders the alert explorer.
func (m AlertExplorerModel) View() string {
	var sections []string

	sections = append(sections, HeaderStyle.Render("  Alert Explorer"))
	sections = append(sections, "")
	sections = append(sections, m.renderFilters())
	sections = append(sections, SubtextStyle.Render(strings.Repeat("─", m.lineWidth())))

	if len(m.alerts) == 0 {
		sections = append(sections, SubtextStyle.Render("  No alerts match the current filters"))
		return strings.Join(sections, "\n")
	}

	maxVisible := m.visibleRows()
	end := m.scrollOffset + maxVisible
	if end > len(m.alerts) {
		end = len(m.alerts)
	}

	for i := m.scrollOffset; i < end; i++ {
		sections = append(sections, "  "+FormatAlert(m.alerts[i]))
	}

	if len(m.alerts) > maxVisible {
		sections = append(sections, SubtextStyle.Render(
			fmt.Sprintf("  Showing %d-%d of %d (j/k to scroll)", m.scrollOffset+1, end, len(m.alerts)),
		))
	}

	sections = append(sections, "")
	sections = append(sections, SubtextStyle.Render("  [d] direction  [p] pushed only  [R] refresh  [j/k] scroll"))

	return strings.Join(sections, "\n")
}

// SetSize updates the model dimensions.
func (m *AlertExplorerModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// FilterState returns the current filter state (for testing).
func (m AlertExplorerModel) FilterState() (directionIdx int, pushedOnly bool) {
	return m.directionIdx, m.pushedOnly
}

// AlertCount returns the number of loaded alerts (for testing).
func (m AlertExplorerModel) AlertCount() int { return len(m.alerts) }

func (m AlertExplorerModel) renderFilters() string {
	dirChip := m.renderChip("Direction", directionOptions, m.directionIdx)

	pushed := SubtextStyle.Render("Pushed only: off")
	if m.pushedOnly {
		pushed = ActiveTabStyle.Render("Pushed only: on")
	}

	return "  " + lipgloss.JoinHorizontal(lipgloss.Top, dirChip, "  ", pushed)
}

func (m AlertExplorerModel) renderChip(label string, options []string, active int) string {
	var parts []string
	parts = append(parts, SubtextStyle.Render(label+": "))
	for i, opt := range options {
		if i == active {
			parts = append(parts, ActiveTabStyle.Render(opt))
		} else {
			parts = append(parts, SubtextStyle.Render(opt))
		}
		parts = append(parts, " ")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m AlertExplorerModel) fetchAlertsCmd() tea.Cmd {
	directionIdx := m.directionIdx
	pushedOnly := m.pushedOnly
	return func() tea.Msg {
		if m.services.Scalp == nil {
			return filteredAlertsMsg(nil)
		}
		alerts := m.services.Scalp.Alerts()
		filtered := make([]domain.ScalpAlert, 0, len(alerts))
		for _, a := range alerts {
			if directionIdx > 0 && string(a.Direction) != directionOptions[directionIdx] {
				continue
			}
			if pushedOnly && !a.ShouldPush {
				continue
			}
			filtered = append(filtered, a)
		}
		return filteredAlertsMsg(filtered)
	}
}

func (m AlertExplorerModel) lineWidth() int {
	if m.width < 4 {
		return 2
	}
	return m.width - 2
}

func (m AlertExplorerModel) visibleRows() int {
	// Account for header, filters, help footer
	available := m.height - 8
	if available < 5 {
		return 5
	}
	return available
}
