package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"scalp-radar/internal/domain"
)

// Dashboard message types.
type radarMsg struct {
	stance  domain.Stance
	score   domain.SignalScore
	signal  *domain.TradeSignal
	state   domain.LifecycleState
	elapsed time.Duration
	alerts  []domain.ScalpAlert
}
type quoteMsg *domain.Quote
type quoteErrMsg struct{ err error }
type dashTickMsg time.Time

// DashboardModel is the Bubble Tea model for the live radar screen.
type DashboardModel struct {
	services Services
	radar    *radarMsg
	quote    *domain.Quote
	quoteErr error
	width    int
	height   int
}

// NewDashboardModel creates a new dashboard model.
func NewDashboardModel(svc Services) DashboardModel {
	return DashboardModel{services: svc}
}

// Init fires initial data fetch commands.
func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(
		m.fetchRadarCmd(),
		m.fetchQuoteCmd(),
		m.tickCmd(),
	)
}

// Update handles incoming messages.
func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case radarMsg:
		m.radar = &msg
		return m, nil

	case quoteMsg:
		m.quote = (*domain.Quote)(msg)
		m.quoteErr = nil
		return m, nil

	case quoteErrMsg:
		m.quoteErr = msg.err
		return m, nil

	case dashTickMsg:
		return m, tea.Batch(
			m.fetchRadarCmd(),
			m.fetchQuoteCmd(),
			m.tickCmd(),
		)
	}

	return m, nil
}

// View renders the dashboard.
func (m DashboardModel) View() string {
	if m.radar == nil {
		return SubtextStyle.Render("Waiting for engine state...")
	}

	var sections []string

	stanceBox := BorderStyle.Width(m.boxWidth()).Render(m.renderStance())
	scoreBox := BorderStyle.Width(m.boxWidth()).Render(m.renderScore())
	topRow := lipgloss.JoinHorizontal(lipgloss.Top, stanceBox, scoreBox)
	sections = append(sections, topRow)

	signalBox := BorderStyle.Width(m.width - 2).Render(m.renderSignal())
	sections = append(sections, signalBox)

	alertBox := BorderStyle.Width(m.width - 2).Render(m.renderRecentAlerts())
	sections = append(sections, alertBox)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetSize updates the model dimensions.
func (m *DashboardModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// HasState reports whether engine state has been received (for testing).
func (m DashboardModel) HasState() bool { return m.radar != nil }

// Quote returns the last quote (for testing).
func (m DashboardModel) Quote() *domain.Quote { return m.quote }

func (m DashboardModel) boxWidth() int {
	w := m.width/2 - 2
	if w < 40 {
		w = 40
	}
	return w
}

func (m DashboardModel) renderStance() string {
	st := m.radar.stance
	var lines []string
	lines = append(lines, HeaderStyle.Render("  Director"))
	lines = append(lines, "  Quote:  "+FormatQuote(m.quote))
	if m.quoteErr != nil {
		lines = append(lines, ErrorStyle.Render(fmt.Sprintf("  Quote error: %v", m.quoteErr)))
	}
	lines = append(lines, "  Regime: "+FormatRegime(st.Director.Regime))
	lines = append(lines, "  Bias:   "+RenderBiasGauge(st.Director.BiasScore, 6, 12))
	if st.Director.InsideCloud {
		lines = append(lines, WarnStyle.Render("  Inside cloud, entries blocked"))
	}
	if st.Trap.Active {
		lines = append(lines, WarnStyle.Render(fmt.Sprintf("  Trap: %s (%d bars left)", st.Trap.Type, st.Trap.BarsRemaining)))
	}
	if st.Cooldown.SameDirectionBlocked {
		lines = append(lines, SubtextStyle.Render("  Cooldown: same direction blocked"))
	}
	lines = append(lines, SubtextStyle.Render("  Updated "+st.UpdatedAt.Format("15:04:05")))
	return strings.Join(lines, "\n")
}

func (m DashboardModel) renderScore() string {
	var lines []string
	lines = append(lines, HeaderStyle.Render("  Indicator Score"))
	for _, line := range strings.Split(RenderScoreBars(m.radar.score, 20), "\n") {
		lines = append(lines, "  "+line)
	}
	if m.radar.score.Direction.IsTradable() {
		lines = append(lines, fmt.Sprintf("  Lean: %s %s", m.radar.score.Direction, m.radar.score.Strength))
	} else {
		lines = append(lines, SubtextStyle.Render("  Lean: none"))
	}
	if m.radar.score.Reason != "" {
		lines = append(lines, SubtextStyle.Render("  "+m.radar.score.Reason))
	}
	return strings.Join(lines, "\n")
}

func (m DashboardModel) renderSignal() string {
	var lines []string
	lines = append(lines, HeaderStyle.Render("  Recommendation"))
	lines = append(lines, "  "+FormatTradeSignal(m.radar.signal, m.radar.state))
	if m.radar.signal != nil {
		lines = append(lines, SubtextStyle.Render(fmt.Sprintf("  Tracked for %s", m.radar.elapsed.Round(time.Second))))
	}
	return strings.Join(lines, "\n")
}

func (m DashboardModel) renderRecentAlerts() string {
	var lines []string
	lines = append(lines, HeaderStyle.Render("  Recent Alerts"))

	count := len(m.radar.alerts)
	if count > 5 {
		count = 5
	}
	for i := 0; i < count; i++ {
		lines = append(lines, "  "+FormatAlert(m.radar.alerts[i]))
	}
	if len(m.radar.alerts) == 0 {
		lines = append(lines, SubtextStyle.Render("  No alerts yet"))
	}

	return strings.Join(lines, "\n")
}

func (m DashboardModel) fetchRadarCmd() tea.Cmd {
	return func() tea.Msg {
		if m.services.Scalp == nil {
			return quoteErrMsg{err: fmt.Errorf("scalp service not available")}
		}
		return radarMsg{
			stance:  m.services.Scalp.Stance(),
			score:   m.services.Scalp.Score(),
			signal:  m.services.Scalp.Signal(),
			state:   m.services.Scalp.LifecycleState(),
			elapsed: m.services.Scalp.Elapsed(),
			alerts:  m.services.Scalp.Alerts(),
		}
	}
}

func (m DashboardModel) fetchQuoteCmd() tea.Cmd {
	return func() tea.Msg {
		if m.services.Market == nil {
			return quoteErrMsg{err: fmt.Errorf("market service not available")}
		}
		quote, err := m.services.Market.Quote(context.Background())
		if err != nil {
			return quoteErrMsg{err: err}
		}
		return quoteMsg(quote)
	}
}

func (m DashboardModel) tickCmd() tea.Cmd {
	return tea.Tick(5*time.Second, func(t time.Time) tea.Msg {
		return dashTickMsg(t)
	})
}
