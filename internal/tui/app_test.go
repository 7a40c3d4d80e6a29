package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"scalp-radar/internal/domain"
)

// --- stub services ---

type stubScalpQuerier struct {
	stance  domain.Stance
	score   domain.SignalScore
	signal  *domain.TradeSignal
	state   domain.LifecycleState
	elapsed time.Duration
	alerts  []domain.ScalpAlert
}

func (s *stubScalpQuerier) Stance() domain.Stance { return s.stance }
func (s *stubScalpQuerier) Score() domain.SignalScore { return s.score }
func (s *stubScalpQuerier) Signal() *domain.TradeSignal { return s.signal }
func (s *stubScalpQuerier) LifecycleState() domain.LifecycleState { return s.state }
func (s *stubScalpQuerier) Elapsed() time.Duration { return s.elapsed }
func (s *stubScalpQuerier) Alerts() []domain.ScalpAlert { return s.alerts }

type stubQuoteQuerier struct {
	quote *domain.Quote
	err   error
}

func (s *stubQuoteQuerier) Quote(ctx context.Context) (*domain.Quote, error) {
	return s.quote, s.err
}

type stubAdvisorQuerier struct {
	reply string
	err   error
}

func (s *stubAdvisorQuerier) Ask(ctx context.Context, question string) (string, error) {
	return s.reply, s.err
}

func testServices() Services {
	return Services{
		Scalp: &stubScalpQuerier{
			stance: domain.Stance{
				Director:  domain.DirectorState{Regime: domain.RegimeChop},
				UpdatedAt: time.Unix(0, 0).UTC(),
			},
			state: domain.LifecycleNone,
		},
		Market:  &stubQuoteQuerier{quote: &domain.Quote{Symbol: "SPX", Mark: 5900}},
		Advisor: &stubAdvisorQuerier{reply: "test reply"},
		Symbol:  "SPX",
	}
}

func TestAppModelInitialTab(t *testing.T) {
	m := NewAppModel(testServices())
	if m.ActiveTab() != TabDashboard {
		t.Fatalf("expected TabDashboard, got %d", m.ActiveTab())
	}
}

func TestAppModelTabSwitchByNumber(t *testing.T) {
	m := NewAppModel(testServices())
	m.SetSize(120, 40)

	// Press '2' to switch to chat
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})
	app := updated.(AppModel)
	if app.ActiveTab() != TabChat {
		t.Fatalf("expected TabChat after pressing 2, got %d", app.ActiveTab())
	}

	// Press '3' to switch to alerts
	updated, _ = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}})
	app = updated.(AppModel)
	if app.ActiveTab() != TabAlerts {
		t.Fatalf("expected TabAlerts after pressing 3, got %d", app.ActiveTab())
	}

	// Press '1' to switch back to dashboard
	updated, _ = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}})
	app = updated.(AppModel)
	if app.ActiveTab() != TabDashboard {
		t.Fatalf("expected TabDashboard after pressing 1, got %d", app.ActiveTab())
	}
}

func TestAppModelTabSwitchByTab(t *testing.T) {
	m := NewAppModel(testServices())
	m.SetSize(120, 40)

	// Press Tab to go to next
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	app := updated.(AppModel)
	if app.ActiveTab() != TabChat {
		t.Fatalf("expected TabChat after Tab, got %d", app.ActiveTab())
	}

	// Press Shift+Tab to go back
	updated, _ = app.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	app = updated.(AppModel)
	if app.ActiveTab() != TabDashboard {
		t.Fatalf("expected TabDashboard after Shift+Tab, got %d", app.ActiveTab())
	}
}

func TestAppModelWindowResize(t *testing.T) {
	m := NewAppModel(testServices())

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 50})
	app := updated.(AppModel)
	if app.width != 100 || app.height != 50 {
		t.Fatalf("expected 100x50, got %dx%d", app.width, app.height)
	}
}

func TestAppModelViewRendersWithoutPanic(t *testing.T) {
	m := NewAppModel(testServices())
	m.SetSize(120, 40)

	// Render all tabs without panicking
	for _, tab := range []Tab{TabDashboard, TabChat, TabAlerts} {
		m.activeTab = tab
		view := m.View()
		if view == "" {
			t.Fatalf("expected non-empty view for tab %d", tab)
		}
	}
}
