package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type advisorReplyMsg string
type advisorErrMsg struct{ err error }

type chatEntry struct {
	fromUser bool
	text     string
	at       time.Time
}

// ChatModel is the advisor conversation screen. The transcript lives in a
// viewport above a single-line prompt; while a question is in flight the
// prompt is swapped for a spinner.
type ChatModel struct {
	services   Services
	transcript []chatEntry
	input      textinput.Model
	viewport   viewport.Model
	spinner    spinner.Model
	waiting    bool
	err        error
	width      int
	height     int
	ready      bool
}

func NewChatModel(svc Services) ChatModel {
	ti := textinput.New()
	ti.Placeholder = "Ask why the radar leans the way it does..."
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(SpinnerColor)

	return ChatModel{
		services: svc,
		input:    ti,
		spinner:  sp,
	}
}

func (m ChatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m ChatModel) Update(msg tea.Msg) (ChatModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case advisorReplyMsg:
		m.transcript = append(m.transcript, chatEntry{text: string(msg), at: time.Now()})
		m.waiting = false
		m.err = nil
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil

	case advisorErrMsg:
		m.waiting = false
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEnter && !m.waiting {
			question := strings.TrimSpace(m.input.Value())
			if question != "" {
				m.transcript = append(m.transcript, chatEntry{fromUser: true, text: question, at: time.Now()})
				m.input.SetValue("")
				m.waiting = true
				m.viewport.SetContent(m.renderTranscript())
				m.viewport.GotoBottom()
				return m, tea.Batch(m.askAdvisorCmd(question), m.spinner.Tick)
			}
		}

	case spinner.TickMsg:
		if m.waiting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.waiting {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m ChatModel) View() string {
	header := HeaderStyle.Render("  Advisor")
	if m.services.Advisor == nil {
		return "\n" + header + "\n\n" +
			SubtextStyle.Render("  Advisor not available. Set OPENAI_API_KEY to enable.")
	}

	if !m.ready {
		m.ensureViewport()
	}

	rule := SubtextStyle.Render(strings.Repeat("─", m.lineWidth()))

	var prompt string
	switch {
	case m.waiting:
		prompt = fmt.Sprintf("  %s Thinking...", m.spinner.View())
	case m.err != nil:
		prompt = ErrorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n  " + m.input.View()
	default:
		prompt = "  " + m.input.View()
	}

	return strings.Join([]string{header, rule, m.viewport.View(), rule, prompt}, "\n")
}

func (m *ChatModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.input.Width = w - 6
	// header, two rules and the prompt surround the viewport
	if m.ready {
		m.viewport.Width = w - 2
		m.viewport.Height = h - 6
	}
	m.ready = false
}

func (m *ChatModel) Focus() {
	m.input.Focus()
}

func (m *ChatModel) Blur() {
	m.input.Blur()
}

// IsWaiting reports whether a question is in flight (for testing).
func (m ChatModel) IsWaiting() bool { return m.waiting }

// MessageCount returns the transcript length (for testing).
func (m ChatModel) MessageCount() int { return len(m.transcript) }

func (m ChatModel) lineWidth() int {
	if m.width < 4 {
		return 2
	}
	return m.width - 2
}

func (m *ChatModel) ensureViewport() {
	h := m.height - 6
	if h < 3 {
		h = 3
	}
	w := m.width - 2
	if w < 10 {
		w = 10
	}
	m.viewport = viewport.New(w, h)
	m.viewport.SetContent(m.renderTranscript())
	m.ready = true
}

func (m ChatModel) renderTranscript() string {
	if len(m.transcript) == 0 {
		return SubtextStyle.Render("  Start a conversation by typing a question below.")
	}

	var b strings.Builder
	for _, entry := range m.transcript {
		stamp := SubtextStyle.Render(entry.at.Format("15:04"))
		if entry.fromUser {
			fmt.Fprintf(&b, "  %s  %s %s\n\n", stamp, UserMsgStyle.Render("You:"), entry.text)
			continue
		}
		fmt.Fprintf(&b, "  %s  %s\n", stamp, AssistantMsgStyle.Render("Advisor:"))
		for _, line := range strings.Split(entry.text, "\n") {
			b.WriteString("         " + line + "\n")
		}
		b.WriteString("\n")
	}

	if m.waiting {
		fmt.Fprintf(&b, "  %s  %s\n",
			SubtextStyle.Render(time.Now().Format("15:04")),
			SubtextStyle.Render("Advisor is thinking..."))
	}

	return strings.TrimRight(b.String(), "\n")
}

func (m ChatModel) askAdvisorCmd(question string) tea.Cmd {
	return func() tea.Msg {
		if m.services.Advisor == nil {
			return advisorErrMsg{err: fmt.Errorf("advisor not available")}
		}
		reply, err := m.services.Advisor.Ask(context.Background(), question)
		if err != nil {
			return advisorErrMsg{err: err}
		}
		return advisorReplyMsg(reply)
	}
}
