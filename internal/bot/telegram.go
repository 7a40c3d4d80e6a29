package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	"scalp-radar/internal/domain"
)

type ScalpStatus interface {
	Stance() domain.Stance
	Score() domain.SignalScore
	Signal() *domain.TradeSignal
	LifecycleState() domain.LifecycleState
	Payout(budget float64) (*domain.PayoutPlan, error)
}

type QuoteQuerier interface {
	Quote(ctx context.Context) (*domain.Quote, error)
}

type Advisor interface {
	Ask(ctx context.Context, question string) (string, error)
}

// StartTelegramBot wires the command surface and returns the dispatcher that
// push alerts and adopted signals fan out through. Returns nil when no token
// is configured.
func StartTelegramBot(scalpService ScalpStatus, marketService QuoteQuerier, advisorService Advisor) *AlertDispatcher {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return nil
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}
	alerts := NewAlertDispatcher(b)

	if raw := os.Getenv("TELEGRAM_CHAT_ID"); raw != "" {
		chatID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			log.Printf("invalid TELEGRAM_CHAT_ID %q: %v", raw, err)
		} else {
			alerts.Subscribe(chatID)
		}
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/quote", func(c tele.Context) error {
		if marketService == nil {
			return c.Send("Market data unavailable")
		}
		quote, err := marketService.Quote(context.Background())
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching quote: %v", err))
		}
		return c.Send(fmt.Sprintf("%s: %.2f", quote.Symbol, quote.Mark))
	})

	b.Handle("/stance", func(c tele.Context) error {
		if scalpService == nil {
			return c.Send("Scalp engine unavailable")
		}
		return c.Send(formatStance(scalpService.Stance()))
	})

	b.Handle("/signal", func(c tele.Context) error {
		if scalpService == nil {
			return c.Send("Scalp engine unavailable")
		}
		sig := scalpService.Signal()
		if sig == nil {
			return c.Send("No active trade signal right now.")
		}
		state := scalpService.LifecycleState()
		return c.Send(fmt.Sprintf("%s\nState: %s\nReason: %s", formatTradeSignal(*sig), state, sig.Reason))
	})

	b.Handle("/alerts", func(c tele.Context) error {
		chat := c.Chat()
		if chat == nil {
			return c.Send("Unable to detect chat")
		}

		mode, err := parseAlertMode(c.Args())
		if err != nil {
			return c.Send("Usage: /alerts on | /alerts off | /alerts status")
		}

		switch mode {
		case "on":
			if alerts.Subscribe(chat.ID) {
				return c.Send("Proactive alerts enabled for this chat.")
			}
			return c.Send("Proactive alerts are already enabled for this chat.")
		case "off":
			if alerts.Unsubscribe(chat.ID) {
				return c.Send("Proactive alerts disabled for this chat.")
			}
			return c.Send("Proactive alerts are already disabled for this chat.")
		default:
			if alerts.IsSubscribed(chat.ID) {
				return c.Send("Alerts status: ON")
			}
			return c.Send("Alerts status: OFF")
		}
	})

	b.Handle("/payout", func(c tele.Context) error {
		if scalpService == nil {
			return c.Send("Scalp engine unavailable")
		}
		budget, err := parseBudget(c.Args())
		if err != nil {
			return c.Send("Usage: /payout | /payout 1500")
		}
		plan, err := scalpService.Payout(budget)
		if err != nil {
			return c.Send(fmt.Sprintf("No payout plan: %v", err))
		}
		return c.Send(formatPayout(plan))
	})

	b.Handle("/ask", func(c tele.Context) error {
		if advisorService == nil {
			return c.Send("Advisor not configured. Set OPENAI_API_KEY to enable.")
		}
		question := strings.TrimSpace(c.Message().Payload)
		if question == "" {
			return c.Send("Usage: /ask <question>\nExample: /ask Why is the bias leaning short?")
		}
		return handleAdvisorQuery(c, advisorService, question)
	})

	b.Handle(tele.OnText, func(c tele.Context) error {
		if advisorService == nil {
			return nil
		}
		text := strings.TrimSpace(c.Text())
		if text == "" {
			return nil
		}
		return handleAdvisorQuery(c, advisorService, text)
	})

	log.Println("Telegram bot started")
	go b.Start()
	return alerts
}

func handleAdvisorQuery(c tele.Context, adv Advisor, question string) error {
	_ = c.Notify(tele.Typing)

	reply, err := adv.Ask(context.Background(), question)
	if err != nil {
		log.Printf("advisor error for chat %d: %v", c.Chat().ID, err)
		return c.Send("Sorry, I'm having trouble right now. Try /stance or /signal for raw data.")
	}

	if len(reply) > 4000 {
		reply = reply[:4000] + "\n\n[truncated]"
	}

	return c.Send(reply)
}

func parseBudget(args []string) (float64, error) {
	if len(args) == 0 {
		return 0, nil
	}
	budget, err := strconv.ParseFloat(strings.TrimSpace(args[0]), 64)
	if err != nil || budget < 0 {
		return 0, fmt.Errorf("invalid budget")
	}
	return budget, nil
}

func formatStance(st domain.Stance) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Regime: %s (bias %.1f)\n", st.Director.Regime, st.Director.BiasScore)
	if st.Director.InsideCloud {
		b.WriteString("Price inside Ichimoku cloud, entries blocked\n")
	}
	if st.Trap.Active {
		fmt.Fprintf(&b, "Trap: %s, %d bars remaining\n", st.Trap.Type, st.Trap.BarsRemaining)
	}
	if st.Cooldown.SameDirectionBlocked {
		b.WriteString("Cooldown: same-direction alerts blocked\n")
	}
	fmt.Fprintf(&b, "Updated: %s", st.UpdatedAt.UTC().Format("15:04:05"))
	return b.String()
}

func formatPayout(plan *domain.PayoutPlan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Budget $%.0f: %d contract(s) at ~$%.2f each (cost $%.2f)\n",
		plan.Budget, plan.Contracts, plan.Premium, plan.CostBasis)
	for _, t := range plan.Targets {
		fmt.Fprintf(&b, "%.1fx at %.2f: +$%.2f total\n", t.Multiple, t.OptionPrice, t.TotalProfit)
	}
	return strings.TrimRight(b.String(), "\n")
}
