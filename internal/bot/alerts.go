package bot

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	tele "gopkg.in/telebot.v3"

	"scalp-radar/internal/domain"
)

type messageSender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// AlertDispatcher broadcasts push-worthy alerts and adopted trade signals to
// subscribed chats.
type AlertDispatcher struct {
	sender messageSender

	mu          sync.RWMutex
	subscribers map[int64]struct{}
}

func NewAlertDispatcher(sender messageSender) *AlertDispatcher {
	return &AlertDispatcher{
		sender:      sender,
		subscribers: make(map[int64]struct{}),
	}
}

func (d *AlertDispatcher) Subscribe(chatID int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.subscribers[chatID]; exists {
		return false
	}
	d.subscribers[chatID] = struct{}{}
	return true
}

func (d *AlertDispatcher) Unsubscribe(chatID int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.subscribers[chatID]; !exists {
		return false
	}
	delete(d.subscribers, chatID)
	return true
}

func (d *AlertDispatcher) IsSubscribed(chatID int64) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	_, exists := d.subscribers[chatID]
	return exists
}

func (d *AlertDispatcher) SubscriberCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.subscribers)
}

// NotifyAlert broadcasts a director alert. Called from the emitter's push
// callback, so it only ever sees alerts that cleared the push gate.
func (d *AlertDispatcher) NotifyAlert(a domain.ScalpAlert) {
	if d == nil || d.sender == nil {
		return
	}
	d.broadcast(formatAlert(a))
}

// NotifySignal broadcasts a freshly adopted high-strength trade signal. This
// is the lifecycle tracker's notifier hook.
func (d *AlertDispatcher) NotifySignal(sig domain.TradeSignal) {
	if d == nil || d.sender == nil {
		return
	}
	d.broadcast(formatTradeSignal(sig))
}

func (d *AlertDispatcher) broadcast(msg string) {
	for _, chatID := range d.snapshotSubscribers() {
		d.sender.Send(&tele.Chat{ID: chatID}, msg)
	}
}

func (d *AlertDispatcher) snapshotSubscribers() []int64 {
	d.mu.RLock()
	defer d.mu.RUnlock()

	chatIDs := make([]int64, 0, len(d.subscribers))
	for chatID := range d.subscribers {
		chatIDs = append(chatIDs, chatID)
	}
	sort.Slice(chatIDs, func(i, j int) bool { return chatIDs[i] < chatIDs[j] })
	return chatIDs
}

func parseAlertMode(args []string) (string, error) {
	if len(args) == 0 {
		return "status", nil
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "on":
		return "on", nil
	case "off":
		return "off", nil
	case "status":
		return "status", nil
	default:
		return "", fmt.Errorf("invalid mode")
	}
}

func formatAlert(a domain.ScalpAlert) string {
	return fmt.Sprintf(
		"%s alert (%.0f%% confidence)\n%s",
		a.Direction, a.Confidence*100, a.Explanation,
	)
}

func formatTradeSignal(sig domain.TradeSignal) string {
	return fmt.Sprintf(
		"%s %s %g\nPremium ~%.2f\nTargets %.2f / %.2f / %.2f\nStop %.2f\nSPX ref: target %.2f, stop %.2f",
		sig.Strength, sig.Type, sig.StrikePrice,
		sig.EstimatedPremium,
		sig.ProfitTarget1, sig.ProfitTarget2, sig.ProfitTarget3,
		sig.StopLoss,
		sig.TargetSPXPrice, sig.StopSPXPrice,
	)
}
