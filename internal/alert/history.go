package alert

import (
	"sync"

	"scalp-radar/internal/domain"
)

// HistoryCapacity bounds the in-memory alert ring. Process-lifetime only.
const HistoryCapacity = 50

// History keeps the most recent alerts, newest first, evicting the oldest
// past capacity.
type History struct {
	mu      sync.RWMutex
	entries []domain.ScalpAlert
}

func NewHistory() *History {
	return &History{entries: make([]domain.ScalpAlert, 0, HistoryCapacity)}
}

func (h *History) Add(a domain.ScalpAlert) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append([]domain.ScalpAlert{a}, h.entries...)
	if len(h.entries) > HistoryCapacity {
		h.entries = h.entries[:HistoryCapacity]
	}
}

// List returns a newest-first copy of the ring contents.
func (h *History) List() []domain.ScalpAlert {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]domain.ScalpAlert, len(h.entries))
	copy(out, h.entries)
	return out
}

func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}
