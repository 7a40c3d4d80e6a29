package job

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Ticker is the evaluation entry point the poller drives.
type Ticker interface {
	Tick(ctx context.Context) error
}

// TickPoller drives the scalp evaluation loop at a fixed cadence. The service
// drops overlapping ticks itself, so the poller fires without backpressure.
type TickPoller struct {
	tracer   trace.Tracer
	scalp    Ticker
	interval time.Duration
}

func NewTickPoller(tracer trace.Tracer, scalp Ticker, pollSecs int) *TickPoller {
	if pollSecs <= 0 {
		pollSecs = 5
	}
	return &TickPoller{
		tracer:   tracer,
		scalp:    scalp,
		interval: time.Duration(pollSecs) * time.Second,
	}
}

// Start blocks until ctx is cancelled.
func (p *TickPoller) Start(ctx context.Context) {
	if p.scalp == nil {
		log.Println("Tick poller disabled: no scalp service")
		<-ctx.Done()
		return
	}

	log.Printf("Tick poller starting (every %s)...", p.interval)
	p.tick(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Tick poller stopped")
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *TickPoller) tick(ctx context.Context) {
	ctx, span := p.tracer.Start(ctx, "tick-poller.tick")
	defer span.End()

	if err := p.scalp.Tick(ctx); err != nil {
		log.Printf("tick error: %v", err)
	}
}
