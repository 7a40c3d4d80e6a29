package job

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
)

type stubTicker struct {
	calls atomic.Int32
}

func (s *stubTicker) Tick(ctx context.Context) error {
	s.calls.Add(1)
	return nil
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition never became true")
}

func TestTickPollerStartFiresImmediately(t *testing.T) {
	t.Parallel()

	tracer := trace.NewNoopTracerProvider().Tracer("test")
	stub := &stubTicker{}
	poller := NewTickPoller(tracer, stub, 60)

	ctx, cancel := context.WithCancel(context.Background())
	go poller.Start(ctx)

	eventually(t, func() bool { return stub.calls.Load() > 0 })
	cancel()
}

func TestTickPollerNilServiceWaitsForCancel(t *testing.T) {
	t.Parallel()

	tracer := trace.NewNoopTracerProvider().Tracer("test")
	poller := NewTickPoller(tracer, nil, 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		poller.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop on cancel")
	}
}

func TestTickPollerDefaultsInterval(t *testing.T) {
	tracer := trace.NewNoopTracerProvider().Tracer("test")
	poller := NewTickPoller(tracer, &stubTicker{}, 0)
	if poller.interval != 5*time.Second {
		t.Fatalf("interval = %s, want 5s", poller.interval)
	}
}
