package refresh

import (
	"context"
	"testing"
	"time"

	"portcode-go/bus"
	"portcode-go/types"
)

func countWithin(sub *bus.Subscription, d time.Duration) int {
	n := 0
	deadline := time.After(d)
	for {
		select {
		case <-sub.Channel():
			n++
		case <-deadline:
			return n
		}
	}
}

func TestRefreshTicksAndReconfigures(t *testing.T) {
	b := bus.NewBus(64)
	conn := b.NewConnection("refresh")
	mon := b.NewConnection("mon")
	sub := mon.Subscribe(bus.T(types.TokPort, types.TokRefresh))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc := &Service{Interval: 10 * time.Millisecond}
	if err := svc.Start(ctx, conn); err != nil {
		t.Fatal(err)
	}

	if n := countWithin(sub, 200*time.Millisecond); n < 3 {
		t.Fatalf("only %d refresh requests at 10ms", n)
	}

	// Pause.
	mon.Publish(mon.NewMessage(bus.T(types.TokConfig, types.TokRefresh), types.RefreshConfig{IntervalMS: 0}, true))
	time.Sleep(30 * time.Millisecond)
	countWithin(sub, 20*time.Millisecond) // drain anything queued before the pause
	if n := countWithin(sub, 100*time.Millisecond); n != 0 {
		t.Fatalf("%d refresh requests while paused", n)
	}

	// Resume through an untyped payload, as decoded JSON would arrive.
	mon.Publish(mon.NewMessage(bus.T(types.TokConfig, types.TokRefresh), map[string]any{"interval_ms": float64(10)}, true))
	if n := countWithin(sub, 200*time.Millisecond); n < 3 {
		t.Fatalf("only %d refresh requests after resume", n)
	}
}

func TestIntervalMS(t *testing.T) {
	if ms, ok := intervalMS(&types.RefreshConfig{IntervalMS: 40}); !ok || ms != 40 {
		t.Fatalf("pointer payload: %d %v", ms, ok)
	}
	if _, ok := intervalMS("fast"); ok {
		t.Fatal("string payload should be rejected")
	}
	var nilCfg *types.RefreshConfig
	if _, ok := intervalMS(nilCfg); ok {
		t.Fatal("nil pointer should be rejected")
	}
}

func TestRefreshStopsOnDisconnect(t *testing.T) {
	b := bus.NewBus(64)
	conn := b.NewConnection("refresh")
	mon := b.NewConnection("mon")
	sub := mon.Subscribe(bus.T(types.TokPort, types.TokRefresh))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc := &Service{Interval: 10 * time.Millisecond}
	if err := svc.Start(ctx, conn); err != nil {
		t.Fatal(err)
	}
	if n := countWithin(sub, 100*time.Millisecond); n == 0 {
		t.Fatal("no refresh requests before disconnect")
	}

	conn.Disconnect()
	time.Sleep(30 * time.Millisecond)
	countWithin(sub, 20*time.Millisecond)
	if n := countWithin(sub, 100*time.Millisecond); n != 0 {
		t.Fatalf("%d refresh requests after disconnect", n)
	}
}
