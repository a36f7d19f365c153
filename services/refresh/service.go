// Package refresh periodically asks the port service to rewrite the
// direction of pins whose direction is fixed.
package refresh

import (
	"context"
	"time"

	"portcode-go/bus"
	"portcode-go/types"
)

var (
	topicConfigRefresh = bus.T(types.TokConfig, types.TokRefresh)
	topicPortRefresh   = bus.T(types.TokPort, types.TokRefresh)
)

// DefaultInterval applies until config/refresh says otherwise.
const DefaultInterval = time.Second

type Service struct {
	Interval time.Duration
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection, cfgSub *bus.Subscription) {
	defer conn.Unsubscribe(cfgSub)

	iv := s.Interval
	if iv <= 0 {
		iv = DefaultInterval
	}
	tick := time.NewTicker(iv)
	defer tick.Stop()

	// loop until context is cancelled, respond to tick and config changes
	for {
		select {
		case <-ctx.Done():
			println("[refresh] service stopping")
			return
		case <-tick.C:
			conn.Publish(conn.NewMessage(topicPortRefresh, nil, false))
		case msg, open := <-cfgSub.Channel():
			if !open {
				println("[refresh] config closed")
				return
			}
			ms, ok := intervalMS(msg.Payload)
			if !ok {
				println("[refresh] ignoring malformed config")
				continue
			}
			if ms <= 0 {
				tick.Stop()
				println("[refresh] paused")
				continue
			}
			tick.Reset(time.Duration(ms) * time.Millisecond)
			println("[refresh] interval set to", ms, "ms")
		}
	}
}

func intervalMS(p any) (int, bool) {
	switch v := p.(type) {
	case types.RefreshConfig:
		return v.IntervalMS, true
	case *types.RefreshConfig:
		if v != nil {
			return v.IntervalMS, true
		}
	case map[string]any:
		if f, ok := v["interval_ms"].(float64); ok {
			return int(f), true
		}
	}
	return 0, false
}

// Start the refresh service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	cfgSub := conn.Subscribe(topicConfigRefresh)
	go s.serviceLoop(ctx, conn, cfgSub)
	return nil
}
