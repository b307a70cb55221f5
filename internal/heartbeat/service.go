// Package heartbeat republishes the gate controller's retained status
// snapshot on a fixed cadence, together with one console line per beat,
// so the console shows the cadence is alive even during long idle
// stretches. The controller itself publishes the snapshot on every Step.
package heartbeat

import (
	"context"
	"fmt"
	"time"

	"github.com/srmuseum/gatekeeper/bus"
	"github.com/srmuseum/gatekeeper/internal/gate"
)

var topicConfigHeartbeat = bus.T("config", "heartbeat")

// Interval is the default republish cadence (SPEC_FULL.md's supplemented
// status heartbeat: "every 5 seconds").
const Interval = 5 * time.Second

// Service is a plain ticker, same shape as the teacher's: a subscription
// to a config topic that can retune the interval at runtime, and a ticker
// that re-emits the most recent status the bus has seen. It never reaches
// into the controller directly; it only ever reads what the controller's
// own goroutine has already published, so the only shared state crossing
// goroutines is the bus's own mutex-guarded retained-message store.
type Service struct {
	last    gate.Status
	haveAny bool
}

// New builds an empty heartbeat service; it picks up the controller's
// current status from the bus once serviceLoop subscribes.
func New() *Service {
	return &Service{}
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	statusSub := conn.Subscribe(gate.TopicStatus)
	defer conn.Unsubscribe(statusSub)

	cfgSub := conn.Subscribe(topicConfigHeartbeat)
	defer conn.Unsubscribe(cfgSub)

	tick := time.NewTicker(Interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-statusSub.Channel():
			if msg == nil {
				continue
			}
			if st, ok := msg.Payload.(gate.Status); ok {
				s.last = st
				s.haveAny = true
			}
		case <-tick.C:
			if s.haveAny {
				s.beat(conn)
			}
		case msg := <-cfgSub.Channel():
			if msg == nil {
				continue
			}
			if m, ok := msg.Payload.(map[string]any); ok {
				if iv, ok := m["interval_seconds"]; ok {
					if seconds, ok := iv.(float64); ok && seconds > 0 {
						tick.Reset(time.Duration(seconds * float64(time.Second)))
					}
				}
			}
		}
	}
}

// beat republishes the last-seen status as a retained message, plus one
// line on the log topic so console output shows the cadence is alive even
// during long idle stretches (UpIdle with no track activity).
func (s *Service) beat(conn *bus.Connection) {
	st := s.last
	conn.Publish(conn.NewMessage(gate.TopicStatus, st, true))
	line := fmt.Sprintf("Heartbeat: %s / %s / accumulated %dms", st.Position, st.Movement, st.Accumulated.Milliseconds())
	conn.Publish(conn.NewMessage(gate.TopicLog, line, false))
}

// Start launches the heartbeat loop in its own goroutine, mirroring the
// teacher's Service.Start signature.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
