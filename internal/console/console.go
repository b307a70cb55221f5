// Package console is the external line-printer: one line per event, in
// the exact wording the gate controller emits, no machine-readable
// schema. It is a thin subscriber over the bus, the same
// shape as the teacher's main.go select loop over uiConn's subscriptions,
// trimmed to the single topic this domain needs.
package console

import (
	"context"
	"fmt"

	"github.com/srmuseum/gatekeeper/bus"
	"github.com/srmuseum/gatekeeper/internal/gate"
)

// Printer subscribes to gate.TopicLog and writes each payload verbatim to
// an io.Writer-like sink (fmt.Println's target), one line per message.
type Printer struct {
	conn *bus.Connection
}

// New builds a Printer bound to conn. Run must be called to begin
// consuming.
func New(conn *bus.Connection) *Printer {
	return &Printer{conn: conn}
}

// Run consumes gate.TopicLog until ctx is cancelled. Intended to be run in
// its own goroutine from the composition root.
func (p *Printer) Run(ctx context.Context) {
	sub := p.conn.Subscribe(gate.TopicLog)
	defer p.conn.Unsubscribe(sub)

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-sub.Channel():
			if msg == nil {
				return
			}
			line, ok := msg.Payload.(string)
			if !ok {
				continue
			}
			fmt.Println(line)
		}
	}
}
