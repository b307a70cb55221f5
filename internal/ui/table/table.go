// Package table renders a one-shot plain-text status table for operators
// without a TTY suited to the TUI (cmd/gatectl's --ui=plain, the
// default). Grounded on the corpus's go-pretty usage for tabular output;
// unlike the TUI this has no event loop, it just formats one Status.
package table

import (
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/srmuseum/gatekeeper/internal/duty"
	"github.com/srmuseum/gatekeeper/internal/gate"
)

// Render writes a formatted status table for st to w.
func Render(w io.Writer, st gate.Status) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRows([]table.Row{
		{"Position", st.Position.String()},
		{"Track state", st.TrackState.String()},
		{"Movement", st.Movement.String()},
		{"Blinkers live", st.BlinkersLive},
		{"Duty accumulated", st.Accumulated.Round(time.Millisecond).String()},
		{"Duty ceiling", duty.Limit.String()},
		{"Duty exceeded", st.DutyExceeded},
	})
	if st.Movement == gate.DownHold {
		t.AppendRow(table.Row{"Hold remaining", st.HoldRemaining.Round(time.Millisecond).String()})
	}
	t.Render()
}
