// Command gatectl runs the level-crossing gate controller: a
// single-threaded polling loop wired to a selectable I/O backend and an
// optional interactive dashboard. Grounded on the teacher's main.go
// top-level bus wiring, replacing its embedded HAL/power/UART domain with
// this one's ioboard/blink/duty/sensor/gate stack.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/srmuseum/gatekeeper/bus"
	"github.com/srmuseum/gatekeeper/internal/blink"
	"github.com/srmuseum/gatekeeper/internal/console"
	"github.com/srmuseum/gatekeeper/internal/duty"
	"github.com/srmuseum/gatekeeper/internal/gate"
	"github.com/srmuseum/gatekeeper/internal/heartbeat"
	"github.com/srmuseum/gatekeeper/internal/ioboard"
	"github.com/srmuseum/gatekeeper/internal/sensor"
	"github.com/srmuseum/gatekeeper/internal/ui/table"
	"github.com/srmuseum/gatekeeper/internal/ui/tui"
)

// pollPeriod is the loop's wall-clock cadence: a cooperative poll, not an
// interrupt-driven one. This is the rate at which the raw sensor pin is
// sampled and the FSM is stepped.
const pollPeriod = 25 * time.Millisecond

// maxBlinkSlots bounds the blink scheduler: exactly one live pair
// (left+right crossing lights) is ever required.
const maxBlinkSlots = 4

func main() {
	app := &cli.App{
		Name:  "gatectl",
		Usage: "run the museum level-crossing gate controller",
		Commands: []*cli.Command{
			runCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "gatectl:", err)
		os.Exit(1)
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "start the controller",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "backend", Value: "fake", Usage: "io backend: fake|hw"},
			&cli.StringFlag{Name: "ui", Value: "plain", Usage: "ui mode: plain|tui|none"},
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "zap log level: debug|info|warn|error"},
		},
		Action: runAction,
	}
}

func runAction(c *cli.Context) error {
	diag, err := buildLogger(c.String("log-level"))
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer diag.Sync() //nolint:errcheck // best-effort flush on exit

	board, closeBoard, err := buildBoard(c.String("backend"))
	if err != nil {
		return fmt.Errorf("build io backend: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	b := bus.NewBus(8)
	gateConn := b.NewConnection("gate")
	consoleConn := b.NewConnection("console")
	heartbeatConn := b.NewConnection("heartbeat")
	uiConn := b.NewConnection("ui")

	clk := ioboard.NewRealClock()
	sched := blink.NewScheduler(board, clk, maxBlinkSlots)
	gov := duty.New(clk.Now())
	ctl := gate.New(board, sched, gov, clk, gateConn, diag.Sugar())
	deb := sensor.New(board)
	deb.OnCommit = func(r sensor.Reading) {
		if r == sensor.Occupied {
			ctl.PublishLine("Track Sensor: Detected")
		} else {
			ctl.PublishLine("Track Sensor: Cleared")
		}
	}

	printer := console.New(consoleConn)
	go printer.Run(ctx)

	hb := heartbeat.New()
	if err := hb.Start(ctx, heartbeatConn); err != nil {
		return fmt.Errorf("start heartbeat: %w", err)
	}

	if err := ctl.Start(clk.Now()); err != nil {
		return fmt.Errorf("start controller: %w", err)
	}

	loopDone := make(chan error, 1)
	go runLoop(ctx, ctl, deb, board, clk, loopDone)

	uiErr := runUI(ctx, c.String("ui"), uiConn)

	// The UI returning, whether from a signal or the operator quitting the
	// TUI, ends the run; cancel stops the poll loop either way.
	cancel()
	loopErr := <-loopDone

	closeErr := closeBoard()
	return multierr.Combine(loopErr, uiErr, closeErr)
}

// runLoop is the cooperative polling loop: sample the raw sensor pin,
// debounce it, step the controller, repeat at pollPeriod until ctx is
// cancelled.
func runLoop(ctx context.Context, ctl *gate.Controller, deb *sensor.Debouncer, board ioboard.Board, clk ioboard.Clock, done chan<- error) {
	ticker := time.NewTicker(pollPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			done <- nil
			return
		case <-ticker.C:
			now := clk.Now()
			raw := sensor.ReadingFromBoard(board)
			reading := deb.Sample(raw, now)
			ctl.Step(now, reading)
		}
	}
}

func runUI(ctx context.Context, mode string, conn *bus.Connection) error {
	switch mode {
	case "none":
		<-ctx.Done()
		return nil
	case "tui":
		p := tea.NewProgram(tui.New(conn), tea.WithContext(ctx))
		_, err := p.Run()
		return err
	default: // "plain"
		return runPlainUI(ctx, conn)
	}
}

// runPlainUI re-renders a plain status table each time the controller
// publishes a retained snapshot, for operators without a TTY suited to
// the bubbletea dashboard.
func runPlainUI(ctx context.Context, conn *bus.Connection) error {
	sub := conn.Subscribe(gate.TopicStatus)
	defer conn.Unsubscribe(sub)

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-sub.Channel():
			if msg == nil {
				return nil
			}
			if st, ok := msg.Payload.(gate.Status); ok {
				table.Render(os.Stdout, st)
			}
		}
	}
}

func buildLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	var lvl zapcore.Level
	switch level {
	case "debug":
		lvl = zapcore.DebugLevel
	case "warn":
		lvl = zapcore.WarnLevel
	case "error":
		lvl = zapcore.ErrorLevel
	default:
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func buildBoard(backend string) (ioboard.Board, func() error, error) {
	switch backend {
	case "hw":
		hw, err := ioboard.NewHW()
		if err != nil {
			return nil, nil, err
		}
		return hw, hw.Close, nil
	default: // "fake"
		f := ioboard.NewFake()
		return f, f.Close, nil
	}
}
