// Package statusline implements the dotstatus engine: the renderer that
// turns the block registry into i3bar protocol lines, the router that
// dispatches inbound click events, the signal broadcaster, and the
// supervisor that runs one loop per block.
//
//   - i3bar stdout: JSON click events -> stdin of the status command
//   - status command stdout: status line JSON -> read by i3bar
//
// doc: https://i3wm.org/docs/i3bar-protocol.html
package statusline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/creachadair/taskgroup"

	"gitlab.com/tinyland/lab/dotstatus/pkg/blocks"
)

// Engine owns the registry and runs all concurrent loops: one per block,
// one for the click-event router, one for the signal broadcaster. Lifetime
// equals process lifetime; the only shutdown path is ctx cancellation.
type Engine struct {
	reg       *blocks.Registry
	renderer  *Renderer
	router    *Router
	broadcast *Broadcaster
	in        io.Reader
	log       *slog.Logger
}

// New creates an engine rendering to out and reading click events from in.
func New(out io.Writer, in io.Reader, reg *blocks.Registry, log *slog.Logger) *Engine {
	return &Engine{
		reg:       reg,
		renderer:  NewRenderer(out, reg, log),
		router:    NewRouter(reg, log),
		broadcast: NewBroadcaster(reg, log),
		in:        in,
		log:       log,
	}
}

// Print implements blocks.Printer: every block requests renders through the
// engine.
func (e *Engine) Print() {
	e.renderer.Print()
}

// Register adds a block to the engine's registry and returns its instance
// id. Must be called before Run; the registry is structurally frozen once
// loops start.
func (e *Engine) Register(b blocks.Block) (string, error) {
	return e.reg.Register(b)
}

// Run writes the protocol preamble, then starts every block loop, the click
// router, and the signal broadcaster, and blocks until ctx is cancelled.
// A failed preamble write is fatal (nothing can work without the output
// stream); individual loop errors are logged and absorbed.
func (e *Engine) Run(ctx context.Context, extraSignals ...os.Signal) error {
	if err := e.renderer.WritePreamble(); err != nil {
		return err
	}

	sigs := append([]os.Signal{RefreshSignal}, extraSignals...)
	e.broadcast.Notify(sigs...)

	var g taskgroup.Group

	for _, b := range e.reg.Blocks() {
		b := b // per-iteration copy; required while go.mod targets pre-1.22
		g.Go(func() error {
			if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				e.log.Error("block loop exited", "name", b.Name(), "instance", b.Instance(), "error", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		_ = e.broadcast.Run(ctx)
		return nil
	})

	// The router blocks in a stdin read that only process exit interrupts,
	// so it runs outside the group; waiting on it would wedge shutdown.
	go func() {
		if err := e.router.Run(ctx, e.in); err != nil && !errors.Is(err, context.Canceled) {
			e.log.Error("click router exited", "error", err)
		}
	}()

	<-ctx.Done()
	g.Wait()
	return ctx.Err()
}
