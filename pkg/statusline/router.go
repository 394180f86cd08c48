package statusline

import (
	"bufio"
	"context"
	"io"
	"log/slog"

	"gitlab.com/tinyland/lab/dotstatus/pkg/blocks"
	"gitlab.com/tinyland/lab/dotstatus/pkg/protocol"
)

// Router reads click-event lines from the bar and dispatches each to the
// owning block. Events are handled strictly in order: a block's click
// handler (including the render it triggers) completes before the next line
// is read.
type Router struct {
	reg *blocks.Registry
	log *slog.Logger
}

// NewRouter returns a router dispatching into reg.
func NewRouter(reg *blocks.Registry, log *slog.Logger) *Router {
	return &Router{reg: reg, log: log}
}

// Run reads input line by line until EOF or ctx cancellation. Malformed
// lines and unknown instance ids never terminate the loop.
func (r *Router) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		r.handleLine(ctx, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return nil
}

// handleLine decodes one input line and dispatches it. Preamble framing is
// skipped, decode failures are logged and dropped, and a click referencing
// an unknown instance (stale event) is silently ignored.
func (r *Router) handleLine(ctx context.Context, line string) {
	ev, ok, err := protocol.ParseClick(line)
	if err != nil {
		r.log.Debug("skipping malformed click line", "line", line, "error", err)
		return
	}
	if !ok {
		return
	}

	b, found := r.reg.Get(ev.Instance)
	if !found {
		return
	}

	r.log.Debug("click event", "name", ev.Name, "instance", ev.Instance, "button", ev.Button)
	b.OnClick(ctx, ev)
}
