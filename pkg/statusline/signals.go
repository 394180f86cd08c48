package statusline

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"gitlab.com/tinyland/lab/dotstatus/pkg/blocks"
)

// Broadcaster forwards process signals to every registered block. Handlers
// run on the broadcaster's own goroutine, never on the runtime's signal
// delivery path, so a block handler can safely take the same per-block lock
// its loop uses.
type Broadcaster struct {
	reg *blocks.Registry
	log *slog.Logger
	ch  chan os.Signal
}

// NewBroadcaster returns a broadcaster for reg. Notify must be called before
// Run.
func NewBroadcaster(reg *blocks.Registry, log *slog.Logger) *Broadcaster {
	return &Broadcaster{
		reg: reg,
		log: log,
		ch:  make(chan os.Signal, 1),
	}
}

// Notify registers interest in the given signals with the runtime.
func (b *Broadcaster) Notify(sigs ...os.Signal) {
	signal.Notify(b.ch, sigs...)
}

// Run delivers received signals to all blocks until ctx is cancelled.
func (b *Broadcaster) Run(ctx context.Context) error {
	defer signal.Stop(b.ch)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sig := <-b.ch:
			b.Broadcast(ctx, sig)
		}
	}
}

// Broadcast invokes OnSignal on every block in registration order.
func (b *Broadcaster) Broadcast(ctx context.Context, sig os.Signal) {
	num, ok := sig.(syscall.Signal)
	if !ok {
		return
	}
	b.log.Debug("broadcasting signal", "signal", num)
	for _, blk := range b.reg.Blocks() {
		blk.OnSignal(ctx, num)
	}
}
