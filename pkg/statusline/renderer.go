package statusline

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"gitlab.com/tinyland/lab/dotstatus/pkg/blocks"
	"gitlab.com/tinyland/lab/dotstatus/pkg/protocol"
)

// Renderer serializes the registry snapshot into protocol lines. The output
// stream is the only mutable resource shared across blocks, so a single
// mutex serializes all writes; every render request is carried out fully and
// synchronously, which means the last request before an idle period is
// always flushed.
type Renderer struct {
	mu  sync.Mutex
	w   io.Writer
	reg *blocks.Registry
	log *slog.Logger
}

// NewRenderer returns a renderer writing protocol lines for reg to w.
func NewRenderer(w io.Writer, reg *blocks.Registry, log *slog.Logger) *Renderer {
	return &Renderer{w: w, reg: reg, log: log}
}

// WritePreamble emits the protocol header, the opening of the infinite
// array, and an empty first element so every subsequent line can uniformly
// start with a comma. Written exactly once, before any block loop starts.
func (r *Renderer) WritePreamble() error {
	header, err := json.Marshal(protocol.DefaultHeader())
	if err != nil {
		return fmt.Errorf("marshal header: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := fmt.Fprintf(r.w, "%s\n[\n[]\n", header); err != nil {
		return fmt.Errorf("write preamble: %w", err)
	}
	return nil
}

// Print writes one output line: a comma followed by the JSON array of every
// registered block's payload snapshot, in registration order. Write failures
// are logged, not propagated; the bar going away takes the process with it
// soon enough.
func (r *Renderer) Print() {
	bs := r.reg.Blocks()
	payloads := make([]protocol.Block, 0, len(bs))
	for _, b := range bs {
		payloads = append(payloads, b.Payload())
	}

	line, err := json.Marshal(payloads)
	if err != nil {
		r.log.Error("marshal status line", "error", err)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := fmt.Fprintf(r.w, ",%s\n", line); err != nil {
		r.log.Error("write status line", "error", err)
	}
}
