// Package blocks defines the interface, base state, and registry for
// dotstatus status-line blocks. Each block (clock, cpu, ram, disk, volume,
// network) implements the Block interface and is registered with the
// Registry at startup; the statusline engine runs one loop per block and
// renders the registry snapshot on every change.
package blocks

import (
	"context"
	"sync"
	"syscall"

	"gitlab.com/tinyland/lab/dotstatus/pkg/protocol"
)

// Printer is the render-request sink handed to every block. The statusline
// engine implements it; calling Print emits one full output line from the
// current registry snapshot.
type Printer interface {
	Print()
}

// Block is the interface all status-line segments implement.
type Block interface {
	// Name returns the block-type identifier (e.g., "volume"), shared by
	// all instances of the same type.
	Name() string

	// Instance returns the process-unique instance id assigned at
	// registration. Empty until the block is registered.
	Instance() string

	// Payload returns a snapshot copy of the block's current render state.
	Payload() protocol.Block

	// Update synchronously recomputes the render payload from the block's
	// data source and requests a render. Data-source failures are absorbed
	// here: the payload degrades, the error never escapes.
	Update(ctx context.Context)

	// Run is the block's long-running update loop. It returns only when ctx
	// is cancelled; any other error is logged by the engine, never fatal.
	Run(ctx context.Context) error

	// OnClick handles one click event routed to this block.
	OnClick(ctx context.Context, ev protocol.ClickEvent)

	// OnSignal reacts to a broadcast process signal. Blocks that do not
	// care inherit a no-op.
	OnSignal(ctx context.Context, sig syscall.Signal)
}

// Base carries the mutable render payload shared by all block
// implementations. The payload is only ever written by its own block's loop
// or click/signal handler, so a single per-block mutex is enough; no
// cross-block locking exists anywhere.
type Base struct {
	mu      sync.Mutex
	payload protocol.Block
	printer Printer
}

// NewBase returns a Base with the default style payload for the given
// block-type name.
func NewBase(name string, printer Printer) Base {
	return Base{
		payload: protocol.NewBlock(name),
		printer: printer,
	}
}

// Name returns the block-type identifier.
func (b *Base) Name() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.payload.Name
}

// Instance returns the registered instance id.
func (b *Base) Instance() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.payload.Instance
}

// setInstance is called exactly once by the Registry.
func (b *Base) setInstance(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.payload.Instance = id
}

// Payload returns a snapshot copy of the current render state.
func (b *Base) Payload() protocol.Block {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.payload
}

// Publish atomically replaces the display text and requests a render.
func (b *Base) Publish(fullText string) {
	b.mu.Lock()
	b.payload.FullText = fullText
	b.mu.Unlock()
	if b.printer != nil {
		b.printer.Print()
	}
}

// SetStyle overrides the style fields of the payload. Called during block
// construction, before the loop starts.
func (b *Base) SetStyle(apply func(*protocol.Block)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	apply(&b.payload)
}

// OnSignal is the default no-op signal handler.
func (b *Base) OnSignal(ctx context.Context, sig syscall.Signal) {}
