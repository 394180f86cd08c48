package blocks

import (
	"fmt"
	"strconv"
	"sync"
)

// instanceSetter is implemented by Base; the Registry assigns instance ids
// through it at registration time.
type instanceSetter interface {
	setInstance(id string)
}

// Registry holds the ordered set of registered blocks. Registration order is
// the left-to-right render order. Structure is write-once at startup, then
// read concurrently by the renderer and event router; it is safe for
// concurrent use.
type Registry struct {
	mu     sync.RWMutex
	order  []Block
	byID   map[string]Block
	nextID uint64
}

// NewRegistry returns an empty registry ready for block registration.
func NewRegistry() *Registry {
	return &Registry{
		byID: make(map[string]Block),
	}
}

// Register assigns the block a fresh instance id, inserts it in call order,
// and returns the id. Ids are a monotonic counter rendered as a string;
// they are stable and never reused for the process lifetime. A duplicate id
// is a programmer error and unreachable in correct use.
//
// The block must embed Base: without an assignable instance id its payload
// would carry an empty instance field and clicks could never route to it.
func (r *Registry) Register(b Block) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := b.(instanceSetter)
	if !ok {
		return "", fmt.Errorf("block %q does not embed blocks.Base; cannot assign an instance id", b.Name())
	}

	r.nextID++
	id := strconv.FormatUint(r.nextID, 10)
	if _, exists := r.byID[id]; exists {
		return "", fmt.Errorf("block instance %q already registered", id)
	}

	s.setInstance(id)
	r.byID[id] = b
	r.order = append(r.order, b)
	return id, nil
}

// Get returns the block owning the given instance id. A miss is a normal
// condition (stale click event) and must be ignored silently by callers.
func (r *Registry) Get(id string) (Block, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.byID[id]
	return b, ok
}

// Blocks returns a snapshot of all registered blocks in registration order.
func (r *Registry) Blocks() []Block {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Block, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered blocks.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
