package blocks

import (
	"context"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"gitlab.com/tinyland/lab/dotstatus/pkg/protocol"
)

// MockBlock implements Block for testing. Its text, interval, and handlers
// are configurable and it records every update, click, and signal it
// receives.
type MockBlock struct {
	Base
	interval time.Duration

	updateCount atomic.Int64

	mu      sync.Mutex
	clicks  []protocol.ClickEvent
	signals []syscall.Signal
	text    string

	// UpdateFunc, if set, replaces the default Update behavior (publish the
	// configured text). It allows tests to inject dynamic text or blocking.
	UpdateFunc func(ctx context.Context)

	// ClickFunc, if set, runs before the default click behavior (Update).
	ClickFunc func(ctx context.Context, ev protocol.ClickEvent)

	// SignalFunc, if set, replaces the default no-op signal behavior.
	SignalFunc func(ctx context.Context, sig syscall.Signal)
}

// MockBlockOption configures a MockBlock.
type MockBlockOption func(*MockBlock)

// WithText sets the text published on every Update.
func WithText(text string) MockBlockOption {
	return func(m *MockBlock) { m.text = text }
}

// WithInterval sets the mock's loop interval.
func WithInterval(d time.Duration) MockBlockOption {
	return func(m *MockBlock) { m.interval = d }
}

// WithUpdateFunc sets a custom Update implementation.
func WithUpdateFunc(fn func(ctx context.Context)) MockBlockOption {
	return func(m *MockBlock) { m.UpdateFunc = fn }
}

// WithClickFunc sets a hook invoked on every routed click.
func WithClickFunc(fn func(ctx context.Context, ev protocol.ClickEvent)) MockBlockOption {
	return func(m *MockBlock) { m.ClickFunc = fn }
}

// WithSignalFunc sets a custom signal handler.
func WithSignalFunc(fn func(ctx context.Context, sig syscall.Signal)) MockBlockOption {
	return func(m *MockBlock) { m.SignalFunc = fn }
}

// NewMockBlock creates a mock block with the given type name, printer, and
// options.
func NewMockBlock(name string, printer Printer, opts ...MockBlockOption) *MockBlock {
	m := &MockBlock{
		Base:     NewBase(name, printer),
		interval: time.Hour, // effectively manual unless overridden
		text:     name,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Update publishes the configured text (or runs UpdateFunc) and counts the
// call.
func (m *MockBlock) Update(ctx context.Context) {
	m.updateCount.Add(1)
	if m.UpdateFunc != nil {
		m.UpdateFunc(ctx)
		return
	}
	m.mu.Lock()
	text := m.text
	m.mu.Unlock()
	m.Publish(text)
}

// Run loops Update on the configured interval.
func (m *MockBlock) Run(ctx context.Context) error {
	return RunEvery(ctx, m.interval, m.Update)
}

// OnClick records the event, runs ClickFunc if set, then updates.
func (m *MockBlock) OnClick(ctx context.Context, ev protocol.ClickEvent) {
	m.mu.Lock()
	m.clicks = append(m.clicks, ev)
	m.mu.Unlock()
	if m.ClickFunc != nil {
		m.ClickFunc(ctx, ev)
	}
	m.Update(ctx)
}

// OnSignal records the signal and runs SignalFunc if set.
func (m *MockBlock) OnSignal(ctx context.Context, sig syscall.Signal) {
	m.mu.Lock()
	m.signals = append(m.signals, sig)
	m.mu.Unlock()
	if m.SignalFunc != nil {
		m.SignalFunc(ctx, sig)
	}
}

// SetText changes the text published by subsequent Updates (thread-safe).
func (m *MockBlock) SetText(text string) {
	m.mu.Lock()
	m.text = text
	m.mu.Unlock()
}

// UpdateCount returns how many times Update has been called.
func (m *MockBlock) UpdateCount() int64 {
	return m.updateCount.Load()
}

// Clicks returns a copy of all recorded click events.
func (m *MockBlock) Clicks() []protocol.ClickEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]protocol.ClickEvent, len(m.clicks))
	copy(out, m.clicks)
	return out
}

// Signals returns a copy of all recorded signals.
func (m *MockBlock) Signals() []syscall.Signal {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]syscall.Signal, len(m.signals))
	copy(out, m.signals)
	return out
}
