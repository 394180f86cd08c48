// Package clock implements the date/time status block. It renders on a
// wall-clock cadence: once immediately, then at every top of minute.
package clock

import (
	"context"
	"time"

	"gitlab.com/tinyland/lab/dotstatus/pkg/blocks"
	"gitlab.com/tinyland/lab/dotstatus/pkg/protocol"
)

// DefaultFormat is the stock display layout (Go reference-time syntax),
// prefixed with the nerd-font calendar and clock glyphs.
const DefaultFormat = " 2006/01/02  15:04"

// Clock displays the current date and time.
type Clock struct {
	blocks.Base
	format string
	now    func() time.Time
}

// Option configures a Clock.
type Option func(*Clock)

// WithFormat sets the time layout string.
func WithFormat(format string) Option {
	return func(c *Clock) {
		if format != "" {
			c.format = format
		}
	}
}

// WithNow overrides the time source, for tests.
func WithNow(now func() time.Time) Option {
	return func(c *Clock) { c.now = now }
}

// New returns a clock block.
func New(printer blocks.Printer, opts ...Option) *Clock {
	c := &Clock{
		Base:   blocks.NewBase("clock", printer),
		format: DefaultFormat,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Update publishes the formatted current time.
func (c *Clock) Update(ctx context.Context) {
	c.Publish(c.now().Format(c.format))
}

// Run updates once per minute, aligned to the minute boundary so the
// display never shows a stale minute.
func (c *Clock) Run(ctx context.Context) error {
	return blocks.RunAligned(ctx, time.Minute, c.Update)
}

// OnClick refreshes the display.
func (c *Clock) OnClick(ctx context.Context, ev protocol.ClickEvent) {
	c.Update(ctx)
}
