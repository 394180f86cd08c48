// Package volume implements the mixer volume status block backed by
// pamixer. Left click toggles mute, right click opens the mixer UI, and the
// scroll wheel adjusts the level. The block is signal-aware: an external
// volume change (keyboard media keys) can force a refresh by sending the
// statusline refresh signal.
package volume

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"syscall"
	"time"

	"gitlab.com/tinyland/lab/dotstatus/pkg/blocks"
	"gitlab.com/tinyland/lab/dotstatus/pkg/protocol"
	"gitlab.com/tinyland/lab/dotstatus/pkg/statusline"
)

// nerd-font glyphs: volume-off, volume-up.
const (
	mutedIcon   = ""
	unmutedIcon = ""
	degraded    = " --"
)

// Status is the parsed result of one mixer query.
type Status struct {
	Muted  bool
	Volume int
}

// Volume displays and controls the mixer level.
type Volume struct {
	blocks.Base
	interval time.Duration
	step     int
	mixer    string
	mixerUI  string
	run      blocks.Runner
	launch   func(name string, args ...string) error
}

// Option configures a Volume block.
type Option func(*Volume)

// WithRunner substitutes the external-command runner, for tests.
func WithRunner(run blocks.Runner) Option {
	return func(v *Volume) { v.run = run }
}

// WithLauncher substitutes the fire-and-forget launcher, for tests.
func WithLauncher(launch func(name string, args ...string) error) Option {
	return func(v *Volume) { v.launch = launch }
}

// New returns a volume block. step is the percentage change per scroll
// notch; mixer and mixerUI are the pamixer and pavucontrol command names.
func New(printer blocks.Printer, interval time.Duration, step int, mixer, mixerUI string, opts ...Option) *Volume {
	v := &Volume{
		Base:     blocks.NewBase("volume", printer),
		interval: interval,
		step:     step,
		mixer:    mixer,
		mixerUI:  mixerUI,
		run:      blocks.Output,
		launch:   blocks.Launch,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ParseStatus parses `pamixer --get-mute --get-volume` output, which is a
// mute boolean and a volume percentage separated by whitespace
// (e.g. "false 42").
func ParseStatus(out string) (Status, error) {
	fields := strings.Fields(out)
	if len(fields) < 2 {
		return Status{}, fmt.Errorf("unexpected mixer output %q", out)
	}
	muted, err := strconv.ParseBool(fields[0])
	if err != nil {
		return Status{}, fmt.Errorf("unexpected mute state %q", fields[0])
	}
	vol, err := strconv.Atoi(fields[1])
	if err != nil {
		return Status{}, fmt.Errorf("unexpected volume %q", fields[1])
	}
	return Status{Muted: muted, Volume: vol}, nil
}

// Update queries the mixer and publishes the current level. pamixer exits
// non-zero when the sink is muted, so command failure with output is still
// parsed; only an unparseable result degrades the display.
func (v *Volume) Update(ctx context.Context) {
	out, _ := v.run(ctx, v.mixer, "--get-mute", "--get-volume")
	st, err := ParseStatus(out)
	if err != nil {
		v.Publish(fmt.Sprintf("%s%s", unmutedIcon, degraded))
		return
	}
	icon := unmutedIcon
	if st.Muted {
		icon = mutedIcon
	}
	v.Publish(fmt.Sprintf("%s %d%%", icon, st.Volume))
}

// Run polls on the configured interval as a backstop; clicks and signals
// refresh immediately.
func (v *Volume) Run(ctx context.Context) error {
	return blocks.RunEvery(ctx, v.interval, v.Update)
}

// OnClick maps buttons to mixer actions, then refreshes:
// 1 toggles mute, 3 opens the mixer UI, 4/5 step the volume up/down.
func (v *Volume) OnClick(ctx context.Context, ev protocol.ClickEvent) {
	switch ev.Button {
	case 1:
		_, _ = v.run(ctx, v.mixer, "--toggle-mute")
	case 3:
		_ = v.launch(v.mixerUI)
	case 4:
		_, _ = v.run(ctx, v.mixer, "--increase", strconv.Itoa(v.step))
	case 5:
		_, _ = v.run(ctx, v.mixer, "--decrease", strconv.Itoa(v.step))
	}
	v.Update(ctx)
}

// OnSignal refreshes on the statusline refresh signal and ignores
// everything else.
func (v *Volume) OnSignal(ctx context.Context, sig syscall.Signal) {
	if sig == statusline.RefreshSignal {
		v.Update(ctx)
	}
}
