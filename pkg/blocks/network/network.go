// Package network implements the NetworkManager status block. Unlike the
// polled blocks it is event-driven: after one initial update the loop
// blocks on a spawned `nmcli monitor` process and refreshes on every state
// change it reports. Left click opens the connection editor.
package network

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	psnet "github.com/shirou/gopsutil/v4/net"

	"gitlab.com/tinyland/lab/dotstatus/pkg/blocks"
	"gitlab.com/tinyland/lab/dotstatus/pkg/protocol"
)

// connectivity icons (nerd-font glyphs), keyed by the nmcli CONNECTIVITY
// column.
var icons = map[string]string{
	"none":    "",
	"limited": "",
	"full":    "",
}

const unknownIcon = ""

// fallbackInterval paces the loop when `nmcli monitor` cannot be started.
const fallbackInterval = 15 * time.Second

// Connection is the parsed state of the active NetworkManager connection.
type Connection struct {
	Connectivity string
	Name         string
	Device       string
}

// Network displays the active connection and its connectivity state.
type Network struct {
	blocks.Base
	editor  string
	run     blocks.Runner
	launch  func(name string, args ...string) error
	monitor func(ctx context.Context) (io.ReadCloser, error)
	log     *slog.Logger
}

// Option configures a Network block.
type Option func(*Network)

// WithRunner substitutes the external-command runner, for tests.
func WithRunner(run blocks.Runner) Option {
	return func(n *Network) { n.run = run }
}

// WithLauncher substitutes the fire-and-forget launcher, for tests.
func WithLauncher(launch func(name string, args ...string) error) Option {
	return func(n *Network) { n.launch = launch }
}

// WithMonitor substitutes the monitor-stream source, for tests.
func WithMonitor(monitor func(ctx context.Context) (io.ReadCloser, error)) Option {
	return func(n *Network) { n.monitor = monitor }
}

// New returns a network block; editor is the command launched on left click.
func New(printer blocks.Printer, editor string, log *slog.Logger, opts ...Option) *Network {
	n := &Network{
		Base:    blocks.NewBase("network", printer),
		editor:  editor,
		run:     blocks.Output,
		launch:  blocks.Launch,
		monitor: nmcliMonitor,
		log:     log,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// ParseGeneral extracts the connectivity state from terse `nmcli general`
// output (STATE:CONNECTIVITY:WIFI-HW:WIFI:WWAN-HW:WWAN).
func ParseGeneral(out string) (string, error) {
	line, _, _ := strings.Cut(out, "\n")
	fields := strings.Split(line, ":")
	if len(fields) < 2 {
		return "", fmt.Errorf("unexpected nmcli general output %q", out)
	}
	return fields[1], nil
}

// ParseActive extracts the first active connection from terse
// `nmcli connection show --active` output (NAME:UUID:TYPE:DEVICE per line).
func ParseActive(out string) (name, device string, err error) {
	line, _, _ := strings.Cut(out, "\n")
	fields := strings.Split(line, ":")
	if len(fields) < 4 {
		return "", "", fmt.Errorf("no active connection in %q", out)
	}
	return fields[0], fields[3], nil
}

// FormatConnection renders the block text for a connection state.
func FormatConnection(c Connection) string {
	icon, ok := icons[c.Connectivity]
	if !ok {
		icon = unknownIcon
	}
	return strings.TrimSpace(fmt.Sprintf("%s %s %s", icon, c.Device, c.Name))
}

// Update queries NetworkManager and publishes the active connection. When
// nmcli is unavailable it degrades to naming the first routable interface
// via gopsutil instead of going blank.
func (n *Network) Update(ctx context.Context) {
	conn, err := n.query(ctx)
	if err != nil {
		n.log.Debug("network query failed", "error", err)
		n.Publish(n.fallbackText(ctx))
		return
	}
	n.Publish(FormatConnection(conn))
}

func (n *Network) query(ctx context.Context) (Connection, error) {
	general, err := n.run(ctx, "nmcli", "--terse", "general")
	if err != nil {
		return Connection{}, fmt.Errorf("nmcli general: %w", err)
	}
	connectivity, err := ParseGeneral(general)
	if err != nil {
		return Connection{}, err
	}

	active, err := n.run(ctx, "nmcli", "--terse", "connection", "show", "--active")
	if err != nil {
		return Connection{}, fmt.Errorf("nmcli connection show: %w", err)
	}
	name, device, err := ParseActive(active)
	if err != nil {
		return Connection{}, err
	}

	return Connection{Connectivity: connectivity, Name: name, Device: device}, nil
}

// fallbackText names the first up, non-loopback interface with an address.
func (n *Network) fallbackText(ctx context.Context) string {
	ifaces, err := psnet.InterfacesWithContext(ctx)
	if err != nil {
		return unknownIcon + " --"
	}
	for _, iface := range ifaces {
		var up, loopback bool
		for _, flag := range iface.Flags {
			switch flag {
			case "up":
				up = true
			case "loopback":
				loopback = true
			}
		}
		if up && !loopback && len(iface.Addrs) > 0 {
			return fmt.Sprintf("%s %s", unknownIcon, iface.Name)
		}
	}
	return unknownIcon + " --"
}

// Run updates once, then blocks on the monitor stream and refreshes per
// reported change. If the monitor cannot be started (nmcli missing) the
// loop degrades to fixed-interval polling.
func (n *Network) Run(ctx context.Context) error {
	n.Update(ctx)

	stream, err := n.monitor(ctx)
	if err != nil {
		n.log.Debug("nmcli monitor unavailable, polling instead", "error", err)
		return blocks.RunEvery(ctx, fallbackInterval, n.Update)
	}
	defer stream.Close()

	scanner := bufio.NewScanner(stream)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		n.log.Debug("network state change", "event", scanner.Text())
		n.Update(ctx)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("nmcli monitor stream: %w", err)
	}
	return nil
}

// OnClick opens the connection editor on left click, then refreshes.
func (n *Network) OnClick(ctx context.Context, ev protocol.ClickEvent) {
	if ev.Button == 1 {
		if err := n.launch(n.editor); err != nil {
			n.log.Debug("failed to launch connection editor", "error", err)
		}
	}
	n.Update(ctx)
}

// nmcliMonitor spawns `nmcli monitor` and returns its stdout. The child is
// killed when ctx is cancelled.
func nmcliMonitor(ctx context.Context) (io.ReadCloser, error) {
	cmd := exec.CommandContext(ctx, "nmcli", "monitor")
	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	go func() { _ = cmd.Wait() }()
	return out, nil
}
