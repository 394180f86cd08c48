package network

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"gitlab.com/tinyland/lab/dotstatus/pkg/protocol"
)

type nopPrinter struct{ count atomic.Int64 }

func (p *nopPrinter) Print() { p.count.Add(1) }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// nmcliStub answers the two query invocations the block makes.
func nmcliStub(general, active string) func(ctx context.Context, name string, args ...string) (string, error) {
	return func(ctx context.Context, name string, args ...string) (string, error) {
		if name != "nmcli" {
			return "", errors.New("unexpected command " + name)
		}
		if args[1] == "general" {
			return general, nil
		}
		return active, nil
	}
}

func TestParseGeneral(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"connected:full:enabled:enabled:enabled:enabled", "full", false},
		{"connected (site only):limited:enabled:enabled:enabled:enabled", "limited", false},
		{"disconnected:none:enabled:disabled:enabled:disabled", "none", false},
		{"connected:full:enabled:enabled:enabled:enabled\nsecond line", "full", false},
		{"garbage", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseGeneral(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseGeneral(%q) should fail", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseGeneral(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseGeneral(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseActive(t *testing.T) {
	name, device, err := ParseActive("wifi-home:3fe2:802-11-wireless:wlan0\nlo-conn:aaaa:loopback:lo")
	if err != nil {
		t.Fatalf("ParseActive failed: %v", err)
	}
	if name != "wifi-home" || device != "wlan0" {
		t.Errorf("got name=%q device=%q, want wifi-home/wlan0", name, device)
	}

	if _, _, err := ParseActive(""); err == nil {
		t.Error("ParseActive of empty output should fail")
	}
}

func TestFormatConnection(t *testing.T) {
	tests := []struct {
		conn Connection
		want string
	}{
		{Connection{Connectivity: "full", Name: "wifi-home", Device: "wlan0"}, icons["full"] + " wlan0 wifi-home"},
		{Connection{Connectivity: "none", Name: "eth", Device: "eth0"}, icons["none"] + " eth0 eth"},
		{Connection{Connectivity: "portal", Name: "cafe", Device: "wlan0"}, unknownIcon + " wlan0 cafe"},
	}

	for _, tt := range tests {
		if got := FormatConnection(tt.conn); got != tt.want {
			t.Errorf("FormatConnection(%+v) = %q, want %q", tt.conn, got, tt.want)
		}
	}
}

func TestUpdatePublishesConnection(t *testing.T) {
	printer := &nopPrinter{}
	n := New(printer, "nm-connection-editor", testLogger(),
		WithRunner(nmcliStub(
			"connected:full:enabled:enabled:enabled:enabled",
			"wifi-home:3fe2:802-11-wireless:wlan0",
		)),
	)

	n.Update(context.Background())

	want := icons["full"] + " wlan0 wifi-home"
	if got := n.Payload().FullText; got != want {
		t.Errorf("FullText = %q, want %q", got, want)
	}
	if printer.count.Load() != 1 {
		t.Errorf("render requests = %d, want 1", printer.count.Load())
	}
}

func TestUpdateDegradesWhenNmcliFails(t *testing.T) {
	n := New(&nopPrinter{}, "nm-connection-editor", testLogger(),
		WithRunner(func(ctx context.Context, name string, args ...string) (string, error) {
			return "", errors.New("exec: nmcli: not found")
		}),
	)

	n.Update(context.Background())

	// Fallback still renders something instead of crashing the loop.
	if n.Payload().FullText == "" {
		t.Error("degraded update left the payload empty")
	}
}

func TestRunRefreshesPerMonitorEvent(t *testing.T) {
	printer := &nopPrinter{}
	monitorEvents := "wlan0: connected\nconnectivity is now 'full'\n"
	n := New(printer, "nm-connection-editor", testLogger(),
		WithRunner(nmcliStub(
			"connected:full:enabled:enabled:enabled:enabled",
			"wifi-home:3fe2:802-11-wireless:wlan0",
		)),
		WithMonitor(func(ctx context.Context) (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(monitorEvents)), nil
		}),
	)

	if err := n.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// One initial update plus one per monitor line.
	if got := printer.count.Load(); got != 3 {
		t.Errorf("render requests = %d, want 3", got)
	}
}

func TestRunFallsBackToPollingWithoutMonitor(t *testing.T) {
	printer := &nopPrinter{}
	n := New(printer, "nm-connection-editor", testLogger(),
		WithRunner(nmcliStub(
			"connected:full:enabled:enabled:enabled:enabled",
			"wifi-home:3fe2:802-11-wireless:wlan0",
		)),
		WithMonitor(func(ctx context.Context) (io.ReadCloser, error) {
			return nil, errors.New("nmcli missing")
		}),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- n.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for printer.count.Load() < 2 {
		select {
		case err := <-done:
			t.Fatalf("Run exited early: %v", err)
		case <-deadline:
			t.Fatal("polling fallback never updated twice")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run = %v, want canceled", err)
	}
}

func TestOnClickLaunchesEditor(t *testing.T) {
	var mu sync.Mutex
	var launched []string
	n := New(&nopPrinter{}, "nm-connection-editor", testLogger(),
		WithRunner(nmcliStub(
			"connected:full:enabled:enabled:enabled:enabled",
			"wifi-home:3fe2:802-11-wireless:wlan0",
		)),
		WithLauncher(func(name string, args ...string) error {
			mu.Lock()
			launched = append(launched, name)
			mu.Unlock()
			return nil
		}),
	)
	ctx := context.Background()

	n.OnClick(ctx, protocol.ClickEvent{Button: 1})
	n.OnClick(ctx, protocol.ClickEvent{Button: 3})

	mu.Lock()
	defer mu.Unlock()
	if len(launched) != 1 || launched[0] != "nm-connection-editor" {
		t.Errorf("launched = %v, want editor exactly once (left click only)", launched)
	}
}
