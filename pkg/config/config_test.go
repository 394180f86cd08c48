package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"gitlab.com/tinyland/lab/dotstatus/pkg/protocol"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadFromReader(t *testing.T) {
	doc := `
[general]
order = ["clock", "volume"]

[clock]
enabled = true
format = "15:04:05"

[volume]
enabled = true
interval = "2s"
step = 10

[disk]
enabled = false
mount = "/home"
`
	cfg, err := LoadFromReader(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	if len(cfg.General.Order) != 2 || cfg.General.Order[0] != "clock" {
		t.Errorf("Order = %v, want [clock volume]", cfg.General.Order)
	}
	if cfg.Clock.Format != "15:04:05" {
		t.Errorf("clock format = %q", cfg.Clock.Format)
	}
	if cfg.Volume.Interval.Duration != 2*time.Second {
		t.Errorf("volume interval = %v, want 2s", cfg.Volume.Interval.Duration)
	}
	if cfg.Volume.Step != 10 {
		t.Errorf("volume step = %d, want 10", cfg.Volume.Step)
	}
	if cfg.Disk.Enabled {
		t.Error("disk should be disabled")
	}
	// Untouched sections keep their defaults.
	if !cfg.CPU.Enabled || cfg.CPU.Interval.Duration != 5*time.Second {
		t.Errorf("cpu defaults lost: %+v", cfg.CPU)
	}
}

func TestLoadFromReaderBadTOML(t *testing.T) {
	if _, err := LoadFromReader(strings.NewReader("order = [")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown block", func(c *Config) { c.General.Order = []string{"battery"} }},
		{"duplicate block", func(c *Config) { c.General.Order = []string{"cpu", "cpu"} }},
		{"bad align", func(c *Config) { c.Style.Align = "middle" }},
		{"zero interval", func(c *Config) { c.CPU.Interval = Duration{} }},
		{"step too small", func(c *Config) { c.Volume.Step = 0 }},
		{"step too large", func(c *Config) { c.Volume.Step = 150 }},
		{"empty mount", func(c *Config) { c.Disk.Mount = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestDurationUnmarshal(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"5s", 5 * time.Second, false},
		{"1h", time.Hour, false},
		{"", 0, false},
		{"-5s", 0, true},
		{"soon", 0, true},
	}

	for _, tt := range tests {
		var d Duration
		err := d.UnmarshalText([]byte(tt.in))
		if tt.wantErr {
			if err == nil {
				t.Errorf("UnmarshalText(%q) should fail", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("UnmarshalText(%q) failed: %v", tt.in, err)
			continue
		}
		if d.Duration != tt.want {
			t.Errorf("UnmarshalText(%q) = %v, want %v", tt.in, d.Duration, tt.want)
		}
	}
}

func TestStyleApply(t *testing.T) {
	s := StyleConfig{
		Border:       "#1d2021",
		BorderTop:    1,
		BorderBottom: 0,
		MinWidth:     75,
		Align:        "left",
	}
	b := protocol.NewBlock("cpu")
	s.Apply(&b)

	if b.Border != "#1d2021" || b.BorderTop != 1 || b.BorderBottom != 0 {
		t.Errorf("borders not applied: %+v", b)
	}
	if b.MinWidth != 75 || b.Align != "left" {
		t.Errorf("width/align not applied: %+v", b)
	}
}

func TestLoadFromFileMissingIsError(t *testing.T) {
	cfg, err := LoadFromFile("/nonexistent/dotstatus/config.toml")
	if err == nil {
		t.Fatal("expected an error for an explicitly named missing file")
	}
	if !os.IsNotExist(err) {
		t.Errorf("expected a not-exist error, got %v", err)
	}
	if cfg != nil {
		t.Errorf("expected nil config on error, got %+v", cfg)
	}
}

func TestLogFileEnvOverride(t *testing.T) {
	t.Setenv("DOTSTATUS_LOG_FILE", "/tmp/dotstatus-test.log")

	cfg, err := LoadFromReader(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadFromReader failed: %v", err)
	}
	if cfg.LogFile() != "/tmp/dotstatus-test.log" {
		t.Errorf("LogFile = %q, want env override", cfg.LogFile())
	}
}
