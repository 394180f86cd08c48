package config

import (
	"fmt"
	"time"

	"gitlab.com/tinyland/lab/dotstatus/pkg/protocol"
)

// KnownBlocks lists the block-type names accepted in [general] order.
var KnownBlocks = []string{"cpu", "ram", "disk", "volume", "network", "clock"}

// Config is the root configuration for dotstatus.
type Config struct {
	General GeneralConfig `toml:"general"`
	Style   StyleConfig   `toml:"style"`
	Clock   ClockConfig   `toml:"clock"`
	CPU     CPUConfig     `toml:"cpu"`
	RAM     RAMConfig     `toml:"ram"`
	Disk    DiskConfig    `toml:"disk"`
	Volume  VolumeConfig  `toml:"volume"`
	Network NetworkConfig `toml:"network"`
}

// GeneralConfig holds settings that are not specific to one block.
type GeneralConfig struct {
	// Order is the left-to-right block order on the bar. Every entry must
	// be one of KnownBlocks; a block absent from the list is not started.
	Order []string `toml:"order"`

	// LogFile overrides the debug log location. Empty means the default
	// path under the user's data directory.
	LogFile string `toml:"log_file"`
}

// StyleConfig holds the visual style applied to every block payload.
type StyleConfig struct {
	Border       string `toml:"border"`
	BorderTop    int    `toml:"border_top"`
	BorderBottom int    `toml:"border_bottom"`
	BorderLeft   int    `toml:"border_left"`
	BorderRight  int    `toml:"border_right"`
	MinWidth     int    `toml:"min_width"`
	Align        string `toml:"align"`
}

// Apply copies the configured style onto a block payload.
func (s StyleConfig) Apply(b *protocol.Block) {
	b.Border = s.Border
	b.BorderTop = s.BorderTop
	b.BorderBottom = s.BorderBottom
	b.BorderLeft = s.BorderLeft
	b.BorderRight = s.BorderRight
	b.MinWidth = s.MinWidth
	b.Align = s.Align
}

// ClockConfig configures the date/time block.
type ClockConfig struct {
	Enabled bool   `toml:"enabled"`
	Format  string `toml:"format"`
}

// CPUConfig configures the load-average block.
type CPUConfig struct {
	Enabled  bool     `toml:"enabled"`
	Interval Duration `toml:"interval"`
}

// RAMConfig configures the available-memory block.
type RAMConfig struct {
	Enabled  bool     `toml:"enabled"`
	Interval Duration `toml:"interval"`
}

// DiskConfig configures the free-disk block.
type DiskConfig struct {
	Enabled  bool     `toml:"enabled"`
	Interval Duration `toml:"interval"`
	Mount    string   `toml:"mount"`
}

// VolumeConfig configures the mixer volume block.
type VolumeConfig struct {
	Enabled  bool     `toml:"enabled"`
	Interval Duration `toml:"interval"`
	Step     int      `toml:"step"`
	Mixer    string   `toml:"mixer"`
	MixerUI  string   `toml:"mixer_ui"`
}

// NetworkConfig configures the NetworkManager block.
type NetworkConfig struct {
	Enabled bool   `toml:"enabled"`
	Editor  string `toml:"editor"`
}

// Default returns the default configuration: all blocks enabled, 5 second
// polling, the stock i3bar style.
func Default() *Config {
	return &Config{
		General: GeneralConfig{
			Order: append([]string(nil), KnownBlocks...),
		},
		Style: StyleConfig{
			Border:       protocol.DefaultBorder,
			BorderBottom: protocol.DefaultBorderBottom,
			MinWidth:     protocol.DefaultMinWidth,
			Align:        protocol.DefaultAlign,
		},
		// An empty clock format means the block's built-in layout.
		Clock: ClockConfig{Enabled: true},
		CPU:  CPUConfig{Enabled: true, Interval: Duration{5 * time.Second}},
		RAM:  RAMConfig{Enabled: true, Interval: Duration{5 * time.Second}},
		Disk: DiskConfig{Enabled: true, Interval: Duration{5 * time.Second}, Mount: "/"},
		Volume: VolumeConfig{
			Enabled:  true,
			Interval: Duration{5 * time.Second},
			Step:     5,
			Mixer:    "pamixer",
			MixerUI:  "pavucontrol",
		},
		Network: NetworkConfig{Enabled: true, Editor: "nm-connection-editor"},
	}
}

// Validate checks the configuration for values that cannot work at runtime.
func (c *Config) Validate() error {
	known := make(map[string]bool, len(KnownBlocks))
	for _, name := range KnownBlocks {
		known[name] = true
	}
	seen := make(map[string]bool, len(c.General.Order))
	for _, name := range c.General.Order {
		if !known[name] {
			return fmt.Errorf("unknown block %q in order (known: %v)", name, KnownBlocks)
		}
		if seen[name] {
			return fmt.Errorf("block %q listed twice in order", name)
		}
		seen[name] = true
	}

	switch c.Style.Align {
	case "left", "center", "right":
	default:
		return fmt.Errorf("invalid align %q (want left, center, or right)", c.Style.Align)
	}

	for name, iv := range map[string]time.Duration{
		"cpu":    c.CPU.Interval.Duration,
		"ram":    c.RAM.Interval.Duration,
		"disk":   c.Disk.Interval.Duration,
		"volume": c.Volume.Interval.Duration,
	} {
		if iv <= 0 {
			return fmt.Errorf("%s interval must be positive", name)
		}
	}

	if c.Volume.Step < 1 || c.Volume.Step > 100 {
		return fmt.Errorf("volume step %d out of range [1,100]", c.Volume.Step)
	}
	if c.Disk.Mount == "" {
		return fmt.Errorf("disk mount must not be empty")
	}
	return nil
}
