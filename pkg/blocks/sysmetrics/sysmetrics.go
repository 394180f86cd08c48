// Package sysmetrics provides the CPU load, available-memory, and free-disk
// status blocks. It uses gopsutil so the same code works on Linux and
// Darwin without /proc parsing.
package sysmetrics

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"

	"gitlab.com/tinyland/lab/dotstatus/pkg/blocks"
	"gitlab.com/tinyland/lab/dotstatus/pkg/protocol"
)

// nerd-font glyphs: microchip, memory, hdd.
const (
	cpuIcon  = ""
	ramIcon  = ""
	diskIcon = ""

	// degraded replaces the value when the data source fails; the loop
	// keeps running and recovers on its next cycle.
	degraded = "--"
)

// CPU displays the 5-minute load average.
type CPU struct {
	blocks.Base
	interval time.Duration
	loadAvg  func(ctx context.Context) (*load.AvgStat, error)
}

// NewCPU returns a load-average block polling at the given interval.
func NewCPU(printer blocks.Printer, interval time.Duration) *CPU {
	return &CPU{
		Base:     blocks.NewBase("cpu", printer),
		interval: interval,
		loadAvg:  load.AvgWithContext,
	}
}

// Update publishes the current 5-minute load average.
func (c *CPU) Update(ctx context.Context) {
	avg, err := c.loadAvg(ctx)
	if err != nil {
		c.Publish(fmt.Sprintf("%s %s", cpuIcon, degraded))
		return
	}
	c.Publish(fmt.Sprintf("%s %.2f", cpuIcon, avg.Load5))
}

// Run polls on the configured interval.
func (c *CPU) Run(ctx context.Context) error {
	return blocks.RunEvery(ctx, c.interval, c.Update)
}

// OnClick refreshes the display.
func (c *CPU) OnClick(ctx context.Context, ev protocol.ClickEvent) {
	c.Update(ctx)
}

// RAM displays available physical memory.
type RAM struct {
	blocks.Base
	interval time.Duration
	virtual  func(ctx context.Context) (*mem.VirtualMemoryStat, error)
}

// NewRAM returns an available-memory block polling at the given interval.
func NewRAM(printer blocks.Printer, interval time.Duration) *RAM {
	return &RAM{
		Base:     blocks.NewBase("ram", printer),
		interval: interval,
		virtual:  mem.VirtualMemoryWithContext,
	}
}

// Update publishes the amount of memory available to new workloads.
func (r *RAM) Update(ctx context.Context) {
	vm, err := r.virtual(ctx)
	if err != nil {
		r.Publish(fmt.Sprintf("%s %s", ramIcon, degraded))
		return
	}
	r.Publish(fmt.Sprintf("%s %s", ramIcon, humanize.IBytes(vm.Available)))
}

// Run polls on the configured interval.
func (r *RAM) Run(ctx context.Context) error {
	return blocks.RunEvery(ctx, r.interval, r.Update)
}

// OnClick refreshes the display.
func (r *RAM) OnClick(ctx context.Context, ev protocol.ClickEvent) {
	r.Update(ctx)
}

// Disk displays free space for one mount point.
type Disk struct {
	blocks.Base
	interval time.Duration
	mount    string
	usage    func(ctx context.Context, path string) (*disk.UsageStat, error)
}

// NewDisk returns a free-disk block for the given mount point.
func NewDisk(printer blocks.Printer, interval time.Duration, mount string) *Disk {
	return &Disk{
		Base:     blocks.NewBase("disk", printer),
		interval: interval,
		mount:    mount,
		usage:    disk.UsageWithContext,
	}
}

// Update publishes the free bytes on the configured mount.
func (d *Disk) Update(ctx context.Context) {
	usage, err := d.usage(ctx, d.mount)
	if err != nil {
		d.Publish(fmt.Sprintf("%s %s", diskIcon, degraded))
		return
	}
	d.Publish(fmt.Sprintf("%s %s", diskIcon, humanize.IBytes(usage.Free)))
}

// Run polls on the configured interval.
func (d *Disk) Run(ctx context.Context) error {
	return blocks.RunEvery(ctx, d.interval, d.Update)
}

// OnClick refreshes the display.
func (d *Disk) OnClick(ctx context.Context, ev protocol.ClickEvent) {
	d.Update(ctx)
}
