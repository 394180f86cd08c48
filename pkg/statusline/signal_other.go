//go:build !linux

package statusline

import "syscall"

// RefreshSignal falls back to SIGUSR1 on platforms without real-time
// signals. i3bar itself is Linux-only; this keeps the package building for
// development on other systems.
const RefreshSignal = syscall.SIGUSR1
