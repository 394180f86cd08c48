//go:build linux

package statusline

import "syscall"

// sigrtmin is the userspace SIGRTMIN: the kernel's first real-time signal
// is 32, but glibc reserves the first two for its threading internals, so
// tools like `pkill -RTMIN+n` count from 34.
const sigrtmin = 34

// RefreshSignal is the real-time signal that requests an immediate refresh
// of signal-aware blocks (e.g. after an external volume change).
const RefreshSignal = syscall.Signal(sigrtmin + 15)
