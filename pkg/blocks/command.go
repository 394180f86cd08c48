package blocks

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

// commandTimeout caps every helper-command invocation so a wedged external
// process cannot stall a block's update loop.
const commandTimeout = 5 * time.Second

// Runner executes an external command and returns its stdout. Blocks take a
// Runner instead of calling exec directly so tests can substitute canned
// output.
type Runner func(ctx context.Context, name string, args ...string) (string, error)

// Output is the default Runner. It runs the command with a bounded deadline
// and returns trimmed stdout. Stdout is returned even when the command exits
// non-zero: some helpers (pamixer while the sink is muted) report state on
// stdout and signal it in the exit code at the same time, so callers decide
// whether partial output is usable.
func Output(ctx context.Context, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, name, args...).Output()
	return strings.TrimSpace(string(out)), err
}

// Launch starts a command without waiting for it. Used by click handlers
// that open helper UIs (mixer, connection editor); the child outlives the
// click dispatch.
func Launch(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}
