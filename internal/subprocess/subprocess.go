// Package subprocess runs external tools under a context deadline and makes
// sure a timed-out tool is killed, not merely abandoned.
package subprocess

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Runner executes a binary and returns its stdout.
type Runner interface {
	Run(ctx context.Context, binary string, args ...string) ([]byte, error)
}

// Exec runs commands on the host.
type Exec struct {
	// WaitDelay bounds how long Run waits for output pipes after the process
	// is killed. Zero means one second.
	WaitDelay time.Duration
}

// Run starts binary in its own process group. When ctx ends the whole group
// is killed and the returned error wraps ctx.Err().
func (e Exec) Run(ctx context.Context, binary string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = e.WaitDelay
	if cmd.WaitDelay <= 0 {
		cmd.WaitDelay = time.Second
	}
	isolate(cmd)

	name := filepath.Base(binary)
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return stdout.Bytes(), fmt.Errorf("%s killed: %w", name, ctxErr)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return stdout.Bytes(), fmt.Errorf("%s: %w", name, err)
		}
		return stdout.Bytes(), fmt.Errorf("%s: %w: %s", name, err, msg)
	}
	return stdout.Bytes(), nil
}
