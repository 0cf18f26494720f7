//go:build unix

package subprocess

import (
	"os/exec"
	"syscall"
)

// isolate puts the child in a new process group so that cancellation also
// reaches grandchildren (curl helpers, ffmpeg filters, shell wrappers).
func isolate(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
