//go:build !unix

package subprocess

import "os/exec"

// isolate keeps exec.CommandContext's default of killing the direct child.
func isolate(cmd *exec.Cmd) {}
