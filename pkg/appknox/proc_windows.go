//go:build windows

package appknox

import "os/exec"

// Windows has no process groups in the POSIX sense; killing the direct
// child is the best available.
func setProcGroup(cmd *exec.Cmd) {}

func killProcGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	_ = cmd.Process.Kill()
}
