//go:build !windows

package appknox

import (
	"os/exec"
	"syscall"
)

// setProcGroup puts the child in its own process group, so that a kill on
// timeout reaches any helper processes the CLI forks, not just the direct
// child.
func setProcGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killProcGroup signals the child's whole process group, then the child
// itself in case the group signal raced its setup.
func killProcGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	_ = cmd.Process.Kill()
}
