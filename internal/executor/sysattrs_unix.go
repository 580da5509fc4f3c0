//go:build !windows

package executor

import (
	"os/exec"
	"syscall"
)

// configureSysProcAttr starts the player in a new session so it is detached
// from the controlling terminal and survives our exit
func configureSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
