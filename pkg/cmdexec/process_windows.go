//go:build windows

package cmdexec

import (
	"os/exec"
)

// setProcGroup is a no-op on Windows; exec.CommandContext terminates the
// process itself.
func setProcGroup(cmd *exec.Cmd) {}

// killProcGroup kills the command's process.
func killProcGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
