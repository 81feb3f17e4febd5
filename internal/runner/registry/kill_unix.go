//go:build unix

package registry

import (
	"os"

	"golang.org/x/sys/unix"
)

// killProcess signals the whole process group so interpreter children
// die with their parent. Falls back to killing the single process when
// the group signal fails.
func killProcess(proc *os.Process) {
	if proc.Pid <= 0 {
		return
	}
	if err := unix.Kill(-proc.Pid, unix.SIGKILL); err != nil {
		_ = proc.Kill()
	}
}
