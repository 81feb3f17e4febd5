//go:build unix

package engine

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// termination reads the exit code or terminating signal from the wait
// status. A signalled process has no exit code.
func termination(state *os.ProcessState) (*int, string) {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return nil, unix.SignalName(ws.Signal())
	}
	code := state.ExitCode()
	return &code, ""
}

// sysProcAttr puts the candidate in its own process group so a kill
// reaches interpreter children too.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

func errnoName(errno syscall.Errno) string {
	return unix.ErrnoName(errno)
}
