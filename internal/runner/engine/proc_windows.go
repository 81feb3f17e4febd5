//go:build windows

package engine

import (
	"os"
	"syscall"
)

// termination reads the exit code from the process state. Windows has
// no signal semantics; a killed process reports a synthetic signal so
// the termination-cause invariant still holds.
func termination(state *os.ProcessState) (*int, string) {
	code := state.ExitCode()
	if code == 1 && !state.Exited() {
		return nil, "SIGKILL"
	}
	return &code, ""
}

func sysProcAttr() *syscall.SysProcAttr {
	return nil
}

func errnoName(errno syscall.Errno) string {
	return ""
}
