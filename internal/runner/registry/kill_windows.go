//go:build windows

package registry

import "os"

func killProcess(proc *os.Process) {
	_ = proc.Kill()
}
