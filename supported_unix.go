//go:build unix

package sigtrap

import (
	"os"
	"syscall"
)

// installable reports whether a handler can be installed for signal number
// n. SIGKILL and SIGSTOP are reserved by the kernel and cannot be caught.
func installable(n int) bool {
	switch syscall.Signal(n) {
	case syscall.SIGKILL, syscall.SIGSTOP:
		return false
	}
	return true
}

func termination() []os.Signal {
	return []os.Signal{syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT}
}
