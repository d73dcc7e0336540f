//go:build !unix

package sigtrap

import (
	"os"
	"syscall"
)

// installable reports whether a handler can be installed for signal number
// n. Outside Unix only the interrupt and terminate events are deliverable.
func installable(n int) bool {
	switch syscall.Signal(n) {
	case syscall.SIGINT, syscall.SIGTERM:
		return true
	}
	return false
}

func termination() []os.Signal {
	return []os.Signal{syscall.SIGINT, syscall.SIGTERM}
}
