package sigtrap

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrNoSignals is returned by Subscribe when called with an empty set.
	ErrNoSignals = errors.New("sigtrap: no signals to subscribe")

	// ErrUnsupportedSignal is returned by Subscribe for values this
	// platform cannot hook: non-numeric os.Signal implementations, numbers
	// outside the valid range, and the uncatchable SIGKILL/SIGSTOP.
	ErrUnsupportedSignal = errors.New("sigtrap: unsupported signal")

	// ErrStreamClosed is the terminal result of Next after the
	// subscription's own Close.
	ErrStreamClosed = errors.New("sigtrap: stream closed")

	// ErrRegistryClosed is the terminal result of Next when the registry
	// shut down underneath the stream, and the result of Subscribe on a
	// closed registry.
	ErrRegistryClosed = errors.New("sigtrap: registry closed")
)

// InstallError reports that the signal source could not install the OS-level
// hookup for one signal of a Subscribe call. Hookups made earlier in the
// same call are rolled back before it is returned.
type InstallError struct {
	Sig os.Signal
	Err error
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("sigtrap: install handler for %v: %v", e.Sig, e.Err)
}

func (e *InstallError) Unwrap() error { return e.Err }
