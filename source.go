package sigtrap

import (
	"os"
	"os/signal"
)

// SignalSource is an interface used to abstract OS-level signal hookup.
// It is primarily useful for injecting mocks during testing, where it also
// makes installation failure reproducible, which the real facility cannot
// produce on demand.
type SignalSource interface {
	// Notify registers the provided channel to receive the given signal.
	// A non-nil error means the handler could not be installed.
	Notify(c chan<- os.Signal, sig os.Signal) error

	// Stop undoes every Notify made for the provided channel, restoring
	// the dispositions that were in effect before.
	Stop(c chan<- os.Signal)
}

// osSignalSource is the production implementation of SignalSource. It
// delegates to os/signal, whose Notify cannot fail; the error return exists
// for sources that can.
type osSignalSource struct{}

func (osSignalSource) Notify(c chan<- os.Signal, sig os.Signal) error {
	signal.Notify(c, sig)
	return nil
}

func (osSignalSource) Stop(c chan<- os.Signal) {
	signal.Stop(c)
}
