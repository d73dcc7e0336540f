// Package sigtrap turns Unix signals into ordinary sequential events for
// process supervisors. A Subscription registers interest in a set of
// signals; its Stream yields each fired signal through Next, TryNext, or a
// readiness channel, with repeats coalesced the way the kernel already
// coalesces pending signals ("fired at least once since last look", never
// a count).
//
// Internally the delivery path is split in two. Forwarder goroutines take
// raw deliveries and record them into an atomic pending mask, waking the
// dispatch loop through a self-pipe; that path never blocks, allocates, or
// takes a lock. Everything else, registration, reference counts, the wake
// list, runs under an ordinary mutex on the dispatch side.
//
// Subscriptions may overlap. A fired signal is observed by every
// subscription interested in it, not handed to whichever looked first, and
// subscriptions with disjoint interest never disturb each other. Closing a
// subscription is idempotent, releases its signal hookups, and unblocks
// pending waits with ErrStreamClosed.
package sigtrap

import "os"

// Default is the package-wide registry used by the top-level functions.
// It is never closed by the package itself.
var Default = NewRegistry()

// Subscribe registers interest in sigs on the Default registry.
func Subscribe(sigs ...os.Signal) (*Subscription, error) {
	return Default.Subscribe(sigs...)
}

// Termination returns the conventional terminate-request set for this
// platform: SIGINT, SIGTERM and, on Unix, SIGQUIT. Supervisors typically
// subscribe to exactly this plus SIGCHLD and SIGHUP.
func Termination() []os.Signal {
	return termination()
}

// SetLogger sets the logger for the Default registry. Safe for concurrent
// use; dispatch snapshots the value per cycle.
func SetLogger(l LoggerFunc) {
	Default.mu.Lock()
	Default.logf = l
	Default.mu.Unlock()
}

// SetDebug toggles debug logging for the Default registry. Safe for
// concurrent use; dispatch snapshots the value per cycle.
func SetDebug(enabled bool) {
	Default.mu.Lock()
	Default.debug = enabled
	Default.mu.Unlock()
}
