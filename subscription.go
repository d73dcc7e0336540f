package sigtrap

import (
	"context"
	"os"
	"sync"
	"syscall"
)

// Subscription is one consumer's registered interest in a set of signals,
// with its own view of what has fired. The dispatch loop posts fired bits
// into every subscription they overlap; each subscription drains its view
// independently, so a signal consumed here is still seen by every other
// interested subscription.
type Subscription struct {
	reg      *Registry
	interest uint64

	mu      sync.Mutex
	pending uint64
	reason  error         // terminal outcome for Next, set once
	ready   chan struct{} // capacity 1; a token means pending may have bits
	closed  chan struct{}

	stream Stream
}

func newSubscription(r *Registry, interest uint64) *Subscription {
	s := &Subscription{
		reg:      r,
		interest: interest,
		ready:    make(chan struct{}, 1),
		closed:   make(chan struct{}),
	}
	s.stream = Stream{sub: s}
	return s
}

// Signals reports the subscribed set in ascending signal-number order.
func (s *Subscription) Signals() []os.Signal {
	return sigsOf(s.interest)
}

// Stream returns the signal stream for this subscription. Every call
// returns the same stream; it shares the subscription's close.
func (s *Subscription) Stream() *Stream {
	return &s.stream
}

// Close releases the subscription: its signals lose a reference each, the
// wake list forgets it, and any Next suspended on it returns
// ErrStreamClosed. Further calls are no-ops.
func (s *Subscription) Close() error {
	if !s.markClosed(ErrStreamClosed) {
		return nil
	}
	s.reg.removeSub(s)
	return nil
}

// markClosed makes reason the terminal outcome and wakes all waiters.
// It reports false if the subscription was already terminal.
func (s *Subscription) markClosed(reason error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reason != nil {
		return false
	}
	s.reason = reason
	close(s.closed)
	return true
}

// terminate is the registry-shutdown path: same terminal machinery,
// different reason, no deregistration since the registry is clearing
// itself.
func (s *Subscription) terminate(reason error) {
	s.markClosed(reason)
}

// post merges fired bits into the pending view and arms the ready token.
// Bits go in before the token; Next re-checks the view before suspending;
// between the two no wakeup can be lost. A full token channel means a wake
// is already pending, which is enough.
func (s *Subscription) post(fired uint64) {
	m := fired & s.interest
	if m == 0 {
		return
	}
	s.mu.Lock()
	if s.reason != nil {
		s.mu.Unlock()
		return
	}
	s.pending |= m
	s.mu.Unlock()
	select {
	case s.ready <- struct{}{}:
	default:
	}
}

// take removes and returns the lowest pending signal. When bits remain it
// re-arms the token so concurrent Next callers on one stream are not
// starved.
func (s *Subscription) take() (os.Signal, bool) {
	s.mu.Lock()
	if s.reason != nil || s.pending == 0 {
		s.mu.Unlock()
		return nil, false
	}
	n := lowestSig(s.pending)
	s.pending &^= sigbit(n)
	rearm := s.pending != 0
	s.mu.Unlock()
	if rearm {
		select {
		case s.ready <- struct{}{}:
		default:
		}
	}
	return syscall.Signal(n), true
}

func (s *Subscription) terminalReason() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reason
}

// Stream is the consumer-facing sequence of fired signals for one
// subscription. It is safe for concurrent use; each pending signal goes to
// exactly one caller.
type Stream struct {
	sub *Subscription
}

// Next returns the next fired signal, suspending the calling goroutine
// until one is pending. Repeats of a signal between looks coalesce into
// one result. The terminal outcomes are ErrStreamClosed after Close,
// ErrRegistryClosed when the registry shut down underneath the stream, and
// ctx.Err() when the context ends the wait first; a deadline on ctx is the
// way to bound it.
func (st *Stream) Next(ctx context.Context) (os.Signal, error) {
	s := st.sub
	for {
		if sig, ok := s.take(); ok {
			return sig, nil
		}
		if reason := s.terminalReason(); reason != nil {
			return nil, reason
		}
		select {
		case <-s.ready:
		case <-s.closed:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// TryNext is the non-blocking look: the next pending signal if one has
// fired, or false without suspending.
func (st *Stream) TryNext() (os.Signal, bool) {
	return st.sub.take()
}

// Ready exposes the readiness token channel for use in a caller's own
// select loop. Tokens are coalesced and occasionally spurious: after a
// receive, drain with TryNext until it reports false.
func (st *Stream) Ready() <-chan struct{} {
	return st.sub.ready
}

// Done is closed when the stream reaches its terminal state. Next reports
// which terminal state it was.
func (st *Stream) Done() <-chan struct{} {
	return st.sub.closed
}

// Signals reports the stream's subscribed set.
func (st *Stream) Signals() []os.Signal {
	return st.sub.Signals()
}

// Close closes the owning subscription; identical to Subscription.Close.
func (st *Stream) Close() error {
	return st.sub.Close()
}
