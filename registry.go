package sigtrap

import (
	"fmt"
	"os"
	"sync"
	"syscall"
)

// Registry owns the process-facing signal state: which signal numbers have
// an OS-level hookup installed, how many subscriptions reference each, and
// the wake list of live subscriptions. All of it sits behind one mutex that
// the delivery path never takes.
type Registry struct {
	mu sync.Mutex

	// configuration
	source SignalSource
	logf   LoggerFunc
	debug  bool

	// state
	started bool // waker and dispatch loop are running
	closed  bool
	entries map[int]*sigEntry
	subs    map[*Subscription]struct{}

	// delivery path
	pending      pendingMask
	waker        waker
	dispatchDone chan struct{}
	forwarders   sync.WaitGroup
}

// sigEntry tracks one installed signal number: its reference count and the
// delivery hookup. The channel has capacity 1; the source sends without
// blocking, so one slot is exactly "fired at least once since last read",
// the same coalescing the pending mask applies.
type sigEntry struct {
	refs int
	ch   chan os.Signal
	stop chan struct{}
}

// NewRegistry returns an independent Registry. Most programs use the
// package-level functions and their Default registry; separate instances
// exist for tests and for isolating subscriber populations.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		source:  osSignalSource{},
		logf:    func(string, ...any) {},
		entries: make(map[int]*sigEntry),
		subs:    make(map[*Subscription]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Subscribe registers interest in sigs and returns the owning handle.
// The whole set is validated before anything is installed: ErrNoSignals for
// an empty set, ErrUnsupportedSignal for values the platform cannot hook.
// If the source refuses a handler the hookups made by this call are rolled
// back and the failure is returned as an *InstallError; other signals and
// other subscriptions are untouched. Duplicate signals in sigs collapse to
// one.
func (r *Registry) Subscribe(sigs ...os.Signal) (*Subscription, error) {
	if len(sigs) == 0 {
		return nil, ErrNoSignals
	}
	var interest uint64
	nums := make([]int, 0, len(sigs))
	for _, sig := range sigs {
		n := signum(sig)
		if n < 0 || !installable(n) {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedSignal, sig)
		}
		if interest&sigbit(n) == 0 {
			interest |= sigbit(n)
			nums = append(nums, n)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrRegistryClosed
	}
	if err := r.startLocked(); err != nil {
		return nil, err
	}
	installed := make([]int, 0, len(nums))
	for _, n := range nums {
		if err := r.installLocked(n); err != nil {
			for _, m := range installed {
				r.releaseLocked(m)
			}
			return nil, &InstallError{Sig: syscall.Signal(n), Err: err}
		}
		installed = append(installed, n)
	}
	sub := newSubscription(r, interest)
	r.subs[sub] = struct{}{}
	if r.debug {
		r.logf("sigtrap: subscribed %v", sigsOf(interest))
	}
	return sub, nil
}

// startLocked brings up the waker and dispatch loop on first use.
func (r *Registry) startLocked() error {
	if r.started {
		return nil
	}
	w, err := newWaker()
	if err != nil {
		return fmt.Errorf("sigtrap: wake pipe: %w", err)
	}
	r.waker = w
	r.dispatchDone = make(chan struct{})
	r.started = true
	go r.dispatch()
	if r.debug {
		r.logf("sigtrap: dispatch loop started")
	}
	return nil
}

// installLocked ensures signal number n has a live hookup and adds one
// reference. The first reference installs: a fresh capacity-1 channel is
// handed to the source and a forwarder goroutine relays its deliveries.
func (r *Registry) installLocked(n int) error {
	if e, ok := r.entries[n]; ok {
		e.refs++
		return nil
	}
	e := &sigEntry{
		refs: 1,
		ch:   make(chan os.Signal, 1),
		stop: make(chan struct{}),
	}
	if err := r.source.Notify(e.ch, syscall.Signal(n)); err != nil {
		return err
	}
	r.entries[n] = e
	r.forwarders.Add(1)
	go r.forward(n, e)
	if r.debug {
		r.logf("sigtrap: installed handler for %v", syscall.Signal(n))
	}
	return nil
}

// releaseLocked drops one reference to signal number n, uninstalling the
// hookup when the last one goes. The source's Stop restores the previous
// disposition for our channel only; registrations made elsewhere in the
// process keep working.
func (r *Registry) releaseLocked(n int) {
	e, ok := r.entries[n]
	if !ok {
		return
	}
	if e.refs--; e.refs > 0 {
		return
	}
	delete(r.entries, n)
	r.source.Stop(e.ch)
	close(e.stop)
	if r.debug {
		r.logf("sigtrap: released handler for %v", syscall.Signal(n))
	}
}

// forward pumps one entry's deliveries into the relay until the entry is
// released. It is the only reader of e.ch.
func (r *Registry) forward(n int, e *sigEntry) {
	defer r.forwarders.Done()
	for {
		select {
		case <-e.stop:
			return
		case <-e.ch:
			r.relay(n)
		}
	}
}

// removeSub deregisters a subscription: the wake list forgets it and its
// signals lose one reference each.
func (r *Registry) removeSub(s *Subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subs[s]; !ok {
		return
	}
	delete(r.subs, s)
	for bits := s.interest; bits != 0; {
		n := lowestSig(bits)
		bits &^= sigbit(n)
		r.releaseLocked(n)
	}
	if r.debug {
		r.logf("sigtrap: unsubscribed %v", sigsOf(s.interest))
	}
}

// Close tears the registry down: every live subscription terminates with
// ErrRegistryClosed, every hookup is released, and the dispatch loop stops.
// Close is idempotent, and a closed registry stays closed; Subscribe on it
// returns ErrRegistryClosed.
func (r *Registry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	subs := make([]*Subscription, 0, len(r.subs))
	for s := range r.subs {
		subs = append(subs, s)
	}
	clear(r.subs)
	for n, e := range r.entries {
		r.source.Stop(e.ch)
		close(e.stop)
		delete(r.entries, n)
	}
	started := r.started
	w := r.waker
	done := r.dispatchDone
	debug, logf := r.debug, r.logf
	r.mu.Unlock()

	for _, s := range subs {
		s.terminate(ErrRegistryClosed)
	}
	if started {
		// All forwarders must be gone before the waker goes away; a
		// Wake against a reused descriptor is not recoverable.
		r.forwarders.Wait()
		err := w.Close()
		<-done
		if debug {
			logf("sigtrap: dispatch loop stopped (dropped wakes=%d)", w.Drops())
		}
		return err
	}
	return nil
}
