package sigtrap

// waker is the wake primitive between the two halves of the delivery path.
// Wake must never block, allocate, or take locks; it may be called
// concurrently with anything, including a Wait in progress. Wait blocks
// until at least one Wake has happened since the previous Wait and reports
// false once the waker is closed. Close stops Wait; all Wake callers must
// be stopped before it.
type waker interface {
	Wake()
	Wait() bool
	Close() error
	Drops() uint64
}

// relay is the delivery path's terminus: record the fired bit, nudge the
// dispatch loop. One atomic OR and one non-blocking write; no locks, no
// allocation, no logging here.
func (r *Registry) relay(n int) {
	r.pending.record(n)
	r.waker.Wake()
}

// dispatch is the drain loop: block until the relay wakes it, take the
// entire fired set, and post it to every interested subscription. It runs
// on its own goroutine from the first Subscribe until Close.
func (r *Registry) dispatch() {
	defer close(r.dispatchDone)
	for r.waker.Wait() {
		fired := r.pending.drain()
		if fired == 0 {
			// Stale wake: the bits it announced were taken by an
			// earlier drain.
			continue
		}
		r.fanout(fired)
	}
}

// fanout posts fired bits to the live subscriptions. The wake list is
// snapshotted under the registry lock; posting happens outside it so a slow
// subscription lock never stalls registration.
func (r *Registry) fanout(fired uint64) {
	r.mu.Lock()
	subs := make([]*Subscription, 0, len(r.subs))
	for s := range r.subs {
		subs = append(subs, s)
	}
	debug, logf := r.debug, r.logf
	r.mu.Unlock()

	for _, s := range subs {
		s.post(fired)
	}
	if debug {
		logf("sigtrap: dispatched %v to %d subscriptions", sigsOf(fired), len(subs))
	}
}
