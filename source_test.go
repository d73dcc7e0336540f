package sigtrap

import (
	"os"
	"sync"
	"testing"

	"go.uber.org/goleak"
)

// fakeSource drives deliveries by hand and scripts installation failures,
// which the real facility cannot produce on demand.
type fakeSource struct {
	mu       sync.Mutex
	chans    map[int]chan<- os.Signal
	installs int
	stops    int
	failOn   map[int]error
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		chans:  make(map[int]chan<- os.Signal),
		failOn: make(map[int]error),
	}
}

func (f *fakeSource) Notify(c chan<- os.Signal, sig os.Signal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := signum(sig)
	if err := f.failOn[n]; err != nil {
		return err
	}
	f.chans[n] = c
	f.installs++
	return nil
}

func (f *fakeSource) Stop(c chan<- os.Signal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for n, ch := range f.chans {
		if ch == c {
			delete(f.chans, n)
			f.stops++
		}
	}
}

// deliver mimics the runtime's non-blocking send into the hookup channel.
func (f *fakeSource) deliver(sig os.Signal) bool {
	f.mu.Lock()
	ch, ok := f.chans[signum(sig)]
	f.mu.Unlock()
	if !ok {
		return false
	}
	select {
	case ch <- sig:
		return true
	default:
		return false
	}
}

func (f *fakeSource) installed(sig os.Signal) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.chans[signum(sig)]
	return ok
}

func (f *fakeSource) counts() (installs, stops int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.installs, f.stops
}

// verifyNoLeaks ignores the resident goroutine os/signal keeps once any
// test in the binary has used the real source.
func verifyNoLeaks(t *testing.T) {
	t.Helper()
	goleak.VerifyNone(t,
		goleak.IgnoreTopFunction("os/signal.signal_recv"),
		goleak.IgnoreTopFunction("os/signal.loop"),
	)
}

func TestOSSourceNotifyNeverFails_Cross(t *testing.T) {
	var src osSignalSource
	c := make(chan os.Signal, 1)
	if err := src.Notify(c, os.Interrupt); err != nil {
		t.Fatalf("expected nil error from os/signal-backed Notify, got %v", err)
	}
	src.Stop(c)
}
