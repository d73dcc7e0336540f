package sigtrap

import (
	"os"
	"sync"
	"syscall"
	"testing"
	"time"
)

// Cross-platform: uses only portable signal numbers.

type bogusSignal struct{}

func (bogusSignal) String() string { return "bogus" }
func (bogusSignal) Signal()        {}

func TestSignum_Cross(t *testing.T) {
	cases := []struct {
		sig  os.Signal
		want int
	}{
		{os.Interrupt, 2},
		{syscall.SIGTERM, 15},
		{syscall.Signal(64), 64},
		{syscall.Signal(0), -1},
		{syscall.Signal(65), -1},
		{syscall.Signal(-3), -1},
		{bogusSignal{}, -1},
	}
	for _, c := range cases {
		if got := signum(c.sig); got != c.want {
			t.Fatalf("signum(%v) = %d, want %d", c.sig, got, c.want)
		}
	}
}

func TestSigbitRoundTrip_Cross(t *testing.T) {
	for n := 1; n < numSig; n++ {
		if got := lowestSig(sigbit(n)); got != n {
			t.Fatalf("lowestSig(sigbit(%d)) = %d", n, got)
		}
	}
	if got := lowestSig(sigbit(2) | sigbit(15)); got != 2 {
		t.Fatalf("expected lowest of INT|TERM to be 2, got %d", got)
	}
}

func TestSigsOfAscending_Cross(t *testing.T) {
	mask := sigbit(15) | sigbit(2)
	got := sigsOf(mask)
	if len(got) != 2 || got[0] != syscall.SIGINT || got[1] != syscall.SIGTERM {
		t.Fatalf("expected [interrupt terminated], got %v", got)
	}
	if len(sigsOf(0)) != 0 {
		t.Fatal("expected empty expansion of zero mask")
	}
}

// A burst of repeats with no drain in between must collapse to a single
// observation, and a drain must leave nothing behind.
func TestMaskCoalesce_Cross(t *testing.T) {
	var m pendingMask
	for i := 0; i < 1000; i++ {
		m.record(2)
	}
	if got := m.drain(); got != sigbit(2) {
		t.Fatalf("expected exactly the interrupt bit, got %#x", got)
	}
	if got := m.drain(); got != 0 {
		t.Fatalf("expected empty mask after drain, got %#x", got)
	}
	if m.load() != 0 {
		t.Fatal("load after drain should be zero")
	}
}

// Concurrent recorders and a racing drainer: every recorded bit must show
// up in exactly one drain result.
func TestMaskDrainPartitions_Cross(t *testing.T) {
	var m pendingMask
	var wg sync.WaitGroup
	for n := 1; n < numSig; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			m.record(n)
		}(n)
	}
	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()

	var seen uint64
	deadline := time.After(2 * time.Second)
	for {
		got := m.drain()
		if got&seen != 0 {
			t.Fatalf("bits %#x drained twice", got&seen)
		}
		seen |= got
		select {
		case <-done:
			seen |= m.drain()
			if seen != ^uint64(0) {
				t.Fatalf("missing bits: %#x", ^seen)
			}
			return
		case <-deadline:
			t.Fatal("timeout waiting for recorders")
		default:
		}
	}
}
