package sigtrap

import (
	"math/bits"
	"os"
	"sync/atomic"
	"syscall"
)

// numSig matches the size of the runtime's signal table; valid signal
// numbers are 1 through numSig-1 on every supported system.
const numSig = 65

// signum maps an os.Signal to its platform number, or -1 for values this
// package cannot represent: implementations other than syscall.Signal and
// numbers outside 1..numSig-1.
func signum(sig os.Signal) int {
	s, ok := sig.(syscall.Signal)
	if !ok {
		return -1
	}
	n := int(s)
	if n <= 0 || n >= numSig {
		return -1
	}
	return n
}

// sigbit returns the mask bit for signal number n (1-based).
func sigbit(n int) uint64 { return 1 << uint(n-1) }

// lowestSig returns the smallest signal number present in a nonzero mask.
func lowestSig(mask uint64) int { return bits.TrailingZeros64(mask) + 1 }

// sigsOf expands a mask into os.Signal values in ascending number order.
func sigsOf(mask uint64) []os.Signal {
	out := make([]os.Signal, 0, bits.OnesCount64(mask))
	for mask != 0 {
		n := lowestSig(mask)
		mask &^= sigbit(n)
		out = append(out, syscall.Signal(n))
	}
	return out
}

// pendingMask is the fired-since-last-drain bitset shared between the two
// halves of the delivery path. The relay is its writer and uses a single
// atomic OR per delivery; the dispatch loop drains it with an atomic swap.
// Concurrent drains therefore partition the fired set: every recorded bit
// is observed by exactly one drain.
//
// One bit per signal means repeats coalesce. That is the semantics the
// kernel already has for pending signals, so nothing is lost that a counter
// could have preserved.
type pendingMask struct {
	bits atomic.Uint64
}

// record marks signal number n as fired. One atomic read-modify-write, no
// allocation, no locks; callable from any context the delivery path runs in.
func (m *pendingMask) record(n int) {
	m.bits.Or(sigbit(n))
}

// drain takes the entire fired set, leaving it empty.
func (m *pendingMask) drain() uint64 {
	return m.bits.Swap(0)
}

// load reports the fired set without consuming it.
func (m *pendingMask) load() uint64 {
	return m.bits.Load()
}
