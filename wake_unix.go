//go:build unix

package sigtrap

import (
	"sync/atomic"

	"golang.org/x/sys/unix"
)

func newWaker() (waker, error) { return newPipeWaker() }

// pipeWaker wakes the dispatch loop by writing one byte to a pipe the loop
// blocks reading. The write side is non-blocking: a full pipe already holds
// a pending wake, which is all the caller needs, so EAGAIN is dropped and
// only counted.
type pipeWaker struct {
	r, w  int
	drops atomic.Uint64
}

func newPipeWaker() (*pipeWaker, error) {
	var p [2]int
	if err := unix.Pipe(p[:]); err != nil {
		return nil, err
	}
	unix.CloseOnExec(p[0])
	unix.CloseOnExec(p[1])
	if err := unix.SetNonblock(p[1], true); err != nil {
		unix.Close(p[0])
		unix.Close(p[1])
		return nil, err
	}
	return &pipeWaker{r: p[0], w: p[1]}, nil
}

// Wake runs on the delivery path: one non-blocking write, nothing else.
// Errors are not reported from here; they increment the drop counter.
func (p *pipeWaker) Wake() {
	var b [1]byte
	if _, err := unix.Write(p.w, b[:]); err != nil {
		p.drops.Add(1)
	}
}

// Wait blocks until at least one Wake has happened since the previous Wait.
// It reports false once the write side is closed and the backlog is empty,
// and releases the read end before returning; only the dispatch loop calls
// it.
func (p *pipeWaker) Wait() bool {
	var buf [64]byte
	for {
		n, err := unix.Read(p.r, buf[:])
		if n > 0 {
			return true
		}
		if err == unix.EINTR {
			continue
		}
		unix.Close(p.r)
		return false
	}
}

// Close shuts the write side so Wait drains out and reports false. Every
// Wake caller must have stopped first: a write to a reused descriptor is
// not recoverable.
func (p *pipeWaker) Close() error {
	return unix.Close(p.w)
}

func (p *pipeWaker) Drops() uint64 { return p.drops.Load() }
