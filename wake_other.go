//go:build !unix

package sigtrap

import "sync/atomic"

func newWaker() (waker, error) { return newChanWaker(), nil }

// chanWaker is the non-Unix waker: a capacity-1 token channel. The contract
// matches the pipe, a dropped token only ever means a wake is already
// pending.
type chanWaker struct {
	tokens chan struct{}
	done   chan struct{}
	drops  atomic.Uint64
	closed atomic.Bool
}

func newChanWaker() *chanWaker {
	return &chanWaker{
		tokens: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

func (c *chanWaker) Wake() {
	select {
	case c.tokens <- struct{}{}:
	default:
		c.drops.Add(1)
	}
}

func (c *chanWaker) Wait() bool {
	select {
	case <-c.tokens:
		return true
	case <-c.done:
		return false
	}
}

func (c *chanWaker) Close() error {
	if c.closed.CompareAndSwap(false, true) {
		close(c.done)
	}
	return nil
}

func (c *chanWaker) Drops() uint64 { return c.drops.Load() }
