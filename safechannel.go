package trafficlight_go

import (
	"context"
	"sync"
)

// Mailbox is a blocking handoff between goroutines.
type Mailbox[T any] interface {
	// Send never blocks.
	Send(value T)
	// Receive blocks until a value is available.
	Receive() T
	// ReceiveContext is Receive that gives up when ctx is done.
	ReceiveContext(ctx context.Context) (T, error)
	// Len reports how many values are buffered.
	Len() int
}

// LatestChannel is a single slot mailbox. Send overwrites whatever is buffered, so a receiver always
// gets the most recent value and never an older one that was discarded. Receive waits on a condition
// variable, not by polling.
//
// Any number of goroutines may Send and Receive. Each Send wakes at most one waiting receiver.
type LatestChannel[T any] struct {
	mu   sync.Mutex
	cond *sync.Cond
	val  T
	full bool
}

func NewLatestChannel[T any]() *LatestChannel[T] {
	c := &LatestChannel[T]{}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Send replaces the buffered value with value and wakes one receiver.
func (c *LatestChannel[T]) Send(value T) {
	c.mu.Lock()
	// 이전 값은 버린다. 큐가 아니라 최신 값 하나만 유지한다.
	c.val = value
	c.full = true
	c.cond.Signal()
	c.mu.Unlock()
}

// Receive blocks until a value has been sent and takes it, leaving the slot empty.
// It blocks forever if nothing is ever sent.
func (c *LatestChannel[T]) Receive() T {
	c.mu.Lock()
	defer c.mu.Unlock()

	// spurious wakeup 이 있을 수 있으므로 반드시 for 로 다시 확인한다.
	for !c.full {
		c.cond.Wait()
	}
	return c.take()
}

// ReceiveContext is like Receive but returns ctx.Err() if ctx is done before a value arrives.
// A value that is already buffered is returned even if ctx is done.
func (c *LatestChannel[T]) ReceiveContext(ctx context.Context) (T, error) {
	stop := context.AfterFunc(ctx, func() {
		c.mu.Lock()
		c.cond.Broadcast()
		c.mu.Unlock()
	})
	defer stop()

	c.mu.Lock()
	defer c.mu.Unlock()

	for !c.full {
		if err := ctx.Err(); err != nil {
			var zero T
			return zero, err
		}
		c.cond.Wait()
	}
	return c.take(), nil
}

// Len returns 1 if a value is buffered, 0 otherwise.
func (c *LatestChannel[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.full {
		return 1
	}
	return 0
}

// take must be called with mu held and full set.
func (c *LatestChannel[T]) take() T {
	v := c.val
	var zero T
	c.val = zero
	c.full = false
	return v
}
