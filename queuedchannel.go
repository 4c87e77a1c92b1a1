package trafficlight_go

import (
	"context"
	"sync"
)

// QueuedChannel is the FIFO counterpart of LatestChannel. Nothing is discarded, so a slow receiver
// still sees every value in send order. The buffer is unbounded; use it only when the producer is
// known to be slow, like a traffic light.
type QueuedChannel[T any] struct {
	mu   sync.Mutex
	cond *sync.Cond
	buf  []T
}

func NewQueuedChannel[T any]() *QueuedChannel[T] {
	c := &QueuedChannel[T]{}
	c.cond = sync.NewCond(&c.mu)
	return c
}

func (c *QueuedChannel[T]) Send(value T) {
	c.mu.Lock()
	c.buf = append(c.buf, value)
	c.cond.Signal()
	c.mu.Unlock()
}

func (c *QueuedChannel[T]) Receive() T {
	c.mu.Lock()
	defer c.mu.Unlock()

	for len(c.buf) == 0 {
		c.cond.Wait()
	}
	return c.pop()
}

func (c *QueuedChannel[T]) ReceiveContext(ctx context.Context) (T, error) {
	stop := context.AfterFunc(ctx, func() {
		c.mu.Lock()
		c.cond.Broadcast()
		c.mu.Unlock()
	})
	defer stop()

	c.mu.Lock()
	defer c.mu.Unlock()

	for len(c.buf) == 0 {
		if err := ctx.Err(); err != nil {
			var zero T
			return zero, err
		}
		c.cond.Wait()
	}
	return c.pop(), nil
}

func (c *QueuedChannel[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buf)
}

func (c *QueuedChannel[T]) pop() T {
	v := c.buf[0]
	var zero T
	c.buf[0] = zero
	c.buf = c.buf[1:]
	if len(c.buf) == 0 {
		// 빈 슬라이스를 재사용하면 앞쪽 backing array 가 계속 남으므로 nil 로 돌린다.
		c.buf = nil
	}
	return v
}
