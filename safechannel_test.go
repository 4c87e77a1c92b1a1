package trafficlight_go

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

func TestLatestChannel_LastWriteWins(t *testing.T) {
	c := NewLatestChannel[int]()
	for i := 1; i <= 10; i++ {
		c.Send(i)
	}
	if n := c.Len(); n != 1 {
		t.Fatalf("expected 1 buffered value, got %d", n)
	}
	if v := c.Receive(); v != 10 {
		t.Errorf("expected last sent value 10, got %d", v)
	}
	if n := c.Len(); n != 0 {
		t.Errorf("expected empty slot after receive, got %d", n)
	}
}

// 송신 전에 시작한 수신자는 송신이 일어날 때까지 막혀 있어야 하고, 송신 직후 깨어나야 한다.
func TestLatestChannel_ReceiveBeforeSend(t *testing.T) {
	c := NewLatestChannel[string]()
	got := make(chan string, 1)
	go func() {
		got <- c.Receive()
	}()

	select {
	case v := <-got:
		t.Fatalf("receive returned %q before any send", v)
	case <-time.After(50 * time.Millisecond):
	}

	sent := time.Now()
	c.Send("green")

	select {
	case v := <-got:
		if v != "green" {
			t.Errorf("expected %q, got %q", "green", v)
		}
		if d := time.Since(sent); d > 500*time.Millisecond {
			t.Errorf("receiver woke up too late: %s", d)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("receiver was not woken by send")
	}
}

// 한번의 Send 는 대기 중인 수신자 하나만 통과시킨다.
func TestLatestChannel_SendWakesOneReceiver(t *testing.T) {
	c := NewLatestChannel[int]()
	const receivers = 3
	got := make(chan int, receivers)
	for i := 0; i < receivers; i++ {
		go func() {
			got <- c.Receive()
		}()
	}
	time.Sleep(20 * time.Millisecond)

	c.Send(1)
	select {
	case <-got:
	case <-time.After(2 * time.Second):
		t.Fatal("no receiver was woken")
	}
	select {
	case v := <-got:
		t.Fatalf("a second receiver returned %d from a single send", v)
	case <-time.After(50 * time.Millisecond):
	}

	for i := 2; i <= receivers; i++ {
		c.Send(i)
		select {
		case <-got:
		case <-time.After(2 * time.Second):
			t.Fatalf("receiver %d was not woken", i)
		}
	}
}

// 여러 생산자가 동시에 보내도 마지막 값은 어떤 생산자의 마지막 값이어야 한다.
func TestLatestChannel_ConcurrentSenders(t *testing.T) {
	c := NewLatestChannel[int]()
	const (
		producers = 8
		perSender = 100
	)

	var eg errgroup.Group
	for p := 0; p < producers; p++ {
		p := p
		eg.Go(func() error {
			for i := 0; i < perSender; i++ {
				c.Send(p*1000 + i)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		t.Fatal(err)
	}

	v := c.Receive()
	if p := v / 1000; p < 0 || p >= producers {
		t.Fatalf("received value %d was not sent by any producer", v)
	}
	if i := v % 1000; i != perSender-1 {
		t.Errorf("expected the final send of a producer, got index %d (value %d)", i, v)
	}
	if n := c.Len(); n != 0 {
		t.Errorf("expected empty slot, got %d", n)
	}
}

func TestLatestChannel_BufferNeverGrows(t *testing.T) {
	c := NewLatestChannel[int]()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10000; i++ {
			c.Send(i)
		}
	}()

	for {
		if n := c.Len(); n > 1 {
			t.Fatalf("buffer grew to %d", n)
		}
		select {
		case <-done:
			if v := c.Receive(); v != 9999 {
				t.Errorf("expected 9999, got %d", v)
			}
			return
		default:
		}
	}
}

func TestLatestChannel_ReceiveContextCanceled(t *testing.T) {
	c := NewLatestChannel[int]()
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		_, err := c.ReceiveContext(ctx)
		errCh <- err
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("ReceiveContext did not return after cancel")
	}

	// 취소된 수신자가 값을 가져가면 안 된다.
	c.Send(5)
	if v := c.Receive(); v != 5 {
		t.Errorf("expected 5, got %d", v)
	}
}

func TestLatestChannel_ReceiveContextPrefersBufferedValue(t *testing.T) {
	c := NewLatestChannel[int]()
	c.Send(3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v, err := c.ReceiveContext(ctx)
	if err != nil {
		t.Fatalf("expected buffered value, got error %v", err)
	}
	if v != 3 {
		t.Errorf("expected 3, got %d", v)
	}

	if _, err := c.ReceiveContext(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled on empty slot, got %v", err)
	}
}

func TestLatestChannel_ReceiveContextDeadline(t *testing.T) {
	c := NewLatestChannel[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := c.ReceiveContext(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
	if d := time.Since(start); d < 30*time.Millisecond {
		t.Errorf("returned before the deadline: %s", d)
	}
}

// 값이 생길 때마다 여러 수신자 중 누군가는 반드시 받아야 한다. lost wakeup 이 있으면 멈춘다.
func TestLatestChannel_PingPong(t *testing.T) {
	ping := NewLatestChannel[int]()
	pong := NewLatestChannel[int]()
	const rounds = 1000

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			pong.Send(ping.Receive() + 1)
		}
	}()

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		v := 0
		for i := 0; i < rounds; i++ {
			ping.Send(v)
			v = pong.Receive()
		}
		if v != rounds {
			t.Errorf("expected %d, got %d", rounds, v)
		}
	}()

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("ping pong stalled, a wakeup was lost")
	}
	wg.Wait()
}
