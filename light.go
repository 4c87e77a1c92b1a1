package trafficlight_go

import (
	"context"
	"encoding/binary"
	"hash/fnv"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/dlsniper/debugger"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// TrafficLight owns a phase and a goroutine that toggles it at random intervals.
// Every new phase is published to the light's mailbox, which is how WaitForGreen learns about it.
type TrafficLight struct {
	Id string

	// 쓰기는 cycleThroughPhases 고루틴에서만 한다.
	phase   atomic.Int32
	toggles atomic.Uint64
	queue   Mailbox[Phase]

	// rng 는 cycleThroughPhases 고루틴 전용이다. 잠금 없이 사용한다.
	rng      *rand.Rand
	clock    Clock
	minCycle time.Duration
	maxCycle time.Duration
	onToggle func(prev, cur Phase)

	started atomic.Bool
	done    chan struct{}
}

// NewTrafficLightE creates a red traffic light. The loop is not running until Simulate is called.
func NewTrafficLightE(opts ...Option) (*TrafficLight, error) {
	cfg := defaultLightConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	// uuid 는 id 와 별개로 항상 새로 뽑아서 시드로 쓴다. 신호등끼리 같은 수열을 공유하지 않게 한다.
	u := uuid.New()
	if cfg.id == "" {
		cfg.id = u.String()
	}
	var s1, s2 uint64
	if cfg.seed != nil {
		// 같은 시드라도 id 가 다르면 다른 수열이 나온다.
		h := fnv.New64a()
		_, _ = h.Write([]byte(cfg.id))
		s1, s2 = *cfg.seed, h.Sum64()
	} else {
		s1 = binary.BigEndian.Uint64(u[:8])
		s2 = binary.BigEndian.Uint64(u[8:])
	}

	var q Mailbox[Phase]
	if cfg.queued {
		q = NewQueuedChannel[Phase]()
	} else {
		q = NewLatestChannel[Phase]()
	}

	l := &TrafficLight{
		Id:       cfg.id,
		queue:    q,
		rng:      rand.New(rand.NewPCG(s1, s2)),
		clock:    cfg.clock,
		minCycle: cfg.minCycle,
		maxCycle: cfg.maxCycle,
		onToggle: cfg.onToggle,
		done:     make(chan struct{}),
	}
	l.phase.Store(int32(Red))
	return l, nil
}

// NewTrafficLight is NewTrafficLightE that panics on an invalid option.
func NewTrafficLight(opts ...Option) *TrafficLight {
	l, err := NewTrafficLightE(opts...)
	if err != nil {
		panic(err)
	}
	return l
}

// CurrentPhase never blocks. It can be one toggle ahead of what a waiter has received.
func (l *TrafficLight) CurrentPhase() Phase {
	return Phase(l.phase.Load())
}

// Toggles returns how many times the phase has changed.
func (l *TrafficLight) Toggles() uint64 {
	return l.toggles.Load()
}

// WaitForGreen blocks until a Green is received from the light. Because the mailbox only keeps the
// latest phase, a Green that is overwritten by Red before this goroutine receives it is missed, and
// the call keeps waiting for the next one.
func (l *TrafficLight) WaitForGreen() {
	for l.queue.Receive() != Green {
	}
}

// WaitForPhase blocks until want is received or ctx is done.
func (l *TrafficLight) WaitForPhase(ctx context.Context, want Phase) error {
	for {
		p, err := l.queue.ReceiveContext(ctx)
		if err != nil {
			return &LightError{LightID: l.Id, Op: "wait for " + want.String(), Err: err}
		}
		if p == want {
			return nil
		}
	}
}

// Simulate starts the toggle loop and returns immediately. The loop runs until ctx is done;
// pass context.Background() to keep it running for the life of the process.
// Only the first call starts a loop, later calls return ErrAlreadySimulating.
func (l *TrafficLight) Simulate(ctx context.Context) error {
	if !l.started.CompareAndSwap(false, true) {
		return &LightError{LightID: l.Id, Op: "simulate", Err: ErrAlreadySimulating}
	}
	go l.cycleThroughPhases(ctx)
	return nil
}

// Done is closed once the loop started by Simulate has returned.
func (l *TrafficLight) Done() <-chan struct{} {
	return l.done
}

func (l *TrafficLight) cycleThroughPhases(ctx context.Context) {
	defer close(l.done)

	// (do not erase) goroutine 디버깅용
	debugger.SetLabels(func() []string {
		return []string{"trafficLight", l.Id}
	})

	entry := Log.WithField(fieldLight, l.Id)
	entry.Debug("cycle started")

	for {
		cycle := l.nextCycle()
		start := l.clock.Now()

		select {
		case <-ctx.Done():
			entry.WithError(ctx.Err()).Debug("cycle stopped")
			return
		case <-l.clock.After(cycle):
		}

		prev := l.CurrentPhase()
		cur := prev.Toggle()
		l.phase.Store(int32(cur))
		n := l.toggles.Add(1)

		entry.WithFields(logrus.Fields{
			fieldPrev:  prev,
			fieldPhase: cur,
			fieldCycle: cycle,
			fieldCount: n,
			"elapsed":  l.clock.Now().Sub(start),
		}).Debug("phase toggled")

		if l.onToggle != nil {
			l.onToggle(prev, cur)
		}
		l.queue.Send(cur)
	}
}

// nextCycle draws a duration uniformly from [minCycle, maxCycle] in whole milliseconds.
func (l *TrafficLight) nextCycle() time.Duration {
	span := int64((l.maxCycle - l.minCycle) / cycleResolution)
	return l.minCycle + time.Duration(l.rng.Int64N(span+1))*cycleResolution
}
