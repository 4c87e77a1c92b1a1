package trafficlight_go

import (
	"fmt"
	"time"

	"github.com/seoyhaein/utils"
)

type lightConfig struct {
	id       string
	seed     *uint64
	clock    Clock
	minCycle time.Duration
	maxCycle time.Duration
	queued   bool
	onToggle func(prev, cur Phase)
}

// Option configures a TrafficLight.
type Option func(*lightConfig) error

func defaultLightConfig() *lightConfig {
	return &lightConfig{
		clock:    realClock{},
		minCycle: DefaultMinCycle,
		maxCycle: DefaultMaxCycle,
	}
}

// WithId sets the light id. By default a uuid is generated.
func WithId(id string) Option {
	return func(c *lightConfig) error {
		if utils.IsEmptyString(id) {
			return ErrEmptyId
		}
		c.id = id
		return nil
	}
}

// WithCycleRange sets the closed range a toggle interval is drawn from.
// Both bounds are truncated to whole milliseconds.
func WithCycleRange(lo, hi time.Duration) Option {
	return func(c *lightConfig) error {
		lo = lo.Truncate(cycleResolution)
		hi = hi.Truncate(cycleResolution)
		if lo < cycleResolution || hi < lo {
			return fmt.Errorf("%w: [%s, %s]", ErrInvalidCycleRange, lo, hi)
		}
		c.minCycle, c.maxCycle = lo, hi
		return nil
	}
}

// WithSeed makes the interval sequence reproducible. The light id is mixed into the seed,
// so lights with different ids still draw different sequences.
func WithSeed(seed uint64) Option {
	return func(c *lightConfig) error {
		c.seed = &seed
		return nil
	}
}

func WithClock(clock Clock) Option {
	return func(c *lightConfig) error {
		if clock == nil {
			return fmt.Errorf("clock is nil")
		}
		c.clock = clock
		return nil
	}
}

// WithQueuedChannel makes the light publish into a QueuedChannel, so waiters never miss a phase.
func WithQueuedChannel() Option {
	return func(c *lightConfig) error {
		c.queued = true
		return nil
	}
}

// WithObserver registers fn to be called on the light goroutine after every toggle,
// before the new phase is sent. fn must not block.
func WithObserver(fn func(prev, cur Phase)) Option {
	return func(c *lightConfig) error {
		c.onToggle = fn
		return nil
	}
}
