package trafficlight_go

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Grid is a group of independent traffic lights that are started and watched together.
// Lights in a grid do not coordinate with each other.
type Grid struct {
	Id     string
	Lights []*TrafficLight
}

// NewGrid creates n lights sharing opts. Light ids are "<grid id>-<index>", starting at 1.
func NewGrid(n int, opts ...Option) (*Grid, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLightCount, n)
	}

	g := &Grid{
		Id:     uuid.NewString(),
		Lights: make([]*TrafficLight, 0, n),
	}
	for i := 1; i <= n; i++ {
		// WithId 를 마지막에 둬서 opts 에 들어있는 id 를 덮어쓴다.
		lo := append(append([]Option{}, opts...), WithId(fmt.Sprintf("%s-%d", g.Id, i)))
		l, err := NewTrafficLightE(lo...)
		if err != nil {
			return nil, fmt.Errorf("grid %s: light %d: %w", g.Id, i, err)
		}
		g.Lights = append(g.Lights, l)
	}
	return g, nil
}

// Start calls Simulate on every light. It stops at the first light that is already running.
func (g *Grid) Start(ctx context.Context) error {
	for _, l := range g.Lights {
		if err := l.Simulate(ctx); err != nil {
			return err
		}
	}
	Log.WithField(fieldGrid, g.Id).WithField("lights", len(g.Lights)).Info("grid started")
	return nil
}

// WaitAllGreen waits for a Green from every light, concurrently. It returns the first error,
// which is only possible when ctx is done.
func (g *Grid) WaitAllGreen(ctx context.Context) error {
	eg, egCtx := errgroup.WithContext(ctx)
	for _, l := range g.Lights {
		l := l
		eg.Go(func() error {
			if err := l.WaitForPhase(egCtx, Green); err != nil {
				return err
			}
			Log.WithField(fieldGrid, g.Id).WithField(fieldLight, l.Id).Info("green")
			return nil
		})
	}
	return eg.Wait()
}

// Wait blocks until every light loop has returned or ctx is done.
func (g *Grid) Wait(ctx context.Context) error {
	for _, l := range g.Lights {
		select {
		case <-l.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Snapshot returns the current phase of each light keyed by light id.
func (g *Grid) Snapshot() map[string]Phase {
	s := make(map[string]Phase, len(g.Lights))
	for _, l := range g.Lights {
		s[l.Id] = l.CurrentPhase()
	}
	return s
}
