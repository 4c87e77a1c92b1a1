package trafficlight_go

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadySimulating is returned by Simulate when the light loop was already started.
	ErrAlreadySimulating = errors.New("traffic light is already simulating")
	// ErrInvalidCycleRange 최소 주기가 0 이하이거나 최대 주기보다 클 때.
	ErrInvalidCycleRange = errors.New("invalid cycle range")
	ErrInvalidPhase      = errors.New("invalid phase")
	ErrEmptyId           = errors.New("id is empty")
	ErrInvalidLightCount = errors.New("light count must be at least 1")
)

// LightError 는 어떤 신호등의 어떤 동작에서 실패했는지를 담는다.
type LightError struct {
	LightID string
	Op      string
	Err     error
}

func (e *LightError) Error() string {
	return fmt.Sprintf("light %s: %s: %v", e.LightID, e.Op, e.Err)
}

func (e *LightError) Unwrap() error {
	return e.Err
}
