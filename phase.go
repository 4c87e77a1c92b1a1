package trafficlight_go

import (
	"fmt"
	"strings"
)

// Phase is the state of a traffic light. The zero value is Red.
type Phase int32

const (
	Red Phase = iota
	Green
)

func (p Phase) String() string {
	switch p {
	case Red:
		return "red"
	case Green:
		return "green"
	default:
		return fmt.Sprintf("phase(%d)", int32(p))
	}
}

// Toggle returns the phase that follows p. Red and Green alternate, there is no terminal phase.
func (p Phase) Toggle() Phase {
	if p == Green {
		return Red
	}
	return Green
}

// ParsePhase accepts "red" or "green", case insensitive.
func ParsePhase(s string) (Phase, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red":
		return Red, nil
	case "green":
		return Green, nil
	}
	return Red, fmt.Errorf("%w: %q", ErrInvalidPhase, s)
}
