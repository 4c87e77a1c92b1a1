package trafficlight_go

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Log is the package logger. The cli sets its level and output from Settings.
var Log = logrus.New()

// Default toggle interval bounds. A cycle is drawn uniformly from [DefaultMinCycle, DefaultMaxCycle]
// with millisecond resolution.
const (
	DefaultMinCycle = 4000 * time.Millisecond
	DefaultMaxCycle = 6000 * time.Millisecond
)

// cycleResolution is the granularity of a drawn cycle duration.
const cycleResolution = time.Millisecond

// log field keys
const (
	fieldLight = "light"
	fieldGrid  = "grid"
	fieldPhase = "phase"
	fieldPrev  = "prev"
	fieldCycle = "cycle"
	fieldCount = "toggles"
)

// Default values for the cli, see settings.go
const (
	DefaultLights   = 1
	DefaultDuration = 30 * time.Second
	DefaultLogLevel = "info"
)
