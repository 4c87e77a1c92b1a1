package trafficlight_go

import (
	"fmt"
	"strings"
	"time"

	"github.com/seoyhaein/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Settings is the cli configuration. Keys can come from flags, a yaml file or
// TRAFFICLIGHT_* environment variables.
type Settings struct {
	Lights    int           `mapstructure:"lights"`
	MinCycle  time.Duration `mapstructure:"min_cycle"`
	MaxCycle  time.Duration `mapstructure:"max_cycle"`
	Duration  time.Duration `mapstructure:"duration"`
	WaitGreen bool          `mapstructure:"wait_green"`
	Queued    bool          `mapstructure:"queued"`
	Seed      uint64        `mapstructure:"seed"`
	LogLevel  string        `mapstructure:"log_level"`
}

// EnvPrefix is the prefix of environment variables read by LoadSettings.
const EnvPrefix = "TRAFFICLIGHT"

// SetDefaults registers the default of every Settings key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("lights", DefaultLights)
	v.SetDefault("min_cycle", DefaultMinCycle)
	v.SetDefault("max_cycle", DefaultMaxCycle)
	v.SetDefault("duration", DefaultDuration)
	v.SetDefault("wait_green", false)
	v.SetDefault("queued", false)
	v.SetDefault("seed", 0)
	v.SetDefault("log_level", DefaultLogLevel)
}

// LoadSettings reads Settings from v. If configFile is not empty it must exist.
func LoadSettings(v *viper.Viper, configFile string) (*Settings, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if !utils.IsEmptyString(configFile) {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	s := new(Settings)
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) Validate() error {
	if s.Lights < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidLightCount, s.Lights)
	}
	if s.MinCycle < cycleResolution || s.MaxCycle < s.MinCycle {
		return fmt.Errorf("%w: [%s, %s]", ErrInvalidCycleRange, s.MinCycle, s.MaxCycle)
	}
	if s.Duration < 0 {
		return fmt.Errorf("duration must not be negative: %s", s.Duration)
	}
	if _, err := logrus.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// Options converts s into light options. Seed 0 means a random seed per light.
func (s *Settings) Options() []Option {
	opts := []Option{WithCycleRange(s.MinCycle, s.MaxCycle)}
	if s.Queued {
		opts = append(opts, WithQueuedChannel())
	}
	if s.Seed != 0 {
		opts = append(opts, WithSeed(s.Seed))
	}
	return opts
}

// ApplyLogging sets the level of Log. Validate has already checked the level string.
func (s *Settings) ApplyLogging() {
	if lvl, err := logrus.ParseLevel(s.LogLevel); err == nil {
		Log.SetLevel(lvl)
	}
}
