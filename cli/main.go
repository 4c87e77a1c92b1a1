package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	tl "github.com/seoyhaein/trafficlight-go"
	"github.com/seoyhaein/trafficlight-go/debugonly"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	v       = viper.New()
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "trafficlight",
	Short: "Run randomly timed traffic lights",
	Long: `trafficlight starts a grid of independent traffic lights. Each light toggles
between red and green after a random interval and publishes the new phase to
anyone waiting on it.`,
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the lights and log phase changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := tl.LoadSettings(v, cfgFile)
		if err != nil {
			return err
		}
		s.ApplyLogging()
		if debugonly.Enabled() {
			tl.Log.SetLevel(logrus.DebugLevel)
		}
		return run(cmd.Context(), s)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "yaml config file")

	f := runCmd.Flags()
	f.IntP("lights", "n", tl.DefaultLights, "number of traffic lights")
	f.Duration("min-cycle", tl.DefaultMinCycle, "shortest toggle interval")
	f.Duration("max-cycle", tl.DefaultMaxCycle, "longest toggle interval")
	f.Duration("duration", tl.DefaultDuration, "how long to run, 0 runs until interrupted")
	f.Bool("wait-green", false, "wait until every light has turned green once, then report")
	f.Bool("queued", false, "keep every phase instead of only the latest one")
	f.Uint64("seed", 0, "seed for the toggle intervals, 0 picks one per light")
	f.String("log-level", tl.DefaultLogLevel, "panic, fatal, error, warn, info, debug or trace")

	for key, flag := range map[string]string{
		"lights":     "lights",
		"min_cycle":  "min-cycle",
		"max_cycle":  "max-cycle",
		"duration":   "duration",
		"wait_green": "wait-green",
		"queued":     "queued",
		"seed":       "seed",
		"log_level":  "log-level",
	} {
		_ = v.BindPFlag(key, f.Lookup(flag))
	}

	rootCmd.AddCommand(runCmd)
}

func run(parent context.Context, s *tl.Settings) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()
	if s.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Duration)
		defer cancel()
	}

	grid, err := tl.NewGrid(s.Lights, s.Options()...)
	if err != nil {
		return err
	}
	if err := grid.Start(ctx); err != nil {
		return err
	}

	if s.WaitGreen {
		start := time.Now()
		if err := grid.WaitAllGreen(ctx); err != nil {
			return ignoreDone(err)
		}
		tl.Log.WithField("after", time.Since(start)).Info("all lights have been green")
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			// 루프들이 모두 끝날 때까지 기다린다.
			return grid.Wait(context.Background())
		case <-ticker.C:
			fields := logrus.Fields{}
			for id, p := range grid.Snapshot() {
				fields[id] = p.String()
			}
			tl.Log.WithFields(fields).Info("phases")
		}
	}
}

// ignoreDone treats the end of the run as success.
func ignoreDone(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
