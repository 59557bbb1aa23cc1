// Command locosim runs one character headless through a scripted scenario
// and logs every locomotion event.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/milk9111/locomotion/config"
	"github.com/milk9111/locomotion/logging"
	"github.com/milk9111/locomotion/prefabs"
	"github.com/milk9111/locomotion/scenario"
	"github.com/milk9111/locomotion/sim"
	"github.com/milk9111/locomotion/telemetry"
)

func main() {
	rt, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	levelName := flag.String("level", "", "level file (defaults to the one in world.yaml)")
	scriptName := flag.String("scenario", "run_and_jump", "scenario script name under prefabs/scripts")
	ticks := flag.Int("ticks", 600, "maximum ticks to simulate")
	serve := flag.String("serve", rt.TelemetryAddr, "telemetry websocket address, empty to disable")
	logLevel := flag.String("log", rt.LogLevel, "log level")
	debug := flag.Bool("debug", rt.Debug, "debug logging")
	flag.Parse()

	log, err := logging.New(logging.Config{Level: *logLevel, File: rt.LogFile, Debug: *debug})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logging.Sync(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log, rt, *levelName, *scriptName, *ticks, *serve); err != nil {
		log.Error("locosim failed", zap.Error(err))
		logging.Sync(log)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *zap.Logger, rt config.Runtime, levelName, scriptName string, ticks int, serve string) error {
	prefabs.SetOverrideDir(rt.PrefabDir)

	s, err := sim.New(sim.Options{Level: levelName, LevelDir: rt.LevelDir, Log: log})
	if err != nil {
		return err
	}
	script, err := scenario.LoadPrefab(scriptName)
	if err != nil {
		return err
	}

	var hub *telemetry.Hub
	if serve != "" {
		hub = telemetry.NewHub(log.Named("telemetry"))
		go func() {
			if err := telemetry.Serve(ctx, serve, hub); err != nil {
				log.Error("telemetry stopped", zap.Error(err))
			}
		}()
	}

	log.Info("scenario started",
		zap.String("scenario", script.Name()),
		zap.String("level", s.Level.Name),
		zap.Float64("fixed_step", s.FixedStep()),
	)

	counts := make(map[string]int)
	tick := 0
	for ; tick < ticks; tick++ {
		if err := ctx.Err(); err != nil {
			break
		}

		sig := s.Character.Signals()
		in, done, err := script.Next(ctx, uint64(tick), s.Elapsed(), sig)
		if err != nil {
			return err
		}
		if done {
			break
		}

		events := s.Step(in)
		for _, e := range events {
			counts[string(e.Kind)]++
			log.Info("event",
				zap.Uint64("tick", e.Tick),
				zap.String("kind", string(e.Kind)),
				zap.Stringer("state", e.State),
				zap.Stringer("previous", e.Previous),
			)
		}
		if hub != nil {
			hub.Publish(s.Character.Signals(), events)
		}
	}

	pos := s.Body.Position()
	log.Info("scenario finished",
		zap.Int("ticks", tick),
		zap.Stringer("state", s.Character.State()),
		zap.Float64("x", pos.X),
		zap.Float64("y", pos.Y),
		zap.Any("events", counts),
	)
	return nil
}
