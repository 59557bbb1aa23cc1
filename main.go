package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/milk9111/locomotion/config"
	"github.com/milk9111/locomotion/logging"
	"github.com/milk9111/locomotion/prefabs"
)

func main() {
	rt, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	debug := flag.Bool("debug", rt.Debug, "enable debug mode (hot reload, debug logging)")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	levelName := flag.String("level", "", "level file in levels/ (.json or .tmx)")
	telemetryAddr := flag.String("serve", rt.TelemetryAddr, "telemetry websocket address, empty to disable")
	flag.Parse()

	log, err := logging.New(logging.Config{Level: rt.LogLevel, File: rt.LogFile, Debug: *debug})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logging.Sync(log)

	prefabs.SetOverrideDir(rt.PrefabDir)

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	game, err := NewGame(GameOptions{
		Level:         *levelName,
		LevelDir:      rt.LevelDir,
		PrefabDir:     rt.PrefabDir,
		TelemetryAddr: *telemetryAddr,
		Debug:         *debug,
		Log:           log,
	})
	if err != nil {
		log.Fatal("failed to start", zap.Error(err))
	}
	defer game.Close()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("locomotion")
	ebiten.SetTPS(int(math.Round(1 / game.sim.FixedStep())))

	if err := ebiten.RunGame(game); err != nil {
		log.Error("game exited", zap.Error(err))
	}
}
