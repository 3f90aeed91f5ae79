package main

import (
	"context"
	"log"
	"math/rand"
	"os"

	"voxelrift/internal/config"
	"voxelrift/internal/game"
	"voxelrift/internal/sim"
	"voxelrift/internal/world"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	// Load configuration
	cfg := config.MustLoadConfig("config.yaml")

	logger, err := cfg.Logging.NewLogger(os.Stderr)
	if err != nil {
		log.Fatal(err)
	}

	w := world.Generate(cfg.World, rand.New(rand.NewSource(cfg.World.Seed)))
	s, err := sim.New(cfg, w, sim.WithLogger(logger))
	if err != nil {
		log.Fatal(err)
	}

	// Set window properties from config
	ebiten.SetWindowSize(cfg.Display.ScreenWidth, cfg.Display.ScreenHeight)
	ebiten.SetWindowTitle(cfg.Display.WindowTitle)
	if cfg.Display.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	if cfg.Display.TPS > 0 {
		ebiten.SetTPS(cfg.Display.TPS)
	}

	g, err := game.NewGame(context.Background(), cfg, s, logger)
	if err != nil {
		log.Fatal(err)
	}

	err = ebiten.RunGame(g)
	g.Close()
	if err != nil {
		logger.Error("game exited", "error", err, "run_id", s.RunID())
		os.Exit(1)
	}
	logger.Info("game closed", append([]any{"run_id", s.RunID()}, g.Monitor().GetCurrentMetrics().LogAttrs()...)...)
}
