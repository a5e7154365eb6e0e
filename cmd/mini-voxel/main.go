package main

import (
	"flag"
	"fmt"
	"os"

	"mini-voxel/internal/config"
	"mini-voxel/internal/game"
	"mini-voxel/internal/logging"
	"mini-voxel/internal/preview"
	"mini-voxel/internal/registry"
	"mini-voxel/internal/streaming"
	"mini-voxel/pkg/blockmodel"

	"github.com/fatih/color"
	"github.com/xlab/closer"
)

func main() {
	var (
		configPath  = flag.String("config", "mini-voxel.yaml", "YAML config file (defaults when missing)")
		ticks       = flag.Int("ticks", 1800, "engine ticks to run")
		rate        = flag.Int("rate", 60, "ticks per second, 0 for unlimited")
		previewPath = flag.String("preview", "", "write a biome/height PNG of the spawn area and exit")
		modelsPath  = flag.String("models", "", "assets directory with models/block/*.json shapes")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("config: %v", err))
		os.Exit(1)
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("logging: %v", err))
		os.Exit(1)
	}

	var shapes []registry.Shape
	if *modelsPath != "" {
		shapes, err = blockmodel.NewLoader(os.DirFS(*modelsPath)).LoadShapes()
		if err != nil {
			log.WithError(err).Fatal("load block models")
		}
		log.WithField("shapes", len(shapes)).Info("block models loaded")
	}
	reg, err := registry.DefaultWithShapes(shapes)
	if err != nil {
		log.WithError(err).Fatal("registry")
	}

	sink := &streaming.MemorySink{}
	session, err := game.NewSession(cfg, reg, log, sink)
	if err != nil {
		log.WithError(err).Fatal("session")
	}
	closer.Bind(session.Close)
	defer closer.Close()

	if *previewPath != "" {
		err := preview.WriteFile(*previewPath, session.Gen, reg.Biomes(), preview.Options{Radius: 128, Scale: 2})
		if err != nil {
			log.WithError(err).Error("preview")
			return
		}
		color.Green("preview written to %s", *previewPath)
		return
	}

	r := newRunner(session, log, *rate)
	r.run(*ticks)
	r.summary(sink)
}
