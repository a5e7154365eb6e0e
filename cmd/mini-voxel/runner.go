package main

import (
	"errors"

	"mini-voxel/internal/game"
	"mini-voxel/internal/profiling"
	"mini-voxel/internal/streaming"
	"mini-voxel/internal/world"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
)

const (
	statsEvery = 300
	editEvery  = 120
	walkSpeed  = 0.25 // units per tick
	turnSpeed  = 0.15 // degrees per tick
)

// runner drives a session along a scripted walk: the observer circles
// slowly, breaking the block at its feet and placing stone back now and
// then.
type runner struct {
	s       *game.Session
	log     logrus.FieldLogger
	limiter *game.TickLimiter

	edits  int
	missed int
}

func newRunner(s *game.Session, log logrus.FieldLogger, rate int) *runner {
	return &runner{s: s, log: log, limiter: game.NewTickLimiter(rate)}
}

func (r *runner) run(ticks int) {
	stone, _ := r.s.Registry.BlockID("stone")
	for tick := 1; tick <= ticks; tick++ {
		r.limiter.Wait()

		o := &r.s.Observer
		o.Look(turnSpeed, 0)
		o.Move(walkSpeed, 0, 0)
		// follow the terrain
		x, _, z := world.VoxelAt(o.Position, r.s.Config.World.UnitsPerVoxel)
		o.Position[1] = r.s.SpawnPoint(x, z).Y()

		r.s.Update()

		switch tick % editEvery {
		case 0:
			r.editAtFeet(func() error { _, err := r.s.BreakBlock(); return err })
		case editEvery / 2:
			r.editAtFeet(func() error { _, err := r.s.PlaceBlock(stone); return err })
		}
		for _, ev := range r.s.Sounds.Drain() {
			r.log.WithFields(logrus.Fields{"sound": ev.ID, "volume": ev.Volume}).Debug("play")
		}

		if tick%statsEvery == 0 {
			r.report(tick)
		}
	}
}

func (r *runner) editAtFeet(apply func() error) {
	o := &r.s.Observer
	pitch := o.Pitch
	o.Pitch = -80
	defer func() { o.Pitch = pitch }()

	err := apply()
	switch {
	case err == nil:
		r.edits++
	case errors.Is(err, game.ErrNoTarget):
		r.missed++
	default:
		r.log.WithError(err).Warn("edit failed")
	}
}

func (r *runner) report(tick int) {
	ws := r.s.World.Stats()
	ss := r.s.Streamer.Stats()
	r.log.WithFields(logrus.Fields{
		"tick":      tick,
		"loaded":    ws.Loaded,
		"active":    ws.Active,
		"queued":    ws.Queued,
		"pending":   ws.Completions,
		"generated": ss.Generated,
		"remeshed":  ss.Remeshed,
		"opaque":    r.s.Buffers.Len(streaming.StreamOpaque),
		"fragment":  r.s.Buffers.Fragmented(streaming.StreamOpaque),
	}).Info("streaming")
	r.log.Debug("profile: " + profiling.TopN(6))
	profiling.ResetFrame()
}

func (r *runner) summary(sink *streaming.MemorySink) {
	ws := r.s.World.Stats()
	ss := r.s.Streamer.Stats()
	color.Cyan("session %s", r.s.ID)
	color.Green("chunks: %d loaded, %d active, %d slots", ws.Loaded, ws.Active, ws.Slots)
	color.Green("uploads: %d new, %d updates", ss.UploadedNew, ss.UploadedUpdates)
	color.Green("buffers: %d opaque bytes, %d transparent bytes",
		len(sink.Bytes(streaming.StreamOpaque)), len(sink.Bytes(streaming.StreamTransparent)))
	if r.missed > 0 {
		color.Yellow("edits: %d applied, %d out of reach", r.edits, r.missed)
	} else {
		color.Green("edits: %d applied", r.edits)
	}
}
