package game

import (
	"errors"
	"fmt"

	"mini-voxel/internal/config"
	"mini-voxel/internal/lighting"
	"mini-voxel/internal/meshing"
	"mini-voxel/internal/physics"
	"mini-voxel/internal/player"
	"mini-voxel/internal/profiling"
	"mini-voxel/internal/registry"
	"mini-voxel/internal/sound"
	"mini-voxel/internal/store"
	"mini-voxel/internal/streaming"
	"mini-voxel/internal/terrain"
	"mini-voxel/internal/world"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	breakVolume = 1.0
	placeVolume = 0.8
)

var (
	// ErrNoTarget is returned when the look ray hits nothing within reach.
	ErrNoTarget = errors.New("game: no block in reach")
	// ErrInvalidBlock is returned when placing an id the registry never issued.
	ErrInvalidBlock = errors.New("game: invalid block id")
)

// Session wires the engine together around a single observer.
type Session struct {
	ID       string
	Config   config.Config
	Registry *registry.Registry
	World    *store.World
	Gen      *terrain.Generator
	Mesher   *meshing.Mesher
	Buffers  *streaming.Buffers
	Streamer *streaming.Scheduler
	Sounds   *sound.Queue
	Observer player.Observer

	log logrus.FieldLogger
}

// NewSession builds a session from cfg. Vertex data is written to sink.
func NewSession(cfg config.Config, reg *registry.Registry, log logrus.FieldLogger, sink streaming.Sink) (*Session, error) {
	id := uuid.NewString()
	log = log.WithField("session", id)

	wc := cfg.World
	gen, err := terrain.NewGenerator(reg, terrain.NewNoiseSampler(wc.Seed), wc.ChunkSize, wc.Seed, log)
	if err != nil {
		return nil, fmt.Errorf("new generator: %w", err)
	}
	w := store.New(wc.ChunkSize, wc.UnitsPerVoxel)
	mesher := meshing.NewMesher(reg, cfg.Meshing.AtlasTiles, wc.UnitsPerVoxel)
	buffers := streaming.NewBuffers(sink, log)
	sched := streaming.New(streaming.Options{
		Config:        cfg.Streaming,
		ChunkSize:     wc.ChunkSize,
		UnitsPerVoxel: wc.UnitsPerVoxel,
		World:         w,
		Generator:     gen,
		Registry:      reg,
		Mesher:        mesher,
		Buffers:       buffers,
		Log:           log,
	})

	s := &Session{
		ID:       id,
		Config:   cfg,
		Registry: reg,
		World:    w,
		Gen:      gen,
		Mesher:   mesher,
		Buffers:  buffers,
		Streamer: sched,
		Sounds:   &sound.Queue{},
		log:      log,
	}
	s.Observer.Position = s.SpawnPoint(0, 0)

	log.WithFields(logrus.Fields{
		"seed":   wc.Seed,
		"size":   wc.ChunkSize,
		"radius": cfg.Streaming.ViewRadius,
		"mode":   cfg.Streaming.Mode,
	}).Info("session started")
	return s, nil
}

// SpawnPoint returns the position standing on the terrain surface of the
// given world column.
func (s *Session) SpawnPoint(wx, wz int) mgl64.Vec3 {
	u := s.Config.World.UnitsPerVoxel
	h := s.Gen.HeightAt(wx, wz)
	return mgl64.Vec3{(float64(wx) + 0.5) * u, float64(h+1) * u, (float64(wz) + 0.5) * u}
}

// Update runs one engine tick.
func (s *Session) Update() {
	defer profiling.Track("game.Update")()
	s.Streamer.Tick(s.Observer.Position)
}

// Target returns what the observer's look ray hits.
func (s *Session) Target() physics.RaycastResult {
	e := s.Config.Edit
	return physics.March(s.Observer.Eye(), s.Observer.Front(), e.ReachSteps, e.StepLength, s.Config.World.UnitsPerVoxel, s.World)
}

// BreakBlock clears the voxel under the look ray.
func (s *Session) BreakBlock() (store.EditResult, error) {
	hit := s.Target()
	if !hit.Hit {
		return store.EditResult{}, ErrNoTarget
	}
	p := hit.HitPosition
	res, err := s.edit(p, world.Air)
	if err != nil {
		return res, err
	}
	s.Sounds.Emit(s.Registry.Block(res.Previous).Sound, breakVolume)
	return res, nil
}

// PlaceBlock puts id into the air voxel in front of the one under the look
// ray.
func (s *Session) PlaceBlock(id world.BlockID) (store.EditResult, error) {
	if id == world.Air || int(id) >= s.Registry.Len() {
		return store.EditResult{}, ErrInvalidBlock
	}
	hit := s.Target()
	if !hit.Hit || !hit.HasAdjacent {
		return store.EditResult{}, ErrNoTarget
	}
	res, err := s.edit(hit.Adjacent, id)
	if err != nil {
		return res, err
	}
	s.Sounds.Emit(s.Registry.Block(id).Sound, placeVolume)
	return res, nil
}

// edit applies a voxel change, relights its column and remeshes the chunk
// synchronously into its existing slot. Neighbors sharing the edited face
// are queued for an asynchronous remesh.
func (s *Session) edit(p [3]int, id world.BlockID) (store.EditResult, error) {
	defer profiling.Track("game.Edit")()
	res, err := s.World.ApplyEdit(p[0], p[1], p[2], id, func(c *world.Chunk, x, z int) {
		lighting.PropagateColumn(c, s.Registry, x, z)
	})
	if err != nil {
		return res, fmt.Errorf("edit %v: %w", p, err)
	}

	n, _ := s.World.Neighborhood(res.Chunk.Coord)
	s.Buffers.Upload(res.Slot, s.Mesher.Build(n))

	size := res.Chunk.Size
	for axis := 0; axis < 3; axis++ {
		var d [3]int
		switch res.Local[axis] {
		case 0:
			d[axis] = -1
		case size - 1:
			d[axis] = 1
		default:
			continue
		}
		s.World.RequestRemeshAfterEdit(res.Chunk.Coord.Add(d[0], d[1], d[2]))
	}

	s.log.WithFields(logrus.Fields{
		"pos":      p,
		"block":    s.Registry.Block(id).Name,
		"previous": s.Registry.Block(res.Previous).Name,
		"slot":     res.Slot,
	}).Debug("block edited")
	return res, nil
}

// Close stops the streaming workers.
func (s *Session) Close() {
	s.Streamer.Close()
	s.log.Info("session closed")
}
