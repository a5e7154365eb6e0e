package streaming

import (
	"mini-voxel/internal/config"
	"mini-voxel/internal/lighting"
	"mini-voxel/internal/meshing"
	"mini-voxel/internal/profiling"
	"mini-voxel/internal/registry"
	"mini-voxel/internal/store"
	"mini-voxel/internal/terrain"
	"mini-voxel/internal/world"

	"github.com/alitto/pond/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// Options wires a Scheduler to the rest of the engine.
type Options struct {
	Config        config.StreamingConfig
	ChunkSize     int
	UnitsPerVoxel float64
	World         *store.World
	Generator     *terrain.Generator
	Registry      *registry.Registry
	Mesher        *meshing.Mesher
	Buffers       *Buffers
	Log           logrus.FieldLogger
}

// Stats are cumulative scheduler counters.
type Stats struct {
	Ticks           int64
	Generated       int64
	Remeshed        int64
	UploadedNew     int64
	UploadedUpdates int64
	InFlight        int64
}

// Scheduler streams chunks around the observer. Tick is called once per
// engine tick from the main loop; generation and meshing run on a worker
// pool (or inline in foreground mode) and hand results back through the
// store's completion list.
type Scheduler struct {
	cfg     config.StreamingConfig
	size    int
	unit    float64
	world   *store.World
	gen     *terrain.Generator
	reg     *registry.Registry
	mesher  *meshing.Mesher
	buffers *Buffers
	log     logrus.FieldLogger

	pool    pond.Pool
	tick    int64
	radius  int
	offsets []world.ChunkCoord

	inflight        *atomic.Int64
	generated       *atomic.Int64
	remeshed        *atomic.Int64
	uploadedNew     *atomic.Int64
	uploadedUpdates *atomic.Int64
}

// New creates a scheduler. In background mode it starts a worker pool that
// Close stops.
func New(opts Options) *Scheduler {
	s := &Scheduler{
		cfg:             opts.Config,
		size:            opts.ChunkSize,
		unit:            opts.UnitsPerVoxel,
		world:           opts.World,
		gen:             opts.Generator,
		reg:             opts.Registry,
		mesher:          opts.Mesher,
		buffers:         opts.Buffers,
		log:             opts.Log,
		inflight:        atomic.NewInt64(0),
		generated:       atomic.NewInt64(0),
		remeshed:        atomic.NewInt64(0),
		uploadedNew:     atomic.NewInt64(0),
		uploadedUpdates: atomic.NewInt64(0),
	}
	s.cfg.Workers = max(s.cfg.Workers, 1)
	s.cfg.RecomputeEvery = max(s.cfg.RecomputeEvery, 1)
	s.cfg.DefragEvery = max(s.cfg.DefragEvery, 1)
	if s.cfg.Mode != config.ModeForeground {
		s.pool = pond.NewPool(s.cfg.Workers)
	}
	s.SetViewRadius(s.cfg.ViewRadius)
	return s
}

// SetViewRadius changes the streaming radius in chunks. It takes effect at
// the next recompute.
func (s *Scheduler) SetViewRadius(r int) {
	if r < 1 {
		r = 1
	}
	if r > 32 {
		r = 32
	}
	if r == s.radius && s.offsets != nil {
		return
	}
	s.radius = r
	s.offsets = sphereOffsets(r)
}

// ViewRadius returns the current streaming radius.
func (s *Scheduler) ViewRadius() int { return s.radius }

// Tick advances the scheduler by one engine tick.
func (s *Scheduler) Tick(observer mgl64.Vec3) {
	s.tick++
	if s.tick == 1 || s.tick%int64(s.cfg.RecomputeEvery) == 0 {
		s.recompute(observer)
	}
	s.dispatch()
	s.drain()

	if s.tick%int64(s.cfg.DefragEvery) == 0 {
		s.buffers.BeginDefrag(s.world.ActiveSlots(), s.cfg.DefragShards)
	}
	if s.buffers.Defragging() {
		s.buffers.StepDefrag()
	}
}

func (s *Scheduler) recompute(observer mgl64.Vec3) {
	defer profiling.Track("streaming.Recompute")()
	center := world.ChunkAt(observer, s.size, s.unit)
	queued := s.world.Survey(center, s.offsets)

	reupload := 0
	for _, slot := range s.world.ActiveSlots() {
		if !s.buffers.HasRegion(slot) && s.world.RequestRemeshSlot(slot) {
			reupload++
		}
	}
	if queued > 0 || reupload > 0 {
		s.log.WithFields(logrus.Fields{
			"center":   center,
			"queued":   queued,
			"reupload": reupload,
		}).Debug("recomputed active set")
	}
}

// dispatch hands queued work to the pool, keeping at most Workers jobs in
// flight. Generation takes priority over remeshing.
func (s *Scheduler) dispatch() {
	if s.pool == nil {
		for i := 0; i < s.cfg.ForegroundBudget; i++ {
			job := s.nextJob()
			if job == nil {
				return
			}
			job()
		}
		return
	}
	for s.inflight.Load() < int64(s.cfg.Workers) {
		job := s.nextJob()
		if job == nil {
			return
		}
		s.inflight.Inc()
		s.pool.Submit(func() {
			defer s.inflight.Dec()
			job()
		})
	}
}

func (s *Scheduler) nextJob() func() {
	if coord, ok := s.world.TryDequeue(); ok {
		return func() { s.generate(coord) }
	}
	if n, ok := s.world.TryDequeueRemesh(); ok {
		return func() { s.remesh(n) }
	}
	return nil
}

func (s *Scheduler) generate(coord world.ChunkCoord) {
	c := s.gen.Generate(coord)
	lighting.Propagate(c, s.reg)
	mesh := s.mesher.Build(s.world.NeighborhoodFor(c))
	s.world.CommitGeneratedChunk(c, mesh)
	s.generated.Inc()
}

func (s *Scheduler) remesh(n *world.Neighborhood) {
	mesh := s.mesher.Build(n)
	s.world.CommitRemesh(n.Center, mesh)
	s.remeshed.Inc()
}

// drain uploads a rate-limited batch of completions.
func (s *Scheduler) drain() {
	done := s.world.DrainCompletions(s.cfg.MaxNewPerTick, s.cfg.MaxUpdatesPerTick)
	if len(done) == 0 {
		return
	}
	defer profiling.Track("streaming.Drain")()
	for _, c := range done {
		s.buffers.Upload(c.Slot, c.Mesh)
		if c.New {
			s.uploadedNew.Inc()
		} else {
			s.uploadedUpdates.Inc()
		}
	}
}

// Stats returns the cumulative counters.
func (s *Scheduler) Stats() Stats {
	return Stats{
		Ticks:           s.tick,
		Generated:       s.generated.Load(),
		Remeshed:        s.remeshed.Load(),
		UploadedNew:     s.uploadedNew.Load(),
		UploadedUpdates: s.uploadedUpdates.Load(),
		InFlight:        s.inflight.Load(),
	}
}

// Close waits for in-flight jobs. Queued coordinates that were never
// dispatched stay queued.
func (s *Scheduler) Close() {
	if s.pool != nil {
		s.pool.StopAndWait()
	}
}
