package store

import (
	"errors"
	"sync"

	"mini-voxel/internal/meshing"
	"mini-voxel/internal/world"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrNotLoaded is returned by edits that target a chunk that is not loaded.
var ErrNotLoaded = errors.New("store: chunk not loaded")

// SlotID is a render-buffer slot. Slots are handed out once per chunk
// coordinate and never reassigned.
type SlotID int

// State is where a chunk coordinate sits in the streaming lifecycle.
type State int

const (
	StateUnknown State = iota
	StateQueued
	StateGenerating
	StateLoaded
	StateActive
)

func (s State) String() string {
	switch s {
	case StateQueued:
		return "queued"
	case StateGenerating:
		return "generating"
	case StateLoaded:
		return "loaded"
	case StateActive:
		return "active"
	default:
		return "unknown"
	}
}

// Completion is a freshly built mesh waiting to be written to render buffers.
type Completion struct {
	Coord  world.ChunkCoord
	Slot   SlotID
	Mesh   *meshing.ChunkMesh
	Origin mgl64.Vec3
	New    bool
}

// Stats is a point-in-time view of the store's queues.
type Stats struct {
	Loaded      int
	Queued      int
	Generating  int
	Active      int
	Slots       int
	Remesh      int
	Completions int
}

// World owns every loaded chunk and the streaming queues. All methods are
// safe for concurrent use; each holds the single mutex only for bookkeeping.
type World struct {
	mu   sync.Mutex
	size int
	unit float64

	chunks map[world.ChunkCoord]*world.Chunk

	slots  map[world.ChunkCoord]SlotID
	coords []world.ChunkCoord // slot -> coord

	active    []SlotID
	activeSet map[SlotID]struct{}

	queue    []world.ChunkCoord
	queued   map[world.ChunkCoord]struct{}
	inflight map[world.ChunkCoord]struct{}

	remesh    []world.ChunkCoord
	remeshSet map[world.ChunkCoord]struct{}

	completions []Completion
}

// New creates an empty store for chunks of the given size.
func New(size int, unitsPerVoxel float64) *World {
	return &World{
		size:      size,
		unit:      unitsPerVoxel,
		chunks:    make(map[world.ChunkCoord]*world.Chunk),
		slots:     make(map[world.ChunkCoord]SlotID),
		activeSet: make(map[SlotID]struct{}),
		queued:    make(map[world.ChunkCoord]struct{}),
		inflight:  make(map[world.ChunkCoord]struct{}),
		remeshSet: make(map[world.ChunkCoord]struct{}),
	}
}

// ChunkSize returns the engine-wide chunk size.
func (w *World) ChunkSize() int { return w.size }

// Enqueue schedules coord for generation. It is a no-op for coordinates that
// are already loaded, queued or being generated.
func (w *World) Enqueue(coord world.ChunkCoord) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enqueueLocked(coord)
}

func (w *World) enqueueLocked(coord world.ChunkCoord) bool {
	if _, ok := w.chunks[coord]; ok {
		return false
	}
	if _, ok := w.queued[coord]; ok {
		return false
	}
	if _, ok := w.inflight[coord]; ok {
		return false
	}
	w.queued[coord] = struct{}{}
	w.queue = append(w.queue, coord)
	return true
}

// TryDequeue pops the oldest queued coordinate and marks it as generating.
func (w *World) TryDequeue() (world.ChunkCoord, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.queue) == 0 {
		return world.ChunkCoord{}, false
	}
	coord := w.queue[0]
	w.queue[0] = world.ChunkCoord{}
	w.queue = w.queue[1:]
	delete(w.queued, coord)
	w.inflight[coord] = struct{}{}
	return coord, true
}

// CommitGeneratedChunk stores a generated chunk with its mesh, assigns its
// render slot and queues the mesh for upload. Loaded face neighbors are
// queued for a remesh so their faces against the new chunk get culled.
func (w *World) CommitGeneratedChunk(c *world.Chunk, mesh *meshing.ChunkMesh) SlotID {
	w.mu.Lock()
	defer w.mu.Unlock()

	delete(w.inflight, c.Coord)
	w.chunks[c.Coord] = c
	slot := w.slotLocked(c.Coord)
	if _, ok := w.activeSet[slot]; !ok {
		w.activeSet[slot] = struct{}{}
		w.active = append(w.active, slot)
	}
	w.pushCompletionLocked(Completion{
		Coord:  c.Coord,
		Slot:   slot,
		Mesh:   mesh,
		Origin: c.Coord.Origin(w.size, w.unit),
		New:    true,
	})

	for _, f := range world.Faces {
		n := f.Normal()
		nb := c.Coord.Add(n[0], n[1], n[2])
		if _, ok := w.chunks[nb]; ok {
			w.requestRemeshLocked(nb)
		}
	}
	return slot
}

func (w *World) slotLocked(coord world.ChunkCoord) SlotID {
	if s, ok := w.slots[coord]; ok {
		return s
	}
	s := SlotID(len(w.coords))
	w.slots[coord] = s
	w.coords = append(w.coords, coord)
	return s
}

// pushCompletionLocked coalesces with an undrained completion for the same
// slot so an older mesh can never be uploaded after a newer one.
func (w *World) pushCompletionLocked(c Completion) {
	for i := range w.completions {
		if w.completions[i].Slot == c.Slot {
			c.New = c.New || w.completions[i].New
			w.completions[i] = c
			return
		}
	}
	w.completions = append(w.completions, c)
}

// RequestRemesh queues a loaded chunk for remeshing. Chunks with a pending
// completion are skipped; that mesh is still to be uploaded.
func (w *World) RequestRemesh(coord world.ChunkCoord) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.chunks[coord]; !ok {
		return false
	}
	slot := w.slots[coord]
	for i := range w.completions {
		if w.completions[i].Slot == slot {
			return false
		}
	}
	return w.requestRemeshLocked(coord)
}

// RequestRemeshAfterEdit queues a loaded chunk whose neighbor was edited.
// Unlike RequestRemesh it ignores a pending completion, since that mesh was
// built before the edit; the remesh result coalesces over it.
func (w *World) RequestRemeshAfterEdit(coord world.ChunkCoord) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.chunks[coord]; !ok {
		return false
	}
	return w.requestRemeshLocked(coord)
}

// RequestRemeshSlot is RequestRemesh addressed by slot.
func (w *World) RequestRemeshSlot(slot SlotID) bool {
	w.mu.Lock()
	if int(slot) < 0 || int(slot) >= len(w.coords) {
		w.mu.Unlock()
		return false
	}
	coord := w.coords[slot]
	w.mu.Unlock()
	return w.RequestRemesh(coord)
}

func (w *World) requestRemeshLocked(coord world.ChunkCoord) bool {
	if _, ok := w.remeshSet[coord]; ok {
		return false
	}
	w.remeshSet[coord] = struct{}{}
	w.remesh = append(w.remesh, coord)
	return true
}

// TryDequeueRemesh pops the oldest remesh request and returns the chunk's
// current neighborhood.
func (w *World) TryDequeueRemesh() (*world.Neighborhood, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for len(w.remesh) > 0 {
		coord := w.remesh[0]
		w.remesh = w.remesh[1:]
		delete(w.remeshSet, coord)
		if c, ok := w.chunks[coord]; ok {
			return world.NewNeighborhood(c, w.lookupLocked), true
		}
	}
	return nil, false
}

// CommitRemesh queues a mesh rebuilt from c. It is dropped when c is no
// longer the stored chunk: an edit replaced it and uploaded its own mesh.
func (w *World) CommitRemesh(c *world.Chunk, mesh *meshing.ChunkMesh) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	coord := c.Coord
	if w.chunks[coord] != c {
		return false
	}
	slot := w.slots[coord]
	w.pushCompletionLocked(Completion{
		Coord:  coord,
		Slot:   slot,
		Mesh:   mesh,
		Origin: coord.Origin(w.size, w.unit),
	})
	return true
}

// DrainCompletions removes up to maxNew new-chunk and maxUpdates remesh
// completions in FIFO order. The rest stay queued in order.
func (w *World) DrainCompletions(maxNew, maxUpdates int) []Completion {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []Completion
	kept := w.completions[:0]
	for _, c := range w.completions {
		switch {
		case c.New && maxNew > 0:
			maxNew--
			out = append(out, c)
		case !c.New && maxUpdates > 0:
			maxUpdates--
			out = append(out, c)
		default:
			kept = append(kept, c)
		}
	}
	for i := len(kept); i < len(w.completions); i++ {
		w.completions[i] = Completion{}
	}
	w.completions = kept
	return out
}

// Survey rebuilds the active set around center: loaded chunks at the given
// offsets become active, the rest are queued. It returns the number of
// newly queued coordinates.
func (w *World) Survey(center world.ChunkCoord, offsets []world.ChunkCoord) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.active = w.active[:0]
	clear(w.activeSet)
	queued := 0
	for _, o := range offsets {
		coord := center.Add(o.X, o.Y, o.Z)
		if _, ok := w.chunks[coord]; ok {
			slot := w.slots[coord]
			w.activeSet[slot] = struct{}{}
			w.active = append(w.active, slot)
			continue
		}
		if w.enqueueLocked(coord) {
			queued++
		}
	}
	return queued
}

// ActiveSlots returns a copy of the active slot list.
func (w *World) ActiveSlots() []SlotID {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]SlotID(nil), w.active...)
}

// IsActive reports whether slot is in the active set.
func (w *World) IsActive(slot SlotID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.activeSet[slot]
	return ok
}

// State reports the lifecycle state of coord.
func (w *World) State(coord world.ChunkCoord) State {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.queued[coord]; ok {
		return StateQueued
	}
	if _, ok := w.inflight[coord]; ok {
		return StateGenerating
	}
	if _, ok := w.chunks[coord]; !ok {
		return StateUnknown
	}
	if _, ok := w.activeSet[w.slots[coord]]; ok {
		return StateActive
	}
	return StateLoaded
}

// Chunk returns the loaded chunk at coord. The returned chunk must be
// treated as read-only; edits go through ApplyEdit.
func (w *World) Chunk(coord world.ChunkCoord) (*world.Chunk, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	c, ok := w.chunks[coord]
	return c, ok
}

// Slot returns the render slot assigned to coord.
func (w *World) Slot(coord world.ChunkCoord) (SlotID, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.slots[coord]
	return s, ok
}

// Neighborhood returns a loaded chunk with its loaded neighbors.
func (w *World) Neighborhood(coord world.ChunkCoord) (*world.Neighborhood, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	c, ok := w.chunks[coord]
	if !ok {
		return nil, false
	}
	return world.NewNeighborhood(c, w.lookupLocked), true
}

// NeighborhoodFor wraps a chunk that is not committed yet with the loaded
// chunks around it.
func (w *World) NeighborhoodFor(c *world.Chunk) *world.Neighborhood {
	w.mu.Lock()
	defer w.mu.Unlock()
	return world.NewNeighborhood(c, w.lookupLocked)
}

func (w *World) lookupLocked(coord world.ChunkCoord) *world.Chunk {
	return w.chunks[coord]
}

// BlockAt reads a world voxel. Unloaded chunks read as air.
func (w *World) BlockAt(wx, wy, wz int) world.BlockID {
	coord, local := world.Locate(wx, wy, wz, w.size)
	w.mu.Lock()
	c, ok := w.chunks[coord]
	w.mu.Unlock()
	if !ok {
		return world.Air
	}
	return c.Get(local[0], local[1], local[2])
}

// EditResult describes an applied edit.
type EditResult struct {
	Chunk    *world.Chunk
	Slot     SlotID
	Local    [3]int
	Previous world.BlockID
}

// ApplyEdit sets one world voxel. The owning chunk is copied, modified and
// relit with relight before replacing the stored chunk, so meshers holding
// the old chunk never see a partial write. Pending uploads and remesh
// requests for that chunk are dropped; the caller remeshes it.
func (w *World) ApplyEdit(wx, wy, wz int, id world.BlockID, relight func(c *world.Chunk, x, z int)) (EditResult, error) {
	coord, local := world.Locate(wx, wy, wz, w.size)

	w.mu.Lock()
	defer w.mu.Unlock()
	old, ok := w.chunks[coord]
	if !ok {
		return EditResult{}, ErrNotLoaded
	}
	c := old.Clone()
	prev := c.Get(local[0], local[1], local[2])
	c.Set(local[0], local[1], local[2], id)
	if relight != nil {
		relight(c, local[0], local[2])
	}
	w.chunks[coord] = c

	slot := w.slots[coord]
	kept := w.completions[:0]
	for _, comp := range w.completions {
		if comp.Slot != slot {
			kept = append(kept, comp)
		}
	}
	w.completions = kept
	if _, ok := w.remeshSet[coord]; ok {
		delete(w.remeshSet, coord)
		for i, rc := range w.remesh {
			if rc == coord {
				w.remesh = append(w.remesh[:i], w.remesh[i+1:]...)
				break
			}
		}
	}

	return EditResult{Chunk: c, Slot: slot, Local: local, Previous: prev}, nil
}

// Stats returns queue and map sizes.
func (w *World) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Stats{
		Loaded:      len(w.chunks),
		Queued:      len(w.queue),
		Generating:  len(w.inflight),
		Active:      len(w.active),
		Slots:       len(w.coords),
		Remesh:      len(w.remesh),
		Completions: len(w.completions),
	}
}
