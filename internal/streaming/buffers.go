package streaming

import (
	"sort"
	"sync"

	"mini-voxel/internal/meshing"
	"mini-voxel/internal/profiling"
	"mini-voxel/internal/store"

	"github.com/sirupsen/logrus"
)

// Stream selects one of the two vertex buffers.
type Stream int

const (
	StreamOpaque Stream = iota
	StreamTransparent

	streamCount = 2
)

func (s Stream) String() string {
	if s == StreamTransparent {
		return "transparent"
	}
	return "opaque"
}

// Sink receives encoded vertex bytes for the GPU side. Offsets are byte
// offsets into the stream's buffer.
type Sink interface {
	WriteAt(s Stream, offset int, data []byte)
	Truncate(s Stream, length int)
}

// Region is where a slot's vertices live inside a stream buffer.
type Region struct {
	Offset   int
	Size     int
	Capacity int
}

type streamState struct {
	regions    map[store.SlotID]Region
	data       map[store.SlotID][]byte
	length     int
	fragmented int
}

type defragPass struct {
	order     [streamCount][]store.SlotID
	cursor    [streamCount]int
	relocated [streamCount]map[store.SlotID]struct{}
	shard     int
	shards    int
}

// Buffers tracks per-slot regions in the growing vertex buffers. Uploads
// overwrite a slot's region in place when the new data fits and append
// otherwise. A CPU copy of every region is kept so defragmentation can move
// data without reading back from the GPU.
//
// Buffers is owned by the main loop; it is not safe for concurrent use.
type Buffers struct {
	sink    Sink
	streams [streamCount]*streamState
	defrag  *defragPass
	log     logrus.FieldLogger
}

// NewBuffers creates empty buffers writing through sink.
func NewBuffers(sink Sink, log logrus.FieldLogger) *Buffers {
	b := &Buffers{sink: sink, log: log}
	for i := range b.streams {
		b.streams[i] = &streamState{
			regions: make(map[store.SlotID]Region),
			data:    make(map[store.SlotID][]byte),
		}
	}
	return b
}

// Upload writes both streams of a chunk mesh into slot's regions.
func (b *Buffers) Upload(slot store.SlotID, mesh *meshing.ChunkMesh) {
	defer profiling.Track("streaming.Upload")()
	b.upload(StreamOpaque, slot, mesh.Opaque.Encode())
	b.upload(StreamTransparent, slot, mesh.Transparent.Encode())
}

func (b *Buffers) upload(s Stream, slot store.SlotID, data []byte) {
	st := b.streams[s]
	r, ok := st.regions[slot]
	if ok && len(data) <= r.Capacity {
		r.Size = len(data)
	} else {
		if ok {
			st.fragmented += r.Capacity
		}
		if b.defrag != nil {
			// appended past the compaction front; the pass must not move it
			b.defrag.relocated[s][slot] = struct{}{}
		}
		r = Region{Offset: st.length, Size: len(data), Capacity: len(data)}
		st.length += len(data)
	}
	st.regions[slot] = r
	st.data[slot] = data
	if len(data) > 0 {
		b.sink.WriteAt(s, r.Offset, data)
	}
}

// Region returns slot's region in stream s.
func (b *Buffers) Region(s Stream, slot store.SlotID) (Region, bool) {
	r, ok := b.streams[s].regions[slot]
	return r, ok
}

// HasRegion reports whether slot has been uploaded since its region was last
// released.
func (b *Buffers) HasRegion(slot store.SlotID) bool {
	_, ok := b.streams[StreamOpaque].regions[slot]
	return ok
}

// Len returns the used length of stream s in bytes.
func (b *Buffers) Len(s Stream) int { return b.streams[s].length }

// Fragmented returns the bytes of stream s no longer referenced by any slot.
func (b *Buffers) Fragmented(s Stream) int { return b.streams[s].fragmented }

// Defragging reports whether a pass is in progress.
func (b *Buffers) Defragging() bool { return b.defrag != nil }

// BeginDefrag starts a compaction pass over the active slots, split into
// shards steps. Regions of slots not in active are released. It returns
// false if a pass is already running.
func (b *Buffers) BeginDefrag(active []store.SlotID, shards int) bool {
	if b.defrag != nil {
		return false
	}
	if shards < 1 {
		shards = 1
	}
	keep := make(map[store.SlotID]struct{}, len(active))
	for _, s := range active {
		keep[s] = struct{}{}
	}

	p := &defragPass{shards: shards}
	for i, st := range b.streams {
		for slot := range st.regions {
			if _, ok := keep[slot]; !ok {
				delete(st.regions, slot)
				delete(st.data, slot)
			}
		}
		order := make([]store.SlotID, 0, len(st.regions))
		for slot := range st.regions {
			order = append(order, slot)
		}
		// sliding compaction is safe in place only in offset order
		sort.Slice(order, func(a, c int) bool {
			return st.regions[order[a]].Offset < st.regions[order[c]].Offset
		})
		p.order[i] = order
		p.relocated[i] = make(map[store.SlotID]struct{})
	}
	b.defrag = p
	b.log.WithFields(logrus.Fields{
		"opaque":      len(p.order[StreamOpaque]),
		"transparent": len(p.order[StreamTransparent]),
		"shards":      shards,
	}).Debug("defrag started")
	return true
}

// StepDefrag moves the next shard of regions down to their compacted
// offsets. It returns true when the pass has finished.
func (b *Buffers) StepDefrag() bool {
	p := b.defrag
	if p == nil {
		return true
	}
	defer profiling.Track("streaming.Defrag")()

	for i, st := range b.streams {
		order := p.order[i]
		lo := p.shard * len(order) / p.shards
		hi := (p.shard + 1) * len(order) / p.shards
		for _, slot := range order[lo:hi] {
			r, ok := st.regions[slot]
			if !ok {
				continue
			}
			if _, moved := p.relocated[i][slot]; moved {
				continue
			}
			if r.Offset > p.cursor[i] {
				r.Offset = p.cursor[i]
				if r.Size > 0 {
					b.sink.WriteAt(Stream(i), r.Offset, st.data[slot])
				}
			}
			r.Capacity = r.Size
			st.regions[slot] = r
			p.cursor[i] = r.Offset + r.Capacity
		}
	}

	p.shard++
	if p.shard < p.shards {
		return false
	}

	for i, st := range b.streams {
		end, used := p.cursor[i], 0
		for _, r := range st.regions {
			end = max(end, r.Offset+r.Capacity)
			used += r.Capacity
		}
		before := st.length
		st.length = end
		// regions appended mid-pass leave holes behind the cursor
		st.fragmented = end - used
		b.sink.Truncate(Stream(i), end)
		b.log.WithFields(logrus.Fields{"stream": Stream(i), "before": before, "after": end}).Debug("defrag finished")
	}
	b.defrag = nil
	return true
}

// MemorySink keeps stream buffers in memory. It stands in for the GPU side
// in the headless driver and in tests.
type MemorySink struct {
	mu   sync.Mutex
	bufs [streamCount][]byte
}

func (m *MemorySink) WriteAt(s Stream, offset int, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	end := offset + len(data)
	if end > len(m.bufs[s]) {
		grown := make([]byte, end, max(end, 2*len(m.bufs[s])))
		copy(grown, m.bufs[s])
		m.bufs[s] = grown
	}
	copy(m.bufs[s][offset:end], data)
}

func (m *MemorySink) Truncate(s Stream, length int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if length < len(m.bufs[s]) {
		m.bufs[s] = m.bufs[s][:length]
	}
}

// Bytes returns a copy of stream s.
func (m *MemorySink) Bytes(s Stream) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.bufs[s]...)
}
