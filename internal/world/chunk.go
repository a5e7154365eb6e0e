package world

// MaxLight is the brightest value stored in a chunk's light grid.
const MaxLight = 127

// Chunk is a dense size³ grid of block ids plus a light grid of the same shape.
// Voxels are addressed by x*size*size + y*size + z.
type Chunk struct {
	Coord  ChunkCoord
	Size   int
	Blocks []BlockID
	Light  []uint8
}

// NewChunk creates an all-air, unlit chunk.
func NewChunk(coord ChunkCoord, size int) *Chunk {
	volume := size * size * size
	return &Chunk{
		Coord:  coord,
		Size:   size,
		Blocks: make([]BlockID, volume),
		Light:  make([]uint8, volume),
	}
}

// Index converts local coordinates to the flat voxel index. Callers must check
// bounds first.
func (c *Chunk) Index(x, y, z int) int {
	return x*c.Size*c.Size + y*c.Size + z
}

// InBounds reports whether the local coordinate lies in [0,size) on every axis.
func (c *Chunk) InBounds(x, y, z int) bool {
	return x >= 0 && x < c.Size && y >= 0 && y < c.Size && z >= 0 && z < c.Size
}

// Get returns the block at local coordinates, or Air outside the chunk.
func (c *Chunk) Get(x, y, z int) BlockID {
	if !c.InBounds(x, y, z) {
		return Air
	}
	return c.Blocks[c.Index(x, y, z)]
}

// Set writes a block at local coordinates. Out-of-bounds writes are dropped
// and report false.
func (c *Chunk) Set(x, y, z int, id BlockID) bool {
	if !c.InBounds(x, y, z) {
		return false
	}
	c.Blocks[c.Index(x, y, z)] = id
	return true
}

// LightAt returns the stored light level, or MaxLight outside the chunk.
func (c *Chunk) LightAt(x, y, z int) uint8 {
	if !c.InBounds(x, y, z) {
		return MaxLight
	}
	return c.Light[c.Index(x, y, z)]
}

// IsEmpty reports whether every voxel is air.
func (c *Chunk) IsEmpty() bool {
	for _, id := range c.Blocks {
		if id != Air {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (c *Chunk) Clone() *Chunk {
	out := &Chunk{
		Coord:  c.Coord,
		Size:   c.Size,
		Blocks: make([]BlockID, len(c.Blocks)),
		Light:  make([]uint8, len(c.Light)),
	}
	copy(out.Blocks, c.Blocks)
	copy(out.Light, c.Light)
	return out
}
