package world

// Neighborhood is a chunk together with the loaded chunks around it, resolved
// once so voxel lookups past the chunk edge need no further map access.
type Neighborhood struct {
	Center *Chunk
	ring   [27]*Chunk
}

// NewNeighborhood collects the 26 surrounding chunks using lookup. lookup may
// return nil for chunks that are not loaded.
func NewNeighborhood(center *Chunk, lookup func(ChunkCoord) *Chunk) *Neighborhood {
	n := &Neighborhood{Center: center}
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				i := ringIndex(dx, dy, dz)
				if i == ringIndex(0, 0, 0) {
					n.ring[i] = center
					continue
				}
				if lookup != nil {
					n.ring[i] = lookup(center.Coord.Add(dx, dy, dz))
				}
			}
		}
	}
	return n
}

func ringIndex(dx, dy, dz int) int {
	return (dx+1)*9 + (dy+1)*3 + (dz+1)
}

// BlockAt resolves a voxel given in the center chunk's local coordinates,
// which may lie up to one chunk outside [0,size). Voxels in unloaded chunks,
// or further than one chunk away, read as Air.
func (n *Neighborhood) BlockAt(x, y, z int) BlockID {
	s := n.Center.Size
	dx, dy, dz := floorDiv(x, s), floorDiv(y, s), floorDiv(z, s)
	if dx < -1 || dx > 1 || dy < -1 || dy > 1 || dz < -1 || dz > 1 {
		return Air
	}
	c := n.ring[ringIndex(dx, dy, dz)]
	if c == nil {
		return Air
	}
	return c.Blocks[c.Index(mod(x, s), mod(y, s), mod(z, s))]
}

// Loaded reports whether the chunk at the given chunk-step offset is present.
func (n *Neighborhood) Loaded(dx, dy, dz int) bool {
	if dx < -1 || dx > 1 || dy < -1 || dy > 1 || dz < -1 || dz > 1 {
		return false
	}
	return n.ring[ringIndex(dx, dy, dz)] != nil
}
