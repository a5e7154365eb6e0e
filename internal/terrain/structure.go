package terrain

import (
	"math/rand/v2"

	"mini-voxel/internal/registry"
	"mini-voxel/internal/world"
)

// Stamp writes a structure's placements relative to origin (local chunk
// coordinates). Placements outside the chunk are dropped, never forwarded to
// neighbors. It returns the number of voxels written.
func Stamp(c *world.Chunk, s *registry.Structure, origin [3]int) int {
	written := 0
	for i := range s.Placements {
		p := &s.Placements[i]
		if c.Set(origin[0]+p.Offset[0], origin[1]+p.Offset[1], origin[2]+p.Offset[2], p.ID()) {
			written++
		}
	}
	return written
}

// roll draws once against a weighted table. Probabilities are cumulative in
// table order; a draw past their sum selects nothing.
func roll(table []registry.Decoration, rng *rand.Rand) *registry.Structure {
	if len(table) == 0 {
		return nil
	}
	r := rng.Float64()
	acc := 0.0
	for i := range table {
		acc += table[i].Probability
		if r < acc {
			return table[i].Target()
		}
	}
	return nil
}
