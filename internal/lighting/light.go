package lighting

import (
	"mini-voxel/internal/profiling"
	"mini-voxel/internal/world"
)

// Step is how much light a transparent voxel absorbs.
const Step = world.MaxLight / 12

// Transparency answers whether a block lets light through.
type Transparency interface {
	IsTransparent(id world.BlockID) bool
}

// Propagate recomputes the whole light grid of c with a top-down scan of each
// column. There is no horizontal spread between columns.
func Propagate(c *world.Chunk, t Transparency) {
	defer profiling.Track("lighting.Propagate")()
	for x := 0; x < c.Size; x++ {
		for z := 0; z < c.Size; z++ {
			PropagateColumn(c, t, x, z)
		}
	}
}

// PropagateColumn rescans a single (x, z) column. Transparent blocks dim the
// running level by Step while it stays at or above Step. Opaque blocks leave
// it unchanged, so light continues below them.
func PropagateColumn(c *world.Chunk, t Transparency, x, z int) {
	light := world.MaxLight
	for y := c.Size - 1; y >= 0; y-- {
		idx := c.Index(x, y, z)
		id := c.Blocks[idx]
		if id != world.Air && t.IsTransparent(id) && light >= Step {
			light -= Step
		}
		c.Light[idx] = uint8(light)
	}
}
