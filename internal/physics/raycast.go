package physics

import (
	"mini-voxel/internal/profiling"
	"mini-voxel/internal/world"

	"github.com/go-gl/mathgl/mgl64"
)

// BlockSource answers voxel queries in world voxel coordinates.
type BlockSource interface {
	BlockAt(wx, wy, wz int) world.BlockID
}

// RaycastResult stores the result of a look-ray march.
type RaycastResult struct {
	Hit         bool
	HitPosition [3]int
	Adjacent    [3]int // last air voxel before the hit
	HasAdjacent bool
	Distance    float64
	BlockID     world.BlockID
}

// March walks steps fixed-length samples from origin along dir and returns
// the first non-air voxel. dir need not be normalized; stepLen is measured
// along the normalized direction in world units.
func March(origin, dir mgl64.Vec3, steps int, stepLen, unitsPerVoxel float64, src BlockSource) RaycastResult {
	defer profiling.Track("physics.March")()
	var res RaycastResult
	if dir.Len() == 0 || steps <= 0 {
		return res
	}
	dir = dir.Normalize()

	var last [3]int
	haveLast := false
	for i := 0; i <= steps; i++ {
		dist := float64(i) * stepLen
		x, y, z := world.VoxelAt(origin.Add(dir.Mul(dist)), unitsPerVoxel)
		cur := [3]int{x, y, z}
		if haveLast && cur == last {
			continue
		}
		if id := src.BlockAt(x, y, z); id != world.Air {
			res.Hit = true
			res.HitPosition = cur
			res.Adjacent = last
			res.HasAdjacent = haveLast
			res.Distance = dist
			res.BlockID = id
			return res
		}
		last = cur
		haveLast = true
	}
	return res
}
