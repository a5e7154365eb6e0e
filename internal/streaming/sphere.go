package streaming

import (
	"math"
	"sort"

	"mini-voxel/internal/world"
)

// sphereOffsets lists chunk offsets within radius of the origin, nearest
// first. Each axis range shrinks with the remaining radius, so the box is
// cut down to a sphere without testing every cell of it.
func sphereOffsets(radius int) []world.ChunkCoord {
	r2 := radius * radius
	var out []world.ChunkCoord
	for dx := -radius; dx <= radius; dx++ {
		ry := isqrt(r2 - dx*dx)
		for dy := -ry; dy <= ry; dy++ {
			rz := isqrt(r2 - dx*dx - dy*dy)
			for dz := -rz; dz <= rz; dz++ {
				out = append(out, world.ChunkCoord{X: dx, Y: dy, Z: dz})
			}
		}
	}
	var origin world.ChunkCoord
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistSq(origin) < out[j].DistSq(origin)
	})
	return out
}

func isqrt(v int) int {
	if v <= 0 {
		return 0
	}
	r := int(math.Sqrt(float64(v)))
	for r*r > v {
		r--
	}
	for (r+1)*(r+1) <= v {
		r++
	}
	return r
}
