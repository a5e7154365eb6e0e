package meshing

import (
	"mini-voxel/internal/registry"
	"mini-voxel/internal/world"
)

type corner struct {
	pos    [3]float64 // voxel-local, 0..1
	su, sv int        // direction of the corner along the in-plane axes
}

// quad is one element face, corners wound counter-clockwise seen from
// outside.
type quad struct {
	corners [4]corner
	extentU float64
	extentV float64
}

func (q quad) degenerate() bool {
	return q.extentU == 0 || q.extentV == 0
}

// inPlaneAxes returns the two axes spanning a face, ordered so that
// u × v points along the positive face axis.
func inPlaneAxes(f world.BlockFace) (int, int) {
	a := f.Axis()
	return (a + 1) % 3, (a + 2) % 3
}

func elementFace(el registry.Element, f world.BlockFace) quad {
	var lo, hi [3]float64
	for i := 0; i < 3; i++ {
		lo[i] = float64(el.From[i]) / 8
		hi[i] = float64(el.To[i]) / 8
	}
	a := f.Axis()
	u, v := inPlaneAxes(f)

	plane := lo[a]
	if f.Positive() {
		plane = hi[a]
	}

	// (u,v) sides: -1 = low edge, +1 = high edge
	uvs := [4][2]int{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	if !f.Positive() {
		uvs = [4][2]int{{-1, -1}, {-1, 1}, {1, 1}, {1, -1}}
	}

	q := quad{extentU: hi[u] - lo[u], extentV: hi[v] - lo[v]}
	for i, s := range uvs {
		var p [3]float64
		p[a] = plane
		p[u] = lo[u]
		if s[0] > 0 {
			p[u] = hi[u]
		}
		p[v] = lo[v]
		if s[1] > 0 {
			p[v] = hi[v]
		}
		q.corners[i] = corner{pos: p, su: s[0], sv: s[1]}
	}
	return q
}
