package meshing

import (
	"mini-voxel/internal/profiling"
	"mini-voxel/internal/registry"
	"mini-voxel/internal/world"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	aoOpen     = 1.0
	aoOccluded = 0.5
)

// Mesher turns voxel grids into face-culled, shaded vertex streams.
type Mesher struct {
	reg   *registry.Registry
	tiles int
	unit  float64
}

// NewMesher creates a mesher for an atlas of atlasTiles×atlasTiles tiles and
// the given world units per voxel.
func NewMesher(reg *registry.Registry, atlasTiles int, unitsPerVoxel float64) *Mesher {
	if atlasTiles <= 0 {
		atlasTiles = reg.AtlasTiles()
	}
	if unitsPerVoxel <= 0 {
		unitsPerVoxel = 1
	}
	return &Mesher{reg: reg, tiles: atlasTiles, unit: unitsPerVoxel}
}

// Build meshes n.Center. Neighbor chunks in n are read for culling and
// shading only; voxels in unloaded chunks count as air.
func (m *Mesher) Build(n *world.Neighborhood) *ChunkMesh {
	defer profiling.Track("meshing.Build")()

	c := n.Center
	out := &ChunkMesh{}
	origin := c.Coord.Origin(c.Size, m.unit)

	for x := 0; x < c.Size; x++ {
		for y := 0; y < c.Size; y++ {
			for z := 0; z < c.Size; z++ {
				idx := c.Index(x, y, z)
				id := c.Blocks[idx]
				if id == world.Air {
					continue
				}
				b := m.reg.Block(id)
				v := voxel{x: x, y: y, z: z, light: c.Light[idx], block: b}
				dst := &out.Opaque
				if b.Transparent {
					dst = &out.Transparent
				}
				for _, el := range m.reg.Shape(b.ShapeID).Elements {
					for _, f := range world.Faces {
						nrm := f.Normal()
						if m.reg.IsOpaque(n.BlockAt(x+nrm[0], y+nrm[1], z+nrm[2])) {
							continue
						}
						q := elementFace(el, f)
						if b.Transparent && q.degenerate() {
							continue
						}
						m.emit(dst, n, origin, v, f, q, false)
						if b.DoubleSided {
							m.emit(dst, n, origin, v, f, q, true)
						}
					}
				}
			}
		}
	}
	return out
}

type voxel struct {
	x, y, z int
	light   uint8
	block   *registry.Block
}

// emit appends the two triangles of one face. back reverses the winding and
// normal for double-sided blocks.
func (m *Mesher) emit(dst *Mesh, n *world.Neighborhood, origin mgl64.Vec3, v voxel, f world.BlockFace, q quad, back bool) {
	nrm := f.Normal()
	normal := [3]int8{int8(nrm[0]), int8(nrm[1]), int8(nrm[2])}
	if back {
		normal = [3]int8{-normal[0], -normal[1], -normal[2]}
	}

	base := float32(v.light) / world.MaxLight
	tile := v.block.Faces[f]

	var pos [4]mgl64.Vec3
	var col [4]mgl32.Vec3
	var uv [4]mgl32.Vec2
	for i, cn := range q.corners {
		pos[i] = origin.Add(mgl64.Vec3{
			(float64(v.x) + cn.pos[0]) * m.unit,
			(float64(v.y) + cn.pos[1]) * m.unit,
			(float64(v.z) + cn.pos[2]) * m.unit,
		})
		shade := float32(aoOpen)
		if !v.block.Transparent && m.occluded(n, v, f, cn) {
			shade = aoOccluded
		}
		c := base * shade
		col[i] = mgl32.Vec3{c, c, c}
		uv[i] = m.atlasUV(tile, f, cn.pos)
	}

	order := [6]int{0, 1, 2, 0, 2, 3}
	if back {
		order = [6]int{0, 2, 1, 0, 3, 2}
	}
	for _, i := range order {
		dst.push(pos[i], normal, col[i], uv[i])
	}
}

// occluded checks the two edge neighbors and the corner neighbor in the
// voxel layer the face looks into.
func (m *Mesher) occluded(n *world.Neighborhood, v voxel, f world.BlockFace, cn corner) bool {
	nrm := f.Normal()
	bx, by, bz := v.x+nrm[0], v.y+nrm[1], v.z+nrm[2]
	u, w := inPlaneAxes(f)

	var du, dw [3]int
	du[u] = cn.su
	dw[w] = cn.sv

	side1 := n.BlockAt(bx+du[0], by+du[1], bz+du[2])
	side2 := n.BlockAt(bx+dw[0], by+dw[1], bz+dw[2])
	diag := n.BlockAt(bx+du[0]+dw[0], by+du[1]+dw[1], bz+du[2]+dw[2])
	return m.reg.IsOpaque(side1) || m.reg.IsOpaque(side2) || m.reg.IsOpaque(diag)
}

// atlasUV maps a face-local point to the tile's sub-rectangle. Side faces
// keep +Y as texture up.
func (m *Mesher) atlasUV(tile int, f world.BlockFace, p [3]float64) mgl32.Vec2 {
	var s, t float64
	switch f.Axis() {
	case 0:
		s, t = p[2], p[1]
	case 1:
		s, t = p[0], p[2]
	default:
		s, t = p[0], p[1]
	}
	tiles := float64(m.tiles)
	col := float64(tile % m.tiles)
	row := float64(tile / m.tiles)
	return mgl32.Vec2{float32((col + s) / tiles), float32((row + 1 - t) / tiles)}
}
