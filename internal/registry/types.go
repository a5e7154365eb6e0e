package registry

import "mini-voxel/internal/world"

// ShapeID is a dense handle into the shape table, resolved once per block
// when the registry is built.
type ShapeID int

// CubeShape is the built-in full cube, always registered first.
const CubeShape ShapeID = 0

// Element is an axis-aligned cuboid measured in eighths of a voxel (0..8).
type Element struct {
	From [3]uint8
	To   [3]uint8
}

// FullCube spans the whole voxel.
var FullCube = Element{From: [3]uint8{0, 0, 0}, To: [3]uint8{8, 8, 8}}

// Shape is a named list of cuboid elements.
type Shape struct {
	Name     string
	Elements []Element
}

// Block describes one block type. Faces holds atlas indices indexed by
// world.BlockFace.
type Block struct {
	ID          world.BlockID
	Name        string
	Faces       [world.FaceCount]int
	Shape       string
	ShapeID     ShapeID
	Transparent bool
	Collidable  bool
	DoubleSided bool
	Sound       string
}

// Uniform returns face indices using the same atlas tile on every side.
func Uniform(tile int) [world.FaceCount]int {
	return [world.FaceCount]int{tile, tile, tile, tile, tile, tile}
}

// Pillar returns face indices with one tile on top and bottom and another on the sides.
func Pillar(side, top, bottom int) [world.FaceCount]int {
	var f [world.FaceCount]int
	for i := range f {
		f[i] = side
	}
	f[world.FaceTop] = top
	f[world.FaceBottom] = bottom
	return f
}

// Layer assigns one of Blocks to voxels at least Offset below the surface.
type Layer struct {
	Blocks []string
	Offset int

	ids []world.BlockID
}

// IDs returns the resolved candidate block ids.
func (l *Layer) IDs() []world.BlockID { return l.ids }

// Decoration is one entry in a weighted structure table.
type Decoration struct {
	Structure   string
	Probability float64

	target *Structure
}

// Target returns the resolved structure.
func (d *Decoration) Target() *Structure { return d.target }

// Biome is a climate classification point with its terrain rules.
type Biome struct {
	Name        string
	Temperature float64
	Moisture    float64
	Height      float64
	Layers      []Layer
	SeaLevel    int
	Fluid       string
	Trees       []Decoration
	Foliage     []Decoration
	Buildings   []Decoration

	fluid world.BlockID
}

// FluidID returns the resolved fluid block, or Air when the biome has none.
func (b *Biome) FluidID() world.BlockID { return b.fluid }

// Placement puts Block at Offset relative to a structure's origin.
type Placement struct {
	Offset [3]int
	Block  string

	id world.BlockID
}

// ID returns the resolved block id.
func (p *Placement) ID() world.BlockID { return p.id }

// Structure is a template of relative block placements such as a tree.
type Structure struct {
	Name       string
	Placements []Placement
}
