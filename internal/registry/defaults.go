package registry

import (
	"fmt"

	"mini-voxel/internal/world"
)

// DefaultAtlasTiles is the atlas grid width used by the built-in content.
const DefaultAtlasTiles = 16

// NaturalGround lists the block names trees may grow on.
var NaturalGround = []string{"grass", "dirt", "snow", "sand", "grass_snow"}

var defaultShapes = []Shape{
	{Name: "slab", Elements: []Element{{From: [3]uint8{0, 0, 0}, To: [3]uint8{8, 4, 8}}}},
	{Name: "cross", Elements: []Element{
		{From: [3]uint8{0, 0, 4}, To: [3]uint8{8, 8, 4}},
		{From: [3]uint8{4, 0, 0}, To: [3]uint8{4, 8, 8}},
	}},
	{Name: "cactus", Elements: []Element{{From: [3]uint8{1, 0, 1}, To: [3]uint8{7, 8, 7}}}},
}

var defaultBlocks = []Block{
	{Name: "grass", Faces: Pillar(3, 0, 2), Collidable: true, Sound: "dig.grass"},
	{Name: "stone", Faces: Uniform(1), Collidable: true, Sound: "dig.stone"},
	{Name: "dirt", Faces: Uniform(2), Collidable: true, Sound: "dig.gravel"},
	{Name: "sand", Faces: Uniform(18), Collidable: true, Sound: "dig.sand"},
	{Name: "gravel", Faces: Uniform(19), Collidable: true, Sound: "dig.gravel"},
	{Name: "snow", Faces: Uniform(66), Collidable: true, Sound: "dig.snow"},
	{Name: "grass_snow", Faces: Pillar(68, 66, 2), Collidable: true, Sound: "dig.snow"},
	{Name: "log", Faces: Pillar(20, 21, 21), Collidable: true, Sound: "dig.wood"},
	{Name: "leaves", Faces: Uniform(52), Transparent: true, Collidable: true, Sound: "dig.grass"},
	{Name: "glass", Faces: Uniform(49), Transparent: true, Collidable: true, Sound: "dig.glass"},
	{Name: "water", Faces: Uniform(205), Transparent: true, Sound: "liquid.water"},
	{Name: "stone_slab", Faces: Pillar(5, 6, 6), Shape: "slab", Transparent: true, Collidable: true, Sound: "dig.stone"},
	{Name: "tall_grass", Faces: Uniform(39), Shape: "cross", Transparent: true, DoubleSided: true, Sound: "dig.grass"},
	{Name: "flower", Faces: Uniform(13), Shape: "cross", Transparent: true, DoubleSided: true, Sound: "dig.grass"},
	{Name: "cactus", Faces: Pillar(70, 69, 71), Shape: "cactus", Transparent: true, Collidable: true, Sound: "dig.cloth"},
	{Name: "planks", Faces: Uniform(4), Collidable: true, Sound: "dig.wood"},
}

func oakTree() Structure {
	s := Structure{Name: "oak_tree"}
	for y := 0; y < 5; y++ {
		s.Placements = append(s.Placements, Placement{Offset: [3]int{0, y, 0}, Block: "log"})
	}
	for y := 3; y <= 5; y++ {
		r := 2
		if y == 5 {
			r = 1
		}
		for x := -r; x <= r; x++ {
			for z := -r; z <= r; z++ {
				if x == 0 && z == 0 && y < 5 {
					continue
				}
				if (x == -r || x == r) && (z == -r || z == r) {
					continue
				}
				s.Placements = append(s.Placements, Placement{Offset: [3]int{x, y, z}, Block: "leaves"})
			}
		}
	}
	return s
}

func pineTree() Structure {
	s := Structure{Name: "pine_tree"}
	for y := 0; y < 7; y++ {
		s.Placements = append(s.Placements, Placement{Offset: [3]int{0, y, 0}, Block: "log"})
	}
	for _, y := range []int{3, 5} {
		for _, d := range [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {-1, -1}, {1, -1}, {-1, 1}} {
			s.Placements = append(s.Placements, Placement{Offset: [3]int{d[0], y, d[1]}, Block: "leaves"})
		}
	}
	s.Placements = append(s.Placements, Placement{Offset: [3]int{0, 7, 0}, Block: "leaves"})
	return s
}

func column(name, block string, height int) Structure {
	s := Structure{Name: name}
	for y := 0; y < height; y++ {
		s.Placements = append(s.Placements, Placement{Offset: [3]int{0, y, 0}, Block: block})
	}
	return s
}

func defaultStructures() []Structure {
	return []Structure{
		oakTree(),
		pineTree(),
		column("cactus", "cactus", 3),
		column("tall_grass", "tall_grass", 1),
		column("flower", "flower", 1),
		{Name: "hut", Placements: hut()},
	}
}

func hut() []Placement {
	var out []Placement
	for x := 0; x < 4; x++ {
		for z := 0; z < 4; z++ {
			for y := 0; y < 3; y++ {
				edge := x == 0 || x == 3 || z == 0 || z == 3
				if !edge || (x == 1 && z == 0 && y < 2) {
					continue
				}
				out = append(out, Placement{Offset: [3]int{x, y, z}, Block: "planks"})
			}
			out = append(out, Placement{Offset: [3]int{x, 3, z}, Block: "stone_slab"})
		}
	}
	return out
}

var defaultBiomes = []Biome{
	{
		Name: "plains", Temperature: 0.5, Moisture: 0.5, Height: 0.3,
		Layers:   []Layer{{Blocks: []string{"grass"}, Offset: 0}, {Blocks: []string{"dirt"}, Offset: 1}, {Blocks: []string{"stone"}, Offset: 4}},
		SeaLevel: 8, Fluid: "water",
		Trees:     []Decoration{{Structure: "oak_tree", Probability: 0.004}},
		Foliage:   []Decoration{{Structure: "tall_grass", Probability: 0.08}, {Structure: "flower", Probability: 0.01}},
		Buildings: []Decoration{{Structure: "hut", Probability: 0.0002}},
	},
	{
		Name: "forest", Temperature: 0.6, Moisture: 0.8, Height: 0.4,
		Layers:   []Layer{{Blocks: []string{"grass"}, Offset: 0}, {Blocks: []string{"dirt"}, Offset: 1}, {Blocks: []string{"stone", "gravel"}, Offset: 5}},
		SeaLevel: 8, Fluid: "water",
		Trees:   []Decoration{{Structure: "oak_tree", Probability: 0.03}},
		Foliage: []Decoration{{Structure: "tall_grass", Probability: 0.15}},
	},
	{
		Name: "desert", Temperature: 0.9, Moisture: 0.1, Height: 0.2,
		Layers:  []Layer{{Blocks: []string{"sand"}, Offset: 0}, {Blocks: []string{"stone"}, Offset: 5}},
		Trees:   []Decoration{{Structure: "cactus", Probability: 0.005}},
		Foliage: []Decoration{},
	},
	{
		Name: "tundra", Temperature: 0.1, Moisture: 0.5, Height: 0.5,
		Layers:   []Layer{{Blocks: []string{"snow", "grass_snow"}, Offset: 0}, {Blocks: []string{"dirt"}, Offset: 1}, {Blocks: []string{"stone"}, Offset: 4}},
		SeaLevel: 6, Fluid: "water",
		Trees: []Decoration{{Structure: "pine_tree", Probability: 0.01}},
	},
}

// Default builds the registry with the built-in block, shape, structure and
// biome tables.
func Default() (*Registry, error) {
	return DefaultWithShapes(nil)
}

// DefaultWithShapes is Default with extra shapes. A shape named like a
// built-in one replaces it.
func DefaultWithShapes(extra []Shape) (*Registry, error) {
	r := New(DefaultAtlasTiles)
	override := make(map[string]Shape, len(extra))
	for _, s := range extra {
		override[s.Name] = s
	}
	for _, s := range defaultShapes {
		if o, ok := override[s.Name]; ok {
			s = o
			delete(override, s.Name)
		}
		if _, err := r.AddShape(s); err != nil {
			return nil, err
		}
	}
	for _, s := range extra {
		if _, ok := override[s.Name]; !ok {
			continue
		}
		var err error
		if _, registered := r.shapeIndex[s.Name]; registered {
			_, err = r.ReplaceShape(s)
		} else {
			_, err = r.AddShape(s)
		}
		if err != nil {
			return nil, err
		}
	}
	for _, b := range defaultBlocks {
		if _, err := r.AddBlock(b); err != nil {
			return nil, err
		}
	}
	for _, s := range defaultStructures() {
		if err := r.AddStructure(s); err != nil {
			return nil, err
		}
	}
	for _, b := range defaultBiomes {
		if err := r.AddBiome(b); err != nil {
			return nil, err
		}
	}
	if err := r.Build(); err != nil {
		return nil, fmt.Errorf("build default registry: %w", err)
	}
	return r, nil
}

// MustDefault is Default for callers that treat bad built-in data as fatal.
func MustDefault() *Registry {
	r, err := Default()
	if err != nil {
		panic(err)
	}
	return r
}

// IDs resolves a list of names, skipping names that are not registered.
func (r *Registry) IDs(names []string) []world.BlockID {
	out := make([]world.BlockID, 0, len(names))
	for _, n := range names {
		if id, ok := r.blockIndex[n]; ok {
			out = append(out, id)
		}
	}
	return out
}
