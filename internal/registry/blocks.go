package registry

import (
	"errors"
	"fmt"
	"sort"

	"mini-voxel/internal/world"
)

var (
	ErrUnknownBlock     = errors.New("registry: unknown block")
	ErrUnknownShape     = errors.New("registry: unknown shape")
	ErrUnknownStructure = errors.New("registry: unknown structure")
	ErrAtlasIndex       = errors.New("registry: atlas index out of range")
	ErrDuplicate        = errors.New("registry: duplicate name")
	ErrNoBiomes         = errors.New("registry: no biomes registered")
	ErrBuilt            = errors.New("registry: already built")
	ErrTooManyBlocks    = errors.New("registry: block id space exhausted")
)

// Registry holds the block, shape, biome and structure tables. Tables are
// filled with the Add methods and then frozen by Build, which resolves every
// name reference to a dense handle. Lookups after Build never fail for data
// that passed validation.
type Registry struct {
	atlasTiles int

	blocks     []Block
	blockIndex map[string]world.BlockID
	opaque     []bool

	shapes     []Shape
	shapeIndex map[string]ShapeID

	structures     []*Structure
	structureIndex map[string]*Structure

	biomes []Biome

	built bool
}

// New creates a registry for an atlas of atlasTiles×atlasTiles tiles. Air and
// the full cube shape are pre-registered.
func New(atlasTiles int) *Registry {
	r := &Registry{
		atlasTiles:     atlasTiles,
		blockIndex:     make(map[string]world.BlockID),
		shapeIndex:     make(map[string]ShapeID),
		structureIndex: make(map[string]*Structure),
	}
	r.shapes = append(r.shapes, Shape{Name: "cube", Elements: []Element{FullCube}})
	r.shapeIndex["cube"] = CubeShape
	r.blocks = append(r.blocks, Block{ID: world.Air, Name: "air", Transparent: true})
	r.blockIndex["air"] = world.Air
	return r
}

// AtlasTiles returns the atlas grid width in tiles.
func (r *Registry) AtlasTiles() int { return r.atlasTiles }

// AddShape registers a shape and returns its handle.
func (r *Registry) AddShape(s Shape) (ShapeID, error) {
	if r.built {
		return 0, ErrBuilt
	}
	if _, ok := r.shapeIndex[s.Name]; ok {
		return 0, fmt.Errorf("shape %q: %w", s.Name, ErrDuplicate)
	}
	if err := checkShape(s); err != nil {
		return 0, err
	}
	id := ShapeID(len(r.shapes))
	r.shapes = append(r.shapes, s)
	r.shapeIndex[s.Name] = id
	return id, nil
}

// ReplaceShape swaps the elements of an already registered shape. The
// handle stays the same, so the built-in cube can be replaced too.
func (r *Registry) ReplaceShape(s Shape) (ShapeID, error) {
	if r.built {
		return 0, ErrBuilt
	}
	id, ok := r.shapeIndex[s.Name]
	if !ok {
		return 0, fmt.Errorf("shape %q: %w", s.Name, ErrUnknownShape)
	}
	if err := checkShape(s); err != nil {
		return 0, err
	}
	r.shapes[id] = s
	return id, nil
}

func checkShape(s Shape) error {
	if len(s.Elements) == 0 {
		return fmt.Errorf("shape %q has no elements", s.Name)
	}
	for i, el := range s.Elements {
		for a := 0; a < 3; a++ {
			if el.To[a] > 8 || el.From[a] > el.To[a] {
				return fmt.Errorf("shape %q element %d: invalid extent %v..%v", s.Name, i, el.From, el.To)
			}
		}
	}
	return nil
}

// AddBlock registers a block and assigns the next id.
func (r *Registry) AddBlock(b Block) (world.BlockID, error) {
	if r.built {
		return 0, ErrBuilt
	}
	if _, ok := r.blockIndex[b.Name]; ok {
		return 0, fmt.Errorf("block %q: %w", b.Name, ErrDuplicate)
	}
	if len(r.blocks) > int(^world.BlockID(0)) {
		return 0, ErrTooManyBlocks
	}
	b.ID = world.BlockID(len(r.blocks))
	r.blocks = append(r.blocks, b)
	r.blockIndex[b.Name] = b.ID
	return b.ID, nil
}

// AddStructure registers a structure template.
func (r *Registry) AddStructure(s Structure) error {
	if r.built {
		return ErrBuilt
	}
	if _, ok := r.structureIndex[s.Name]; ok {
		return fmt.Errorf("structure %q: %w", s.Name, ErrDuplicate)
	}
	st := s
	st.Placements = append([]Placement(nil), s.Placements...)
	r.structures = append(r.structures, &st)
	r.structureIndex[s.Name] = &st
	return nil
}

// AddBiome registers a biome. Registration order is the classifier's
// tie-break order.
func (r *Registry) AddBiome(b Biome) error {
	if r.built {
		return ErrBuilt
	}
	for i := range r.biomes {
		if r.biomes[i].Name == b.Name {
			return fmt.Errorf("biome %q: %w", b.Name, ErrDuplicate)
		}
	}
	r.biomes = append(r.biomes, b)
	return nil
}

// Build validates every table and resolves names to handles. It must be
// called once before the registry is used.
func (r *Registry) Build() error {
	if r.built {
		return ErrBuilt
	}
	maxTile := r.atlasTiles * r.atlasTiles

	for i := range r.blocks {
		b := &r.blocks[i]
		if b.ID == world.Air {
			continue
		}
		name := b.Shape
		if name == "" {
			name = "cube"
		}
		sid, ok := r.shapeIndex[name]
		if !ok {
			return fmt.Errorf("block %q shape %q: %w", b.Name, name, ErrUnknownShape)
		}
		b.ShapeID = sid
		for f, tile := range b.Faces {
			if tile < 0 || tile >= maxTile {
				return fmt.Errorf("block %q face %v tile %d: %w", b.Name, world.BlockFace(f), tile, ErrAtlasIndex)
			}
		}
	}

	for _, s := range r.structures {
		for i := range s.Placements {
			id, err := r.resolve(s.Placements[i].Block)
			if err != nil {
				return fmt.Errorf("structure %q: %w", s.Name, err)
			}
			s.Placements[i].id = id
		}
	}

	for i := range r.biomes {
		if err := r.buildBiome(&r.biomes[i]); err != nil {
			return err
		}
	}

	r.opaque = make([]bool, len(r.blocks))
	for i := range r.blocks {
		r.opaque[i] = r.blocks[i].ID != world.Air && !r.blocks[i].Transparent
	}

	r.built = true
	return nil
}

func (r *Registry) buildBiome(b *Biome) error {
	layers := make([]Layer, len(b.Layers))
	copy(layers, b.Layers)
	// innermost (deepest) layer first
	sort.SliceStable(layers, func(i, j int) bool { return layers[i].Offset > layers[j].Offset })
	for i := range layers {
		if len(layers[i].Blocks) == 0 {
			return fmt.Errorf("biome %q layer at offset %d has no blocks", b.Name, layers[i].Offset)
		}
		layers[i].ids = make([]world.BlockID, len(layers[i].Blocks))
		for j, name := range layers[i].Blocks {
			id, err := r.resolve(name)
			if err != nil {
				return fmt.Errorf("biome %q: %w", b.Name, err)
			}
			layers[i].ids[j] = id
		}
	}
	b.Layers = layers

	if b.Fluid != "" {
		id, err := r.resolve(b.Fluid)
		if err != nil {
			return fmt.Errorf("biome %q fluid: %w", b.Name, err)
		}
		b.fluid = id
	}

	for _, table := range []*[]Decoration{&b.Trees, &b.Foliage, &b.Buildings} {
		entries := make([]Decoration, len(*table))
		copy(entries, *table)
		for i := range entries {
			s, ok := r.structureIndex[entries[i].Structure]
			if !ok {
				return fmt.Errorf("biome %q structure %q: %w", b.Name, entries[i].Structure, ErrUnknownStructure)
			}
			entries[i].target = s
		}
		*table = entries
	}
	return nil
}

func (r *Registry) resolve(name string) (world.BlockID, error) {
	id, ok := r.blockIndex[name]
	if !ok {
		return 0, fmt.Errorf("block %q: %w", name, ErrUnknownBlock)
	}
	return id, nil
}

// Block returns the block with the given id. It panics on ids the registry
// never issued.
func (r *Registry) Block(id world.BlockID) *Block {
	return &r.blocks[id]
}

// BlockID looks a block up by name.
func (r *Registry) BlockID(name string) (world.BlockID, bool) {
	id, ok := r.blockIndex[name]
	return id, ok
}

// Len returns the number of registered blocks, air included.
func (r *Registry) Len() int { return len(r.blocks) }

// Shape returns the shape for a resolved handle.
func (r *Registry) Shape(id ShapeID) *Shape {
	return &r.shapes[id]
}

// Structure looks a structure up by name.
func (r *Registry) Structure(name string) (*Structure, bool) {
	s, ok := r.structureIndex[name]
	return s, ok
}

// Biomes returns the biome table in registration order.
func (r *Registry) Biomes() []Biome { return r.biomes }

// IsTransparent reports whether light and faces pass through the block.
func (r *Registry) IsTransparent(id world.BlockID) bool {
	return r.blocks[id].Transparent
}

// IsOpaque reports whether the block hides neighboring faces.
func (r *Registry) IsOpaque(id world.BlockID) bool {
	return r.opaque[id]
}
