package terrain

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"

	"mini-voxel/internal/profiling"
	"mini-voxel/internal/registry"
	"mini-voxel/internal/world"

	"github.com/sirupsen/logrus"
)

// Generator fills chunks from biome layer rules, the height field and cave
// noise, then decorates the surface with structures.
type Generator struct {
	reg        *registry.Registry
	classifier *Classifier
	sampler    Sampler
	size       int
	seed       int64
	ground     map[world.BlockID]struct{}
	log        logrus.FieldLogger
}

// NewGenerator builds a generator for chunks of the given size. Registry
// problems surface here, at startup.
func NewGenerator(reg *registry.Registry, sampler Sampler, size int, seed int64, log logrus.FieldLogger) (*Generator, error) {
	classifier, err := NewClassifier(reg)
	if err != nil {
		return nil, fmt.Errorf("terrain generator: %w", err)
	}
	if size <= 0 {
		return nil, fmt.Errorf("terrain generator: invalid chunk size %d", size)
	}
	ground := make(map[world.BlockID]struct{})
	for _, id := range reg.IDs(registry.NaturalGround) {
		ground[id] = struct{}{}
	}
	return &Generator{
		reg:        reg,
		classifier: classifier,
		sampler:    sampler,
		size:       size,
		seed:       seed,
		ground:     ground,
		log:        log,
	}, nil
}

// HeightAt returns the surface height of a world column.
func (g *Generator) HeightAt(wx, wz int) int {
	return g.sampler.Height(float64(wx), float64(wz))
}

// BiomeAt classifies a world column.
func (g *Generator) BiomeAt(wx, wz int) *registry.Biome {
	t, m := g.sampler.Climate(float64(wx), float64(wz))
	return g.classifier.Classify(t, m)
}

// Generate creates and fills the chunk at coord. Light is left at zero.
func (g *Generator) Generate(coord world.ChunkCoord) *world.Chunk {
	defer profiling.Track("terrain.Generate")()

	s := g.size
	c := world.NewChunk(coord, s)
	rng := g.chunkRand(coord)
	ox, oy, oz := coord.X*s, coord.Y*s, coord.Z*s

	heights := make([]int, s*s)
	biomes := make([]*registry.Biome, s*s)

	for x := 0; x < s; x++ {
		for z := 0; z < s; z++ {
			wx, wz := ox+x, oz+z
			b := g.BiomeAt(wx, wz)
			h := g.HeightAt(wx, wz)
			heights[x*s+z] = h
			biomes[x*s+z] = b

			for y := 0; y < s; y++ {
				wy := oy + y
				if wy > h {
					if fluid := b.FluidID(); fluid != world.Air && wy <= b.SeaLevel {
						c.Set(x, y, z, fluid)
					}
					continue
				}
				if g.sampler.Cave(float64(wx), float64(wy), float64(wz)) >= CaveThreshold {
					continue
				}
				if id, ok := pickLayer(b, wy, h, rng); ok {
					c.Set(x, y, z, id)
				}
			}
		}
	}

	stamped := g.decorate(c, heights, biomes, rng)
	if stamped > 0 {
		g.log.WithFields(logrus.Fields{"chunk": coord, "structures": stamped}).Debug("decorated chunk")
	}
	return c
}

// pickLayer walks layers innermost first; the first layer reaching y wins.
func pickLayer(b *registry.Biome, y, surface int, rng *rand.Rand) (world.BlockID, bool) {
	for i := range b.Layers {
		l := &b.Layers[i]
		if y > surface-l.Offset {
			continue
		}
		ids := l.IDs()
		if len(ids) == 1 {
			return ids[0], true
		}
		return ids[rng.IntN(len(ids))], true
	}
	return world.Air, false
}

// decorate runs after every column is filled so later columns never
// overwrite a structure stamped into them.
func (g *Generator) decorate(c *world.Chunk, heights []int, biomes []*registry.Biome, rng *rand.Rand) int {
	s := g.size
	oy := c.Coord.Y * s
	stamped := 0
	for x := 0; x < s; x++ {
		for z := 0; z < s; z++ {
			h := heights[x*s+z]
			b := biomes[x*s+z]
			y := h + 1 - oy
			// the ground voxel must be in this chunk; columns whose surface is
			// the top layer of the chunk below stay bare
			if y < 1 || y >= s {
				continue
			}
			if b.FluidID() != world.Air && h < b.SeaLevel {
				continue
			}
			if _, ok := g.ground[c.Get(x, y-1, z)]; !ok {
				continue
			}
			st := roll(b.Trees, rng)
			if st == nil {
				st = roll(b.Buildings, rng)
			}
			if st == nil {
				st = roll(b.Foliage, rng)
			}
			if st == nil {
				continue
			}
			Stamp(c, st, [3]int{x, y, z})
			stamped++
		}
	}
	return stamped
}

// chunkRand is deterministic per seed and chunk coordinate.
func (g *Generator) chunkRand(coord world.ChunkCoord) *rand.Rand {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d:%d:%d", coord.X, coord.Y, coord.Z)
	return rand.New(rand.NewPCG(uint64(g.seed), h.Sum64()))
}
