package terrain

import (
	"crypto/sha256"
	"errors"
	"io"
	"testing"

	"mini-voxel/internal/registry"
	"mini-voxel/internal/world"

	"github.com/sirupsen/logrus"
)

// flatSampler returns a constant height and never carves caves.
type flatSampler struct {
	height int
	cave   float64
}

func (f flatSampler) Climate(x, z float64) (float64, float64) { return 0.5, 0.5 }
func (f flatSampler) Height(x, z float64) int                 { return f.height }
func (f flatSampler) Cave(x, y, z float64) float64            { return f.cave }

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func layeredRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r := registry.New(4)
	for _, name := range []string{"grass", "dirt", "stone"} {
		if _, err := r.AddBlock(registry.Block{Name: name}); err != nil {
			t.Fatalf("AddBlock(%s): %v", name, err)
		}
	}
	err := r.AddBiome(registry.Biome{
		Name: "plains", Temperature: 0.5, Moisture: 0.5,
		Layers: []registry.Layer{
			{Blocks: []string{"grass"}, Offset: 0},
			{Blocks: []string{"dirt"}, Offset: 1},
			{Blocks: []string{"stone"}, Offset: 4},
		},
	})
	if err != nil {
		t.Fatalf("AddBiome: %v", err)
	}
	if err := r.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}
	return r
}

func TestLayeredColumn(t *testing.T) {
	reg := layeredRegistry(t)
	g, err := NewGenerator(reg, flatSampler{height: 20}, 16, 1, quietLogger())
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	grass, _ := reg.BlockID("grass")
	dirt, _ := reg.BlockID("dirt")
	stone, _ := reg.BlockID("stone")

	lower := g.Generate(world.ChunkCoord{})
	upper := g.Generate(world.ChunkCoord{Y: 1})

	at := func(y int) world.BlockID {
		if y < 16 {
			return lower.Get(3, y, 7)
		}
		return upper.Get(3, y-16, 7)
	}
	for y := 0; y < 32; y++ {
		var want world.BlockID
		switch {
		case y <= 16:
			want = stone
		case y <= 19:
			want = dirt
		case y == 20:
			want = grass
		default:
			want = world.Air
		}
		if got := at(y); got != want {
			t.Errorf("y=%d: got %d, want %d", y, got, want)
		}
	}
}

func TestCavesCarveAir(t *testing.T) {
	reg := layeredRegistry(t)
	g, _ := NewGenerator(reg, flatSampler{height: 20, cave: CaveThreshold}, 16, 1, quietLogger())
	if c := g.Generate(world.ChunkCoord{}); !c.IsEmpty() {
		t.Fatalf("cave field at threshold should carve every voxel")
	}
}

func TestGeneratedChunkDimensions(t *testing.T) {
	reg := registry.MustDefault()
	for _, size := range []int{16, 32} {
		g, err := NewGenerator(reg, NewNoiseSampler(42), size, 42, quietLogger())
		if err != nil {
			t.Fatalf("NewGenerator: %v", err)
		}
		c := g.Generate(world.ChunkCoord{X: -1, Y: 0, Z: 2})
		want := size * size * size
		if len(c.Blocks) != want || len(c.Light) != want {
			t.Errorf("size %d: lens = %d/%d, want %d", size, len(c.Blocks), len(c.Light), want)
		}
	}
}

func chunkHash(c *world.Chunk) [32]byte {
	h := sha256.New()
	for _, id := range c.Blocks {
		h.Write([]byte{byte(id), byte(id >> 8)})
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func TestGenerationDeterministic(t *testing.T) {
	reg := registry.MustDefault()
	a, _ := NewGenerator(reg, NewNoiseSampler(7), 16, 7, quietLogger())
	b, _ := NewGenerator(reg, NewNoiseSampler(7), 16, 7, quietLogger())
	for _, coord := range []world.ChunkCoord{{}, {X: 3, Y: 1, Z: -2}, {X: -5, Y: -1, Z: 9}} {
		if chunkHash(a.Generate(coord)) != chunkHash(b.Generate(coord)) {
			t.Errorf("chunk %v differs between identical generators", coord)
		}
	}
}

func TestClassifierNearestAndDeterministic(t *testing.T) {
	reg := registry.MustDefault()
	c, err := NewClassifier(reg)
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}
	if got := c.Classify(0.95, 0.05).Name; got != "desert" {
		t.Errorf("hot and dry classified as %q", got)
	}
	if got := c.Classify(0.0, 0.5).Name; got != "tundra" {
		t.Errorf("cold classified as %q", got)
	}
	first := c.Classify(0.42, 0.61)
	for i := 0; i < 100; i++ {
		if c.Classify(0.42, 0.61) != first {
			t.Fatalf("classification changed between calls")
		}
	}
}

func TestClassifierTieFirstWins(t *testing.T) {
	r := registry.New(4)
	r.AddBlock(registry.Block{Name: "stone"})
	layers := []registry.Layer{{Blocks: []string{"stone"}}}
	r.AddBiome(registry.Biome{Name: "a", Temperature: 0, Moisture: 0, Layers: layers})
	r.AddBiome(registry.Biome{Name: "b", Temperature: 1, Moisture: 0, Layers: layers})
	if err := r.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}
	c, _ := NewClassifier(r)
	if got := c.Classify(0.5, 0).Name; got != "a" {
		t.Errorf("tie resolved to %q, want a", got)
	}
}

func TestClassifierEmptyRegistry(t *testing.T) {
	r := registry.New(4)
	r.Build()
	if _, err := NewClassifier(r); !errors.Is(err, registry.ErrNoBiomes) {
		t.Fatalf("err = %v, want ErrNoBiomes", err)
	}
	if _, err := NewGenerator(r, flatSampler{}, 16, 0, quietLogger()); !errors.Is(err, registry.ErrNoBiomes) {
		t.Fatalf("generator err = %v, want ErrNoBiomes", err)
	}
}

func stampRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r := registry.New(4)
	r.AddBlock(registry.Block{Name: "log"})
	r.AddStructure(registry.Structure{Name: "short", Placements: []registry.Placement{{Offset: [3]int{0, 5, 0}, Block: "log"}}})
	r.AddStructure(registry.Structure{Name: "tall", Placements: []registry.Placement{{Offset: [3]int{0, 20, 0}, Block: "log"}}})
	if err := r.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}
	return r
}

func TestStampClipsToChunk(t *testing.T) {
	reg := stampRegistry(t)
	logID, _ := reg.BlockID("log")
	short, _ := reg.Structure("short")
	tall, _ := reg.Structure("tall")

	c := world.NewChunk(world.ChunkCoord{}, 16)
	if n := Stamp(c, short, [3]int{0, 0, 0}); n != 1 {
		t.Fatalf("short stamp wrote %d voxels, want 1", n)
	}
	if c.Get(0, 5, 0) != logID {
		t.Fatalf("expected log at (0,5,0)")
	}

	c = world.NewChunk(world.ChunkCoord{}, 16)
	if n := Stamp(c, tall, [3]int{0, 0, 0}); n != 0 {
		t.Fatalf("tall stamp wrote %d voxels, want 0", n)
	}
	if !c.IsEmpty() {
		t.Fatalf("out-of-bounds placement leaked into the chunk")
	}
}

func TestTreesOnlyOnNaturalGround(t *testing.T) {
	r := registry.New(4)
	r.AddBlock(registry.Block{Name: "grass"})
	r.AddBlock(registry.Block{Name: "stone"})
	r.AddBlock(registry.Block{Name: "log"})
	r.AddStructure(registry.Structure{Name: "stick", Placements: []registry.Placement{{Block: "log"}}})
	r.AddBiome(registry.Biome{
		Name:   "meadow",
		Layers: []registry.Layer{{Blocks: []string{"grass"}, Offset: 0}, {Blocks: []string{"stone"}, Offset: 1}},
		Trees:  []registry.Decoration{{Structure: "stick", Probability: 1}},
	})
	if err := r.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}
	logID, _ := r.BlockID("log")

	g, _ := NewGenerator(r, flatSampler{height: 5}, 16, 3, quietLogger())
	c := g.Generate(world.ChunkCoord{})
	for x := 0; x < 16; x++ {
		for z := 0; z < 16; z++ {
			if c.Get(x, 6, z) != logID {
				t.Fatalf("column (%d,%d): expected a tree at y=6", x, z)
			}
		}
	}

	// same biome but the surface is stone: no trees.
	r2 := registry.New(4)
	r2.AddBlock(registry.Block{Name: "stone"})
	r2.AddBlock(registry.Block{Name: "log"})
	r2.AddStructure(registry.Structure{Name: "stick", Placements: []registry.Placement{{Block: "log"}}})
	r2.AddBiome(registry.Biome{
		Name:   "rock",
		Layers: []registry.Layer{{Blocks: []string{"stone"}, Offset: 0}},
		Trees:  []registry.Decoration{{Structure: "stick", Probability: 1}},
	})
	r2.Build()
	g2, _ := NewGenerator(r2, flatSampler{height: 5}, 16, 3, quietLogger())
	c2 := g2.Generate(world.ChunkCoord{})
	for x := 0; x < 16; x++ {
		for z := 0; z < 16; z++ {
			if c2.Get(x, 6, z) != world.Air {
				t.Fatalf("tree grew on stone at (%d,%d)", x, z)
			}
		}
	}
}

func TestNoiseSamplerRanges(t *testing.T) {
	s := NewNoiseSampler(99)
	for i := 0; i < 200; i++ {
		x, z := float64(i*37-4000), float64(i*91-2000)
		tmp, moist := s.Climate(x, z)
		if tmp < 0 || tmp > 1 || moist < 0 || moist > 1 {
			t.Fatalf("climate (%f,%f) outside [0,1]", tmp, moist)
		}
		if h := s.Height(x, z); h < 16-64 || h > 16+64 {
			t.Fatalf("height %d outside octave bounds", h)
		}
		if c := s.Cave(x, float64(i), z); c < 0 || c > 1 {
			t.Fatalf("cave %f outside [0,1]", c)
		}
	}
}

func BenchmarkGenerate(b *testing.B) {
	reg := registry.MustDefault()
	g, _ := NewGenerator(reg, NewNoiseSampler(1), 16, 1, quietLogger())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.Generate(world.ChunkCoord{X: i % 8, Z: i / 8})
	}
}
