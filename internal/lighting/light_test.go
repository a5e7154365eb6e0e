package lighting

import (
	"testing"

	"mini-voxel/internal/world"
)

const (
	glass world.BlockID = 1
	stone world.BlockID = 2
)

type table map[world.BlockID]bool

func (t table) IsTransparent(id world.BlockID) bool { return t[id] }

var props = table{world.Air: true, glass: true, stone: false}

func TestStepValue(t *testing.T) {
	if Step != 10 {
		t.Fatalf("Step = %d, want floor(127/12) = 10", Step)
	}
}

func TestOpenSkyIsFullBright(t *testing.T) {
	c := world.NewChunk(world.ChunkCoord{}, 16)
	Propagate(c, props)
	for i, l := range c.Light {
		if l != world.MaxLight {
			t.Fatalf("voxel %d light = %d, want %d", i, l, world.MaxLight)
		}
	}
}

func TestTransparentStackDims(t *testing.T) {
	c := world.NewChunk(world.ChunkCoord{}, 16)
	// glass from y=15 down to y=0 in column (2,3)
	for y := 0; y < 16; y++ {
		c.Set(2, y, 3, glass)
	}
	Propagate(c, props)

	for y := 15; y >= 0; y-- {
		k := min(16-y, 12)
		want := world.MaxLight - k*Step
		if got := int(c.LightAt(2, y, 3)); got != want {
			t.Errorf("y=%d (k=%d): light = %d, want %d", y, k, got, want)
		}
	}
	if got := c.LightAt(2, 0, 3); got != 7 {
		t.Errorf("bottom light = %d, want floor of 7", got)
	}
}

func TestOpaqueLeavesLightUnchanged(t *testing.T) {
	c := world.NewChunk(world.ChunkCoord{}, 16)
	c.Set(0, 14, 0, glass)
	c.Set(0, 12, 0, stone)
	c.Set(0, 10, 0, glass)
	Propagate(c, props)

	tests := []struct {
		y    int
		want int
	}{
		{15, 127},
		{14, 117},
		{13, 117},
		{12, 117}, // stone does not block
		{11, 117},
		{10, 107},
		{0, 107},
	}
	for _, tt := range tests {
		if got := int(c.LightAt(0, tt.y, 0)); got != tt.want {
			t.Errorf("y=%d: light = %d, want %d", tt.y, got, tt.want)
		}
	}
}

func TestPropagateColumnOnlyTouchesColumn(t *testing.T) {
	c := world.NewChunk(world.ChunkCoord{}, 16)
	Propagate(c, props)
	c.Set(5, 8, 5, glass)
	c.Set(6, 8, 5, glass)
	PropagateColumn(c, props, 5, 5)
	if c.LightAt(5, 0, 5) != 117 {
		t.Errorf("column not relit")
	}
	if c.LightAt(6, 0, 5) != world.MaxLight {
		t.Errorf("neighbor column changed")
	}
}
