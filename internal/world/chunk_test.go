package world

import "testing"

func TestNewChunkDimensions(t *testing.T) {
	for _, size := range []int{16, 32} {
		c := NewChunk(ChunkCoord{}, size)
		want := size * size * size
		if len(c.Blocks) != want {
			t.Errorf("size %d: len(Blocks) = %d, want %d", size, len(c.Blocks), want)
		}
		if len(c.Light) != want {
			t.Errorf("size %d: len(Light) = %d, want %d", size, len(c.Light), want)
		}
		if !c.IsEmpty() {
			t.Errorf("size %d: new chunk should be all air", size)
		}
	}
}

func TestChunkIndexLayout(t *testing.T) {
	c := NewChunk(ChunkCoord{}, 16)
	if got := c.Index(1, 2, 3); got != 1*256+2*16+3 {
		t.Fatalf("Index(1,2,3) = %d", got)
	}
	c.Set(1, 2, 3, 7)
	if c.Blocks[1*256+2*16+3] != 7 {
		t.Fatalf("Set did not write the flat index")
	}
}

func TestChunkSetGetRoundTrip(t *testing.T) {
	c := NewChunk(ChunkCoord{}, 16)
	points := [][3]int{{0, 0, 0}, {15, 15, 15}, {3, 9, 12}, {15, 0, 7}}
	for i, p := range points {
		id := BlockID(i + 1)
		if !c.Set(p[0], p[1], p[2], id) {
			t.Fatalf("Set(%v) reported out of bounds", p)
		}
		if got := c.Get(p[0], p[1], p[2]); got != id {
			t.Errorf("Get(%v) = %d, want %d", p, got, id)
		}
	}
}

func TestChunkSetOutOfBoundsIsNoop(t *testing.T) {
	c := NewChunk(ChunkCoord{}, 16)
	c.Set(4, 4, 4, 2)
	before := c.Clone()

	for _, p := range [][3]int{{-1, 0, 0}, {16, 0, 0}, {0, -1, 0}, {0, 16, 0}, {0, 0, -1}, {0, 0, 16}, {100, 100, 100}} {
		if c.Set(p[0], p[1], p[2], 9) {
			t.Errorf("Set(%v) should report out of bounds", p)
		}
		if got := c.Get(p[0], p[1], p[2]); got != Air {
			t.Errorf("Get(%v) outside the chunk = %d, want air", p, got)
		}
	}
	for i := range c.Blocks {
		if c.Blocks[i] != before.Blocks[i] {
			t.Fatalf("voxel %d changed by an out-of-bounds write", i)
		}
	}
}

func TestChunkCloneIsIndependent(t *testing.T) {
	c := NewChunk(ChunkCoord{X: 1}, 16)
	c.Set(1, 1, 1, 3)
	cp := c.Clone()
	cp.Set(1, 1, 1, 4)
	if c.Get(1, 1, 1) != 3 {
		t.Fatalf("clone shares storage with the original")
	}
	if cp.Coord != c.Coord {
		t.Fatalf("clone coord = %v, want %v", cp.Coord, c.Coord)
	}
}

func TestLocateNegative(t *testing.T) {
	tests := []struct {
		wx, wy, wz int
		coord      ChunkCoord
		local      [3]int
	}{
		{0, 0, 0, ChunkCoord{}, [3]int{0, 0, 0}},
		{15, 16, 17, ChunkCoord{0, 1, 1}, [3]int{15, 0, 1}},
		{-1, -16, -17, ChunkCoord{-1, -1, -2}, [3]int{15, 0, 15}},
	}
	for _, tt := range tests {
		coord, local := Locate(tt.wx, tt.wy, tt.wz, 16)
		if coord != tt.coord || local != tt.local {
			t.Errorf("Locate(%d,%d,%d) = %v %v, want %v %v", tt.wx, tt.wy, tt.wz, coord, local, tt.coord, tt.local)
		}
	}
}

func TestFaceHelpers(t *testing.T) {
	for _, f := range Faces {
		n := f.Normal()
		o := f.Opposite().Normal()
		if n[0] != -o[0] || n[1] != -o[1] || n[2] != -o[2] {
			t.Errorf("%v: opposite normal %v is not the negation of %v", f, o, n)
		}
		if n[f.Axis()] == 0 {
			t.Errorf("%v: axis %d has zero normal component", f, f.Axis())
		}
		if (n[f.Axis()] > 0) != f.Positive() {
			t.Errorf("%v: Positive() disagrees with normal", f)
		}
	}
}
