package world

import "testing"

func TestNeighborhoodResolvesAcrossEdges(t *testing.T) {
	const size = 16
	center := NewChunk(ChunkCoord{}, size)
	east := NewChunk(ChunkCoord{X: 1}, size)
	below := NewChunk(ChunkCoord{Y: -1}, size)
	corner := NewChunk(ChunkCoord{X: -1, Y: 1, Z: -1}, size)
	east.Set(0, 5, 5, 2)
	below.Set(3, 15, 4, 3)
	corner.Set(15, 0, 15, 4)

	loaded := map[ChunkCoord]*Chunk{east.Coord: east, below.Coord: below, corner.Coord: corner}
	n := NewNeighborhood(center, func(c ChunkCoord) *Chunk { return loaded[c] })

	tests := []struct {
		name    string
		x, y, z int
		want    BlockID
	}{
		{"east face", 16, 5, 5, 2},
		{"below face", 3, -1, 4, 3},
		{"diagonal corner", -1, 16, -1, 4},
		{"unloaded west", -1, 5, 5, Air},
		{"two chunks away", 33, 0, 0, Air},
	}
	for _, tt := range tests {
		if got := n.BlockAt(tt.x, tt.y, tt.z); got != tt.want {
			t.Errorf("%s: BlockAt(%d,%d,%d) = %d, want %d", tt.name, tt.x, tt.y, tt.z, got, tt.want)
		}
	}

	if !n.Loaded(1, 0, 0) || n.Loaded(-1, 0, 0) {
		t.Errorf("Loaded reports wrong neighbors")
	}
}

func TestNeighborhoodNilLookup(t *testing.T) {
	c := NewChunk(ChunkCoord{}, 16)
	c.Set(0, 0, 0, 1)
	n := NewNeighborhood(c, nil)
	if n.BlockAt(0, 0, 0) != 1 {
		t.Fatalf("center voxel not resolved")
	}
	if n.BlockAt(-1, 0, 0) != Air {
		t.Fatalf("missing neighbor should read as air")
	}
}
