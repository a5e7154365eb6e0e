package world

import "github.com/go-gl/mathgl/mgl64"

// ChunkCoord is a chunk-space coordinate. Multiply by the chunk size to get
// the voxel coordinate of the chunk's minimum corner.
type ChunkCoord struct {
	X, Y, Z int
}

// Add offsets the coordinate by whole chunks.
func (c ChunkCoord) Add(dx, dy, dz int) ChunkCoord {
	return ChunkCoord{X: c.X + dx, Y: c.Y + dy, Z: c.Z + dz}
}

// DistSq is the squared Euclidean distance in chunks.
func (c ChunkCoord) DistSq(o ChunkCoord) int {
	dx, dy, dz := c.X-o.X, c.Y-o.Y, c.Z-o.Z
	return dx*dx + dy*dy + dz*dz
}

// Origin returns the world-space position of the chunk's minimum corner.
func (c ChunkCoord) Origin(size int, unitsPerVoxel float64) mgl64.Vec3 {
	s := float64(size) * unitsPerVoxel
	return mgl64.Vec3{float64(c.X) * s, float64(c.Y) * s, float64(c.Z) * s}
}

// Locate splits a world voxel coordinate into its owning chunk and the local
// coordinate inside that chunk.
func Locate(wx, wy, wz, size int) (ChunkCoord, [3]int) {
	coord := ChunkCoord{X: floorDiv(wx, size), Y: floorDiv(wy, size), Z: floorDiv(wz, size)}
	return coord, [3]int{mod(wx, size), mod(wy, size), mod(wz, size)}
}

// ChunkAt returns the chunk containing a world-space position.
func ChunkAt(pos mgl64.Vec3, size int, unitsPerVoxel float64) ChunkCoord {
	wx, wy, wz := VoxelAt(pos, unitsPerVoxel)
	c, _ := Locate(wx, wy, wz, size)
	return c
}

// VoxelAt returns the world voxel coordinate containing a world-space position.
func VoxelAt(pos mgl64.Vec3, unitsPerVoxel float64) (int, int, int) {
	return floorToInt(pos.X() / unitsPerVoxel), floorToInt(pos.Y() / unitsPerVoxel), floorToInt(pos.Z() / unitsPerVoxel)
}

func floorToInt(v float64) int {
	i := int(v)
	if v < 0 && float64(i) != v {
		i--
	}
	return i
}

// floorDiv performs floor division for ints (handles negatives)
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// mod returns the non-negative remainder of a / b
func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
