package meshing

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// VertexStride is the encoded size of one vertex: position 3×float64,
// normal 3×int8, color 3×float32, uv 2×float32.
const VertexStride = 3*8 + 3 + 3*4 + 2*4

// Mesh is one vertex stream stored as parallel arrays.
type Mesh struct {
	Positions []mgl64.Vec3
	Normals   [][3]int8
	Colors    []mgl32.Vec3
	UVs       []mgl32.Vec2
}

// ChunkMesh holds the opaque and transparent streams of one chunk.
type ChunkMesh struct {
	Opaque      Mesh
	Transparent Mesh
}

// Len returns the vertex count.
func (m *Mesh) Len() int { return len(m.Positions) }

// Empty reports whether the stream has no vertices.
func (m *Mesh) Empty() bool { return len(m.Positions) == 0 }

// ByteSize is the size of Encode's output.
func (m *Mesh) ByteSize() int { return m.Len() * VertexStride }

func (m *Mesh) push(p mgl64.Vec3, n [3]int8, c mgl32.Vec3, uv mgl32.Vec2) {
	m.Positions = append(m.Positions, p)
	m.Normals = append(m.Normals, n)
	m.Colors = append(m.Colors, c)
	m.UVs = append(m.UVs, uv)
}

// Encode interleaves the stream into little-endian bytes, VertexStride per
// vertex.
func (m *Mesh) Encode() []byte {
	buf := make([]byte, 0, m.ByteSize())
	le := binary.LittleEndian
	for i := range m.Positions {
		p := m.Positions[i]
		buf = le.AppendUint64(buf, math.Float64bits(p[0]))
		buf = le.AppendUint64(buf, math.Float64bits(p[1]))
		buf = le.AppendUint64(buf, math.Float64bits(p[2]))
		n := m.Normals[i]
		buf = append(buf, byte(n[0]), byte(n[1]), byte(n[2]))
		c := m.Colors[i]
		buf = le.AppendUint32(buf, math.Float32bits(c[0]))
		buf = le.AppendUint32(buf, math.Float32bits(c[1]))
		buf = le.AppendUint32(buf, math.Float32bits(c[2]))
		uv := m.UVs[i]
		buf = le.AppendUint32(buf, math.Float32bits(uv[0]))
		buf = le.AppendUint32(buf, math.Float32bits(uv[1]))
	}
	return buf
}
