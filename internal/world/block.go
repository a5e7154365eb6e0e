package world

// BlockID is a dense registry index. Ids follow registration order and are not
// portable across registry builds.
type BlockID uint16

// Air is always id 0.
const Air BlockID = 0

// BlockFace identifies one of the six axis-aligned faces of a voxel.
type BlockFace int

const (
	FaceEast   BlockFace = iota // +X
	FaceWest                    // -X
	FaceTop                     // +Y
	FaceBottom                  // -Y
	FaceSouth                   // +Z
	FaceNorth                   // -Z

	FaceCount = 6
)

var faceNormals = [FaceCount][3]int{
	FaceEast:   {1, 0, 0},
	FaceWest:   {-1, 0, 0},
	FaceTop:    {0, 1, 0},
	FaceBottom: {0, -1, 0},
	FaceSouth:  {0, 0, 1},
	FaceNorth:  {0, 0, -1},
}

var faceNames = [FaceCount]string{"east", "west", "top", "bottom", "south", "north"}

// Faces lists every face in index order.
var Faces = [FaceCount]BlockFace{FaceEast, FaceWest, FaceTop, FaceBottom, FaceSouth, FaceNorth}

// Normal returns the unit offset pointing out of the face.
func (f BlockFace) Normal() [3]int {
	return faceNormals[f]
}

// Axis returns 0, 1 or 2 for X, Y or Z.
func (f BlockFace) Axis() int {
	return int(f) / 2
}

// Positive reports whether the face points along the positive axis.
func (f BlockFace) Positive() bool {
	return f%2 == 0
}

// Opposite returns the face pointing the other way along the same axis.
func (f BlockFace) Opposite() BlockFace {
	return f ^ 1
}

func (f BlockFace) String() string {
	if f < 0 || f >= FaceCount {
		return "invalid"
	}
	return faceNames[f]
}
