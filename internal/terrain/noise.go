package terrain

import (
	"math"

	"github.com/ojrac/opensimplex-go"
)

// Sampler supplies the noise fields terrain generation reads. Coordinates are
// world voxel coordinates.
type Sampler interface {
	// Climate returns the (temperature, moisture) pair for a column.
	Climate(x, z float64) (float64, float64)
	// Height returns terrainMaxHeight for a column.
	Height(x, z float64) int
	// Cave returns the 3D cave field; values at or above CaveThreshold carve air.
	Cave(x, y, z float64) float64
}

// CaveThreshold separates solid-eligible voxels from carved caves.
const CaveThreshold = 0.7

const (
	climateWavelength = 512.0
	caveWavelength    = 25.0
)

type octave struct {
	wavelength float64
	amplitude  float64
	offset     float64
}

// heightOctaves halve wavelength and amplitude each step; the offset stays.
var heightOctaves = [...]octave{
	{wavelength: 200, amplitude: 64, offset: 16},
	{wavelength: 100, amplitude: 32, offset: 16},
	{wavelength: 50, amplitude: 16, offset: 16},
	{wavelength: 25, amplitude: 8, offset: 16},
	{wavelength: 12.5, amplitude: 4, offset: 16},
}

// NoiseSampler is the OpenSimplex-backed Sampler.
type NoiseSampler struct {
	height      opensimplex.Noise
	temperature opensimplex.Noise
	moisture    opensimplex.Noise
	caves       opensimplex.Noise
}

// NewNoiseSampler derives independent noise fields from one seed.
func NewNoiseSampler(seed int64) *NoiseSampler {
	return &NoiseSampler{
		height:      opensimplex.New(seed),
		temperature: opensimplex.NewNormalized(seed + 1),
		moisture:    opensimplex.NewNormalized(seed + 2),
		caves:       opensimplex.NewNormalized(seed + 3),
	}
}

func (s *NoiseSampler) Climate(x, z float64) (float64, float64) {
	return s.temperature.Eval2(x/climateWavelength, z/climateWavelength),
		s.moisture.Eval2(x/climateWavelength, z/climateWavelength)
}

// Height is the floor of the mean of the five height octaves.
func (s *NoiseSampler) Height(x, z float64) int {
	var sum float64
	for _, o := range heightOctaves {
		sum += s.height.Eval2(x/o.wavelength, z/o.wavelength)*o.amplitude + o.offset
	}
	return int(math.Floor(sum / float64(len(heightOctaves))))
}

func (s *NoiseSampler) Cave(x, y, z float64) float64 {
	return s.caves.Eval3(x/caveWavelength, y/caveWavelength, z/caveWavelength)
}
