package terrain

import (
	"math"

	"mini-voxel/internal/registry"
)

// Classifier picks the registered biome nearest to a (temperature, moisture)
// point.
type Classifier struct {
	biomes []registry.Biome
}

// NewClassifier fails when the registry has no biomes.
func NewClassifier(reg *registry.Registry) (*Classifier, error) {
	biomes := reg.Biomes()
	if len(biomes) == 0 {
		return nil, registry.ErrNoBiomes
	}
	return &Classifier{biomes: biomes}, nil
}

// Classify returns the biome with the smallest Euclidean distance. On ties the
// first biome in registration order wins.
func (c *Classifier) Classify(temperature, moisture float64) *registry.Biome {
	best := 0
	bestDist := math.Inf(1)
	for i := range c.biomes {
		dt := c.biomes[i].Temperature - temperature
		dm := c.biomes[i].Moisture - moisture
		d := dt*dt + dm*dm
		if d < bestDist {
			best = i
			bestDist = d
		}
	}
	return &c.biomes[best]
}
