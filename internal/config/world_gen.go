package config

import "fmt"

// WorldConfig holds world generation settings shared by every component.
type WorldConfig struct {
	Seed          int64   `yaml:"seed"`
	ChunkSize     int     `yaml:"chunk_size"` // 16 or 32
	UnitsPerVoxel float64 `yaml:"units_per_voxel"`
}

func defaultWorld() WorldConfig {
	return WorldConfig{
		Seed:          1337,
		ChunkSize:     16,
		UnitsPerVoxel: 1.0,
	}
}

func (w *WorldConfig) validate() error {
	switch w.ChunkSize {
	case 16, 32:
		return nil
	default:
		return fmt.Errorf("config: chunk_size must be 16 or 32, got %d", w.ChunkSize)
	}
}

func (w *WorldConfig) normalize() {
	if w.ChunkSize != 32 {
		w.ChunkSize = 16
	}
	if w.UnitsPerVoxel <= 0 {
		w.UnitsPerVoxel = 1.0
	}
}
