package preview

import (
	"bytes"
	"image/png"
	"testing"

	"mini-voxel/internal/logging"
	"mini-voxel/internal/registry"
	"mini-voxel/internal/terrain"
)

func TestRenderSizeAndOpacity(t *testing.T) {
	reg := registry.MustDefault()
	gen, err := terrain.NewGenerator(reg, terrain.NewNoiseSampler(3), 16, 3, logging.Discard())
	if err != nil {
		t.Fatalf("generator: %v", err)
	}
	img := Render(gen, reg.Biomes(), Options{Radius: 8, Scale: 3})
	if b := img.Bounds(); b.Dx() != 51 || b.Dy() != 51 {
		t.Fatalf("bounds = %v, want 51x51", b)
	}
	for y := 0; y < 51; y++ {
		for x := 0; x < 51; x++ {
			if img.RGBAAt(x, y).A != 0xff {
				t.Fatalf("pixel (%d,%d) not opaque", x, y)
			}
		}
	}

	var buf bytes.Buffer
	if err := Encode(&buf, img); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if _, err := png.Decode(&buf); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestPaletteHuesDistinct(t *testing.T) {
	biomes := registry.MustDefault().Biomes()
	pal := Palette(biomes)
	seen := map[string]bool{}
	for _, b := range biomes {
		hex := pal[b.Name].Hex()
		if seen[hex] {
			t.Fatalf("biome %s reuses color %s", b.Name, hex)
		}
		seen[hex] = true
	}
}
