package preview

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"os"

	"mini-voxel/internal/registry"
	"mini-voxel/internal/terrain"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
)

// Options selects the previewed area in world columns.
type Options struct {
	CenterX, CenterZ int
	Radius           int // columns each side of the center
	Scale            int // output pixels per column
}

// Palette assigns each biome an evenly spaced hue.
func Palette(biomes []registry.Biome) map[string]colorful.Color {
	out := make(map[string]colorful.Color, len(biomes))
	for i, b := range biomes {
		out[b.Name] = colorful.Hsv(float64(i)*360/float64(len(biomes)), 0.6, 0.9)
	}
	return out
}

// Render draws a top-down map: hue is the biome, brightness the height.
func Render(gen *terrain.Generator, biomes []registry.Biome, o Options) *image.RGBA {
	side := 2*o.Radius + 1
	small := image.NewRGBA(image.Rect(0, 0, side, side))
	pal := Palette(biomes)

	lo, hi := math.MaxInt, math.MinInt
	heights := make([]int, side*side)
	for i := range heights {
		wx := o.CenterX - o.Radius + i%side
		wz := o.CenterZ - o.Radius + i/side
		heights[i] = gen.HeightAt(wx, wz)
		lo = min(lo, heights[i])
		hi = max(hi, heights[i])
	}
	span := float64(max(hi-lo, 1))

	for i, h := range heights {
		wx := o.CenterX - o.Radius + i%side
		wz := o.CenterZ - o.Radius + i/side
		base := pal[gen.BiomeAt(wx, wz).Name]
		hue, sat, _ := base.Hsv()
		v := 0.35 + 0.65*float64(h-lo)/span
		small.Set(i%side, i/side, colorful.Hsv(hue, sat, v).Clamped())
	}

	scale := max(o.Scale, 1)
	if scale == 1 {
		return small
	}
	big := image.NewRGBA(image.Rect(0, 0, side*scale, side*scale))
	draw.NearestNeighbor.Scale(big, big.Bounds(), small, small.Bounds(), draw.Src, nil)
	return big
}

// Encode writes img as PNG.
func Encode(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	return nil
}

// WriteFile renders and saves a preview.
func WriteFile(path string, gen *terrain.Generator, biomes []registry.Biome, o Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create preview: %w", err)
	}
	if err := Encode(f, Render(gen, biomes, o)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
