package blockmodel

import (
	"errors"
	"testing"
	"testing/fstest"

	"mini-voxel/internal/registry"

	"github.com/google/go-cmp/cmp"
)

func assets() fstest.MapFS {
	return fstest.MapFS{
		"models/block/test_cube.json": {Data: []byte(`{
			"textures": { "all": "block/stone" },
			"elements": [ { "from": [0,0,0], "to": [16,16,16], "faces": { "down": { "texture": "#all" } } } ]
		}`)},
		"models/block/test_child.json": {Data: []byte(`{
			"parent": "block/test_cube",
			"textures": { "particle": "block/dirt" }
		}`)},
		"models/block/test_texture_resolve.json": {Data: []byte(`{
			"textures": { "primary": "block/diamond_block", "secondary": "#primary" },
			"elements": [ { "from": [0,0,0], "to": [16,16,16], "faces": { "north": { "texture": "#secondary" } } } ]
		}`)},
		"models/block/parent.json": {Data: []byte(`{
			"elements": [ { "from": [0,0,0], "to": [16,16,16], "faces": { "up": { "texture": "#all" } } } ]
		}`)},
		"models/block/child1.json": {Data: []byte(`{ "parent": "block/parent", "textures": { "all": "block/skin1" } }`)},
		"models/block/child2.json": {Data: []byte(`{ "parent": "block/parent", "textures": { "all": "block/skin2" } }`)},
		"models/block/half.json": {Data: []byte(`{
			"elements": [ { "from": [0,0,0], "to": [16,8,16] } ]
		}`)},
		"models/block/builtin.json": {Data: []byte(`{ "parent": "builtin/generated" }`)},
	}
}

func TestLoadSimpleModel(t *testing.T) {
	model, err := NewLoader(assets()).LoadModel("block/test_cube")
	if err != nil {
		t.Fatalf("Failed to load model: %v", err)
	}
	if len(model.Elements) != 1 {
		t.Errorf("Expected 1 element, got %d", len(model.Elements))
	}
	if model.Elements[0].Faces["down"].Texture != "block/stone" {
		t.Errorf("texture not resolved: %q", model.Elements[0].Faces["down"].Texture)
	}
}

func TestLoadChildModel(t *testing.T) {
	model, err := NewLoader(assets()).LoadModel("test_child")
	if err != nil {
		t.Fatalf("Failed to load model: %v", err)
	}
	if len(model.Elements) != 1 {
		t.Errorf("Expected 1 element from parent, got %d", len(model.Elements))
	}
	if model.Textures["all"] != "block/stone" || model.Textures["particle"] != "block/dirt" {
		t.Errorf("textures = %v", model.Textures)
	}
}

func TestTextureResolveChain(t *testing.T) {
	model, err := NewLoader(assets()).LoadModel("block/test_texture_resolve")
	if err != nil {
		t.Fatalf("Failed to load model: %v", err)
	}
	if got := model.Elements[0].Faces["north"].Texture; got != "block/diamond_block" {
		t.Errorf("texture = %q, want block/diamond_block", got)
	}
}

func TestSharedParentNotMutated(t *testing.T) {
	l := NewLoader(assets())
	c1, err := l.LoadModel("block/child1")
	if err != nil {
		t.Fatalf("child1: %v", err)
	}
	c2, err := l.LoadModel("block/child2")
	if err != nil {
		t.Fatalf("child2: %v", err)
	}
	if c1.Elements[0].Faces["up"].Texture != "block/skin1" || c2.Elements[0].Faces["up"].Texture != "block/skin2" {
		t.Errorf("children resolved to %q and %q", c1.Elements[0].Faces["up"].Texture, c2.Elements[0].Faces["up"].Texture)
	}
	parent, _ := l.LoadModel("block/parent")
	if parent.Elements[0].Faces["up"].Texture != "#all" {
		t.Errorf("cached parent was mutated: %q", parent.Elements[0].Faces["up"].Texture)
	}
}

func TestCache(t *testing.T) {
	l := NewLoader(assets())
	m1, _ := l.LoadModel("block/test_cube")
	m2, _ := l.LoadModel("block/test_cube")
	if m1 != m2 {
		t.Errorf("Expected the same model instance to be returned from cache")
	}
}

func TestToShape(t *testing.T) {
	m, err := NewLoader(assets()).LoadModel("block/half")
	if err != nil {
		t.Fatal(err)
	}
	s, err := ToShape("half", m)
	if err != nil {
		t.Fatalf("ToShape: %v", err)
	}
	want := registry.Shape{Name: "half", Elements: []registry.Element{{To: [3]uint8{8, 4, 8}}}}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("shape (-want +got):\n%s", diff)
	}

	odd := &Model{Elements: []Element{{To: [3]float32{16, 3, 16}}}}
	if _, err := ToShape("odd", odd); !errors.Is(err, ErrUnsupported) {
		t.Errorf("off-grid extent: err = %v", err)
	}
	rotated := &Model{Elements: []Element{{To: [3]float32{16, 16, 16}, Rotation: &Rotation{Angle: 45, Axis: "y"}}}}
	if _, err := ToShape("rot", rotated); !errors.Is(err, ErrUnsupported) {
		t.Errorf("rotated element: err = %v", err)
	}
}

func TestLoadShapesFeedsRegistry(t *testing.T) {
	shapes, err := NewLoader(fstest.MapFS{
		"models/block/slab.json":    {Data: []byte(`{"elements":[{"from":[0,0,0],"to":[16,4,16]}]}`)},
		"models/block/builtin.json": {Data: []byte(`{"parent":"builtin/generated"}`)},
	}).LoadShapes()
	if err != nil {
		t.Fatalf("LoadShapes: %v", err)
	}
	if len(shapes) != 1 || shapes[0].Name != "slab" {
		t.Fatalf("shapes = %+v", shapes)
	}

	r, err := registry.DefaultWithShapes(shapes)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	id, _ := r.BlockID("stone_slab")
	if got := r.Shape(r.Block(id).ShapeID).Elements[0].To; got != [3]uint8{8, 2, 8} {
		t.Fatalf("slab extent = %v, want the loaded quarter slab", got)
	}
}

func TestLoadShapesWithCubeParent(t *testing.T) {
	shapes, err := NewLoader(fstest.MapFS{
		"models/block/cube.json":     {Data: []byte(`{"elements":[{"from":[0,0,0],"to":[16,16,16],"faces":{"up":{"texture":"#up"}}}]}`)},
		"models/block/cube_all.json": {Data: []byte(`{"parent":"block/cube","textures":{"up":"#all"}}`)},
		"models/block/stone.json":    {Data: []byte(`{"parent":"block/cube_all","textures":{"all":"block/stone"}}`)},
	}).LoadShapes()
	if err != nil {
		t.Fatalf("LoadShapes: %v", err)
	}
	if len(shapes) != 3 || shapes[0].Name != "cube" {
		t.Fatalf("shapes = %+v", shapes)
	}

	r, err := registry.DefaultWithShapes(shapes)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	want := []registry.Element{registry.FullCube}
	if diff := cmp.Diff(want, r.Shape(registry.CubeShape).Elements); diff != "" {
		t.Errorf("cube shape (-want +got):\n%s", diff)
	}
	if _, ok := r.BlockID("stone"); !ok {
		t.Errorf("stone block missing")
	}
}
