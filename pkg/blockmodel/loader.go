package blockmodel

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"path"
	"sort"
	"strings"

	"mini-voxel/internal/registry"
)

// ErrUnsupported is returned for model features shapes cannot express.
var ErrUnsupported = errors.New("blockmodel: unsupported element")

// Loader reads models from an assets tree laid out as models/<name>.json.
type Loader struct {
	fsys       fs.FS
	modelCache map[string]*Model
}

func NewLoader(fsys fs.FS) *Loader {
	return &Loader{
		fsys:       fsys,
		modelCache: make(map[string]*Model),
	}
}

// LoadModel reads a model and merges in its parent chain. Cached models are
// shared; callers must not modify them.
func (l *Loader) LoadModel(name string) (*Model, error) {
	if !strings.Contains(name, "/") {
		name = "block/" + name
	}

	if model, ok := l.modelCache[name]; ok {
		return model, nil
	}

	data, err := fs.ReadFile(l.fsys, path.Join("models", name+".json"))
	if err != nil {
		return nil, fmt.Errorf("could not read model file: %w", err)
	}

	var model Model
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("could not unmarshal model %s: %w", name, err)
	}
	if model.Textures == nil {
		model.Textures = make(map[string]string)
	}

	if model.Parent != "" && !strings.HasPrefix(model.Parent, "builtin/") {
		parent, err := l.LoadModel(model.Parent)
		if err != nil {
			return nil, fmt.Errorf("could not load parent model '%s': %w", model.Parent, err)
		}

		if model.AmbientOcclusion == nil {
			model.AmbientOcclusion = parent.AmbientOcclusion
		}
		if len(model.Elements) == 0 {
			// copy so texture resolution never touches the cached parent
			for _, el := range parent.Elements {
				model.Elements = append(model.Elements, el.clone())
			}
		}
		for key, val := range parent.Textures {
			if _, ok := model.Textures[key]; !ok {
				model.Textures[key] = val
			}
		}
	}

	l.resolveTextures(&model)
	l.modelCache[name] = &model
	return &model, nil
}

func (l *Loader) resolveTextures(m *Model) {
	for i := range m.Elements {
		for faceName, face := range m.Elements[i].Faces {
			resolved := ResolveTexture(face.Texture, m)
			if resolved != face.Texture {
				face.Texture = resolved
				m.Elements[i].Faces[faceName] = face
			}
		}
	}
}

// ResolveTexture follows #references through the model's texture table.
func ResolveTexture(textureName string, m *Model) string {
	for i := 0; i < 10 && strings.HasPrefix(textureName, "#"); i++ {
		key := strings.TrimPrefix(textureName, "#")
		resolved, ok := m.Textures[key]
		if !ok {
			break
		}
		textureName = resolved
	}
	return textureName
}

// ToShape converts a model's elements to a registry shape. Extents must land
// on whole eighths of a voxel and elements may not be rotated.
func ToShape(name string, m *Model) (registry.Shape, error) {
	s := registry.Shape{Name: name}
	for i, el := range m.Elements {
		if el.Rotation != nil && el.Rotation.Angle != 0 {
			return registry.Shape{}, fmt.Errorf("%s element %d rotated: %w", name, i, ErrUnsupported)
		}
		var out registry.Element
		for a := 0; a < 3; a++ {
			from, err := eighths(el.From[a])
			if err != nil {
				return registry.Shape{}, fmt.Errorf("%s element %d: %w", name, i, err)
			}
			to, err := eighths(el.To[a])
			if err != nil {
				return registry.Shape{}, fmt.Errorf("%s element %d: %w", name, i, err)
			}
			out.From[a], out.To[a] = from, to
		}
		s.Elements = append(s.Elements, out)
	}
	return s, nil
}

func eighths(v float32) (uint8, error) {
	e := float64(v) / 2
	if e < 0 || e > 8 || e != math.Trunc(e) {
		return 0, fmt.Errorf("extent %v not on the eighth grid: %w", v, ErrUnsupported)
	}
	return uint8(e), nil
}

// LoadShapes converts every model under models/block into a shape named
// after its file. Models without elements are skipped.
func (l *Loader) LoadShapes() ([]registry.Shape, error) {
	files, err := fs.Glob(l.fsys, "models/block/*.json")
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	var out []registry.Shape
	for _, f := range files {
		name := strings.TrimSuffix(path.Base(f), ".json")
		m, err := l.LoadModel("block/" + name)
		if err != nil {
			return nil, err
		}
		if len(m.Elements) == 0 {
			continue
		}
		s, err := ToShape(name, m)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
