package blockmodel

// Model is a block model file. Coordinates are in sixteenths of a voxel.
type Model struct {
	Parent           string            `json:"parent"`
	AmbientOcclusion *bool             `json:"ambientocclusion"`
	Textures         map[string]string `json:"textures"`
	Elements         []Element         `json:"elements"`
}

type Element struct {
	From     [3]float32      `json:"from"`
	To       [3]float32      `json:"to"`
	Rotation *Rotation       `json:"rotation"`
	Shade    *bool           `json:"shade"`
	Faces    map[string]Face `json:"faces"`
}

type Rotation struct {
	Origin  [3]float32 `json:"origin"`
	Angle   float32    `json:"angle"`
	Axis    string     `json:"axis"`
	Rescale bool       `json:"rescale"`
}

type Face struct {
	UV       [4]float32 `json:"uv"`
	Texture  string     `json:"texture"`
	CullFace string     `json:"cullface"`
}

func (e Element) clone() Element {
	out := e
	if e.Faces != nil {
		out.Faces = make(map[string]Face, len(e.Faces))
		for k, v := range e.Faces {
			out.Faces[k] = v
		}
	}
	return out
}
