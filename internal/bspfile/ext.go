package bspfile

import (
	"encoding/json"
	"os"
	"strings"
)

// Ext is the `.ext` side channel: data that doesn't fit the frozen BSP v30
// layout (extended per-face texture axes and offsets) but that later
// stages of the same pipeline still need to hand to each other. Kept
// strictly separate from the .bsp container itself so round-tripping a
// .bsp through ripent never touches it.
type Ext struct {
	// FaceExtendedTexInfo carries higher-precision UV data per face, when
	// a stage needs more than TexInfo's float32 axes provide.
	FaceExtendedTexInfo map[int]ExtTexInfo `json:"face_texinfo,omitempty"`
}

// ExtTexInfo is a float64 texture projection, mirroring TexInfo but at
// full precision for intermediate compiler stages.
type ExtTexInfo struct {
	UAxis, VAxis     [3]float64
	UOffset, VOffset float64
}

// extPath derives name.ext from name.bsp (or appends .ext otherwise).
func extPath(bspPath string) string {
	if strings.HasSuffix(strings.ToLower(bspPath), ".bsp") {
		return bspPath[:len(bspPath)-4] + ".ext"
	}
	return bspPath + ".ext"
}

// LoadExt reads the side channel for bspPath, returning an empty Ext (not
// an error) if no .ext file exists.
func LoadExt(bspPath string) (*Ext, error) {
	b, err := os.ReadFile(extPath(bspPath))
	if os.IsNotExist(err) {
		return &Ext{}, nil
	}
	if err != nil {
		return nil, err
	}
	var e Ext
	if err := json.Unmarshal(b, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// SaveExt writes the side channel for bspPath. A nil or empty Ext removes
// any existing .ext file rather than writing an empty one.
func SaveExt(bspPath string, e *Ext) error {
	if e == nil || len(e.FaceExtendedTexInfo) == 0 {
		if _, err := os.Stat(extPath(bspPath)); err == nil {
			return os.Remove(extPath(bspPath))
		}
		return nil
	}
	b, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(extPath(bspPath), b, 0644)
}
