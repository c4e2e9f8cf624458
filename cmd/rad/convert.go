package main

import (
	"mapc/internal/bspfile"
	"mapc/internal/compile"
	"mapc/internal/rad"
)

// facesFromData reconstructs enough of the compiler's Face shape from
// the on-disk lumps for RAD to subdivide: world-space vertex points
// walked through the face's surfedge/edge chain.
func facesFromData(data *bspfile.Data) []*compile.Face {
	var faces []*compile.Face
	for _, f := range data.Faces {
		var pts [][3]float64
		for i := 0; i < int(f.NumEdges); i++ {
			se := data.SurfEdges[int(f.FirstEdge)+i]
			var vIdx uint16
			if se >= 0 {
				vIdx = data.Edges[se].V[0]
			} else {
				vIdx = data.Edges[-se].V[1]
			}
			v := data.Vertexes[vIdx]
			pts = append(pts, [3]float64{float64(v.Point[0]), float64(v.Point[1]), float64(v.Point[2])})
		}
		faces = append(faces, &compile.Face{PlaneNum: int(f.PlaneNum), Points: pts, Contents: compile.ContentsSolid})
	}
	return faces
}

// bakeLighting samples every face's patches into a flat lighting lump,
// styleless (one lightstyle), matching the simplest on-disk layout §6
// describes: 3 bytes per luxel, row-major, concatenated face after
// face.
func bakeLighting(data *bspfile.Data, patches []*rad.Patch) []byte {
	var out []byte
	for i := range data.Faces {
		mins, maxs := faceBounds(data, i)
		lm := rad.Sample(patches, i, [2][2]float64{{mins[0], mins[1]}, {maxs[0], maxs[1]}})
		data.Faces[i].LightOfs = int32(len(out))
		for _, s := range lm.Samples {
			out = append(out, s[0], s[1], s[2])
		}
	}
	return out
}

func faceBounds(data *bspfile.Data, faceIdx int) (mins, maxs [3]float64) {
	f := data.Faces[faceIdx]
	first := true
	for i := 0; i < int(f.NumEdges); i++ {
		se := data.SurfEdges[int(f.FirstEdge)+i]
		var vIdx uint16
		if se >= 0 {
			vIdx = data.Edges[se].V[0]
		} else {
			vIdx = data.Edges[-se].V[1]
		}
		v := data.Vertexes[vIdx]
		p := [3]float64{float64(v.Point[0]), float64(v.Point[1]), float64(v.Point[2])}
		if first {
			mins, maxs = p, p
			first = false
			continue
		}
		for k := 0; k < 3; k++ {
			if p[k] < mins[k] {
				mins[k] = p[k]
			}
			if p[k] > maxs[k] {
				maxs[k] = p[k]
			}
		}
	}
	return mins, maxs
}
