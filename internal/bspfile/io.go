package bspfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Data holds every lump of a loaded (or about-to-be-saved) BSP file in
// memory, as the spatial/CSG/VIS/RAD stages share it. Grounded on the
// lump-array reader in samuelyuan/go-quake2's q2bsp.go: read the header,
// then SectionReader each lump out of the backing file.
type Data struct {
	Entities   string
	Planes     []Plane
	Textures   []byte // raw miptex lump, parsed by package wad
	Vertexes   []Vertex
	Visibility []byte
	Nodes      []Node
	TexInfo    []TexInfo
	Faces      []Face
	Lighting   []byte
	ClipNodes  []ClipNode
	Leafs      []Leaf
	MarkSurfaces []uint16
	Edges      []Edge
	SurfEdges  []int32
	Models     []Model
}

// Load reads a BSP file from path, validating the version word and lump
// bounds before decoding every lump into Data.
func Load(path string) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return Decode(f, stat.Size())
}

// Decode reads a BSP image from r, which must support random access up to
// size bytes (a *os.File or *bytes.Reader).
func Decode(r io.ReaderAt, size int64) (*Data, error) {
	var hdr Header
	if err := binary.Read(io.NewSectionReader(r, 0, size), binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("bspfile: reading header: %w", err)
	}
	if hdr.Version != Version {
		return nil, fmt.Errorf("bspfile: unsupported version %d (want %d)", hdr.Version, Version)
	}

	lump := func(i int) (*io.SectionReader, error) {
		d := hdr.Lumps[i]
		if d.Offset < 0 || d.Length < 0 || int64(d.Offset)+int64(d.Length) > size {
			return nil, fmt.Errorf("bspfile: lump %d out of bounds (offset=%d length=%d file=%d)", i, d.Offset, d.Length, size)
		}
		return io.NewSectionReader(r, int64(d.Offset), int64(d.Length)), nil
	}

	data := &Data{}
	var err error

	if data.Entities, err = readString(lump, LumpEntities); err != nil {
		return nil, err
	}
	if data.Textures, err = readBytes(lump, LumpTextures); err != nil {
		return nil, err
	}
	if data.Visibility, err = readBytes(lump, LumpVisibility); err != nil {
		return nil, err
	}
	if data.Lighting, err = readBytes(lump, LumpLighting); err != nil {
		return nil, err
	}

	if err = readSlice(lump, LumpPlanes, &data.Planes); err != nil {
		return nil, err
	}
	if err = readSlice(lump, LumpVertexes, &data.Vertexes); err != nil {
		return nil, err
	}
	if err = readSlice(lump, LumpNodes, &data.Nodes); err != nil {
		return nil, err
	}
	if err = readSlice(lump, LumpTexInfo, &data.TexInfo); err != nil {
		return nil, err
	}
	if err = readSlice(lump, LumpFaces, &data.Faces); err != nil {
		return nil, err
	}
	if err = readSlice(lump, LumpClipNodes, &data.ClipNodes); err != nil {
		return nil, err
	}
	if err = readSlice(lump, LumpLeafs, &data.Leafs); err != nil {
		return nil, err
	}
	if err = readSlice(lump, LumpMarkSurfaces, &data.MarkSurfaces); err != nil {
		return nil, err
	}
	if err = readSlice(lump, LumpEdges, &data.Edges); err != nil {
		return nil, err
	}
	if err = readSlice(lump, LumpSurfEdges, &data.SurfEdges); err != nil {
		return nil, err
	}
	if err = readSlice(lump, LumpModels, &data.Models); err != nil {
		return nil, err
	}

	if err := data.checkIntegrity(); err != nil {
		return nil, err
	}
	return data, nil
}

func readBytes(lump func(int) (*io.SectionReader, error), i int) ([]byte, error) {
	sr, err := lump(i)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, sr.Size())
	if _, err := io.ReadFull(sr, buf); err != nil && err != io.EOF {
		return nil, err
	}
	return buf, nil
}

func readString(lump func(int) (*io.SectionReader, error), i int) (string, error) {
	b, err := readBytes(lump, i)
	if err != nil {
		return "", err
	}
	return string(bytes.TrimRight(b, "\x00")), nil
}

func readSlice[T any](lump func(int) (*io.SectionReader, error), i int, out *[]T) error {
	sr, err := lump(i)
	if err != nil {
		return err
	}
	var zero T
	elemSize := binary.Size(zero)
	if elemSize <= 0 {
		return fmt.Errorf("bspfile: lump %d has no fixed element size", i)
	}
	n := int(sr.Size()) / elemSize
	s := make([]T, n)
	for k := range s {
		if err := binary.Read(sr, binary.LittleEndian, &s[k]); err != nil {
			return fmt.Errorf("bspfile: lump %d entry %d: %w", i, k, err)
		}
	}
	*out = s
	return nil
}

// checkIntegrity performs cross-lump bounds checks on load
// (face.firstedge+numedges within surfedges, face and node plane numbers
// within the plane lump, surfedge edge indices within the edge lump),
// surfacing a violation as a single error rather than letting a later
// stage index out of range. Node and clipnode children are not checked.
func (d *Data) checkIntegrity() error {
	for i, f := range d.Faces {
		if int(f.FirstEdge)+int(f.NumEdges) > len(d.SurfEdges) {
			return fmt.Errorf("bspfile: face %d surfedge range out of bounds", i)
		}
		if int(f.PlaneNum) >= len(d.Planes) {
			return fmt.Errorf("bspfile: face %d plane %d out of range", i, f.PlaneNum)
		}
	}
	for i, e := range d.SurfEdges {
		ei := e
		if ei < 0 {
			ei = -ei
		}
		if int(ei) >= len(d.Edges) {
			return fmt.Errorf("bspfile: surfedge %d references edge %d out of range", i, ei)
		}
	}
	for i, n := range d.Nodes {
		if int(n.PlaneNum) >= len(d.Planes) {
			return fmt.Errorf("bspfile: node %d plane %d out of range", i, n.PlaneNum)
		}
	}
	return nil
}

// Save writes data to path as a BSP v30 image, computing lump offsets in
// the fixed header order.
func Save(path string, data *Data) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return Encode(f, data)
}

// Encode writes data to w, little-endian, in the fixed lump order.
func Encode(w io.Writer, data *Data) error {
	lumps := make([][]byte, NumLumps)
	var buf bytes.Buffer

	lumps[LumpEntities] = []byte(data.Entities)
	lumps[LumpTextures] = data.Textures
	lumps[LumpVisibility] = data.Visibility
	lumps[LumpLighting] = data.Lighting

	var err error
	if lumps[LumpPlanes], err = encodeSlice(data.Planes); err != nil {
		return err
	}
	if lumps[LumpVertexes], err = encodeSlice(data.Vertexes); err != nil {
		return err
	}
	if lumps[LumpNodes], err = encodeSlice(data.Nodes); err != nil {
		return err
	}
	if lumps[LumpTexInfo], err = encodeSlice(data.TexInfo); err != nil {
		return err
	}
	if lumps[LumpFaces], err = encodeSlice(data.Faces); err != nil {
		return err
	}
	if lumps[LumpClipNodes], err = encodeSlice(data.ClipNodes); err != nil {
		return err
	}
	if lumps[LumpLeafs], err = encodeSlice(data.Leafs); err != nil {
		return err
	}
	if lumps[LumpMarkSurfaces], err = encodeSlice(data.MarkSurfaces); err != nil {
		return err
	}
	if lumps[LumpEdges], err = encodeSlice(data.Edges); err != nil {
		return err
	}
	if lumps[LumpSurfEdges], err = encodeSlice(data.SurfEdges); err != nil {
		return err
	}
	if lumps[LumpModels], err = encodeSlice(data.Models); err != nil {
		return err
	}

	var hdr Header
	hdr.Version = Version
	offset := int32(binary.Size(hdr))
	for i, l := range lumps {
		hdr.Lumps[i] = LumpDescriptor{Offset: offset, Length: int32(len(l))}
		offset += int32(len(l))
	}

	if err := binary.Write(&buf, binary.LittleEndian, hdr); err != nil {
		return err
	}
	for _, l := range lumps {
		buf.Write(l)
	}
	_, err = w.Write(buf.Bytes())
	return err
}

func encodeSlice[T any](s []T) ([]byte, error) {
	var buf bytes.Buffer
	for i := range s {
		if err := binary.Write(&buf, binary.LittleEndian, s[i]); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
