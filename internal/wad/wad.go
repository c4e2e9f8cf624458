// Package wad implements the texture WAD catalog (C8): loading miptex
// directories, resolving a face's texture name to its pixel dimensions
// (needed for UV extent computation), and recognizing the embedded RAD
// special-texture naming convention (light-emitting surfaces named
// "__rad<n>", "{_rad<n>", or "!_rad<n>"). Binary layout and the
// SectionReader-per-lump read pattern are grounded on
// samuelyuan/go-quake2's q2bsp.go lump reader.
package wad

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const (
	magic        = "WAD3"
	typeMipTex   = 0x44
	nameLen      = 16
)

// header is the WAD3 directory header: magic, entry count, directory
// offset.
type header struct {
	Magic      [4]byte
	NumEntries int32
	DirOffset  int32
}

// dirEntry is one WAD3 lump directory record.
type dirEntry struct {
	Offset       int32
	DiskSize     int32
	Size         int32
	Type         int8
	Compression  int8
	Pad          int16
	Name         [nameLen]byte
}

// MipTex is a decoded miptex header: name and the level-0 (full size)
// dimensions; the smaller mip levels' sizes are not stored.
type MipTex struct {
	Name          string
	Width, Height uint32
}

// Catalog indexes every miptex found across a set of loaded WAD files by
// name, the way the original tool merges -wadinclude search paths into
// one flat texture lookup.
type Catalog struct {
	textures map[string]MipTex
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{textures: make(map[string]MipTex)}
}

// Load reads one .wad file's directory and merges its miptex entries
// into the catalog. Later loads take precedence over earlier ones for a
// colliding name, matching -wadinclude path order.
func (c *Catalog) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return err
	}
	return c.decode(f, stat.Size())
}

func (c *Catalog) decode(r io.ReaderAt, size int64) error {
	var hdr header
	if err := binary.Read(io.NewSectionReader(r, 0, size), binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("wad: reading header: %w", err)
	}
	if string(hdr.Magic[:]) != magic {
		return fmt.Errorf("wad: bad magic %q", hdr.Magic[:])
	}

	dirSize := int64(hdr.NumEntries) * int64(binary.Size(dirEntry{}))
	dirR := io.NewSectionReader(r, int64(hdr.DirOffset), dirSize)

	for i := int32(0); i < hdr.NumEntries; i++ {
		var e dirEntry
		if err := binary.Read(dirR, binary.LittleEndian, &e); err != nil {
			return fmt.Errorf("wad: reading dir entry %d: %w", i, err)
		}
		if e.Type != typeMipTex {
			continue
		}
		mt, err := readMipTexHeader(r, int64(e.Offset), size)
		if err != nil {
			return fmt.Errorf("wad: miptex %q: %w", cstr(e.Name[:]), err)
		}
		c.textures[strings.ToLower(mt.Name)] = mt
	}
	return nil
}

// mipTexDisk is the on-disk miptex header: name, width, height, then four
// mip-level data offsets (the pixel data itself is not needed here — only
// the catalog metadata is, since RAD/CSG only need dimensions).
type mipTexDisk struct {
	Name        [nameLen]byte
	Width       uint32
	Height      uint32
	Offsets     [4]uint32
}

func readMipTexHeader(r io.ReaderAt, offset, fileSize int64) (MipTex, error) {
	if offset < 0 || offset >= fileSize {
		return MipTex{}, fmt.Errorf("offset %d out of bounds", offset)
	}
	sr := io.NewSectionReader(r, offset, fileSize-offset)
	var d mipTexDisk
	if err := binary.Read(sr, binary.LittleEndian, &d); err != nil {
		return MipTex{}, err
	}
	return MipTex{Name: cstr(d.Name[:]), Width: d.Width, Height: d.Height}, nil
}

func cstr(b []byte) string {
	if i := strings.IndexByte(string(b), 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}

// ParseMipTexLump decodes a BSP file's embedded texture lump (LUMP_TEXTURES):
// a numtex int32 followed by that many int32 offsets (relative to the lump's
// own start, -1 for a name with no embedded pixel data), each pointing to a
// mipTexDisk header. This differs from a standalone .wad's directory-based
// layout, so it gets its own decoder rather than reusing Catalog.decode.
func ParseMipTexLump(lump []byte) ([]MipTex, error) {
	if len(lump) < 4 {
		return nil, nil
	}
	r := bytes.NewReader(lump)
	var numTex int32
	if err := binary.Read(r, binary.LittleEndian, &numTex); err != nil {
		return nil, fmt.Errorf("wad: reading miptex lump header: %w", err)
	}
	offsets := make([]int32, numTex)
	if err := binary.Read(r, binary.LittleEndian, &offsets); err != nil {
		return nil, fmt.Errorf("wad: reading miptex offsets: %w", err)
	}
	out := make([]MipTex, numTex)
	for i, off := range offsets {
		if off < 0 || int(off)+int(binary.Size(mipTexDisk{})) > len(lump) {
			continue
		}
		var d mipTexDisk
		if err := binary.Read(bytes.NewReader(lump[off:]), binary.LittleEndian, &d); err != nil {
			return nil, fmt.Errorf("wad: miptex %d: %w", i, err)
		}
		out[i] = MipTex{Name: cstr(d.Name[:]), Width: d.Width, Height: d.Height}
	}
	return out, nil
}

// Lookup returns the named texture's metadata.
func (c *Catalog) Lookup(name string) (MipTex, bool) {
	mt, ok := c.textures[strings.ToLower(name)]
	return mt, ok
}

// RadEmission reports whether a texture name follows the embedded-RAD
// special naming convention ("__rad<n>", "{_rad<n>", "!_rad<n>") and, if
// so, the intensity suffix n encoded in the name. A texture without a
// numeric suffix emits at the default intensity (n==0 with ok==true).
func RadEmission(name string) (intensity int, ok bool) {
	lower := strings.ToLower(name)
	for _, prefix := range []string{"__rad", "{_rad", "!_rad"} {
		if strings.HasPrefix(lower, prefix) {
			suffix := lower[len(prefix):]
			if suffix == "" {
				return 0, true
			}
			n, err := strconv.Atoi(suffix)
			if err != nil {
				return 0, true
			}
			return n, true
		}
	}
	return 0, false
}
