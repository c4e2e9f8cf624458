package vis

// CompressRow RLE-encodes one PVS row the way the on-disk visdata lump
// does: runs of zero bytes are replaced by a zero byte followed by the
// run length; any other byte is copied through literally. This is the
// classic Quake-family vis compression, decodable a row at a time
// without knowing its length in advance (a zero length byte never
// occurs, so 0,0 never appears in valid output).
func CompressRow(row Bitset) []byte {
	var out []byte
	i := 0
	for i < len(row) {
		if row[i] != 0 {
			out = append(out, row[i])
			i++
			continue
		}
		j := i
		for j < len(row) && row[j] == 0 && j-i < 255 {
			j++
		}
		out = append(out, 0, byte(j-i))
		i = j
	}
	return out
}

// DecompressRow expands an RLE row back to numBytes of raw bitmap.
func DecompressRow(data []byte, numBytes int) Bitset {
	out := make(Bitset, numBytes)
	i, o := 0, 0
	for o < numBytes && i < len(data) {
		if data[i] != 0 {
			out[o] = data[i]
			i++
			o++
			continue
		}
		run := int(data[i+1])
		i += 2
		o += run
	}
	return out
}

// CompressAll encodes every row of pvs and returns the packed visdata
// lump plus each leaf's byte offset into it, ready for bspfile.Leaf.VisOfs.
func CompressAll(pvs *PVS) (lump []byte, offsets []int32) {
	offsets = make([]int32, pvs.NumLeafs)
	for i, row := range pvs.Rows {
		offsets[i] = int32(len(lump))
		lump = append(lump, CompressRow(row)...)
	}
	return lump, offsets
}
