package avif

import (
	"bytes"
	"encoding/binary"

	"github.com/Eyevinn/mp4ff/mp4"
)

// readBrands returns the brands of the leading 'ftyp' box, or nothing if data does not start
// with a well-formed one.
func readBrands(data []byte) (string, []string) {
	if len(data) < 16 || string(data[4:8]) != "ftyp" {
		return "", nil
	}
	size := binary.BigEndian.Uint32(data[:4])
	if size < 16 || uint64(size) > uint64(len(data)) {
		return "", nil
	}

	box, err := mp4.DecodeBox(0, bytes.NewReader(data[:size]))
	if err != nil {
		return "", nil
	}
	ftyp, ok := box.(*mp4.FtypBox)
	if !ok {
		return "", nil
	}

	return ftyp.MajorBrand(), ftyp.CompatibleBrands()
}
