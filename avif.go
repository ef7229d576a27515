// Package avif decodes AVIF images through libavif (CGO). Files are parsed once into a
// Session, and frames are decoded one at a time into caller-owned pixel buffers in
// RGBA 8888, RGBA half-float or RGB 565 layout.
package avif

/*
#cgo pkg-config: libavif
#include <stdlib.h>
#include <avif/avif.h>

// peek_compatible checks the 'ftyp' signature without parsing the rest of the file.
static avifBool peek_compatible(const uint8_t *data, size_t size) {
    avifROData input = {data, size};
    return avifPeekCompatibleFileType(&input);
}
*/
import "C"
import (
	"fmt"
	"unsafe"
)

// IsCompatible reports whether data starts with an AVIF file signature. It only looks at the
// 'ftyp' box and never decodes anything.
func IsCompatible(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	return C.peek_compatible((*C.uint8_t)(unsafe.Pointer(&data[0])), C.size_t(len(data))) == C.AVIF_TRUE
}

// GetInfo parses data on a single thread and returns its metadata without decoding a frame.
func GetInfo(data []byte) (Info, error) {
	s, err := construct(data, 1, CodecAuto)
	if err != nil {
		return Info{}, err
	}
	defer s.Close()

	return s.Info(), nil
}

// DecodeOneShot decodes the first frame of data into t. The session it opens is always
// closed before returning.
func DecodeOneShot(data []byte, t *PixelTarget, opts ...Option) error {
	s, err := NewSession(data, opts...)
	if err != nil {
		return err
	}
	defer s.Close()

	return s.DecodeNext(t)
}

// VersionString describes the linked libavif, its AV1 codecs and libyuv.
func VersionString() string {
	var codecs [256]C.char
	C.avifCodecVersions(&codecs[0])

	return fmt.Sprintf("libavif: %s. Codecs: %s. libyuv: %d.",
		C.GoString(C.avifVersion()), C.GoString(&codecs[0]), uint(C.avifLibYUVVersion()))
}
