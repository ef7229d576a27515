package avif

/*
#include <avif/avif.h>
*/
import "C"

import (
	"runtime"
	"unsafe"
)

// convert writes a decoded image into the target in the target's pixel format.
// Validation failures leave the target untouched. A failed native conversion zeroes the
// image area so that a half-written frame is never observed.
func convert(img *C.avifImage, t *PixelTarget) error {
	if t == nil {
		return newError(ErrInvalidArgument, ResultOK, "", "nil pixel target")
	}

	width, height := int(img.width), int(img.height)
	if err := t.validate(width, height); err != nil {
		log().Error().Err(err).
			Int("target_width", t.Width).
			Int("target_height", t.Height).
			Int("image_width", width).
			Int("image_height", height).
			Stringer("format", t.Format).
			Msg("Pixel target rejected")
		return err
	}

	var rgb C.avifRGBImage
	C.avifRGBImageSetDefaults(&rgb, img)
	switch t.Format {
	case FormatRGBAF16:
		rgb.depth = 16
		rgb.isFloat = C.AVIF_TRUE
	case FormatRGB565:
		rgb.format = C.AVIF_RGB_FORMAT_RGB_565
		rgb.depth = 8
	default:
		rgb.depth = 8
	}
	rgb.rowBytes = C.uint32_t(t.Stride)
	rgb.alphaPremultiplied = C.AVIF_TRUE

	// rgb lives in Go memory and carries the pixel pointer into C.
	var pinner runtime.Pinner
	defer pinner.Unpin()
	pinner.Pin(&t.Pix[0])
	rgb.pixels = (*C.uint8_t)(unsafe.Pointer(&t.Pix[0]))

	res := Result(C.avifImageYUVToRGB(img, &rgb))
	if res != ResultOK {
		t.zero(width, height)
		log().Error().Int("result", int(res)).Stringer("format", t.Format).
			Msgf("Failed to convert YUV Pixels to RGB. Status: %d", res)
		return newError(ErrConversionFailed, res, "", "")
	}

	return nil
}

// convertUnallocated runs convert on a width x height image whose planes were never
// allocated. libavif refuses to reformat such an image.
func convertUnallocated(width, height int, t *PixelTarget) error {
	img := C.avifImageCreate(C.uint32_t(width), C.uint32_t(height), 8, C.AVIF_PIXEL_FORMAT_YUV444)
	if img == nil {
		return newError(ErrAllocationFailed, ResultOK, "", "image")
	}
	defer C.avifImageDestroy(img)

	return convert(img, t)
}
