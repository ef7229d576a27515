package avif

/*
#include <avif/avif.h>
*/
import "C"
import (
	"fmt"
	"image"
	"image/draw"
	"io"
	"runtime"
	"time"
	"unsafe"
)

// defaultFrameDuration is used for frames whose duration is not given to EncodeAll.
const defaultFrameDuration = 100 * time.Millisecond

// Options configures the encoder.
type Options struct {
	// Speed ranges from 0 (slowest, best quality) to 10 (fastest, lower quality).
	Speed int
	// AlphaQuality ranges from 0 (worst) to 100 (lossless).
	AlphaQuality int
	// ColorQuality ranges from 0 (worst) to 100 (lossless).
	ColorQuality int
	// Lossless stores the pixels exactly: 4:4:4 chroma, identity matrix and full range.
	// The quality settings are ignored.
	Lossless bool
}

func defaultOptions() Options {
	return Options{Speed: 6, AlphaQuality: 60, ColorQuality: 60}
}

func (o Options) validate() error {
	if o.Speed < 0 || o.Speed > 10 {
		return fmt.Errorf("speed must be between 0 and 10")
	}
	if o.AlphaQuality < 0 || o.AlphaQuality > 100 {
		return fmt.Errorf("alpha quality must be between 0 and 100")
	}
	if o.ColorQuality < 0 || o.ColorQuality > 100 {
		return fmt.Errorf("color quality must be between 0 and 100")
	}
	return nil
}

// Encode writes m to w as a still AVIF image. A nil options uses the defaults.
func Encode(w io.Writer, m image.Image, options *Options) error {
	return EncodeAll(w, []image.Image{m}, nil, options)
}

// EncodeAll writes frames to w as an AVIF image sequence that loops forever. durations may be
// shorter than frames or nil; missing durations default to 100ms. A single frame is written
// as a still image.
func EncodeAll(w io.Writer, frames []image.Image, durations []time.Duration, options *Options) error {
	o := defaultOptions()
	if options != nil {
		o = *options
	}
	if err := o.validate(); err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no frames to encode")
	}

	for i, d := range durations {
		if d < 0 {
			return fmt.Errorf("frame %d has a negative duration: %s", i, d)
		}
	}

	rgbaFrames := make([]*image.RGBA, len(frames))
	for i, frame := range frames {
		rgbaFrames[i] = toRGBA(frame)
		if i > 0 && rgbaFrames[i].Rect != rgbaFrames[0].Rect {
			return fmt.Errorf("frame %d is %dx%d, expected %dx%d", i,
				rgbaFrames[i].Rect.Dx(), rgbaFrames[i].Rect.Dy(), rgbaFrames[0].Rect.Dx(), rgbaFrames[0].Rect.Dy())
		}
	}

	data, err := encodeAVIF(rgbaFrames, durations, o)
	if err != nil {
		return err
	}

	if _, err = w.Write(data); err != nil {
		return fmt.Errorf("failed to write AVIF image: %w", err)
	}
	return nil
}

func toRGBA(m image.Image) *image.RGBA {
	if rgba, ok := m.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := m.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Rect, m, b.Min, draw.Src)
	return rgba
}

// encodeAVIF encodes one or more equally sized frames. Durations are stored in milliseconds.
func encodeAVIF(frames []*image.RGBA, durations []time.Duration, options Options) ([]byte, error) {
	width, height := frames[0].Rect.Dx(), frames[0].Rect.Dy()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("invalid image dimensions: %dx%d", width, height)
	}

	encoder := C.avifEncoderCreate()
	if encoder == nil {
		return nil, fmt.Errorf("failed to create AVIF encoder")
	}
	defer C.avifEncoderDestroy(encoder)

	encoder.speed = C.int(options.Speed)
	encoder.quality = C.int(options.ColorQuality)
	encoder.qualityAlpha = C.int(options.AlphaQuality)
	if options.Lossless {
		encoder.quality = C.AVIF_QUALITY_LOSSLESS
		encoder.qualityAlpha = C.AVIF_QUALITY_LOSSLESS
	}
	encoder.timescale = 1000

	flags := C.avifAddImageFlags(C.AVIF_ADD_IMAGE_FLAG_NONE)
	if len(frames) == 1 {
		flags = C.AVIF_ADD_IMAGE_FLAG_SINGLE
	} else {
		encoder.repetitionCount = C.AVIF_REPETITION_COUNT_INFINITE
	}

	for i, frame := range frames {
		duration := defaultFrameDuration
		if i < len(durations) {
			duration = durations[i]
		}

		avifImage, err := newAVIFImage(frame, options.Lossless)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}

		result := C.avifEncoderAddImage(encoder, avifImage, C.uint64_t(duration.Milliseconds()), flags)
		C.avifImageDestroy(avifImage)
		if result != C.AVIF_RESULT_OK {
			return nil, fmt.Errorf("failed to add frame %d: %s", i, Result(result))
		}
	}

	var encodedData C.avifRWData
	result := C.avifEncoderFinish(encoder, &encodedData)
	if result != C.AVIF_RESULT_OK {
		return nil, fmt.Errorf("failed to finish encoding: %s", Result(result))
	}
	defer C.avifRWDataFree(&encodedData)

	return C.GoBytes(unsafe.Pointer(encodedData.data), C.int(encodedData.size)), nil
}

// newAVIFImage converts premultiplied RGBA pixels to a YUV avifImage owned by the caller.
func newAVIFImage(rgba *image.RGBA, lossless bool) (*C.avifImage, error) {
	width, height := rgba.Rect.Dx(), rgba.Rect.Dy()

	yuvFormat := C.avifPixelFormat(C.AVIF_PIXEL_FORMAT_YUV420)
	if lossless {
		yuvFormat = C.AVIF_PIXEL_FORMAT_YUV444
	}

	avifImage := C.avifImageCreate(C.uint32_t(width), C.uint32_t(height), 8, yuvFormat)
	if avifImage == nil {
		return nil, fmt.Errorf("failed to create AVIF image")
	}
	if lossless {
		avifImage.matrixCoefficients = C.AVIF_MATRIX_COEFFICIENTS_IDENTITY
		avifImage.yuvRange = C.AVIF_RANGE_FULL
	}

	var rgb C.avifRGBImage
	C.avifRGBImageSetDefaults(&rgb, avifImage)
	rgb.format = C.AVIF_RGB_FORMAT_RGBA
	rgb.depth = 8
	rgb.rowBytes = C.uint32_t(rgba.Stride)
	rgb.alphaPremultiplied = C.AVIF_TRUE

	var pinner runtime.Pinner
	defer pinner.Unpin()
	pinner.Pin(&rgba.Pix[0])
	rgb.pixels = (*C.uint8_t)(unsafe.Pointer(&rgba.Pix[0]))

	result := C.avifImageRGBToYUV(avifImage, &rgb)
	if result != C.AVIF_RESULT_OK {
		C.avifImageDestroy(avifImage)
		return nil, fmt.Errorf("failed to convert RGB to YUV: %s", Result(result))
	}

	return avifImage, nil
}
