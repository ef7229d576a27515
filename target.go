package avif

import (
	"encoding/binary"
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/x448/float16"
)

// PixelFormat is the memory layout of a PixelTarget.
type PixelFormat int

const (
	// FormatRGBA8888 is packed 8-bit RGBA.
	FormatRGBA8888 PixelFormat = iota + 1
	// FormatRGBAF16 is RGBA with one half-float per channel.
	FormatRGBAF16
	// FormatRGB565 is 16-bit packed RGB, 5 bits red, 6 bits green and 5 bits blue.
	FormatRGB565
)

// BytesPerPixel returns the pixel size, or 0 for an unknown format.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case FormatRGBA8888:
		return 4
	case FormatRGBAF16:
		return 8
	case FormatRGB565:
		return 2
	default:
		return 0
	}
}

func (f PixelFormat) String() string {
	switch f {
	case FormatRGBA8888:
		return "rgba8888"
	case FormatRGBAF16:
		return "rgba_f16"
	case FormatRGB565:
		return "rgb565"
	default:
		return fmt.Sprintf("PixelFormat(%d)", int(f))
	}
}

// ParsePixelFormat parses the names returned by PixelFormat.String.
func ParsePixelFormat(s string) (PixelFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rgba8888", "rgba":
		return FormatRGBA8888, nil
	case "rgba_f16", "f16":
		return FormatRGBAF16, nil
	case "rgb565", "565":
		return FormatRGB565, nil
	default:
		return 0, fmt.Errorf("unknown pixel format %q", s)
	}
}

// PixelTarget is a caller-owned destination buffer. Decoding writes the image into the
// top-left corner of the target; the target is never resized.
//
// Pixels are always written with premultiplied alpha.
type PixelTarget struct {
	Pix    []byte
	Width  int
	Height int
	// Stride is the distance in bytes between two rows.
	Stride int
	Format PixelFormat
}

// NewPixelTarget allocates a tightly packed target.
func NewPixelTarget(width, height int, format PixelFormat) *PixelTarget {
	stride := width * format.BytesPerPixel()
	return &PixelTarget{
		Pix:    make([]byte, stride*height),
		Width:  width,
		Height: height,
		Stride: stride,
		Format: format,
	}
}

// validate checks that an image of width x height fits in the target without touching Pix.
func (t *PixelTarget) validate(width, height int) error {
	if t.Width < width || t.Height < height {
		return newError(ErrTargetTooSmall, ResultOK, "",
			fmt.Sprintf("target %dx%d, image %dx%d", t.Width, t.Height, width, height))
	}

	bpp := t.Format.BytesPerPixel()
	if bpp == 0 {
		return newError(ErrUnsupportedFormat, ResultOK, "", t.Format.String())
	}

	row := width * bpp
	if t.Stride < row {
		return newError(ErrInvalidArgument, ResultOK, "",
			fmt.Sprintf("stride %d is shorter than a row of %d bytes", t.Stride, row))
	}
	if height > 0 && len(t.Pix) < t.Stride*(height-1)+row {
		return newError(ErrInvalidArgument, ResultOK, "",
			fmt.Sprintf("buffer of %d bytes cannot hold %d rows", len(t.Pix), height))
	}

	return nil
}

// zero clears the image area of the target.
func (t *PixelTarget) zero(width, height int) {
	row := width * t.Format.BytesPerPixel()
	for y := 0; y < height; y++ {
		clear(t.Pix[y*t.Stride : y*t.Stride+row])
	}
}

// Image exposes the target as an image.Image. An RGBA8888 target shares its buffer with the
// returned *image.RGBA; the other formats are expanded into a new image.
func (t *PixelTarget) Image() (image.Image, error) {
	if err := t.validate(t.Width, t.Height); err != nil {
		return nil, err
	}

	rect := image.Rect(0, 0, t.Width, t.Height)

	switch t.Format {
	case FormatRGBA8888:
		return &image.RGBA{Pix: t.Pix, Stride: t.Stride, Rect: rect}, nil

	case FormatRGBAF16:
		img := image.NewRGBA64(rect)
		for y := 0; y < t.Height; y++ {
			src := t.Pix[y*t.Stride:]
			dst := img.Pix[y*img.Stride:]
			for i := 0; i < t.Width*4; i++ {
				v := halfToUint16(binary.NativeEndian.Uint16(src[i*2:]))
				dst[i*2] = uint8(v >> 8)
				dst[i*2+1] = uint8(v)
			}
		}
		return img, nil

	default:
		img := image.NewRGBA(rect)
		for y := 0; y < t.Height; y++ {
			src := t.Pix[y*t.Stride:]
			dst := img.Pix[y*img.Stride:]
			for x := 0; x < t.Width; x++ {
				v := binary.NativeEndian.Uint16(src[x*2:])
				r, g, b := uint8(v>>11), uint8(v>>5&0x3f), uint8(v&0x1f)
				dst[x*4] = r<<3 | r>>2
				dst[x*4+1] = g<<2 | g>>4
				dst[x*4+2] = b<<3 | b>>2
				dst[x*4+3] = 0xff
			}
		}
		return img, nil
	}
}

// halfToUint16 maps a half-float channel in [0, 1] onto the full 16-bit range.
func halfToUint16(bits uint16) uint16 {
	f := float16.Frombits(bits).Float32()
	switch {
	case math.IsNaN(float64(f)) || f <= 0:
		return 0
	case f >= 1:
		return 0xffff
	default:
		return uint16(f*0xffff + 0.5)
	}
}
