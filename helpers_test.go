//go:build cgo

package avif_test

import (
	"bytes"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/DND-IT/avif-decoder"
	"github.com/stretchr/testify/require"
)

var (
	red   = color.RGBA{R: 0xff, A: 0xff}
	green = color.RGBA{G: 0xff, A: 0xff}
	blue  = color.RGBA{B: 0xff, A: 0xff}
)

var lossless = &avif.Options{Speed: 10, Lossless: true}

func solidImage(width, height int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

// encodeStill returns a lossless AVIF of a single solid color.
func encodeStill(t *testing.T, width, height int, c color.RGBA) []byte {
	t.Helper()

	buf := &bytes.Buffer{}
	require.NoError(t, avif.Encode(buf, solidImage(width, height, c), lossless))
	return buf.Bytes()
}

// encodeSequence returns a lossless AVIF sequence with one solid frame per color.
func encodeSequence(t *testing.T, width, height int, colors []color.RGBA, durations []time.Duration) []byte {
	t.Helper()

	frames := make([]image.Image, len(colors))
	for i, c := range colors {
		frames[i] = solidImage(width, height, c)
	}

	buf := &bytes.Buffer{}
	require.NoError(t, avif.EncodeAll(buf, frames, durations, lossless))
	return buf.Bytes()
}

func pixelAt(pix []byte, stride, x, y int) color.RGBA {
	i := y*stride + x*4
	return color.RGBA{R: pix[i], G: pix[i+1], B: pix[i+2], A: pix[i+3]}
}
