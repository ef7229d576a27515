//go:build cgo

package avif_test

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/DND-IT/avif-decoder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_Options(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))

	t.Run("default options", func(t *testing.T) {
		buf := &bytes.Buffer{}
		err := avif.Encode(buf, img, nil)

		assert.NoError(t, err)
		assert.True(t, avif.IsCompatible(buf.Bytes()))
	})

	t.Run("custom options", func(t *testing.T) {
		buf := &bytes.Buffer{}
		options := &avif.Options{
			Speed:        8,
			AlphaQuality: 80,
			ColorQuality: 90,
		}

		err := avif.Encode(buf, img, options)

		assert.NoError(t, err)
		assert.NotEmpty(t, buf.Bytes())
	})
}

func TestEncode_Validation(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	buf := &bytes.Buffer{}

	tests := []struct {
		name    string
		options avif.Options
		wantErr string
	}{
		{"speed -1", avif.Options{Speed: -1, AlphaQuality: 60, ColorQuality: 60}, "speed must be between 0 and 10"},
		{"speed 10", avif.Options{Speed: 10, AlphaQuality: 60, ColorQuality: 60}, ""},
		{"speed 11", avif.Options{Speed: 11, AlphaQuality: 60, ColorQuality: 60}, "speed must be between 0 and 10"},
		{"alpha -1", avif.Options{Speed: 6, AlphaQuality: -1, ColorQuality: 60}, "alpha quality must be between 0 and 100"},
		{"alpha 100", avif.Options{Speed: 6, AlphaQuality: 100, ColorQuality: 60}, ""},
		{"alpha 101", avif.Options{Speed: 6, AlphaQuality: 101, ColorQuality: 60}, "alpha quality must be between 0 and 100"},
		{"color -1", avif.Options{Speed: 6, AlphaQuality: 60, ColorQuality: -1}, "color quality must be between 0 and 100"},
		{"color 0", avif.Options{Speed: 6, AlphaQuality: 60, ColorQuality: 0}, ""},
		{"color 101", avif.Options{Speed: 6, AlphaQuality: 60, ColorQuality: 101}, "color quality must be between 0 and 100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := avif.Encode(buf, img, &tt.options)

			if tt.wantErr != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEncode_ImageConversion(t *testing.T) {
	img := image.NewGray(image.Rect(5, 5, 15, 15))
	for y := 5; y < 15; y++ {
		for x := 5; x < 15; x++ {
			img.Set(x, y, color.Gray{Y: uint8(x * y)})
		}
	}

	buf := &bytes.Buffer{}
	require.NoError(t, avif.Encode(buf, img, nil))

	info, err := avif.GetInfo(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 10, info.Width)
	assert.Equal(t, 10, info.Height)
}

func TestEncodeAll(t *testing.T) {
	t.Run("sequence", func(t *testing.T) {
		frames := []image.Image{solidImage(4, 4, red), solidImage(4, 4, green)}
		buf := &bytes.Buffer{}

		require.NoError(t, avif.EncodeAll(buf, frames, []time.Duration{time.Second}, nil))

		info, err := avif.GetInfo(buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, 2, info.FrameCount)
	})

	t.Run("no frames", func(t *testing.T) {
		err := avif.EncodeAll(&bytes.Buffer{}, nil, nil, nil)

		assert.Error(t, err)
	})

	t.Run("mismatched frames", func(t *testing.T) {
		frames := []image.Image{solidImage(4, 4, red), solidImage(2, 4, green)}

		err := avif.EncodeAll(&bytes.Buffer{}, frames, nil, nil)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "frame 1 is 2x4")
	})

	t.Run("negative duration", func(t *testing.T) {
		frames := []image.Image{solidImage(4, 4, red), solidImage(4, 4, green)}
		buf := &bytes.Buffer{}

		err := avif.EncodeAll(buf, frames, []time.Duration{time.Second, -time.Millisecond}, nil)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "frame 1 has a negative duration")
		assert.Zero(t, buf.Len())
	})

	t.Run("empty image", func(t *testing.T) {
		err := avif.Encode(&bytes.Buffer{}, image.NewRGBA(image.Rect(0, 0, 0, 0)), nil)

		assert.Error(t, err)
	})
}

func TestEncode_Errors(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))

	t.Run("writer error", func(t *testing.T) {
		errWriter := &errorWriter{}
		err := avif.Encode(errWriter, img, nil)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to write AVIF image")
	})
}

// errorWriter is a helper type that always returns an error on Write
type errorWriter struct{}

func (e *errorWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write error")
}
