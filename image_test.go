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

func TestDecode(t *testing.T) {
	data := encodeStill(t, 12, 8, green)

	t.Run("valid AVIF data", func(t *testing.T) {
		img, err := avif.Decode(bytes.NewReader(data))

		require.NoError(t, err)
		assert.Equal(t, 12, img.Bounds().Dx())
		assert.Equal(t, 8, img.Bounds().Dy())
		assert.Equal(t, green, img.(*image.RGBA).RGBAAt(11, 7))
	})

	t.Run("with image package", func(t *testing.T) {
		img, format, err := image.Decode(bytes.NewReader(data))

		assert.NoError(t, err)
		assert.Equal(t, "avif", format)
		assert.NotNil(t, img)
	})

	t.Run("reader error", func(t *testing.T) {
		errReader := &errorReader{err: errors.New("read error")}

		img, err := avif.Decode(errReader)

		assert.Error(t, err)
		assert.Nil(t, img)
		assert.Contains(t, err.Error(), "failed to decode AVIF data")
	})

	t.Run("invalid data", func(t *testing.T) {
		img, err := avif.Decode(bytes.NewReader([]byte("not a valid AVIF file")))

		assert.Error(t, err)
		assert.Nil(t, img)
	})

	t.Run("empty data", func(t *testing.T) {
		img, err := avif.Decode(bytes.NewReader([]byte{}))

		assert.Error(t, err)
		assert.Nil(t, img)
	})

	t.Run("consistency with DecodeConfig", func(t *testing.T) {
		config, err := avif.DecodeConfig(bytes.NewReader(data))
		require.NoError(t, err)

		img, err := avif.Decode(bytes.NewReader(data))
		require.NoError(t, err)

		assert.Equal(t, config.Width, img.Bounds().Dx())
		assert.Equal(t, config.Height, img.Bounds().Dy())
	})
}

func TestDecodeConfig(t *testing.T) {
	t.Run("with image package", func(t *testing.T) {
		config, format, err := image.DecodeConfig(bytes.NewReader(encodeStill(t, 6, 2, red)))

		assert.NoError(t, err)
		assert.Equal(t, "avif", format)
		assert.Equal(t, 6, config.Width)
		assert.Equal(t, 2, config.Height)
		assert.Equal(t, color.RGBAModel, config.ColorModel)
	})

	t.Run("reader error", func(t *testing.T) {
		errReader := &errorReader{err: errors.New("read error")}

		config, err := avif.DecodeConfig(errReader)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed get config of AVIF data")
		assert.Equal(t, 0, config.Width)
		assert.Equal(t, 0, config.Height)
	})

	t.Run("invalid data", func(t *testing.T) {
		config, err := avif.DecodeConfig(bytes.NewReader([]byte("not a valid AVIF file")))

		assert.Error(t, err)
		assert.Equal(t, 0, config.Width)
		assert.Equal(t, 0, config.Height)
	})
}

func TestDecodeAll(t *testing.T) {
	t.Run("sequence", func(t *testing.T) {
		durations := []time.Duration{50 * time.Millisecond, 150 * time.Millisecond, 300 * time.Millisecond}
		data := encodeSequence(t, 4, 4, []color.RGBA{red, green, blue}, durations)

		anim, err := avif.DecodeAll(bytes.NewReader(data))
		require.NoError(t, err)

		require.Len(t, anim.Image, 3)
		require.Len(t, anim.Delay, 3)
		assert.Equal(t, avif.RepetitionInfinite, anim.LoopCount)
		for i, want := range []color.RGBA{red, green, blue} {
			assert.Equal(t, want, anim.Image[i].(*image.RGBA).RGBAAt(2, 2), "frame %d", i)
			assert.InDelta(t, durations[i].Seconds(), anim.Delay[i], 0.001)
		}
	})

	t.Run("invalid data", func(t *testing.T) {
		anim, err := avif.DecodeAll(bytes.NewReader([]byte("not a valid AVIF file")))

		assert.ErrorIs(t, err, avif.ErrParseFailed)
		assert.Nil(t, anim)
	})
}

// errorReader is a helper type that always returns an error on Read
type errorReader struct {
	err error
}

func (e *errorReader) Read(p []byte) (n int, err error) {
	return 0, e.err
}
