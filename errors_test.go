//go:build cgo

package avif_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/DND-IT/avif-decoder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	_, err := avif.NewSession([]byte("not a valid AVIF file"))
	require.Error(t, err)

	var avifErr *avif.Error
	require.True(t, errors.As(err, &avifErr))

	assert.Equal(t, avif.ErrParseFailed, avifErr.Err)
	assert.Contains(t, err.Error(), "avif: failed to parse AVIF data: ")
	assert.Contains(t, err.Error(), avifErr.Result.String())

	wrapped := fmt.Errorf("loading thumbnail: %w", err)
	assert.ErrorIs(t, wrapped, avif.ErrParseFailed)
	assert.NotErrorIs(t, wrapped, avif.ErrDecodeFailed)
}

func TestResultOf(t *testing.T) {
	data := encodeStill(t, 4, 4, red)

	tests := []struct {
		name string
		err  error
		want avif.Result
	}{
		{"nil", nil, avif.ResultOK},
		{"foreign error", errors.New("boom"), avif.ResultUnknownError},
		{"target too small", avif.DecodeOneShot(data, avif.NewPixelTarget(1, 1, avif.FormatRGBA8888)), avif.ResultUnknownError},
		{"unsupported format", avif.DecodeOneShot(data, &avif.PixelTarget{Pix: make([]byte, 64), Width: 4, Height: 4, Stride: 16, Format: avif.PixelFormat(7)}), avif.ResultNotImplemented},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, avif.ResultOf(tt.err))
		})
	}

	t.Run("native code", func(t *testing.T) {
		_, err := avif.NewSession([]byte("not a valid AVIF file"))

		var avifErr *avif.Error
		require.True(t, errors.As(err, &avifErr))
		assert.Equal(t, avifErr.Result, avif.ResultOf(err))
	})
}
