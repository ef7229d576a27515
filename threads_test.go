//go:build cgo

package avif_test

import (
	"runtime"
	"testing"

	"github.com/DND-IT/avif-decoder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThreads(t *testing.T) {
	t.Run("zero value is auto", func(t *testing.T) {
		var threads avif.Threads

		assert.True(t, threads.IsAuto())
		assert.Equal(t, runtime.NumCPU(), threads.Count())
	})

	t.Run("auto", func(t *testing.T) {
		assert.True(t, avif.AutoThreads().IsAuto())
		assert.Equal(t, runtime.NumCPU(), avif.AutoThreads().Count())
	})

	t.Run("fixed", func(t *testing.T) {
		tests := []int{0, 1, 3, -1}

		for _, n := range tests {
			threads := avif.FixedThreads(n)

			assert.False(t, threads.IsAuto())
			assert.Equal(t, n, threads.Count())
		}
	})

	t.Run("string", func(t *testing.T) {
		assert.Equal(t, "4", avif.FixedThreads(4).String())
		assert.Contains(t, avif.AutoThreads().String(), "auto(")
	})
}

func TestCodec(t *testing.T) {
	t.Run("parse", func(t *testing.T) {
		tests := []struct {
			name string
			want avif.Codec
		}{
			{"auto", avif.CodecAuto},
			{"dav1d", avif.CodecDav1d},
			{"AOM", avif.CodecAOM},
			{"libgav1", avif.CodecGav1},
		}

		for _, tt := range tests {
			codec, err := avif.ParseCodec(tt.name)

			require.NoError(t, err)
			assert.Equal(t, tt.want, codec)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := avif.ParseCodec("rav1e")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), `unknown codec "rav1e"`)
	})

	t.Run("string", func(t *testing.T) {
		assert.Equal(t, "dav1d", avif.CodecDav1d.String())
		assert.Equal(t, "Codec(99)", avif.Codec(99).String())
	})

	t.Run("auto is available", func(t *testing.T) {
		assert.True(t, avif.CodecAuto.Available())
	})
}
