package avif

/*
#include <avif/avif.h>
*/
import "C"

import (
	"fmt"
	"runtime"
	"strings"
)

// Threads selects how many worker threads libavif may use for a session.
// The zero value is AutoThreads.
type Threads struct {
	n     int
	fixed bool
}

// AutoThreads uses one thread per CPU core reported by the runtime.
func AutoThreads() Threads {
	return Threads{}
}

// FixedThreads uses exactly n threads. Negative values are rejected when the session is created.
func FixedThreads(n int) Threads {
	return Threads{n: n, fixed: true}
}

// IsAuto reports whether the thread count is detected from the host.
func (t Threads) IsAuto() bool {
	return !t.fixed
}

// Count resolves the thread count that is handed to libavif.
func (t Threads) Count() int {
	if t.fixed {
		return t.n
	}
	return runtime.NumCPU()
}

func (t Threads) String() string {
	if t.fixed {
		return fmt.Sprintf("%d", t.n)
	}
	return fmt.Sprintf("auto(%d)", runtime.NumCPU())
}

// Codec selects the AV1 decoder libavif uses.
type Codec int

const (
	CodecAuto  Codec = C.AVIF_CODEC_CHOICE_AUTO
	CodecDav1d Codec = C.AVIF_CODEC_CHOICE_DAV1D
	CodecAOM   Codec = C.AVIF_CODEC_CHOICE_AOM
	CodecGav1  Codec = C.AVIF_CODEC_CHOICE_LIBGAV1
)

var codecNames = map[Codec]string{
	CodecAuto:  "auto",
	CodecDav1d: "dav1d",
	CodecAOM:   "aom",
	CodecGav1:  "libgav1",
}

func (c Codec) String() string {
	if name, ok := codecNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Codec(%d)", int(c))
}

// Available reports whether libavif was built with a decoder for this choice.
// For CodecAuto it reports whether any AV1 decoder is present.
func (c Codec) Available() bool {
	return C.avifCodecName(C.avifCodecChoice(c), C.AVIF_CODEC_FLAG_CAN_DECODE) != nil
}

// ParseCodec returns the codec named by s, as printed by Codec.String.
func ParseCodec(s string) (Codec, error) {
	for codec, name := range codecNames {
		if strings.EqualFold(s, name) {
			return codec, nil
		}
	}
	return CodecAuto, fmt.Errorf("unknown codec %q", s)
}

type config struct {
	threads Threads
	codec   Codec
}

// Option configures a session.
type Option func(*config)

// WithThreads sets the decoder thread count. Sessions default to AutoThreads.
func WithThreads(t Threads) Option {
	return func(c *config) {
		c.threads = t
	}
}

// WithCodec forces a specific AV1 decoder. Sessions default to CodecAuto.
func WithCodec(codec Codec) Option {
	return func(c *config) {
		c.codec = codec
	}
}

func newConfig(opts []Option) config {
	c := config{threads: AutoThreads(), codec: CodecAuto}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
