package avif

/*
#include <stdlib.h>
#include <avif/avif.h>

// configure_decoder applies the settings shared by every session.
static void configure_decoder(avifDecoder *decoder, int threads, avifCodecChoice codec) {
    decoder->maxThreads = threads;
    decoder->codecChoice = codec;
    // Exif and XMP are never surfaced.
    decoder->ignoreExif = AVIF_TRUE;
    decoder->ignoreXMP = AVIF_TRUE;
    // The 'clap' (clean aperture) property is ignored, so it is not validated either.
    decoder->strictFlags &= ~AVIF_STRICT_CLAP_VALID;
    // Older versions of libheif did not add the 'pixi' property to AV1 image items.
    decoder->strictFlags &= ~AVIF_STRICT_PIXI_REQUIRED;
}

static const char* decoder_diag(avifDecoder *decoder) {
    return decoder->diag.error;
}
*/
import "C"
import (
	"fmt"
	"unsafe"
)

// Repetition counts reported by Info.RepetitionCount besides plain counts.
const (
	RepetitionInfinite = int(C.AVIF_REPETITION_COUNT_INFINITE)
	RepetitionUnknown  = int(C.AVIF_REPETITION_COUNT_UNKNOWN)
)

// Info describes a parsed AVIF file.
type Info struct {
	Width        int
	Height       int
	Depth        int
	AlphaPresent bool
	// FrameCount is 1 for still images.
	FrameCount int
	// RepetitionCount is the number of times an animation repeats after the first play,
	// or RepetitionInfinite / RepetitionUnknown.
	RepetitionCount int

	// MajorBrand and CompatibleBrands come from the file's 'ftyp' box. They are empty when
	// the box cannot be read.
	MajorBrand       string
	CompatibleBrands []string
}

// Session owns one libavif decoder parsed over an encoded AVIF file. Frames are decoded
// one at a time into caller-owned pixel targets.
//
// A Session is not safe for concurrent use. Close must be called to release the
// decoder; calling any other method after Close returns ErrInvalidArgument.
type Session struct {
	decoder *C.avifDecoder
	data    unsafe.Pointer
	info    Info
}

// NewSession parses data and returns a session positioned before the first frame.
// The encoded bytes are copied, so data may be reused once NewSession returns.
func NewSession(data []byte, opts ...Option) (*Session, error) {
	c := newConfig(opts)
	return construct(data, c.threads.Count(), c.codec)
}

// construct creates and parses the decoder. threads is forwarded to libavif as is.
// On failure everything acquired so far is released before returning.
func construct(data []byte, threads int, codec Codec) (*Session, error) {
	if threads < 0 {
		log().Error().Int("threads", threads).Msgf("Invalid value for threads (%d).", threads)
		return nil, newError(ErrInvalidArgument, ResultOK, "", fmt.Sprintf("thread count %d", threads))
	}

	s := &Session{}
	if len(data) > 0 {
		s.data = C.CBytes(data)
	}

	s.decoder = C.avifDecoderCreate()
	if s.decoder == nil {
		s.release()
		log().Error().Msg("Failed to create AVIF Decoder.")
		return nil, newError(ErrAllocationFailed, ResultOK, "", "")
	}
	stats.opened.Add(1)

	C.configure_decoder(s.decoder, C.int(threads), C.avifCodecChoice(codec))

	res := Result(C.avifDecoderSetIOMemory(s.decoder, (*C.uint8_t)(s.data), C.size_t(len(data))))
	if res != ResultOK {
		diag := s.diag()
		s.release()
		log().Error().Int("result", int(res)).Str("diag", diag).Msg("Failed to set AVIF IO to a memory reader.")
		return nil, newError(ErrIOBindFailed, res, diag, "")
	}

	res = Result(C.avifDecoderParse(s.decoder))
	if res != ResultOK {
		diag := s.diag()
		s.release()
		log().Error().Int("result", int(res)).Str("diag", diag).Msgf("Failed to parse AVIF image: %s.", res)
		return nil, newError(ErrParseFailed, res, diag, "")
	}

	img := s.decoder.image
	s.info = Info{
		Width:           int(img.width),
		Height:          int(img.height),
		Depth:           int(img.depth),
		AlphaPresent:    s.decoder.alphaPresent != 0,
		FrameCount:      int(s.decoder.imageCount),
		RepetitionCount: int(s.decoder.repetitionCount),
	}
	s.info.MajorBrand, s.info.CompatibleBrands = readBrands(data)

	return s, nil
}

// Info returns the metadata read while parsing. It does not change for the life of the session.
func (s *Session) Info() Info {
	return s.info
}

// FrameDurations returns the duration in seconds of every frame, in frame order.
// It fails as a whole if the timing of any frame cannot be read.
func (s *Session) FrameDurations() ([]float64, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	durations := make([]float64, s.info.FrameCount)
	for i := range durations {
		var timing C.avifImageTiming
		res := Result(C.avifDecoderNthImageTiming(s.decoder, C.uint32_t(i), &timing))
		if res != ResultOK {
			diag := s.diag()
			log().Error().Int("frame", i).Int("result", int(res)).Str("diag", diag).Msg("Failed to get frame timing.")
			return nil, newError(ErrTimingQueryFailed, res, diag, fmt.Sprintf("frame %d", i))
		}
		durations[i] = float64(timing.duration)
	}

	return durations, nil
}

// DecodeNext decodes the frame after the current one into t. The first call after
// NewSession decodes frame 0. Once every frame has been decoded it fails with
// ErrDecodeFailed and ResultNoImagesRemaining.
//
// A failed decode or a rejected target leaves t untouched. A failed conversion leaves the
// image area of t zeroed.
func (s *Session) DecodeNext(t *PixelTarget) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	res := Result(C.avifDecoderNextImage(s.decoder))
	if res != ResultOK {
		return s.decodeFailed(res, -1)
	}

	return convert(s.decoder.image, t)
}

// DecodeNth decodes frame n into t. libavif replays from the nearest keyframe when needed.
func (s *Session) DecodeNth(n uint32, t *PixelTarget) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	res := Result(C.avifDecoderNthImage(s.decoder, C.uint32_t(n)))
	if res != ResultOK {
		return s.decodeFailed(res, int(n))
	}

	return convert(s.decoder.image, t)
}

// CurrentFrameIndex returns how many frames have been decoded up to and including the current
// one: 0 before the first decode, 1 after decoding frame 0, n+1 after DecodeNth(n).
func (s *Session) CurrentFrameIndex() int {
	if s.decoder == nil {
		return 0
	}
	return int(s.decoder.imageIndex) + 1
}

// Close destroys the decoder and frees the copied input. It is safe to call more than once.
func (s *Session) Close() {
	s.release()
}

func (s *Session) release() {
	if s.decoder != nil {
		C.avifDecoderDestroy(s.decoder)
		s.decoder = nil
		stats.closed.Add(1)
	}
	if s.data != nil {
		C.free(s.data)
		s.data = nil
	}
}

func (s *Session) checkOpen() error {
	if s == nil || s.decoder == nil {
		return newError(ErrInvalidArgument, ResultOK, "", "session is closed")
	}
	return nil
}

func (s *Session) decodeFailed(res Result, frame int) error {
	diag := s.diag()
	log().Error().Int("frame", frame).Int("result", int(res)).Str("diag", diag).
		Msgf("Failed to decode AVIF image. Status: %d", res)
	return newError(ErrDecodeFailed, res, diag, "")
}

func (s *Session) diag() string {
	if s.decoder == nil {
		return ""
	}
	return C.GoString(C.decoder_diag(s.decoder))
}
