package avif

/*
#include <avif/avif.h>
*/
import "C"

import (
	"errors"
)

// Result is a libavif result code (avifResult).
type Result int

const (
	ResultOK                Result = C.AVIF_RESULT_OK
	ResultUnknownError      Result = C.AVIF_RESULT_UNKNOWN_ERROR
	ResultNotImplemented    Result = C.AVIF_RESULT_NOT_IMPLEMENTED
	ResultNoImagesRemaining Result = C.AVIF_RESULT_NO_IMAGES_REMAINING
	ResultNoCodecAvailable  Result = C.AVIF_RESULT_NO_CODEC_AVAILABLE
)

// String returns libavif's description of the result code.
func (r Result) String() string {
	return C.GoString(C.avifResultToString(C.avifResult(r)))
}

var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrAllocationFailed  = errors.New("failed to create AVIF decoder")
	ErrIOBindFailed      = errors.New("failed to set AVIF IO to a memory reader")
	ErrParseFailed       = errors.New("failed to parse AVIF data")
	ErrDecodeFailed      = errors.New("failed to decode AVIF image")
	ErrTimingQueryFailed = errors.New("failed to get AVIF frame timing")
	ErrTargetTooSmall    = errors.New("pixel target is not large enough to fit the image")
	ErrUnsupportedFormat = errors.New("pixel target format is not supported")
	ErrConversionFailed  = errors.New("failed to convert YUV pixels to RGB")
)

// errorKinds holds the metric label of every sentinel.
var errorKinds = map[error]string{
	ErrInvalidArgument:   "invalid_argument",
	ErrAllocationFailed:  "allocation_failed",
	ErrIOBindFailed:      "io_bind_failed",
	ErrParseFailed:       "parse_failed",
	ErrDecodeFailed:      "decode_failed",
	ErrTimingQueryFailed: "timing_query_failed",
	ErrTargetTooSmall:    "target_too_small",
	ErrUnsupportedFormat: "unsupported_format",
	ErrConversionFailed:  "conversion_failed",
}

// Error is returned by every failing operation of the package. Err is one of the
// Err* sentinels, so callers can test for the failure kind with errors.Is.
type Error struct {
	Err error
	// Result is the native code behind the failure, or ResultOK when the failure
	// was detected before reaching libavif.
	Result Result
	// Diag is libavif's diagnostic message, if it left one.
	Diag string
	// Detail carries extra context for failures detected on the Go side.
	Detail string
}

func (e *Error) Error() string {
	msg := "avif: " + e.Err.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Result != ResultOK {
		msg += ": " + e.Result.String()
	}
	if e.Diag != "" {
		msg += " (" + e.Diag + ")"
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// newError builds an *Error and counts it against its kind.
func newError(kind error, res Result, diag, detail string) *Error {
	stats.failure(errorKinds[kind])
	return &Error{Err: kind, Result: res, Diag: diag, Detail: detail}
}

// ResultOf maps an error returned by this package to the closest libavif result
// code. Failures that carry no native code map to ResultNotImplemented for an
// unsupported pixel format and ResultUnknownError otherwise.
func ResultOf(err error) Result {
	if err == nil {
		return ResultOK
	}
	var e *Error
	if errors.As(err, &e) && e.Result != ResultOK {
		return e.Result
	}
	if errors.Is(err, ErrUnsupportedFormat) {
		return ResultNotImplemented
	}
	return ResultUnknownError
}
