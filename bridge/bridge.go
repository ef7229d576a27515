// Package bridge exposes decode sessions to a host runtime that can only exchange plain
// values: booleans, integer result codes and integer session handles. Failures never cross
// the boundary as errors; they are logged through avif.Logger and reported as a sentinel.
package bridge

import (
	"sync"

	"github.com/DND-IT/avif-decoder"
)

// Handle identifies a session created with CreateDecoder. The zero Handle never refers to a
// session.
type Handle uintptr

// Info is filled by GetInfo.
type Info struct {
	Width        int
	Height       int
	Depth        int
	AlphaPresent bool
}

// DecoderInfo is filled by CreateDecoder.
type DecoderInfo struct {
	Width           int
	Height          int
	Depth           int
	AlphaPresent    bool
	FrameCount      int
	RepetitionCount int
	// FrameDurations holds one duration in seconds per frame.
	FrameDurations []float64
}

type registry struct {
	mu       sync.Mutex
	next     Handle
	sessions map[Handle]*avif.Session
}

var sessions = &registry{sessions: make(map[Handle]*avif.Session)}

func (r *registry) add(s *avif.Session) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	r.sessions[r.next] = s
	return r.next
}

func (r *registry) get(h Handle) (*avif.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[h]
	return s, ok
}

func (r *registry) remove(h Handle) (*avif.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[h]
	delete(r.sessions, h)
	return s, ok
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sessions)
}

// OpenHandles returns the number of handles created and not yet destroyed.
func OpenHandles() int {
	return sessions.len()
}

// threadsFor maps the host's thread count, where 0 means one thread per core.
func threadsFor(n int) avif.Threads {
	if n == 0 {
		return avif.AutoThreads()
	}
	return avif.FixedThreads(n)
}

// span returns the first length bytes of buf.
func span(buf []byte, length int) ([]byte, bool) {
	if length < 0 || length > len(buf) {
		logger := avif.Logger()
		logger.Error().Int("length", length).Int("capacity", len(buf)).Msg("Invalid encoded buffer length.")
		return nil, false
	}
	return buf[:length], true
}

// IsAvifImage reports whether the first length bytes of buf carry an AVIF signature.
func IsAvifImage(buf []byte, length int) bool {
	data, ok := span(buf, length)
	if !ok {
		return false
	}
	return avif.IsCompatible(data)
}

// GetInfo parses the image on a single thread and fills info.
func GetInfo(buf []byte, length int, info *Info) bool {
	data, ok := span(buf, length)
	if !ok {
		return false
	}

	parsed, err := avif.GetInfo(data)
	if err != nil {
		return false
	}

	*info = Info{
		Width:        parsed.Width,
		Height:       parsed.Height,
		Depth:        parsed.Depth,
		AlphaPresent: parsed.AlphaPresent,
	}
	return true
}

// Decode decodes the first frame into target. threads is 0 for one thread per core.
func Decode(buf []byte, length int, target *avif.PixelTarget, threads int) bool {
	data, ok := span(buf, length)
	if !ok {
		return false
	}
	return avif.DecodeOneShot(data, target, avif.WithThreads(threadsFor(threads))) == nil
}

// CreateDecoder parses the image, fills out and returns a handle to the new session, or 0 on
// failure. threads is 0 for one thread per core. A failure to read any frame duration fails
// the whole call.
func CreateDecoder(buf []byte, length int, threads int, out *DecoderInfo) Handle {
	data, ok := span(buf, length)
	if !ok {
		return 0
	}

	s, err := avif.NewSession(data, avif.WithThreads(threadsFor(threads)))
	if err != nil {
		return 0
	}

	durations, err := s.FrameDurations()
	if err != nil {
		s.Close()
		return 0
	}

	info := s.Info()
	*out = DecoderInfo{
		Width:           info.Width,
		Height:          info.Height,
		Depth:           info.Depth,
		AlphaPresent:    info.AlphaPresent,
		FrameCount:      info.FrameCount,
		RepetitionCount: info.RepetitionCount,
		FrameDurations:  durations,
	}
	return sessions.add(s)
}

// NextFrame decodes the next frame into target and returns the result code.
func NextFrame(h Handle, target *avif.PixelTarget) int {
	s, ok := lookup(h)
	if !ok {
		return int(avif.ResultUnknownError)
	}
	return int(avif.ResultOf(s.DecodeNext(target)))
}

// NthFrame decodes frame n into target and returns the result code.
func NthFrame(h Handle, n int, target *avif.PixelTarget) int {
	s, ok := lookup(h)
	if !ok {
		return int(avif.ResultUnknownError)
	}
	if n < 0 {
		logger := avif.Logger()
		logger.Error().Int("frame", n).Msg("Invalid frame index.")
		return int(avif.ResultUnknownError)
	}
	return int(avif.ResultOf(s.DecodeNth(uint32(n), target)))
}

// NextFrameIndex returns the number of frames decoded up to and including the current one.
func NextFrameIndex(h Handle) int {
	s, ok := lookup(h)
	if !ok {
		return 0
	}
	return s.CurrentFrameIndex()
}

// DestroyDecoder closes the session behind h. Unknown and zero handles are ignored.
func DestroyDecoder(h Handle) {
	if s, ok := sessions.remove(h); ok {
		s.Close()
	}
}

// ResultToString describes a result code returned by NextFrame or NthFrame.
func ResultToString(code int) string {
	return avif.Result(code).String()
}

// VersionString describes the linked libavif, its codecs and libyuv.
func VersionString() string {
	return avif.VersionString()
}

func lookup(h Handle) (*avif.Session, bool) {
	s, ok := sessions.get(h)
	if !ok {
		logger := avif.Logger()
		logger.Error().Uint64("handle", uint64(h)).Msg("Unknown decoder handle.")
	}
	return s, ok
}
