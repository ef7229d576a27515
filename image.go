package avif

import (
	"fmt"
	"image"
	"image/color"
	"io"
)

// Animation holds every frame of an AVIF file.
type Animation struct {
	// Image holds the frames in order, as *image.RGBA.
	Image []image.Image
	// Delay holds the duration of each frame, in seconds.
	Delay []float64
	// LoopCount is the repetition count reported by the file.
	LoopCount int
}

// Decode reads an AVIF image from r and returns its first frame as an *image.RGBA.
func Decode(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode AVIF data: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("cannot decode empty data")
	}

	s, err := NewSession(data)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	info := s.Info()
	t := NewPixelTarget(info.Width, info.Height, FormatRGBA8888)
	if err = s.DecodeNext(t); err != nil {
		return nil, err
	}

	return t.Image()
}

// DecodeConfig returns the color model and dimensions of an AVIF image without decoding it.
func DecodeConfig(r io.Reader) (image.Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return image.Config{}, fmt.Errorf("failed get config of AVIF data: %w", err)
	}

	info, err := GetInfo(data)
	if err != nil {
		return image.Config{}, err
	}

	if info.Width == 0 || info.Height == 0 {
		return image.Config{}, fmt.Errorf("invalid image dimensions: %dx%d", info.Width, info.Height)
	}

	return image.Config{
		ColorModel: color.RGBAModel,
		Width:      info.Width,
		Height:     info.Height,
	}, nil
}

// DecodeAll reads every frame of an AVIF file along with the frame durations.
func DecodeAll(r io.Reader) (*Animation, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode AVIF data: %w", err)
	}

	s, err := NewSession(data)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	info := s.Info()
	delay, err := s.FrameDurations()
	if err != nil {
		return nil, err
	}

	anim := &Animation{
		Image:     make([]image.Image, 0, info.FrameCount),
		Delay:     delay,
		LoopCount: info.RepetitionCount,
	}
	for i := 0; i < info.FrameCount; i++ {
		t := NewPixelTarget(info.Width, info.Height, FormatRGBA8888)
		if err = s.DecodeNext(t); err != nil {
			return nil, err
		}
		img, err := t.Image()
		if err != nil {
			return nil, err
		}
		anim.Image = append(anim.Image, img)
	}

	return anim, nil
}

func init() {
	image.RegisterFormat("avif", "????ftypavif", Decode, DecodeConfig)
	image.RegisterFormat("avif", "????ftypavis", Decode, DecodeConfig)
}
