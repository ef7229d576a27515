package main

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/DND-IT/avif-decoder"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

func encodeAvif(input, output string, options *avif.Options) (image.Image, os.FileInfo, error) {
	inFile, err := os.Open(input)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer inFile.Close()

	img, _, err := image.Decode(inFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode input image: %w", err)
	}

	outFile, err := os.Create(output)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	defer outFile.Close()

	if err = avif.Encode(outFile, img, options); err != nil {
		return nil, nil, err
	}

	info, err := outFile.Stat()
	return img, info, err
}

func decodeAvif(input, output string, cfg Config) (image.Image, os.FileInfo, error) {
	format, err := avif.ParsePixelFormat(cfg.Format)
	if err != nil {
		return nil, nil, err
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read input file: %w", err)
	}

	s, err := avif.NewSession(data, sessionOptions(cfg)...)
	if err != nil {
		return nil, nil, err
	}
	defer s.Close()

	info := s.Info()
	if cfg.Frame >= info.FrameCount {
		return nil, nil, fmt.Errorf("frame %d does not exist; the image has %d frame(s)", cfg.Frame, info.FrameCount)
	}

	target := avif.NewPixelTarget(info.Width, info.Height, format)
	if err = s.DecodeNth(uint32(cfg.Frame), target); err != nil {
		return nil, nil, err
	}

	img, err := target.Image()
	if err != nil {
		return nil, nil, err
	}

	fileInfo, err := writeImage(output, img)
	return img, fileInfo, err
}

// extractFrames writes every frame of input as a PNG file in dir and returns the file names.
func extractFrames(input, dir string, cfg Config) ([]string, error) {
	data, err := os.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}

	s, err := avif.NewSession(data, sessionOptions(cfg)...)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	if err = os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	info := s.Info()
	target := avif.NewPixelTarget(info.Width, info.Height, avif.FormatRGBA8888)
	names := make([]string, 0, info.FrameCount)

	for i := 0; i < info.FrameCount; i++ {
		if err = s.DecodeNext(target); err != nil {
			return names, err
		}

		img, err := target.Image()
		if err != nil {
			return names, err
		}

		name := filepath.Join(dir, fmt.Sprintf("frame-%04d.png", i))
		if _, err = writeImage(name, img); err != nil {
			return names, err
		}
		names = append(names, name)
	}

	return names, nil
}

// writeImage picks the output encoder from the file extension.
func writeImage(path string, img image.Image) (os.FileInfo, error) {
	var encode func(w io.Writer, m image.Image) error

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		encode = png.Encode
	case ".bmp":
		encode = bmp.Encode
	case ".tif", ".tiff":
		encode = func(w io.Writer, m image.Image) error {
			return tiff.Encode(w, m, &tiff.Options{Compression: tiff.Deflate})
		}
	default:
		return nil, fmt.Errorf("unsupported output format %q", ext)
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err = encode(file, img); err != nil {
		return nil, err
	}

	return file.Stat()
}

// sessionOptions expects a validated config; an unknown codec falls back to auto.
func sessionOptions(cfg Config) []avif.Option {
	codec, _ := avif.ParseCodec(cfg.Codec)
	return []avif.Option{avif.WithThreads(threads(cfg)), avif.WithCodec(codec)}
}

func threads(cfg Config) avif.Threads {
	if cfg.Threads == 0 {
		return avif.AutoThreads()
	}
	return avif.FixedThreads(cfg.Threads)
}
