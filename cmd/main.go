package main

import (
	"context"
	"fmt"
	"image"
	"os"
	"strings"
	"time"

	"github.com/DND-IT/avif-decoder"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
)

func main() {
	var configPath string
	var verbose bool

	var speed uint
	var alphaQuality uint
	var colorQuality uint

	var threadCount int
	var codec string
	var format string
	var frame int

	threadsFlag := func() cli.Flag {
		return &cli.IntFlag{
			Name:        "threads",
			Aliases:     []string{"t"},
			Usage:       "decoder threads; 0 uses one thread per CPU core.",
			Value:       0,
			DefaultText: "0",
			Destination: &threadCount,
		}
	}

	codecFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:        "codec",
			Usage:       "AV1 decoder used by libavif: auto, dav1d, aom or libgav1.",
			Value:       "auto",
			Destination: &codec,
		}
	}

	// settings merges the config file with the flags set on the command line.
	settings := func(command *cli.Command) (Config, error) {
		cfg, err := LoadConfig(configPath)
		if err != nil {
			return cfg, err
		}

		if command.IsSet("threads") {
			cfg.Threads = threadCount
		}
		if command.IsSet("codec") {
			cfg.Codec = codec
		}
		if command.IsSet("format") {
			cfg.Format = format
		}
		if command.IsSet("frame") {
			cfg.Frame = frame
		}
		if command.IsSet("speed") {
			cfg.Speed = speed
		}
		if command.IsSet("alpha-quality") {
			cfg.AlphaQuality = alphaQuality
		}
		if command.IsSet("color-quality") {
			cfg.ColorQuality = colorQuality
		}
		if verbose {
			cfg.Verbose = true
		}

		if err = cfg.validate(); err != nil {
			return cfg, err
		}
		if cfg.Verbose {
			avif.SetLogger(zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger())
		}

		return cfg, nil
	}

	cmd := &cli.Command{
		Name:            "avif",
		Usage:           "a tool to encode, decode & inspect AVIF images",
		UsageText:       "avif <enc|dec|info|frames|version> <input> [output]",
		Version:         "<version>",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "YAML file with default settings; flags take precedence.",
				Destination: &configPath,
			},
			&cli.BoolFlag{
				Name:        "verbose",
				Aliases:     []string{"v"},
				Usage:       "log decoder diagnostics to stderr.",
				Destination: &verbose,
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "encode",
				Aliases:   []string{"enc"},
				Usage:     "encode an image to AVIF",
				UsageText: "avif enc <input> <output>",
				Flags: []cli.Flag{
					&cli.UintFlag{
						Name:        "speed",
						Aliases:     []string{"s"},
						Usage:       "encoding speed between 0-10; higher values result in faster encoding but lower quality.",
						Value:       6,
						DefaultText: "6",
						Destination: &speed,
					},
					&cli.UintFlag{
						Name:        "alpha-quality",
						Aliases:     []string{"a"},
						Usage:       "alpha quality between 0-100; higher values result in better quality.",
						Value:       60,
						DefaultText: "60",
						Destination: &alphaQuality,
					},
					&cli.UintFlag{
						Name:        "color-quality",
						Aliases:     []string{"q"},
						Usage:       "color quality between 0-100; higher values result in better quality.",
						Value:       60,
						DefaultText: "60",
						Destination: &colorQuality,
					},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					input, output, err := inputOutput(command)
					if err != nil {
						return err
					}

					cfg, err := settings(command)
					if err != nil {
						return err
					}

					options := &avif.Options{
						Speed:        int(cfg.Speed),
						AlphaQuality: int(cfg.AlphaQuality),
						ColorQuality: int(cfg.ColorQuality),
					}

					now := time.Now()
					img, info, err := encodeAvif(input, output, options)
					duration := time.Since(now)

					if err == nil {
						printResult(img, info, duration, true)
					}

					return err
				},
			},
			{
				Name:      "decode",
				Aliases:   []string{"dec"},
				Usage:     "decode an AVIF image to PNG, BMP or TIFF",
				UsageText: "avif dec <input> <output.png|.bmp|.tiff>",
				Flags: []cli.Flag{
					threadsFlag(),
					codecFlag(),
					&cli.StringFlag{
						Name:        "format",
						Aliases:     []string{"f"},
						Usage:       "pixel format used for decoding: rgba8888, rgba_f16 or rgb565.",
						Value:       "rgba8888",
						Destination: &format,
					},
					&cli.IntFlag{
						Name:        "frame",
						Aliases:     []string{"n"},
						Usage:       "index of the frame to decode.",
						Value:       0,
						Destination: &frame,
					},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					input, output, err := inputOutput(command)
					if err != nil {
						return err
					}

					cfg, err := settings(command)
					if err != nil {
						return err
					}

					now := time.Now()
					img, info, err := decodeAvif(input, output, cfg)
					duration := time.Since(now)

					if err == nil {
						printResult(img, info, duration, false)
					}

					return err
				},
			},
			{
				Name:      "info",
				Usage:     "print the metadata of an AVIF image",
				UsageText: "avif info <input>",
				Action: func(ctx context.Context, command *cli.Command) error {
					input := command.Args().First()
					if len(input) == 0 {
						return fmt.Errorf("missing input file")
					}

					if _, err := settings(command); err != nil {
						return err
					}

					return printInfo(input)
				},
			},
			{
				Name:      "frames",
				Usage:     "decode every frame of an AVIF image to PNG files",
				UsageText: "avif frames <input> <directory>",
				Flags:     []cli.Flag{threadsFlag(), codecFlag()},
				Action: func(ctx context.Context, command *cli.Command) error {
					input, dir, err := inputOutput(command)
					if err != nil {
						return err
					}

					cfg, err := settings(command)
					if err != nil {
						return err
					}

					now := time.Now()
					names, err := extractFrames(input, dir, cfg)
					duration := time.Since(now)

					if err == nil {
						msg := fmt.Sprintf("Successfully decoded %d frame(s) to %s in %s",
							len(names), dir, duration.Truncate(time.Millisecond))
						printStyled(green, "✅", msg)
					}

					return err
				},
			},
			{
				Name:  "version",
				Usage: "print the versions of libavif and its codecs",
				Action: func(ctx context.Context, command *cli.Command) error {
					fmt.Println(avif.VersionString())
					return nil
				},
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			return fmt.Errorf("one of the commands <encode>, <decode>, <info>, <frames> or <version> must be used")
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		printStyled(red, "🧨", err.Error())
		os.Exit(1)
	}
}

func inputOutput(command *cli.Command) (string, string, error) {
	input := command.Args().Get(0)
	output := command.Args().Get(1)

	if len(input) == 0 {
		return "", "", fmt.Errorf("missing input file")
	}

	if len(output) == 0 {
		return "", "", fmt.Errorf("missing output file")
	}

	return input, output, nil
}

func printResult(img image.Image, info os.FileInfo, duration time.Duration, isEncode bool) {
	cmd := "decoded"
	if isEncode {
		cmd = "encoded"
	}

	msg := fmt.Sprintf("Successfully %s image to %s in %s",
		cmd, info.Name(), duration.Truncate(time.Millisecond))
	printStyled(green, "✅", msg)

	msg = fmt.Sprintf("Image dimensions: %dx%d; size: %d bytes",
		img.Bounds().Dx(), img.Bounds().Dy(), info.Size())
	printStyled(yellow, "🖼", msg)
}

func printInfo(input string) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	if !avif.IsCompatible(data) {
		return fmt.Errorf("%s is not an AVIF file", input)
	}

	s, err := avif.NewSession(data, avif.WithThreads(avif.FixedThreads(1)))
	if err != nil {
		return err
	}
	defer s.Close()

	durations, err := s.FrameDurations()
	if err != nil {
		return err
	}

	info := s.Info()
	printStyled(green, "🖼", fmt.Sprintf("%s: %dx%d, %d-bit, alpha: %t",
		input, info.Width, info.Height, info.Depth, info.AlphaPresent))
	printStyled(yellow, "📦", fmt.Sprintf("Brands: %s [%s]",
		info.MajorBrand, strings.Join(info.CompatibleBrands, ", ")))

	if info.FrameCount > 1 {
		var total float64
		for _, d := range durations {
			total += d
		}
		printStyled(yellow, "🎞", fmt.Sprintf("Frames: %d; duration: %.3fs; repetitions: %s",
			info.FrameCount, total, repetitions(info.RepetitionCount)))
		for i, d := range durations {
			printStyled(gray, " ", fmt.Sprintf("frame %d: %.3fs", i, d))
		}
	}

	return nil
}

func repetitions(n int) string {
	switch n {
	case avif.RepetitionInfinite:
		return "infinite"
	case avif.RepetitionUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("%d", n)
	}
}
