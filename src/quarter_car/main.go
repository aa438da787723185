// ------------------------------------------------------------
// Quarter Car Suspension over a Semicircular Bump
// ------------------------------------------------------------
// Two-mass (sprung body / unsprung wheel) model driven by the road height
// under a tire moving at constant speed:
//   - Road: 1.1 m flat, 0.1 m radius semicircular bump, 5 m flat
//   - Linear state-space model, first-order-hold discretization
//   - 30 fps at 0.5x playback over 10 s of simulated time (600 frames)
//   - Outputs: frames, mp4 (ffmpeg), displacement chart, CSV log,
//     optional terminal chart
//
// Settings come from quarter_car.json in the -config directory and
// QCAR_* environment variables; flags override both.
//
// Output folders:
//   output/quarter_car/frames/frame_000000.png ... frame_000599.png
//   output/quarter_car/quarter_car.mp4   (if ffmpeg in PATH)
//   output/quarter_car/displacement.png
//   output/quarter_car/quarter_car_log.csv
//   output/quarter_car/quarter_car.log
// ------------------------------------------------------------

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/mohammadijoo/quarter_car_go/internal/config"
	"github.com/mohammadijoo/quarter_car_go/internal/engine"
	"github.com/mohammadijoo/quarter_car_go/internal/logging"
	"github.com/mohammadijoo/quarter_car_go/internal/render"
)

type flags struct {
	configDir string
	outDir    string
	frames    bool
	video     bool
	clamp     bool
	ascii     bool
}

func main() {
	var fl flags
	flag.StringVar(&fl.configDir, "config", ".", "directory holding "+config.FileName)
	flag.StringVar(&fl.outDir, "out", "", "output directory (overrides output.dir)")
	flag.BoolVar(&fl.frames, "frames", true, "render one PNG per frame")
	flag.BoolVar(&fl.video, "video", true, "encode frames to MP4 with ffmpeg")
	flag.BoolVar(&fl.clamp, "clamp", false, "clamp out-of-range parameters instead of refusing them")
	flag.BoolVar(&fl.ascii, "ascii", false, "print the displacement chart to the terminal")
	flag.Parse()

	cfg, err := config.Load(fl.configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	// flags win over file and environment only when given
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "out":
			cfg.Output.Dir = fl.outDir
		case "frames":
			cfg.Output.Frames = fl.frames
		case "video":
			cfg.Output.Video = fl.video
		}
	})

	// ----------------------------
	// Output folders and logging
	// ----------------------------
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "cannot create output dir: %v\n", err)
		os.Exit(1)
	}
	logFile, err := os.Create(filepath.Join(cfg.Output.Dir, "quarter_car.log"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot create log file: %v\n", err)
		os.Exit(1)
	}
	logging.UseUTC()
	log := logging.New(os.Stdout, logFile, cfg.LogLevel)
	log.Info().Str("loglevel", log.GetLevel().String()).Str("out", cfg.Output.Dir).Msg("logging set up")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = run(ctx, cfg, fl, log)
	stop()
	if err != nil {
		log.Error().Err(err).Msg("run failed")
		_ = logFile.Close()
		os.Exit(1)
	}
	log.Info().Msg("done")
	_ = logFile.Close()
}

func run(ctx context.Context, cfg config.Config, fl flags, log zerolog.Logger) error {
	p := cfg.Params
	if fl.clamp {
		p = p.Clamp()
	}

	opts := engine.DefaultOptions()
	opts.Grid = cfg.Grid
	opts.Road = cfg.Road
	eng := engine.New(opts, log)

	framesDir := filepath.Join(cfg.Output.Dir, "frames")
	if cfg.Output.Frames {
		if err := render.CleanFrames(framesDir); err != nil {
			return fmt.Errorf("cannot clean frames: %w", err)
		}
	}

	r, err := eng.Start(p)
	if err != nil {
		return err
	}
	defer r.Close()

	// ----------------------------
	// Main loop: frames
	// ----------------------------
	progress := logging.Every(log, cfg.Output.Progress)
	n := r.Len()
	chart, err := r.Stream(ctx, func(f engine.Frame) error {
		if cfg.Output.Frames {
			pl, err := render.FramePlot(f, opts.Geometry)
			if err != nil {
				return err
			}
			if err := render.SaveFramePNG(pl, f, cfg.Output.Width, cfg.Output.DPI, render.FrameFile(framesDir, f.Index)); err != nil {
				return err
			}
		}
		progress.Info().
			Int("frame", f.Index).
			Int("frames", n).
			Str("t", fmt.Sprintf("%.2f", f.Time)).
			Float64("u", f.U).
			Float64("zu", f.Zu).
			Float64("zs", f.Zs).
			Msg("frame")
		return nil
	})
	if err != nil {
		return err
	}

	// ----------------------------
	// Video, chart, CSV
	// ----------------------------
	switch {
	case cfg.Output.Video && !cfg.Output.Frames:
		log.Warn().Msg("video requested without frames; skipping MP4")
	case cfg.Output.Video:
		mp4 := filepath.Join(cfg.Output.Dir, "quarter_car.mp4")
		err := render.EncodeMP4(ctx, log, framesDir, int(opts.Grid.FrameRate), mp4)
		if errors.Is(err, render.ErrNoFFmpeg) {
			log.Warn().Msg("ffmpeg not found on PATH; MP4 will not be created")
		} else if err != nil {
			log.Error().Err(err).Msg("MP4 encoding failed")
		}
	}

	log.Info().Msg("saving chart and CSV")
	pl, err := render.ChartPlot(chart)
	if err != nil {
		return err
	}
	if err := render.SavePNG(pl, 8, 5, cfg.Output.DPI, filepath.Join(cfg.Output.Dir, "displacement.png")); err != nil {
		return fmt.Errorf("chart saving failed: %w", err)
	}

	if cfg.Output.CSV {
		file := filepath.Join(cfg.Output.Dir, "quarter_car_log.csv")
		if err := render.WriteCSV(file, render.CSVHeader, render.ChartColumns(r.Sequencer())); err != nil {
			return fmt.Errorf("CSV saving failed: %w", err)
		}
	}

	if fl.ascii {
		out, err := render.ASCIIChart(chart, 70, 12)
		if err != nil {
			return err
		}
		fmt.Println(out)
	}
	return nil
}
