package render

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mohammadijoo/quarter_car_go/internal/engine"
)

// ErrNoFFmpeg is returned by EncodeMP4 when ffmpeg is not on PATH.
var ErrNoFFmpeg = errors.New("render: ffmpeg not found on PATH")

// FramePattern is the printf pattern of frame file names, shared with ffmpeg.
const FramePattern = "frame_%06d.png"

// FrameFile returns the path of frame i inside dir.
func FrameFile(dir string, i int) string {
	return filepath.Join(dir, fmt.Sprintf(FramePattern, i))
}

// CSVHeader names the columns written by ChartColumns.
var CSVHeader = []string{"t", "lon", "u", "z_u", "z_s"}

// ChartColumns returns the run log columns in CSVHeader order. The slices
// are copies owned by the caller.
func ChartColumns(seq *engine.Sequencer) [][]float64 {
	k := seq.Kinematics()
	return [][]float64{k.Time, k.Lon, k.U, k.Zu, k.Zs}
}

// WriteCSV writes equally long columns under header.
func WriteCSV(filename string, header []string, cols [][]float64) error {
	if len(cols) == 0 {
		return errors.New("CSV: no columns")
	}
	if len(header) != len(cols) {
		return fmt.Errorf("CSV: %d header names for %d columns", len(header), len(cols))
	}
	n := len(cols[0])
	for _, c := range cols {
		if len(c) != n {
			return errors.New("CSV: column size mismatch")
		}
	}

	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("CSV: cannot create directory: %w", err)
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("CSV: cannot open %s: %w", filename, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("CSV: cannot write header: %w", err)
	}

	row := make([]string, len(cols))
	for r := 0; r < n; r++ {
		for c := range cols {
			row[c] = fmt.Sprintf("%.15g", cols[c][r])
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("CSV: cannot write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

func listFilesSorted(dir, suffix string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(strings.ToLower(name), strings.ToLower(suffix)) {
			out = append(out, filepath.Join(dir, name))
		}
	}
	sort.Strings(out)
	return out, nil
}

// CleanFrames creates framesDir if needed and removes PNG files left by a
// previous run.
func CleanFrames(framesDir string) error {
	if err := os.MkdirAll(framesDir, 0o755); err != nil {
		return err
	}
	files, err := listFilesSorted(framesDir, ".png")
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := os.Remove(f); err != nil {
			return err
		}
	}
	return nil
}

// EncodeMP4 encodes the frames in framesDir into outMP4 at fps with ffmpeg.
func EncodeMP4(ctx context.Context, log zerolog.Logger, framesDir string, fps int, outMP4 string) error {
	bin, err := exec.LookPath("ffmpeg")
	if err != nil {
		return ErrNoFFmpeg
	}

	cmd := exec.CommandContext(ctx, bin,
		"-y",
		"-framerate", fmt.Sprintf("%d", fps),
		"-i", filepath.Join(framesDir, FramePattern),
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		outMP4,
	)

	log.Info().Str("out", outMP4).Int("fps", fps).Msg("encoding MP4 with ffmpeg")
	if out, err := cmd.CombinedOutput(); err != nil {
		log.Debug().Bytes("ffmpeg", out).Msg("ffmpeg output")
		return fmt.Errorf("ffmpeg encoding failed: %w", err)
	}
	log.Info().Str("out", outMP4).Msg("MP4 created")
	return nil
}
