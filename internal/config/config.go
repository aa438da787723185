// Package config loads run settings from defaults, an optional JSON file and
// QCAR_ environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/mohammadijoo/quarter_car_go/internal/params"
	"github.com/mohammadijoo/quarter_car_go/internal/road"
	"github.com/mohammadijoo/quarter_car_go/internal/sim"
)

// FileName is the config file looked up in the config directory.
const FileName = "quarter_car.json"

// EnvPrefix prefixes environment overrides, e.g. QCAR_PARAMS_KS=60000.
const EnvPrefix = "QCAR"

// Output controls what the program writes for a run.
type Output struct {
	Dir      string  `mapstructure:"dir"`
	Frames   bool    `mapstructure:"frames"` // one PNG per frame
	Video    bool    `mapstructure:"video"`  // MP4 via ffmpeg, needs Frames
	CSV      bool    `mapstructure:"csv"`    // t, lon, u, z_u, z_s log
	DPI      int     `mapstructure:"dpi"`
	Width    float64 `mapstructure:"width"`    // frame width (in), height follows the scene aspect
	Progress int     `mapstructure:"progress"` // log every N frames
}

// Config is everything the program needs for one run.
type Config struct {
	LogLevel string      `mapstructure:"logLevel"`
	Params   params.Set  `mapstructure:"params"`
	Grid     sim.Grid    `mapstructure:"grid"`
	Road     road.Config `mapstructure:"road"`
	Output   Output      `mapstructure:"output"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")

	p := params.Default()
	v.SetDefault("params.ks", p.Ks)
	v.SetDefault("params.cs", p.Cs)
	v.SetDefault("params.kt", p.Kt)
	v.SetDefault("params.vel", p.Vel)

	g := sim.DefaultGrid()
	v.SetDefault("grid.frameRate", g.FrameRate)
	v.SetDefault("grid.playbackSpeed", g.PlaybackSpeed)
	v.SetDefault("grid.duration", g.Duration)

	r := road.DefaultConfig()
	v.SetDefault("road.step", r.Step)
	v.SetDefault("road.runUp", r.RunUp)
	v.SetDefault("road.radius", r.Radius)
	v.SetDefault("road.arcSamples", r.ArcSamples)
	v.SetDefault("road.runOut", r.RunOut)

	v.SetDefault("output.dir", filepath.Join("output", "quarter_car"))
	v.SetDefault("output.frames", true)
	v.SetDefault("output.video", true)
	v.SetDefault("output.csv", true)
	v.SetDefault("output.dpi", 150)
	v.SetDefault("output.width", 6.0)
	v.SetDefault("output.progress", 100)
}

// Load reads configuration from configDir. A missing file leaves the
// defaults in place; a malformed one is an error.
func Load(configDir string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	file := filepath.Join(configDir, FileName)
	if _, err := os.Stat(file); err == nil {
		v.SetConfigFile(file)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}
	// masses are not settings
	cfg.Params.SprungMass = params.SprungMass
	cfg.Params.UnsprungMass = params.UnsprungMass
	return cfg, nil
}
