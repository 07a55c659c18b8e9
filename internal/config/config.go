// Package config loads the player configuration from defaults, an optional
// config.yaml and GLASS_ environment variables.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/diamondburned/glass/internal/muse"
	"github.com/diamondburned/glass/internal/muse/graph"
	"github.com/diamondburned/glass/internal/visualizer"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. GLASS_PLAYER_MPV.
const EnvPrefix = "GLASS"

type Config struct {
	Player struct {
		MPV     string `mapstructure:"mpv"`
		FFmpeg  string `mapstructure:"ffmpeg"`
		FFprobe string `mapstructure:"ffprobe"`
		// LoadTimeout bounds how long a load may wait for the file to become
		// ready to play.
		LoadTimeout time.Duration `mapstructure:"load_timeout"`
		Volume      float64       `mapstructure:"volume"`
	} `mapstructure:"player"`
	Analyser struct {
		FFTSize     int     `mapstructure:"fft_size"`
		Smoothing   float64 `mapstructure:"smoothing"`
		MinDecibels float64 `mapstructure:"min_decibels"`
		MaxDecibels float64 `mapstructure:"max_decibels"`
		SampleRate  int     `mapstructure:"sample_rate"`
		FrameRate   int     `mapstructure:"frame_rate"`
	} `mapstructure:"analyser"`
	Visualizer struct {
		BarWidth      float64 `mapstructure:"bar_width"`
		BarGap        float64 `mapstructure:"bar_gap"`
		SegmentHeight float64 `mapstructure:"segment_height"`
		SegmentGap    float64 `mapstructure:"segment_gap"`
		// NearestBin makes buckets that collapse to an empty range take the
		// value of their start bin instead of zero.
		NearestBin bool `mapstructure:"nearest_bin"`
	} `mapstructure:"visualizer"`
}

var keys = []string{
	"player.mpv",
	"player.ffmpeg",
	"player.ffprobe",
	"player.load_timeout",
	"player.volume",
	"analyser.fft_size",
	"analyser.smoothing",
	"analyser.min_decibels",
	"analyser.max_decibels",
	"analyser.sample_rate",
	"analyser.frame_rate",
	"visualizer.bar_width",
	"visualizer.bar_gap",
	"visualizer.segment_height",
	"visualizer.segment_gap",
	"visualizer.nearest_bin",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("player.mpv", "mpv")
	v.SetDefault("player.ffmpeg", "ffmpeg")
	v.SetDefault("player.ffprobe", "ffprobe")
	v.SetDefault("player.load_timeout", 10*time.Second)
	v.SetDefault("player.volume", 0.8)

	v.SetDefault("analyser.fft_size", 256)
	v.SetDefault("analyser.smoothing", 0.8)
	v.SetDefault("analyser.min_decibels", -100)
	v.SetDefault("analyser.max_decibels", -30)
	v.SetDefault("analyser.sample_rate", 44100)
	v.SetDefault("analyser.frame_rate", 60)

	v.SetDefault("visualizer.bar_width", 12)
	v.SetDefault("visualizer.bar_gap", 6)
	v.SetDefault("visualizer.segment_height", 6)
	v.SetDefault("visualizer.segment_gap", 2)
	v.SetDefault("visualizer.nearest_bin", false)
}

// Dir returns the directory searched for config.yaml.
func Dir() string {
	d, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(d, "glass")
}

// Load reads the configuration. A missing config file is not an error.
func Load() (*Config, error) {
	return load(viper.New(), Dir())
}

func load(v *viper.Viper, dirs ...string) (*Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range keys {
		v.BindEnv(key)
	}

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, dir := range dirs {
		if dir != "" {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "failed to read config")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}

	cfg.sanitize()
	return &cfg, nil
}

func (cfg *Config) sanitize() {
	if cfg.Player.LoadTimeout <= 0 {
		cfg.Player.LoadTimeout = 10 * time.Second
	}
	if cfg.Player.Volume < 0 {
		cfg.Player.Volume = 0
	}
	if cfg.Player.Volume > 1 {
		cfg.Player.Volume = 1
	}
	if cfg.Analyser.SampleRate <= 0 {
		cfg.Analyser.SampleRate = 44100
	}
	if cfg.Analyser.FrameRate <= 0 {
		cfg.Analyser.FrameRate = 60
	}
}

// SessionOptions returns the playback session options.
func (cfg *Config) SessionOptions() muse.Options {
	return muse.Options{
		MPV:         cfg.Player.MPV,
		FFmpeg:      cfg.Player.FFmpeg,
		FFprobe:     cfg.Player.FFprobe,
		LoadTimeout: cfg.Player.LoadTimeout,
		Volume:      cfg.Player.Volume,
		SampleRate:  cfg.Analyser.SampleRate,
		FrameRate:   cfg.Analyser.FrameRate,
		Analyser: graph.AnalyserOptions{
			FFTSize:     cfg.Analyser.FFTSize,
			Smoothing:   cfg.Analyser.Smoothing,
			MinDecibels: cfg.Analyser.MinDecibels,
			MaxDecibels: cfg.Analyser.MaxDecibels,
		},
	}
}

// VisualizerOptions returns the visualizer options.
func (cfg *Config) VisualizerOptions() visualizer.Options {
	return visualizer.Options{
		Layout: visualizer.Layout{
			BarWidth:      cfg.Visualizer.BarWidth,
			BarGap:        cfg.Visualizer.BarGap,
			SegmentHeight: cfg.Visualizer.SegmentHeight,
			SegmentGap:    cfg.Visualizer.SegmentGap,
		},
		NearestBin: cfg.Visualizer.NearestBin,
	}
}
