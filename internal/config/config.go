package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"localchart/internal/chart"
	"localchart/internal/geodesy"
	"localchart/internal/logging"
)

// Config holds all configurable paths and render settings.
type Config struct {
	// BaseDir anchors relative data paths. It is the config file's
	// directory, or empty for the working directory.
	BaseDir string `mapstructure:"-"`

	Input     string `mapstructure:"input"`
	OutputDir string `mapstructure:"output_dir"`
	Format    string `mapstructure:"format"`
	Workers   int    `mapstructure:"workers"`

	Chart   ChartConfig   `mapstructure:"chart"`
	Data    DataConfig    `mapstructure:"data"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// ChartConfig mirrors chart.RenderConfig.
type ChartConfig struct {
	UTMZone             int     `mapstructure:"utm_zone"`
	Hemisphere          string  `mapstructure:"hemisphere"`
	PrintScale          float64 `mapstructure:"print_scale"`
	TickIntervalNM      float64 `mapstructure:"tick_interval_nm"`
	TimeTickIntervalMin float64 `mapstructure:"time_tick_interval_min"`
	ShowDistanceLabels  bool    `mapstructure:"show_distance_labels"`
	ShowTimeLabels      bool    `mapstructure:"show_time_labels"`
	Width               int     `mapstructure:"width"`
	Height              int     `mapstructure:"height"`
	DevicePixelRatio    float64 `mapstructure:"device_pixel_ratio"`
}

// DataConfig locates the optional data sources. Empty paths disable them.
type DataConfig struct {
	Terrain        string   `mapstructure:"terrain"`
	TerrainRegions int      `mapstructure:"terrain_cache_regions"`
	Airports       string   `mapstructure:"airports"`
	MagvarGrid     string   `mapstructure:"magvar_grid"`
	Declination    *float64 `mapstructure:"declination"` // fixed value, used without a grid
	Icons          string   `mapstructure:"icons"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

func setDefaults(v *viper.Viper) {
	def := chart.DefaultRenderConfig()
	v.SetDefault("format", "png")
	v.SetDefault("workers", 0)
	v.SetDefault("chart.utm_zone", 0)
	v.SetDefault("chart.hemisphere", "")
	v.SetDefault("chart.print_scale", def.PrintScaleDenominator)
	v.SetDefault("chart.tick_interval_nm", def.TickIntervalNM)
	v.SetDefault("chart.time_tick_interval_min", def.TimeTickIntervalMin)
	v.SetDefault("chart.show_distance_labels", def.ShowDistanceLabels)
	v.SetDefault("chart.show_time_labels", def.ShowTimeLabels)
	v.SetDefault("chart.width", def.Width)
	v.SetDefault("chart.height", def.Height)
	v.SetDefault("chart.device_pixel_ratio", def.DevicePixelRatio)
	v.SetDefault("data.terrain_cache_regions", 64)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.max_size_mb", 64)
	v.SetDefault("log.max_backups", 3)
}

// Load reads configuration from path (YAML, JSON or TOML by extension) and
// LOCALCHART_* environment variables. With an empty path, localchart.* in
// the working directory is used when present.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else {
		v.SetConfigName("localchart")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("config: %w", err)
			}
		}
	}

	// LOCALCHART_CHART_PRINT_SCALE -> chart.print_scale
	v.SetEnvPrefix("LOCALCHART")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Keys without a default are invisible to AutomaticEnv during Unmarshal.
	for _, key := range []string{"input", "output_dir", "data.terrain", "data.airports", "data.magvar_grid", "data.declination", "data.icons", "log.file", "metrics.addr"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("config: bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if used := v.ConfigFileUsed(); used != "" {
		cfg.BaseDir = filepath.Dir(used)
	}
	return &cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Input       string
	OutputDir   string
	Format      string
	Workers     int
	PrintScale  float64
	DPR         float64
	Terrain     string
	Airports    string
	MagvarGrid  string
	Icons       string
	LogLevel    string
	MetricsAddr string
}

// Resolve applies CLI flags, which take priority when non-zero, then fills
// remaining defaults and anchors relative data paths at BaseDir.
func (c *Config) Resolve(flags Flags) {
	if flags.Input != "" {
		c.Input = flags.Input
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.PrintScale > 0 {
		c.Chart.PrintScale = flags.PrintScale
	}
	if flags.DPR > 0 {
		c.Chart.DevicePixelRatio = flags.DPR
	}
	if flags.Terrain != "" {
		c.Data.Terrain = flags.Terrain
	}
	if flags.Airports != "" {
		c.Data.Airports = flags.Airports
	}
	if flags.MagvarGrid != "" {
		c.Data.MagvarGrid = flags.MagvarGrid
	}
	if flags.Icons != "" {
		c.Data.Icons = flags.Icons
	}
	if flags.LogLevel != "" {
		c.Log.Level = flags.LogLevel
	}
	if flags.MetricsAddr != "" {
		c.Metrics.Addr = flags.MetricsAddr
	}

	c.Format = strings.ToLower(c.Format)
	if c.Format == "" {
		c.Format = "png"
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.OutputDir == "" {
		c.OutputDir = "charts"
	}

	// Flag paths are relative to the working directory; only paths that
	// came from the config file are anchored.
	anchor := func(p *string, fromFlag string) {
		if *p != "" && fromFlag == "" && c.BaseDir != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(c.BaseDir, *p)
		}
	}
	anchor(&c.Data.Terrain, flags.Terrain)
	anchor(&c.Data.Airports, flags.Airports)
	anchor(&c.Data.MagvarGrid, flags.MagvarGrid)
	anchor(&c.Data.Icons, flags.Icons)
}

// Validate checks that the resolved configuration is usable.
func (c *Config) Validate() error {
	var errs []string

	if c.Input == "" {
		errs = append(errs, "input (plan file or directory) is required")
	}
	if c.Format != "png" && c.Format != "webp" {
		errs = append(errs, fmt.Sprintf("format must be png or webp, got %q", c.Format))
	}
	if c.Chart.UTMZone < 0 || c.Chart.UTMZone > 60 {
		errs = append(errs, fmt.Sprintf("chart.utm_zone must be 0-60, got %d", c.Chart.UTMZone))
	}
	if c.Chart.Hemisphere != "" {
		if _, err := geodesy.ParseHemisphere(c.Chart.Hemisphere); err != nil {
			errs = append(errs, fmt.Sprintf("chart.hemisphere: %v", err))
		}
	}
	if c.Chart.PrintScale <= 0 {
		errs = append(errs, fmt.Sprintf("chart.print_scale must be positive, got %v", c.Chart.PrintScale))
	}
	if c.Chart.TickIntervalNM < 0 || c.Chart.TimeTickIntervalMin < 0 {
		errs = append(errs, "tick intervals must not be negative")
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		errs = append(errs, fmt.Sprintf("chart viewport must be positive, got %dx%d", c.Chart.Width, c.Chart.Height))
	}
	if c.Chart.DevicePixelRatio <= 0 {
		errs = append(errs, fmt.Sprintf("chart.device_pixel_ratio must be positive, got %v", c.Chart.DevicePixelRatio))
	}
	if c.Data.MagvarGrid != "" && c.Data.Declination != nil {
		errs = append(errs, "data.magvar_grid and data.declination are mutually exclusive")
	}
	if c.Data.TerrainRegions <= 0 {
		errs = append(errs, "data.terrain_cache_regions must be positive")
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level must be debug, info, warn or error, got %q", c.Log.Level))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// RenderConfig converts the chart section for chart.Renderer.
func (c *Config) RenderConfig() (chart.RenderConfig, error) {
	rc := chart.RenderConfig{
		UTMZone:               c.Chart.UTMZone,
		PrintScaleDenominator: c.Chart.PrintScale,
		TickIntervalNM:        c.Chart.TickIntervalNM,
		TimeTickIntervalMin:   c.Chart.TimeTickIntervalMin,
		ShowDistanceLabels:    c.Chart.ShowDistanceLabels,
		ShowTimeLabels:        c.Chart.ShowTimeLabels,
		Width:                 c.Chart.Width,
		Height:                c.Chart.Height,
		DevicePixelRatio:      c.Chart.DevicePixelRatio,
	}
	if c.Chart.Hemisphere != "" {
		h, err := geodesy.ParseHemisphere(c.Chart.Hemisphere)
		if err != nil {
			return rc, fmt.Errorf("config: %w", err)
		}
		rc.Hemisphere = h
	}
	return rc, nil
}

// LogOptions converts the log section for logging.New.
func (c *Config) LogOptions() logging.Options {
	return logging.Options{
		Level:      c.Log.Level,
		Format:     c.Log.Format,
		File:       c.Log.File,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
	}
}
