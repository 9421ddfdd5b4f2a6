package config

import (
	"fmt"

	"github.com/betarho/zxscan/internal/barcode"
	"github.com/betarho/zxscan/internal/output"
)

// Config is the complete configuration for zxscan, shared by the scan, pdf
// and serve commands. It loads from config files, environment variables
// (ZXSCAN_*) and command-line flags.
type Config struct {
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	Scan   ScanConfig   `mapstructure:"scan" yaml:"scan" json:"scan"`
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`
}

// ScanConfig mirrors the decode options in configuration-friendly form
// (enum selections as names, formats as a comma-separated list).
type ScanConfig struct {
	Formats            string `mapstructure:"formats" yaml:"formats" json:"formats"`
	TryHarder          bool   `mapstructure:"try_harder" yaml:"try_harder" json:"try_harder"`
	TryRotate          bool   `mapstructure:"try_rotate" yaml:"try_rotate" json:"try_rotate"`
	TryInvert          bool   `mapstructure:"try_invert" yaml:"try_invert" json:"try_invert"`
	TryDownscale       bool   `mapstructure:"try_downscale" yaml:"try_downscale" json:"try_downscale"`
	IsPure             bool   `mapstructure:"pure" yaml:"pure" json:"pure"`
	MaxSymbols         int    `mapstructure:"max_symbols" yaml:"max_symbols" json:"max_symbols"`
	DownscaleFactor    int    `mapstructure:"downscale_factor" yaml:"downscale_factor" json:"downscale_factor"`
	DownscaleThreshold int    `mapstructure:"downscale_threshold" yaml:"downscale_threshold" json:"downscale_threshold"`
	MinLineCount       int    `mapstructure:"min_line_count" yaml:"min_line_count" json:"min_line_count"`
	Binarizer          string `mapstructure:"binarizer" yaml:"binarizer" json:"binarizer"`
	TextMode           string `mapstructure:"text_mode" yaml:"text_mode" json:"text_mode"`
	EanAddOn           string `mapstructure:"ean_add_on" yaml:"ean_add_on" json:"ean_add_on"`
}

// OutputConfig controls result rendering.
type OutputConfig struct {
	Format     string `mapstructure:"format" yaml:"format" json:"format"`
	File       string `mapstructure:"file" yaml:"file" json:"file"`
	OverlayDir string `mapstructure:"overlay_dir" yaml:"overlay_dir" json:"overlay_dir"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host        string `mapstructure:"host" yaml:"host" json:"host"`
	Port        int    `mapstructure:"port" yaml:"port" json:"port"`
	MaxUploadMB int64  `mapstructure:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb"`
	TimeoutSec  int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
}

// DefaultConfig returns the defaults used when nothing else is configured.
func DefaultConfig() Config {
	opts := barcode.DefaultOptions()
	return Config{
		LogLevel: "info",
		Scan: ScanConfig{
			MaxSymbols:         opts.MaxNumberOfSymbols,
			DownscaleFactor:    opts.DownscaleFactor,
			DownscaleThreshold: opts.DownscaleThreshold,
			MinLineCount:       opts.MinLineCount,
			Binarizer:          barcode.BinarizerLocalAverage.String(),
			TextMode:           barcode.TextPlain.String(),
			EanAddOn:           barcode.EanAddOnIgnore.String(),
		},
		Output: OutputConfig{Format: output.FormatText},
		Server: ServerConfig{
			Host:        "127.0.0.1",
			Port:        8080,
			MaxUploadMB: 32,
			TimeoutSec:  30,
		},
	}
}

// DecodeOptions converts the scan section into engine options.
func (s ScanConfig) DecodeOptions() (barcode.Options, error) {
	opts := barcode.DefaultOptions()
	if s.Formats != "" {
		set, err := barcode.ParseFormatSet(s.Formats)
		if err != nil {
			return opts, fmt.Errorf("config: %w", err)
		}
		opts.Formats = set
	}
	opts.TryHarder = s.TryHarder
	opts.TryRotate = s.TryRotate
	opts.TryInvert = s.TryInvert
	opts.TryDownscale = s.TryDownscale
	opts.IsPure = s.IsPure
	if s.MaxSymbols > 0 {
		opts.MaxNumberOfSymbols = s.MaxSymbols
	}
	if s.DownscaleFactor > 0 {
		opts.DownscaleFactor = s.DownscaleFactor
	}
	if s.DownscaleThreshold > 0 {
		opts.DownscaleThreshold = s.DownscaleThreshold
	}
	if s.MinLineCount > 0 {
		opts.MinLineCount = s.MinLineCount
	}
	if s.Binarizer != "" {
		b, err := barcode.ParseBinarizer(s.Binarizer)
		if err != nil {
			return opts, fmt.Errorf("config: %w", err)
		}
		opts.Binarizer = b
	}
	if s.TextMode != "" {
		t, err := barcode.ParseTextMode(s.TextMode)
		if err != nil {
			return opts, fmt.Errorf("config: %w", err)
		}
		opts.TextMode = t
	}
	if s.EanAddOn != "" {
		e, err := barcode.ParseEanAddOnSymbol(s.EanAddOn)
		if err != nil {
			return opts, fmt.Errorf("config: %w", err)
		}
		opts.EanAddOnSymbol = e
	}
	return opts, nil
}

// Validate rejects configurations the commands cannot act on.
func (c *Config) Validate() error {
	if !output.IsValidFormat(c.Output.Format) {
		return fmt.Errorf("config: invalid output format %q", c.Output.Format)
	}
	if _, err := c.Scan.DecodeOptions(); err != nil {
		return err
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid server port %d", c.Server.Port)
	}
	return nil
}
