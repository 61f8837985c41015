package config

import (
	"errors"
	"fmt"
	"strings"
)

// Modes
const (
	ModePlay     = "play"
	ModeSimulate = "simulate"
	ModeExport   = "export"
)

// Export formats
const (
	FormatGIF = "gif"
	FormatPNG = "png"
	FormatMP4 = "mp4"
)

type Config struct {
	DocumentPath string
	SymbolsDir   string
	Mode         string
	OutputPath   string
	Format       string
	FPS          int
	Duration     float64 // seconds; 0 = one pass over every program
	Loop         bool
	Scale        int // screen pixels per LED dot
	Workers      int // 0 = auto
	VideoEncoder string
	Quality      int
	ShowStats    bool
	Verbose      bool
	BuildVersion string
}

// ApplyDefaults fills zero values with working defaults
func (c *Config) ApplyDefaults() {
	if c.Mode == "" {
		c.Mode = ModeSimulate
	}
	if c.FPS <= 0 {
		c.FPS = 30
	}
	if c.Scale <= 0 {
		c.Scale = 6
	}
	if c.Format == "" {
		c.Format = FormatGIF
	}
	c.Mode = strings.ToLower(c.Mode)
	c.Format = strings.ToLower(c.Format)
}

// Validate reports every invalid setting
func (c *Config) Validate() error {
	var errs []error

	switch c.Mode {
	case ModePlay, ModeSimulate, ModeExport:
	default:
		errs = append(errs, fmt.Errorf("unknown mode %q", c.Mode))
	}
	switch c.Format {
	case FormatGIF, FormatPNG, FormatMP4:
	default:
		errs = append(errs, fmt.Errorf("unknown format %q", c.Format))
	}
	if c.FPS > 120 {
		errs = append(errs, fmt.Errorf("fps %d is above 120", c.FPS))
	}
	if c.Duration < 0 {
		errs = append(errs, fmt.Errorf("negative duration %.2f", c.Duration))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("negative worker count %d", c.Workers))
	}
	if c.Mode == ModeExport && c.OutputPath == "" {
		errs = append(errs, errors.New("export needs an output path"))
	}

	return errors.Join(errs...)
}
