package trellis

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/trellis/model"
	"github.com/tsawler/trellis/render"
)

// Config is the externally supplied engine configuration. It maps
// one-to-one onto the YAML file read by LoadConfig.
type Config struct {
	// MinConfidence discards reconstructed tables scoring below it.
	// Must be in [0, 1].
	MinConfidence float64 `yaml:"min_confidence"`

	// Detectors lists detection strategies by name: bbox_grid,
	// text_alignment, marked_lines, academic_text. Empty means all.
	Detectors []string `yaml:"detectors"`

	// RenderFormat selects the output syntax for Markdown and
	// TextMarkdown: markdown, csv, html, or plaintext.
	RenderFormat string `yaml:"render_format"`

	// IncludeCaptions emits a caption line above each rendered table.
	IncludeCaptions bool `yaml:"include_captions"`

	// Workers bounds page-level parallelism in DocumentTables.
	Workers int `yaml:"workers"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	kinds := model.AllDetectorKinds()
	names := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		names = append(names, kind.String())
	}
	return Config{
		MinConfidence:   0.7,
		Detectors:       names,
		RenderFormat:    render.FormatMarkdown.String(),
		IncludeCaptions: true,
		Workers:         4,
	}
}

// Validate reports the first configuration problem found, or nil.
func (c Config) Validate() error {
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("min confidence %v outside [0, 1]", c.MinConfidence)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	for _, name := range c.Detectors {
		if _, err := model.ParseDetectorKind(name); err != nil {
			return err
		}
	}
	if _, err := render.ParseFormat(c.RenderFormat); err != nil {
		return err
	}
	return nil
}

// LoadConfig reads a YAML configuration file and validates it. Keys
// absent from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
