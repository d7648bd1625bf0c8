// Package preset loads YAML tracker/profile presets and applies them to
// a creation request. Kept as an external collaborator per the base
// spec's scope (config loading and tracker-profile application are
// named out of the creation core); this module supplies YAML rather
// than TOML because no TOML library appears anywhere in the retrieved
// corpus (see DESIGN.md).
package preset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tajoumaru/torrite/internal/utils"
)

// Config is the top-level presets.yaml document.
type Config struct {
	Version int                `yaml:"version"`
	Default *Options           `yaml:"default"`
	Presets map[string]Options `yaml:"presets"`
}

// Options is a single preset's settings, applied on top of CLI flags.
type Options struct {
	Trackers       []string `yaml:"trackers"`
	WebSeeds       []string `yaml:"webseeds"`
	Private        bool     `yaml:"private"`
	PieceLengthExp uint     `yaml:"piece_length"`
	MaxPieceLength uint     `yaml:"max_piece_length"`
	Comment        string   `yaml:"comment"`
	Source         string   `yaml:"source"`
	NoDate         bool     `yaml:"no_date"`
}

// FindPresetFile searches known locations for a presets file.
func FindPresetFile(explicitPath string) (string, error) {
	locations := []string{
		explicitPath,
		"presets.yaml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations,
			filepath.Join(home, ".config", "torrite", "presets.yaml"),
			filepath.Join(home, ".torrite", "presets.yaml"),
		)
	}
	for _, loc := range locations {
		if loc == "" {
			continue
		}
		if _, err := os.Stat(loc); err == nil {
			return loc, nil
		}
	}
	return "", fmt.Errorf("could not find preset file in known locations")
}

// Load reads and validates a presets.yaml document.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("could not read preset config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("could not parse preset config: %w", err)
	}
	if config.Version != 1 {
		return nil, fmt.Errorf("unsupported preset config version: %d", config.Version)
	}
	if len(config.Presets) == 0 {
		return nil, fmt.Errorf("no presets defined in config")
	}
	return &config, nil
}

// GetPreset returns a named preset merged with the config's defaults.
func (c *Config) GetPreset(name string) (*Options, error) {
	preset, ok := c.Presets[name]
	if !ok {
		return nil, fmt.Errorf("preset %q not found", name)
	}

	if c.Default == nil {
		return &preset, nil
	}

	merged := *c.Default
	if len(preset.Trackers) > 0 {
		merged.Trackers = preset.Trackers
	}
	if len(preset.WebSeeds) > 0 {
		merged.WebSeeds = preset.WebSeeds
	}
	if preset.PieceLengthExp != 0 {
		merged.PieceLengthExp = preset.PieceLengthExp
	}
	if preset.MaxPieceLength != 0 {
		merged.MaxPieceLength = preset.MaxPieceLength
	}
	if preset.Comment != "" {
		merged.Comment = preset.Comment
	}
	if preset.Source != "" {
		merged.Source = preset.Source
	}
	if preset.Private {
		merged.Private = true
	}
	if preset.NoDate {
		merged.NoDate = true
	}
	return &merged, nil
}

// GenerateOutputPath derives a modified-torrent output path from the
// original path, an optional output directory, and the preset name. When
// no preset was used but a tracker URL was supplied, the suffix is the
// tracker's domain instead of the generic "-modified".
func GenerateOutputPath(originalPath, outputDir, presetName string, trackerURL ...string) string {
	dir := filepath.Dir(originalPath)
	if outputDir != "" {
		dir = outputDir
	}

	base := filepath.Base(originalPath)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)

	suffix := "-modified"
	switch {
	case presetName != "":
		suffix = "-" + presetName
	case len(trackerURL) > 0 && trackerURL[0] != "":
		suffix = "-" + utils.GetDomainPrefix(trackerURL[0])
	}
	return filepath.Join(dir, name+suffix+ext)
}
