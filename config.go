package densmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//Supported trajectory formats.
const (
	FormatBFA = "bfa" //binary frame archive, see traj/bfa
	FormatXYZ = "xyz" //extended XYZ text, see traj/xyz
)

//ROI declaration types.
const (
	ROIFractional = "fractional"
	ROIAbsolute   = "absolute"
)

//ROIDecl is an optional load-time region of interest: three (min,max)
//pairs, either fractional (relative to the unit cell) or absolute
//cartesian. Absent, the full simulation cell is used.
type ROIDecl struct {
	Type   string       `yaml:"type"`
	Bounds [][2]float64 `yaml:"bounds"`
}

//Config is the run configuration, loaded from YAML.
type Config struct {
	Input struct {
		Path   string `yaml:"path"`
		Format string `yaml:"format"`
		Slice  string `yaml:"slice"` //start:stop:step frame selection
	} `yaml:"input"`

	Grid struct {
		Resolution int `yaml:"resolution"`
	} `yaml:"grid"`

	Smoothing struct {
		Sigma float64 `yaml:"sigma"`
	} `yaml:"smoothing"`

	//Average restricts the frame range used for time-averaged
	//positions. End <= 0 means "through the last frame".
	Average struct {
		Start int `yaml:"start"`
		End   int `yaml:"end"`
	} `yaml:"average"`

	ROI *ROIDecl `yaml:"roi"`

	//Rename maps raw chemical labels to display labels; labels
	//without an entry pass through unchanged.
	Rename map[string]string `yaml:"rename"`

	Server struct {
		Addr          string `yaml:"addr"`
		UpdateDelayMS int    `yaml:"updateDelayMs"`
	} `yaml:"server"`
}

//DefaultConfig returns a configuration with the default grid,
//smoothing and server settings. Input has no default and must come
//from the file.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Input.Slice = ":"
	cfg.Grid.Resolution = 200
	cfg.Smoothing.Sigma = 1.5
	cfg.Server.Addr = ":8077"
	cfg.Server.UpdateDelayMS = 200
	return cfg
}

//LoadConfig reads and validates a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

//Validate fails fast on anything that would poison the pipeline
//later: unknown formats, malformed slices, bad ROI declarations.
func (c *Config) Validate() error {
	if c.Input.Path == "" {
		return fmt.Errorf("input.path is required")
	}
	switch c.Input.Format {
	case FormatBFA, FormatXYZ:
	case "":
		return fmt.Errorf("input.format is required (%q or %q)", FormatBFA, FormatXYZ)
	default:
		return fmt.Errorf("unsupported input format %q", c.Input.Format)
	}
	if _, err := ParseFrameSlice(c.Input.Slice); err != nil {
		return err
	}
	if c.Grid.Resolution < 2 {
		return fmt.Errorf("grid.resolution must be at least 2, got %d", c.Grid.Resolution)
	}
	if c.Smoothing.Sigma < 0 {
		return fmt.Errorf("smoothing.sigma cannot be negative")
	}
	if c.ROI != nil {
		switch c.ROI.Type {
		case ROIFractional, ROIAbsolute:
		default:
			return fmt.Errorf("unknown roi.type %q", c.ROI.Type)
		}
		if len(c.ROI.Bounds) != 3 {
			return fmt.Errorf("roi.bounds needs exactly 3 (min,max) pairs, got %d", len(c.ROI.Bounds))
		}
	}
	return nil
}
