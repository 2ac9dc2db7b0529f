package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/seqsense/pcgol/mat"
	"gopkg.in/yaml.v3"

	"github.com/seqsense/pcdannotator/pcd"
	"github.com/seqsense/pcdannotator/pcd/features/normal"
	"github.com/seqsense/pcdannotator/pcd/segmentation/floodfill"
)

const (
	defaultSegmentsFile   = "segments.json"
	defaultSelectRange    = 0.1
	defaultHighlightColor = "#00ff00"
	defaultLogLevel       = "info"
)

type floodfillConfig struct {
	K              int     `yaml:"k"`
	AngleTolerance float32 `yaml:"angle_tolerance"`
	BandHalfWidth  float32 `yaml:"band_half_width"`
}

type normalConfig struct {
	K         int       `yaml:"k"`
	Viewpoint []float32 `yaml:"viewpoint"`
}

type config struct {
	SegmentsFile   string          `yaml:"segments_file"`
	SelectRange    float32         `yaml:"select_range"`
	HighlightColor string          `yaml:"highlight_color"`
	LogLevel       string          `yaml:"log_level"`
	Floodfill      floodfillConfig `yaml:"floodfill"`
	Normal         normalConfig    `yaml:"normal"`
}

func defaultConfig() config {
	return config{
		SegmentsFile:   defaultSegmentsFile,
		SelectRange:    defaultSelectRange,
		HighlightColor: defaultHighlightColor,
		LogLevel:       defaultLogLevel,
		Floodfill: floodfillConfig{
			K:              floodfill.DefaultK,
			AngleTolerance: floodfill.DefaultAngleTolerance,
			BandHalfWidth:  floodfill.DefaultBandHalfWidth,
		},
		Normal: normalConfig{
			K: normal.DefaultK,
		},
	}
}

// loadConfig reads a YAML config over the defaults. Empty path returns the
// defaults.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return config{}, errors.WithStack(err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return config{}, errors.Wrapf(err, "parsing %s", path)
	}
	if err := cfg.validate(); err != nil {
		return config{}, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

func (c *config) validate() error {
	switch {
	case c.SegmentsFile == "":
		return errors.New("segments_file must not be empty")
	case c.SelectRange <= 0:
		return errors.New("select_range must be >0")
	case c.Floodfill.K < 1:
		return errors.New("floodfill.k must be >=1")
	case c.Floodfill.AngleTolerance < 0 || c.Floodfill.BandHalfWidth < 0:
		return errors.New("floodfill tolerances must be >=0")
	case c.Normal.K < 3:
		return errors.New("normal.k must be >=3")
	case c.Normal.Viewpoint != nil && len(c.Normal.Viewpoint) != 3:
		return errors.New("normal.viewpoint must have 3 elements")
	}
	if _, err := pcd.ParseColor(c.HighlightColor); err != nil {
		return err
	}
	return nil
}

func (c *config) viewpoint() (mat.Vec3, bool) {
	if len(c.Normal.Viewpoint) != 3 {
		return mat.Vec3{}, false
	}
	return mat.Vec3{c.Normal.Viewpoint[0], c.Normal.Viewpoint[1], c.Normal.Viewpoint[2]}, true
}
