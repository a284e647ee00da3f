// Package workflow is the engine: it pulls shapes and reaches from sources,
// lowers them into split-form boundaries and reach forests, runs the
// topology cleaning pipeline and drives meshing.
package workflow

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"

	yaml "gopkg.in/yaml.v2"

	"github.com/amanzi/watershed-workflow/hydrography"
	"github.com/amanzi/watershed-workflow/triangulation"
	"github.com/amanzi/watershed-workflow/warp"
)

const (
	DefaultCRS    warp.CRS = "EPSG:5070"
	DefaultDigits          = 7
)

// Config carries engine defaults.  Values missing from the file keep their
// defaults.
type Config struct {
	CRS    warp.CRS `yaml:"crs"`
	Digits int      `yaml:"digits"`

	Simplify         float64 `yaml:"simplify"`
	PruneReachSize   int     `yaml:"prune_reach_size"`
	CutIntersections bool    `yaml:"cut_intersections"`
	MaxReachLength   float64 `yaml:"max_reach_length"`

	Refine RefineConfig `yaml:"refine"`
}

type RefineConfig struct {
	MaxArea       float64              `yaml:"max_area"`
	MaxEdgeLength float64              `yaml:"max_edge_length"`
	MinAngle      float64              `yaml:"min_angle"`
	RiverDistance *RiverDistanceConfig `yaml:"river_distance"`
}

// RiverDistanceConfig sizes triangles by how far they sit from the river
// network: NearArea applies within NearDistance, FarArea beyond FarDistance,
// linear in between.
type RiverDistanceConfig struct {
	NearDistance float64 `yaml:"near_distance"`
	NearArea     float64 `yaml:"near_area"`
	FarDistance  float64 `yaml:"far_distance"`
	FarArea      float64 `yaml:"far_area"`
}

func NewConfig() *Config {
	return &Config{
		CRS:              DefaultCRS,
		Digits:           DefaultDigits,
		CutIntersections: true,
	}
}

func ParseConfig(r io.Reader) (*Config, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}

	config := NewConfig()
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, err
	}

	if config.Digits < 0 {
		return nil, fmt.Errorf("Invalid rounding digits: %d", config.Digits)
	}
	if config.Simplify < 0 {
		return nil, fmt.Errorf("Invalid simplification tolerance: %g", config.Simplify)
	}
	return config, nil
}

func LoadConfig(configPath string) (*Config, error) {
	f, err := os.Open(configPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseConfig(f)
}

// CleanOptions lowers the config into topology cleaning options.
func (c *Config) CleanOptions() hydrography.CleanOptions {
	return hydrography.CleanOptions{
		Simplify:         c.Simplify,
		PruneReachSize:   c.PruneReachSize,
		CutIntersections: c.CutIntersections,
	}
}

// RefineArgs lowers the refinement config into predicate arguments.
func (c *Config) RefineArgs() triangulation.RefineArgs {
	args := triangulation.RefineArgs{
		MaxArea:       c.Refine.MaxArea,
		MaxEdgeLength: c.Refine.MaxEdgeLength,
	}
	if rd := c.Refine.RiverDistance; rd != nil {
		args.RiverDistance = &triangulation.RiverDistanceArgs{
			NearDist: rd.NearDistance,
			NearArea: rd.NearArea,
			FarDist:  rd.FarDistance,
			FarArea:  rd.FarArea,
		}
	}
	return args
}
