package workflow

import (
	"strings"
	"testing"

	"github.com/cheekybits/is"
)

func TestParseConfig(t *testing.T) {
	is := is.New(t)

	in := `
crs: EPSG:26910
simplify: 10
prune_reach_size: 2
max_reach_length: 5000

refine:
    max_area: 10000
    river_distance:
        near_distance: 100
        near_area: 500
        far_distance: 1000
        far_area: 5000
`

	cfg, err := ParseConfig(strings.NewReader(in))
	is.NoErr(err)
	is.NotNil(cfg)
	is.Equal(cfg.CRS, "EPSG:26910")
	is.Equal(cfg.Digits, DefaultDigits)
	is.Equal(cfg.Simplify, 10.0)
	is.Equal(cfg.PruneReachSize, 2)
	is.True(cfg.CutIntersections)
	is.Equal(cfg.MaxReachLength, 5000.0)

	is.Equal(cfg.Refine.MaxArea, 10000.0)
	is.NotNil(cfg.Refine.RiverDistance)
	is.Equal(cfg.Refine.RiverDistance.NearDistance, 100.0)
	is.Equal(cfg.Refine.RiverDistance.FarArea, 5000.0)
}

func TestParseConfigDefaults(t *testing.T) {
	is := is.New(t)

	cfg, err := ParseConfig(strings.NewReader(""))
	is.NoErr(err)
	is.Equal(cfg.CRS, DefaultCRS)
	is.Equal(cfg.Digits, DefaultDigits)
	is.Nil(cfg.Refine.RiverDistance)
}

func TestParseConfigInvalid(t *testing.T) {
	is := is.New(t)

	_, err := ParseConfig(strings.NewReader("digits: -1"))
	is.NotNil(err)

	_, err = ParseConfig(strings.NewReader("simplify: -5"))
	is.NotNil(err)
}

func TestRefineArgs(t *testing.T) {
	is := is.New(t)

	cfg := NewConfig()
	cfg.Refine.MaxArea = 100
	args := cfg.RefineArgs()
	is.Equal(args.MaxArea, 100.0)
	is.Nil(args.RiverDistance)

	cfg.Refine.RiverDistance = &RiverDistanceConfig{
		NearDistance: 10, NearArea: 1, FarDistance: 100, FarArea: 50,
	}
	args = cfg.RefineArgs()
	is.NotNil(args.RiverDistance)
	is.Equal(args.RiverDistance.NearDist, 10.0)
	is.Equal(args.RiverDistance.FarArea, 50.0)
}
