// Package warp carries coordinate system tags and the reprojection
// capability.  Reprojection numerics live outside the core; the pipeline
// only needs to know when two tags differ and whom to ask.
package warp

import (
	"fmt"

	"github.com/amanzi/watershed-workflow/geometry"
)

// CRS tags a coordinate system, e.g. "EPSG:5070".
type CRS string

// Equal compares CRS tags.
func Equal(a, b CRS) bool {
	return a == b
}

// Geographic reports whether the tag names a plain lat/lon system.
func (c CRS) Geographic() bool {
	return c == "EPSG:4326" || c == "EPSG:4269"
}

// Reprojector is the coordinate-reprojection capability.
type Reprojector interface {
	Reproject(points []geometry.Coordinate, src, dst CRS) ([]geometry.Coordinate, error)
}

// Identity passes points through unchanged and refuses to convert between
// differing systems.  It is the default when all inputs share one CRS.
type Identity struct{}

func (Identity) Reproject(points []geometry.Coordinate, src, dst CRS) ([]geometry.Coordinate, error) {
	if !Equal(src, dst) {
		return nil, fmt.Errorf("No reprojector available to convert %s to %s", src, dst)
	}
	return points, nil
}

// Shape reprojects a single geometry's coordinates, a convenience over
// Reproject for callers holding one line or ring.
func Shape(r Reprojector, l geometry.LineString, src, dst CRS) (geometry.LineString, error) {
	out, err := r.Reproject(l, src, dst)
	if err != nil {
		return nil, err
	}
	return geometry.LineString(out), nil
}
