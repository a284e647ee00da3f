// Package rasters holds gridded data with affine pixel-to-world transforms
// and interpolates raster values onto unstructured points.
package rasters

import (
	"fmt"
	"math"

	"github.com/amanzi/watershed-workflow/geometry"
	"github.com/amanzi/watershed-workflow/warp"
)

// Affine is a six-parameter pixel-to-world transform [a b c d e f]:
//
//	x = a*col + b*row + c
//	y = d*col + e*row + f
type Affine [6]float64

// FromOrigin builds a north-up transform anchored at the top-left corner.
func FromOrigin(west, north, dx, dy float64) Affine {
	return Affine{dx, 0, west, 0, -dy, north}
}

// XY maps fractional pixel coordinates to world coordinates.
func (t Affine) XY(col, row float64) (float64, float64) {
	return t[0]*col + t[1]*row + t[2], t[3]*col + t[4]*row + t[5]
}

// ColRow inverts the transform.
func (t Affine) ColRow(x, y float64) (float64, float64) {
	det := t[0]*t[4] - t[1]*t[3]
	dx := x - t[2]
	dy := y - t[5]
	return (t[4]*dx - t[1]*dy) / det, (t[0]*dy - t[3]*dx) / det
}

// Profile describes a raster grid without its samples.
type Profile struct {
	CRS       warp.CRS
	Transform Affine
	Width     int
	Height    int
	Nodata    float64
}

// Raster is a 2D grid of samples in row-major order.
type Raster struct {
	Profile Profile
	Data    []float64
}

// New allocates a raster filled with the profile's nodata value.
func New(profile Profile) *Raster {
	data := make([]float64, profile.Width*profile.Height)
	for i := range data {
		data[i] = profile.Nodata
	}
	return &Raster{Profile: profile, Data: data}
}

func (r *Raster) At(row, col int) float64 {
	return r.Data[row*r.Profile.Width+col]
}

func (r *Raster) Set(row, col int, v float64) {
	r.Data[row*r.Profile.Width+col] = v
}

// Bounds returns [xmin, ymin, xmax, ymax] of the full grid.
func (r *Raster) Bounds() [4]float64 {
	x0, y0 := r.Profile.Transform.XY(0, 0)
	x1, y1 := r.Profile.Transform.XY(float64(r.Profile.Width), float64(r.Profile.Height))
	return [4]float64{math.Min(x0, x1), math.Min(y0, y1), math.Max(x0, x1), math.Max(y0, y1)}
}

// Algorithm selects the interpolation scheme.
type Algorithm string

const (
	// Nearest picks the pixel containing the point.
	Nearest Algorithm = "nearest"
	// PiecewiseBilinear interpolates the four surrounding pixel centers.
	PiecewiseBilinear Algorithm = "piecewise bilinear"
)

// ValuesFromRaster interpolates the raster onto a collection of points.
// Points are reprojected into the raster's CRS first.  Fractional pixel
// coordinates are clamped to stay within four in-bounds neighbors; points
// beyond the grid sample the edge rather than failing.
func ValuesFromRaster(points []geometry.Coordinate, pointsCRS warp.CRS, raster *Raster, algorithm Algorithm, reproj warp.Reprojector) ([]float64, error) {
	if !warp.Equal(pointsCRS, raster.Profile.CRS) {
		if reproj == nil {
			return nil, fmt.Errorf("Points in %s but raster in %s and no reprojector given", pointsCRS, raster.Profile.CRS)
		}
		var err error
		points, err = reproj.Reproject(points, pointsCRS, raster.Profile.CRS)
		if err != nil {
			return nil, fmt.Errorf("Failed to reproject points: %s", err)
		}
	}

	out := make([]float64, len(points))
	switch algorithm {
	case Nearest:
		for k, p := range points {
			col, row := raster.Profile.Transform.ColRow(p[0], p[1])
			i := clampInt(int(math.Floor(row)), 0, raster.Profile.Height-1)
			j := clampInt(int(math.Floor(col)), 0, raster.Profile.Width-1)
			out[k] = raster.At(i, j)
		}
	case PiecewiseBilinear:
		const eps = 1e-10
		for k, p := range points {
			col, row := raster.Profile.Transform.ColRow(p[0], p[1])

			// Center on pixel
			i := row - 0.5
			j := col - 0.5

			i = math.Max(eps, math.Min(float64(raster.Profile.Height-1)-eps, i))
			j = math.Max(eps, math.Min(float64(raster.Profile.Width-1)-eps, j))

			i0, i1 := int(math.Floor(i)), int(math.Ceil(i))
			j0, j1 := int(math.Floor(j)), int(math.Ceil(j))
			ii := i - math.Floor(i)
			jj := j - math.Floor(j)

			up := raster.At(i0, j0) + jj*(raster.At(i0, j1)-raster.At(i0, j0))
			dn := raster.At(i1, j0) + jj*(raster.At(i1, j1)-raster.At(i1, j0))
			out[k] = up + (dn-up)*ii
		}
	default:
		return nil, fmt.Errorf("Unknown interpolation algorithm: %s", algorithm)
	}
	return out, nil
}

// Elevate samples the DEM under each 2D mesh point and returns 3D vertices,
// (x, y, z).
func Elevate(points []geometry.Coordinate, pointsCRS warp.CRS, dem *Raster, algorithm Algorithm, reproj warp.Reprojector) ([][3]float64, error) {
	elev, err := ValuesFromRaster(points, pointsCRS, dem, algorithm, reproj)
	if err != nil {
		return nil, err
	}

	out := make([][3]float64, len(points))
	for i, p := range points {
		out[i] = [3]float64{p[0], p[1], elev[i]}
	}
	return out, nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
