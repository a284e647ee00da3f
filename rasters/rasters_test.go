package rasters

import (
	"math"
	"testing"

	"github.com/cheekybits/is"

	"github.com/amanzi/watershed-workflow/geometry"
	"github.com/amanzi/watershed-workflow/warp"
)

// 4x4 grid over [0,40]x[0,40], 10m pixels, value = row*10 + col.
func testRaster() *Raster {
	r := New(Profile{
		CRS:       "EPSG:5070",
		Transform: FromOrigin(0, 40, 10, 10),
		Width:     4,
		Height:    4,
		Nodata:    -1,
	})
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			r.Set(row, col, float64(row*10+col))
		}
	}
	return r
}

func TestAffineRoundTrip(t *testing.T) {
	is := is.New(t)

	tr := FromOrigin(0, 40, 10, 10)

	x, y := tr.XY(0, 0)
	is.Equal(x, 0.0)
	is.Equal(y, 40.0)

	col, row := tr.ColRow(25, 15)
	is.Equal(col, 2.5)
	is.Equal(row, 2.5)

	x2, y2 := tr.XY(col, row)
	is.Equal(x2, 25.0)
	is.Equal(y2, 15.0)
}

func TestNearest(t *testing.T) {
	is := is.New(t)

	r := testRaster()
	// (25, 15) sits in pixel row 2, col 2.
	vals, err := ValuesFromRaster([]geometry.Coordinate{{25, 15}}, r.Profile.CRS, r, Nearest, nil)
	is.NoErr(err)
	is.Equal(vals, []float64{22})
}

func TestBilinearPixelCenterExact(t *testing.T) {
	is := is.New(t)

	r := testRaster()
	// The center of pixel (row 1, col 2) is at (25, 25).
	vals, err := ValuesFromRaster([]geometry.Coordinate{{25, 25}}, r.Profile.CRS, r, PiecewiseBilinear, nil)
	is.NoErr(err)
	is.Equal(vals[0], 12.0)
}

func TestBilinearMidpoint(t *testing.T) {
	is := is.New(t)

	r := testRaster()
	// Halfway between the centers of (1,1)=11 and (1,2)=12.
	vals, err := ValuesFromRaster([]geometry.Coordinate{{20, 25}}, r.Profile.CRS, r, PiecewiseBilinear, nil)
	is.NoErr(err)
	is.Equal(vals[0], 11.5)

	// Halfway between (1,1)=11 and (2,1)=21 vertically.
	vals, err = ValuesFromRaster([]geometry.Coordinate{{15, 20}}, r.Profile.CRS, r, PiecewiseBilinear, nil)
	is.NoErr(err)
	is.Equal(vals[0], 16.0)
}

func TestBilinearClamping(t *testing.T) {
	is := is.New(t)

	r := testRaster()
	// Points beyond the grid clamp to the edge pixels instead of failing.
	vals, err := ValuesFromRaster([]geometry.Coordinate{{-100, 100}}, r.Profile.CRS, r, PiecewiseBilinear, nil)
	is.NoErr(err)
	is.True(math.Abs(vals[0]-0) < 1e-6)

	vals, err = ValuesFromRaster([]geometry.Coordinate{{100, -100}}, r.Profile.CRS, r, PiecewiseBilinear, nil)
	is.NoErr(err)
	is.True(math.Abs(vals[0]-33) < 1e-6)
}

func TestCRSMismatch(t *testing.T) {
	is := is.New(t)

	r := testRaster()
	_, err := ValuesFromRaster([]geometry.Coordinate{{25, 15}}, "EPSG:4326", r, Nearest, nil)
	is.NotNil(err)

	// With an identity reprojector the mismatch is still an error.
	_, err = ValuesFromRaster([]geometry.Coordinate{{25, 15}}, "EPSG:4326", r, Nearest, warp.Identity{})
	is.NotNil(err)
}

func TestElevate(t *testing.T) {
	is := is.New(t)

	r := testRaster()
	pts := []geometry.Coordinate{{25, 25}, {5, 35}}
	out, err := Elevate(pts, r.Profile.CRS, r, PiecewiseBilinear, nil)
	is.NoErr(err)
	is.Equal(len(out), 2)
	is.Equal(out[0], [3]float64{25, 25, 12})
	is.Equal(out[1], [3]float64{5, 35, 0})
}

func TestColorRasterFromShapes(t *testing.T) {
	is := is.New(t)

	shapes := []geometry.Polygon{
		{{0, 0}, {20, 0}, {20, 20}, {0, 20}, {0, 0}},
		{{10, 0}, {20, 0}, {20, 20}, {10, 20}, {10, 0}},
	}
	out, err := ColorRasterFromShapes([4]float64{0, 0, 20, 20}, 10, shapes, []float64{1, 2}, "EPSG:5070", -1)
	is.NoErr(err)

	// Bounds round outward to whole pixels.
	is.Equal(out.Profile.Width, 3)
	is.Equal(out.Profile.Height, 2)

	// Later shapes win on overlap: the second shape repaints x >= 10.
	left, rowBot := out.Profile.Transform.ColRow(0, 10)
	right, _ := out.Profile.Transform.ColRow(10, 10)

	is.Equal(out.At(int(rowBot), int(left)), 1.0)
	is.Equal(out.At(int(rowBot), int(right)), 2.0)
}

func TestColorRasterNodata(t *testing.T) {
	is := is.New(t)

	shapes := []geometry.Polygon{
		{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}},
	}
	out, err := ColorRasterFromShapes([4]float64{0, 0, 30, 30}, 10, shapes, []float64{7}, "EPSG:5070", -1)
	is.NoErr(err)

	// A pixel far from the shape keeps nodata.
	col, row := out.Profile.Transform.ColRow(25, 25)
	is.Equal(out.At(int(row), int(col)), -1.0)
}

func TestColorRasterMismatchedColors(t *testing.T) {
	is := is.New(t)

	_, err := ColorRasterFromShapes([4]float64{0, 0, 10, 10}, 10, []geometry.Polygon{}, []float64{1}, "EPSG:5070", -1)
	is.NotNil(err)
}

func TestMaskToShape(t *testing.T) {
	is := is.New(t)

	r := testRaster()
	shape := geometry.Polygon{{0, 20}, {20, 20}, {20, 40}, {0, 40}, {0, 20}}

	masked := MaskToShape(r, shape, -1)

	// Inside the shape (top-left quadrant) values survive.
	is.Equal(masked.At(0, 0), 0.0)
	is.Equal(masked.At(1, 1), 11.0)
	// Outside is nodata.
	is.Equal(masked.At(3, 3), -1.0)
	is.Equal(masked.At(0, 3), -1.0)
}

func TestRasterBounds(t *testing.T) {
	is := is.New(t)

	r := testRaster()
	is.Equal(r.Bounds(), [4]float64{0, 0, 40, 40})
}
