package rasters

import (
	"errors"
	"log"
	"math"
	"sort"

	"github.com/Workiva/go-datastructures/augmentedtree"

	"github.com/amanzi/watershed-workflow/geometry"
	"github.com/amanzi/watershed-workflow/warp"
)

// ColorRasterFromShapes paints shapes onto a fresh grid sized to bounds
// rounded outward to whole pixels.  Shapes are painted in input order, so
// later shapes override earlier ones where they overlap; pixels no shape
// covers keep nodata.  Paint by numbers.
func ColorRasterFromShapes(bounds [4]float64, dx float64, shapes []geometry.Polygon, colors []float64, crs warp.CRS, nodata float64) (*Raster, error) {
	if len(shapes) != len(colors) {
		return nil, errors.New("Need exactly one color per shape")
	}
	if len(shapes) == 0 {
		return nil, errors.New("No shapes to color")
	}

	x0 := math.Round(bounds[0] - dx/2)
	y1 := math.Round(bounds[3] + dx/2)
	width := int(math.Ceil((bounds[2] + dx/2 - x0) / dx))
	height := int(math.Ceil((y1 - bounds[1] - dx/2) / dx))

	log.Println("Coloring shapes onto raster:")
	log.Printf("  bounds = %v", bounds)
	log.Printf("  pixel size = %g", dx)
	log.Printf("  width = %d, height = %d", width, height)

	out := New(Profile{
		CRS:       crs,
		Transform: FromOrigin(x0, y1, dx, dx),
		Width:     width,
		Height:    height,
		Nodata:    nodata,
	})

	for i, shape := range shapes {
		paint(out, shape, colors[i])
	}
	return out, nil
}

// MaskToShape returns a copy of the raster with every pixel whose center
// falls outside the shape replaced by nodata.
func MaskToShape(raster *Raster, shape geometry.Polygon, nodata float64) *Raster {
	profile := raster.Profile
	profile.Nodata = nodata

	mask := New(Profile{Width: profile.Width, Height: profile.Height, Transform: profile.Transform})
	paint(mask, shape, 1)

	out := New(profile)
	for i, v := range raster.Data {
		if mask.Data[i] == 1 {
			out.Data[i] = v
		}
	}
	return out
}

// paint fills the pixels whose centers lie inside the ring, scanline by
// scanline.  An interval index over edge row spans keeps each scanline from
// visiting every edge.
func paint(out *Raster, shape geometry.Polygon, color float64) {
	if len(shape) < 4 {
		return
	}

	index := augmentedtree.New(1)
	for i := 0; i < len(shape)-1; i++ {
		e := newEdgeInterval(uint64(i), shape[i], shape[i+1], out.Profile.Transform)
		if e != nil {
			index.Add(e)
		}
	}

	for row := 0; row < out.Profile.Height; row++ {
		_, y := out.Profile.Transform.XY(0, float64(row)+0.5)

		crossings := []float64{}
		for _, hit := range index.Query(rowQuery(row)) {
			e := hit.(*edgeInterval)
			// Half-open rule so a crossing at a shared vertex counts
			// exactly once.
			if (e.a[1] > y) != (e.b[1] > y) {
				x := e.a[0] + (y-e.a[1])*(e.b[0]-e.a[0])/(e.b[1]-e.a[1])
				crossings = append(crossings, x)
			}
		}
		if len(crossings) < 2 {
			continue
		}
		sort.Float64s(crossings)

		for k := 0; k+1 < len(crossings); k += 2 {
			lo, _ := out.Profile.Transform.ColRow(crossings[k], y)
			hi, _ := out.Profile.Transform.ColRow(crossings[k+1], y)

			c0 := clampInt(int(math.Ceil(lo-0.5)), 0, out.Profile.Width)
			c1 := clampInt(int(math.Ceil(hi-0.5)), 0, out.Profile.Width)
			for c := c0; c < c1; c++ {
				out.Set(row, c, color)
			}
		}
	}
}

// edgeInterval indexes one polygon edge by the row span its y-extent
// covers.
type edgeInterval struct {
	id           uint64
	rowLo, rowHi int64
	a, b         geometry.Coordinate
}

func newEdgeInterval(id uint64, a, b geometry.Coordinate, t Affine) *edgeInterval {
	if a[1] == b[1] {
		// Horizontal edges never cross a scanline.
		return nil
	}

	_, r0 := t.ColRow(a[0], a[1])
	_, r1 := t.ColRow(b[0], b[1])
	lo := int64(math.Floor(math.Min(r0, r1)))
	hi := int64(math.Ceil(math.Max(r0, r1)))
	return &edgeInterval{id: id, rowLo: lo, rowHi: hi, a: a, b: b}
}

func (e *edgeInterval) LowAtDimension(d uint64) int64  { return e.rowLo }
func (e *edgeInterval) HighAtDimension(d uint64) int64 { return e.rowHi }

func (e *edgeInterval) OverlapsAtDimension(i augmentedtree.Interval, d uint64) bool {
	return e.rowHi >= i.LowAtDimension(d) && e.rowLo <= i.HighAtDimension(d)
}

func (e *edgeInterval) ID() uint64 { return e.id }

// rowQuery is the degenerate interval covering a single scanline.
type rowQuery int64

func (r rowQuery) LowAtDimension(d uint64) int64  { return int64(r) }
func (r rowQuery) HighAtDimension(d uint64) int64 { return int64(r) }

func (r rowQuery) OverlapsAtDimension(i augmentedtree.Interval, d uint64) bool {
	return int64(r) >= i.LowAtDimension(d) && int64(r) <= i.HighAtDimension(d)
}

func (r rowQuery) ID() uint64 { return uint64(r) }
