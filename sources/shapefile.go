package sources

import (
	"fmt"
	"log"
	"reflect"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/go.geojson"

	"github.com/amanzi/watershed-workflow/warp"
)

// HUCShapefile serves hydrologic unit polygons from a shapefile on disk.
// CodeField indexes the attribute column holding the HUC code.
type HUCShapefile struct {
	Path      string
	CRS       warp.CRS
	CodeField int
	Level     int
}

func (s *HUCShapefile) LowestLevel() int {
	return s.Level
}

func (s *HUCShapefile) GetHUC(code string) (*geojson.Feature, warp.CRS, error) {
	fc, _, err := s.scan(func(c string) bool { return c == code })
	if err != nil {
		return nil, "", err
	}
	if len(fc.Features) == 0 {
		return nil, "", fmt.Errorf("No unit %s in %s", code, s.Path)
	}
	if len(fc.Features) > 1 {
		return nil, "", fmt.Errorf("Multiple units %s in %s", code, s.Path)
	}
	return fc.Features[0], s.CRS, nil
}

func (s *HUCShapefile) GetHUCs(code string, level int) (*geojson.FeatureCollection, warp.CRS, error) {
	if level > s.Level {
		return nil, "", fmt.Errorf("Level %d units not available, %s bottoms out at level %d", level, s.Path, s.Level)
	}
	fc, _, err := s.scan(func(c string) bool {
		return len(c) == level && strings.HasPrefix(c, code)
	})
	if err != nil {
		return nil, "", err
	}
	return fc, s.CRS, nil
}

// GetShapes returns every polygon in the file, codes ignored.
func (s *HUCShapefile) GetShapes() (*geojson.FeatureCollection, warp.CRS, error) {
	return s.scan(func(string) bool { return true })
}

// scan walks the whole file, keeping units whose code passes the filter.
func (s *HUCShapefile) scan(keep func(code string) bool) (*geojson.FeatureCollection, warp.CRS, error) {
	shape, err := shp.Open(s.Path)
	if err != nil {
		return nil, "", fmt.Errorf("Failed to open %s: %s", s.Path, err)
	}
	defer shape.Close()

	log.Printf("Parsing %s", s.Path)

	fc := geojson.NewFeatureCollection()
	for shape.Next() {
		n, p := shape.Shape()
		poly, ok := p.(*shp.Polygon)
		if !ok {
			return nil, "", fmt.Errorf("Non-polygon found: %s, %v", reflect.TypeOf(p).Elem(), p.BBox())
		}

		code := shape.ReadAttribute(n, s.CodeField)
		if !keep(code) {
			continue
		}

		f := polygonFeature(poly)
		if f == nil {
			continue
		}
		f.SetProperty("code", code)
		fc.AddFeature(f)
	}

	log.Printf("Kept %d units", len(fc.Features))
	return fc, s.CRS, nil
}

// HydroShapefile serves river reaches from a polyline shapefile.  CodeField
// indexes the attribute column holding the HUC code of each reach; a
// negative CodeField serves the whole file regardless of the requested unit.
type HydroShapefile struct {
	Path      string
	CRS       warp.CRS
	CodeField int
}

func (s *HydroShapefile) GetHydro(code string) (*geojson.FeatureCollection, warp.CRS, error) {
	shape, err := shp.Open(s.Path)
	if err != nil {
		return nil, "", fmt.Errorf("Failed to open %s: %s", s.Path, err)
	}
	defer shape.Close()

	log.Printf("Parsing %s", s.Path)

	fc := geojson.NewFeatureCollection()
	for shape.Next() {
		n, p := shape.Shape()
		line, ok := p.(*shp.PolyLine)
		if !ok {
			return nil, "", fmt.Errorf("Non-polyline found: %s, %v", reflect.TypeOf(p).Elem(), p.BBox())
		}

		if s.CodeField >= 0 {
			c := shape.ReadAttribute(n, s.CodeField)
			if !strings.HasPrefix(c, code) {
				continue
			}
		}

		for _, part := range splitParts(line.Parts, line.Points) {
			if len(part) < 2 {
				continue
			}
			fc.AddFeature(geojson.NewLineStringFeature(pointsToCoords(part)))
		}
	}

	log.Printf("Kept %d reaches", len(fc.Features))
	return fc, s.CRS, nil
}

// polygonFeature converts a shapefile polygon record.  Clockwise parts are
// exterior rings, counter-clockwise parts are holes; holes are dropped since
// units carry exterior boundaries only.
func polygonFeature(poly *shp.Polygon) *geojson.Feature {
	rings := make([][][]float64, 0)
	for _, points := range splitParts(poly.Parts, poly.Points) {
		if len(points) < 3 {
			continue
		}
		if ringArea(points) < 0 {
			continue
		}
		ring := pointsToCoords(points)
		if !samePoint(ring[0], ring[len(ring)-1]) {
			ring = append(ring, ring[0])
		}
		rings = append(rings, ring)
	}

	switch len(rings) {
	case 0:
		return nil
	case 1:
		return geojson.NewPolygonFeature(rings)
	default:
		multi := make([][][][]float64, len(rings))
		for i, r := range rings {
			multi[i] = [][][]float64{r}
		}
		return geojson.NewMultiPolygonFeature(multi...)
	}
}

func splitParts(parts []int32, points []shp.Point) [][]shp.Point {
	out := make([][]shp.Point, 0, len(parts))
	for i, first := range parts {
		last := len(points)
		if i < len(parts)-1 {
			last = int(parts[i+1])
		}
		out = append(out, points[first:last])
	}
	return out
}

func pointsToCoords(points []shp.Point) [][]float64 {
	out := make([][]float64, len(points))
	for i, p := range points {
		out[i] = []float64{p.X, p.Y}
	}
	return out
}

func samePoint(a, b []float64) bool {
	return a[0] == b[0] && a[1] == b[1]
}

// Shapefiles encode exterior rings clockwise, which the shoelace formula
// reads as positive area here.
func ringArea(points []shp.Point) float64 {
	area := 0.0
	n := len(points)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += points[i].X * points[j].Y
		area -= points[j].X * points[i].Y
	}
	return -area / 2
}
