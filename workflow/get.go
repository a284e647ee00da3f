package workflow

import (
	"fmt"
	"log"

	"github.com/amanzi/watershed-workflow/geometry"
	"github.com/amanzi/watershed-workflow/hydrography"
	"github.com/amanzi/watershed-workflow/rasters"
	"github.com/amanzi/watershed-workflow/rivertree"
	"github.com/amanzi/watershed-workflow/sources"
	"github.com/amanzi/watershed-workflow/splithucs"
	"github.com/amanzi/watershed-workflow/triangulation"
	"github.com/amanzi/watershed-workflow/warp"
)

// Engine ties a config and a reprojector to the high-level entry points.
type Engine struct {
	Config *Config
	Reproj warp.Reprojector
}

func New(config *Config) *Engine {
	if config == nil {
		config = NewConfig()
	}
	return &Engine{Config: config}
}

func (e *Engine) reprojector() warp.Reprojector {
	if e.Reproj == nil {
		return warp.Identity{}
	}
	return e.Reproj
}

// GetHUC fetches a single hydrologic unit boundary in the working CRS.
func (e *Engine) GetHUC(src sources.HUCSource, code string) (geometry.Polygon, error) {
	f, crs, err := src.GetHUC(code)
	if err != nil {
		return nil, fmt.Errorf("Failed to fetch unit %s: %s", code, err)
	}

	polys, err := polygonsFromFeature(f)
	if err != nil {
		return nil, fmt.Errorf("Failed to convert unit %s: %s", code, err)
	}
	if len(polys) != 1 {
		return nil, fmt.Errorf("Unit %s is not a single polygon", code)
	}

	coords, err := e.normalize(polys[0], crs)
	if err != nil {
		return nil, err
	}
	return geometry.Polygon(coords), nil
}

// GetHUCs fetches all level-N units within the given unit, in the working
// CRS.
func (e *Engine) GetHUCs(src sources.HUCSource, code string, level int) ([]geometry.Polygon, error) {
	units, err := e.getUnits(src, code, level)
	if err != nil {
		return nil, err
	}

	out := make([]geometry.Polygon, len(units))
	for i, u := range units {
		out[i] = u.shape
	}
	return out, nil
}

type unit struct {
	code  string
	shape geometry.Polygon
}

func (e *Engine) getUnits(src sources.HUCSource, code string, level int) ([]unit, error) {
	fc, crs, err := src.GetHUCs(code, level)
	if err != nil {
		return nil, fmt.Errorf("Failed to fetch units in %s: %s", code, err)
	}

	log.Printf("Loading %d units at level %d in %s", len(fc.Features), level, code)

	out := make([]unit, 0, len(fc.Features))
	for i, f := range fc.Features {
		polys, err := polygonsFromFeature(f)
		if err != nil {
			return nil, fmt.Errorf("Failed to convert unit %d in %s: %s", i, code, err)
		}
		if len(polys) != 1 {
			return nil, fmt.Errorf("Unit %d in %s is not a single polygon", i, code)
		}

		coords, err := e.normalize(polys[0], crs)
		if err != nil {
			return nil, err
		}

		c, _ := f.PropertyString("code")
		out = append(out, unit{code: c, shape: geometry.Polygon(coords)})
	}
	return out, nil
}

// GetSplitFormHUCs fetches the level-N units within a unit and lowers them
// into split form.
func (e *Engine) GetSplitFormHUCs(src sources.HUCSource, code string, level int) (*splithucs.SplitHUCs, error) {
	polys, err := e.GetHUCs(src, code, level)
	if err != nil {
		return nil, err
	}
	return splithucs.New(polys)
}

// GetShapes loads every polygon from a shapefile in the working CRS.
func (e *Engine) GetShapes(path string, crs warp.CRS) ([]geometry.Polygon, error) {
	src := &sources.HUCShapefile{Path: path, CRS: crs}
	fc, _, err := src.GetShapes()
	if err != nil {
		return nil, err
	}

	out := make([]geometry.Polygon, 0, len(fc.Features))
	for i, f := range fc.Features {
		polys, err := polygonsFromFeature(f)
		if err != nil {
			return nil, fmt.Errorf("Failed to convert shape %d: %s", i, err)
		}
		for _, p := range polys {
			coords, err := e.normalize(p, crs)
			if err != nil {
				return nil, err
			}
			out = append(out, geometry.Polygon(coords))
		}
	}
	return out, nil
}

// GetSplitFormShapes loads a shapefile of polygons and lowers them into
// split form.
func (e *Engine) GetSplitFormShapes(path string, crs warp.CRS) (*splithucs.SplitHUCs, error) {
	polys, err := e.GetShapes(path, crs)
	if err != nil {
		return nil, err
	}
	return splithucs.New(polys)
}

// GetReaches fetches the reaches within a unit, merges connected
// non-branching reaches and drops implausibly long ones.
func (e *Engine) GetReaches(src sources.HydrographySource, code string) (geometry.MultiLine, error) {
	fc, crs, err := src.GetHydro(code)
	if err != nil {
		return nil, fmt.Errorf("Failed to fetch reaches in %s: %s", code, err)
	}

	lines := geometry.MultiLine{}
	for i, f := range fc.Features {
		ls, err := linesFromFeature(f)
		if err != nil {
			return nil, fmt.Errorf("Failed to convert reach %d in %s: %s", i, code, err)
		}
		lines = append(lines, ls...)
	}

	log.Printf("Loaded %d reach segments in %s", len(lines), code)

	lines, err = mergeReaches(lines)
	if err != nil {
		return nil, fmt.Errorf("Failed to merge reaches: %s", err)
	}

	if max := e.Config.MaxReachLength; max > 0 {
		kept := lines[:0]
		for _, l := range lines {
			if l.Length() <= max {
				kept = append(kept, l)
			}
		}
		if len(kept) < len(lines) {
			log.Printf("Dropped %d reaches longer than %g", len(lines)-len(kept), max)
		}
		lines = kept
	}

	out := make(geometry.MultiLine, len(lines))
	for i, l := range lines {
		coords, err := e.normalize(l, crs)
		if err != nil {
			return nil, err
		}
		out[i] = geometry.LineString(coords)
	}
	return out, nil
}

// mergeReaches joins reach segments that meet end to end without branching.
func mergeReaches(lines geometry.MultiLine) (geometry.MultiLine, error) {
	if len(lines) < 2 {
		return lines, nil
	}

	g, err := geometry.MultiLineToGeos(lines)
	if err != nil {
		return nil, err
	}
	merged, err := g.LineMerge()
	if err != nil {
		return nil, err
	}
	return geometry.LinesFromGeos(merged)
}

// SimplifyAndPrune runs the topology cleaning pipeline with the configured
// tolerances.
func (e *Engine) SimplifyAndPrune(hucs *splithucs.SplitHUCs, reaches geometry.MultiLine) ([]*rivertree.Tree, error) {
	return hydrography.SimplifyAndPrune(hucs, reaches, e.Config.CleanOptions())
}

// Triangulate meshes a cleaned unit with the configured refinement.
func (e *Engine) Triangulate(hucs *splithucs.SplitHUCs, rivers []*rivertree.Tree, kernel triangulation.Kernel, opts *triangulation.Options) (*triangulation.Mesh, error) {
	return triangulation.Triangulate(hucs, rivers, kernel, e.Config.RefineArgs(), opts)
}

// GetRasterOnShape fetches the raster covering a shape's bounding box.
func (e *Engine) GetRasterOnShape(src sources.RasterSource, shape geometry.Polygon) (*rasters.Raster, error) {
	return src.GetRaster(shape.Bounds(), e.Config.CRS)
}

// GetMaskedRasterOnShape fetches the raster covering a shape and blanks
// every pixel outside it.
func (e *Engine) GetMaskedRasterOnShape(src sources.RasterSource, shape geometry.Polygon) (*rasters.Raster, error) {
	r, err := e.GetRasterOnShape(src, shape)
	if err != nil {
		return nil, err
	}
	return rasters.MaskToShape(r, shape, r.Profile.Nodata), nil
}

// ElevateMesh samples a DEM under every mesh vertex.
func (e *Engine) ElevateMesh(mesh *triangulation.Mesh, dem *rasters.Raster) ([][3]float64, error) {
	return rasters.Elevate(mesh.Vertices, e.Config.CRS, dem, rasters.PiecewiseBilinear, e.reprojector())
}
