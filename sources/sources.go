// Package sources defines where watershed inputs come from.  A source hands
// back GeoJSON features tagged with the CRS they are expressed in; the
// workflow engine converts, reprojects and rounds from there.  Hydrologic
// units are addressed by their HUC code, a string of digits whose length is
// the level (2 digits per level of the hierarchy).
package sources

import (
	"github.com/paulmach/go.geojson"

	"github.com/amanzi/watershed-workflow/rasters"
	"github.com/amanzi/watershed-workflow/warp"
)

// HUCSource serves hydrologic unit boundary polygons.
type HUCSource interface {
	// GetHUC returns the single unit with the given code.
	GetHUC(code string) (*geojson.Feature, warp.CRS, error)

	// GetHUCs returns all units at the given level contained in the unit
	// with the given code.
	GetHUCs(code string, level int) (*geojson.FeatureCollection, warp.CRS, error)

	// LowestLevel is the finest level this source can serve.
	LowestLevel() int
}

// HydrographySource serves river reaches.
type HydrographySource interface {
	// GetHydro returns the reaches within the unit with the given code.
	GetHydro(code string) (*geojson.FeatureCollection, warp.CRS, error)
}

// RasterSource serves gridded data covering a bounding box.
type RasterSource interface {
	GetRaster(bounds [4]float64, crs warp.CRS) (*rasters.Raster, error)
}
