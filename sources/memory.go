package sources

import (
	"fmt"
	"sort"
	"strings"

	"github.com/paulmach/go.geojson"

	"github.com/amanzi/watershed-workflow/rasters"
	"github.com/amanzi/watershed-workflow/warp"
)

// Memory serves features already held in memory, keyed by HUC code.  It
// backs tests and pipelines whose inputs were assembled elsewhere.
type Memory struct {
	CRS    warp.CRS
	HUCs   map[string]*geojson.Feature
	Hydro  map[string]*geojson.FeatureCollection
	Raster *rasters.Raster
}

func (m *Memory) LowestLevel() int {
	level := 0
	for code := range m.HUCs {
		if len(code) > level {
			level = len(code)
		}
	}
	return level
}

func (m *Memory) GetHUC(code string) (*geojson.Feature, warp.CRS, error) {
	f, ok := m.HUCs[code]
	if !ok {
		return nil, "", fmt.Errorf("No unit %s", code)
	}
	return f, m.CRS, nil
}

func (m *Memory) GetHUCs(code string, level int) (*geojson.FeatureCollection, warp.CRS, error) {
	codes := make([]string, 0, len(m.HUCs))
	for c := range m.HUCs {
		if len(c) == level && strings.HasPrefix(c, code) {
			codes = append(codes, c)
		}
	}
	sort.Strings(codes)

	fc := geojson.NewFeatureCollection()
	for _, c := range codes {
		fc.AddFeature(m.HUCs[c])
	}
	return fc, m.CRS, nil
}

func (m *Memory) GetHydro(code string) (*geojson.FeatureCollection, warp.CRS, error) {
	fc, ok := m.Hydro[code]
	if !ok {
		return geojson.NewFeatureCollection(), m.CRS, nil
	}
	return fc, m.CRS, nil
}

func (m *Memory) GetRaster(bounds [4]float64, crs warp.CRS) (*rasters.Raster, error) {
	if m.Raster == nil {
		return nil, fmt.Errorf("No raster loaded")
	}
	if !warp.Equal(crs, m.Raster.Profile.CRS) {
		return nil, fmt.Errorf("Raster in %s, requested %s", m.Raster.Profile.CRS, crs)
	}
	return m.Raster, nil
}
