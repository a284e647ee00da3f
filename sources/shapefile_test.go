package sources

import (
	"io/ioutil"
	"os"
	"path"
	"testing"

	"github.com/cheekybits/is"
	"github.com/jonas-p/go-shp"
)

// Exterior rings are clockwise, per the shapefile convention.
func ring(x0, y0, x1, y1 float64) []shp.Point {
	return []shp.Point{
		{X: x0, Y: y0}, {X: x0, Y: y1}, {X: x1, Y: y1}, {X: x1, Y: y0}, {X: x0, Y: y0},
	}
}

func writeHUCFile(t *testing.T, dir string) string {
	filename := path.Join(dir, "hucs.shp")
	w, err := shp.Create(filename, shp.POLYGON)
	if err != nil {
		t.Fatal(err)
	}
	w.SetFields([]shp.Field{shp.StringField("CODE", 16)})

	units := []struct {
		code string
		ring []shp.Point
	}{
		{"02", ring(0, 0, 20, 20)},
		{"0201", ring(0, 0, 10, 20)},
		{"0202", ring(10, 0, 20, 20)},
	}
	for i, u := range units {
		pl := shp.NewPolyLine([][]shp.Point{u.ring})
		w.Write((*shp.Polygon)(pl))
		w.WriteAttribute(i, 0, u.code)
	}
	w.Close()
	return filename
}

func writeHydroFile(t *testing.T, dir string) string {
	filename := path.Join(dir, "rivers.shp")
	w, err := shp.Create(filename, shp.POLYLINE)
	if err != nil {
		t.Fatal(err)
	}
	w.SetFields([]shp.Field{shp.StringField("CODE", 16)})

	reaches := []struct {
		code   string
		points []shp.Point
	}{
		{"0201", []shp.Point{{X: 5, Y: 12}, {X: 5, Y: 0}}},
		{"0201", []shp.Point{{X: 5, Y: 20}, {X: 5, Y: 12}}},
		{"0202", []shp.Point{{X: 15, Y: 8}, {X: 15, Y: 0}}},
	}
	for i, r := range reaches {
		w.Write(shp.NewPolyLine([][]shp.Point{r.points}))
		w.WriteAttribute(i, 0, r.code)
	}
	w.Close()
	return filename
}

func TestHUCShapefile(t *testing.T) {
	is := is.New(t)

	tmp, err := ioutil.TempDir("", "sources")
	is.NoErr(err)
	defer os.RemoveAll(tmp)

	src := &HUCShapefile{Path: writeHUCFile(t, tmp), CRS: "EPSG:5070", Level: 4}
	is.Equal(src.LowestLevel(), 4)

	f, crs, err := src.GetHUC("0201")
	is.NoErr(err)
	is.Equal(crs, "EPSG:5070")
	code, err := f.PropertyString("code")
	is.NoErr(err)
	is.Equal(code, "0201")
	is.True(f.Geometry.IsPolygon())
	is.Equal(len(f.Geometry.Polygon[0]), 5)

	_, _, err = src.GetHUC("0299")
	is.NotNil(err)

	fc, _, err := src.GetHUCs("02", 4)
	is.NoErr(err)
	is.Equal(len(fc.Features), 2)

	_, _, err = src.GetHUCs("02", 6)
	is.NotNil(err)

	all, _, err := src.GetShapes()
	is.NoErr(err)
	is.Equal(len(all.Features), 3)
}

func TestHydroShapefile(t *testing.T) {
	is := is.New(t)

	tmp, err := ioutil.TempDir("", "sources")
	is.NoErr(err)
	defer os.RemoveAll(tmp)

	filename := writeHydroFile(t, tmp)

	src := &HydroShapefile{Path: filename, CRS: "EPSG:5070", CodeField: 0}
	fc, _, err := src.GetHydro("0201")
	is.NoErr(err)
	is.Equal(len(fc.Features), 2)
	is.True(fc.Features[0].Geometry.IsLineString())

	fc, _, err = src.GetHydro("99")
	is.NoErr(err)
	is.Equal(len(fc.Features), 0)

	// A negative code field serves everything.
	all := &HydroShapefile{Path: filename, CRS: "EPSG:5070", CodeField: -1}
	fc, _, err = all.GetHydro("")
	is.NoErr(err)
	is.Equal(len(fc.Features), 3)
}

func TestMemorySource(t *testing.T) {
	is := is.New(t)

	m := &Memory{CRS: "EPSG:5070"}
	is.Equal(m.LowestLevel(), 0)

	_, _, err := m.GetHUC("02")
	is.NotNil(err)

	fc, _, err := m.GetHydro("02")
	is.NoErr(err)
	is.Equal(len(fc.Features), 0)

	_, err = m.GetRaster([4]float64{}, "EPSG:5070")
	is.NotNil(err)
}
