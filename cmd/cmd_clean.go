package cmd

import (
	"fmt"
	"io/ioutil"
	"log"

	"github.com/paulmach/go.geojson"

	"github.com/amanzi/watershed-workflow/geometry"
	"github.com/amanzi/watershed-workflow/rivertree"
	"github.com/amanzi/watershed-workflow/sources"
	"github.com/amanzi/watershed-workflow/splithucs"
)

type CmdClean struct {
	global *GlobalOptions
}

func init() {
	_, err := parser.AddCommand("clean",
		"Clean watershed topology",
		"Lower unit boundaries into split form, build the river forest and run the cleaning pipeline",
		&CmdClean{global: &globalOpts})
	if err != nil {
		panic(err)
	}
}

func (cmd CmdClean) Usage() string {
	return "hucs.shp rivers.shp [out.geojson]"
}

func (cmd CmdClean) Execute(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("Options missing, Usage: %s", cmd.Usage())
	}

	e, err := cmd.global.Engine()
	if err != nil {
		return err
	}

	hucs, err := e.GetSplitFormShapes(args[0], e.Config.CRS)
	if err != nil {
		return fmt.Errorf("Failed to load units: %s", err)
	}

	hydro := &sources.HydroShapefile{Path: args[1], CRS: e.Config.CRS, CodeField: -1}
	reaches, err := e.GetReaches(hydro, "")
	if err != nil {
		return fmt.Errorf("Failed to load rivers: %s", err)
	}

	rivers, err := e.SimplifyAndPrune(hucs, reaches)
	if err != nil {
		return fmt.Errorf("Failed to clean: %s", err)
	}

	log.Printf("Cleaned %d units into %d boundary pieces and %d rivers",
		hucs.Len(), hucs.NumPieces(), len(rivers))

	if len(args) < 3 {
		return nil
	}
	return exportCleaned(args[2], hucs, rivers)
}

// exportCleaned writes the cleaned boundary pieces and reaches as GeoJSON.
func exportCleaned(filename string, hucs *splithucs.SplitHUCs, rivers []*rivertree.Tree) error {
	fc := geojson.NewFeatureCollection()
	for i := 0; i < hucs.NumPieces(); i++ {
		f := geojson.NewLineStringFeature(rawCoords(hucs.Piece(i)))
		f.SetProperty("kind", "boundary")
		fc.AddFeature(f)
	}
	for _, reach := range rivertree.ForestToList(rivers) {
		f := geojson.NewLineStringFeature(rawCoords(reach))
		f.SetProperty("kind", "reach")
		fc.AddFeature(f)
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		return err
	}
	return ioutil.WriteFile(filename, data, 0644)
}

func rawCoords(l geometry.LineString) [][]float64 {
	out := make([][]float64, len(l))
	for i, c := range l {
		out[i] = []float64{c[0], c[1]}
	}
	return out
}
