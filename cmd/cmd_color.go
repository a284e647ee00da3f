package cmd

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"strconv"

	"github.com/amanzi/watershed-workflow/rasters"
)

type CmdColor struct {
	global *GlobalOptions

	Nodata float64 `long:"nodata" default:"-1" description:"Nodata value for uncovered pixels"`
}

func init() {
	_, err := parser.AddCommand("color",
		"Paint shapes onto a raster",
		"Rasterize a shapefile of polygons, one color per shape in file order",
		&CmdColor{global: &globalOpts})
	if err != nil {
		panic(err)
	}
}

func (cmd CmdColor) Usage() string {
	return "shapes.shp pixelsize out.json"
}

func (cmd CmdColor) Execute(args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("Options missing, Usage: %s", cmd.Usage())
	}

	dx, err := strconv.ParseFloat(args[1], 64)
	if err != nil || dx <= 0 {
		return fmt.Errorf("Invalid pixel size: %s", args[1])
	}

	e, err := cmd.global.Engine()
	if err != nil {
		return err
	}

	shapes, err := e.GetShapes(args[0], e.Config.CRS)
	if err != nil {
		return fmt.Errorf("Failed to load shapes: %s", err)
	}
	if len(shapes) == 0 {
		return fmt.Errorf("No shapes in %s", args[0])
	}

	bounds := shapes[0].Bounds()
	colors := make([]float64, len(shapes))
	for i, s := range shapes {
		colors[i] = float64(i + 1)
		if i > 0 {
			b := s.Bounds()
			bounds = [4]float64{
				minF(bounds[0], b[0]), minF(bounds[1], b[1]),
				maxF(bounds[2], b[2]), maxF(bounds[3], b[3]),
			}
		}
	}

	out, err := rasters.ColorRasterFromShapes(bounds, dx, shapes, colors, e.Config.CRS, cmd.Nodata)
	if err != nil {
		return fmt.Errorf("Failed to rasterize: %s", err)
	}

	data, err := json.Marshal(out)
	if err != nil {
		return err
	}
	err = ioutil.WriteFile(args[2], data, 0644)
	if err != nil {
		return err
	}

	log.Printf("Wrote %dx%d raster to %s", out.Profile.Width, out.Profile.Height, args[2])
	return nil
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
