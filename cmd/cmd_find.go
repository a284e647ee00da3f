package cmd

import (
	"fmt"

	"github.com/amanzi/watershed-workflow/sources"
)

type CmdFind struct {
	global *GlobalOptions

	Level int `long:"level" default:"12" description:"Finest unit level in the shapefile"`
}

func init() {
	_, err := parser.AddCommand("find",
		"Find the containing unit",
		"Find the smallest hydrologic unit containing a shape, starting from a hinted unit",
		&CmdFind{global: &globalOpts})
	if err != nil {
		panic(err)
	}
}

func (cmd CmdFind) Usage() string {
	return "hucs.shp shape.shp hint"
}

func (cmd CmdFind) Execute(args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("Options missing, Usage: %s", cmd.Usage())
	}

	e, err := cmd.global.Engine()
	if err != nil {
		return err
	}

	src := &sources.HUCShapefile{
		Path:  args[0],
		CRS:   e.Config.CRS,
		Level: cmd.Level,
	}

	shapes, err := e.GetShapes(args[1], e.Config.CRS)
	if err != nil {
		return fmt.Errorf("Failed to load shape: %s", err)
	}
	if len(shapes) != 1 {
		return fmt.Errorf("Expected a single shape, got %d", len(shapes))
	}

	code, err := e.FindHUC(src, shapes[0], e.Config.CRS, args[2])
	if err != nil {
		return err
	}

	fmt.Println(code)
	return nil
}
