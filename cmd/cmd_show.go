package cmd

import (
	"fmt"

	"github.com/kr/pretty"

	"github.com/amanzi/watershed-workflow/sources"
)

type CmdShow struct {
	global *GlobalOptions
}

func init() {
	_, err := parser.AddCommand("show",
		"Show configuration or units",
		"Inspect the effective configuration or a hydrologic unit",
		&CmdShow{global: &globalOpts})
	if err != nil {
		panic(err)
	}
}

func (cmd CmdShow) Usage() string {
	return "[config|huc hucs.shp code]"
}

func (cmd CmdShow) Execute(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("Options missing, Usage: %s", cmd.Usage())
	}

	e, err := cmd.global.Engine()
	if err != nil {
		return err
	}

	switch args[0] {
	case "config":
		fmt.Printf("%# v\n", pretty.Formatter(e.Config))
	case "huc":
		if len(args) != 3 {
			return fmt.Errorf("Options missing, Usage: %s", cmd.Usage())
		}

		src := &sources.HUCShapefile{Path: args[1], CRS: e.Config.CRS, Level: len(args[2])}
		p, err := e.GetHUC(src, args[2])
		if err != nil {
			return err
		}

		info := struct {
			Code     string
			Vertices int
			Area     float64
			Bounds   [4]float64
		}{args[2], len(p) - 1, p.Area(), p.Bounds()}
		fmt.Printf("%# v\n", pretty.Formatter(info))
	default:
		return fmt.Errorf("Unknown object: %s", args[0])
	}

	return nil
}
