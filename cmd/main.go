package cmd

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/amanzi/watershed-workflow/workflow"
)

type GlobalOptions struct {
	Config string `short:"c" long:"config" description:"Config file path"`
}

var globalOpts = GlobalOptions{}
var parser = flags.NewParser(&globalOpts, flags.HelpFlag|flags.PassDoubleDash)

func Run() error {
	_, err := parser.Parse()
	if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
		parser.WriteHelp(os.Stdout)
		return nil
	}
	return err
}

func (g *GlobalOptions) Engine() (*workflow.Engine, error) {
	if g.Config == "" {
		return workflow.New(nil), nil
	}

	cfg, err := workflow.LoadConfig(g.Config)
	if err != nil {
		return nil, fmt.Errorf("Failed to load config: %s", err)
	}
	return workflow.New(cfg), nil
}
