package main

import (
	"github.com/alecthomas/kong"
	"github.com/arnavsurve/sidrastep/cmd/cli"
)

var CLI struct {
	Run  cli.RunCmd  `cmd:"" default:"withargs" help:"Download the SIDRA table as CSV."`
	Lint cli.LintCmd `cmd:"" help:"Validate the configuration without launching a browser."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("sidrastep"),
		kong.Description("Browser automation that downloads SIDRA/IBGE table 1209 as CSV."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
