package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Serve    ServeCmd         `cmd:"" help:"Host a table room over WebSocket"`
	Simulate SimulateCmd      `cmd:"" help:"Run hands between built-in agents and print standings"`
	Odds     OddsCmd          `cmd:"" help:"Estimate showdown equity for a hand"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("tablestakes"),
		kong.Description("Real-money-style home game poker room"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
