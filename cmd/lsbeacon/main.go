package main

import (
	"github.com/alecthomas/kong"

	"github.com/vitaminmoo/lsbeacon/internal/cli"
)

func main() {
	var c cli.CLI
	ctx := kong.Parse(&c,
		kong.Name("lsbeacon"),
		kong.Description("Drive a BLE stimulation device with advertising commands."),
		kong.UsageOnError(),
	)
	err := ctx.Run(&c)
	ctx.FatalIfErrorf(err)
}
