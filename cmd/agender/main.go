package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/photoprism/agender/internal/commands"
	"github.com/photoprism/agender/internal/config"
	"github.com/photoprism/agender/internal/event"
)

var version = "development"
var log = event.Log

func main() {
	app := cli.NewApp()
	app.Name = "agender"
	app.Usage = "Age and gender estimation: cross-validated training and UTKFace benchmark"
	app.Version = version
	app.EnableBashCompletion = true
	app.Flags = config.GlobalFlags
	app.Commands = commands.Commands

	if err := app.Run(os.Args); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
