package commands

import (
	"github.com/urfave/cli"
)

// Commands lists all sub commands of the agender cli.
var Commands = []cli.Command{
	PrepareCommand,
	TrainCommand,
	EvaluateCommand,
	HistoryCommand,
	ConfigCommand,
}
