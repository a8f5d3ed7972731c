// Command cps maintains the price history of a trading card collection.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/cardprices/cmd"
	"github.com/etnz/cardprices/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	completion().Complete("cps")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the command line for shell completion.
func completion() *complete.Command {
	topics, _ := docs.GetAllTopics()
	snapshots := predict.Or(predict.Files("*.json"), predict.Files("*.yaml"), predict.Files("*.yml"))
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"matrix-file":   predict.Files("*.xlsx"),
			"snapshot-file": snapshots,
			"v":             predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"update": {Flags: map[string]complete.Predictor{
				"s":      snapshots,
				"policy": predict.Set{"reject", "reuse", "allow-duplicate"},
			}},
			"colorize": {},
			"scrape":   {Flags: map[string]complete.Predictor{"update": predict.Nothing}},
			"show": {Flags: map[string]complete.Predictor{
				"from": predict.Something,
				"to":   predict.Something,
			}},
			"history": {Flags: map[string]complete.Predictor{"c": predict.Something}},
			"topic": {
				Flags: map[string]complete.Predictor{"l": predict.Nothing},
				Args:  predict.Set(append(topics, "readme", "*")),
			},
			"help":     {},
			"flags":    {},
			"commands": {},
		},
	}
}
