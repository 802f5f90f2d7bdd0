package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
	"github.com/roy3k/household/cmd"
)

func main() {
	// Shell completion runs before flag parsing and exits when invoked by
	// the shell's completion hook.
	datedFlags := map[string]complete.Predictor{
		"d":    predict.Nothing,
		"json": predict.Nothing,
	}
	jsonFlag := map[string]complete.Predictor{
		"json": predict.Nothing,
	}
	completion := &complete.Command{
		Sub: map[string]*complete.Command{
			"networth": {Flags: datedFlags},
			"cashflow": {Flags: jsonFlag},
			"risk":     {Flags: datedFlags},
			"leakage":  {Flags: jsonFlag},
			"review": {Flags: map[string]complete.Predictor{
				"d":             predict.Nothing,
				"json":          predict.Nothing,
				"skip-queue":    predict.Nothing,
				"skip-findings": predict.Nothing,
			}},
			"fmt": {},
			"import": {Flags: map[string]complete.Predictor{
				"spec": predict.Files("*.json"),
				"i":    predict.Files("*.json"),
			}},
		},
		Flags: map[string]complete.Predictor{
			"records": predict.Files("*.jsonl"),
			"config":  predict.Files("*.json"),
			"v":       predict.Nothing,
		},
	}
	completion.Complete("hhops")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
