package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/roy3k/household"
	"github.com/roy3k/household/renderer"
)

// networthCmd holds the flags for the 'networth' subcommand.
type networthCmd struct {
	date   string
	asJSON bool
}

func (*networthCmd) Name() string     { return "networth" }
func (*networthCmd) Synopsis() string { return "report net worth history and the integrity queue" }
func (*networthCmd) Usage() string {
	return `hhops networth [-d <date>] [-json]

  Report the net worth trajectory with confidence bands, and every data
  quality issue queued for review.
`
}

func (c *networthCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "As-of date for the report. Defaults to today.")
	f.BoolVar(&c.asJSON, "json", false, "Emit the report as JSON instead of markdown.")
}

func (c *networthCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	asOf, err := asOfDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	ledger, err := LoadLedger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	report, err := household.NewBalanceReport(ledger, cfg, asOf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.asJSON {
		return writeJSON(report)
	}
	printMarkdown(renderer.BalanceMarkdown(report))
	return subcommands.ExitSuccess
}
