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

// riskCmd holds the flags for the 'risk' subcommand.
type riskCmd struct {
	date   string
	asJSON bool
}

func (*riskCmd) Name() string     { return "risk" }
func (*riskCmd) Synopsis() string { return "report coverage gaps and the renewal calendar" }
func (*riskCmd) Usage() string {
	return `hhops risk [-d <date>] [-json]

  Compare estimated exposures against held coverage and list upcoming
  policy renewals.
`
}

func (c *riskCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "As-of date for the report. Defaults to today.")
	f.BoolVar(&c.asJSON, "json", false, "Emit the report as JSON instead of markdown.")
}

func (c *riskCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	report, err := household.NewRiskReport(ledger, cfg, asOf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.asJSON {
		return writeJSON(report)
	}
	printMarkdown(renderer.RiskMarkdown(report))
	return subcommands.ExitSuccess
}
