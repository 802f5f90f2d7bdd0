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

// cashflowCmd holds the flags for the 'cashflow' subcommand.
type cashflowCmd struct {
	asJSON bool
}

func (*cashflowCmd) Name() string     { return "cashflow" }
func (*cashflowCmd) Synopsis() string { return "report plan vs actual flows and allocation" }
func (*cashflowCmd) Usage() string {
	return `hhops cashflow [-json]

  Compare planned against actual flows per category and month, attribute
  each variance to a driver, and show where income is allocated.
`
}

func (c *cashflowCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.asJSON, "json", false, "Emit the report as JSON instead of markdown.")
}

func (c *cashflowCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	report, err := household.NewCashflowReport(ledger, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.asJSON {
		return writeJSON(report)
	}
	printMarkdown(renderer.CashflowMarkdown(report))
	return subcommands.ExitSuccess
}
