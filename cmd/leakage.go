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

// leakageCmd holds the flags for the 'leakage' subcommand.
type leakageCmd struct {
	asJSON bool
}

func (*leakageCmd) Name() string     { return "leakage" }
func (*leakageCmd) Synopsis() string { return "report recurring charges and spending leaks" }
func (*leakageCmd) Usage() string {
	return `hhops leakage [-json]

  Detect recurring subscriptions, vendor fragmentation and transactions
  that never resolved to a category.
`
}

func (c *leakageCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.asJSON, "json", false, "Emit the report as JSON instead of markdown.")
}

func (c *leakageCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	report, err := household.NewLeakageReport(ledger, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.asJSON {
		return writeJSON(report)
	}
	printMarkdown(renderer.LeakageMarkdown(report))
	return subcommands.ExitSuccess
}
