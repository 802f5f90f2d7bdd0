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

// reviewCmd holds the flags for the 'review' subcommand.
type reviewCmd struct {
	date         string
	asJSON       bool
	skipQueue    bool
	skipFindings bool
}

func (*reviewCmd) Name() string     { return "review" }
func (*reviewCmd) Synopsis() string { return "run every report over the same records" }
func (*reviewCmd) Usage() string {
	return `hhops review [-d <date>] [-json]

  Run the balance, cashflow, risk and leakage reports over the same
  records and render them as one document. The same records and config
  always produce the same output.
`
}

func (c *reviewCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "As-of date for the review. Defaults to today.")
	f.BoolVar(&c.asJSON, "json", false, "Emit the review as JSON instead of markdown.")
	f.BoolVar(&c.skipQueue, "skip-queue", false, "Do not render the integrity queue section.")
	f.BoolVar(&c.skipFindings, "skip-findings", false, "Do not render the leakage findings section.")
}

func (c *reviewCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	review, err := household.NewReview(ledger, cfg, asOf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.asJSON {
		if err := household.EncodeReview(os.Stdout, review); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.RenderReview(review, renderer.ReviewRenderOptions{
		SkipQueue:    c.skipQueue,
		SkipFindings: c.skipFindings,
	}))
	return subcommands.ExitSuccess
}
