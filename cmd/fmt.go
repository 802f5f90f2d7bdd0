package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/roy3k/household"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "rewrites the records file in canonical form"
}
func (*fmtCmd) Usage() string {
	return `hhops fmt

  Reads the records file and writes it back sorted by kind, date and id.
  Rows are not interpreted or altered, only reordered, so formatting an
  already canonical file is a no-op.
`
}

func (*fmtCmd) SetFlags(f *flag.FlagSet) {}

func (*fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	data, err := os.ReadFile(*recordsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not read records file %q: %v\n", *recordsFile, err)
		return subcommands.ExitFailure
	}

	rows, err := household.DecodeRecords(bytes.NewReader(data))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	var out bytes.Buffer
	if err := household.EncodeRecords(&out, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := os.WriteFile(*recordsFile, out.Bytes(), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not write records file %q: %v\n", *recordsFile, err)
		return subcommands.ExitFailure
	}

	log := Log()
	log.Info().Str("file", *recordsFile).Int("rows", len(rows)).Msg("records formatted")
	return subcommands.ExitSuccess
}
