package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
	"github.com/roy3k/household"
)

// importCmd holds the flags for the 'import' subcommand.
type importCmd struct {
	specFile string
	input    string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "imports rows from a third-party JSON export" }
func (*importCmd) Usage() string {
	return `hhops import -spec <spec.json> [-i <export.json>]

  Extracts raw records from a JSON export using the JSONPath expressions
  declared in the import spec, and appends them to the records file.
  Reads the export from stdin when -i is not given.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.specFile, "spec", "", "Path to the import spec (JSON).")
	f.StringVar(&c.input, "i", "", "Path to the export to import. Defaults to stdin.")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.specFile == "" {
		fmt.Fprintln(os.Stderr, "Error: -spec is required")
		return subcommands.ExitUsageError
	}
	specData, err := os.ReadFile(c.specFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not read import spec %q: %v\n", c.specFile, err)
		return subcommands.ExitUsageError
	}
	var spec household.ImportSpec
	if err := json.Unmarshal(specData, &spec); err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not parse import spec %q: %v\n", c.specFile, err)
		return subcommands.ExitUsageError
	}

	var in io.Reader = os.Stdin
	if c.input != "" {
		file, err := os.Open(c.input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: could not open %q: %v\n", c.input, err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		in = file
	}

	rows, err := household.ImportRows(in, spec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	// Open the file in append mode, creating it if it doesn't exist.
	out, err := os.OpenFile(*recordsFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening records file %q: %v\n", *recordsFile, err)
		return subcommands.ExitFailure
	}
	defer out.Close()

	for _, row := range rows {
		if err := household.EncodeRecord(out, row); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing to records file %q: %v\n", *recordsFile, err)
			return subcommands.ExitFailure
		}
	}

	log := Log()
	log.Info().Str("file", *recordsFile).Int("imported", len(rows)).Msg("rows imported")
	return subcommands.ExitSuccess
}
