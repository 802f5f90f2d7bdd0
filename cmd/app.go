// Package cmd implements the CLI application to analyze household records.
package cmd

import (
	"crypto/sha256"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
	"github.com/roy3k/household"
	"github.com/roy3k/household/logger"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&networthCmd{}, "reports")
	c.Register(&cashflowCmd{}, "reports")
	c.Register(&riskCmd{}, "reports")
	c.Register(&leakageCmd{}, "reports")
	c.Register(&reviewCmd{}, "reports")

	c.Register(&fmtCmd{}, "records")
	c.Register(&importCmd{}, "records")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var recordsFile = flag.String("records", "records.jsonl", "Path to the records file (JSONL format)")
var configFile = flag.String("config", "", "Path to a JSON config file overlaying the defaults")
var verbose = flag.Bool("v", false, "Enable debug logging")

// Log returns the application logger. Logs go to stderr, reports to stdout.
func Log() zerolog.Logger {
	return logger.New(*verbose)
}

// LoadConfig builds the engine config: defaults, overlaid with the file
// given by -config when set.
func LoadConfig() (household.Config, error) {
	cfg := household.DefaultConfig()
	if *configFile == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(*configFile)
	if err != nil {
		return cfg, fmt.Errorf("reading config file %q: %w", *configFile, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %q: %w", *configFile, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadLedger reads and normalizes the records file. The source checksum and
// row counts are logged so every run leaves an ingestion audit trail.
func LoadLedger(cfg household.Config) (*household.Ledger, error) {
	f, err := os.Open(*recordsFile)
	if err != nil {
		return nil, fmt.Errorf("opening records file %q: %w", *recordsFile, err)
	}
	defer f.Close()

	sum := sha256.New()
	rows, err := household.DecodeRecords(io.TeeReader(f, sum))
	if err != nil {
		return nil, fmt.Errorf("decoding records file %q: %w", *recordsFile, err)
	}

	ledger, err := household.Normalize(rows, cfg)
	if err != nil {
		return nil, fmt.Errorf("normalizing records: %w", err)
	}

	transactions, snapshots, plans, policies := ledger.Counts()
	log := Log()
	log.Info().
		Str("file", *recordsFile).
		Str("sha256", fmt.Sprintf("%x", sum.Sum(nil))).
		Int("rows", len(rows)).
		Int("transactions", transactions).
		Int("snapshots", snapshots).
		Int("plans", plans).
		Int("policies", policies).
		Int("skipped", len(ledger.Skipped())).
		Msg("records loaded")
	return ledger, nil
}

// asOfDate resolves the -d flag, defaulting to today.
func asOfDate(flagValue string) (household.Date, error) {
	if flagValue == "" {
		return household.Today(), nil
	}
	d, err := household.ParseDate(flagValue)
	if err != nil {
		return household.Date{}, fmt.Errorf("parsing date %q: %w", flagValue, err)
	}
	return d, nil
}

// writeJSON emits a report as indented JSON on stdout.
func writeJSON(v any) subcommands.ExitStatus {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error: encoding report: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
