package household

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// kindRank positions record kinds in the canonical file order: snapshots
// first, then register rows, plans and policies.
func kindRank(kind RecordKind) int {
	switch kind {
	case RecordSnapshot:
		return 0
	case RecordRegister:
		return 1
	case RecordPlan:
		return 2
	case RecordPolicy:
		return 3
	}
	return 4
}

// DecodeRecords reads raw records from a stream of JSONL data. Lines are
// kept as-is: no field is parsed or validated here, that is the
// normalizer's job.
func DecodeRecords(r io.Reader) ([]RawRecord, error) {
	var rows []RawRecord
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}
		var row RawRecord
		if err := json.Unmarshal(lineBytes, &row); err != nil {
			return nil, fmt.Errorf("could not decode record on line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return rows, nil
}

// EncodeRecord marshals a single raw record and writes it followed by a
// newline, in JSONL format.
func EncodeRecord(w io.Writer, row RawRecord) error {
	data, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

// EncodeRecords persists records to an io.Writer in canonical JSONL form:
// stable-sorted by kind, then date, then id, so re-encoding an already
// canonical file is a no-op.
func EncodeRecords(w io.Writer, rows []RawRecord) error {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b RawRecord) int {
		if c := kindRank(a.Kind) - kindRank(b.Kind); c != 0 {
			return c
		}
		if c := compareRawDates(a, b); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	for _, row := range sorted {
		if err := EncodeRecord(w, row); err != nil {
			return err
		}
	}
	return nil
}

// compareRawDates orders records by their date-ish field. Unparseable
// dates sort first so they surface at the top of the file.
func compareRawDates(a, b RawRecord) int {
	da, db := rawDate(a), rawDate(b)
	if da.Before(db) {
		return -1
	}
	if db.Before(da) {
		return 1
	}
	return 0
}

func rawDate(r RawRecord) Date {
	switch r.Kind {
	case RecordPlan:
		if period, err := ParseMonth(r.Period); err == nil {
			return period.Start()
		}
		return Date{}
	case RecordPolicy:
		d, _ := ParseDate(r.Renewal)
		return d
	}
	d, _ := ParseDate(r.Date)
	return d
}

// EncodeReview writes a review as indented JSON. Key order inside Money
// values is fixed by their marshallers, so the output is byte-stable for
// identical inputs.
func EncodeReview(w io.Writer, review *Review) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(review); err != nil {
		return fmt.Errorf("failed to encode review: %w", err)
	}
	return nil
}
