package household

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/PaesslerAG/jsonpath"
)

// FieldPaths maps raw-record fields to JSONPath expressions evaluated
// against each row of an export. Empty paths leave the field blank.
type FieldPaths struct {
	ID          string `json:"id,omitempty"`
	Date        string `json:"date,omitempty"`
	Amount      string `json:"amount,omitempty"`
	Label       string `json:"label,omitempty"`
	Account     string `json:"account,omitempty"`
	Description string `json:"description,omitempty"`
	Link        string `json:"link,omitempty"`
}

// ImportSpec describes how to pull raw records out of a third-party JSON
// export: Rows selects the row array, Fields extracts each column.
type ImportSpec struct {
	Kind   RecordKind `json:"kind"`
	Rows   string     `json:"rows"`
	Fields FieldPaths `json:"fields"`
}

// ImportRows decodes a JSON document and extracts one raw record per row
// selected by the spec. Values stay strings: the normalizer does all
// interpretation.
func ImportRows(r io.Reader, spec ImportSpec) ([]RawRecord, error) {
	var doc any
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("could not decode import document: %w", err)
	}

	jrows, err := jsonpath.Get(spec.Rows, doc)
	if err != nil {
		return nil, fmt.Errorf("error selecting rows with %q: %w", spec.Rows, err)
	}
	list, ok := jrows.([]any)
	if !ok {
		return nil, fmt.Errorf("rows path %q did not select a list", spec.Rows)
	}

	records := make([]RawRecord, 0, len(list))
	for _, jrow := range list {
		records = append(records, RawRecord{
			Kind:        spec.Kind,
			ID:          extractString(spec.Fields.ID, jrow),
			Date:        extractString(spec.Fields.Date, jrow),
			Amount:      extractString(spec.Fields.Amount, jrow),
			Label:       extractString(spec.Fields.Label, jrow),
			Account:     extractString(spec.Fields.Account, jrow),
			Description: extractString(spec.Fields.Description, jrow),
			Link:        extractString(spec.Fields.Link, jrow),
		})
	}
	return records, nil
}

// extractString evaluates a JSONPath against a row and stringifies the
// result. Missing values and failed paths come back empty; the normalizer
// scores that as low confidence rather than aborting the import.
func extractString(path string, row any) string {
	if path == "" {
		return ""
	}
	jval, err := jsonpath.Get(path, row)
	if err != nil {
		return ""
	}
	// because jsonpath is never clear about whether it returns a list of 1
	// answer, or a single answer: keep the first one if any
	if jlist, ok := jval.([]any); ok {
		if len(jlist) == 0 {
			return ""
		}
		jval = jlist[0]
	}

	switch v := jval.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
