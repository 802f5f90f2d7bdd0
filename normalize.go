package household

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RecordKind discriminates raw rows handed over by the ingestion layer.
type RecordKind string

const (
	RecordRegister RecordKind = "register"
	RecordSnapshot RecordKind = "snapshot"
	RecordPlan     RecordKind = "plan"
	RecordPolicy   RecordKind = "policy"
)

// RawRecord is one already-parsed tabular row. All value fields are strings:
// how the cells were extracted from CSV or PDF statements is the ingestion
// collaborator's problem, interpreting them is ours.
type RawRecord struct {
	Kind        RecordKind `json:"kind"`
	ID          string     `json:"id,omitempty"`
	Date        string     `json:"date,omitempty"`
	Amount      string     `json:"amount,omitempty"`
	Label       string     `json:"label,omitempty"`
	Account     string     `json:"account,omitempty"`
	Description string     `json:"description,omitempty"`
	Link        string     `json:"link,omitempty"`
	// Snapshot fields.
	Type    string `json:"type,omitempty"`
	Updated string `json:"updated,omitempty"`
	// Plan fields.
	Period string `json:"period,omitempty"`
	// Policy fields.
	Limit   string   `json:"limit,omitempty"`
	Premium string   `json:"premium,omitempty"`
	Renewal string   `json:"renewal,omitempty"`
	Covered []string `json:"covered,omitempty"`
}

// Normalize converts raw rows into a canonical Ledger. It is a pure
// transform: the only possible error is an invalid configuration. A register
// row that fails to parse is never dropped; it becomes a transaction with
// SourceConfidence 0 so the balance and leakage engines can surface it.
func Normalize(rows []RawRecord, cfg Config) (*Ledger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ledger := NewLedger()
	for i, row := range rows {
		switch row.Kind {
		case RecordRegister:
			ledger.AppendTransactions(normalizeRegister(row, i, cfg))
		case RecordSnapshot:
			snap, ok := normalizeSnapshot(row, cfg)
			if !ok {
				ledger.skipped = append(ledger.skipped, row)
				continue
			}
			ledger.AppendSnapshots(snap)
		case RecordPlan:
			plan, ok := normalizePlan(row, cfg)
			if !ok {
				ledger.skipped = append(ledger.skipped, row)
				continue
			}
			ledger.AppendPlans(plan)
		case RecordPolicy:
			ledger.AppendPolicies(normalizePolicy(row, i, cfg))
		default:
			ledger.skipped = append(ledger.skipped, row)
		}
	}
	return ledger, nil
}

func normalizeRegister(row RawRecord, index int, cfg Config) Transaction {
	id := row.ID
	if id == "" {
		id = fmt.Sprintf("r%04d", index)
	}

	confidence := 1.0
	on, dateErr := ParseDate(row.Date)
	value, amountErr := parseAmount(row.Amount)
	switch {
	case dateErr != nil && amountErr != nil:
		// Both parse attempts failed: keep the row, worth nothing as a
		// number but everything as a review item.
		confidence = 0
	case dateErr != nil || amountErr != nil:
		confidence = 0.25
	}

	category, catConfidence := resolveCategory(row.Label, cfg)
	if catConfidence < confidence {
		confidence = catConfidence
	}

	return Transaction{
		ID:               id,
		Date:             on,
		Amount:           M(value, cfg.Currency),
		Category:         category,
		Account:          strings.TrimSpace(row.Account),
		Vendor:           resolveVendor(row.Description, cfg),
		Description:      strings.TrimSpace(row.Description),
		Link:             strings.TrimSpace(row.Link),
		SourceConfidence: confidence,
	}
}

func normalizeSnapshot(row RawRecord, cfg Config) (AccountSnapshot, bool) {
	asOf, err := ParseDate(row.Date)
	if err != nil {
		// A balance with no date has no place on the timeline.
		return AccountSnapshot{}, false
	}

	confidence := 1.0
	value, err := parseAmount(row.Amount)
	if err != nil {
		// Keep the snapshot at zero so the account still appears, but mark
		// it for the integrity queue.
		confidence = 0
	}

	updated := asOf
	if row.Updated != "" {
		if u, err := ParseDate(row.Updated); err == nil {
			updated = u
		}
	}

	return AccountSnapshot{
		Account:     strings.TrimSpace(row.Account),
		Type:        ParseAccountType(row.Type),
		Balance:     M(value, cfg.Currency),
		AsOf:        asOf,
		LastUpdated: updated,
		Confidence:  confidence,
	}, true
}

func normalizePlan(row RawRecord, cfg Config) (PlanEntry, bool) {
	period, err := ParseMonth(row.Period)
	if err != nil {
		return PlanEntry{}, false
	}
	value, err := parseAmount(row.Amount)
	if err != nil {
		return PlanEntry{}, false
	}
	category, _ := resolveCategory(row.Label, cfg)
	return PlanEntry{
		Category: category,
		Period:   period,
		Planned:  M(value, cfg.Currency),
	}, true
}

func normalizePolicy(row RawRecord, index int, cfg Config) Policy {
	id := row.ID
	if id == "" {
		id = fmt.Sprintf("pol%04d_%s", index, lowerTrim(row.Type))
	}

	limit, err := parseAmount(row.Limit)
	if err != nil {
		limit = decimal.Zero
	}
	premium, err := parseAmount(row.Premium)
	if err != nil {
		premium = decimal.Zero
	}
	// An unreadable renewal date stays zero: explicitly unknown, never
	// silently omitted downstream.
	renewal, _ := ParseDate(row.Renewal)

	return Policy{
		ID:            id,
		Type:          lowerTrim(row.Type),
		CoverageLimit: M(limit, cfg.Currency),
		Premium:       M(premium, cfg.Currency),
		Renewal:       renewal,
		Covered:       row.Covered,
	}
}

// resolveCategory maps a raw label to a canonical category. Alias rules win
// first; an unmatched nonempty label is accepted as its own canonical name;
// empty or placeholder labels resolve to "uncategorized" with a confidence
// below the review threshold.
func resolveCategory(label string, cfg Config) (string, float64) {
	if canonical, ok := resolveAlias(cfg.CategoryAliases, label); ok {
		return lowerTrim(canonical), 1
	}
	switch lowerTrim(label) {
	case "", UncategorizedCategory, "ready to assign":
		reduced := cfg.ConfidenceThreshold / 2
		return UncategorizedCategory, reduced
	default:
		return lowerTrim(label), 1
	}
}

// resolveVendor extracts a comparable vendor key from a free-form
// description. Merchant aliases win first, then the description is reduced
// to its letters so "NETFLIX.COM 0231" and "Netflix.com 8749" group together.
func resolveVendor(description string, cfg Config) string {
	if canonical, ok := resolveAlias(cfg.MerchantAliases, description); ok {
		return lowerTrim(canonical)
	}
	var b strings.Builder
	lastSpace := true
	for _, r := range lowerTrim(description) {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
			lastSpace = false
		case r == ' ' && !lastSpace:
			b.WriteRune(r)
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

// parseAmount reads a currency amount cell, tolerating symbols and
// thousands separators ("$1,234.56", "1 234,56" is not supported).
func parseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '$', '€', '£', ',', ' ':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	// Accountants write negatives in parentheses.
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		cleaned = "-" + cleaned[1:len(cleaned)-1]
	}
	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return value, nil
}

func lowerTrim(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// contains is strings.Contains guarded against the empty pattern, which
// would otherwise make an empty alias rule match everything.
func contains(s, pattern string) bool {
	return pattern != "" && strings.Contains(s, pattern)
}
