package household

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Severity grades an integrity flag. Higher values surface first in the queue.
type Severity int

const (
	SeverityInfo Severity = iota + 1
	SeverityWarning
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ParseSeverity parses a severity name.
func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "info":
		return SeverityInfo, nil
	case "warning":
		return SeverityWarning, nil
	case "high":
		return SeverityHigh, nil
	case "critical":
		return SeverityCritical, nil
	default:
		return 0, fmt.Errorf("unknown severity %q", s)
	}
}

func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Severity) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	v, err := ParseSeverity(str)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ReasonCode identifies why an entity was queued for review.
type ReasonCode string

const (
	ReasonStaleBalance       ReasonCode = "stale-balance"
	ReasonSignAnomaly        ReasonCode = "sign-anomaly"
	ReasonDuplicateSnapshot  ReasonCode = "duplicate-snapshot"
	ReasonLowConfidence      ReasonCode = "low-confidence"
	ReasonMissingAccountType ReasonCode = "missing-account-type"
	ReasonUnbalancedTransfer ReasonCode = "unbalanced-transfer"
)

// IntegrityFlag marks a suspect or unresolved entry. Flags are value
// objects: produced once per computation cycle, never mutated after.
type IntegrityFlag struct {
	// Entity names the flagged record: an account name or a transaction ID.
	Entity string `json:"entity"`
	// Date is the entity's own date, used as the stable tie-break when
	// ordering the queue.
	Date     Date       `json:"date"`
	Reason   ReasonCode `json:"reason"`
	Severity Severity   `json:"severity"`
	Detail   string     `json:"detail,omitempty"`
}

// sortFlags orders a queue by severity descending, then entity date
// ascending. The sort is stable so equal flags keep insertion order.
func sortFlags(flags []IntegrityFlag) {
	slices.SortStableFunc(flags, func(a, b IntegrityFlag) int {
		if a.Severity != b.Severity {
			return int(b.Severity) - int(a.Severity)
		}
		switch {
		case a.Date.Before(b.Date):
			return -1
		case a.Date.After(b.Date):
			return 1
		default:
			return 0
		}
	})
}
