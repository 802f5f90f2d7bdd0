package household

import (
	"encoding/json"
	"fmt"
	"iter"
	"slices"
	"sort"
)

// AccountType classifies an account for net worth purposes. The zero value
// marks a record whose type was missing from the source data: it is a data
// error flagged at the highest severity, never a computation abort.
type AccountType int

const (
	UnknownAccountType AccountType = iota
	Asset
	Liability
	OtherAccount
)

func (t AccountType) String() string {
	switch t {
	case Asset:
		return "asset"
	case Liability:
		return "liability"
	case OtherAccount:
		return "other"
	default:
		return "unknown"
	}
}

// ParseAccountType parses an account type name. Unrecognized or empty names
// yield UnknownAccountType without an error: the anomaly is data, not a
// reason to stop, and the balance engine flags it.
func ParseAccountType(s string) AccountType {
	switch lowerTrim(s) {
	case "asset":
		return Asset
	case "liability":
		return Liability
	case "other":
		return OtherAccount
	default:
		return UnknownAccountType
	}
}

func (t AccountType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *AccountType) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	*t = ParseAccountType(str)
	return nil
}

// Transaction is one normalized register entry. Outflows are negative.
// Transactions are immutable once normalized; suspect rows carry a reduced
// SourceConfidence instead of being dropped.
type Transaction struct {
	ID          string  `json:"id"`
	Date        Date    `json:"date"`
	Amount      Money   `json:"amount"`
	Category    string  `json:"category"`
	Account     string  `json:"account,omitempty"`
	Vendor      string  `json:"vendor,omitempty"`
	Description string  `json:"description,omitempty"`
	// Link pairs the two legs of a transfer; both legs must net to zero.
	Link             string  `json:"link,omitempty"`
	SourceConfidence float64 `json:"source_confidence"`
}

// AccountSnapshot is the canonical balance of one account on one date.
// Liability balances carry the outstanding amount as a positive value.
type AccountSnapshot struct {
	Account string      `json:"account"`
	Type    AccountType `json:"type"`
	Balance Money       `json:"balance"`
	AsOf    Date        `json:"as_of"`
	// LastUpdated is the date the balance was last reconciled against a
	// source document; staleness is measured from it.
	LastUpdated Date `json:"last_updated"`
	// Confidence is 1 for cleanly parsed snapshots and 0 for rows whose
	// balance could not be read (kept, flagged, contributing zero).
	Confidence float64 `json:"confidence"`
}

// PlanEntry is one budget plan line: the planned flow for a category in a
// month, following the same sign convention as actuals (outflow negative).
type PlanEntry struct {
	Category string `json:"category"`
	Period   Month  `json:"period"`
	Planned  Money  `json:"planned"`
}

// Policy is an insurance policy. A zero Renewal date means the renewal is
// explicitly unknown; such policies go to the needs-attention bucket and are
// never silently omitted.
type Policy struct {
	ID            string   `json:"id"`
	Type          string   `json:"type"`
	CoverageLimit Money    `json:"coverage_limit"`
	Premium       Money    `json:"premium"`
	Renewal       Date     `json:"renewal"`
	Covered       []string `json:"covered,omitempty"`
}

// Ledger is the normalized, immutable snapshot every engine reads.
// Transactions and snapshots are kept in stable chronological order.
type Ledger struct {
	transactions []Transaction
	snapshots    []AccountSnapshot
	plans        []PlanEntry
	policies     []Policy
	// skipped keeps raw rows that produced no entity at all (plan lines
	// with unreadable periods); callers may surface them.
	skipped []RawRecord
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// AppendTransactions adds transactions and restores chronological order.
func (l *Ledger) AppendTransactions(txs ...Transaction) {
	l.transactions = append(l.transactions, txs...)
	sort.SliceStable(l.transactions, func(i, j int) bool {
		return l.transactions[i].Date.Before(l.transactions[j].Date)
	})
}

// AppendSnapshots adds account snapshots and restores chronological order.
func (l *Ledger) AppendSnapshots(snaps ...AccountSnapshot) {
	l.snapshots = append(l.snapshots, snaps...)
	sort.SliceStable(l.snapshots, func(i, j int) bool {
		return l.snapshots[i].AsOf.Before(l.snapshots[j].AsOf)
	})
}

// AppendPlans adds budget plan entries.
func (l *Ledger) AppendPlans(plans ...PlanEntry) {
	l.plans = append(l.plans, plans...)
	slices.SortStableFunc(l.plans, func(a, b PlanEntry) int {
		return compareMonths(a.Period, b.Period)
	})
}

// AppendPolicies adds insurance policies.
func (l *Ledger) AppendPolicies(pols ...Policy) {
	l.policies = append(l.policies, pols...)
}

// Transactions returns an iterator over transactions in chronological
// order. All filters must accept a transaction for it to be yielded.
func (l *Ledger) Transactions(filters ...func(Transaction) bool) iter.Seq2[int, Transaction] {
	return func(yield func(int, Transaction) bool) {
		for i, tx := range l.transactions {
			accept := true
			for _, filter := range filters {
				if !filter(tx) {
					accept = false
					break
				}
			}
			if !accept {
				continue
			}
			if !yield(i, tx) {
				return
			}
		}
	}
}

// Snapshots returns an iterator over account snapshots in chronological order.
func (l *Ledger) Snapshots() iter.Seq2[int, AccountSnapshot] {
	return func(yield func(int, AccountSnapshot) bool) {
		for i, s := range l.snapshots {
			if !yield(i, s) {
				return
			}
		}
	}
}

// Plans returns an iterator over budget plan entries.
func (l *Ledger) Plans() iter.Seq2[int, PlanEntry] {
	return func(yield func(int, PlanEntry) bool) {
		for i, p := range l.plans {
			if !yield(i, p) {
				return
			}
		}
	}
}

// Policies returns an iterator over insurance policies.
func (l *Ledger) Policies() iter.Seq2[int, Policy] {
	return func(yield func(int, Policy) bool) {
		for i, p := range l.policies {
			if !yield(i, p) {
				return
			}
		}
	}
}

// Skipped returns the raw rows that produced no ledger entity.
func (l *Ledger) Skipped() []RawRecord {
	return slices.Clone(l.skipped)
}

// Counts reports the size of each record sequence.
func (l *Ledger) Counts() (transactions, snapshots, plans, policies int) {
	return len(l.transactions), len(l.snapshots), len(l.plans), len(l.policies)
}

// OldestTransactionDate returns the date of the earliest transaction, or the
// zero date when the ledger has none.
func (l *Ledger) OldestTransactionDate() Date {
	if len(l.transactions) == 0 {
		return Date{}
	}
	return l.transactions[0].Date
}

// NewestTransactionDate returns the date of the latest transaction, or the
// zero date when the ledger has none.
func (l *Ledger) NewestTransactionDate() Date {
	if len(l.transactions) == 0 {
		return Date{}
	}
	return l.transactions[len(l.transactions)-1].Date
}

// ByCategory returns a predicate that filters transactions by canonical category.
func ByCategory(category string) func(Transaction) bool {
	return func(tx Transaction) bool { return tx.Category == category }
}

// ByAccount returns a predicate that filters transactions by account name.
func ByAccount(account string) func(Transaction) bool {
	return func(tx Transaction) bool { return tx.Account == account }
}

// InMonth returns a predicate that filters transactions by budget period.
func InMonth(p Month) func(Transaction) bool {
	return func(tx Transaction) bool { return p.Contains(tx.Date) }
}

// Outflows accepts only negative amounts.
func Outflows(tx Transaction) bool { return tx.Amount.IsNegative() }

// Inflows accepts only positive amounts.
func Inflows(tx Transaction) bool { return tx.Amount.IsPositive() }

// AllCategories iterates over distinct canonical categories in sorted order.
func (l *Ledger) AllCategories() iter.Seq[string] {
	return func(yield func(string) bool) {
		visited := make(map[string]struct{})
		for _, tx := range l.transactions {
			visited[tx.Category] = struct{}{}
		}
		categories := make([]string, 0, len(visited))
		for c := range visited {
			categories = append(categories, c)
		}
		slices.Sort(categories)
		for _, c := range categories {
			if !yield(c) {
				return
			}
		}
	}
}

// AllAccounts iterates over distinct snapshot account names in sorted order.
func (l *Ledger) AllAccounts() iter.Seq[string] {
	return func(yield func(string) bool) {
		visited := make(map[string]struct{})
		for _, s := range l.snapshots {
			visited[s.Account] = struct{}{}
		}
		accounts := make([]string, 0, len(visited))
		for a := range visited {
			accounts = append(accounts, a)
		}
		slices.Sort(accounts)
		for _, a := range accounts {
			if !yield(a) {
				return
			}
		}
	}
}

// latestBalances returns, for each account, the most recent snapshot with
// AsOf on or before the given date. When several snapshots share the same
// (account, date) the first one wins; duplicate detection is the balance
// engine's job.
func (l *Ledger) latestBalances(on Date) map[string]AccountSnapshot {
	latest := make(map[string]AccountSnapshot)
	for _, s := range l.snapshots {
		if s.AsOf.After(on) {
			break // snapshots are sorted by date
		}
		prev, ok := latest[s.Account]
		if !ok || s.AsOf.After(prev.AsOf) {
			latest[s.Account] = s
		}
	}
	return latest
}

// snapshotDates returns the distinct snapshot dates in ascending order.
func (l *Ledger) snapshotDates() []Date {
	var dates []Date
	for _, s := range l.snapshots {
		if len(dates) == 0 || dates[len(dates)-1] != s.AsOf {
			dates = append(dates, s.AsOf)
		}
	}
	return dates
}

func (t Transaction) String() string {
	return fmt.Sprintf("%s %s %s %s", t.Date, t.Amount.SignedString(), t.Category, t.ID)
}
