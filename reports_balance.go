package household

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Band is the confidence interval around a net worth value. Its width grows
// with balance staleness and with the number and severity of integrity
// flags; it is never negative.
type Band struct {
	Lower Money `json:"lower"`
	Upper Money `json:"upper"`
}

// Width returns the full band width.
func (b Band) Width() Money { return b.Upper.Sub(b.Lower) }

// NetWorthPoint is one point of the net worth time series.
type NetWorthPoint struct {
	Date        Date  `json:"date"`
	Assets      Money `json:"assets"`
	Liabilities Money `json:"liabilities"`
	NetWorth    Money `json:"net_worth"`
	Band        Band  `json:"band"`
	// Reconciled counts contributing accounts whose balance is within the
	// staleness horizon at this date; Estimated counts the rest.
	Reconciled int `json:"reconciled"`
	Estimated  int `json:"estimated"`
}

// BalanceReport is the balance sheet integrity report: the net worth series
// with confidence bands, and the ordered queue of suspect entries.
type BalanceReport struct {
	AsOf     Date            `json:"as_of"`
	Currency string          `json:"currency"`
	Points   []NetWorthPoint `json:"points"`
	Queue    []IntegrityFlag `json:"queue"`
}

// NewBalanceReport computes net worth over time and the integrity queue.
// Data problems never abort the computation: the report is always the best
// effort over what parsed, with flags explaining any degradation. The asOf
// date anchors staleness so reruns over the same inputs are identical.
func NewBalanceReport(l *Ledger, cfg Config, asOf Date) (*BalanceReport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	queue := snapshotFlags(l, cfg, asOf)
	queue = append(queue, transactionFlags(l, cfg)...)
	queue = append(queue, transferFlags(l)...)
	sortFlags(queue)

	points := make([]NetWorthPoint, 0, 16)
	for _, on := range l.snapshotDates() {
		point, err := netWorthAt(l, cfg, queue, on)
		if err != nil {
			return nil, err
		}
		points = append(points, point)
	}

	return &BalanceReport{
		AsOf:     asOf,
		Currency: cfg.Currency,
		Points:   points,
		Queue:    queue,
	}, nil
}

// netWorthAt computes one series point: exact asset and liability totals
// from the latest balance per account, and the confidence band around them.
func netWorthAt(l *Ledger, cfg Config, queue []IntegrityFlag, on Date) (NetWorthPoint, error) {
	balances := l.latestBalances(on)

	assets := M(0, cfg.Currency)
	liabilities := M(0, cfg.Currency)
	gross := M(0, cfg.Currency)
	staleWidth := M(0, cfg.Currency)
	var reconciled, estimated, beyondHorizon int

	horizon := decimal.NewFromInt(int64(cfg.StalenessHorizonDays))
	staleRatio := decimal.NewFromFloat(cfg.StalenessBandRatio)

	// Iterate accounts in sorted order so rounding-free decimal sums are
	// also reproduced in identical order.
	for account := range l.AllAccounts() {
		snap, ok := balances[account]
		if !ok {
			continue
		}
		switch snap.Type {
		case Asset:
			assets = assets.Add(snap.Balance)
		case Liability:
			liabilities = liabilities.Add(snap.Balance)
		default:
			// Unknown or other: excluded from both sums, flagged elsewhere.
			continue
		}
		gross = gross.Add(snap.Balance.Abs())

		staleness := on.Sub(snap.LastUpdated)
		if staleness < 0 {
			staleness = 0
		}
		if staleness > cfg.StalenessHorizonDays {
			beyondHorizon++
			estimated++
		} else {
			reconciled++
		}
		factor := decimal.NewFromInt(int64(staleness)).Div(horizon)
		if factor.GreaterThan(decimal.NewFromInt(1)) {
			factor = decimal.NewFromInt(1)
		}
		staleWidth = staleWidth.Add(snap.Balance.Abs().Scale(factor).Scale(staleRatio))
	}

	// Flags accumulate: every flag dated on or before this point widens the
	// band, weighted by severity.
	var severitySum int64
	for _, flag := range queue {
		if !flag.Date.After(on) {
			severitySum += int64(flag.Severity)
		}
	}
	flagWidth := gross.Scale(decimal.NewFromFloat(cfg.FlagBandRatio)).Scale(decimal.NewFromInt(severitySum))

	width := staleWidth.Add(flagWidth)
	if beyondHorizon > 0 && width.LessThan(width.Unit()) {
		// A balance past the horizon always keeps the band open.
		width = width.Unit()
	}
	if width.IsNegative() {
		return NetWorthPoint{}, invariantf("band-width", "negative band width %s on %s", width, on)
	}

	netWorth := assets.Sub(liabilities)
	return NetWorthPoint{
		Date:        on,
		Assets:      assets,
		Liabilities: liabilities,
		NetWorth:    netWorth,
		Band:        Band{Lower: netWorth.Sub(width), Upper: netWorth.Add(width)},
		Reconciled:  reconciled,
		Estimated:   estimated,
	}, nil
}

// snapshotFlags inspects account snapshots for staleness, sign anomalies,
// duplicates, unreadable balances and missing account types.
func snapshotFlags(l *Ledger, cfg Config, asOf Date) []IntegrityFlag {
	var flags []IntegrityFlag
	seen := make(map[string]bool)

	for _, snap := range l.Snapshots() {
		key := snap.Account + "\x00" + snap.AsOf.String()
		if seen[key] {
			flags = append(flags, IntegrityFlag{
				Entity:   snap.Account,
				Date:     snap.AsOf,
				Reason:   ReasonDuplicateSnapshot,
				Severity: SeverityWarning,
				Detail:   fmt.Sprintf("several balances recorded for %s, first one kept", snap.AsOf),
			})
			continue
		}
		seen[key] = true

		if snap.Type == UnknownAccountType {
			flags = append(flags, IntegrityFlag{
				Entity:   snap.Account,
				Date:     snap.AsOf,
				Reason:   ReasonMissingAccountType,
				Severity: SeverityCritical,
				Detail:   "account type missing, balance excluded from net worth",
			})
		}

		if snap.Confidence == 0 {
			flags = append(flags, IntegrityFlag{
				Entity:   snap.Account,
				Date:     snap.AsOf,
				Reason:   ReasonLowConfidence,
				Severity: SeverityHigh,
				Detail:   "balance could not be read, counted as zero",
			})
		}

		switch {
		case snap.Type == Asset && snap.Balance.IsNegative():
			flags = append(flags, IntegrityFlag{
				Entity:   snap.Account,
				Date:     snap.AsOf,
				Reason:   ReasonSignAnomaly,
				Severity: SeverityHigh,
				Detail:   fmt.Sprintf("asset balance %s is negative", snap.Balance),
			})
		case snap.Type == Liability && snap.Balance.IsNegative():
			flags = append(flags, IntegrityFlag{
				Entity:   snap.Account,
				Date:     snap.AsOf,
				Reason:   ReasonSignAnomaly,
				Severity: SeverityHigh,
				Detail:   fmt.Sprintf("liability balance %s is negative, expected outstanding amount", snap.Balance),
			})
		}
	}

	// Staleness is judged on the latest balance per account only. Accounts
	// are visited in sorted order to keep the queue deterministic.
	latest := l.latestBalances(asOf)
	for account := range l.AllAccounts() {
		snap, ok := latest[account]
		if !ok {
			continue
		}
		staleness := asOf.Sub(snap.LastUpdated)
		if staleness > cfg.StalenessHorizonDays {
			flags = append(flags, IntegrityFlag{
				Entity:   snap.Account,
				Date:     snap.AsOf,
				Reason:   ReasonStaleBalance,
				Severity: SeverityWarning,
				Detail:   fmt.Sprintf("last updated %s, %d days ago", snap.LastUpdated, staleness),
			})
		}
	}
	return flags
}

// transactionFlags queues register rows whose source confidence fell below
// the review threshold: they stay in every computation, but a reader must
// resolve them.
func transactionFlags(l *Ledger, cfg Config) []IntegrityFlag {
	var flags []IntegrityFlag
	for _, tx := range l.Transactions() {
		if tx.SourceConfidence >= cfg.ConfidenceThreshold {
			continue
		}
		severity := SeverityWarning
		if tx.SourceConfidence == 0 {
			severity = SeverityHigh
		}
		flags = append(flags, IntegrityFlag{
			Entity:   tx.ID,
			Date:     tx.Date,
			Reason:   ReasonLowConfidence,
			Severity: severity,
			Detail:   fmt.Sprintf("source confidence %.2f below %.2f", tx.SourceConfidence, cfg.ConfidenceThreshold),
		})
	}
	return flags
}

// transferFlags verifies that linked transfer legs net to zero. An orphan
// leg or a nonzero residual is a bookkeeping hole worth surfacing.
func transferFlags(l *Ledger) []IntegrityFlag {
	byID := make(map[string]Transaction)
	for _, tx := range l.Transactions() {
		byID[tx.ID] = tx
	}

	var flags []IntegrityFlag
	seen := make(map[string]bool)
	for _, tx := range l.Transactions() {
		if tx.Link == "" || seen[tx.ID] {
			continue
		}
		other, ok := byID[tx.Link]
		if !ok {
			seen[tx.ID] = true
			flags = append(flags, IntegrityFlag{
				Entity:   tx.ID,
				Date:     tx.Date,
				Reason:   ReasonUnbalancedTransfer,
				Severity: SeverityHigh,
				Detail:   fmt.Sprintf("transfer leg %s not found", tx.Link),
			})
			continue
		}
		seen[tx.ID], seen[other.ID] = true, true
		if residual := tx.Amount.Add(other.Amount); !residual.IsZero() {
			flags = append(flags, IntegrityFlag{
				Entity:   tx.ID,
				Date:     tx.Date,
				Reason:   ReasonUnbalancedTransfer,
				Severity: SeverityHigh,
				Detail:   fmt.Sprintf("transfer pair %s/%s leaves residual %s", tx.ID, other.ID, residual),
			})
		}
	}
	return flags
}
