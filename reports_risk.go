package household

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// CoverageItem compares the household's estimated exposure to one risk
// against the coverage it actually holds. Gap is never negative: adequately
// covered risks report a zero gap rather than disappearing from the map.
type CoverageItem struct {
	Risk     string   `json:"risk"`
	Exposure Money    `json:"exposure"`
	Limit    Money    `json:"limit"`
	Gap      Money    `json:"gap"`
	Policies []string `json:"policies,omitempty"`
}

// RenewalEvent is one entry of the renewal calendar. DaysUntil is signed:
// a negative value means the renewal date has already passed.
type RenewalEvent struct {
	PolicyID  string `json:"policy_id"`
	Type      string `json:"type"`
	Renewal   Date   `json:"renewal"`
	Premium   Money  `json:"premium"`
	DaysUntil int    `json:"days_until"`
	DueSoon   bool   `json:"due_soon"`
}

// RiskReport is the risk and insurance posture report as of a given date.
type RiskReport struct {
	AsOf     Date           `json:"as_of"`
	Currency string         `json:"currency"`
	Coverage []CoverageItem `json:"coverage"`
	Calendar []RenewalEvent `json:"calendar"`
	// NeedsAttention lists policies whose renewal date is unknown.
	NeedsAttention []string `json:"needs_attention,omitempty"`
}

// NewRiskReport derives exposure estimates from the latest balance sheet,
// matches them against held policies, and builds the renewal calendar.
func NewRiskReport(l *Ledger, cfg Config, asOf Date) (*RiskReport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	assets, liabilities := balanceTotals(l, cfg, asOf)

	report := &RiskReport{AsOf: asOf, Currency: cfg.Currency}
	for _, rule := range cfg.ExposureRules {
		exposure := M(0, cfg.Currency).
			Add(assets.Scale(decimal.NewFromFloat(rule.AssetFactor))).
			Add(liabilities.Scale(decimal.NewFromFloat(rule.LiabilityFactor))).
			Add(M(rule.PerDependent*float64(cfg.Dependents), cfg.Currency)).
			Round()

		limit := M(0, cfg.Currency)
		var held []string
		for _, pol := range l.Policies() {
			if !strings.EqualFold(pol.Type, rule.Risk) {
				continue
			}
			limit = limit.Add(pol.CoverageLimit)
			held = append(held, pol.ID)
		}
		slices.Sort(held)

		gap := exposure.Sub(limit)
		if gap.IsNegative() {
			gap = M(0, cfg.Currency)
		}
		report.Coverage = append(report.Coverage, CoverageItem{
			Risk:     rule.Risk,
			Exposure: exposure,
			Limit:    limit,
			Gap:      gap,
			Policies: held,
		})
	}

	report.Calendar, report.NeedsAttention = renewalCalendar(l, cfg, asOf)
	return report, nil
}

// balanceTotals sums the latest gross asset and liability balances as of a
// date. Liabilities are reported as a positive magnitude.
func balanceTotals(l *Ledger, cfg Config, on Date) (assets, liabilities Money) {
	assets, liabilities = M(0, cfg.Currency), M(0, cfg.Currency)
	latest := l.latestBalances(on)
	for account := range l.AllAccounts() {
		snap, ok := latest[account]
		if !ok {
			continue
		}
		switch snap.Type {
		case Asset:
			assets = assets.Add(snap.Balance)
		case Liability:
			liabilities = liabilities.Add(snap.Balance.Abs())
		}
	}
	return assets, liabilities
}

// renewalCalendar lists every policy with a known renewal date in ascending
// date order, and collects the unknown-renewal policies separately.
func renewalCalendar(l *Ledger, cfg Config, asOf Date) ([]RenewalEvent, []string) {
	var calendar []RenewalEvent
	var unknown []string
	for _, pol := range l.Policies() {
		if pol.Renewal.IsZero() {
			unknown = append(unknown, pol.ID)
			continue
		}
		days := pol.Renewal.Sub(asOf)
		calendar = append(calendar, RenewalEvent{
			PolicyID:  pol.ID,
			Type:      pol.Type,
			Renewal:   pol.Renewal,
			Premium:   pol.Premium,
			DaysUntil: days,
			DueSoon:   days >= 0 && days <= cfg.RenewalLookaheadDays,
		})
	}
	slices.SortStableFunc(calendar, func(a, b RenewalEvent) int {
		if a.Renewal.Before(b.Renewal) {
			return -1
		}
		if b.Renewal.Before(a.Renewal) {
			return 1
		}
		return strings.Compare(a.PolicyID, b.PolicyID)
	})
	slices.Sort(unknown)
	return calendar, unknown
}
