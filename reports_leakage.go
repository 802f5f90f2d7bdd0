package household

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// PatternType names a behavioral spending pattern.
type PatternType string

const (
	// PatternSubscription is a recurring charge of stable amount and cadence.
	PatternSubscription PatternType = "recurring-subscription"
	// PatternFragmentation is spend in one category spread across many vendors.
	PatternFragmentation PatternType = "fragmentation"
	// PatternUncategorized is a transaction that never resolved to a real category.
	PatternUncategorized PatternType = "uncategorized"
)

// LeakageFinding is one detected pattern. A transaction may appear in
// several findings; patterns are reported as a union, never deduplicated
// against each other.
type LeakageFinding struct {
	Pattern          PatternType `json:"pattern"`
	Entities         []string    `json:"entities,omitempty"`
	Vendor           string      `json:"vendor,omitempty"`
	Category         string      `json:"category,omitempty"`
	EstimatedMonthly Money       `json:"estimated_monthly,omitzero"`
	Confidence       float64     `json:"confidence"`
	RenewalNote      string      `json:"renewal_note,omitempty"`
	Renewal          Date        `json:"renewal,omitzero"`
	Detail           string      `json:"detail,omitempty"`
}

// CategoryVolatility summarizes the spread of a category's monthly spend
// over the trailing analysis window.
type CategoryVolatility struct {
	Category string `json:"category"`
	Mean     Money  `json:"mean"`
	StdDev   Money  `json:"std_dev"`
}

// LeakageReport is the behavioral leakage report.
type LeakageReport struct {
	Currency   string               `json:"currency"`
	Findings   []LeakageFinding     `json:"findings"`
	Volatility []CategoryVolatility `json:"volatility,omitempty"`
}

// NewLeakageReport scans the register for recurring subscriptions, vendor
// fragmentation and unresolved categories, and measures per-category spend
// volatility over the trailing window.
func NewLeakageReport(l *Ledger, cfg Config) (*LeakageReport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	report := &LeakageReport{Currency: cfg.Currency}
	report.Findings = append(report.Findings, subscriptionFindings(l, cfg)...)
	report.Findings = append(report.Findings, fragmentationFindings(l, cfg)...)
	report.Findings = append(report.Findings, uncategorizedFindings(l, cfg)...)
	report.Volatility = categoryVolatility(l, cfg)
	return report, nil
}

// renewalNoteRe matches free-text renewal hints like "(ends 1/7/27)".
var renewalNoteRe = regexp.MustCompile(`\(ends (\d{1,2}/\d{1,2}/\d{2,4})\)`)

// subscriptionFindings groups outflows by vendor then clusters by amount.
// A cluster is a subscription when it has enough occurrences, amounts stay
// within the tolerance of the first charge and the cadence jitter stays
// within bounds.
func subscriptionFindings(l *Ledger, cfg Config) []LeakageFinding {
	byVendor := make(map[string][]Transaction)
	for _, tx := range l.Transactions(Outflows) {
		if tx.Vendor == "" || tx.Date.IsZero() {
			continue
		}
		byVendor[tx.Vendor] = append(byVendor[tx.Vendor], tx)
	}

	vendors := make([]string, 0, len(byVendor))
	for v := range byVendor {
		vendors = append(vendors, v)
	}
	slices.Sort(vendors)

	var findings []LeakageFinding
	for _, vendor := range vendors {
		charges := byVendor[vendor]
		// Transactions iterate in date order already; keep it stable on id.
		slices.SortStableFunc(charges, func(a, b Transaction) int {
			if a.Date.Before(b.Date) {
				return -1
			}
			if b.Date.Before(a.Date) {
				return 1
			}
			return strings.Compare(a.ID, b.ID)
		})

		tolerance := decimal.NewFromFloat(cfg.SubscriptionAmountTolerance)
		used := make([]bool, len(charges))
		for i := range charges {
			if used[i] {
				continue
			}
			ref := charges[i].Amount.Abs()
			members := []int{i}
			for j := i + 1; j < len(charges); j++ {
				if used[j] {
					continue
				}
				diff := charges[j].Amount.Abs().Sub(ref).Abs()
				if diff.LessThanOrEqual(ref.Scale(tolerance)) {
					members = append(members, j)
				}
			}
			if len(members) < cfg.SubscriptionMinOccurrences {
				continue
			}

			cluster := make([]Transaction, len(members))
			for k, j := range members {
				cluster[k] = charges[j]
			}
			minGap, maxGap, sumGap := math.MaxInt, 0, 0
			for k := 1; k < len(cluster); k++ {
				gap := cluster[k].Date.Sub(cluster[k-1].Date)
				if gap < minGap {
					minGap = gap
				}
				if gap > maxGap {
					maxGap = gap
				}
				sumGap += gap
			}
			if maxGap-minGap > cfg.SubscriptionMaxJitterDays || sumGap == 0 {
				continue
			}
			for _, j := range members {
				used[j] = true
			}

			avgGap := float64(sumGap) / float64(len(cluster)-1)
			total := M(0, cfg.Currency)
			ids := make([]string, 0, len(cluster))
			note, renewal := "", Date{}
			for _, c := range cluster {
				total = total.Add(c.Amount.Abs())
				ids = append(ids, c.ID)
				if m := renewalNoteRe.FindStringSubmatch(c.Description); m != nil {
					note = m[0]
					renewal, _ = ParseDate(m[1])
				}
			}
			avg := total.Scale(decimal.NewFromInt(1).Div(decimal.NewFromInt(int64(len(cluster)))))
			monthly := avg.Scale(decimal.NewFromFloat(30 / avgGap)).Round()

			findings = append(findings, LeakageFinding{
				Pattern:          PatternSubscription,
				Entities:         ids,
				Vendor:           vendor,
				Category:         cluster[0].Category,
				EstimatedMonthly: monthly,
				Confidence:       math.Min(0.95, float64(len(cluster))/float64(len(cluster)+2)),
				RenewalNote:      note,
				Renewal:          renewal,
				Detail:           fmt.Sprintf("%d charges about every %.0f days", len(cluster), avgGap),
			})
		}
	}
	return findings
}

// fragmentationFindings flags categories whose spend spreads across more
// distinct vendors than the configured threshold. The effective vendor
// count is the inverse Herfindahl index of spend shares, so one dominant
// vendor plus noise does not read as fragmentation.
func fragmentationFindings(l *Ledger, cfg Config) []LeakageFinding {
	var findings []LeakageFinding
	for category := range l.AllCategories() {
		spend := make(map[string]decimal.Decimal)
		total := decimal.Zero
		for _, tx := range l.Transactions(ByCategory(category), Outflows) {
			if tx.Vendor == "" {
				continue
			}
			amt := tx.Amount.Decimal().Abs()
			spend[tx.Vendor] = spend[tx.Vendor].Add(amt)
			total = total.Add(amt)
		}
		if len(spend) <= cfg.FragmentationVendorThreshold || total.IsZero() {
			continue
		}

		var hhi float64
		vendors := make([]string, 0, len(spend))
		for vendor, amt := range spend {
			vendors = append(vendors, vendor)
			share := amt.Div(total).InexactFloat64()
			hhi += share * share
		}
		effective := 1 / hhi
		if effective <= float64(cfg.FragmentationVendorThreshold) {
			continue
		}
		slices.Sort(vendors)

		findings = append(findings, LeakageFinding{
			Pattern:    PatternFragmentation,
			Entities:   vendors,
			Category:   category,
			Confidence: math.Min(0.95, effective/float64(len(vendors))),
			Detail:     fmt.Sprintf("spend spread over %d vendors (%.1f effective)", len(vendors), effective),
		})
	}
	return findings
}

// uncategorizedFindings queues transactions that never resolved to a real
// category, along with those whose source confidence fell below the review
// threshold, largest magnitude first so review effort lands where it pays.
func uncategorizedFindings(l *Ledger, cfg Config) []LeakageFinding {
	var queue []Transaction
	for _, tx := range l.Transactions() {
		if tx.Category == UncategorizedCategory || tx.SourceConfidence < cfg.ConfidenceThreshold {
			queue = append(queue, tx)
		}
	}
	sort.SliceStable(queue, func(i, j int) bool {
		a, b := queue[i].Amount.Abs(), queue[j].Amount.Abs()
		if !a.Equal(b) {
			return b.LessThan(a)
		}
		if queue[i].Date != queue[j].Date {
			return queue[i].Date.Before(queue[j].Date)
		}
		return queue[i].ID < queue[j].ID
	})

	findings := make([]LeakageFinding, 0, len(queue))
	for _, tx := range queue {
		findings = append(findings, LeakageFinding{
			Pattern:    PatternUncategorized,
			Entities:   []string{tx.ID},
			Vendor:     tx.Vendor,
			Category:   tx.Category,
			Confidence: tx.SourceConfidence,
			Detail:     fmt.Sprintf("%s %s", tx.Amount.SignedString(), tx.Description),
		})
	}
	return findings
}

// categoryVolatility computes the mean and population standard deviation of
// monthly spend per category over the trailing VolatilityMonths months,
// anchored to the newest transaction.
func categoryVolatility(l *Ledger, cfg Config) []CategoryVolatility {
	newest := l.NewestTransactionDate()
	if newest.IsZero() {
		return nil
	}
	window := make([]Month, cfg.VolatilityMonths)
	m := MonthOf(newest)
	for i := cfg.VolatilityMonths - 1; i >= 0; i-- {
		window[i] = m
		m = m.Prev()
	}

	var series []CategoryVolatility
	for category := range l.AllCategories() {
		totals := make([]float64, len(window))
		any := false
		for i, period := range window {
			for _, tx := range l.Transactions(ByCategory(category), InMonth(period), Outflows) {
				totals[i] += tx.Amount.Abs().AsFloat()
				any = true
			}
		}
		if !any {
			continue
		}

		var mean float64
		for _, t := range totals {
			mean += t
		}
		mean /= float64(len(totals))
		var variance float64
		for _, t := range totals {
			variance += (t - mean) * (t - mean)
		}
		variance /= float64(len(totals))

		series = append(series, CategoryVolatility{
			Category: category,
			Mean:     M(mean, cfg.Currency).Round(),
			StdDev:   M(math.Sqrt(variance), cfg.Currency).Round(),
		})
	}
	return series
}
