package household

import (
	"slices"
	"sort"

	"github.com/shopspring/decimal"
)

// Driver names the rule that explains a budget variance. Rules are
// evaluated in a fixed priority order, first match wins, so attribution is
// reproducible across runs.
type Driver string

const (
	// DriverUnplanned marks spend in a category/period with no plan entry.
	DriverUnplanned Driver = "unplanned"
	// DriverOneTimeOutlier marks a variance dominated by a single
	// transaction several times the category's historical median.
	DriverOneTimeOutlier Driver = "one-time-outlier"
	// DriverTrendDrift marks a same-signed delta sustained over at least
	// three consecutive periods.
	DriverTrendDrift Driver = "trend-drift"
	// DriverUnattributed is the fallback when no rule matched.
	DriverUnattributed Driver = "unattributed"
)

// VarianceRecord compares planned and actual flow for one category and
// period. Delta = Actual - Planned, both following the outflow-negative
// sign convention.
type VarianceRecord struct {
	Category string `json:"category"`
	Period   Month  `json:"period"`
	Planned  Money  `json:"planned"`
	Actual   Money  `json:"actual"`
	Delta    Money  `json:"delta"`
	Driver   Driver `json:"driver"`
}

// FlowEdge is one edge of the allocation graph: money flowing from an
// income source to a category sink.
type FlowEdge struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Weight Money  `json:"weight"`
}

// AllocationGraph is the income-to-category flow export. For every source
// the outgoing edge weights sum exactly to the source's allocated amount;
// the conservation check tolerates one smallest currency unit.
type AllocationGraph struct {
	Sources []string   `json:"sources"`
	Sinks   []string   `json:"sinks"`
	Edges   []FlowEdge `json:"edges"`
}

// Allocated returns the total outgoing weight for a source.
func (g AllocationGraph) Allocated(source string) Money {
	var total Money
	for _, e := range g.Edges {
		if e.From == source {
			total = total.Add(e.Weight)
		}
	}
	return total
}

// FixedCostPoint is the share of income consumed by "needs" rollup
// categories in one period; only periods with known income are reported.
type FixedCostPoint struct {
	Period Month   `json:"period"`
	Ratio  Percent `json:"ratio"`
}

// CashflowReport is the cash flow and allocation efficiency report.
type CashflowReport struct {
	Currency  string           `json:"currency"`
	Variances []VarianceRecord `json:"variances"`
	Graph     AllocationGraph  `json:"graph"`
	FixedCost []FixedCostPoint `json:"fixed_cost"`
}

// NewCashflowReport compares planned against actual flows per category and
// month, attributes each variance to a driver, and derives the allocation
// graph used by presentation layers.
func NewCashflowReport(l *Ledger, cfg Config) (*CashflowReport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	variances := computeVariances(l, cfg)
	graph, err := allocationGraph(l, cfg)
	if err != nil {
		return nil, err
	}

	return &CashflowReport{
		Currency:  cfg.Currency,
		Variances: variances,
		Graph:     graph,
		FixedCost: fixedCostSeries(l, cfg),
	}, nil
}

type catPeriod struct {
	category string
	period   Month
}

// computeVariances builds one record per (category, period) present in
// either the plan or the register, in deterministic order.
func computeVariances(l *Ledger, cfg Config) []VarianceRecord {
	actuals := make(map[catPeriod]Money)
	var keys []catPeriod
	touch := func(k catPeriod) {
		if _, ok := actuals[k]; !ok {
			actuals[k] = M(0, cfg.Currency)
			keys = append(keys, k)
		}
	}

	for _, tx := range l.Transactions() {
		if tx.Date.IsZero() {
			continue // unplaceable rows are queued by the balance engine
		}
		k := catPeriod{category: tx.Category, period: MonthOf(tx.Date)}
		touch(k)
		actuals[k] = actuals[k].Add(tx.Amount)
	}

	// One plan entry per (category, period): the first wins deterministically.
	planned := make(map[catPeriod]Money)
	for _, plan := range l.Plans() {
		k := catPeriod{category: plan.Category, period: plan.Period}
		if _, ok := planned[k]; ok {
			continue
		}
		planned[k] = plan.Planned
		touch(k)
	}

	sort.Slice(keys, func(i, j int) bool {
		if c := compareMonths(keys[i].period, keys[j].period); c != 0 {
			return c < 0
		}
		return keys[i].category < keys[j].category
	})

	medians := categoryMedians(l, cfg)
	deltas := make(map[catPeriod]Money, len(keys))
	records := make([]VarianceRecord, 0, len(keys))
	for _, k := range keys {
		actual := actuals[k]
		plan, hasPlan := planned[k]
		if !hasPlan {
			plan = M(0, cfg.Currency)
		}
		delta := actual.Sub(plan)
		deltas[k] = delta
		records = append(records, VarianceRecord{
			Category: k.category,
			Period:   k.period,
			Planned:  plan,
			Actual:   actual,
			Delta:    delta,
			Driver:   attributeDriver(l, cfg, k, delta, hasPlan, medians[k.category], deltas),
		})
	}
	return records
}

// attributeDriver evaluates the rule set in fixed priority order.
func attributeDriver(l *Ledger, cfg Config, k catPeriod, delta Money, hasPlan bool, median Money, deltas map[catPeriod]Money) Driver {
	if delta.IsZero() {
		return DriverUnattributed
	}
	if !hasPlan {
		return DriverUnplanned
	}

	// One-time outlier: a single transaction in the period exceeding a
	// multiple of the category's historical median size.
	if median.IsPositive() {
		threshold := median.Scale(decimal.NewFromFloat(cfg.OutlierMedianMultiple))
		for _, tx := range l.Transactions(ByCategory(k.category), InMonth(k.period)) {
			if tx.Amount.Abs().GreaterThanOrEqual(threshold) {
				return DriverOneTimeOutlier
			}
		}
	}

	// Trend drift: same-signed delta in this and the two preceding periods.
	// Records are built in chronological order, so earlier deltas are known.
	prev, ok1 := deltas[catPeriod{category: k.category, period: k.period.Prev()}]
	prev2, ok2 := deltas[catPeriod{category: k.category, period: k.period.Prev().Prev()}]
	if ok1 && ok2 && sameSign(delta, prev) && sameSign(delta, prev2) {
		return DriverTrendDrift
	}

	return DriverUnattributed
}

func sameSign(a, b Money) bool {
	return (a.IsPositive() && b.IsPositive()) || (a.IsNegative() && b.IsNegative())
}

// categoryMedians computes the historical median absolute transaction size
// per category, over the whole register.
func categoryMedians(l *Ledger, cfg Config) map[string]Money {
	amounts := make(map[string][]decimal.Decimal)
	for _, tx := range l.Transactions() {
		amounts[tx.Category] = append(amounts[tx.Category], tx.Amount.Decimal().Abs())
	}
	medians := make(map[string]Money, len(amounts))
	for category, values := range amounts {
		slices.SortFunc(values, func(a, b decimal.Decimal) int { return a.Cmp(b) })
		n := len(values)
		var median decimal.Decimal
		if n%2 == 1 {
			median = values[n/2]
		} else {
			median = values[n/2-1].Add(values[n/2]).Div(decimal.NewFromInt(2))
		}
		medians[category] = M(median, cfg.Currency)
	}
	return medians
}

// allocationGraph distributes every income source's total across the
// expense categories, proportionally to each category's share of total
// spend. The remainder after rounding lands on the last edge so each
// source conserves its allocated amount exactly.
func allocationGraph(l *Ledger, cfg Config) (AllocationGraph, error) {
	incomes := make(map[string]Money)
	spends := make(map[string]Money)
	for _, tx := range l.Transactions() {
		switch {
		case tx.Amount.IsPositive():
			incomes[tx.Category] = incomes[tx.Category].Add(tx.Amount)
		case tx.Amount.IsNegative():
			spends[tx.Category] = spends[tx.Category].Add(tx.Amount.Neg())
		}
	}

	sources := sortedKeys(incomes)
	sinks := sortedKeys(spends)

	totalSpend := M(0, cfg.Currency)
	for _, sink := range sinks {
		totalSpend = totalSpend.Add(spends[sink])
	}

	graph := AllocationGraph{Sources: sources, Sinks: sinks}
	if totalSpend.IsZero() {
		return graph, nil
	}

	for _, source := range sources {
		income := incomes[source]
		remaining := income
		for i, sink := range sinks {
			var weight Money
			if i == len(sinks)-1 {
				weight = remaining
			} else {
				share := spends[sink].Decimal().Div(totalSpend.Decimal())
				weight = income.Scale(share).Round()
				remaining = remaining.Sub(weight)
			}
			graph.Edges = append(graph.Edges, FlowEdge{From: source, To: sink, Weight: weight})
		}

		// Conservation must hold by construction; a violation here is a
		// defect, not a data problem.
		if diff := graph.Allocated(source).Sub(income).Abs(); diff.GreaterThan(income.Unit()) {
			return AllocationGraph{}, invariantf("flow-conservation",
				"source %q allocates %s, income is %s", source, graph.Allocated(source), income)
		}
	}
	return graph, nil
}

// fixedCostSeries reports needs/income per period, for periods where income
// is known and positive.
func fixedCostSeries(l *Ledger, cfg Config) []FixedCostPoint {
	type flows struct{ income, needs Money }
	perPeriod := make(map[Month]*flows)
	var periods []Month

	for _, tx := range l.Transactions() {
		if tx.Date.IsZero() {
			continue
		}
		p := MonthOf(tx.Date)
		f, ok := perPeriod[p]
		if !ok {
			f = &flows{income: M(0, cfg.Currency), needs: M(0, cfg.Currency)}
			perPeriod[p] = f
			periods = append(periods, p)
		}
		if tx.Amount.IsPositive() {
			f.income = f.income.Add(tx.Amount)
		} else if rollup(cfg, tx.Category) == "needs" {
			f.needs = f.needs.Add(tx.Amount.Neg())
		}
	}

	slices.SortFunc(periods, compareMonths)
	var series []FixedCostPoint
	for _, p := range periods {
		f := perPeriod[p]
		if !f.income.IsPositive() {
			continue
		}
		ratio := f.needs.Decimal().Div(f.income.Decimal())
		series = append(series, FixedCostPoint{Period: p, Ratio: Percent(100 * ratio.InexactFloat64())})
	}
	return series
}

// rollup assigns a category to its allocation group; unmatched categories
// roll up to "other".
func rollup(cfg Config, category string) string {
	if group, ok := resolveAlias(cfg.Rollups, category); ok {
		return group
	}
	return "other"
}

func sortedKeys(m map[string]Money) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
