package household

import (
	"errors"

	"github.com/Rhymond/go-money"
)

// UncategorizedCategory is the canonical category assigned to rows whose
// label could not be resolved.
const UncategorizedCategory = "uncategorized"

// AliasRule rewrites a raw label to a canonical name. Rules are evaluated
// in order, first match wins, so resolution is reproducible across runs.
type AliasRule struct {
	Match     string `json:"match"`
	Canonical string `json:"canonical"`
}

// ExposureRule derives an exposure estimate for one risk category from the
// household's balance sheet totals and dependent count. Factors apply to the
// latest gross asset and liability totals; PerDependent is an amount in the
// reporting currency added once per dependent.
type ExposureRule struct {
	Risk            string  `json:"risk"`
	AssetFactor     float64 `json:"asset_factor,omitempty"`
	LiabilityFactor float64 `json:"liability_factor,omitempty"`
	PerDependent    float64 `json:"per_dependent,omitempty"`
}

// Config carries every knob the engines read. It is an immutable value
// passed into each engine call; engines never mutate it and never consult
// any other ambient state.
type Config struct {
	// Currency is the reporting currency (ISO 4217 code).
	Currency string `json:"currency"`

	// CategoryAliases maps heterogeneous raw labels to canonical categories.
	// Exact (case-insensitive) matches are tried first, then substring
	// containment, in rule order.
	CategoryAliases []AliasRule `json:"category_aliases,omitempty"`

	// MerchantAliases normalizes vendor names extracted from descriptions,
	// e.g. "amzn mktp" -> "amazon".
	MerchantAliases []AliasRule `json:"merchant_aliases,omitempty"`

	// Rollups assigns categories to allocation groups (needs, wants, debt,
	// savings). Categories without a rule roll up to "other".
	Rollups []AliasRule `json:"rollups,omitempty"`

	// ExposureRules drive the risk coverage map.
	ExposureRules []ExposureRule `json:"exposure_rules,omitempty"`

	// StalenessHorizonDays caps the staleness contribution of any account to
	// the confidence band; balances older than this are flagged stale.
	StalenessHorizonDays int `json:"staleness_horizon_days"`

	// ConfidenceThreshold is the source confidence below which a transaction
	// is queued for review. In [0,1].
	ConfidenceThreshold float64 `json:"confidence_threshold"`

	// FragmentationVendorThreshold is the distinct vendor count per category
	// above which spend is considered fragmented.
	FragmentationVendorThreshold int `json:"fragmentation_vendor_threshold"`

	// SubscriptionMinOccurrences is the minimum number of charges before a
	// vendor/amount group can be flagged recurring.
	SubscriptionMinOccurrences int `json:"subscription_min_occurrences"`

	// SubscriptionAmountTolerance is the relative amount spread (e.g. 0.1
	// for 10%) within which charges are grouped together.
	SubscriptionAmountTolerance float64 `json:"subscription_amount_tolerance"`

	// SubscriptionMaxJitterDays is the maximum spread between the shortest
	// and longest observed charge interval for a group to count as regular.
	SubscriptionMaxJitterDays int `json:"subscription_max_jitter_days"`

	// OutlierMedianMultiple is the multiple of a category's historical
	// median transaction size beyond which a single transaction explains a
	// variance ("one-time-outlier").
	OutlierMedianMultiple float64 `json:"outlier_median_multiple"`

	// StalenessBandRatio scales the staleness share of the confidence band:
	// a fully stale account contributes its absolute balance times this ratio.
	StalenessBandRatio float64 `json:"staleness_band_ratio"`

	// FlagBandRatio scales the integrity-flag share of the confidence band,
	// as a fraction of gross balance per severity point.
	FlagBandRatio float64 `json:"flag_band_ratio"`

	// RenewalLookaheadDays marks renewal events as due soon.
	RenewalLookaheadDays int `json:"renewal_lookahead_days"`

	// Dependents is the number of household dependents, used by exposure rules.
	Dependents int `json:"dependents"`

	// VolatilityMonths is the length of the trailing monthly spend series.
	VolatilityMonths int `json:"volatility_months"`
}

// DefaultConfig returns the documented defaults. Absent keys in a caller's
// configuration fall back to these values rather than failing.
func DefaultConfig() Config {
	return Config{
		Currency: "USD",
		MerchantAliases: []AliasRule{
			{Match: "amzn mktp", Canonical: "amazon"},
			{Match: "amazon.com", Canonical: "amazon"},
		},
		Rollups: []AliasRule{
			{Match: "groceries", Canonical: "needs"},
			{Match: "rent", Canonical: "needs"},
			{Match: "mortgage", Canonical: "needs"},
			{Match: "utilities", Canonical: "needs"},
			{Match: "insurance", Canonical: "needs"},
			{Match: "dining", Canonical: "wants"},
			{Match: "entertainment", Canonical: "wants"},
			{Match: "subscriptions", Canonical: "wants"},
			{Match: "shopping", Canonical: "wants"},
			{Match: "loan", Canonical: "debt"},
			{Match: "credit card", Canonical: "debt"},
			{Match: "savings", Canonical: "savings"},
			{Match: "investment", Canonical: "savings"},
		},
		ExposureRules: []ExposureRule{
			{Risk: "liability", AssetFactor: 1},
			{Risk: "property", AssetFactor: 0.5},
			{Risk: "life", LiabilityFactor: 1, PerDependent: 250000},
			{Risk: "health", PerDependent: 50000},
		},
		StalenessHorizonDays:         90,
		ConfidenceThreshold:          0.5,
		FragmentationVendorThreshold: 5,
		SubscriptionMinOccurrences:   3,
		SubscriptionAmountTolerance:  0.1,
		SubscriptionMaxJitterDays:    5,
		OutlierMedianMultiple:        3,
		StalenessBandRatio:           0.25,
		FlagBandRatio:                0.01,
		RenewalLookaheadDays:         365,
		VolatilityMonths:             6,
	}
}

// Validate checks the configuration for values that cannot be safely
// defaulted. It returns all problems at once, each as a ConfigError.
func (c Config) Validate() error {
	var errs error
	if money.GetCurrency(c.Currency) == nil {
		errs = errors.Join(errs, configErrorf("currency", "unknown currency code %q", c.Currency))
	}
	if c.StalenessHorizonDays <= 0 {
		errs = errors.Join(errs, configErrorf("staleness_horizon_days", "must be positive, got %d", c.StalenessHorizonDays))
	}
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		errs = errors.Join(errs, configErrorf("confidence_threshold", "must be in [0,1], got %v", c.ConfidenceThreshold))
	}
	if c.FragmentationVendorThreshold <= 0 {
		errs = errors.Join(errs, configErrorf("fragmentation_vendor_threshold", "must be positive, got %d", c.FragmentationVendorThreshold))
	}
	if c.SubscriptionMinOccurrences < 2 {
		errs = errors.Join(errs, configErrorf("subscription_min_occurrences", "must be at least 2, got %d", c.SubscriptionMinOccurrences))
	}
	if c.SubscriptionAmountTolerance < 0 {
		errs = errors.Join(errs, configErrorf("subscription_amount_tolerance", "must not be negative, got %v", c.SubscriptionAmountTolerance))
	}
	if c.SubscriptionMaxJitterDays < 0 {
		errs = errors.Join(errs, configErrorf("subscription_max_jitter_days", "must not be negative, got %d", c.SubscriptionMaxJitterDays))
	}
	if c.OutlierMedianMultiple <= 1 {
		errs = errors.Join(errs, configErrorf("outlier_median_multiple", "must be greater than 1, got %v", c.OutlierMedianMultiple))
	}
	if c.StalenessBandRatio < 0 {
		errs = errors.Join(errs, configErrorf("staleness_band_ratio", "must not be negative, got %v", c.StalenessBandRatio))
	}
	if c.FlagBandRatio < 0 {
		errs = errors.Join(errs, configErrorf("flag_band_ratio", "must not be negative, got %v", c.FlagBandRatio))
	}
	if c.RenewalLookaheadDays < 0 {
		errs = errors.Join(errs, configErrorf("renewal_lookahead_days", "must not be negative, got %d", c.RenewalLookaheadDays))
	}
	if c.Dependents < 0 {
		errs = errors.Join(errs, configErrorf("dependents", "must not be negative, got %d", c.Dependents))
	}
	if c.VolatilityMonths <= 0 {
		errs = errors.Join(errs, configErrorf("volatility_months", "must be positive, got %d", c.VolatilityMonths))
	}
	for _, rule := range c.ExposureRules {
		if rule.AssetFactor < 0 || rule.LiabilityFactor < 0 || rule.PerDependent < 0 {
			errs = errors.Join(errs, configErrorf("exposure_rules", "negative factor for risk %q", rule.Risk))
		}
	}
	return errs
}

// resolveAlias applies an ordered rule table: exact case-insensitive match
// first, then substring containment, first match wins. The second return
// value is false when no rule matched.
func resolveAlias(rules []AliasRule, label string) (string, bool) {
	lower := lowerTrim(label)
	for _, r := range rules {
		if lowerTrim(r.Match) == lower {
			return r.Canonical, true
		}
	}
	for _, r := range rules {
		if contains(lower, lowerTrim(r.Match)) {
			return r.Canonical, true
		}
	}
	return "", false
}
