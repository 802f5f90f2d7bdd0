package household

// Review bundles the four engine reports computed over the same ledger,
// config and as-of date. Running it twice on the same inputs yields
// byte-identical JSON.
type Review struct {
	AsOf     Date            `json:"as_of"`
	Currency string          `json:"currency"`
	Balance  *BalanceReport  `json:"balance"`
	Cashflow *CashflowReport `json:"cashflow"`
	Risk     *RiskReport     `json:"risk"`
	Leakage  *LeakageReport  `json:"leakage"`
}

// NewReview validates the config once and runs the four engines. Engines
// are pure over their inputs; nothing here consults the clock or any other
// ambient state.
func NewReview(l *Ledger, cfg Config, asOf Date) (*Review, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	balance, err := NewBalanceReport(l, cfg, asOf)
	if err != nil {
		return nil, err
	}
	cashflow, err := NewCashflowReport(l, cfg)
	if err != nil {
		return nil, err
	}
	risk, err := NewRiskReport(l, cfg, asOf)
	if err != nil {
		return nil, err
	}
	leakage, err := NewLeakageReport(l, cfg)
	if err != nil {
		return nil, err
	}

	return &Review{
		AsOf:     asOf,
		Currency: cfg.Currency,
		Balance:  balance,
		Cashflow: cashflow,
		Risk:     risk,
		Leakage:  leakage,
	}, nil
}
