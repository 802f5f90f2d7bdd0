package household

import (
	"testing"
)

func TestNormalize_Register(t *testing.T) {
	cfg := DefaultConfig()
	rows := []RawRecord{
		{Kind: RecordRegister, ID: "a1", Date: "2027-01-05", Amount: "-$1,234.56", Label: "Groceries", Description: "WHOLEFDS 123"},
		{Kind: RecordRegister, Date: "not a date", Amount: "-12.00", Label: "dining"},
		{Kind: RecordRegister, Date: "garbage", Amount: "garbage", Label: "dining"},
		{Kind: RecordRegister, Date: "2027-01-06", Amount: "50", Label: "Ready to Assign"},
	}

	l, err := Normalize(rows, cfg)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	transactions, _, _, _ := l.Counts()
	if got, want := transactions, 4; got != want {
		t.Fatalf("transactions = %d, want %d: unreadable register rows must be kept", got, want)
	}

	byID := make(map[string]Transaction)
	for _, tx := range l.Transactions() {
		byID[tx.ID] = tx
	}

	t.Run("clean row", func(t *testing.T) {
		tx := byID["a1"]
		if got, want := tx.Amount, USD(-1234.56); !got.Equal(want) {
			t.Errorf("Amount = %v, want %v", got, want)
		}
		if got, want := tx.Category, "groceries"; got != want {
			t.Errorf("Category = %q, want %q", got, want)
		}
		if got, want := tx.SourceConfidence, 1.0; got != want {
			t.Errorf("SourceConfidence = %v, want %v", got, want)
		}
	})

	t.Run("bad date keeps partial confidence", func(t *testing.T) {
		tx := byID["r0001"]
		if !tx.Date.IsZero() {
			t.Errorf("Date = %v, want zero", tx.Date)
		}
		if got, want := tx.SourceConfidence, 0.25; got != want {
			t.Errorf("SourceConfidence = %v, want %v", got, want)
		}
	})

	t.Run("nothing parseable scores zero", func(t *testing.T) {
		tx := byID["r0002"]
		if got, want := tx.SourceConfidence, 0.0; got != want {
			t.Errorf("SourceConfidence = %v, want %v", got, want)
		}
	})

	t.Run("placeholder label resolves to uncategorized", func(t *testing.T) {
		tx := byID["r0003"]
		if got, want := tx.Category, UncategorizedCategory; got != want {
			t.Errorf("Category = %q, want %q", got, want)
		}
		if tx.SourceConfidence >= cfg.ConfidenceThreshold {
			t.Errorf("SourceConfidence = %v, want below threshold %v", tx.SourceConfidence, cfg.ConfidenceThreshold)
		}
	})
}

func TestNormalize_CategoryAliases(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CategoryAliases = []AliasRule{
		{Match: "grocery", Canonical: "groceries"},
		{Match: "whole foods", Canonical: "groceries"},
	}

	tests := []struct {
		label string
		want  string
	}{
		{"GROCERY", "groceries"},       // exact, case-insensitive
		{"Whole Foods #44", "groceries"}, // substring
		{"gym", "gym"},                 // unmatched labels keep their own name
		{"", UncategorizedCategory},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, _ := resolveCategory(tt.label, cfg)
			if got != tt.want {
				t.Errorf("resolveCategory(%q) = %q, want %q", tt.label, got, tt.want)
			}
		})
	}
}

func TestNormalize_Vendor(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		description string
		want        string
	}{
		{"NETFLIX.COM 0231", "netflixcom"},
		{"Netflix.com 8749", "netflixcom"},
		{"AMZN Mktp US*1X2Y3", "amazon"}, // merchant alias
		{"Corner   Store 12", "corner store"},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			if got := resolveVendor(tt.description, cfg); got != tt.want {
				t.Errorf("resolveVendor(%q) = %q, want %q", tt.description, got, tt.want)
			}
		})
	}
}

func TestNormalize_Snapshot(t *testing.T) {
	cfg := DefaultConfig()
	rows := []RawRecord{
		{Kind: RecordSnapshot, Account: "checking", Type: "asset", Date: "2027-01-31", Amount: "5,000.00"},
		{Kind: RecordSnapshot, Account: "mortgage", Type: "liability", Date: "2027-01-31", Amount: "张三"},
		{Kind: RecordSnapshot, Account: "lost", Type: "asset", Date: "whenever", Amount: "10"},
	}
	l, err := Normalize(rows, cfg)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	_, snapshots, _, _ := l.Counts()
	if got, want := snapshots, 2; got != want {
		t.Fatalf("snapshots = %d, want %d", got, want)
	}
	if got, want := len(l.Skipped()), 1; got != want {
		t.Fatalf("skipped = %d, want %d: a dateless balance has no timeline position", got, want)
	}

	for _, snap := range l.Snapshots() {
		switch snap.Account {
		case "checking":
			if got, want := snap.Balance, USD(5000); !got.Equal(want) {
				t.Errorf("Balance = %v, want %v", got, want)
			}
			if got, want := snap.LastUpdated, snap.AsOf; got != want {
				t.Errorf("LastUpdated = %v, want AsOf %v", got, want)
			}
		case "mortgage":
			if !snap.Balance.IsZero() {
				t.Errorf("unreadable balance = %v, want zero", snap.Balance)
			}
			if got, want := snap.Confidence, 0.0; got != want {
				t.Errorf("Confidence = %v, want %v", got, want)
			}
		}
	}
}

func TestNormalize_PlanAndPolicy(t *testing.T) {
	cfg := DefaultConfig()
	rows := []RawRecord{
		{Kind: RecordPlan, Label: "groceries", Period: "2027-01", Amount: "-600"},
		{Kind: RecordPlan, Label: "groceries", Period: "January", Amount: "-600"},
		{Kind: RecordPolicy, Type: "Life", Limit: "$500,000", Premium: "42.50", Renewal: "2027-06-01"},
		{Kind: RecordPolicy, ID: "p2", Type: "auto", Limit: "oops", Premium: "", Renewal: "someday"},
		{Kind: "balance", Account: "x"},
	}
	l, err := Normalize(rows, cfg)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	_, _, plans, policies := l.Counts()
	if got, want := plans, 1; got != want {
		t.Errorf("plans = %d, want %d", got, want)
	}
	if got, want := policies, 2; got != want {
		t.Errorf("policies = %d, want %d", got, want)
	}
	if got, want := len(l.Skipped()), 2; got != want {
		t.Errorf("skipped = %d, want %d", got, want)
	}

	for _, pol := range l.Policies() {
		switch pol.Type {
		case "life":
			if got, want := pol.ID, "pol0002_life"; got != want {
				t.Errorf("generated ID = %q, want %q", got, want)
			}
			if got, want := pol.CoverageLimit, USD(500000); !got.Equal(want) {
				t.Errorf("CoverageLimit = %v, want %v", got, want)
			}
		case "auto":
			if !pol.Renewal.IsZero() {
				t.Errorf("unreadable renewal = %v, want zero (unknown)", pol.Renewal)
			}
			if !pol.CoverageLimit.IsZero() {
				t.Errorf("unreadable limit = %v, want zero", pol.CoverageLimit)
			}
		}
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		err   bool
	}{
		{"1234.56", 1234.56, false},
		{"$1,234.56", 1234.56, false},
		{"€50", 50, false},
		{"(25.00)", -25, false},
		{"-3.1", -3.1, false},
		{"", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseAmount(tt.input)
			if (err != nil) != tt.err {
				t.Fatalf("parseAmount(%q) error = %v, wantErr %v", tt.input, err, tt.err)
			}
			if !tt.err && !got.Equal(newDecimal(tt.want)) {
				t.Errorf("parseAmount(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
