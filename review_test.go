package household

import (
	"bytes"
	"testing"
)

func reviewFixture(t *testing.T) ([]RawRecord, Config) {
	t.Helper()
	cfg := DefaultConfig()
	rows := []RawRecord{
		{Kind: RecordSnapshot, Account: "checking", Type: "asset", Date: "2027-01-31", Amount: "5000"},
		{Kind: RecordSnapshot, Account: "brokerage", Type: "asset", Date: "2027-01-31", Amount: "22000", Updated: "2026-10-01"},
		{Kind: RecordSnapshot, Account: "mortgage", Type: "liability", Date: "2027-01-31", Amount: "200000"},
		{Kind: RecordRegister, ID: "s1", Date: "2027-01-02", Amount: "4000", Label: "salary", Description: "ACME PAYROLL"},
		{Kind: RecordRegister, ID: "g1", Date: "2027-01-05", Amount: "-350", Label: "groceries", Description: "WHOLEFDS"},
		{Kind: RecordRegister, ID: "x1", Date: "not a date", Amount: "-10", Label: "dining"},
		{Kind: RecordPlan, Label: "groceries", Period: "2027-01", Amount: "-300"},
		{Kind: RecordPolicy, ID: "pol1", Type: "life", Limit: "300000", Premium: "40", Renewal: "2027-06-01"},
	}
	return rows, cfg
}

// Two runs over the same records must produce byte-identical output:
// nothing in a review may depend on the clock, map order or randomness.
func TestReview_Idempotent(t *testing.T) {
	rows, cfg := reviewFixture(t)
	asOf := NewDate(2027, 2, 1)

	render := func() []byte {
		t.Helper()
		l, err := Normalize(rows, cfg)
		if err != nil {
			t.Fatalf("Normalize() error = %v", err)
		}
		review, err := NewReview(l, cfg, asOf)
		if err != nil {
			t.Fatalf("NewReview() error = %v", err)
		}
		var buf bytes.Buffer
		if err := EncodeReview(&buf, review); err != nil {
			t.Fatalf("EncodeReview() error = %v", err)
		}
		return buf.Bytes()
	}

	first := render()
	for i := 0; i < 5; i++ {
		if next := render(); !bytes.Equal(first, next) {
			t.Fatalf("run %d produced different bytes:\n%s\nvs\n%s", i+2, first, next)
		}
	}
}

func TestReview_SharesInputs(t *testing.T) {
	rows, cfg := reviewFixture(t)
	l, err := Normalize(rows, cfg)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}

	asOf := NewDate(2027, 2, 1)
	review, err := NewReview(l, cfg, asOf)
	if err != nil {
		t.Fatalf("NewReview() error = %v", err)
	}

	if got, want := review.AsOf, asOf; got != want {
		t.Errorf("AsOf = %v, want %v", got, want)
	}
	if review.Balance == nil || review.Cashflow == nil || review.Risk == nil || review.Leakage == nil {
		t.Fatal("every section must be present")
	}
	if got, want := review.Balance.AsOf, review.Risk.AsOf; got != want {
		t.Errorf("sections disagree on as-of date: %v vs %v", got, want)
	}
}

func TestReview_RejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Currency = "BTC??"
	_, err := NewReview(NewLedger(), cfg, Today())
	if err == nil {
		t.Fatal("NewReview() with invalid currency expected error")
	}
	if !IsConfigError(err) {
		t.Errorf("error = %v, want a config error", err)
	}
}
