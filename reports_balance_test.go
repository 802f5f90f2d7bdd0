package household

import (
	"fmt"
	"testing"
)

func TestBalanceReport_LowConfidenceQueue(t *testing.T) {
	cfg := DefaultConfig()
	rows := make([]RawRecord, 0, 10)
	for i := 0; i < 8; i++ {
		rows = append(rows, RawRecord{
			Kind:   RecordRegister,
			Date:   fmt.Sprintf("2027-01-%02d", i+1),
			Amount: "-10.00",
			Label:  "groceries",
		})
	}
	rows = append(rows,
		RawRecord{Kind: RecordRegister, Date: "13/45/9999", Amount: "-10.00", Label: "groceries"},
		RawRecord{Kind: RecordRegister, Date: "sometime last week", Amount: "-10.00", Label: "groceries"},
	)

	l, err := Normalize(rows, cfg)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	report, err := NewBalanceReport(l, cfg, NewDate(2027, 2, 1))
	if err != nil {
		t.Fatalf("NewBalanceReport() error = %v", err)
	}

	var lowConfidence int
	for _, flag := range report.Queue {
		if flag.Reason == ReasonLowConfidence {
			lowConfidence++
		}
	}
	if got, want := lowConfidence, 2; got != want {
		t.Errorf("low-confidence flags = %d, want %d: every unparseable row, nothing else", got, want)
	}
}

func TestBalanceReport_NetWorth(t *testing.T) {
	cfg := DefaultConfig()
	l := NewLedger()
	l.AppendSnapshots(
		snap("checking", Asset, 5000, "2027-01-31"),
		AccountSnapshot{
			Account:     "mortgage",
			Type:        Liability,
			Balance:     USD(200000),
			AsOf:        MustParseDate("2027-01-31"),
			LastUpdated: MustParseDate("2026-09-01"),
			Confidence:  1,
		},
	)

	report, err := NewBalanceReport(l, cfg, NewDate(2027, 1, 31))
	if err != nil {
		t.Fatalf("NewBalanceReport() error = %v", err)
	}
	if got, want := len(report.Points), 1; got != want {
		t.Fatalf("points = %d, want %d", got, want)
	}

	point := report.Points[0]
	if got, want := point.NetWorth, USD(-195000); !got.Equal(want) {
		t.Errorf("NetWorth = %v, want %v", got, want)
	}
	if got, want := point.Reconciled, 1; got != want {
		t.Errorf("Reconciled = %d, want %d", got, want)
	}
	if got, want := point.Estimated, 1; got != want {
		t.Errorf("Estimated = %d, want %d", got, want)
	}
	if !point.Band.Width().IsPositive() {
		t.Errorf("Band width = %v, want positive: the mortgage balance is months stale", point.Band.Width())
	}
	if !point.Band.Lower.LessThan(point.NetWorth) || !point.NetWorth.LessThan(point.Band.Upper) {
		t.Errorf("band [%v, %v] does not bracket net worth %v", point.Band.Lower, point.Band.Upper, point.NetWorth)
	}

	var stale int
	for _, flag := range report.Queue {
		if flag.Reason == ReasonStaleBalance && flag.Entity == "mortgage" {
			stale++
		}
	}
	if got, want := stale, 1; got != want {
		t.Errorf("stale-balance flags for mortgage = %d, want %d", got, want)
	}
}

func TestBalanceReport_BandGrowsWithStaleness(t *testing.T) {
	cfg := DefaultConfig()
	l := NewLedger()
	l.AppendSnapshots(
		snap("brokerage", Asset, 10000, "2027-01-01"),
		snap("checking", Asset, 1000, "2027-02-15"),
	)

	report, err := NewBalanceReport(l, cfg, NewDate(2027, 2, 15))
	if err != nil {
		t.Fatalf("NewBalanceReport() error = %v", err)
	}
	if got, want := len(report.Points), 2; got != want {
		t.Fatalf("points = %d, want %d", got, want)
	}

	first, second := report.Points[0], report.Points[1]
	if !first.Band.Width().LessThan(second.Band.Width()) {
		t.Errorf("band width did not grow with staleness: %v then %v",
			first.Band.Width(), second.Band.Width())
	}
}

func TestBalanceReport_BandGrowsWithFlags(t *testing.T) {
	cfg := DefaultConfig()

	width := func(t *testing.T, l *Ledger) Money {
		t.Helper()
		report, err := NewBalanceReport(l, cfg, NewDate(2027, 1, 31))
		if err != nil {
			t.Fatalf("NewBalanceReport() error = %v", err)
		}
		if got, want := len(report.Points), 1; got != want {
			t.Fatalf("points = %d, want %d", got, want)
		}
		return report.Points[0].Band.Width()
	}

	clean := NewLedger()
	clean.AppendSnapshots(snap("checking", Asset, 1000, "2027-01-31"))

	// Same snapshot, same staleness, plus one shaky register row.
	flagged := NewLedger()
	flagged.AppendSnapshots(snap("checking", Asset, 1000, "2027-01-31"))
	shaky := tx("x1", "2027-01-10", -25, "groceries")
	shaky.SourceConfidence = 0.2
	flagged.AppendTransactions(shaky)

	before, after := width(t, clean), width(t, flagged)
	if !before.LessThan(after) {
		t.Errorf("band width did not grow with the extra flag: %v then %v", before, after)
	}
}

func TestBalanceReport_StalenessBoundary(t *testing.T) {
	cfg := DefaultConfig()
	asOf := NewDate(2027, 4, 1)

	t.Run("at the horizon still reconciled", func(t *testing.T) {
		l := NewLedger()
		l.AppendSnapshots(AccountSnapshot{
			Account:     "checking",
			Type:        Asset,
			Balance:     USD(1000),
			AsOf:        asOf,
			LastUpdated: NewDate(2027, 1, 1),
			Confidence:  1,
		})
		report, err := NewBalanceReport(l, cfg, asOf)
		if err != nil {
			t.Fatalf("NewBalanceReport() error = %v", err)
		}
		point := report.Points[0]
		if got, want := point.Reconciled, 1; got != want {
			t.Errorf("Reconciled = %d, want %d", got, want)
		}
		if got, want := point.Estimated, 0; got != want {
			t.Errorf("Estimated = %d, want %d", got, want)
		}
		if got, want := countReason(report.Queue, ReasonStaleBalance), 0; got != want {
			t.Errorf("stale-balance flags = %d, want %d", got, want)
		}
	})

	t.Run("one day past the horizon is estimated and flagged", func(t *testing.T) {
		l := NewLedger()
		l.AppendSnapshots(AccountSnapshot{
			Account:     "checking",
			Type:        Asset,
			Balance:     USD(1000),
			AsOf:        asOf,
			LastUpdated: NewDate(2026, 12, 31),
			Confidence:  1,
		})
		report, err := NewBalanceReport(l, cfg, asOf)
		if err != nil {
			t.Fatalf("NewBalanceReport() error = %v", err)
		}
		point := report.Points[0]
		if got, want := point.Estimated, 1; got != want {
			t.Errorf("Estimated = %d, want %d", got, want)
		}
		if got, want := countReason(report.Queue, ReasonStaleBalance), 1; got != want {
			t.Errorf("stale-balance flags = %d, want %d", got, want)
		}
	})
}

func TestBalanceReport_DuplicateSnapshot(t *testing.T) {
	cfg := DefaultConfig()
	l := NewLedger()
	l.AppendSnapshots(
		snap("checking", Asset, 100, "2027-01-31"),
		snap("checking", Asset, 999, "2027-01-31"),
	)

	report, err := NewBalanceReport(l, cfg, NewDate(2027, 1, 31))
	if err != nil {
		t.Fatalf("NewBalanceReport() error = %v", err)
	}

	var duplicates int
	for _, flag := range report.Queue {
		if flag.Reason == ReasonDuplicateSnapshot {
			duplicates++
		}
	}
	if got, want := duplicates, 1; got != want {
		t.Errorf("duplicate flags = %d, want %d", got, want)
	}
	// The first snapshot wins deterministically.
	if got, want := report.Points[0].Assets, USD(100); !got.Equal(want) {
		t.Errorf("Assets = %v, want %v", got, want)
	}
}

func TestBalanceReport_Transfers(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("balanced pair is silent", func(t *testing.T) {
		l := NewLedger()
		a := tx("t1", "2027-01-05", -500, "transfer")
		a.Link = "t2"
		b := tx("t2", "2027-01-05", 500, "transfer")
		b.Link = "t1"
		l.AppendTransactions(a, b)

		report, err := NewBalanceReport(l, cfg, NewDate(2027, 1, 31))
		if err != nil {
			t.Fatalf("NewBalanceReport() error = %v", err)
		}
		for _, flag := range report.Queue {
			if flag.Reason == ReasonUnbalancedTransfer {
				t.Errorf("unexpected transfer flag: %+v", flag)
			}
		}
	})

	t.Run("orphan leg is flagged", func(t *testing.T) {
		l := NewLedger()
		a := tx("t1", "2027-01-05", -500, "transfer")
		a.Link = "gone"
		l.AppendTransactions(a)

		report, err := NewBalanceReport(l, cfg, NewDate(2027, 1, 31))
		if err != nil {
			t.Fatalf("NewBalanceReport() error = %v", err)
		}
		if got, want := countReason(report.Queue, ReasonUnbalancedTransfer), 1; got != want {
			t.Errorf("transfer flags = %d, want %d", got, want)
		}
	})

	t.Run("nonzero residual is flagged", func(t *testing.T) {
		l := NewLedger()
		a := tx("t1", "2027-01-05", -500, "transfer")
		a.Link = "t2"
		b := tx("t2", "2027-01-05", 480, "transfer")
		b.Link = "t1"
		l.AppendTransactions(a, b)

		report, err := NewBalanceReport(l, cfg, NewDate(2027, 1, 31))
		if err != nil {
			t.Fatalf("NewBalanceReport() error = %v", err)
		}
		if got, want := countReason(report.Queue, ReasonUnbalancedTransfer), 1; got != want {
			t.Errorf("transfer flags = %d, want %d", got, want)
		}
	})
}

func TestBalanceReport_QueueOrder(t *testing.T) {
	cfg := DefaultConfig()
	l := NewLedger()
	// Missing type is critical, staleness only a warning.
	l.AppendSnapshots(
		AccountSnapshot{Account: "old", Type: Asset, Balance: USD(10), AsOf: MustParseDate("2026-01-01"), LastUpdated: MustParseDate("2026-01-01"), Confidence: 1},
		AccountSnapshot{Account: "mystery", Balance: USD(10), AsOf: MustParseDate("2027-01-01"), LastUpdated: MustParseDate("2027-01-01"), Confidence: 1},
	)

	report, err := NewBalanceReport(l, cfg, NewDate(2027, 1, 2))
	if err != nil {
		t.Fatalf("NewBalanceReport() error = %v", err)
	}
	if len(report.Queue) < 2 {
		t.Fatalf("queue = %d flags, want at least 2", len(report.Queue))
	}
	for i := 1; i < len(report.Queue); i++ {
		if report.Queue[i].Severity > report.Queue[i-1].Severity {
			t.Errorf("queue not ordered by severity: %v after %v",
				report.Queue[i].Severity, report.Queue[i-1].Severity)
		}
	}
	if got, want := report.Queue[0].Reason, ReasonMissingAccountType; got != want {
		t.Errorf("Queue[0].Reason = %v, want %v", got, want)
	}
}

func countReason(flags []IntegrityFlag, reason ReasonCode) int {
	var n int
	for _, f := range flags {
		if f.Reason == reason {
			n++
		}
	}
	return n
}
