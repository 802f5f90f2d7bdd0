package household

import (
	"testing"
)

func findCoverage(t *testing.T, report *RiskReport, risk string) CoverageItem {
	t.Helper()
	for _, c := range report.Coverage {
		if c.Risk == risk {
			return c
		}
	}
	t.Fatalf("no coverage item for %q", risk)
	return CoverageItem{}
}

func TestRiskReport_Coverage(t *testing.T) {
	cfg := DefaultConfig()
	l := NewLedger()
	l.AppendSnapshots(
		snap("checking", Asset, 5000, "2027-01-31"),
		snap("mortgage", Liability, 200000, "2027-01-31"),
	)
	l.AppendPolicies(Policy{
		ID:            "pol1",
		Type:          "life",
		CoverageLimit: USD(300000),
		Premium:       USD(40),
		Renewal:       MustParseDate("2027-06-01"),
	})

	report, err := NewRiskReport(l, cfg, NewDate(2027, 2, 1))
	if err != nil {
		t.Fatalf("NewRiskReport() error = %v", err)
	}
	if got, want := len(report.Coverage), len(cfg.ExposureRules); got != want {
		t.Fatalf("coverage items = %d, want one per exposure rule (%d)", got, want)
	}

	t.Run("covered risk keeps a zero gap entry", func(t *testing.T) {
		life := findCoverage(t, report, "life")
		if got, want := life.Exposure, USD(200000); !got.Equal(want) {
			t.Errorf("Exposure = %v, want %v", got, want)
		}
		if !life.Gap.IsZero() {
			t.Errorf("Gap = %v, want zero: over-coverage never reports negative", life.Gap)
		}
		if got, want := len(life.Policies), 1; got != want {
			t.Errorf("policies = %d, want %d", got, want)
		}
	})

	t.Run("uncovered risk reports the full exposure", func(t *testing.T) {
		liability := findCoverage(t, report, "liability")
		if got, want := liability.Gap, USD(5000); !got.Equal(want) {
			t.Errorf("Gap = %v, want %v", got, want)
		}
	})

	t.Run("dependents raise exposure", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Dependents = 2
		report, err := NewRiskReport(l, cfg, NewDate(2027, 2, 1))
		if err != nil {
			t.Fatalf("NewRiskReport() error = %v", err)
		}
		life := findCoverage(t, report, "life")
		if got, want := life.Exposure, USD(700000); !got.Equal(want) {
			t.Errorf("Exposure = %v, want %v", got, want)
		}
	})
}

func TestRiskReport_Calendar(t *testing.T) {
	cfg := DefaultConfig()
	l := NewLedger()
	l.AppendPolicies(
		Policy{ID: "late", Type: "auto", Renewal: MustParseDate("2026-11-01"), Premium: USD(90)},
		Policy{ID: "soon", Type: "home", Renewal: MustParseDate("2027-03-01"), Premium: USD(120)},
		Policy{ID: "far", Type: "life", Renewal: MustParseDate("2029-01-01"), Premium: USD(40)},
		Policy{ID: "unknown", Type: "health"},
	)

	report, err := NewRiskReport(l, cfg, NewDate(2027, 1, 1))
	if err != nil {
		t.Fatalf("NewRiskReport() error = %v", err)
	}

	if got, want := len(report.Calendar), 3; got != want {
		t.Fatalf("calendar = %d events, want %d", got, want)
	}
	// Ascending by renewal date, past renewals included with negative days.
	if got, want := report.Calendar[0].PolicyID, "late"; got != want {
		t.Errorf("Calendar[0] = %q, want %q", got, want)
	}
	if got, want := report.Calendar[0].DaysUntil, -61; got != want {
		t.Errorf("DaysUntil = %d, want %d", got, want)
	}
	if report.Calendar[0].DueSoon {
		t.Error("a past renewal is not due soon")
	}
	if got, want := report.Calendar[1].DaysUntil, 59; got != want {
		t.Errorf("DaysUntil = %d, want %d", got, want)
	}
	if !report.Calendar[1].DueSoon {
		t.Error("renewal within the lookahead must be due soon")
	}
	if report.Calendar[2].DueSoon {
		t.Error("renewal beyond the lookahead is not due soon")
	}

	if got, want := len(report.NeedsAttention), 1; got != want {
		t.Fatalf("needs attention = %d, want %d", got, want)
	}
	if got, want := report.NeedsAttention[0], "unknown"; got != want {
		t.Errorf("NeedsAttention[0] = %q, want %q", got, want)
	}
}
