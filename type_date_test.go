package household

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input    string
		expected Date
		err      bool
	}{
		{"2025-01-15", NewDate(2025, time.January, 15), false},
		{"2025-7-1", NewDate(2025, time.July, 1), false},
		{"7/1/2025", NewDate(2025, time.July, 1), false},
		{"07/01/2025", NewDate(2025, time.July, 1), false},
		{"1/7/27", NewDate(2027, time.January, 7), false},
		{" 2025-01-15 ", NewDate(2025, time.January, 15), false},
		{"invalid-date", Date{}, true},
		{"", Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if (err != nil) != tt.err {
				t.Errorf("ParseDate(%q) error = %v, wantErr %v", tt.input, err, tt.err)
				return
			}
			if !tt.err && got != tt.expected {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDate_Sub(t *testing.T) {
	tests := []struct {
		name string
		d, x Date
		want int
	}{
		{"same day", NewDate(2027, 1, 15), NewDate(2027, 1, 15), 0},
		{"next day", NewDate(2027, 1, 16), NewDate(2027, 1, 15), 1},
		{"across month", NewDate(2027, 2, 1), NewDate(2027, 1, 1), 31},
		{"negative", NewDate(2027, 1, 1), NewDate(2027, 1, 31), -30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, want := tt.d.Sub(tt.x), tt.want; got != want {
				t.Errorf("Sub() = %d, want %d", got, want)
			}
		})
	}
}

func TestDate_JSON(t *testing.T) {
	t.Run("roundtrip", func(t *testing.T) {
		d := NewDate(2027, 3, 9)
		data, err := json.Marshal(d)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		if got, want := string(data), `"2027-03-09"`; got != want {
			t.Errorf("Marshal() = %s, want %s", got, want)
		}
		var back Date
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if back != d {
			t.Errorf("roundtrip = %v, want %v", back, d)
		}
	})

	t.Run("zero value", func(t *testing.T) {
		data, err := json.Marshal(Date{})
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		if got, want := string(data), `""`; got != want {
			t.Errorf("Marshal() = %s, want %s", got, want)
		}
		var back Date
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if !back.IsZero() {
			t.Errorf("roundtrip of zero date = %v, want zero", back)
		}
	})
}

func TestMonth(t *testing.T) {
	m := NewMonth(2027, time.January)
	if got, want := m.String(), "2027-01"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got, want := m.Next(), NewMonth(2027, time.February); got != want {
		t.Errorf("Next() = %v, want %v", got, want)
	}
	if got, want := NewMonth(2027, time.January).Prev(), NewMonth(2026, time.December); got != want {
		t.Errorf("Prev() = %v, want %v", got, want)
	}
	if got, want := m.End(), NewDate(2027, time.January, 31); got != want {
		t.Errorf("End() = %v, want %v", got, want)
	}
	if !m.Contains(NewDate(2027, 1, 15)) {
		t.Error("Contains(2027-01-15) = false, want true")
	}
	if m.Contains(NewDate(2027, 2, 1)) {
		t.Error("Contains(2027-02-01) = true, want false")
	}

	parsed, err := ParseMonth("2027-01")
	if err != nil {
		t.Fatalf("ParseMonth() error = %v", err)
	}
	if parsed != m {
		t.Errorf("ParseMonth() = %v, want %v", parsed, m)
	}
	if _, err := ParseMonth("not-a-month"); err == nil {
		t.Error("ParseMonth(invalid) expected error")
	}
}
