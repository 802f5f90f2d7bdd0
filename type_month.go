package household

import (
	"encoding/json"
	"fmt"
	"time"
)

// MonthFormat is the format used to represent budget periods as strings.
const MonthFormat = "2006-01"

// Month identifies a budget period with calendar-month granularity.
// Plans, variances and volatility series are all keyed by Month.
type Month struct {
	y int
	m time.Month
}

// NewMonth returns a normalized Month for the given year and month.
func NewMonth(year int, month time.Month) Month {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Month{y: t.Year(), m: t.Month()}
}

// MonthOf returns the Month containing the given date.
func MonthOf(d Date) Month { return NewMonth(d.Year(), d.Month()) }

// Year returns the year of the month.
func (p Month) Year() int { return p.y }

// Month returns the calendar month.
func (p Month) Month() time.Month { return p.m }

// IsZero returns true if the month is the zero value.
func (p Month) IsZero() bool { return p.y == 0 && p.m == 0 }

// Next returns the following calendar month.
func (p Month) Next() Month { return NewMonth(p.y, p.m+1) }

// Prev returns the preceding calendar month.
func (p Month) Prev() Month { return NewMonth(p.y, p.m-1) }

// Before reports whether p is before x.
func (p Month) Before(x Month) bool {
	return p.y < x.y || (p.y == x.y && p.m < x.m)
}

// Contains reports whether the date falls within the month.
func (p Month) Contains(d Date) bool {
	return d.Year() == p.y && d.Month() == p.m
}

// Start returns the first day of the month.
func (p Month) Start() Date { return NewDate(p.y, p.m, 1) }

// End returns the last day of the month.
func (p Month) End() Date { return NewDate(p.y, p.m+1, 0) }

// String formats the month as "2006-01".
func (p Month) String() string {
	return time.Date(p.y, p.m, 1, 0, 0, 0, 0, time.UTC).Format(MonthFormat)
}

// ParseMonth parses a Month from a "2006-01" string.
func ParseMonth(str string) (Month, error) {
	t, err := time.Parse(MonthFormat, str)
	if err != nil {
		return Month{}, fmt.Errorf("invalid period %q want format %q: %w", str, MonthFormat, err)
	}
	return NewMonth(t.Year(), t.Month()), nil
}

// MustParseMonth is like ParseMonth but panics on error.
func MustParseMonth(str string) Month {
	p, err := ParseMonth(str)
	if err != nil {
		panic(err.Error())
	}
	return p
}

// compareMonths orders months chronologically.
func compareMonths(a, b Month) int {
	switch {
	case a.Before(b):
		return -1
	case b.Before(a):
		return 1
	default:
		return 0
	}
}

func (p *Month) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	m, err := ParseMonth(str)
	if err != nil {
		return err
	}
	*p = m
	return nil
}

func (p Month) MarshalJSON() ([]byte, error) {
	str := p.String()
	return json.Marshal(&str)
}

var _ json.Marshaler = (*Month)(nil)
var _ json.Unmarshaler = (*Month)(nil)
