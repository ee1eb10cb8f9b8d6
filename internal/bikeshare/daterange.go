package bikeshare

import (
	"fmt"
	"time"

	"github.com/lox/bikedash/internal/models"
)

// DateRange is an inclusive calendar date range.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDateRange parses two YYYY-MM-DD dates.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(models.DateLayout, start)
	if err != nil {
		return DateRange{}, fmt.Errorf("parse start date %q: %w", start, err)
	}
	e, err := time.Parse(models.DateLayout, end)
	if err != nil {
		return DateRange{}, fmt.Errorf("parse end date %q: %w", end, err)
	}
	return DateRange{Start: s, End: e}, nil
}

// Valid reports whether Start is not after End.
func (r DateRange) Valid() bool {
	return !Day(r.Start).After(Day(r.End))
}

// Clamp moves each endpoint into bounds. It does not reorder the endpoints.
func (r DateRange) Clamp(bounds DateRange) DateRange {
	return DateRange{
		Start: clampDay(r.Start, bounds),
		End:   clampDay(r.End, bounds),
	}
}

// Contains reports whether ts falls within the range by calendar date.
func (r DateRange) Contains(ts time.Time) bool {
	d := Day(ts)
	return !d.Before(Day(r.Start)) && !d.After(Day(r.End))
}

// Days is the number of calendar days covered, inclusive.
func (r DateRange) Days() int {
	if !r.Valid() {
		return 0
	}
	return int(Day(r.End).Sub(Day(r.Start)).Hours()/24) + 1
}

func (r DateRange) String() string {
	return Day(r.Start).Format(models.DateLayout) + ".." + Day(r.End).Format(models.DateLayout)
}

func clampDay(ts time.Time, bounds DateRange) time.Time {
	d := Day(ts)
	if lo := Day(bounds.Start); d.Before(lo) {
		return lo
	}
	if hi := Day(bounds.End); d.After(hi) {
		return hi
	}
	return d
}
