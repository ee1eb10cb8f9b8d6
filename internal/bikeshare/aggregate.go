package bikeshare

import (
	"math"
	"slices"

	"github.com/go-gota/gota/dataframe"

	"github.com/lox/bikedash/internal/models"
)

// Number is the value type of an aggregation series.
type Number interface {
	~int64 | ~float64
}

// Series maps a categorical key to a numeric summary. Keys are ascending and
// Values[i] belongs to Keys[i].
type Series[V Number] struct {
	Keys   []int
	Values []V
}

func (s Series[V]) Len() int { return len(s.Keys) }

func (s Series[V]) Empty() bool { return len(s.Keys) == 0 }

// Value returns the summary for key.
func (s Series[V]) Value(key int) (V, bool) {
	if i, ok := slices.BinarySearch(s.Keys, key); ok {
		return s.Values[i], true
	}
	var zero V
	return zero, false
}

// Map returns the series as a map, mainly for tests and JSON.
func (s Series[V]) Map() map[int]V {
	m := make(map[int]V, len(s.Keys))
	for i, k := range s.Keys {
		m[k] = s.Values[i]
	}
	return m
}

// HourlyByDayType holds the mean hourly count for each day-type partition.
type HourlyByDayType struct {
	WorkingDay Series[float64]
	Weekend    Series[float64]
	Holiday    Series[float64]
}

// ByDayType returns the series for d.
func (h HourlyByDayType) ByDayType(d models.DayType) Series[float64] {
	switch d {
	case models.DayTypeWeekend:
		return h.Weekend
	case models.DayTypeHoliday:
		return h.Holiday
	}
	return h.WorkingDay
}

// Summary is the headline numbers for a filtered table.
type Summary struct {
	Rows       int
	TotalRides int64
	Days       int
	Range      DateRange
	HasRange   bool
}

// ByWeather is the mean count per weather situation code.
func ByWeather(t *Table) (Series[float64], error) {
	return meanBy(t, ColWeather)
}

// ByYear is the total count per year indicator.
func ByYear(t *Table) (Series[int64], error) {
	return sumBy(t, ColYear)
}

// Partition splits t into working day, weekend and holiday tables. The three
// are disjoint and together hold every row of t: holiday=1 wins over
// workingday, so the working and weekend partitions both require holiday=0.
func Partition(t *Table) (working, weekend, holiday *Table, err error) {
	if t.Len() == 0 {
		return NewTable(nil), NewTable(nil), NewTable(nil), nil
	}
	if working, err = t.pick(t.frame.FilterAggregation(dataframe.And, eq(ColWorkingDay, 1), eq(ColHoliday, 0))); err != nil {
		return nil, nil, nil, err
	}
	if weekend, err = t.pick(t.frame.FilterAggregation(dataframe.And, eq(ColWorkingDay, 0), eq(ColHoliday, 0))); err != nil {
		return nil, nil, nil, err
	}
	if holiday, err = t.pick(t.frame.Filter(eq(ColHoliday, 1))); err != nil {
		return nil, nil, nil, err
	}
	return working, weekend, holiday, nil
}

// ByHourAndDayType is the mean count per hour for each day-type partition.
func ByHourAndDayType(t *Table) (HourlyByDayType, error) {
	var h HourlyByDayType
	working, weekend, holiday, err := Partition(t)
	if err != nil {
		return h, err
	}
	if h.WorkingDay, err = meanBy(working, ColHour); err != nil {
		return h, err
	}
	if h.Weekend, err = meanBy(weekend, ColHour); err != nil {
		return h, err
	}
	if h.Holiday, err = meanBy(holiday, ColHour); err != nil {
		return h, err
	}
	return h, nil
}

// Summarize computes row count, total rides and distinct days.
func Summarize(t *Table) Summary {
	s := Summary{Rows: t.Len()}
	if s.Rows == 0 {
		return s
	}
	s.TotalRides = int64(math.Round(t.frame.Col(ColCount).Sum()))
	days := make(map[string]struct{})
	for _, d := range t.frame.Col(ColDate).Records() {
		days[d] = struct{}{}
	}
	s.Days = len(days)
	s.Range, s.HasRange = t.Bounds()
	return s
}
