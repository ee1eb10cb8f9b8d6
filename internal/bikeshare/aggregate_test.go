package bikeshare

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/bikedash/internal/models"
)

func date(s string) time.Time {
	d, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func rec(day string, hour, weather int, working, holiday bool, yr, cnt int) models.UsageRecord {
	return models.UsageRecord{
		Date:       date(day),
		Hour:       hour,
		Weather:    weather,
		WorkingDay: working,
		Holiday:    holiday,
		Year:       yr,
		Count:      cnt,
	}
}

func counts(t *Table) []int {
	var out []int
	for _, r := range t.Rows() {
		out = append(out, r.Count)
	}
	return out
}

func sampleTable() *Table {
	return NewTable([]models.UsageRecord{
		rec("2011-01-01", 0, 1, false, false, 0, 16),
		rec("2011-01-01", 1, 1, false, false, 0, 40),
		rec("2011-01-03", 8, 2, true, false, 0, 100),
		rec("2011-01-03", 17, 3, true, false, 0, 200),
		rec("2011-01-17", 8, 1, false, true, 0, 30),
		rec("2012-06-01", 8, 2, true, false, 1, 500),
		rec("2012-06-02", 13, 4, false, false, 1, 20),
	})
}

func TestFilter_Inclusive(t *testing.T) {
	tbl := sampleTable()

	got, err := tbl.Filter(DateRange{Start: date("2011-01-01"), End: date("2011-01-03")})
	require.NoError(t, err)
	assert.Equal(t, 4, got.Len())

	got, err = tbl.Filter(DateRange{Start: date("2011-01-03"), End: date("2011-01-03")})
	require.NoError(t, err)
	assert.Equal(t, 2, got.Len())
	assert.Equal(t, []int{100, 200}, counts(got))

	bounds, ok := got.Bounds()
	require.True(t, ok)
	assert.Equal(t, date("2011-01-03"), bounds.Start)
	assert.Equal(t, date("2011-01-03"), bounds.End)
}

func TestFilter_IgnoresTimeOfDay(t *testing.T) {
	tbl := sampleTable()
	r := DateRange{
		Start: time.Date(2011, 1, 3, 23, 0, 0, 0, time.UTC),
		End:   time.Date(2011, 1, 3, 1, 0, 0, 0, time.UTC),
	}
	got, err := tbl.Filter(r)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Len())
}

func TestDisjointRange_EmptyEverywhere(t *testing.T) {
	tbl := sampleTable()
	tests := []struct {
		name string
		r    DateRange
	}{
		{"after max", DateRange{Start: date("2013-01-01"), End: date("2013-12-31")}},
		{"before min", DateRange{Start: date("2010-01-01"), End: date("2010-12-31")}},
		{"inverted", DateRange{Start: date("2012-01-01"), End: date("2011-01-01")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tbl.Filter(tt.r)
			require.NoError(t, err)
			assert.Equal(t, 0, got.Len())
			_, ok := got.Bounds()
			assert.False(t, ok)

			weather, err := ByWeather(got)
			require.NoError(t, err)
			assert.True(t, weather.Empty())
			yearly, err := ByYear(got)
			require.NoError(t, err)
			assert.True(t, yearly.Empty())
			h, err := ByHourAndDayType(got)
			require.NoError(t, err)
			assert.True(t, h.WorkingDay.Empty())
			assert.True(t, h.Weekend.Empty())
			assert.True(t, h.Holiday.Empty())

			s := Summarize(got)
			assert.Equal(t, 0, s.Rows)
			assert.False(t, s.HasRange)
		})
	}
}

func TestByWeather_KeysMatchPresentCodes(t *testing.T) {
	tbl := sampleTable()

	got, err := ByWeather(tbl)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, got.Keys)
	assert.InDelta(t, (16.0+40+30)/3, got.Values[0], 1e-9)
	assert.InDelta(t, 300.0, got.Values[1], 1e-9)

	sub, err := tbl.Filter(DateRange{Start: date("2011-01-01"), End: date("2011-01-01")})
	require.NoError(t, err)
	got, err = ByWeather(sub)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, got.Keys)
	v, ok := got.Value(1)
	require.True(t, ok)
	assert.InDelta(t, 28.0, v, 1e-9)
	_, ok = got.Value(2)
	assert.False(t, ok)
}

func TestByYear_ExactSums(t *testing.T) {
	tbl := NewTable([]models.UsageRecord{
		rec("2011-05-01", 0, 1, true, false, 0, 5),
		rec("2011-05-01", 1, 1, true, false, 0, 10),
		rec("2012-05-01", 0, 1, true, false, 1, 7),
	})
	got, err := ByYear(tbl)
	require.NoError(t, err)
	assert.Equal(t, map[int]int64{0: 15, 1: 7}, got.Map())
	assert.Equal(t, []int{0, 1}, got.Keys)
}

func TestByYear_LargeCountsStayExact(t *testing.T) {
	tbl := NewTable([]models.UsageRecord{
		rec("2011-05-01", 0, 1, true, false, 0, 2_000_000_000),
		rec("2011-05-01", 1, 1, true, false, 0, 2_000_000_000),
		rec("2011-05-02", 0, 1, true, false, 0, 2_000_000_000),
		rec("2012-05-01", 0, 1, true, false, 1, 8),
		rec("2012-05-01", 1, 1, true, false, 1, 1),
	})
	got, err := ByYear(tbl)
	require.NoError(t, err)
	assert.Equal(t, map[int]int64{0: 6_000_000_000, 1: 9}, got.Map())
	assert.Equal(t, int64(6_000_000_009), Summarize(tbl).TotalRides)
}

func TestPartition_DisjointAndComplete(t *testing.T) {
	tbl := NewTable([]models.UsageRecord{
		rec("2011-01-03", 8, 1, true, false, 0, 1),
		rec("2011-01-01", 8, 1, false, false, 0, 2),
		rec("2011-01-17", 8, 1, false, true, 0, 3),
		rec("2011-07-04", 8, 1, true, true, 0, 4),
	})
	working, weekend, holiday, err := Partition(tbl)
	require.NoError(t, err)

	assert.Equal(t, tbl.Len(), working.Len()+weekend.Len()+holiday.Len())
	assert.Equal(t, 1, working.Len())
	assert.Equal(t, 1, weekend.Len())
	assert.Equal(t, 2, holiday.Len())

	seen := map[int]int{}
	for _, p := range []*Table{working, weekend, holiday} {
		for _, r := range p.Rows() {
			seen[r.Count]++
		}
	}
	assert.Equal(t, map[int]int{1: 1, 2: 1, 3: 1, 4: 1}, seen)

	for _, r := range holiday.Rows() {
		assert.True(t, r.Holiday)
	}
	assert.Equal(t, []int{1}, counts(working))
	assert.Equal(t, []int{2}, counts(weekend))
	assert.Equal(t, []int{3, 4}, counts(holiday))
}

func TestPartition_EmptyTable(t *testing.T) {
	working, weekend, holiday, err := Partition(NewTable(nil))
	require.NoError(t, err)
	assert.Zero(t, working.Len()+weekend.Len()+holiday.Len())
}

func TestByHourAndDayType(t *testing.T) {
	got, err := ByHourAndDayType(sampleTable())
	require.NoError(t, err)

	assert.Equal(t, []int{8, 17}, got.WorkingDay.Keys)
	assert.InDelta(t, 300.0, got.WorkingDay.Values[0], 1e-9)
	assert.Equal(t, []int{0, 1, 13}, got.Weekend.Keys)
	assert.Equal(t, []int{8}, got.Holiday.Keys)
	assert.Equal(t, got.Holiday, got.ByDayType(models.DayTypeHoliday))
}

func TestByHourAndDayType_EmptyPartition(t *testing.T) {
	tbl := NewTable([]models.UsageRecord{
		rec("2011-01-03", 8, 1, true, false, 0, 10),
	})
	got, err := ByHourAndDayType(tbl)
	require.NoError(t, err)
	assert.Equal(t, 1, got.WorkingDay.Len())
	assert.True(t, got.Weekend.Empty())
	assert.True(t, got.Holiday.Empty())
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleTable())
	assert.Equal(t, 7, s.Rows)
	assert.Equal(t, int64(906), s.TotalRides)
	assert.Equal(t, 5, s.Days)
	require.True(t, s.HasRange)
	assert.Equal(t, date("2011-01-01"), s.Range.Start)
	assert.Equal(t, date("2012-06-02"), s.Range.End)
}

func TestTable_RowsIsCopy(t *testing.T) {
	tbl := sampleTable()
	rows := tbl.Rows()
	rows[0].Count = 99999
	assert.Equal(t, 16, tbl.Rows()[0].Count)
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Cerah", WeatherLabel(1))
	assert.Equal(t, "Hujan Lebat", WeatherLabel(4))
	assert.Equal(t, "7", WeatherLabel(7))
	assert.Equal(t, "Heavy Rain/Storm", WeatherName(4))
	assert.Equal(t, "2011", YearLabel(0))
	assert.Equal(t, "2012", YearLabel(1))
}
