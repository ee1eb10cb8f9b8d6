package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/bikedash/internal/bikeshare"
	"github.com/lox/bikedash/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testRows() []models.UsageRecord {
	return []models.UsageRecord{
		{Date: day(2011, 1, 1), Hour: 0, Weather: 1, Year: 0, Count: 16},
		{Date: day(2011, 1, 3), Hour: 8, Weather: 1, WorkingDay: true, Year: 0, Count: 100},
		{Date: day(2011, 1, 17), Hour: 8, Weather: 2, Holiday: true, Year: 0, Count: 30},
		{Date: day(2011, 2, 1), Hour: 9, Weather: 2, WorkingDay: true, Year: 0, Count: 50},
		{Date: day(2012, 7, 4), Hour: 12, Weather: 1, WorkingDay: true, Holiday: true, Year: 1, Count: 7},
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	s := setupTestStore(t)

	v, err := s.MigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, len(migrations), v)

	require.NoError(t, s.Migrate())
	v, err = s.MigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, len(migrations), v)
}

func TestReplaceUsage(t *testing.T) {
	s := setupTestStore(t)

	require.NoError(t, s.ReplaceUsage(testRows()))
	n, err := s.UsageCount()
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	require.NoError(t, s.ReplaceUsage(testRows()[:2]))
	n, err = s.UsageCount()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestMonthlyTotals(t *testing.T) {
	s := setupTestStore(t)
	require.NoError(t, s.ReplaceUsage(testRows()))

	all := bikeshare.DateRange{Start: day(2011, 1, 1), End: day(2012, 12, 31)}
	got, err := s.MonthlyTotals(all)
	require.NoError(t, err)
	assert.Equal(t, []models.MonthlyTotal{
		{Month: "2011-01", Rows: 3, Total: 146},
		{Month: "2011-02", Rows: 1, Total: 50},
		{Month: "2012-07", Rows: 1, Total: 7},
	}, got)

	got, err = s.MonthlyTotals(bikeshare.DateRange{Start: day(2011, 1, 3), End: day(2011, 1, 3)})
	require.NoError(t, err)
	assert.Equal(t, []models.MonthlyTotal{{Month: "2011-01", Rows: 1, Total: 100}}, got)

	got, err = s.MonthlyTotals(bikeshare.DateRange{Start: day(2013, 1, 1), End: day(2013, 2, 1)})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDayTypeCounts(t *testing.T) {
	s := setupTestStore(t)
	require.NoError(t, s.ReplaceUsage(testRows()))

	got, err := s.DayTypeCounts(bikeshare.DateRange{Start: day(2011, 1, 1), End: day(2012, 12, 31)})
	require.NoError(t, err)
	assert.Equal(t, models.DayTypeCounts{
		WorkingRows:  2,
		WeekendRows:  1,
		HolidayRows:  2,
		WorkingTotal: 150,
		WeekendTotal: 16,
		HolidayTotal: 37,
	}, got)
}
