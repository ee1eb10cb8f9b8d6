package models

import "time"

// DateLayout is the calendar date format used by the dataset and query params.
const DateLayout = "2006-01-02"

// UsageRecord is one hourly row of the bike sharing dataset.
type UsageRecord struct {
	Date       time.Time // calendar date, midnight UTC
	Hour       int       // 0-23
	Weather    int       // weathersit code 1-4
	WorkingDay bool
	Holiday    bool
	Year       int // 0 = 2011, 1 = 2012
	Count      int // total rentals in the hour
}

// DayType classifies a record by its workingday/holiday flags.
type DayType int

const (
	DayTypeWorking DayType = iota
	DayTypeWeekend
	DayTypeHoliday
)

// DayType reports the partition a record belongs to. Holiday wins over the
// workingday flag, so workingday=1 holiday=1 is a holiday.
func (r UsageRecord) DayType() DayType {
	switch {
	case r.Holiday:
		return DayTypeHoliday
	case r.WorkingDay:
		return DayTypeWorking
	default:
		return DayTypeWeekend
	}
}

func (d DayType) String() string {
	switch d {
	case DayTypeWorking:
		return "working_day"
	case DayTypeWeekend:
		return "weekend"
	case DayTypeHoliday:
		return "holiday"
	}
	return "unknown"
}

// Label is the dashboard legend text for the day type.
func (d DayType) Label() string {
	switch d {
	case DayTypeWorking:
		return "Hari Kerja"
	case DayTypeWeekend:
		return "Akhir Pekan"
	case DayTypeHoliday:
		return "Hari Libur"
	}
	return ""
}

// MonthlyTotal is the ride total for one calendar month.
type MonthlyTotal struct {
	Month string // YYYY-MM
	Rows  int
	Total int64
}

// DayTypeCounts is the number of rows and rides per day type.
type DayTypeCounts struct {
	WorkingRows  int
	WeekendRows  int
	HolidayRows  int
	WorkingTotal int64
	WeekendTotal int64
	HolidayTotal int64
}
