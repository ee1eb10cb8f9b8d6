package bikeshare

import (
	"fmt"
	"slices"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/lox/bikedash/internal/models"
)

// Table is an immutable, ordered set of usage records backed by a dataframe
// for filtering and grouping.
type Table struct {
	rows     []models.UsageRecord
	frame    dataframe.DataFrame
	min, max time.Time
}

// NewTable copies rows into a new Table. Dates are truncated to the calendar day.
func NewTable(rows []models.UsageRecord) *Table {
	t := &Table{rows: make([]models.UsageRecord, len(rows))}
	for i, r := range rows {
		r.Date = Day(r.Date)
		t.rows[i] = r
		if i == 0 || r.Date.Before(t.min) {
			t.min = r.Date
		}
		if i == 0 || r.Date.After(t.max) {
			t.max = r.Date
		}
	}
	t.frame = indexedFrame(t.rows)
	return t
}

// Len returns the number of rows. A nil table is empty.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Rows returns a copy of the rows.
func (t *Table) Rows() []models.UsageRecord {
	if t == nil {
		return nil
	}
	return slices.Clone(t.rows)
}

// Bounds returns the inclusive min/max date. ok is false for an empty table.
func (t *Table) Bounds() (r DateRange, ok bool) {
	if t.Len() == 0 {
		return DateRange{}, false
	}
	return DateRange{Start: t.min, End: t.max}, true
}

// Filter returns the rows whose date falls within r, inclusive on both ends.
// A range that does not overlap the table yields an empty table.
func (t *Table) Filter(r DateRange) (*Table, error) {
	if t.Len() == 0 {
		return NewTable(nil), nil
	}
	start := Day(r.Start).Format(models.DateLayout)
	end := Day(r.End).Format(models.DateLayout)
	return t.pick(t.frame.FilterAggregation(dataframe.And,
		dataframe.F{Colname: ColDate, Comparator: series.GreaterEq, Comparando: start},
		dataframe.F{Colname: ColDate, Comparator: series.LessEq, Comparando: end},
	))
}

// pick returns the rows of a frame derived from t.frame, in frame order.
func (t *Table) pick(df dataframe.DataFrame) (*Table, error) {
	if df.Err != nil {
		return nil, fmt.Errorf("filter: %w", df.Err)
	}
	if df.Nrow() == 0 {
		return NewTable(nil), nil
	}
	idx, err := df.Col(colRow).Int()
	if err != nil {
		return nil, fmt.Errorf("row index: %w", err)
	}
	out := make([]models.UsageRecord, len(idx))
	for i, j := range idx {
		out[i] = t.rows[j]
	}
	return NewTable(out), nil
}

// frameOrEmpty returns the backing frame, or a zero frame for a nil table.
func (t *Table) frameOrEmpty() dataframe.DataFrame {
	if t.Len() == 0 {
		return dataframe.DataFrame{}
	}
	return t.frame
}

// Day truncates ts to midnight UTC of its calendar date.
func Day(ts time.Time) time.Time {
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
