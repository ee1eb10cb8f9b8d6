package bikeshare

import (
	"fmt"
	"math"
	"slices"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/lox/bikedash/internal/models"
)

// Column names of the hourly dataset.
const (
	ColDate       = "dteday"
	ColHour       = "hr"
	ColWeather    = "weathersit"
	ColWorkingDay = "workingday"
	ColHoliday    = "holiday"
	ColYear       = "yr"
	ColCount      = "cnt"
)

// Columns lists the dataset columns the dashboard reads, date first.
var Columns = []string{ColDate, ColHour, ColWeather, ColWorkingDay, ColHoliday, ColYear, ColCount}

// colRow holds each frame row's position in Table.rows.
const colRow = "row"

// Frame converts rows to a dataframe with the dataset column names. Dates are
// YYYY-MM-DD strings and the flags are 0/1.
func Frame(rows []models.UsageRecord) dataframe.DataFrame {
	dates := make([]string, len(rows))
	cols := map[string][]int{}
	for _, col := range Columns[1:] {
		cols[col] = make([]int, len(rows))
	}
	for i, r := range rows {
		dates[i] = r.Date.Format(models.DateLayout)
		cols[ColHour][i] = r.Hour
		cols[ColWeather][i] = r.Weather
		cols[ColWorkingDay][i] = flag(r.WorkingDay)
		cols[ColHoliday][i] = flag(r.Holiday)
		cols[ColYear][i] = r.Year
		cols[ColCount][i] = r.Count
	}
	ss := []series.Series{series.New(dates, series.String, ColDate)}
	for _, col := range Columns[1:] {
		ss = append(ss, series.New(cols[col], series.Int, col))
	}
	return dataframe.New(ss...)
}

func indexedFrame(rows []models.UsageRecord) dataframe.DataFrame {
	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	return Frame(rows).Mutate(series.New(idx, series.Int, colRow))
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}

func eq(col string, v int) dataframe.F {
	return dataframe.F{Colname: col, Comparator: series.Eq, Comparando: v}
}

// groupCount groups df by key and aggregates cnt with typ. Keys come back
// ascending. An empty frame has no groups.
func groupCount(df dataframe.DataFrame, key string, typ dataframe.AggregationType) ([]int, []float64, error) {
	if df.Err != nil {
		return nil, nil, df.Err
	}
	if df.Nrow() == 0 {
		return nil, nil, nil
	}
	groups := df.GroupBy(key)
	if groups.Err != nil {
		return nil, nil, groups.Err
	}
	agg := groups.Aggregation([]dataframe.AggregationType{typ}, []string{ColCount})
	if agg.Err != nil {
		return nil, nil, fmt.Errorf("aggregate %s by %s: %w", ColCount, key, agg.Err)
	}
	keys, err := agg.Col(key).Int()
	if err != nil {
		return nil, nil, fmt.Errorf("group key %s: %w", key, err)
	}
	vals := agg.Col(fmt.Sprintf("%s_%s", ColCount, typ)).Float()

	order := make([]int, len(keys))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int { return keys[a] - keys[b] })
	sortedKeys := make([]int, len(keys))
	sortedVals := make([]float64, len(keys))
	for i, j := range order {
		sortedKeys[i] = keys[j]
		sortedVals[i] = vals[j]
	}
	return sortedKeys, sortedVals, nil
}

func meanBy(t *Table, key string) (Series[float64], error) {
	keys, vals, err := groupCount(t.frameOrEmpty(), key, dataframe.Aggregation_MEAN)
	if err != nil {
		return Series[float64]{}, err
	}
	return Series[float64]{Keys: keys, Values: vals}, nil
}

// sumBy casts the float sums back to int64. Counts are integers well below
// 2^53 so the sums are exact.
func sumBy(t *Table, key string) (Series[int64], error) {
	keys, vals, err := groupCount(t.frameOrEmpty(), key, dataframe.Aggregation_SUM)
	if err != nil {
		return Series[int64]{}, err
	}
	s := Series[int64]{Keys: keys, Values: make([]int64, len(vals))}
	for i, v := range vals {
		s.Values[i] = int64(math.Round(v))
	}
	return s, nil
}
