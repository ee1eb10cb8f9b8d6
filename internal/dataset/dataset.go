package dataset

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/lox/bikedash/internal/bikeshare"
	"github.com/lox/bikedash/internal/models"
)

// DefaultPath is the dataset file name, relative to the working directory.
const DefaultPath = "hour_df.csv"

// Required CSV columns.
const (
	ColDate       = bikeshare.ColDate
	ColHour       = bikeshare.ColHour
	ColWeather    = bikeshare.ColWeather
	ColWorkingDay = bikeshare.ColWorkingDay
	ColHoliday    = bikeshare.ColHoliday
	ColYear       = bikeshare.ColYear
	ColCount      = bikeshare.ColCount
)

var requiredColumns = bikeshare.Columns

var columnTypes = map[string]series.Type{
	ColDate:       series.String,
	ColHour:       series.Int,
	ColWeather:    series.Int,
	ColWorkingDay: series.Int,
	ColHoliday:    series.Int,
	ColYear:       series.Int,
	ColCount:      series.Int,
}

var dateLayouts = []string{
	models.DateLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// Dataset is the loaded usage table plus the raw frame it was parsed from.
type Dataset struct {
	Table    *bikeshare.Table
	Frame    dataframe.DataFrame
	Path     string
	Size     int64
	LoadedAt time.Time
}

// Load reads and parses the CSV at path.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, newMissingDatasetError(path)
		}
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	var size int64
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}

	ds, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	ds.Path = path
	ds.Size = size
	return ds, nil
}

// Parse reads a dataset from CSV with a header row.
func Parse(r io.Reader) (*Dataset, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.WithTypes(columnTypes),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("read csv: %w", df.Err)
	}

	names := df.Names()
	for _, col := range requiredColumns {
		if !slices.Contains(names, col) {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	rows, err := records(df)
	if err != nil {
		return nil, err
	}
	return &Dataset{
		Table:    bikeshare.NewTable(rows),
		Frame:    df,
		LoadedAt: time.Now(),
	}, nil
}

// FromRecords builds a Dataset from in-memory rows.
func FromRecords(rows []models.UsageRecord) *Dataset {
	return &Dataset{
		Table:    bikeshare.NewTable(rows),
		Frame:    bikeshare.Frame(rows),
		LoadedAt: time.Now(),
	}
}

// Describe returns the summary statistics of every frame column as string
// rows, header first.
func (d *Dataset) Describe() [][]string {
	if d.Frame.Nrow() == 0 {
		return nil
	}
	desc := d.Frame.Describe()
	if desc.Err != nil {
		return nil
	}
	return desc.Records()
}

func records(df dataframe.DataFrame) ([]models.UsageRecord, error) {
	dates := df.Col(ColDate).Records()
	ints := make(map[string][]int, len(requiredColumns)-1)
	for _, col := range requiredColumns[1:] {
		s := df.Col(col)
		for i, nan := range s.IsNaN() {
			if nan {
				return nil, fmt.Errorf("line %d: %s is blank or not an integer", i+2, col)
			}
		}
		vals, err := s.Int()
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col, err)
		}
		ints[col] = vals
	}

	rows := make([]models.UsageRecord, len(dates))
	for i, raw := range dates {
		line := i + 2
		d, err := parseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		r := models.UsageRecord{
			Date:       d,
			Hour:       ints[ColHour][i],
			Weather:    ints[ColWeather][i],
			WorkingDay: ints[ColWorkingDay][i] == 1,
			Holiday:    ints[ColHoliday][i] == 1,
			Year:       ints[ColYear][i],
			Count:      ints[ColCount][i],
		}
		if err := validate(r, ints[ColWorkingDay][i], ints[ColHoliday][i]); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows[i] = r
	}
	return rows, nil
}

func validate(r models.UsageRecord, workingday, holiday int) error {
	switch {
	case r.Hour < 0 || r.Hour > 23:
		return fmt.Errorf("hr %d out of range 0-23", r.Hour)
	case r.Weather < 1 || r.Weather > 4:
		return fmt.Errorf("weathersit %d out of range 1-4", r.Weather)
	case workingday != 0 && workingday != 1:
		return fmt.Errorf("workingday %d is not 0 or 1", workingday)
	case holiday != 0 && holiday != 1:
		return fmt.Errorf("holiday %d is not 0 or 1", holiday)
	case r.Year != 0 && r.Year != 1:
		return fmt.Errorf("yr %d is not 0 or 1", r.Year)
	case r.Count < 0:
		return fmt.Errorf("cnt %d is negative", r.Count)
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return bikeshare.Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid %s %q", ColDate, s)
}
