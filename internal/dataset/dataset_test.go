package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/bikedash/internal/models"
)

const sampleCSV = `instant,dteday,season,yr,mnth,hr,holiday,weekday,workingday,weathersit,temp,cnt
1,2011-01-01,1,0,1,0,0,6,0,1,0.24,16
2,2011-01-01,1,0,1,1,0,6,0,1,0.22,40
3,2011-01-03,1,0,1,8,0,1,1,2,0.20,100
4,2012-12-31,1,1,12,23,0,1,1,3,0.26,49
`

func TestParse(t *testing.T) {
	ds, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, 4, ds.Table.Len())
	rows := ds.Table.Rows()
	assert.Equal(t, models.UsageRecord{
		Date:       time.Date(2011, 1, 3, 0, 0, 0, 0, time.UTC),
		Hour:       8,
		Weather:    2,
		WorkingDay: true,
		Holiday:    false,
		Year:       0,
		Count:      100,
	}, rows[2])

	bounds, ok := ds.Table.Bounds()
	require.True(t, ok)
	assert.Equal(t, "2011-01-01", bounds.Start.Format(models.DateLayout))
	assert.Equal(t, "2012-12-31", bounds.End.Format(models.DateLayout))

	// extra columns stay in the frame
	assert.Contains(t, ds.Frame.Names(), "temp")
	assert.Equal(t, 4, ds.Frame.Nrow())
}

func TestParse_DateTimeLayout(t *testing.T) {
	csv := "dteday,hr,weathersit,workingday,holiday,yr,cnt\n2011-02-03 00:00:00,5,1,1,0,0,3\n"
	ds, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2011, 2, 3, 0, 0, 0, 0, time.UTC), ds.Table.Rows()[0].Date)
}

func TestParse_Errors(t *testing.T) {
	header := "dteday,hr,weathersit,workingday,holiday,yr,cnt\n"
	tests := []struct {
		name    string
		csv     string
		wantErr string
	}{
		{"missing column", "dteday,hr,weathersit,workingday,holiday,yr\n2011-01-01,0,1,0,0,0\n", `missing column "cnt"`},
		{"bad date", header + "01/02/2011,0,1,0,0,0,1\n", "line 2"},
		{"hour out of range", header + "2011-01-01,24,1,0,0,0,1\n", "hr 24"},
		{"weather out of range", header + "2011-01-01,0,5,0,0,0,1\n", "weathersit 5"},
		{"bad year", header + "2011-01-01,0,1,0,0,2,1\n", "yr 2"},
		{"negative count", header + "2011-01-01,0,1,0,0,0,-1\n", "negative"},
		{"bad flag", header + "2011-01-01,0,1,3,0,0,1\n", "workingday 3"},
		{"fractional count", header + "2011-01-01,0,1,0,0,0,1\n2011-01-01,1,1,0,0,0,1.7\n", "line 3: cnt is blank or not an integer"},
		{"blank hour", header + "2011-01-01,,1,0,0,0,1\n", "line 2: hr is blank or not an integer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.csv))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.False(t, errors.Is(err, ErrMissingDataset))
		})
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hour_df.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	ds, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, ds.Path)
	assert.Equal(t, int64(len(sampleCSV)), ds.Size)
	assert.Equal(t, 4, ds.Table.Len())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingDataset))

	var missing *MissingDatasetError
	require.True(t, errors.As(err, &missing))
	assert.NotEmpty(t, missing.Dir)
	assert.Nil(t, missing.ListErr)
	// the package directory always holds this test file
	assert.Contains(t, missing.Names(), "dataset_test.go")
}

func TestDescribe(t *testing.T) {
	ds, err := Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	rows := ds.Describe()
	require.NotEmpty(t, rows)
	assert.Equal(t, "column", rows[0][0])
	assert.Contains(t, rows[0], "cnt")

	assert.Nil(t, FromRecords(nil).Describe())
}

func TestFromRecords(t *testing.T) {
	ds := FromRecords([]models.UsageRecord{
		{Date: time.Date(2011, 1, 1, 0, 0, 0, 0, time.UTC), Hour: 1, Weather: 1, Count: 3},
		{Date: time.Date(2011, 1, 2, 0, 0, 0, 0, time.UTC), Hour: 2, Weather: 2, Holiday: true, Count: 4},
	})
	assert.Equal(t, 2, ds.Table.Len())
	assert.Equal(t, 2, ds.Frame.Nrow())
	assert.ElementsMatch(t, requiredColumns, ds.Frame.Names())
}

func TestCache_LoadsOnce(t *testing.T) {
	calls := 0
	c := NewCache(func() (*Dataset, error) {
		calls++
		return FromRecords(nil), nil
	}, nil)

	hookCalls := 0
	c.OnLoad(func(*Dataset) error {
		hookCalls++
		return errors.New("replace usage: disk full")
	})

	assert.Equal(t, 0, calls, "nothing loads before first use")

	var wg sync.WaitGroup
	results := make([]*Dataset, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ds, err := c.Get()
			assert.NoError(t, err)
			results[i] = ds
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, hookCalls)
	for _, ds := range results {
		assert.Same(t, results[0], ds)
	}
	again, err := c.Get()
	require.NoError(t, err)
	assert.Same(t, results[0], again)
	assert.Equal(t, 1, calls)
	assert.EqualError(t, c.HookErr(), "replace usage: disk full")
}

func TestCache_HookErrNilWhenHooksSucceed(t *testing.T) {
	c := NewCache(func() (*Dataset, error) { return FromRecords(nil), nil }, nil)
	c.OnLoad(func(*Dataset) error { return nil })

	assert.NoError(t, c.HookErr())
	_, err := c.Get()
	require.NoError(t, err)
	assert.NoError(t, c.HookErr())
}

func TestCache_FailuresNotCached(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hour_df.csv")
	c := NewFileCache(path, nil)

	_, err := c.Get()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingDataset))

	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))
	ds, err := c.Get()
	require.NoError(t, err)
	assert.Equal(t, 4, ds.Table.Len())
}
