package api

import (
	"html/template"

	"github.com/lox/bikedash/internal/charts"
	"github.com/lox/bikedash/internal/notebook"
)

// MissingDataset is shown in place of the dashboard when the CSV is absent.
type MissingDataset struct {
	Message string
	Dir     string
	Files   []FileEntry
	ListErr string
}

// FileEntry is one line of the working directory listing.
type FileEntry struct {
	Name string
	Size string // human readable, empty for directories
}

// KPI is one headline number above the charts.
type KPI struct {
	Label string
	Value string
}

// Section is one chart block of the dashboard.
type Section struct {
	Kind      charts.Kind
	Subheader string
	Chart     template.HTML
	Insight   string
	Empty     bool
	PNGLink   string
}

// DashboardData is the view model for the analysis page.
type DashboardData struct {
	Nav
	Title    string
	Missing  *MissingDataset
	Notice   string
	Min, Max string
	Start    string
	End      string
	KPIs     []KPI
	Sections []Section
}

// NotebookData is the view model for the notebook page.
type NotebookData struct {
	Nav
	Title   string
	Path    string
	Missing string
	Blocks  []notebook.Block
	Skipped int
}

// DescribeTable is the gota summary statistics of the loaded frame.
type DescribeTable struct {
	Header []string
	Rows   [][]string
}

// MonthlyRow is one row of the monthly totals table.
type MonthlyRow struct {
	Month string
	Rows  string
	Total string
}

// DayTypeRow is one row of the day-type breakdown.
type DayTypeRow struct {
	Label string
	Rows  string
	Total string
}

// DataPageData is the view model for the data profile page.
type DataPageData struct {
	Nav
	Title     string
	Missing   *MissingDataset
	Notice    string
	Min, Max  string
	Start     string
	End       string
	RangeDays int
	Path      string
	FileSize  string
	LoadedAgo string
	TotalRows string
	Describe  DescribeTable
	Monthly   []MonthlyRow
	DayTypes  []DayTypeRow
	StoreNote string
}

// ErrorData is the view model for the fallback error page.
type ErrorData struct {
	Nav
	Title   string
	Message string
}

// HealthStatus is the /health response.
type HealthStatus struct {
	Status string `json:"status"`
	Rows   int    `json:"rows"`
	Start  string `json:"start,omitempty"`
	End    string `json:"end,omitempty"`
	Error  string `json:"error,omitempty"`
}
