package api

import "net/url"

// Page is the view selected in the sidebar.
type Page int

const (
	PageDashboard Page = iota
	PageNotebook
)

var pages = []Page{PageDashboard, PageNotebook}

// ParsePage maps the sidebar selector value to a Page. Anything unknown,
// including an empty value, selects the dashboard.
func ParsePage(s string) Page {
	for _, p := range pages {
		if p.Slug() == s {
			return p
		}
	}
	return PageDashboard
}

func (p Page) Slug() string {
	if p == PageNotebook {
		return "notebook"
	}
	return "dashboard"
}

func (p Page) Label() string {
	if p == PageNotebook {
		return "Lihat Notebook (.ipynb)"
	}
	return "Dashboard Analisis"
}

// NavItem is one option of the page selector.
type NavItem struct {
	Slug     string
	Label    string
	Selected bool
}

// Nav is the sidebar state shared by every page. Start and End are echoed
// back as hidden fields so switching pages keeps the chosen date range.
type Nav struct {
	Page      string
	Pages     []NavItem
	Start     string
	End       string
	DataLink  string
	ShowRange bool
}

func newNav(current Page, q url.Values) Nav {
	n := Nav{
		Page:  current.Slug(),
		Start: q.Get("start"),
		End:   q.Get("end"),
	}
	for _, p := range pages {
		n.Pages = append(n.Pages, NavItem{Slug: p.Slug(), Label: p.Label(), Selected: p == current})
	}
	n.DataLink = "/data" + rangeQueryString(n.Start, n.End)
	return n
}

func rangeQueryString(start, end string) string {
	v := url.Values{}
	if start != "" {
		v.Set("start", start)
	}
	if end != "" {
		v.Set("end", end)
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}
