package api

import (
	"errors"
	"net/url"

	"github.com/go-playground/validator/v10"

	"github.com/lox/bikedash/internal/bikeshare"
	"github.com/lox/bikedash/internal/models"
)

var (
	errBadDate    = errors.New("invalid date, want YYYY-MM-DD")
	errRangeOrder = errors.New("start date is after end date")
)

const clampedNotice = "Rentang tanggal disesuaikan dengan data yang tersedia."

// rangeNotice is the message shown on a page when the range was rejected.
func rangeNotice(err error) string {
	if errors.Is(err, errRangeOrder) {
		return "Tanggal mulai harus sebelum atau sama dengan tanggal akhir. Menampilkan seluruh rentang data."
	}
	return "Format tanggal tidak valid, gunakan YYYY-MM-DD. Menampilkan seluruh rentang data."
}

type rangeQuery struct {
	Start string `validate:"omitempty,datetime=2006-01-02"`
	End   string `validate:"omitempty,datetime=2006-01-02"`
}

// selection is the date range a request resolved to.
type selection struct {
	Range   bikeshare.DateRange
	Bounds  bikeshare.DateRange
	Clamped bool
}

// parseRange resolves the start/end query params against the dataset bounds.
// Missing endpoints default to the bounds, out-of-range endpoints are clamped
// into them. Malformed dates and start after end are errors.
func (s *Server) parseRange(q url.Values, bounds bikeshare.DateRange) (selection, error) {
	rq := rangeQuery{Start: q.Get("start"), End: q.Get("end")}
	sel := selection{Range: bounds, Bounds: bounds}
	if err := s.validate.Struct(rq); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return sel, errBadDate
		}
		return sel, err
	}

	r := bounds
	if rq.Start != "" || rq.End != "" {
		start, end := bounds.Start.Format(models.DateLayout), bounds.End.Format(models.DateLayout)
		if rq.Start != "" {
			start = rq.Start
		}
		if rq.End != "" {
			end = rq.End
		}
		parsed, err := bikeshare.ParseDateRange(start, end)
		if err != nil {
			return sel, errBadDate
		}
		r = parsed.Clamp(bounds)
		sel.Clamped = !r.Start.Equal(bikeshare.Day(parsed.Start)) || !r.End.Equal(bikeshare.Day(parsed.End))
	}

	if !r.Valid() {
		return sel, errRangeOrder
	}
	sel.Range = r
	return sel, nil
}
