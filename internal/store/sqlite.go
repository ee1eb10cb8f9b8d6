package store

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"

	"github.com/lox/bikedash/internal/bikeshare"
	"github.com/lox/bikedash/internal/models"
)

// Store mirrors the loaded dataset into SQLite for the data profile page.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

func New(db *sql.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

// OpenMemory opens a migrated in-memory database. Every connection to
// ":memory:" is a separate database, so the pool is pinned to one connection.
func OpenMemory(logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := New(db, logger)
	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ReplaceUsage swaps the usage table contents for rows in one transaction.
func (s *Store) ReplaceUsage(rows []models.UsageRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM usage`); err != nil {
		return fmt.Errorf("clear usage: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO usage (date, hour, weather, working_day, holiday, yr, cnt, day_type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.Exec(r.Date.Format(models.DateLayout), r.Hour, r.Weather, r.WorkingDay, r.Holiday, r.Year, r.Count, r.DayType().String()); err != nil {
			return fmt.Errorf("insert usage %s h%d: %w", r.Date.Format(models.DateLayout), r.Hour, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.logger.Info("usage mirrored to sqlite", slog.Int("rows", len(rows)))
	return nil
}

func (s *Store) UsageCount() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM usage`).Scan(&n)
	return n, err
}

// MonthlyTotals returns row counts and ride totals per month within r.
func (s *Store) MonthlyTotals(r bikeshare.DateRange) ([]models.MonthlyTotal, error) {
	rows, err := s.db.Query(`
		SELECT substr(date, 1, 7) AS month, COUNT(*), COALESCE(SUM(cnt), 0)
		FROM usage
		WHERE date >= ? AND date <= ?
		GROUP BY month
		ORDER BY month ASC
	`, r.Start.Format(models.DateLayout), r.End.Format(models.DateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []models.MonthlyTotal
	for rows.Next() {
		var mt models.MonthlyTotal
		if err := rows.Scan(&mt.Month, &mt.Rows, &mt.Total); err != nil {
			return nil, err
		}
		totals = append(totals, mt)
	}
	return totals, rows.Err()
}

// DayTypeCounts returns rows and ride totals per day-type partition within r.
func (s *Store) DayTypeCounts(r bikeshare.DateRange) (models.DayTypeCounts, error) {
	var c models.DayTypeCounts
	rows, err := s.db.Query(`
		SELECT day_type, COUNT(*), COALESCE(SUM(cnt), 0)
		FROM usage
		WHERE date >= ? AND date <= ?
		GROUP BY day_type
	`, r.Start.Format(models.DateLayout), r.End.Format(models.DateLayout))
	if err != nil {
		return c, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			dayType string
			n       int
			total   int64
		)
		if err := rows.Scan(&dayType, &n, &total); err != nil {
			return c, err
		}
		switch dayType {
		case models.DayTypeWorking.String():
			c.WorkingRows, c.WorkingTotal = n, total
		case models.DayTypeWeekend.String():
			c.WeekendRows, c.WeekendTotal = n, total
		case models.DayTypeHoliday.String():
			c.HolidayRows, c.HolidayTotal = n, total
		}
	}
	return c, rows.Err()
}
