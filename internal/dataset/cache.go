package dataset

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/lox/bikedash/internal/metrics"
)

// LoadFunc produces a dataset. It is called at most once successfully per Cache.
type LoadFunc func() (*Dataset, error)

// Cache lazily loads the dataset on first use and keeps it for the process
// lifetime. Failed loads are not cached, so a later call retries.
type Cache struct {
	mu     sync.Mutex
	load   LoadFunc
	ds     *Dataset
	hooks   []func(*Dataset) error
	hookErr error
	logger  *slog.Logger
}

// NewCache returns a cache around load.
func NewCache(load LoadFunc, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{load: load, logger: logger}
}

// NewFileCache is a Cache that loads the CSV at path.
func NewFileCache(path string, logger *slog.Logger) *Cache {
	return NewCache(func() (*Dataset, error) { return Load(path) }, logger)
}

// OnLoad registers fn to run once after the first successful load. Hook
// errors do not fail the load; they are kept and reported by HookErr.
func (c *Cache) OnLoad(fn func(*Dataset) error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hooks = append(c.hooks, fn)
}

// Get returns the cached dataset, loading it if needed.
func (c *Cache) Get() (*Dataset, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ds != nil {
		return c.ds, nil
	}

	start := time.Now()
	ds, err := c.load()
	metrics.DatasetLoadSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		result := "error"
		if errors.Is(err, ErrMissingDataset) {
			result = "missing"
		}
		metrics.DatasetLoads.WithLabelValues(result).Inc()
		c.logger.Warn("load dataset", slog.String("result", result), slog.Any("error", err))
		return nil, err
	}

	metrics.DatasetLoads.WithLabelValues("ok").Inc()
	metrics.DatasetRows.Set(float64(ds.Table.Len()))
	c.logger.Info("dataset loaded",
		slog.String("path", ds.Path),
		slog.Int("rows", ds.Table.Len()),
		slog.Duration("duration", time.Since(start)))

	var hookErrs []error
	for _, hook := range c.hooks {
		if err := hook(ds); err != nil {
			c.logger.Error("dataset load hook", slog.Any("error", err))
			hookErrs = append(hookErrs, err)
		}
	}
	c.hookErr = errors.Join(hookErrs...)
	c.ds = ds
	return ds, nil
}

// HookErr returns the joined errors of the OnLoad hooks from the load that
// populated the cache, or nil.
func (c *Cache) HookErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hookErr
}
