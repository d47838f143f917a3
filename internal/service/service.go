// Package service serves daily climatology grids for named variables,
// backed by an optional daily grid cache. Cached grids are tied to the
// fingerprint of the field they were computed from.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/chrissnell/sstclim/internal/cache"
	"github.com/chrissnell/sstclim/pkg/climatology"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// ErrUnknownVariable is returned for variables that were never registered.
var ErrUnknownVariable = errors.New("unknown climatology variable")

// VariableInfo describes a registered variable.
type VariableInfo struct {
	Name string `json:"name"`
	Rows int    `json:"rows"`
	Cols int    `json:"cols"`
}

type entry struct {
	field       *climatology.Field
	fingerprint string
}

// Service holds the loaded climatology fields.
type Service struct {
	mu     sync.RWMutex
	fields map[string]entry
	cache  *cache.Cache
	logger *zap.SugaredLogger
}

// New creates a service. c may be nil to disable caching.
func New(c *cache.Cache, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{
		fields: make(map[string]entry),
		cache:  c,
		logger: logger,
	}
}

// Register makes f available under name, replacing any previous field.
// Cached grids for name computed from other data are dropped, including
// those left in a persistent cache by an earlier run.
func (s *Service) Register(ctx context.Context, name string, f *climatology.Field) {
	e := entry{field: f, fingerprint: f.Fingerprint()}

	s.mu.Lock()
	s.fields[name] = e
	s.mu.Unlock()

	if s.cache != nil {
		n, err := s.cache.Retain(ctx, name, e.fingerprint)
		switch {
		case err != nil:
			s.logger.Warnw("failed to drop stale cached grids", "variable", name, "error", err)
		case n > 0:
			s.logger.Infow("dropped stale cached grids", "variable", name, "count", n)
		}
	}

	rows, cols := f.Dims()
	s.logger.Infow("registered climatology variable", "variable", name, "rows", rows, "cols", cols)
}

// Variables lists the registered variables sorted by name.
func (s *Service) Variables() []VariableInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]VariableInfo, 0, len(s.fields))
	for name, e := range s.fields {
		rows, cols := e.field.Dims()
		out = append(out, VariableInfo{Name: name, Rows: rows, Cols: cols})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Service) lookup(name string) (entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.fields[name]
	if !ok {
		return entry{}, fmt.Errorf("%w: %q", ErrUnknownVariable, name)
	}
	return e, nil
}

// Daily returns the daily climatology grid of variable for a YYYY-MM-DD
// date. Cache errors are logged and otherwise ignored.
func (s *Service) Daily(ctx context.Context, variable, date string) (*mat.Dense, error) {
	t, err := climatology.ParseDate(date)
	if err != nil {
		return nil, err
	}
	e, err := s.lookup(variable)
	if err != nil {
		return nil, err
	}
	return s.daily(ctx, variable, e, t), nil
}

func (s *Service) daily(ctx context.Context, variable string, e entry, t time.Time) *mat.Dense {
	if s.cache != nil {
		g, ok, err := s.cache.Get(ctx, variable, e.fingerprint, t)
		switch {
		case err != nil:
			s.logger.Warnw("cache lookup failed", "variable", variable, "date", t.Format(climatology.DateLayout), "error", err)
		case ok:
			s.logger.Debugw("cache hit", "variable", variable, "date", t.Format(climatology.DateLayout))
			return g
		}
	}

	g := e.field.DailyAt(t)

	if s.cache != nil {
		if err := s.cache.Put(ctx, variable, e.fingerprint, t, g); err != nil {
			s.logger.Warnw("cache store failed", "variable", variable, "date", t.Format(climatology.DateLayout), "error", err)
		}
	}
	return g
}

// Point returns one cell of the daily grid.
func (s *Service) Point(ctx context.Context, variable, date string, row, col int) (float64, error) {
	t, err := climatology.ParseDate(date)
	if err != nil {
		return 0, err
	}
	e, err := s.lookup(variable)
	if err != nil {
		return 0, err
	}
	return e.field.PointAt(t, row, col)
}

// Summary returns statistics of the daily grid.
func (s *Service) Summary(ctx context.Context, variable, date string) (climatology.Summary, error) {
	g, err := s.Daily(ctx, variable, date)
	if err != nil {
		return climatology.Summary{}, err
	}
	return climatology.Summarize(g), nil
}
