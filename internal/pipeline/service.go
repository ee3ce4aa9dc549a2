package pipeline

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/user/review-sentiment/internal/domain"
)

// Runner executes one search.
type Runner interface {
	Run(ctx context.Context, query string) (*domain.Table, error)
}

// ResultCache keeps finished tables by query.
type ResultCache interface {
	Get(ctx context.Context, query string) (*domain.Table, bool, error)
	Set(ctx context.Context, query string, table *domain.Table) error
}

// ResultStore persists finished tables.
type ResultStore interface {
	SaveTable(ctx context.Context, table *domain.Table) error
}

// Service is the entry point for front ends. It runs one search at a time,
// answers repeated queries from the cache and persists finished tables.
// Cache and store failures are logged and never fail a search.
type Service struct {
	runner Runner
	cache  ResultCache
	store  ResultStore
	logger *zap.Logger
	sem    chan struct{}
}

// NewService wires a runner with optional cache and store (either may be
// nil).
func NewService(runner Runner, cache ResultCache, store ResultStore, logger *zap.Logger) *Service {
	return &Service{
		runner: runner,
		cache:  cache,
		store:  store,
		logger: logger,
		sem:    make(chan struct{}, 1),
	}
}

// Search returns the table for query and whether it came from the cache.
func (s *Service) Search(ctx context.Context, query string) (*domain.Table, bool, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, false, &Error{Stage: StageValidate, Query: query, Err: ErrEmptyQuery}
	}

	if table, ok := s.cached(ctx, query); ok {
		return table, true, nil
	}

	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, false, &Error{Stage: StageQueue, Query: query, Err: ctx.Err()}
	}
	defer func() { <-s.sem }()

	// another caller may have finished the same query while we waited
	if table, ok := s.cached(ctx, query); ok {
		return table, true, nil
	}

	table, err := s.runner.Run(ctx, query)
	if err != nil {
		return nil, false, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, query, table); err != nil {
			s.logger.Warn("failed to cache result", zap.String("query", query), zap.Error(err))
		}
	}
	if s.store != nil {
		if err := s.store.SaveTable(ctx, table); err != nil {
			s.logger.Error("failed to persist result", zap.String("query", query), zap.Error(err))
		} else {
			s.logger.Info("result persisted", zap.String("query", query), zap.Int("rows", len(table.Rows)))
		}
	}
	return table, false, nil
}

func (s *Service) cached(ctx context.Context, query string) (*domain.Table, bool) {
	if s.cache == nil {
		return nil, false
	}
	table, ok, err := s.cache.Get(ctx, query)
	if err != nil {
		s.logger.Warn("cache lookup failed", zap.String("query", query), zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	s.logger.Info("serving cached result", zap.String("query", query))
	// cache keys fold case, so the hit may carry another caller's spelling
	if table.Query != query {
		hit := *table
		hit.Query = query
		table = &hit
	}
	return table, true
}
