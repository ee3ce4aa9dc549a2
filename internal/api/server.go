package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/user/review-sentiment/internal/config"
	"github.com/user/review-sentiment/internal/domain"
	"github.com/user/review-sentiment/internal/monitoring"
)

// Searcher runs or recalls a search.
type Searcher interface {
	Search(ctx context.Context, query string) (*domain.Table, bool, error)
}

// HistoryStore reads persisted rows.
type HistoryStore interface {
	RecentByQuery(ctx context.Context, query string, limit int) ([]domain.StoredRow, error)
	Ping(ctx context.Context) error
}

// Pinger is a dependency the health check probes.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	config     *config.Config
	router     http.Handler
	httpServer *http.Server
	searcher   Searcher
	history    HistoryStore
	cache      Pinger
	metrics    *monitoring.Metrics
	logger     *zap.Logger
}

// NewServer builds the server. history and cache may be nil when Postgres
// or Redis are not configured.
func NewServer(cfg *config.Config, searcher Searcher, history HistoryStore, cache Pinger, m *monitoring.Metrics, l *zap.Logger) *Server {
	s := &Server{
		config:   cfg,
		searcher: searcher,
		history:  history,
		cache:    cache,
		metrics:  m,
		logger:   l,
	}
	s.router = s.setupRouter()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%s", s.config.ServerPort),
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: requestTimeout + 10*time.Second,
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
