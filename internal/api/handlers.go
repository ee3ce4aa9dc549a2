package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/user/review-sentiment/internal/domain"
	"github.com/user/review-sentiment/internal/export"
	"github.com/user/review-sentiment/internal/pipeline"
)

const (
	topProducts         = 5
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// SearchRequest is the payload for POST /api/search.
type SearchRequest struct {
	Query string `json:"query"`
}

// SearchResponse is the finished table plus the chart and top products
// derived from it.
type SearchResponse struct {
	Query       string              `json:"query"`
	Found       int                 `json:"found"`
	Cached      bool                `json:"cached"`
	Rows        []domain.ProductRow `json:"rows"`
	Chart       []export.ChartPoint `json:"chart"`
	TopProducts []domain.ProductRow `json:"top_products"`
	StartedAt   time.Time           `json:"started_at"`
	FinishedAt  time.Time           `json:"finished_at"`
}

// HistoryResponse lists persisted rows.
type HistoryResponse struct {
	Query string             `json:"query,omitempty"`
	Rows  []domain.StoredRow `json:"rows"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	table, cached, err := s.searcher.Search(r.Context(), req.Query)
	if err != nil {
		s.respondWithSearchError(w, err)
		return
	}

	s.respondWithJSON(w, http.StatusOK, SearchResponse{
		Query:       table.Query,
		Found:       table.Found,
		Cached:      cached,
		Rows:        table.Rows,
		Chart:       export.Chart(table),
		TopProducts: export.TopPositive(table, topProducts),
		StartedAt:   table.StartedAt,
		FinishedAt:  table.FinishedAt,
	})
}

func (s *Server) handleSearchCSV(w http.ResponseWriter, r *http.Request) {
	table, _, err := s.searcher.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.respondWithSearchError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(table.Query)))
	w.WriteHeader(http.StatusOK)
	if err := export.WriteCSV(w, table); err != nil {
		s.logger.Error("failed to stream csv", zap.String("query", table.Query), zap.Error(err))
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.respondWithError(w, http.StatusServiceUnavailable, "History requires a configured database")
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.respondWithError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	query := r.URL.Query().Get("q")
	rows, err := s.history.RecentByQuery(r.Context(), query, limit)
	if err != nil {
		s.logger.Error("failed to read history", zap.String("query", query), zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Could not retrieve history")
		return
	}
	if rows == nil {
		rows = []domain.StoredRow{}
	}
	s.respondWithJSON(w, http.StatusOK, HistoryResponse{Query: query, Rows: rows})
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	healthStatus := map[string]string{"api": "healthy"}
	healthy := true

	if s.history != nil {
		if err := s.history.Ping(ctx); err != nil {
			healthStatus["postgres"] = "unhealthy"
			healthy = false
			s.logger.Error("health check failed for postgres", zap.Error(err))
		} else {
			healthStatus["postgres"] = "healthy"
		}
	}

	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			healthStatus["redis"] = "unhealthy"
			healthy = false
			s.logger.Error("health check failed for redis", zap.Error(err))
		} else {
			healthStatus["redis"] = "healthy"
		}
	}

	if !healthy {
		s.respondWithJSON(w, http.StatusServiceUnavailable, healthStatus)
		return
	}
	s.respondWithJSON(w, http.StatusOK, healthStatus)
}

// --- Helper Functions ---

func (s *Server) respondWithSearchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pipeline.ErrEmptyQuery):
		s.respondWithError(w, http.StatusBadRequest, "Query cannot be empty")
	case errors.Is(err, pipeline.ErrSearchTimeout):
		s.respondWithError(w, http.StatusNotFound, "Timeout: No products found.")
	case errors.Is(err, pipeline.ErrEmptyResults):
		s.respondWithError(w, http.StatusNotFound, "No products found.")
	default:
		s.logger.Error("search failed", zap.Error(err))
		s.respondWithError(w, http.StatusBadGateway, "Search failed")
	}
}

func (s *Server) respondWithError(w http.ResponseWriter, code int, message string) {
	s.respondWithJSON(w, code, map[string]string{"error": message})
}

func (s *Server) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
		code = http.StatusInternalServerError
		response = []byte(`{"error":"internal error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
