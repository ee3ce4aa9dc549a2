package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/review-sentiment/internal/domain"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS product_data (
		id                BIGSERIAL PRIMARY KEY,
		user_query        TEXT NOT NULL,
		product_name      TEXT NOT NULL,
		rating            TEXT,
		price             TEXT,
		link              TEXT,
		reviews           TEXT,
		overall_sentiment TEXT NOT NULL,
		positive_perc     DOUBLE PRECISION NOT NULL DEFAULT 0,
		negative_perc     DOUBLE PRECISION NOT NULL DEFAULT 0,
		neutral_perc      DOUBLE PRECISION NOT NULL DEFAULT 0,
		timestamp         TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_product_data_query ON product_data (user_query, timestamp DESC)`,
}

// PostgresStore handles interactions with the PostgreSQL database.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	db, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *PostgresStore) Close() {
	s.db.Close()
}

// EnsureSchema creates the product_data table and its index.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// SaveTable inserts every row of table within a single transaction.
func (s *PostgresStore) SaveTable(ctx context.Context, table *domain.Table) error {
	if len(table.Rows) == 0 {
		return nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, row := range table.Rows {
		batch.Queue(`INSERT INTO product_data
			(user_query, product_name, rating, price, link, reviews,
			 overall_sentiment, positive_perc, negative_perc, neutral_perc, timestamp)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			table.Query, row.Name, row.Rating, row.Price, row.Link, row.Reviews,
			string(row.Overall), row.PositivePct, row.NegativePct, row.NeutralPct, table.FinishedAt,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert rows: %w", err)
	}

	return tx.Commit(ctx)
}

// RecentByQuery returns the newest persisted rows for query, newest first.
// An empty query returns rows for every query.
func (s *PostgresStore) RecentByQuery(ctx context.Context, query string, limit int) ([]domain.StoredRow, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, user_query, product_name, rating, price, link, reviews,
		        overall_sentiment, positive_perc, negative_perc, neutral_perc, timestamp
		 FROM product_data
		 WHERE $1::text = '' OR user_query = $1
		 ORDER BY timestamp DESC, id ASC
		 LIMIT $2`,
		query, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []domain.StoredRow
	for rows.Next() {
		var (
			r       domain.StoredRow
			overall string
		)
		if err := rows.Scan(
			&r.ID, &r.Query, &r.Row.Name, &r.Row.Rating, &r.Row.Price, &r.Row.Link, &r.Row.Reviews,
			&overall, &r.Row.PositivePct, &r.Row.NegativePct, &r.Row.NeutralPct, &r.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		r.Row.Overall = domain.SentimentLabel(overall)
		out = append(out, r)
	}
	return out, rows.Err()
}
