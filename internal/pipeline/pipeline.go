package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/user/review-sentiment/internal/browser"
	"github.com/user/review-sentiment/internal/config"
	"github.com/user/review-sentiment/internal/domain"
	"github.com/user/review-sentiment/internal/extractor"
	"github.com/user/review-sentiment/internal/monitoring"
	"github.com/user/review-sentiment/internal/sentiment"
)

// Scorer labels one review text.
type Scorer interface {
	Label(text string) domain.SentimentLabel
}

// Pipeline runs one search end to end: launch a renderer, read the search
// page, then visit each product in order and score its reviews.
type Pipeline struct {
	launch         browser.Launcher
	extractor      *extractor.Extractor
	scorer         Scorer
	baseURL        string
	scoreSentinels bool
	metrics        *monitoring.Metrics
	logger         *zap.Logger
}

func New(cfg *config.Config, launch browser.Launcher, ext *extractor.Extractor, scorer Scorer, m *monitoring.Metrics, l *zap.Logger) *Pipeline {
	return &Pipeline{
		launch:         launch,
		extractor:      ext,
		scorer:         scorer,
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		scoreSentinels: cfg.ScoreSentinels,
		metrics:        m,
		logger:         l,
	}
}

// SearchURL builds the search page address for query.
func SearchURL(baseURL, query string) string {
	return strings.TrimRight(baseURL, "/") + "/s?k=" + url.QueryEscape(query)
}

// Run executes the pipeline for query. The renderer is released exactly
// once on every path. Products are processed strictly one after another;
// a failing product becomes a sentinel row and never aborts the run.
func (p *Pipeline) Run(ctx context.Context, query string) (table *domain.Table, err error) {
	query = strings.TrimSpace(query)
	defer func() {
		p.metrics.IncPipelineRun(statusLabel(err))
	}()

	if query == "" {
		return nil, &Error{Stage: StageValidate, Query: query, Err: ErrEmptyQuery}
	}
	started := time.Now()

	renderer, err := p.launch(ctx)
	if err != nil {
		return nil, &Error{Stage: StageLaunch, Query: query, Err: err}
	}
	defer func() {
		if cerr := renderer.Close(); cerr != nil {
			p.logger.Warn("failed to close renderer", zap.Error(cerr))
		}
	}()

	searchURL := SearchURL(p.baseURL, query)
	p.logger.Info("searching", zap.String("query", query), zap.String("url", searchURL))

	html, err := p.render(ctx, renderer, "search", searchURL, p.extractor.ResultSelector())
	if err != nil {
		if ctx.Err() == nil && errors.Is(err, browser.ErrWaitTimeout) {
			p.logger.Warn("search page timed out", zap.String("query", query), zap.Error(err))
			err = ErrSearchTimeout
		}
		return nil, &Error{Stage: StageSearch, Query: query, Err: err}
	}

	stubs, found, err := p.extractor.Products(html)
	if err != nil {
		return nil, &Error{Stage: StageExtract, Query: query, Err: err}
	}
	p.logger.Info("search results extracted",
		zap.String("query", query),
		zap.Int("found", found),
		zap.Int("processing", len(stubs)),
	)

	rows := make([]domain.ProductRow, 0, len(stubs))
	for i, stub := range stubs {
		if err := ctx.Err(); err != nil {
			return nil, &Error{Stage: StageProducts, Query: query, Err: err}
		}

		set := p.fetchReviews(ctx, renderer, stub)
		row := p.buildRow(stub, set)
		rows = append(rows, row)
		p.metrics.IncProductsScraped()

		p.logger.Debug("product processed",
			zap.Int("index", i),
			zap.String("name", stub.Name),
			zap.String("reviews", string(set.Kind)),
			zap.String("overall", string(row.Overall)),
		)
	}
	if err := ctx.Err(); err != nil {
		return nil, &Error{Stage: StageProducts, Query: query, Err: err}
	}

	table = &domain.Table{
		Query:      query,
		Found:      found,
		Rows:       rows,
		StartedAt:  started,
		FinishedAt: time.Now(),
	}
	p.logger.Info("pipeline finished",
		zap.String("query", query),
		zap.Int("rows", len(rows)),
		zap.Duration("elapsed", table.FinishedAt.Sub(started)),
	)
	return table, nil
}

func (p *Pipeline) render(ctx context.Context, r browser.Renderer, page, target, selector string) (string, error) {
	start := time.Now()
	html, err := r.Render(ctx, target, selector)
	p.metrics.ObserveRender(page, time.Since(start))
	return html, err
}

// fetchReviews never fails: every problem is folded into the set.
func (p *Pipeline) fetchReviews(ctx context.Context, r browser.Renderer, stub domain.ProductStub) domain.ReviewSet {
	set := p.loadReviews(ctx, r, stub)
	p.metrics.IncReviewFetch(string(set.Kind))
	if set.Kind == domain.ReviewsError {
		p.logger.Warn("failed to fetch reviews",
			zap.String("product", stub.Name),
			zap.String("url", stub.Link),
			zap.Error(set.Err),
		)
	}
	return set
}

func (p *Pipeline) loadReviews(ctx context.Context, r browser.Renderer, stub domain.ProductStub) domain.ReviewSet {
	if stub.Link == domain.NotAvailable {
		return domain.FailedReviews(errMissingLink)
	}
	html, err := p.render(ctx, r, "product", stub.Link, p.extractor.ReviewSelector())
	if err != nil {
		return domain.FailedReviews(err)
	}
	reviews, err := p.extractor.Reviews(html)
	if err != nil {
		return domain.FailedReviews(fmt.Errorf("extract reviews: %w", err))
	}
	return domain.FoundReviews(reviews)
}

func (p *Pipeline) buildRow(stub domain.ProductStub, set domain.ReviewSet) domain.ProductRow {
	row := domain.ProductRow{
		ProductStub:  stub,
		Reviews:      set.Joined(),
		ReviewStatus: set.Kind,
	}
	if set.Kind != domain.ReviewsFound && !p.scoreSentinels {
		row.SentimentSummary = sentiment.Summarize(nil)
		return row
	}

	texts := set.Texts()
	labels := make([]domain.SentimentLabel, 0, len(texts))
	for _, text := range texts {
		label := p.scorer.Label(text)
		p.metrics.IncSentiment(string(label))
		labels = append(labels, label)
	}
	row.SentimentSummary = sentiment.Summarize(labels)
	return row
}
