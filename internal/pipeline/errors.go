package pipeline

import (
	"errors"
	"fmt"

	"github.com/user/review-sentiment/internal/extractor"
)

var (
	ErrEmptyQuery    = errors.New("query is empty")
	ErrSearchTimeout = errors.New("timeout: no products found")
	ErrEmptyResults  = extractor.ErrEmptyResults

	errMissingLink = errors.New("product has no link")
)

// Stage names the step of a run that failed.
type Stage string

const (
	StageValidate Stage = "validate"
	StageQueue    Stage = "queue"
	StageLaunch   Stage = "launch"
	StageSearch   Stage = "search"
	StageExtract  Stage = "extract"
	StageProducts Stage = "products"
)

// Error is a run-fatal failure. Per-product failures never surface as an
// Error; they become sentinel rows instead.
type Error struct {
	Stage Stage
	Query string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("pipeline %s for %q: %v", e.Stage, e.Query, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// statusLabel is the metrics label for a run outcome.
func statusLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrEmptyQuery):
		return "empty_query"
	case errors.Is(err, ErrSearchTimeout):
		return "search_timeout"
	case errors.Is(err, ErrEmptyResults):
		return "empty_results"
	default:
		var pe *Error
		if errors.As(err, &pe) {
			return string(pe.Stage) + "_failed"
		}
		return "failed"
	}
}
