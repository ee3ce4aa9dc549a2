package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/user/review-sentiment/internal/domain"
)

// Header is the column order of the exported table.
var Header = []string{
	"Product Name", "Rating", "Price", "Link", "Reviews",
	"Overall Sentiment", "Positive %", "Negative %", "Neutral %",
}

// FileName is the download name for a query's table. Path separators are
// replaced so the name always stays inside the target directory.
func FileName(query string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_").Replace(strings.TrimSpace(query))
	return safe + "_amazon_sentiment_fast.csv"
}

// WriteCSV writes the header and one record per row.
func WriteCSV(w io.Writer, table *domain.Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range table.Rows {
		if err := writer.Write(Record(row)); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv records: %w", err)
	}
	return nil
}

// Record renders one row in Header order.
func Record(row domain.ProductRow) []string {
	return []string{
		row.Name,
		row.Rating,
		row.Price,
		row.Link,
		row.Reviews,
		string(row.Overall),
		FormatPct(row.PositivePct),
		FormatPct(row.NegativePct),
		FormatPct(row.NeutralPct),
	}
}

// WriteFile writes the table to dir/FileName(query) and returns the path.
func WriteFile(dir string, table *domain.Table) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	path := filepath.Join(dir, FileName(table.Query))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create csv file: %w", err)
	}
	if err := WriteCSV(f, table); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close csv file: %w", err)
	}
	return path, nil
}

// FormatPct prints whole numbers with one decimal (100.0) and everything
// else in the shortest form (66.67).
func FormatPct(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
