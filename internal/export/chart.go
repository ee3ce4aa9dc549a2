package export

import (
	"sort"

	"github.com/user/review-sentiment/internal/domain"
)

// ChartPoint is one product's bar group in the sentiment comparison chart.
type ChartPoint struct {
	Product  string  `json:"product"`
	Positive float64 `json:"positive_pct"`
	Negative float64 `json:"negative_pct"`
	Neutral  float64 `json:"neutral_pct"`
}

func Chart(table *domain.Table) []ChartPoint {
	points := make([]ChartPoint, 0, len(table.Rows))
	for _, row := range table.Rows {
		points = append(points, ChartPoint{
			Product:  row.Name,
			Positive: row.PositivePct,
			Negative: row.NegativePct,
			Neutral:  row.NeutralPct,
		})
	}
	return points
}

// TopPositive returns the n rows with the highest positive share. Ties keep
// table order.
func TopPositive(table *domain.Table, n int) []domain.ProductRow {
	rows := append([]domain.ProductRow(nil), table.Rows...)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].PositivePct > rows[j].PositivePct
	})
	if n < len(rows) {
		rows = rows[:n]
	}
	return rows
}
