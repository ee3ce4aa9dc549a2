package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/user/review-sentiment/internal/domain"
)

const reportWidth = 72

// PrintReport writes a terminal summary of the table: overview, label
// distribution, one line per product and the top products by positive share.
func PrintReport(w io.Writer, table *domain.Table, top int) {
	border := strings.Repeat("═", reportWidth)
	thin := strings.Repeat("─", reportWidth)

	fmt.Fprintf(w, "\n╔%s╗\n", border)
	fmt.Fprintf(w, "║%s║\n", center("REVIEW SENTIMENT: "+strings.ToUpper(table.Query), reportWidth))
	fmt.Fprintf(w, "╚%s╝\n", border)

	fmt.Fprintf(w, "\n OVERVIEW\n%s\n", thin)
	fmt.Fprintf(w, "  Results on search page  : %d\n", table.Found)
	fmt.Fprintf(w, "  Products analysed       : %d\n", len(table.Rows))
	fmt.Fprintf(w, "  Elapsed                 : %s\n", table.FinishedAt.Sub(table.StartedAt).Round(time.Millisecond))

	counts := map[domain.SentimentLabel]int{}
	for _, row := range table.Rows {
		counts[row.Overall]++
	}
	fmt.Fprintf(w, "\n OVERALL SENTIMENT\n%s\n", thin)
	for _, label := range []domain.SentimentLabel{domain.Positive, domain.Negative, domain.Neutral, domain.Unknown} {
		if label == domain.Unknown && counts[label] == 0 {
			continue
		}
		fmt.Fprintf(w, "  %-10s %3d  %s\n", label, counts[label], strings.Repeat("▓", counts[label]))
	}

	if len(table.Rows) > 0 {
		fmt.Fprintf(w, "\n PRODUCTS\n%s\n", thin)
		for i, row := range table.Rows {
			fmt.Fprintf(w, "  %2d. %-38s %-9s +%6s -%6s ~%6s\n",
				i+1, truncate(row.Name, 38), row.Overall,
				FormatPct(row.PositivePct), FormatPct(row.NegativePct), FormatPct(row.NeutralPct))
		}
	}

	if best := TopPositive(table, top); len(best) > 0 {
		fmt.Fprintf(w, "\n TOP %d BY POSITIVE SENTIMENT\n%s\n", len(best), thin)
		for i, row := range best {
			fmt.Fprintf(w, "  %d. %-45s %6s%%  %s\n", i+1, truncate(row.Name, 45), FormatPct(row.PositivePct), row.Price)
		}
	}

	fmt.Fprintf(w, "\n%s\n\n", border)
}

func center(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return string(runes[:width])
	}
	pad := (width - len(runes)) / 2
	return strings.Repeat(" ", pad) + s + strings.Repeat(" ", width-len(runes)-pad)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}
