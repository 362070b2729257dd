package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"
)

// WriteCSV serializes the report as sectioned CSV: range header, daily
// spending, category distribution, then the monthly income-vs-expense
// comparison with net. Amounts are written as plain 2-decimal numbers.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	rows := [][]string{
		{"Budget Report"},
		{"Period", r.Start.Format("2006-01-02"), r.End.Format("2006-01-02")},
		{"Generated", time.Now().Format("2006-01-02 15:04:05")},
		{},
		{"Daily Spending"},
		{"Date", "Amount"},
	}
	for _, d := range r.DailySpending {
		rows = append(rows, []string{
			d.Date.Format("2006-01-02"),
			formatAmount(d.Total),
		})
	}

	rows = append(rows,
		[]string{},
		[]string{"Category Distribution"},
		[]string{"Category", "Amount"},
	)
	for _, c := range r.Distribution {
		rows = append(rows, []string{c.Name, formatAmount(c.Total)})
	}

	rows = append(rows,
		[]string{},
		[]string{"Monthly Income vs Expenses"},
		[]string{"Month", "Income", "Expenses", "Net"},
	)
	for _, m := range r.Comparison {
		rows = append(rows, []string{
			m.Month,
			formatAmount(m.Income),
			formatAmount(m.Expense),
			formatAmount(m.Income - m.Expense),
		})
	}

	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
