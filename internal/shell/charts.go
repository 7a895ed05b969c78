package shell

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/ledger"
)

// PieSlice is one labelled value of a pie chart.
type PieSlice struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// PieChart is a distribution chart.
type PieChart struct {
	Title  string     `json:"title"`
	Slices []PieSlice `json:"slices"`
}

// BarSeries is one named series of a bar chart, parallel to BarChart.X.
type BarSeries struct {
	Name   string            `json:"name"`
	Values []decimal.Decimal `json:"values"`
}

// BarChart is a grouped or stacked bar chart.
type BarChart struct {
	Title  string      `json:"title"`
	X      []string    `json:"x"`
	Series []BarSeries `json:"series"`
}

// LinePoint is one point of a line chart.
type LinePoint struct {
	X string          `json:"x"`
	Y decimal.Decimal `json:"y"`
}

// LineChart is a single-series line chart.
type LineChart struct {
	Title  string      `json:"title"`
	Points []LinePoint `json:"points"`
}

// Heatmap is a labelled matrix. Cells[i][j] is row i, column j; cells with
// no value (the diagonal) are invalid NullDecimals and encode as null.
type Heatmap struct {
	Title      string                  `json:"title"`
	ColorLabel string                  `json:"color_label"`
	Rows       []string                `json:"rows"`
	Columns    []string                `json:"columns"`
	Cells      [][]decimal.NullDecimal `json:"cells"`
}

func categoryPie(totals []ledger.CategoryTotal) PieChart {
	chart := PieChart{Title: "Expense Distribution by Category"}
	for _, t := range totals {
		chart.Slices = append(chart.Slices, PieSlice{Label: string(t.Category), Value: t.Amount})
	}
	return chart
}

func monthlyBar(table ledger.MonthTable) BarChart {
	chart := BarChart{Title: "Monthly Expenses by Category"}
	for _, row := range table.Rows {
		chart.X = append(chart.X, row.Month)
	}
	for _, c := range table.Categories {
		series := BarSeries{Name: string(c), Values: make([]decimal.Decimal, len(table.Rows))}
		for i, row := range table.Rows {
			series.Values[i] = row.Amounts[c]
		}
		chart.Series = append(chart.Series, series)
	}
	return chart
}

func cumulativeLine(points []ledger.CumulativePoint) LineChart {
	chart := LineChart{Title: "Cumulative Expenses Over Time"}
	for _, p := range points {
		chart.Points = append(chart.Points, LinePoint{X: p.Date.String(), Y: p.Cumulative})
	}
	return chart
}

func paidBar(paid []calculator.Balance) BarChart {
	chart := BarChart{Title: "Total Expenses Paid by Participant"}
	series := BarSeries{Name: "Paid"}
	for _, p := range paid {
		chart.X = append(chart.X, p.Participant)
		series.Values = append(series.Values, p.Amount)
	}
	chart.Series = []BarSeries{series}
	return chart
}

func owedHeatmap(m calculator.OwedMatrix) Heatmap {
	h := Heatmap{
		Title:      "Who Owes Whom",
		ColorLabel: "Amount Owed",
		Rows:       m.Names,
		Columns:    m.Names,
		Cells:      make([][]decimal.NullDecimal, len(m.Names)),
	}
	for i, payer := range m.Names {
		h.Cells[i] = make([]decimal.NullDecimal, len(m.Names))
		for j, receiver := range m.Names {
			if amount, ok := m.Amount(payer, receiver); ok {
				h.Cells[i][j] = decimal.NewNullDecimal(amount)
			}
		}
	}
	return h
}
