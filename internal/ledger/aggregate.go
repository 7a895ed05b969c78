package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// CategoryTotal is the amount spent in one category.
type CategoryTotal struct {
	Category models.Category `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// MonthTotals is one row of the month by category table.
type MonthTotals struct {
	// Month is the calendar month as YYYY-MM.
	Month string `json:"month"`

	// Amounts has a value for every category, zero where nothing was spent.
	Amounts map[models.Category]decimal.Decimal `json:"amounts"`
}

// MonthTable is the month by category table behind the stacked bar chart.
type MonthTable struct {
	// Categories are the columns: categories that occur, in display order.
	Categories []models.Category `json:"categories"`

	// Rows are ordered by month ascending.
	Rows []MonthTotals `json:"rows"`
}

// CumulativePoint is the running total at the end of one day.
type CumulativePoint struct {
	Date       models.Date     `json:"date"`
	Amount     decimal.Decimal `json:"amount"`
	Cumulative decimal.Decimal `json:"cumulative"`
}

// Categories lists the distinct categories in entries, first appearance first.
func Categories(entries []models.PersonalExpense) []models.Category {
	seen := make(map[models.Category]bool)
	var out []models.Category
	for _, e := range entries {
		if !seen[e.Category] {
			seen[e.Category] = true
			out = append(out, e.Category)
		}
	}
	return out
}

// FilterCategories keeps entries whose category is in selected. An empty
// selection keeps everything.
func FilterCategories(entries []models.PersonalExpense, selected []models.Category) []models.PersonalExpense {
	if len(selected) == 0 {
		return entries
	}
	want := make(map[models.Category]bool, len(selected))
	for _, c := range selected {
		want[c] = true
	}
	var out []models.PersonalExpense
	for _, e := range entries {
		if want[e.Category] {
			out = append(out, e)
		}
	}
	return out
}

// AggregateByCategory sums amounts per category, after restricting to
// selected when it is non-empty. Only categories that occur are returned,
// in display order.
func AggregateByCategory(entries []models.PersonalExpense, selected []models.Category) []CategoryTotal {
	sums := make(map[models.Category]decimal.Decimal)
	for _, e := range FilterCategories(entries, selected) {
		sums[e.Category] = sums[e.Category].Add(e.Amount)
	}

	out := make([]CategoryTotal, 0, len(sums))
	for c, amount := range sums {
		out = append(out, CategoryTotal{Category: c, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		ri, rj := out[i].Category.Rank(), out[j].Category.Rank()
		if ri != rj {
			return ri < rj
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// AggregateByMonth groups entries by calendar month and category.
func AggregateByMonth(entries []models.PersonalExpense) MonthTable {
	present := make(map[models.Category]bool)
	byMonth := make(map[string]map[models.Category]decimal.Decimal)
	for _, e := range entries {
		present[e.Category] = true
		key := e.Date.MonthKey()
		if byMonth[key] == nil {
			byMonth[key] = make(map[models.Category]decimal.Decimal)
		}
		byMonth[key][e.Category] = byMonth[key][e.Category].Add(e.Amount)
	}

	var table MonthTable
	for _, c := range models.Categories {
		if present[c] {
			table.Categories = append(table.Categories, c)
		}
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	for _, m := range months {
		row := MonthTotals{Month: m, Amounts: make(map[models.Category]decimal.Decimal, len(models.Categories))}
		for _, c := range models.Categories {
			row.Amounts[c] = byMonth[m][c]
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

// CumulativeOverTime sums amounts per day, ascending, and carries a running
// total.
func CumulativeOverTime(entries []models.PersonalExpense) []CumulativePoint {
	perDay := make(map[string]decimal.Decimal)
	var days []models.Date
	for _, e := range entries {
		key := e.Date.String()
		if _, ok := perDay[key]; !ok {
			days = append(days, e.Date)
		}
		perDay[key] = perDay[key].Add(e.Amount)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	points := make([]CumulativePoint, len(days))
	running := decimal.Zero
	for i, day := range days {
		amount := perDay[day.String()]
		running = running.Add(amount)
		points[i] = CumulativePoint{Date: day, Amount: amount, Cumulative: running}
	}
	return points
}
