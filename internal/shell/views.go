package shell

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
)

// View is what a route hands back for rendering.
type View interface {
	Route() Route
}

// HomeView is the landing page.
type HomeView struct {
	// Summary is nil when the personal ledger is empty.
	Summary *ledger.Summary `json:"summary,omitempty"`

	// Added is the quick-add entry, when one was submitted.
	Added *models.PersonalExpense `json:"added,omitempty"`

	Recent     []models.PersonalExpense `json:"recent"`
	Categories []models.Category        `json:"categories"`
}

// ExpenseAddedView confirms a personal expense.
type ExpenseAddedView struct {
	Entry models.PersonalExpense `json:"entry"`
	Count int                    `json:"count"`
}

// ExpenseListView is the filtered expense history.
type ExpenseListView struct {
	Start   models.Date              `json:"start"`
	End     models.Date              `json:"end"`
	Entries []models.PersonalExpense `json:"entries"`

	// Exportable is false when there is nothing to download.
	Exportable bool `json:"exportable"`
}

// ExpenseChartsView holds the personal spending charts.
type ExpenseChartsView struct {
	NoData     bool              `json:"no_data"`
	Available  []models.Category `json:"available"`
	Selected   []models.Category `json:"selected"`
	ByCategory PieChart          `json:"by_category"`
	Monthly    BarChart          `json:"monthly"`
	Cumulative LineChart         `json:"cumulative"`
}

// GroupExpenseView is a recorded group expense with its split.
type GroupExpenseView struct {
	ID           string            `json:"id"`
	Description  string            `json:"description"`
	Total        decimal.Decimal   `json:"total"`
	Share        decimal.Decimal   `json:"share"`
	Participants []string          `json:"participants"`
	Paid         []decimal.Decimal `json:"paid"`
	Owed         []decimal.Decimal `json:"owed"`
	CreatedAt    int64             `json:"created_at"`
}

// BalancesView is the exploded group ledger with per-participant totals.
type BalancesView struct {
	NoData    bool                  `json:"no_data"`
	Rows      []models.ExplodedRow  `json:"rows"`
	Balances  []calculator.Balance  `json:"balances"`
	Transfers []calculator.Transfer `json:"transfers"`
}

// SplitChartsView holds the group charts.
type SplitChartsView struct {
	NoData bool     `json:"no_data"`
	Paid   BarChart `json:"paid"`
	Owed   Heatmap  `json:"owed"`
}

func (HomeView) Route() Route          { return RouteHome }
func (ExpenseAddedView) Route() Route  { return RouteAddExpense }
func (ExpenseListView) Route() Route   { return RouteViewExpenses }
func (ExpenseChartsView) Route() Route { return RouteVisualizeExpenses }
func (GroupExpenseView) Route() Route  { return RouteAddGroupExpense }
func (BalancesView) Route() Route      { return RouteBalances }
func (SplitChartsView) Route() Route   { return RouteVisualizeSplits }

func newGroupExpenseView(e models.GroupExpense) GroupExpenseView {
	return GroupExpenseView{
		ID:           e.ID(),
		Description:  e.Description(),
		Total:        e.Total(),
		Share:        e.Share(),
		Participants: e.Participants(),
		Paid:         e.Paid(),
		Owed:         e.Owed(),
		CreatedAt:    e.CreatedAt(),
	}
}
