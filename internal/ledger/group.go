package ledger

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
)

// Group is the ordered sequence of recorded group expenses.
type Group struct {
	expenses []models.GroupExpense
}

// NewGroup builds a ledger holding expenses in the given order.
func NewGroup(expenses ...models.GroupExpense) Group {
	return Group{expenses: slices.Clone(expenses)}
}

// Create validates and records a group expense.
//
// The split is computed by calculator.SplitEqually; any error it reports
// (no participants, mismatched columns, negative amounts, paid not summing
// to total) is returned as is and the receiver is returned unchanged.
func (g Group) Create(description string, total decimal.Decimal, participants []string, paid []decimal.Decimal) (Group, models.GroupExpense, error) {
	split, err := calculator.SplitEqually(total, participants, paid)
	if err != nil {
		return g, models.GroupExpense{}, err
	}

	expense := models.NewGroupExpense(
		uuid.New().String(),
		strings.TrimSpace(description),
		total,
		split.Share,
		participants,
		paid,
		split.Owed,
		time.Now().Unix(),
	)

	next := make([]models.GroupExpense, len(g.expenses), len(g.expenses)+1)
	copy(next, g.expenses)
	return Group{expenses: append(next, expense)}, expense, nil
}

// Len is the number of recorded expenses.
func (g Group) Len() int { return len(g.expenses) }

// Expenses returns a copy of every expense in insertion order.
func (g Group) Expenses() []models.GroupExpense {
	return slices.Clone(g.expenses)
}

// Rows is the exploded view: one row per (expense, participant).
func (g Group) Rows() []models.ExplodedRow {
	return calculator.Explode(g.expenses)
}

// Balances aggregates owed amounts per participant across the ledger.
func (g Group) Balances(policy calculator.NamePolicy) []calculator.Balance {
	return calculator.ComputeBalances(g.Rows(), policy)
}
