package models

import (
	"slices"

	"github.com/shopspring/decimal"
)

// GroupExpense is a shared cost split equally among its participants.
//
// Participants, Paid and Owed are parallel: index i of each describes the
// same person. The fields are unexported so a created expense cannot be
// changed; accessors hand out copies.
type GroupExpense struct {
	id           string
	description  string
	total        decimal.Decimal
	share        decimal.Decimal
	participants []string
	paid         []decimal.Decimal
	owed         []decimal.Decimal
	createdAt    int64
}

// NewGroupExpense assembles a GroupExpense from already validated columns.
// It copies the slices it is given. Callers outside the calculator should
// go through ledger.Group.Create, which validates the split.
func NewGroupExpense(id, description string, total, share decimal.Decimal, participants []string, paid, owed []decimal.Decimal, createdAt int64) GroupExpense {
	return GroupExpense{
		id:           id,
		description:  description,
		total:        total,
		share:        share,
		participants: slices.Clone(participants),
		paid:         slices.Clone(paid),
		owed:         slices.Clone(owed),
		createdAt:    createdAt,
	}
}

// ID is the unique identifier for the expense (UUID format).
func (g GroupExpense) ID() string { return g.id }

// Description is the free text label, e.g. "Dinner".
func (g GroupExpense) Description() string { return g.description }

// Total is the declared cost of the expense.
func (g GroupExpense) Total() decimal.Decimal { return g.total }

// Share is Total divided by the number of participants.
func (g GroupExpense) Share() decimal.Decimal { return g.share }

// CreatedAt is the Unix timestamp when the expense was recorded.
func (g GroupExpense) CreatedAt() int64 { return g.createdAt }

// Participants returns a copy of the participant names in entry order.
func (g GroupExpense) Participants() []string { return slices.Clone(g.participants) }

// Paid returns a copy of what each participant actually paid.
func (g GroupExpense) Paid() []decimal.Decimal { return slices.Clone(g.paid) }

// Owed returns a copy of Share − Paid for each participant.
// Positive means the participant still owes, negative means they are owed.
func (g GroupExpense) Owed() []decimal.Decimal { return slices.Clone(g.owed) }

// Rows flattens the expense into one ExplodedRow per participant.
func (g GroupExpense) Rows() []ExplodedRow {
	rows := make([]ExplodedRow, len(g.participants))
	for i, name := range g.participants {
		rows[i] = ExplodedRow{
			Description: g.description,
			Total:       g.total,
			Participant: name,
			Paid:        g.paid[i],
			Owed:        g.owed[i],
		}
	}
	return rows
}

// ExplodedRow is one participant's slice of one group expense.
type ExplodedRow struct {
	Description string          `json:"description"`
	Total       decimal.Decimal `json:"total"`
	Participant string          `json:"participant"`
	Paid        decimal.Decimal `json:"paid"`
	Owed        decimal.Decimal `json:"owed"`
}
