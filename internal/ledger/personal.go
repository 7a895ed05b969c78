// Package ledger holds the two append-only ledgers of a session.
//
// Ledgers are values. Append and Create return a new ledger and never touch
// the receiver, so a failed operation leaves the caller's state as it was.
package ledger

import (
	"slices"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// Personal is the ordered sequence of personal expense entries.
type Personal struct {
	entries []models.PersonalExpense
}

// NewPersonal builds a ledger holding entries in the given order.
func NewPersonal(entries ...models.PersonalExpense) Personal {
	return Personal{entries: slices.Clone(entries)}
}

// Append returns a ledger with e added at the end. An empty ID is filled in.
func (p Personal) Append(e models.PersonalExpense) Personal {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	next := make([]models.PersonalExpense, len(p.entries), len(p.entries)+1)
	copy(next, p.entries)
	return Personal{entries: append(next, e)}
}

// Len is the number of entries.
func (p Personal) Len() int { return len(p.entries) }

// Entries returns a copy of every entry in insertion order.
func (p Personal) Entries() []models.PersonalExpense {
	return slices.Clone(p.entries)
}

// FilterByDateRange returns entries with start <= date <= end, in insertion
// order. A start after end matches nothing.
func (p Personal) FilterByDateRange(start, end models.Date) []models.PersonalExpense {
	var out []models.PersonalExpense
	if start.After(end) {
		return out
	}
	for _, e := range p.entries {
		if e.Date.Before(start) || e.Date.After(end) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Summary describes the whole ledger.
type Summary struct {
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
	Mean  decimal.Decimal `json:"mean"`
}

// Empty reports whether there was nothing to summarise.
func (s Summary) Empty() bool { return s.Count == 0 }

// Summary returns count, total and mean over the unfiltered ledger.
// An empty ledger yields the zero Summary.
func (p Personal) Summary() Summary {
	s := Summary{Total: decimal.Zero, Mean: decimal.Zero}
	for _, e := range p.entries {
		s.Total = s.Total.Add(e.Amount)
	}
	s.Count = len(p.entries)
	if s.Count > 0 {
		s.Mean = s.Total.Div(decimal.NewFromInt(int64(s.Count)))
	}
	return s
}

// Recent returns up to n entries, newest date first. Entries on the same
// date keep their insertion order.
func (p Personal) Recent(n int) []models.PersonalExpense {
	sorted := slices.Clone(p.entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
