package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// settleThreshold is the smallest residue worth a transfer.
var settleThreshold = decimal.New(1, -2)

// Balance is one participant's net position across every group expense.
type Balance struct {
	Participant string          `json:"participant"`
	Amount      decimal.Decimal `json:"amount"` // Positive = still owes, negative = is owed
}

// Transfer is a suggested payment that settles part of the group's debts.
type Transfer struct {
	From   string          `json:"from"` // Person who owes
	To     string          `json:"to"`   // Person who is owed
	Amount decimal.Decimal `json:"amount"`
}

// Explode flattens group expenses into one row per (expense, participant),
// keeping expense order and participant order within each expense.
func Explode(expenses []models.GroupExpense) []models.ExplodedRow {
	var rows []models.ExplodedRow
	for _, e := range expenses {
		rows = append(rows, e.Rows()...)
	}
	return rows
}

// ComputeBalances sums owed amounts per participant.
//
// Rows whose names share a policy key accumulate into one balance, shown
// under the first spelling seen. Results are ordered by first appearance;
// the amounts do not depend on row order.
func ComputeBalances(rows []models.ExplodedRow, policy NamePolicy) []Balance {
	return sumBy(rows, policy, func(r models.ExplodedRow) decimal.Decimal { return r.Owed })
}

// TotalPaid sums what each participant actually paid, in the same order
// and under the same identity rules as ComputeBalances.
func TotalPaid(rows []models.ExplodedRow, policy NamePolicy) []Balance {
	return sumBy(rows, policy, func(r models.ExplodedRow) decimal.Decimal { return r.Paid })
}

func sumBy(rows []models.ExplodedRow, policy NamePolicy, value func(models.ExplodedRow) decimal.Decimal) []Balance {
	index := make(map[string]int)
	var out []Balance
	for _, r := range rows {
		key := policy.Key(r.Participant)
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, Balance{Participant: r.Participant, Amount: decimal.Zero})
		}
		out[i].Amount = out[i].Amount.Add(value(r))
	}
	return out
}

// OwedMatrix holds, for every ordered pair of distinct participants, how much
// the payer owes the receiver: max(0, balance[payer] − balance[receiver]).
type OwedMatrix struct {
	// Names are the row and column labels, in balance order.
	Names []string

	cells [][]decimal.Decimal
}

// MatrixCell is one off-diagonal entry of an OwedMatrix.
type MatrixCell struct {
	Payer    string          `json:"payer"`
	Receiver string          `json:"receiver"`
	Amount   decimal.Decimal `json:"amount"`
}

// ComputeOwedMatrix derives the pairwise owed matrix from balances.
//
// The clamp keeps each pair one-directional: a positive (A,B) entry means
// the (B,A) entry is zero. Ties leave both at zero.
func ComputeOwedMatrix(balances []Balance) OwedMatrix {
	m := OwedMatrix{
		Names: make([]string, len(balances)),
		cells: make([][]decimal.Decimal, len(balances)),
	}
	for i, payer := range balances {
		m.Names[i] = payer.Participant
		m.cells[i] = make([]decimal.Decimal, len(balances))
		for j, receiver := range balances {
			if i == j {
				continue
			}
			diff := payer.Amount.Sub(receiver.Amount)
			if diff.IsNegative() {
				diff = decimal.Zero
			}
			m.cells[i][j] = diff
		}
	}
	return m
}

// Amount returns the (payer, receiver) entry. ok is false on the diagonal
// or when either name is not in the matrix.
func (m OwedMatrix) Amount(payer, receiver string) (amount decimal.Decimal, ok bool) {
	i, j := m.indexOf(payer), m.indexOf(receiver)
	if i < 0 || j < 0 || i == j {
		return decimal.Zero, false
	}
	return m.cells[i][j], true
}

// Cells lists every off-diagonal entry in row-major order.
func (m OwedMatrix) Cells() []MatrixCell {
	var out []MatrixCell
	for i, payer := range m.Names {
		for j, receiver := range m.Names {
			if i == j {
				continue
			}
			out = append(out, MatrixCell{Payer: payer, Receiver: receiver, Amount: m.cells[i][j]})
		}
	}
	return out
}

func (m OwedMatrix) indexOf(name string) int {
	for i, n := range m.Names {
		if n == name {
			return i
		}
	}
	return -1
}

// SettleUp suggests transfers that clear the balances.
//
// Algorithm:
// - Debtors have a positive balance, creditors a negative one
// - Both lists are sorted largest amount first (ties keep balance order)
// - Greedy matching: the current debtor pays the current creditor the smaller
//   of the two outstanding amounts, then whoever is settled moves on
// - Residues under one cent are dropped as rounding noise
func SettleUp(balances []Balance) []Transfer {
	type party struct {
		name   string
		amount decimal.Decimal
	}

	var debtors, creditors []party
	for _, b := range balances {
		switch {
		case b.Amount.GreaterThanOrEqual(settleThreshold):
			debtors = append(debtors, party{b.Participant, b.Amount})
		case b.Amount.Neg().GreaterThanOrEqual(settleThreshold):
			creditors = append(creditors, party{b.Participant, b.Amount.Neg()})
		}
	}
	sort.SliceStable(debtors, func(i, j int) bool { return debtors[i].amount.GreaterThan(debtors[j].amount) })
	sort.SliceStable(creditors, func(i, j int) bool { return creditors[i].amount.GreaterThan(creditors[j].amount) })

	var transfers []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := decimal.Min(debtors[i].amount, creditors[j].amount)
		if amount.GreaterThanOrEqual(settleThreshold) {
			transfers = append(transfers, Transfer{
				From:   debtors[i].name,
				To:     creditors[j].name,
				Amount: amount,
			})
		}

		debtors[i].amount = debtors[i].amount.Sub(amount)
		creditors[j].amount = creditors[j].amount.Sub(amount)

		if debtors[i].amount.LessThan(settleThreshold) {
			i++
		}
		if creditors[j].amount.LessThan(settleThreshold) {
			j++
		}
	}

	return transfers
}
