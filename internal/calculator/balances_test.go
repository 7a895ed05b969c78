package calculator

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/models"
)

func expense(t *testing.T, description, total string, participants []string, paid ...string) models.GroupExpense {
	t.Helper()
	split, err := SplitEqually(d(total), participants, decimals(paid...))
	require.NoError(t, err)
	return models.NewGroupExpense(description, description, d(total), split.Share, participants, decimals(paid...), split.Owed, 0)
}

func balanceMap(bs []Balance) map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(bs))
	for _, b := range bs {
		m[b.Participant] = b.Amount
	}
	return m
}

func TestExplode(t *testing.T) {
	expenses := []models.GroupExpense{
		expense(t, "Dinner", "90", []string{"A", "B", "C"}, "90", "0", "0"),
		expense(t, "Taxi", "20", []string{"B", "C"}, "0", "20"),
	}

	rows := Explode(expenses)

	require.Len(t, rows, 5)
	assert.Equal(t, "Dinner", rows[0].Description)
	assert.Equal(t, "A", rows[0].Participant)
	assert.True(t, rows[0].Owed.Equal(d("-60")))
	assert.Equal(t, "Taxi", rows[4].Description)
	assert.Equal(t, "C", rows[4].Participant)
	assert.True(t, rows[4].Paid.Equal(d("20")))
	assert.True(t, rows[4].Owed.Equal(d("-10")))
	assert.Empty(t, Explode(nil))
}

func TestComputeBalances_SingleDinner(t *testing.T) {
	rows := Explode([]models.GroupExpense{
		expense(t, "Dinner", "90.00", []string{"A", "B", "C"}, "90.00", "0", "0"),
	})

	balances := ComputeBalances(rows, NameStrict)

	require.Len(t, balances, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{balances[0].Participant, balances[1].Participant, balances[2].Participant})
	assert.True(t, balances[0].Amount.Equal(d("-60")))
	assert.True(t, balances[1].Amount.Equal(d("30")))
	assert.True(t, balances[2].Amount.Equal(d("30")))

	m := ComputeOwedMatrix(balances)
	want := map[[2]string]string{
		{"B", "A"}: "90", {"C", "A"}: "90",
		{"A", "B"}: "0", {"A", "C"}: "0", {"B", "C"}: "0", {"C", "B"}: "0",
	}
	for pair, amount := range want {
		got, ok := m.Amount(pair[0], pair[1])
		require.True(t, ok, "%v missing", pair)
		assert.True(t, got.Equal(d(amount)), "%v = %s, want %s", pair, got, amount)
	}
	_, ok := m.Amount("A", "A")
	assert.False(t, ok, "diagonal must be absent")
	assert.Len(t, m.Cells(), 6)
}

func TestComputeBalances_AccumulatesAcrossExpenses(t *testing.T) {
	rows := Explode([]models.GroupExpense{
		expense(t, "Dinner", "90", []string{"A", "B", "C"}, "90", "0", "0"),
		expense(t, "Taxi", "20", []string{"B", "C"}, "0", "20"),
	})

	got := balanceMap(ComputeBalances(rows, NameStrict))

	assert.True(t, got["A"].Equal(d("-60")))
	assert.True(t, got["B"].Equal(d("40")))
	assert.True(t, got["C"].Equal(d("20")))
}

func TestComputeBalances_NamePolicy(t *testing.T) {
	rows := Explode([]models.GroupExpense{
		expense(t, "Lunch", "20", []string{"Alice", "Bob"}, "20", "0"),
		expense(t, "Coffee", "10", []string{"alice", "Bob"}, "0", "10"),
	})

	strict := ComputeBalances(rows, NameStrict)
	assert.Len(t, strict, 3)

	folded := ComputeBalances(rows, NameCaseFold)
	require.Len(t, folded, 2)
	assert.Equal(t, "Alice", folded[0].Participant, "first spelling is kept for display")
	assert.True(t, folded[0].Amount.Equal(d("-5")))
	assert.True(t, folded[1].Amount.Equal(d("5")))
}

func TestComputeBalances_OrderIndependent(t *testing.T) {
	expenses := []models.GroupExpense{
		expense(t, "Dinner", "90", []string{"A", "B", "C"}, "90", "0", "0"),
		expense(t, "Taxi", "20", []string{"B", "C"}, "0", "20"),
		expense(t, "Museum", "45", []string{"C", "D", "A"}, "15", "15", "15"),
		expense(t, "Snacks", "7.50", []string{"D", "B"}, "2.50", "5.00"),
	}
	want := balanceMap(ComputeBalances(Explode(expenses), NameStrict))

	rng := rand.New(rand.NewSource(7))
	for n := 0; n < 20; n++ {
		shuffled := append([]models.GroupExpense(nil), expenses...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got := balanceMap(ComputeBalances(Explode(shuffled), NameStrict))
		require.Len(t, got, len(want))
		for name, amount := range want {
			assert.True(t, got[name].Equal(amount), "%s: %s != %s", name, got[name], amount)
		}
	}
}

func TestComputeOwedMatrix_Properties(t *testing.T) {
	balances := []Balance{
		{"A", d("-60")}, {"B", d("40")}, {"C", d("20")}, {"D", d("0")}, {"E", d("0")},
	}
	m := ComputeOwedMatrix(balances)

	for _, a := range m.Names {
		for _, b := range m.Names {
			if a == b {
				continue
			}
			ab, _ := m.Amount(a, b)
			ba, _ := m.Amount(b, a)
			assert.False(t, ab.IsNegative(), "(%s,%s) negative", a, b)
			assert.False(t, ab.IsPositive() && ba.IsPositive(), "(%s,%s) both positive", a, b)
		}
	}
	de, _ := m.Amount("D", "E")
	ed, _ := m.Amount("E", "D")
	assert.True(t, de.IsZero() && ed.IsZero(), "ties leave both zero")
	assert.Empty(t, ComputeOwedMatrix(nil).Cells())
}

func TestTotalPaid(t *testing.T) {
	rows := Explode([]models.GroupExpense{
		expense(t, "Dinner", "90", []string{"A", "B", "C"}, "90", "0", "0"),
		expense(t, "Taxi", "20", []string{"B", "C"}, "5", "15"),
	})

	got := balanceMap(TotalPaid(rows, NameStrict))

	assert.True(t, got["A"].Equal(d("90")))
	assert.True(t, got["B"].Equal(d("5")))
	assert.True(t, got["C"].Equal(d("15")))
}

func TestSettleUp(t *testing.T) {
	tests := []struct {
		name     string
		balances []Balance
		want     []Transfer
	}{
		{
			name:     "two debtors one creditor",
			balances: []Balance{{"A", d("-60")}, {"B", d("30")}, {"C", d("30")}},
			want: []Transfer{
				{From: "B", To: "A", Amount: d("30")},
				{From: "C", To: "A", Amount: d("30")},
			},
		},
		{
			name:     "largest first",
			balances: []Balance{{"A", d("10")}, {"B", d("-25")}, {"C", d("15")}, {"D", d("-0")}},
			want: []Transfer{
				{From: "C", To: "B", Amount: d("15")},
				{From: "A", To: "B", Amount: d("10")},
			},
		},
		{
			name:     "rounding noise ignored",
			balances: []Balance{{"A", d("0.001")}, {"B", d("-0.001")}},
			want:     nil,
		},
		{
			name:     "empty",
			balances: nil,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SettleUp(tt.balances)
			require.Len(t, got, len(tt.want), fmt.Sprint(got))
			for i := range tt.want {
				assert.Equal(t, tt.want[i].From, got[i].From)
				assert.Equal(t, tt.want[i].To, got[i].To)
				assert.True(t, tt.want[i].Amount.Equal(got[i].Amount), "amount %s != %s", got[i].Amount, tt.want[i].Amount)
			}
		})
	}
}
