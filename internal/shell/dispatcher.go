// Package shell routes user actions to the ledgers and builds what the
// presentation layer renders.
//
// Each page of the application is a Route. Dispatch validates the route's
// form, applies it to the session state and returns the new state along
// with a View. Dispatch never renders anything itself.
package shell

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/session"
)

// Route names a page of the application.
type Route string

const (
	RouteHome              Route = "home"
	RouteAddExpense        Route = "personal/add"
	RouteViewExpenses      Route = "personal/view"
	RouteVisualizeExpenses Route = "personal/visualize"
	RouteAddGroupExpense   Route = "group/add"
	RouteBalances          Route = "group/balances"
	RouteVisualizeSplits   Route = "group/visualize"
)

// ErrUnknownRoute is returned by Dispatch for a route with no handler.
var ErrUnknownRoute = errors.New("unknown route")

// RecentLimit is how many entries the home page lists.
const RecentLimit = 5

// Default expense history window, used when the range form is left empty.
var (
	DefaultRangeStart = models.NewDate(2024, time.January, 1)
	DefaultRangeEnd   = models.NewDate(2024, time.December, 31)
)

// Command is one user action: a route plus the form it submits.
// Only the form matching the route is read.
type Command struct {
	Route Route

	Expense      *ExpenseForm      // personal/add, optional quick add on home
	Range        *RangeForm        // personal/view
	Visualize    *VisualizeForm    // personal/visualize
	GroupExpense *GroupExpenseForm // group/add
}

// Handler applies one route's command to the state.
type Handler func(st session.State, cmd Command) (session.State, View, error)

// Dispatcher maps routes to handlers.
type Dispatcher struct {
	routes   map[Route]Handler
	policy   calculator.NamePolicy
	validate *validator.Validate
	now      func() time.Time
}

// NewDispatcher creates a Dispatcher with every route registered.
// policy decides participant identity in balances and charts.
func NewDispatcher(policy calculator.NamePolicy) *Dispatcher {
	d := &Dispatcher{
		policy:   policy,
		validate: newValidator(),
		now:      time.Now,
	}
	d.routes = map[Route]Handler{
		RouteHome:              d.home,
		RouteAddExpense:        d.addExpense,
		RouteViewExpenses:      d.viewExpenses,
		RouteVisualizeExpenses: d.visualizeExpenses,
		RouteAddGroupExpense:   d.addGroupExpense,
		RouteBalances:          d.balances,
		RouteVisualizeSplits:   d.visualizeSplits,
	}
	return d
}

// Dispatch runs the handler for cmd.Route. On error the returned state is
// st unchanged.
func (d *Dispatcher) Dispatch(st session.State, cmd Command) (session.State, View, error) {
	h, ok := d.routes[cmd.Route]
	if !ok {
		return st, nil, fmt.Errorf("%w: %q", ErrUnknownRoute, cmd.Route)
	}
	next, view, err := h(st, cmd)
	if err != nil {
		return st, nil, err
	}
	return next, view, nil
}

// Policy returns the participant name policy in use.
func (d *Dispatcher) Policy() calculator.NamePolicy {
	return d.policy
}

func (d *Dispatcher) home(st session.State, cmd Command) (session.State, View, error) {
	view := HomeView{Categories: models.Categories}
	if cmd.Expense != nil {
		var (
			entry models.PersonalExpense
			err   error
		)
		st, entry, err = d.appendExpense(st, *cmd.Expense)
		if err != nil {
			return st, nil, err
		}
		view.Added = &entry
	}

	if summary := st.Personal.Summary(); !summary.Empty() {
		view.Summary = &summary
	}
	view.Recent = st.Personal.Recent(RecentLimit)
	return st, view, nil
}

func (d *Dispatcher) addExpense(st session.State, cmd Command) (session.State, View, error) {
	if cmd.Expense == nil {
		return st, nil, fmt.Errorf("%w: expense form required", ErrInvalidForm)
	}
	st, entry, err := d.appendExpense(st, *cmd.Expense)
	if err != nil {
		return st, nil, err
	}
	return st, ExpenseAddedView{Entry: entry, Count: st.Personal.Len()}, nil
}

func (d *Dispatcher) appendExpense(st session.State, form ExpenseForm) (session.State, models.PersonalExpense, error) {
	if err := validateForm(d.validate, form); err != nil {
		return st, models.PersonalExpense{}, err
	}
	// Validated above, so the category parses.
	category, _ := models.ParseCategory(form.Category)

	date := form.Date
	if date.IsZero() {
		date = models.DateOf(d.now())
	}

	st.Personal = st.Personal.Append(models.PersonalExpense{
		Date:     date,
		Category: category,
		Amount:   form.Amount,
		Note:     form.Note,
	})
	entries := st.Personal.Entries()
	return st, entries[len(entries)-1], nil
}

func (d *Dispatcher) viewExpenses(st session.State, cmd Command) (session.State, View, error) {
	start, end := DefaultRangeStart, DefaultRangeEnd
	if cmd.Range != nil {
		if !cmd.Range.Start.IsZero() {
			start = cmd.Range.Start
		}
		if !cmd.Range.End.IsZero() {
			end = cmd.Range.End
		}
	}

	entries := st.Personal.FilterByDateRange(start, end)
	return st, ExpenseListView{
		Start:      start,
		End:        end,
		Entries:    entries,
		Exportable: len(entries) > 0,
	}, nil
}

func (d *Dispatcher) visualizeExpenses(st session.State, cmd Command) (session.State, View, error) {
	var selected []models.Category
	if cmd.Visualize != nil {
		if err := validateForm(d.validate, *cmd.Visualize); err != nil {
			return st, nil, err
		}
		for _, name := range cmd.Visualize.Categories {
			c, _ := models.ParseCategory(name)
			selected = append(selected, c)
		}
	}

	all := st.Personal.Entries()
	view := ExpenseChartsView{
		Available: ledger.Categories(all),
		Selected:  selected,
	}

	filtered := ledger.FilterCategories(all, selected)
	if len(filtered) == 0 {
		view.NoData = true
		return st, view, nil
	}

	view.ByCategory = categoryPie(ledger.AggregateByCategory(filtered, nil))
	view.Monthly = monthlyBar(ledger.AggregateByMonth(filtered))
	view.Cumulative = cumulativeLine(ledger.CumulativeOverTime(filtered))
	return st, view, nil
}

func (d *Dispatcher) addGroupExpense(st session.State, cmd Command) (session.State, View, error) {
	if cmd.GroupExpense == nil {
		return st, nil, fmt.Errorf("%w: group expense form required", ErrInvalidForm)
	}
	form := *cmd.GroupExpense
	if err := validateForm(d.validate, form); err != nil {
		return st, nil, err
	}

	participants := calculator.ParseParticipants(form.Participants)
	group, expense, err := st.Group.Create(form.Description, form.Total, participants, form.Paid)
	if err != nil {
		return st, nil, err
	}

	st.Group = group
	return st, newGroupExpenseView(expense), nil
}

func (d *Dispatcher) balances(st session.State, cmd Command) (session.State, View, error) {
	if st.Group.Len() == 0 {
		return st, BalancesView{NoData: true}, nil
	}

	balances := st.Group.Balances(d.policy)
	return st, BalancesView{
		Rows:      st.Group.Rows(),
		Balances:  balances,
		Transfers: calculator.SettleUp(balances),
	}, nil
}

func (d *Dispatcher) visualizeSplits(st session.State, cmd Command) (session.State, View, error) {
	if st.Group.Len() == 0 {
		return st, SplitChartsView{NoData: true}, nil
	}

	rows := st.Group.Rows()
	return st, SplitChartsView{
		Paid: paidBar(calculator.TotalPaid(rows, d.policy)),
		Owed: owedHeatmap(calculator.ComputeOwedMatrix(calculator.ComputeBalances(rows, d.policy))),
	}, nil
}
