package service

import (
	"github.com/mmynk/splitledger/internal/shell"
)

// StartSessionRequest opens a new, empty session.
type StartSessionRequest struct{}

// StartSessionResponse carries the token to send on every later call.
type StartSessionResponse struct {
	SessionID string `json:"session_id"`
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"` // Idle seconds before the session is dropped
}

// EndSessionRequest drops the session named by the bearer token.
type EndSessionRequest struct{}

type EndSessionResponse struct{}

// HomeRequest loads the landing page. QuickAdd records an expense first.
type HomeRequest struct {
	QuickAdd *shell.ExpenseForm `json:"quick_add,omitempty"`
}

type HomeResponse struct {
	shell.HomeView
}

type AddExpenseRequest struct {
	shell.ExpenseForm
}

type AddExpenseResponse struct {
	shell.ExpenseAddedView
}

type ListExpensesRequest struct {
	shell.RangeForm
}

type ListExpensesResponse struct {
	shell.ExpenseListView
}

type VisualizeExpensesRequest struct {
	shell.VisualizeForm
}

type VisualizeExpensesResponse struct {
	shell.ExpenseChartsView
}

type AddGroupExpenseRequest struct {
	shell.GroupExpenseForm
}

type AddGroupExpenseResponse struct {
	shell.GroupExpenseView
}

type GetBalancesRequest struct{}

type GetBalancesResponse struct {
	shell.BalancesView
}

type VisualizeSplitsRequest struct{}

type VisualizeSplitsResponse struct {
	shell.SplitChartsView
}
