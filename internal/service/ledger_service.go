package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/session"
	"github.com/mmynk/splitledger/internal/shell"
)

// LedgerService serves the personal expense pages.
type LedgerService struct {
	runner
	metrics *metrics.Metrics
}

// NewLedgerService creates a LedgerService over the given session store.
func NewLedgerService(store session.Store, dispatcher *shell.Dispatcher, m *metrics.Metrics) *LedgerService {
	return &LedgerService{runner: runner{store: store, dispatcher: dispatcher}, metrics: m}
}

// Home returns the summary and recent entries, recording a quick-add expense first if one is sent.
func (s *LedgerService) Home(ctx context.Context, req *connect.Request[HomeRequest]) (*connect.Response[HomeResponse], error) {
	view, err := s.run(ctx, shell.Command{Route: shell.RouteHome, Expense: req.Msg.QuickAdd})
	if err != nil {
		slog.Warn("Home failed", "session_id", middleware.GetSessionID(ctx), "error", err)
		return nil, toConnectError(err)
	}

	home := view.(shell.HomeView)
	if home.Added != nil {
		s.metrics.ExpensesAdded.WithLabelValues("personal").Inc()
	}
	return connect.NewResponse(&HomeResponse{HomeView: home}), nil
}

// AddExpense records one personal expense.
func (s *LedgerService) AddExpense(ctx context.Context, req *connect.Request[AddExpenseRequest]) (*connect.Response[AddExpenseResponse], error) {
	slog.Debug("AddExpense request",
		"category", req.Msg.Category,
		"amount", req.Msg.Amount,
		"date", req.Msg.Date.String(),
	)

	view, err := s.run(ctx, shell.Command{Route: shell.RouteAddExpense, Expense: &req.Msg.ExpenseForm})
	if err != nil {
		slog.Warn("AddExpense rejected", "session_id", middleware.GetSessionID(ctx), "error", err)
		return nil, toConnectError(err)
	}

	added := view.(shell.ExpenseAddedView)
	s.metrics.ExpensesAdded.WithLabelValues("personal").Inc()
	slog.Info("Expense added",
		"session_id", middleware.GetSessionID(ctx),
		"expense_id", added.Entry.ID,
		"count", added.Count,
	)
	return connect.NewResponse(&AddExpenseResponse{ExpenseAddedView: added}), nil
}

// ListExpenses returns the entries within a date window.
func (s *LedgerService) ListExpenses(ctx context.Context, req *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
	view, err := s.run(ctx, shell.Command{Route: shell.RouteViewExpenses, Range: &req.Msg.RangeForm})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ListExpensesResponse{ExpenseListView: view.(shell.ExpenseListView)}), nil
}

// VisualizeExpenses returns the spending charts for the selected categories.
func (s *LedgerService) VisualizeExpenses(ctx context.Context, req *connect.Request[VisualizeExpensesRequest]) (*connect.Response[VisualizeExpensesResponse], error) {
	view, err := s.run(ctx, shell.Command{Route: shell.RouteVisualizeExpenses, Visualize: &req.Msg.VisualizeForm})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&VisualizeExpensesResponse{ExpenseChartsView: view.(shell.ExpenseChartsView)}), nil
}
