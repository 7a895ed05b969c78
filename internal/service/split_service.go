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

// SplitService serves the group expense pages.
type SplitService struct {
	runner
	metrics *metrics.Metrics
}

// NewSplitService creates a SplitService over the given session store.
func NewSplitService(store session.Store, dispatcher *shell.Dispatcher, m *metrics.Metrics) *SplitService {
	return &SplitService{runner: runner{store: store, dispatcher: dispatcher}, metrics: m}
}

// AddGroupExpense splits an expense equally and records it.
func (s *SplitService) AddGroupExpense(ctx context.Context, req *connect.Request[AddGroupExpenseRequest]) (*connect.Response[AddGroupExpenseResponse], error) {
	slog.Debug("AddGroupExpense request",
		"description", req.Msg.Description,
		"total", req.Msg.Total,
		"participants", req.Msg.Participants,
		"paid_count", len(req.Msg.Paid),
	)

	view, err := s.run(ctx, shell.Command{Route: shell.RouteAddGroupExpense, GroupExpense: &req.Msg.GroupExpenseForm})
	if err != nil {
		if reason := rejectReason(err); reason != "" {
			s.metrics.GroupRejected.WithLabelValues(reason).Inc()
		}
		slog.Warn("AddGroupExpense rejected",
			"session_id", middleware.GetSessionID(ctx),
			"description", req.Msg.Description,
			"error", err,
		)
		return nil, toConnectError(err)
	}

	created := view.(shell.GroupExpenseView)
	s.metrics.ExpensesAdded.WithLabelValues("group").Inc()
	slog.Info("Group expense added",
		"session_id", middleware.GetSessionID(ctx),
		"expense_id", created.ID,
		"participants", len(created.Participants),
		"share", created.Share,
	)
	return connect.NewResponse(&AddGroupExpenseResponse{GroupExpenseView: created}), nil
}

// GetBalances returns the exploded group ledger, per-participant balances
// and suggested settlement transfers.
func (s *SplitService) GetBalances(ctx context.Context, req *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error) {
	view, err := s.run(ctx, shell.Command{Route: shell.RouteBalances})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&GetBalancesResponse{BalancesView: view.(shell.BalancesView)}), nil
}

// VisualizeSplits returns the paid bar chart and the owed heatmap.
func (s *SplitService) VisualizeSplits(ctx context.Context, req *connect.Request[VisualizeSplitsRequest]) (*connect.Response[VisualizeSplitsResponse], error) {
	view, err := s.run(ctx, shell.Command{Route: shell.RouteVisualizeSplits})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&VisualizeSplitsResponse{SplitChartsView: view.(shell.SplitChartsView)}), nil
}
