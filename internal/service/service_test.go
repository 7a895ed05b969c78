package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/session"
	"github.com/mmynk/splitledger/internal/shell"
)

type testServer struct {
	url      string
	store    *session.MemoryStore
	metrics  *metrics.Metrics
	sessions *SessionServiceClient
	ledger   *LedgerServiceClient
	split    *SplitServiceClient
}

// setupTestServer wires every service behind an httptest server the same
// way the binary does.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	store := session.NewMemoryStore(100, time.Hour)
	tokens, err := session.NewTokens("test-secret", time.Hour)
	require.NoError(t, err)
	m := metrics.New(prometheus.NewRegistry(), store.Size)
	dispatcher := shell.NewDispatcher(calculator.NameStrict)

	open := connect.WithInterceptors(middleware.MetricsInterceptor(m), middleware.LoggingInterceptor())
	guarded := connect.WithInterceptors(
		middleware.MetricsInterceptor(m),
		middleware.RequireSession(tokens),
		middleware.LoggingInterceptor(),
	)

	mux := http.NewServeMux()
	mux.Handle(NewSessionServiceHandler(NewSessionService(store, tokens, time.Hour, m), open))
	mux.Handle(NewLedgerServiceHandler(NewLedgerService(store, dispatcher, m), guarded))
	mux.Handle(NewSplitServiceHandler(NewSplitService(store, dispatcher, m), guarded))
	NewExportHandler(store, tokens).Register(mux)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testServer{
		url:      server.URL,
		store:    store,
		metrics:  m,
		sessions: NewSessionServiceClient(http.DefaultClient, server.URL),
		ledger:   NewLedgerServiceClient(http.DefaultClient, server.URL),
		split:    NewSplitServiceClient(http.DefaultClient, server.URL),
	}
}

func (s *testServer) startSession(t *testing.T) string {
	t.Helper()
	resp, err := s.sessions.StartSession(context.Background(), connect.NewRequest(&StartSessionRequest{}))
	require.NoError(t, err)
	require.NotEmpty(t, resp.Msg.Token)
	return resp.Msg.Token
}

func authed[T any](token string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(t *testing.T, s string) models.Date {
	t.Helper()
	parsed, err := models.ParseDate(s)
	require.NoError(t, err)
	return parsed
}

func TestStartSession(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := ts.sessions.StartSession(context.Background(), connect.NewRequest(&StartSessionRequest{}))
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Msg.SessionID)
	assert.NotEmpty(t, resp.Msg.Token)
	assert.Equal(t, int64(3600), resp.Msg.ExpiresIn)
	assert.Equal(t, 1, ts.store.Size())
	assert.Equal(t, 1.0, testutil.ToFloat64(ts.metrics.SessionsStarted))
}

func TestLedger_RequiresToken(t *testing.T) {
	ts := setupTestServer(t)

	_, err := ts.ledger.Home(context.Background(), connect.NewRequest(&HomeRequest{}))
	require.Error(t, err)
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

	_, err = ts.split.GetBalances(context.Background(), authed("not-a-token", &GetBalancesRequest{}))
	require.Error(t, err)
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
}

func TestLedger_EndedSessionIsNotFound(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.startSession(t)

	_, err := ts.sessions.EndSession(context.Background(), authed(token, &EndSessionRequest{}))
	require.NoError(t, err)
	assert.Equal(t, 0, ts.store.Size())

	_, err = ts.ledger.Home(context.Background(), authed(token, &HomeRequest{}))
	require.Error(t, err)
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
}

func TestLedger_PersonalFlow(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.startSession(t)
	ctx := context.Background()

	home, err := ts.ledger.Home(ctx, authed(token, &HomeRequest{}))
	require.NoError(t, err)
	assert.Nil(t, home.Msg.Summary, "empty ledger has no summary")
	assert.Len(t, home.Msg.Categories, len(models.Categories))

	added, err := ts.ledger.AddExpense(ctx, authed(token, &AddExpenseRequest{shell.ExpenseForm{
		Date: date(t, "2024-03-01"), Category: "Food", Amount: d("50.00"),
	}}))
	require.NoError(t, err)
	assert.Equal(t, 1, added.Msg.Count)
	assert.NotEmpty(t, added.Msg.Entry.ID)
	assert.Equal(t, models.CategoryFood, added.Msg.Entry.Category)

	_, err = ts.ledger.AddExpense(ctx, authed(token, &AddExpenseRequest{shell.ExpenseForm{
		Date: date(t, "2024-03-10"), Category: "Rent", Amount: d("800"),
	}}))
	require.NoError(t, err)

	home, err = ts.ledger.Home(ctx, authed(token, &HomeRequest{}))
	require.NoError(t, err)
	require.NotNil(t, home.Msg.Summary)
	assert.Equal(t, 2, home.Msg.Summary.Count)
	assert.True(t, home.Msg.Summary.Total.Equal(d("850")))
	assert.True(t, home.Msg.Summary.Mean.Equal(d("425")))

	list, err := ts.ledger.ListExpenses(ctx, authed(token, &ListExpensesRequest{shell.RangeForm{
		Start: date(t, "2024-03-05"), End: date(t, "2024-03-31"),
	}}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Entries, 1)
	assert.Equal(t, models.CategoryRent, list.Msg.Entries[0].Category)

	charts, err := ts.ledger.VisualizeExpenses(ctx, authed(token, &VisualizeExpensesRequest{}))
	require.NoError(t, err)
	assert.False(t, charts.Msg.NoData)
	assert.Len(t, charts.Msg.ByCategory.Slices, 2)

	assert.Equal(t, 2.0, testutil.ToFloat64(ts.metrics.ExpensesAdded.WithLabelValues("personal")))
}

func TestLedger_InvalidExpense(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.startSession(t)

	_, err := ts.ledger.AddExpense(context.Background(), authed(token, &AddExpenseRequest{shell.ExpenseForm{
		Category: "Groceries", Amount: d("5"),
	}}))
	require.Error(t, err)
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}

func TestLedger_SessionsAreIsolated(t *testing.T) {
	ts := setupTestServer(t)
	first, second := ts.startSession(t), ts.startSession(t)

	_, err := ts.ledger.AddExpense(context.Background(), authed(first, &AddExpenseRequest{shell.ExpenseForm{
		Category: "Transport", Amount: d("12"),
	}}))
	require.NoError(t, err)

	home, err := ts.ledger.Home(context.Background(), authed(second, &HomeRequest{}))
	require.NoError(t, err)
	assert.Nil(t, home.Msg.Summary)
}

func TestSplit_DinnerScenario(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.startSession(t)
	ctx := context.Background()

	created, err := ts.split.AddGroupExpense(ctx, authed(token, &AddGroupExpenseRequest{shell.GroupExpenseForm{
		Description:  "Dinner",
		Total:        d("90.00"),
		Participants: "A, B ,C",
		Paid:         []decimal.Decimal{d("90.00"), d("0"), d("0")},
	}}))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, created.Msg.Participants)
	assert.True(t, created.Msg.Share.Equal(d("30")))
	require.Len(t, created.Msg.Owed, 3)
	assert.True(t, created.Msg.Owed[0].Equal(d("-60")))
	assert.True(t, created.Msg.Owed[1].Equal(d("30")))

	balances, err := ts.split.GetBalances(ctx, authed(token, &GetBalancesRequest{}))
	require.NoError(t, err)
	assert.False(t, balances.Msg.NoData)
	assert.Len(t, balances.Msg.Rows, 3)
	require.Len(t, balances.Msg.Balances, 3)
	assert.True(t, balances.Msg.Balances[0].Amount.Equal(d("-60")))
	require.Len(t, balances.Msg.Transfers, 2)
	assert.Equal(t, "A", balances.Msg.Transfers[0].To)

	charts, err := ts.split.VisualizeSplits(ctx, authed(token, &VisualizeSplitsRequest{}))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, charts.Msg.Owed.Rows)
	assert.False(t, charts.Msg.Owed.Cells[0][0].Valid)
	assert.True(t, charts.Msg.Owed.Cells[1][0].Decimal.Equal(d("90")), "B owes A 90")

	assert.Equal(t, 1.0, testutil.ToFloat64(ts.metrics.ExpensesAdded.WithLabelValues("group")))
}

func TestSplit_RejectedExpenseCarriesSums(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.startSession(t)
	ctx := context.Background()

	_, err := ts.split.AddGroupExpense(ctx, authed(token, &AddGroupExpenseRequest{shell.GroupExpenseForm{
		Description:  "Lunch",
		Total:        d("40.00"),
		Participants: "A,B",
		Paid:         []decimal.Decimal{d("10.00"), d("10.00")},
	}}))
	require.Error(t, err)

	var connectErr *connect.Error
	require.True(t, errors.As(err, &connectErr))
	assert.Equal(t, connect.CodeInvalidArgument, connectErr.Code())
	assert.Equal(t, "20.00", connectErr.Meta().Get(PaidSumKey))
	assert.Equal(t, "40.00", connectErr.Meta().Get(ExpectedTotalKey))
	assert.Contains(t, connectErr.Message(), "does not match the total amount")

	balances, err := ts.split.GetBalances(ctx, authed(token, &GetBalancesRequest{}))
	require.NoError(t, err)
	assert.True(t, balances.Msg.NoData, "rejected expense must not be recorded")

	assert.Equal(t, 1.0, testutil.ToFloat64(ts.metrics.GroupRejected.WithLabelValues("paid_mismatch")))
}

func TestSplit_NoParticipants(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.startSession(t)

	_, err := ts.split.AddGroupExpense(context.Background(), authed(token, &AddGroupExpenseRequest{shell.GroupExpenseForm{
		Description: "Nothing", Total: d("0"), Participants: " , ",
	}}))
	require.Error(t, err)
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
	assert.Equal(t, 1.0, testutil.ToFloat64(ts.metrics.GroupRejected.WithLabelValues("no_participants")))
}

func TestExport(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.startSession(t)
	ctx := context.Background()

	_, err := ts.ledger.AddExpense(ctx, authed(token, &AddExpenseRequest{shell.ExpenseForm{
		Date: date(t, "2024-03-01"), Category: "Food", Amount: d("50"),
	}}))
	require.NoError(t, err)
	_, err = ts.split.AddGroupExpense(ctx, authed(token, &AddGroupExpenseRequest{shell.GroupExpenseForm{
		Description: "Taxi", Total: d("20"), Participants: "B,C", Paid: []decimal.Decimal{d("0"), d("20")},
	}}))
	require.NoError(t, err)

	get := func(path string, header string) (*http.Response, string) {
		req, err := http.NewRequest(http.MethodGet, ts.url+path, nil)
		require.NoError(t, err)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp, string(body)
	}

	resp, body := get(PersonalExportPath, "Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, "Date,Category,Amount,Note\n2024-03-01,Food,50,\n", body)

	_, body = get(PersonalExportPath+"?start=2024-04-01&session="+token, "")
	assert.Equal(t, "Date,Category,Amount,Note\n", body)

	_, body = get(GroupExportPath+"?session="+token, "")
	assert.Equal(t, "Description,Total,Participant,Paid,Owed\nTaxi,20,B,0,10\nTaxi,20,C,20,-10\n", body)

	resp, _ = get(PersonalExportPath, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = get(PersonalExportPath+"?end=tomorrow", "Bearer "+token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
