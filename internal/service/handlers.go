package service

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const (
	SessionServiceName = "splitledger.v1.SessionService"
	LedgerServiceName  = "splitledger.v1.LedgerService"
	SplitServiceName   = "splitledger.v1.SplitService"
)

// Fully-qualified procedure names, as they appear in the URL path.
const (
	SessionServiceStartSessionProcedure     = "/" + SessionServiceName + "/StartSession"
	SessionServiceEndSessionProcedure       = "/" + SessionServiceName + "/EndSession"
	LedgerServiceHomeProcedure              = "/" + LedgerServiceName + "/Home"
	LedgerServiceAddExpenseProcedure        = "/" + LedgerServiceName + "/AddExpense"
	LedgerServiceListExpensesProcedure      = "/" + LedgerServiceName + "/ListExpenses"
	LedgerServiceVisualizeExpensesProcedure = "/" + LedgerServiceName + "/VisualizeExpenses"
	SplitServiceAddGroupExpenseProcedure    = "/" + SplitServiceName + "/AddGroupExpense"
	SplitServiceGetBalancesProcedure        = "/" + SplitServiceName + "/GetBalances"
	SplitServiceVisualizeSplitsProcedure    = "/" + SplitServiceName + "/VisualizeSplits"
)

// SessionServiceHandler is implemented by SessionService.
type SessionServiceHandler interface {
	StartSession(context.Context, *connect.Request[StartSessionRequest]) (*connect.Response[StartSessionResponse], error)
	EndSession(context.Context, *connect.Request[EndSessionRequest]) (*connect.Response[EndSessionResponse], error)
}

// LedgerServiceHandler is implemented by LedgerService.
type LedgerServiceHandler interface {
	Home(context.Context, *connect.Request[HomeRequest]) (*connect.Response[HomeResponse], error)
	AddExpense(context.Context, *connect.Request[AddExpenseRequest]) (*connect.Response[AddExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error)
	VisualizeExpenses(context.Context, *connect.Request[VisualizeExpensesRequest]) (*connect.Response[VisualizeExpensesResponse], error)
}

// SplitServiceHandler is implemented by SplitService.
type SplitServiceHandler interface {
	AddGroupExpense(context.Context, *connect.Request[AddGroupExpenseRequest]) (*connect.Response[AddGroupExpenseResponse], error)
	GetBalances(context.Context, *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error)
	VisualizeSplits(context.Context, *connect.Request[VisualizeSplitsRequest]) (*connect.Response[VisualizeSplitsResponse], error)
}

// NewSessionServiceHandler builds an HTTP handler for the session service and
// returns the path to mount it on.
func NewSessionServiceHandler(svc SessionServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withJSONCodec(opts)
	start := connect.NewUnaryHandler(SessionServiceStartSessionProcedure, svc.StartSession, opts...)
	end := connect.NewUnaryHandler(SessionServiceEndSessionProcedure, svc.EndSession, opts...)

	return "/" + SessionServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SessionServiceStartSessionProcedure:
			start.ServeHTTP(w, r)
		case SessionServiceEndSessionProcedure:
			end.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// NewLedgerServiceHandler builds an HTTP handler for the personal ledger service.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withJSONCodec(opts)
	home := connect.NewUnaryHandler(LedgerServiceHomeProcedure, svc.Home, opts...)
	add := connect.NewUnaryHandler(LedgerServiceAddExpenseProcedure, svc.AddExpense, opts...)
	list := connect.NewUnaryHandler(LedgerServiceListExpensesProcedure, svc.ListExpenses, opts...)
	visualize := connect.NewUnaryHandler(LedgerServiceVisualizeExpensesProcedure, svc.VisualizeExpenses, opts...)

	return "/" + LedgerServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case LedgerServiceHomeProcedure:
			home.ServeHTTP(w, r)
		case LedgerServiceAddExpenseProcedure:
			add.ServeHTTP(w, r)
		case LedgerServiceListExpensesProcedure:
			list.ServeHTTP(w, r)
		case LedgerServiceVisualizeExpensesProcedure:
			visualize.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// NewSplitServiceHandler builds an HTTP handler for the group split service.
func NewSplitServiceHandler(svc SplitServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withJSONCodec(opts)
	add := connect.NewUnaryHandler(SplitServiceAddGroupExpenseProcedure, svc.AddGroupExpense, opts...)
	balances := connect.NewUnaryHandler(SplitServiceGetBalancesProcedure, svc.GetBalances, opts...)
	visualize := connect.NewUnaryHandler(SplitServiceVisualizeSplitsProcedure, svc.VisualizeSplits, opts...)

	return "/" + SplitServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case SplitServiceAddGroupExpenseProcedure:
			add.ServeHTTP(w, r)
		case SplitServiceGetBalancesProcedure:
			balances.ServeHTTP(w, r)
		case SplitServiceVisualizeSplitsProcedure:
			visualize.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

func withJSONCodec(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)
}

// SessionServiceClient calls the session service.
type SessionServiceClient struct {
	startSession *connect.Client[StartSessionRequest, StartSessionResponse]
	endSession   *connect.Client[EndSessionRequest, EndSessionResponse]
}

// NewSessionServiceClient creates a client for the server at baseURL.
func NewSessionServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *SessionServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = withClientCodec(opts)
	return &SessionServiceClient{
		startSession: connect.NewClient[StartSessionRequest, StartSessionResponse](httpClient, baseURL+SessionServiceStartSessionProcedure, opts...),
		endSession:   connect.NewClient[EndSessionRequest, EndSessionResponse](httpClient, baseURL+SessionServiceEndSessionProcedure, opts...),
	}
}

func (c *SessionServiceClient) StartSession(ctx context.Context, req *connect.Request[StartSessionRequest]) (*connect.Response[StartSessionResponse], error) {
	return c.startSession.CallUnary(ctx, req)
}

func (c *SessionServiceClient) EndSession(ctx context.Context, req *connect.Request[EndSessionRequest]) (*connect.Response[EndSessionResponse], error) {
	return c.endSession.CallUnary(ctx, req)
}

// LedgerServiceClient calls the personal ledger service.
type LedgerServiceClient struct {
	home              *connect.Client[HomeRequest, HomeResponse]
	addExpense        *connect.Client[AddExpenseRequest, AddExpenseResponse]
	listExpenses      *connect.Client[ListExpensesRequest, ListExpensesResponse]
	visualizeExpenses *connect.Client[VisualizeExpensesRequest, VisualizeExpensesResponse]
}

// NewLedgerServiceClient creates a client for the server at baseURL.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = withClientCodec(opts)
	return &LedgerServiceClient{
		home:              connect.NewClient[HomeRequest, HomeResponse](httpClient, baseURL+LedgerServiceHomeProcedure, opts...),
		addExpense:        connect.NewClient[AddExpenseRequest, AddExpenseResponse](httpClient, baseURL+LedgerServiceAddExpenseProcedure, opts...),
		listExpenses:      connect.NewClient[ListExpensesRequest, ListExpensesResponse](httpClient, baseURL+LedgerServiceListExpensesProcedure, opts...),
		visualizeExpenses: connect.NewClient[VisualizeExpensesRequest, VisualizeExpensesResponse](httpClient, baseURL+LedgerServiceVisualizeExpensesProcedure, opts...),
	}
}

func (c *LedgerServiceClient) Home(ctx context.Context, req *connect.Request[HomeRequest]) (*connect.Response[HomeResponse], error) {
	return c.home.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) AddExpense(ctx context.Context, req *connect.Request[AddExpenseRequest]) (*connect.Response[AddExpenseResponse], error) {
	return c.addExpense.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListExpenses(ctx context.Context, req *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) VisualizeExpenses(ctx context.Context, req *connect.Request[VisualizeExpensesRequest]) (*connect.Response[VisualizeExpensesResponse], error) {
	return c.visualizeExpenses.CallUnary(ctx, req)
}

// SplitServiceClient calls the group split service.
type SplitServiceClient struct {
	addGroupExpense *connect.Client[AddGroupExpenseRequest, AddGroupExpenseResponse]
	getBalances     *connect.Client[GetBalancesRequest, GetBalancesResponse]
	visualizeSplits *connect.Client[VisualizeSplitsRequest, VisualizeSplitsResponse]
}

// NewSplitServiceClient creates a client for the server at baseURL.
func NewSplitServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *SplitServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = withClientCodec(opts)
	return &SplitServiceClient{
		addGroupExpense: connect.NewClient[AddGroupExpenseRequest, AddGroupExpenseResponse](httpClient, baseURL+SplitServiceAddGroupExpenseProcedure, opts...),
		getBalances:     connect.NewClient[GetBalancesRequest, GetBalancesResponse](httpClient, baseURL+SplitServiceGetBalancesProcedure, opts...),
		visualizeSplits: connect.NewClient[VisualizeSplitsRequest, VisualizeSplitsResponse](httpClient, baseURL+SplitServiceVisualizeSplitsProcedure, opts...),
	}
}

func (c *SplitServiceClient) AddGroupExpense(ctx context.Context, req *connect.Request[AddGroupExpenseRequest]) (*connect.Response[AddGroupExpenseResponse], error) {
	return c.addGroupExpense.CallUnary(ctx, req)
}

func (c *SplitServiceClient) GetBalances(ctx context.Context, req *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *SplitServiceClient) VisualizeSplits(ctx context.Context, req *connect.Request[VisualizeSplitsRequest]) (*connect.Response[VisualizeSplitsResponse], error) {
	return c.visualizeSplits.CallUnary(ctx, req)
}

func withClientCodec(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
}
