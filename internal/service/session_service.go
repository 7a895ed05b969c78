package service

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/session"
)

// SessionService hands out session tokens. It is the only service reachable
// without one.
type SessionService struct {
	store   session.Store
	tokens  *session.Tokens
	ttl     time.Duration
	metrics *metrics.Metrics
}

// NewSessionService creates a SessionService. ttl is reported to clients as
// the idle lifetime of a session.
func NewSessionService(store session.Store, tokens *session.Tokens, ttl time.Duration, m *metrics.Metrics) *SessionService {
	return &SessionService{store: store, tokens: tokens, ttl: ttl, metrics: m}
}

// StartSession creates an empty session and returns its token.
func (s *SessionService) StartSession(ctx context.Context, req *connect.Request[StartSessionRequest]) (*connect.Response[StartSessionResponse], error) {
	id, err := s.store.Create(ctx)
	if err != nil {
		slog.Error("Failed to create session", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	token, err := s.tokens.Issue(id)
	if err != nil {
		slog.Error("Failed to issue session token", "session_id", id, "error", err)
		_ = s.store.Delete(ctx, id)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.metrics.SessionsStarted.Inc()
	slog.Info("Session started", "session_id", id)

	return connect.NewResponse(&StartSessionResponse{
		SessionID: id,
		Token:     token,
		ExpiresIn: int64(s.ttl.Seconds()),
	}), nil
}

// EndSession drops the caller's session and everything recorded in it.
func (s *SessionService) EndSession(ctx context.Context, req *connect.Request[EndSessionRequest]) (*connect.Response[EndSessionResponse], error) {
	header := req.Header().Get("Authorization")
	if header == "" {
		return nil, toConnectError(session.ErrMissingToken)
	}

	id, err := s.tokens.Validate(middleware.BearerToken(header))
	if err != nil {
		return nil, toConnectError(err)
	}

	if err := s.store.Delete(ctx, id); err != nil {
		slog.Error("Failed to end session", "session_id", id, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Session ended", "session_id", id)
	return connect.NewResponse(&EndSessionResponse{}), nil
}
