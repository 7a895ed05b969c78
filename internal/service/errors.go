package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/session"
	"github.com/mmynk/splitledger/internal/shell"
)

// Error metadata keys set on rejected group expenses.
const (
	PaidSumKey       = "Paid-Sum"
	ExpectedTotalKey = "Expected-Total"
)

// toConnectError maps domain errors onto Connect codes.
func toConnectError(err error) *connect.Error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	var verr *calculator.ValidationError
	switch {
	case errors.As(err, &verr):
		ce := connect.NewError(connect.CodeInvalidArgument, err)
		ce.Meta().Set(PaidSumKey, verr.Paid.StringFixed(2))
		ce.Meta().Set(ExpectedTotalKey, verr.Total.StringFixed(2))
		return ce
	case errors.Is(err, shell.ErrInvalidForm),
		errors.Is(err, calculator.ErrNoParticipants),
		errors.Is(err, calculator.ErrLengthMismatch),
		errors.Is(err, calculator.ErrNegativeAmount):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, session.ErrMissingToken),
		errors.Is(err, session.ErrInvalidToken):
		return connect.NewError(connect.CodeUnauthenticated, err)
	case errors.Is(err, session.ErrSessionNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, shell.ErrUnknownRoute):
		return connect.NewError(connect.CodeUnimplemented, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// rejectReason labels a rejected group expense for metrics.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, calculator.ErrPaidMismatch):
		return "paid_mismatch"
	case errors.Is(err, calculator.ErrNoParticipants):
		return "no_participants"
	case errors.Is(err, calculator.ErrLengthMismatch):
		return "length_mismatch"
	case errors.Is(err, calculator.ErrNegativeAmount):
		return "negative_amount"
	case errors.Is(err, shell.ErrInvalidForm):
		return "invalid_form"
	default:
		return ""
	}
}
