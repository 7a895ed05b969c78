package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrNoParticipants = errors.New("must have at least one participant")
	ErrLengthMismatch = errors.New("paid amounts must match participants one to one")
	ErrNegativeAmount = errors.New("amounts cannot be negative")
	ErrPaidMismatch   = errors.New("paid amounts do not sum to the total")
)

// ValidationError reports a group expense whose paid amounts do not add up
// to its declared total. It matches ErrPaidMismatch with errors.Is.
type ValidationError struct {
	Paid  decimal.Decimal
	Total decimal.Decimal
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("total paid (%s) does not match the total amount (%s)",
		e.Paid.StringFixed(2), e.Total.StringFixed(2))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrPaidMismatch
}

// Split is the result of an equal split.
type Split struct {
	// Share is what each participant should carry: total / len(participants).
	Share decimal.Decimal

	// Owed is parallel to the participants: Share − paid[i].
	// Positive means the participant still owes money.
	Owed []decimal.Decimal
}

// SplitEqually divides total equally among participants and works out how
// far each one is from their share given what they paid.
//
// Checks, in order:
//   - at least one participant (the division is never reached otherwise)
//   - one paid amount per participant
//   - no negative total or paid amount
//   - sum(paid) == total, exactly
func SplitEqually(total decimal.Decimal, participants []string, paid []decimal.Decimal) (Split, error) {
	if len(participants) == 0 {
		return Split{}, ErrNoParticipants
	}
	if len(paid) != len(participants) {
		return Split{}, fmt.Errorf("%w: %d participants, %d paid amounts", ErrLengthMismatch, len(participants), len(paid))
	}
	if total.IsNegative() {
		return Split{}, fmt.Errorf("%w: total %s", ErrNegativeAmount, total)
	}

	sum := decimal.Zero
	for i, p := range paid {
		if p.IsNegative() {
			return Split{}, fmt.Errorf("%w: %s paid %s", ErrNegativeAmount, participants[i], p)
		}
		sum = sum.Add(p)
	}
	if !sum.Equal(total) {
		return Split{}, &ValidationError{Paid: sum, Total: total}
	}

	share := total.Div(decimal.NewFromInt(int64(len(participants))))
	owed := make([]decimal.Decimal, len(paid))
	for i, p := range paid {
		owed[i] = share.Sub(p)
	}

	return Split{Share: share, Owed: owed}, nil
}
