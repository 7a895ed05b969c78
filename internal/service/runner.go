package service

import (
	"context"

	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/session"
	"github.com/mmynk/splitledger/internal/shell"
)

// runner applies shell commands to the caller's session.
type runner struct {
	store      session.Store
	dispatcher *shell.Dispatcher
}

// run dispatches cmd against the session named in ctx and stores the new
// state. A failed command leaves the session untouched.
func (r runner) run(ctx context.Context, cmd shell.Command) (shell.View, error) {
	id := middleware.GetSessionID(ctx)
	if id == "" {
		return nil, session.ErrMissingToken
	}

	var view shell.View
	_, err := r.store.Update(ctx, id, func(st session.State) (session.State, error) {
		next, v, err := r.dispatcher.Dispatch(st, cmd)
		if err != nil {
			return st, err
		}
		view = v
		return next, nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}
