package optimistic

import (
	"context"
	"time"
)

// Mutation is one optimistic change to a view.
type Mutation[T any] struct {
	// Apply changes local state before the call.
	Apply func()
	Call  func(ctx context.Context) (T, error)
	// Commit reconciles local state with the call's result.
	Commit func(result T)
	// Rollback restores local state after a failed call.
	Rollback func(err error)
}

// Run executes m under the guard for id. If id is already in flight nothing
// runs and ErrInFlight is returned. The call is bounded by timeout and the
// guard is always released.
func Run[T any](ctx context.Context, guard *Guard, id string, timeout time.Duration, m Mutation[T]) (T, error) {
	var zero T
	if !guard.Acquire(id) {
		return zero, ErrInFlight
	}
	defer guard.Release(id)

	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if m.Apply != nil {
		m.Apply()
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	result, err := m.Call(callCtx)
	if err != nil {
		if m.Rollback != nil {
			m.Rollback(err)
		}
		return zero, err
	}
	if m.Commit != nil {
		m.Commit(result)
	}
	return result, nil
}
