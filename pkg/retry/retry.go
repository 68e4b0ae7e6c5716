package retry

import (
	"context"
)

// Action is a function to be performed in a retriable manner.
type Action func() error

// Retry runs action until it succeeds or a strategy declines another
// attempt. Strategies run in order, so delaying strategies belong last.
// The returned count is the number of attempts made.
func Retry(action Action, strategies ...Strategy) (uint, error) {
	for attempt := uint(1); ; attempt++ {
		err := action()
		if err == nil {
			return attempt, nil
		}
		if !shouldRetry(attempt, err, strategies) {
			return attempt, err
		}
	}
}

// Loop runs action forever. A success resets the attempt counter, and a
// failure is handed to the strategies, which end the loop by declining.
func Loop(action Action, strategies ...Strategy) error {
	attempt := uint(0)
	for {
		err := action()
		if err == nil {
			attempt = 0
			continue
		}

		attempt++
		if !shouldRetry(attempt, err, strategies) {
			return err
		}
	}
}

// LoopWithContext is Loop that also stops with ctx.Err() once ctx is done.
func LoopWithContext(ctx context.Context, action Action, strategies ...Strategy) error {
	return Loop(
		func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return action()
		},
		append([]Strategy{NonRetriableErrors(context.Canceled, context.DeadlineExceeded)}, strategies...)...,
	)
}

func shouldRetry(attempt uint, err error, strategies []Strategy) bool {
	for _, strategy := range strategies {
		if !strategy(attempt, err) {
			return false
		}
	}
	return true
}
