// Package race runs competing suspensions and keeps the first to finish.
//
// Every operation handed to First must be safe to abandon: when it loses, its
// context is cancelled, whatever progress it made is discarded, and the next
// call starts it again from its initial wait.
package race

import "context"

// Op is one competitor in a race.
type Op[T any] func(ctx context.Context) (T, error)

type result[T any] struct {
	index int
	value T
	err   error
}

// First starts every op and returns the index and outcome of the first one
// to return. The others see their context cancelled; First waits until all
// of them have returned before it does, so no competitor outlives the race.
//
// If ctx is done before any op finishes, First returns -1 and ctx.Err().
func First[T any](ctx context.Context, ops ...Op[T]) (int, T, error) {
	var zero T
	if len(ops) == 0 {
		<-ctx.Done()
		return -1, zero, ctx.Err()
	}
	rctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Buffered so losers never block on delivery after the winner is chosen.
	results := make(chan result[T], len(ops))
	for i, op := range ops {
		go func(i int, op Op[T]) {
			v, err := op(rctx)
			results <- result[T]{index: i, value: v, err: err}
		}(i, op)
	}

	var won result[T]
	select {
	case won = <-results:
	case <-ctx.Done():
		won = result[T]{index: -1, err: ctx.Err()}
	}
	cancel()
	pending := len(ops)
	if won.index >= 0 {
		pending--
	}
	for ; pending > 0; pending-- {
		<-results
	}
	return won.index, won.value, won.err
}
