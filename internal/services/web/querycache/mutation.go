package querycache

import "context"

// Mutation describes a remote write and its cache side effects. C is the
// value OnMutate hands to the later hooks, typically a rollback snapshot.
//
// Mutate runs OnMutate, then Fn, then OnSuccess or OnError, then OnSettled.
// Every hook is optional.
type Mutation[In, Out, C any] struct {
	Fn        func(ctx context.Context, in In) (Out, error)
	OnMutate  func(ctx context.Context, in In) C
	OnSuccess func(ctx context.Context, out Out, in In, mctx C)
	OnError   func(ctx context.Context, err error, in In, mctx C)
	OnSettled func(ctx context.Context, out Out, err error, in In, mctx C)
}

// Mutate runs the mutation once and returns Fn's outcome.
func (m Mutation[In, Out, C]) Mutate(ctx context.Context, in In) (Out, error) {
	var mctx C
	if m.OnMutate != nil {
		mctx = m.OnMutate(ctx, in)
	}

	var out Out
	var err error
	if m.Fn == nil {
		err = ErrNotConfigured
	} else {
		out, err = m.Fn(ctx, in)
	}

	if err != nil {
		var zero Out
		out = zero
		if m.OnError != nil {
			m.OnError(ctx, err, in, mctx)
		}
	} else if m.OnSuccess != nil {
		m.OnSuccess(ctx, out, in, mctx)
	}
	if m.OnSettled != nil {
		m.OnSettled(ctx, out, err, in, mctx)
	}
	return out, err
}
