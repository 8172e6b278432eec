package xcontext

import "context"

// Error and Response are carried in a holder so closers registered before
// the handler ran can still observe the outcome.

type holder[T any] struct {
	value T
}

func WithError(ctx context.Context) context.Context {
	return context.WithValue(ctx, errorKey{}, &holder[error]{})
}

func SetError(ctx context.Context, err error) {
	if h, ok := ctx.Value(errorKey{}).(*holder[error]); ok {
		h.value = err
	}
}

func Error(ctx context.Context) error {
	if h, ok := ctx.Value(errorKey{}).(*holder[error]); ok {
		return h.value
	}

	return nil
}

func WithResponse(ctx context.Context) context.Context {
	return context.WithValue(ctx, responseKey{}, &holder[any]{})
}

func SetResponse(ctx context.Context, resp any) {
	if h, ok := ctx.Value(responseKey{}).(*holder[any]); ok {
		h.value = resp
	}
}

func Response(ctx context.Context) any {
	if h, ok := ctx.Value(responseKey{}).(*holder[any]); ok {
		return h.value
	}

	return nil
}
