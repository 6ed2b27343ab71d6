package mocks

import (
	"context"
	"meetbook/infras/otel"
)

// noopOtel hands out scopes that drop every span, for service and handler tests.
type noopOtel struct{}

func (noopOtel) NewScope(ctx context.Context, _, _ string) (context.Context, otel.Scope) {
	return ctx, NewScope()
}

func (noopOtel) Shutdown(context.Context) error {
	return nil
}

func NewOtel() otel.Otel {
	return noopOtel{}
}
