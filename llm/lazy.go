package llm

import (
	"context"
	"sync"
)

// Factory builds a client on demand
type Factory func(ctx context.Context) (LLM, error)

// Lazy defers building its client until the first Prompt, so callers that
// halt before dispatching never need valid provider credentials.
type Lazy struct {
	factory Factory

	once   sync.Once
	client LLM
	err    error
}

// NewLazy wraps factory, which is called at most once
func NewLazy(factory Factory) *Lazy {
	return &Lazy{
		factory: factory,
	}
}

// Prompt builds the client on first use and forwards the request to it.
// A construction failure is returned on every call.
func (l *Lazy) Prompt(ctx context.Context, req Request) Response {
	l.once.Do(func() {
		l.client, l.err = l.factory(ctx)
	})
	if l.err != nil {
		return Response{
			Error: l.err,
		}
	}
	return l.client.Prompt(ctx, req)
}
