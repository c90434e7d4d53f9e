package syncgroup

import (
	"context"

	"golang.org/x/sync/errgroup"
)

type (
	// Group runs functions concurrently and returns the first error.
	// Once a function fails, the shared context is canceled and the functions not started yet are skipped.
	Group struct {
		group *errgroup.Group
		ctx   context.Context
	}

	Option func(g *Group)
)

func New(ctx context.Context, opts ...Option) (*Group, context.Context) {
	group, ctx := errgroup.WithContext(ctx)
	g := &Group{
		group: group,
		ctx:   ctx,
	}
	for _, opt := range opts {
		opt(g)
	}

	return g, ctx
}

// WithThrottling bounds the number of functions running at once. Go blocks while the group is full.
func WithThrottling(limit int) Option {
	return func(g *Group) {
		if limit > 0 {
			g.group.SetLimit(limit)
		}
	}
}

func (g *Group) Go(fn func() error) {
	g.group.Go(func() error {
		if err := g.ctx.Err(); err != nil {
			return err
		}
		return fn()
	})
}

func (g *Group) Wait() error {
	return g.group.Wait()
}
