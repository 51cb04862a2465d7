// Package page holds the state of one list screen: the loaded records, a
// loading flag and the last error, with a fetch-after-write cycle.
package page

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"biokeeper/internal/client/api"
)

// Fetcher is the remote side of a collection. api.Collection satisfies it.
type Fetcher[T, P any] interface {
	Resource() api.Resource
	List(ctx context.Context, actor int64) ([]T, error)
	Create(ctx context.Context, actor int64, body P) error
	Update(ctx context.Context, actor, id int64, body P) error
	Delete(ctx context.Context, actor, id int64) error
}

// Collection is the state of one list screen.
//
// Fetch replaces Items only on success; on failure Err is set and the
// previous Items stay. Writes never patch Items: a successful write is
// followed by a full Fetch, a failed one only sets Err. Loading is true
// for the duration of each call.
type Collection[T, P any] struct {
	mu      sync.Mutex
	src     Fetcher[T, P]
	actor   int64
	items   []T
	loading bool
	err     error
}

func New[T, P any](src Fetcher[T, P], actor int64) *Collection[T, P] {
	return &Collection[T, P]{src: src, actor: actor}
}

func (c *Collection[T, P]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Collection[T, P]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

func (c *Collection[T, P]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// DismissError clears the error banner.
func (c *Collection[T, P]) DismissError() {
	c.mu.Lock()
	c.err = nil
	c.mu.Unlock()
}

func (c *Collection[T, P]) setLoading(v bool) {
	c.mu.Lock()
	c.loading = v
	c.mu.Unlock()
}

func (c *Collection[T, P]) fail(err error) error {
	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
	return err
}

func (c *Collection[T, P]) Fetch(ctx context.Context) error {
	c.setLoading(true)
	defer c.setLoading(false)

	items, err := c.src.List(ctx, c.actor)
	if err != nil {
		if api.IsForbidden(err) {
			return c.fail(err)
		}
		return c.fail(fmt.Errorf("Failed to fetch %s: %w", c.src.Resource().Plural, err))
	}
	c.mu.Lock()
	c.items = items
	c.err = nil
	c.mu.Unlock()
	return nil
}

func (c *Collection[T, P]) write(ctx context.Context, verb string, call func() error) error {
	c.setLoading(true)
	err := call()
	c.setLoading(false)
	if err != nil {
		return c.fail(fmt.Errorf("Failed to %s %s: %w", verb, c.src.Resource().Singular, err))
	}
	return c.Fetch(ctx)
}

func (c *Collection[T, P]) Create(ctx context.Context, body P) error {
	return c.write(ctx, "create", func() error { return c.src.Create(ctx, c.actor, body) })
}

func (c *Collection[T, P]) Update(ctx context.Context, id int64, body P) error {
	return c.write(ctx, "update", func() error { return c.src.Update(ctx, c.actor, id, body) })
}

func (c *Collection[T, P]) Delete(ctx context.Context, id int64) error {
	return c.write(ctx, "delete", func() error { return c.src.Delete(ctx, c.actor, id) })
}

// Lister is the read side a Reference needs.
type Lister[T any] interface {
	Resource() api.Resource
	List(ctx context.Context, actor int64) ([]T, error)
}

// Reference is a side collection used only to resolve names. Its failures
// are logged and leave it empty, so joins fall back to their unknown label.
type Reference[T any] struct {
	src    Lister[T]
	actor  int64
	logger *zap.Logger
	items  []T
}

func NewReference[T any](src Lister[T], actor int64, logger *zap.Logger) *Reference[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reference[T]{src: src, actor: actor, logger: logger}
}

// Fetch never fails.
func (r *Reference[T]) Fetch(ctx context.Context) error {
	items, err := r.src.List(ctx, r.actor)
	if err != nil {
		r.logger.Warn("reference list unavailable",
			zap.String("resource", r.src.Resource().Plural),
			zap.Error(err),
		)
		return nil
	}
	r.items = items
	return nil
}

func (r *Reference[T]) Items() []T { return r.items }

// Loader is anything with a Fetch step.
type Loader interface {
	Fetch(ctx context.Context) error
}

// LoadAll runs every loader concurrently and waits for all of them. It
// returns the errors joined; each loader keeps its own state regardless of
// finishing order.
func LoadAll(ctx context.Context, loaders ...Loader) error {
	errs := make([]error, len(loaders))
	var wg sync.WaitGroup
	for i, l := range loaders {
		wg.Add(1)
		go func(i int, l Loader) {
			defer wg.Done()
			errs[i] = l.Fetch(ctx)
		}(i, l)
	}
	wg.Wait()
	return errors.Join(errs...)
}
