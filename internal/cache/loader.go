// Package cache provides a bounded read-through cache whose cold loads are
// shared between concurrent callers of the same key.
package cache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// LoadFunc produces the value for a missing key.
type LoadFunc[V any] func(ctx context.Context) (V, error)

// Loader is a size-bounded LRU cache with single-flight population.
// Failed loads are not cached. Safe for concurrent use.
type Loader[V any] struct {
	entries *lru.Cache[string, V]
	group   singleflight.Group
}

// New creates a Loader holding at most size entries.
func New[V any](size int) (*Loader[V], error) {
	entries, err := lru.New[string, V](size)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	return &Loader[V]{entries: entries}, nil
}

// Get returns the cached value for key, calling load at most once across
// concurrent callers when the key is missing.
//
// The shared load is detached from the caller's cancellation so one
// disconnecting client does not fail every waiter; load must apply its own
// deadline. A caller whose ctx ends stops waiting and gets ctx.Err(), and
// a caller whose ctx has already ended does not start a load.
func (l *Loader[V]) Get(ctx context.Context, key string, load LoadFunc[V]) (V, error) {
	if v, ok := l.entries.Get(key); ok {
		return v, nil
	}
	var zero V
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	ch := l.group.DoChan(key, func() (any, error) {
		if v, ok := l.entries.Get(key); ok {
			return v, nil
		}
		v, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		l.entries.Add(key, v)
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(V), nil
	}
}

// Len returns the number of cached entries.
func (l *Loader[V]) Len() int { return l.entries.Len() }

// Purge drops every cached entry.
func (l *Loader[V]) Purge() { l.entries.Purge() }
