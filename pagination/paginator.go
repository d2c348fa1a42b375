// Package pagination accumulates pages from a limit/offset fetch
// function into a growing item list.
package pagination

import (
	"context"
	"sync"
)

// FetchFunc returns one page of items starting at offset, at most limit
// of them.
type FetchFunc[T any] func(ctx context.Context, limit, offset int) ([]T, error)

// Paginator drives repeated page fetches and accumulates the results.
// A page shorter than the limit marks the end of the collection. It is
// safe for concurrent use; overlapping LoadMore calls collapse into one
// fetch.
type Paginator[T any] struct {
	fetch FetchFunc[T]
	limit int

	mu      sync.Mutex
	items   []T
	offset  int
	hasMore bool
	loading bool
	err     error
}

// New creates a paginator that fetches pages of the given size.
func New[T any](limit int, fetch FetchFunc[T]) *Paginator[T] {
	return &Paginator[T]{
		fetch:   fetch,
		limit:   limit,
		hasMore: true,
	}
}

// LoadMore fetches the next page and appends it to the accumulated
// items. It is a no-op when a fetch is already in flight or the end of
// the collection has been reached. A failed fetch records the error and
// leaves the accumulated items and offset untouched, so a later call
// retries the same page.
func (p *Paginator[T]) LoadMore(ctx context.Context) error {
	p.mu.Lock()
	if p.loading || !p.hasMore {
		p.mu.Unlock()
		return nil
	}
	p.loading = true
	p.err = nil
	limit, offset := p.limit, p.offset
	p.mu.Unlock()

	page, err := p.fetch(ctx, limit, offset)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false
	if err != nil {
		p.err = err
		return err
	}
	p.items = append(p.items, page...)
	p.offset += len(page)
	p.hasMore = len(page) >= limit
	return nil
}

// Items returns a copy of the accumulated items.
func (p *Paginator[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]T, len(p.items))
	copy(out, p.items)
	return out
}

// Len returns the number of accumulated items.
func (p *Paginator[T]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}

// HasMore reports whether another page may remain.
func (p *Paginator[T]) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

// Loading reports whether a fetch is in flight.
func (p *Paginator[T]) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// Err returns the error from the most recent failed fetch, cleared when
// the next fetch starts.
func (p *Paginator[T]) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// Reset discards all accumulated state so the next LoadMore starts from
// the first page.
func (p *Paginator[T]) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = nil
	p.offset = 0
	p.hasMore = true
	p.err = nil
}
