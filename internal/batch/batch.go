package batch

import (
	"sync"

	"golang.org/x/sync/errgroup"
)

// New batch that runs at most limit functions at a time. A limit below one
// means no limit.
func New[B any](limit int) *Batch[B] {
	eg := new(errgroup.Group)
	if limit > 0 {
		eg.SetLimit(limit)
	}
	return &Batch[B]{eg: eg}
}

// Result of a single function in the batch
type Result[B any] struct {
	Value B
	Err   error
}

// Batch runs functions concurrently and collects every result in the order
// the functions were added. One failure doesn't stop the others.
type Batch[B any] struct {
	eg  *errgroup.Group
	mu  sync.Mutex
	out []Result[B]
}

// Go runs fn in the background, blocking while the limit is reached
func (b *Batch[B]) Go(fn func() (B, error)) {
	b.mu.Lock()
	idx := len(b.out)
	b.out = append(b.out, Result[B]{}) // reserve slot
	b.mu.Unlock()

	b.eg.Go(func() error {
		value, err := fn()
		b.mu.Lock()
		b.out[idx] = Result[B]{value, err}
		b.mu.Unlock()
		return nil
	})
}

// Wait for every function and return their results in the order they were
// added
func (b *Batch[B]) Wait() []Result[B] {
	b.eg.Wait()
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.out
}
