package batch

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Chunk size limits.
const (
	// DefaultBatchSize is the default number of items per chunk.
	DefaultBatchSize = 1000

	// MinBatchSize is the minimum allowed chunk size.
	MinBatchSize = 1

	// MaxBatchSize is the maximum allowed chunk size.
	MaxBatchSize = 100_000
)

// Common batch processing errors.
var (
	ErrInvalidBatchSize = errors.New("batch size must be between 1 and 100000")
	ErrNilCallback      = errors.New("batch callback cannot be nil")
	ErrEmptyItems       = errors.New("items slice cannot be empty")
)

// Callback processes one chunk. index is the 0-based chunk number in input order.
type Callback[T any] func(ctx context.Context, chunk []T, index int) error

// ProgressCallback is invoked after each chunk completes.
type ProgressCallback func(progress *Progress)

// Processor splits items into chunks of a fixed size.
type Processor[T any] struct {
	batchSize  int
	onProgress ProgressCallback
}

// NewProcessor creates a processor with the given chunk size.
func NewProcessor[T any](batchSize int) (*Processor[T], error) {
	if batchSize < MinBatchSize || batchSize > MaxBatchSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, batchSize)
	}
	return &Processor[T]{batchSize: batchSize}, nil
}

// NewProcessorWithDefaults creates a processor with DefaultBatchSize.
func NewProcessorWithDefaults[T any]() *Processor[T] {
	return &Processor[T]{batchSize: DefaultBatchSize}
}

// WithProgressCallback sets a progress callback for the processor.
func (p *Processor[T]) WithProgressCallback(callback ProgressCallback) *Processor[T] {
	p.onProgress = callback
	return p
}

// GetBatchSize returns the configured chunk size.
func (p *Processor[T]) GetBatchSize() int {
	return p.batchSize
}

// Process runs callback over each chunk in order and stops at the first error.
func (p *Processor[T]) Process(ctx context.Context, items []T, callback Callback[T]) error {
	if len(items) == 0 {
		return ErrEmptyItems
	}
	if callback == nil {
		return ErrNilCallback
	}

	bounds := p.CalculateBatches(len(items))
	progress := NewProgress(len(items), len(bounds), p.batchSize)

	for i, b := range bounds {
		if err := ctx.Err(); err != nil {
			return err
		}
		chunk := items[b[0]:b[1]]
		if err := callback(ctx, chunk, i); err != nil {
			return fmt.Errorf("batch %d failed: %w", i, err)
		}
		p.report(progress, len(chunk))
	}

	return nil
}

// ProcessConcurrent runs callback over the chunks with at most maxConcurrency
// in flight. The first failing chunk cancels the context passed to the others
// and its error is returned.
func (p *Processor[T]) ProcessConcurrent(
	ctx context.Context,
	items []T,
	callback Callback[T],
	maxConcurrency int,
) error {
	if len(items) == 0 {
		return ErrEmptyItems
	}
	if callback == nil {
		return ErrNilCallback
	}
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}

	bounds := p.CalculateBatches(len(items))
	progress := NewProgress(len(items), len(bounds), p.batchSize)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrency)

	for i, b := range bounds {
		chunk := items[b[0]:b[1]]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := callback(gctx, chunk, i); err != nil {
				return fmt.Errorf("batch %d failed: %w", i, err)
			}
			p.report(progress, len(chunk))
			return nil
		})
	}

	return g.Wait()
}

// CalculateBatches returns the [start, end) bounds of every chunk for totalItems.
func (p *Processor[T]) CalculateBatches(totalItems int) [][2]int {
	if totalItems <= 0 {
		return nil
	}
	count := (totalItems + p.batchSize - 1) / p.batchSize
	bounds := make([][2]int, count)
	for i := range count {
		start := i * p.batchSize
		end := min(start+p.batchSize, totalItems)
		bounds[i] = [2]int{start, end}
	}
	return bounds
}

func (p *Processor[T]) report(progress *Progress, n int) {
	progress.AddProcessed(n)
	if p.onProgress != nil {
		p.onProgress(progress)
	}
}
