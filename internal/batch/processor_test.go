package batch_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/carbonwise/internal/batch"
)

func sequence(n int) []int {
	items := make([]int, n)
	for i := range n {
		items[i] = i
	}
	return items
}

func TestNewProcessor(t *testing.T) {
	tests := []struct {
		name      string
		batchSize int
		wantErr   bool
	}{
		{name: "default size", batchSize: batch.DefaultBatchSize},
		{name: "minimum size", batchSize: batch.MinBatchSize},
		{name: "maximum size", batchSize: batch.MaxBatchSize},
		{name: "zero", batchSize: 0, wantErr: true},
		{name: "too large", batchSize: batch.MaxBatchSize + 1, wantErr: true},
		{name: "negative", batchSize: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := batch.NewProcessor[int](tt.batchSize)
			if tt.wantErr {
				require.ErrorIs(t, err, batch.ErrInvalidBatchSize)
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.batchSize, p.GetBatchSize())
		})
	}
}

func TestProcess_ChunksInOrder(t *testing.T) {
	p, err := batch.NewProcessor[int](100)
	require.NoError(t, err)

	var sizes, indices []int
	err = p.Process(context.Background(), sequence(1050), func(_ context.Context, chunk []int, index int) error {
		sizes = append(sizes, len(chunk))
		indices = append(indices, index)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, sizes, 11)
	assert.Equal(t, 50, sizes[10])
	for i, idx := range indices {
		assert.Equal(t, i, idx)
	}
}

func TestProcess_StopsOnError(t *testing.T) {
	p, err := batch.NewProcessor[int](10)
	require.NoError(t, err)

	boom := errors.New("boom")
	calls := 0
	err = p.Process(context.Background(), sequence(50), func(_ context.Context, _ []int, index int) error {
		calls++
		if index == 2 {
			return boom
		}
		return nil
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}

func TestProcess_InvalidInput(t *testing.T) {
	p := batch.NewProcessorWithDefaults[int]()

	err := p.Process(context.Background(), nil, func(context.Context, []int, int) error { return nil })
	require.ErrorIs(t, err, batch.ErrEmptyItems)

	err = p.Process(context.Background(), sequence(3), nil)
	require.ErrorIs(t, err, batch.ErrNilCallback)
}

func TestProcess_CancelledContext(t *testing.T) {
	p, err := batch.NewProcessor[int](1)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = p.Process(ctx, sequence(5), func(context.Context, []int, int) error { return nil })
	require.ErrorIs(t, err, context.Canceled)
}

func TestProcessConcurrent_VisitsEveryChunk(t *testing.T) {
	p, err := batch.NewProcessor[int](7)
	require.NoError(t, err)

	items := sequence(100)
	slots := make([][]int, len(p.CalculateBatches(len(items))))

	var updates atomic.Int32
	p.WithProgressCallback(func(*batch.Progress) { updates.Add(1) })

	err = p.ProcessConcurrent(context.Background(), items, func(_ context.Context, chunk []int, index int) error {
		slots[index] = append([]int(nil), chunk...)
		return nil
	}, 4)
	require.NoError(t, err)

	var merged []int
	for _, s := range slots {
		merged = append(merged, s...)
	}
	assert.Equal(t, items, merged)
	assert.Equal(t, int32(len(slots)), updates.Load())
}

func TestProcessConcurrent_ReturnsError(t *testing.T) {
	p, err := batch.NewProcessor[int](10)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = p.ProcessConcurrent(context.Background(), sequence(100), func(_ context.Context, _ []int, index int) error {
		if index == 5 {
			return boom
		}
		return nil
	}, 0)
	require.ErrorIs(t, err, boom)
}

func TestCalculateBatches(t *testing.T) {
	p, err := batch.NewProcessor[string](4)
	require.NoError(t, err)

	assert.Nil(t, p.CalculateBatches(0))
	assert.Equal(t, [][2]int{{0, 4}, {4, 8}, {8, 10}}, p.CalculateBatches(10))
}

func TestProgress_Snapshot(t *testing.T) {
	progress := batch.NewProgress(10, 2, 5)

	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			progress.AddProcessed(5)
		}()
	}
	wg.Wait()

	snap := progress.Snapshot()
	assert.Equal(t, 10, snap.ProcessedItems)
	assert.Equal(t, 2, snap.ProcessedBatches)
	assert.InDelta(t, 100.0, snap.PercentComplete, 1e-9)
	assert.True(t, progress.IsComplete())
}
