package persistence

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSequenceGeneratorStartsAtOnePerCollection(t *testing.T) {
	t.Parallel()

	gen := NewSequenceGenerator(NewMemoryStore())

	for want := int64(1); want <= 3; want++ {
		id, err := gen.NextID(context.Background(), "grocery_categories")
		require.NoError(t, err)
		require.Equal(t, want, id)
	}

	// Counters are scoped per collection.
	id, err := gen.NextID(context.Background(), "suppliers")
	require.NoError(t, err)
	require.Equal(t, int64(1), id)
}

func TestSequenceGeneratorConcurrentUniqueness(t *testing.T) {
	t.Parallel()

	const workers = 64

	gen := NewSequenceGenerator(NewMemoryStore())
	ids := make([]int64, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			ids[slot], errs[slot] = gen.NextID(context.Background(), "caterings")
		}(i)
	}
	wg.Wait()

	seen := make(map[int64]struct{}, workers)
	for slot, id := range ids {
		require.NoError(t, errs[slot])
		require.Greater(t, id, int64(0))
		require.LessOrEqual(t, id, int64(workers))
		_, dup := seen[id]
		require.False(t, dup, "duplicate sequence id %d", id)
		seen[id] = struct{}{}
	}
}

type failingCounterStore struct {
	*MemoryStore
}

func (s *failingCounterStore) NextSequence(ctx context.Context, name string) (int64, error) {
	return 0, errors.New("counters collection unreachable")
}

func TestSequenceGeneratorCounterFailure(t *testing.T) {
	t.Parallel()

	gen := NewSequenceGenerator(&failingCounterStore{MemoryStore: NewMemoryStore()})

	_, err := gen.NextID(context.Background(), "grocery_categories")
	require.ErrorIs(t, err, ErrSequenceUnavailable)
	require.ErrorContains(t, err, "counters collection unreachable")
}
