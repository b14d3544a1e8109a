package parts

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"parts-manager/core/classify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProvider struct {
	calls atomic.Int32
	types []*classify.PartType
	err   error
}

func (p *countingProvider) GetPartTypes(context.Context, int64) ([]*classify.PartType, error) {
	p.calls.Add(1)
	return p.types, p.err
}

func TestTaxonomyCache_Get(t *testing.T) {
	ctx := context.Background()
	provider := &countingProvider{types: []*classify.PartType{{ID: 1, Name: "Resistor"}}}
	cache := NewTaxonomyCache(provider, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	tax, err := cache.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, tax.Len())

	_, err = cache.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(1), provider.calls.Load())

	_, err = cache.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int32(2), provider.calls.Load(), "users are cached separately")

	now = now.Add(2 * time.Minute)
	_, err = cache.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(3), provider.calls.Load(), "expired entry reloads")

	cache.Invalidate(1)
	_, err = cache.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(4), provider.calls.Load())
}

func TestTaxonomyCache_ZeroTTLDisablesCaching(t *testing.T) {
	provider := &countingProvider{}
	cache := NewTaxonomyCache(provider, 0)

	for i := 0; i < 3; i++ {
		_, err := cache.Get(context.Background(), 1)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), provider.calls.Load())
}

func TestTaxonomyCache_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("ProviderError", func(t *testing.T) {
		boom := errors.New("db down")
		cache := NewTaxonomyCache(&countingProvider{err: boom}, time.Minute)
		_, err := cache.Get(ctx, 1)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("NilEntry", func(t *testing.T) {
		provider := &countingProvider{types: []*classify.PartType{{ID: 1, Name: "A"}, nil}}
		cache := NewTaxonomyCache(provider, time.Minute)
		_, err := cache.Get(ctx, 1)
		assert.ErrorIs(t, err, classify.ErrInvalidArgument)

		_, _ = cache.Get(ctx, 1)
		assert.Equal(t, int32(2), provider.calls.Load(), "invalid taxonomy is not cached")
	})

	t.Run("NoProvider", func(t *testing.T) {
		_, err := NewTaxonomyCache(nil, time.Minute).Get(ctx, 1)
		assert.ErrorIs(t, err, classify.ErrInvalidArgument)
	})
}

func TestTaxonomyCache_Concurrent(t *testing.T) {
	provider := &countingProvider{types: []*classify.PartType{{ID: 1, Name: "Diode"}}}
	cache := NewTaxonomyCache(provider, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tax, err := cache.Get(context.Background(), 9)
			assert.NoError(t, err)
			assert.Equal(t, 1, tax.Len())
		}()
	}
	wg.Wait()

	_, err := cache.Get(context.Background(), 9)
	require.NoError(t, err)
	assert.LessOrEqual(t, provider.calls.Load(), int32(20))
}

type blockingProvider struct {
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
}

func (p *blockingProvider) GetPartTypes(ctx context.Context, _ int64) ([]*classify.PartType, error) {
	if p.calls.Add(1) == 1 {
		close(p.entered)
	}
	select {
	case <-p.release:
		return []*classify.PartType{{ID: 1, Name: "Resistor"}}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestTaxonomyCache_WaitersSurviveLeaderCancel(t *testing.T) {
	provider := &blockingProvider{entered: make(chan struct{}), release: make(chan struct{})}
	cache := NewTaxonomyCache(provider, time.Minute)

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := cache.Get(leaderCtx, 7)
		leaderErr <- err
	}()
	<-provider.entered

	waiter := make(chan error, 1)
	go func() {
		tax, err := cache.Get(context.Background(), 7)
		if err == nil && tax.Len() != 1 {
			err = errors.New("unexpected taxonomy")
		}
		waiter <- err
	}()

	cancel()
	time.Sleep(50 * time.Millisecond)
	close(provider.release)

	require.NoError(t, <-waiter)
	require.NoError(t, <-leaderErr)
	assert.Equal(t, int32(1), provider.calls.Load())
}
