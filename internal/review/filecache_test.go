package review

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileCache_Get(t *testing.T) {
	var fetches int32
	cache := NewFileCache(func(ctx context.Context, path string) (string, error) {
		atomic.AddInt32(&fetches, 1)
		return "content of " + path, nil
	}, nil)

	ctx := context.Background()
	assert.Equal(t, "content of main.go", cache.Get(ctx, "main.go"))
	assert.Equal(t, "content of main.go", cache.Get(ctx, "main.go"))
	assert.Equal(t, "content of util.go", cache.Get(ctx, "util.go"))

	assert.Equal(t, int32(2), atomic.LoadInt32(&fetches))
	assert.Equal(t, 2, cache.Len())
}

func TestFileCache_FetchFailureCachesEmpty(t *testing.T) {
	var fetches int32
	cache := NewFileCache(func(ctx context.Context, path string) (string, error) {
		atomic.AddInt32(&fetches, 1)
		return "", errors.New("404 not found")
	}, nil)

	ctx := context.Background()
	assert.Empty(t, cache.Get(ctx, "gone.go"))
	assert.Empty(t, cache.Get(ctx, "gone.go"))

	// The failure result is cached; no second fetch happens.
	assert.Equal(t, int32(1), atomic.LoadInt32(&fetches))
}

func TestFileCache_ConcurrentSingleFetch(t *testing.T) {
	var fetches int32
	release := make(chan struct{})
	cache := NewFileCache(func(ctx context.Context, path string) (string, error) {
		atomic.AddInt32(&fetches, 1)
		<-release
		return "shared", nil
	}, nil)

	const accessors = 16
	var wg sync.WaitGroup
	results := make([]string, accessors)
	for i := 0; i < accessors; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = cache.Get(context.Background(), "main.go")
		}(i)
	}

	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&fetches))
	for _, r := range results {
		assert.Equal(t, "shared", r)
	}
}
