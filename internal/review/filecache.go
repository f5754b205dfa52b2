package review

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ContentFetcher retrieves the full post-change content of a file at the
// run's head commit.
type ContentFetcher func(ctx context.Context, path string) (string, error)

// FileCache memoizes file contents for the duration of one run. A given path
// is fetched at most once even under concurrent access: the first accessor
// fetches, the rest wait for that result. A failed fetch caches an empty
// string and logs a warning; missing file context degrades the prompt, it
// never aborts the hunk.
type FileCache struct {
	fetch  ContentFetcher
	logger *zap.Logger

	group singleflight.Group

	mu       sync.RWMutex
	contents map[string]string
}

// NewFileCache creates an empty run-scoped cache around a fetcher.
func NewFileCache(fetch ContentFetcher, logger *zap.Logger) *FileCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileCache{
		fetch:    fetch,
		logger:   logger,
		contents: make(map[string]string),
	}
}

// Get returns the cached content for path, fetching it on first access.
func (c *FileCache) Get(ctx context.Context, path string) string {
	c.mu.RLock()
	content, ok := c.contents[path]
	c.mu.RUnlock()
	if ok {
		return content
	}

	result, _, _ := c.group.Do(path, func() (interface{}, error) {
		// Re-check under the flight: a caller that lost the race to a
		// completed flight must not fetch again.
		c.mu.RLock()
		cached, ok := c.contents[path]
		c.mu.RUnlock()
		if ok {
			return cached, nil
		}

		content, err := c.fetch(ctx, path)
		if err != nil {
			c.logger.Warn("failed to fetch file content, reviewing without file context",
				zap.String("path", path), zap.Error(err))
			content = ""
		}
		c.mu.Lock()
		c.contents[path] = content
		c.mu.Unlock()
		return content, nil
	})

	return result.(string)
}

// Len reports how many paths are cached.
func (c *FileCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.contents)
}
