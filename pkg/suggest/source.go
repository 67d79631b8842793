package suggest

import (
	"context"
	"strings"

	"github.com/bastiangx/wordlens/internal/utils"
	"github.com/bastiangx/wordlens/pkg/api"
)

// Cached serves suggestions from a Cache and falls back to an upstream
// Source on a miss. Failed upstream calls are never cached.
type Cached struct {
	upstream Source
	cache    *Cache
}

// NewCached wraps upstream with cache.
func NewCached(upstream Source, cache *Cache) *Cached {
	return &Cached{upstream: upstream, cache: cache}
}

// Suggestions implements Source.
func (c *Cached) Suggestions(ctx context.Context, q string, limit int) ([]api.SuggestionItem, error) {
	q = strings.TrimSpace(q)
	if items, ok := c.cache.Get(q, limit); ok {
		if limit > 0 && len(items) > limit {
			items = items[:limit]
		}
		return items, nil
	}

	items, err := c.upstream.Suggestions(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	fetched := len(items)
	items = Dedupe(items)
	if utils.TrimmedLen(q) >= api.MinSuggestLen {
		stored := limit
		if limit > 0 && fetched < limit {
			stored = 0
		}
		c.cache.Put(q, items, stored)
	}
	return items, nil
}

// Forget drops cached suggestions that may be stale once term changes
// upstream, such as after a word is created or deleted.
func (c *Cached) Forget(term string) {
	c.cache.InvalidateTerm(term)
}

// Cache returns the underlying cache.
func (c *Cached) Cache() *Cache {
	return c.cache
}

// Dedupe drops items whose term repeats an earlier one, ignoring case.
func Dedupe(items []api.SuggestionItem) []api.SuggestionItem {
	seen := make(map[string]bool, len(items))
	out := make([]api.SuggestionItem, 0, len(items))
	for _, item := range items {
		key := utils.Fold(strings.TrimSpace(item.Term))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}
