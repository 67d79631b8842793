package suggest

import (
	"context"
	"errors"
	"testing"

	"github.com/bastiangx/wordlens/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items(terms ...string) []api.SuggestionItem {
	out := make([]api.SuggestionItem, len(terms))
	for i, term := range terms {
		out[i] = api.SuggestionItem{ID: i + 1, Term: term}
	}
	return out
}

func TestCache_GetPut(t *testing.T) {
	c := NewCache(4)

	_, ok := c.Get("ga", 0)
	assert.False(t, ok)

	c.Put(" GA ", items("gato", "galo"), 0)
	got, ok := c.Get("ga", 0)
	require.True(t, ok)
	assert.Equal(t, items("gato", "galo"), got)

	// returned slices are copies
	got[0].Term = "mutated"
	again, _ := c.Get("Ga", 0)
	assert.Equal(t, "gato", again[0].Term)

	stats := c.Stats()
	assert.Equal(t, 1, stats["cachedQueries"])
	assert.Equal(t, 2, stats["cacheHits"])
	assert.Equal(t, 1, stats["cacheMisses"])
}

func TestCache_OverwriteKeepsCount(t *testing.T) {
	c := NewCache(4)
	c.Put("ga", items("gato"), 0)
	c.Put("ga", items("galo"), 0)

	assert.Equal(t, 1, c.Len())
	got, _ := c.Get("ga", 0)
	assert.Equal(t, "galo", got[0].Term)
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewCache(2)
	c.Put("ga", items("gato"), 0)
	c.Put("ca", items("casa"), 0)

	// touch "ga" so "ca" becomes the oldest
	_, ok := c.Get("ga", 0)
	require.True(t, ok)

	c.Put("lu", items("lua"), 0)
	assert.Equal(t, 2, c.Len())

	_, ok = c.Get("ca", 0)
	assert.False(t, ok, "ca should have been evicted")
	_, ok = c.Get("ga", 0)
	assert.True(t, ok)
	_, ok = c.Get("lu", 0)
	assert.True(t, ok)
}

func TestCache_Invalidate(t *testing.T) {
	c := NewCache(8)
	c.Put("ga", items("gato"), 0)
	c.Put("gat", items("gato"), 0)
	c.Put("gato", items("gato"), 0)
	c.Put("ca", items("casa"), 0)

	assert.Equal(t, 3, c.Invalidate("ga"))
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("gat", 0)
	assert.False(t, ok)

	assert.Equal(t, 0, c.Invalidate("zz"))
	assert.Equal(t, 1, c.Invalidate(""))
	assert.Equal(t, 0, c.Len())
}

func TestCache_LimitedEntryMissesLargerLimit(t *testing.T) {
	c := NewCache(4)
	c.Put("ga", items("gato", "galo"), 2)

	_, ok := c.Get("ga", 2)
	assert.True(t, ok)
	_, ok = c.Get("ga", 10)
	assert.False(t, ok)
	_, ok = c.Get("ga", 0)
	assert.False(t, ok)
}

func TestCache_InvalidateTerm(t *testing.T) {
	c := NewCache(8)
	for _, q := range []string{"ga", "gat", "gato", "gatos", "gal", "ca"} {
		c.Put(q, items("x"), 0)
	}

	assert.Equal(t, 4, c.InvalidateTerm(" Gato "))
	assert.Equal(t, 2, c.Len())
	for _, q := range []string{"ga", "gat", "gato", "gatos"} {
		_, ok := c.Get(q, 0)
		assert.False(t, ok, q)
	}
	_, ok := c.Get("gal", 0)
	assert.True(t, ok)

	assert.Equal(t, 0, c.InvalidateTerm(""))
	assert.Equal(t, 0, c.InvalidateTerm("lua"))
}

type stubSource struct {
	calls int
	items []api.SuggestionItem
	err   error
}

func (s *stubSource) Suggestions(_ context.Context, _ string, limit int) ([]api.SuggestionItem, error) {
	s.calls++
	if limit > 0 && len(s.items) > limit {
		return s.items[:limit], s.err
	}
	return s.items, s.err
}

func TestCached_HitSkipsUpstream(t *testing.T) {
	up := &stubSource{items: items("gato", "Gato", "galo")}
	src := NewCached(up, NewCache(8))

	first, err := src.Suggestions(context.Background(), "ga", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"gato", "galo"}, terms(first))

	second, err := src.Suggestions(context.Background(), " GA", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"gato"}, terms(second))
	assert.Equal(t, 1, up.calls)
}

func TestCached_LargerLimitRefetches(t *testing.T) {
	up := &stubSource{items: items("gato", "galo", "gado", "gala", "gaita")}
	src := NewCached(up, NewCache(8))

	first, err := src.Suggestions(context.Background(), "ga", 2)
	require.NoError(t, err)
	assert.Len(t, first, 2)

	second, err := src.Suggestions(context.Background(), "ga", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"gato", "galo", "gado", "gala", "gaita"}, terms(second))
	assert.Equal(t, 2, up.calls)

	// the short upstream answer is complete so any limit is served from cache
	third, err := src.Suggestions(context.Background(), "ga", 3)
	require.NoError(t, err)
	assert.Len(t, third, 3)
	assert.Equal(t, 2, up.calls)
}

func TestCached_ForgetRefetches(t *testing.T) {
	up := &stubSource{items: items("gato")}
	src := NewCached(up, NewCache(8))

	_, err := src.Suggestions(context.Background(), "ga", 10)
	require.NoError(t, err)

	up.items = items("gato", "gatuno")
	src.Forget("gatuno")

	got, err := src.Suggestions(context.Background(), "ga", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"gato", "gatuno"}, terms(got))
	assert.Equal(t, 2, up.calls)
}

func TestCached_ErrorsAreNotCached(t *testing.T) {
	up := &stubSource{err: errors.New("boom")}
	src := NewCached(up, NewCache(8))

	_, err := src.Suggestions(context.Background(), "ga", 10)
	require.Error(t, err)
	assert.Equal(t, 0, src.Cache().Len())

	up.err = nil
	up.items = items("gato")
	got, err := src.Suggestions(context.Background(), "ga", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"gato"}, terms(got))
	assert.Equal(t, 2, up.calls)
}

func TestDedupe(t *testing.T) {
	in := []api.SuggestionItem{
		{ID: 1, Term: "Água"},
		{ID: 2, Term: "água"},
		{ID: 3, Term: " "},
		{ID: 4, Term: "aguardar"},
	}
	got := Dedupe(in)
	assert.Equal(t, []api.SuggestionItem{{ID: 1, Term: "Água"}, {ID: 4, Term: "aguardar"}}, got)
}

func terms(in []api.SuggestionItem) []string {
	out := make([]string, len(in))
	for i, item := range in {
		out[i] = item.Term
	}
	return out
}
