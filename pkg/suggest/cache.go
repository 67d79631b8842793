package suggest

import (
	"math"
	"strings"
	"sync"

	"github.com/bastiangx/wordlens/internal/utils"
	"github.com/bastiangx/wordlens/pkg/api"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// cacheEntry records the limit the items were fetched with. A zero limit
// means the list is complete.
type cacheEntry struct {
	items      []api.SuggestionItem
	limit      int
	lastAccess int64
}

func (e *cacheEntry) covers(limit int) bool {
	return e.limit <= 0 || (limit > 0 && limit <= e.limit)
}

// Cache keeps suggestion responses keyed by folded query in a patricia trie.
// It holds at most maxEntries queries and evicts the least recently used.
type Cache struct {
	mu          sync.Mutex
	trie        *patricia.Trie
	entries     int
	maxEntries  int
	accessCount int64
	hits        int64
	misses      int64
}

// NewCache creates a cache bounded to maxEntries queries.
func NewCache(maxEntries int) *Cache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &Cache{
		trie:       patricia.NewTrie(),
		maxEntries: maxEntries,
	}
}

func cacheKey(query string) patricia.Prefix {
	return patricia.Prefix(utils.Fold(strings.TrimSpace(query)))
}

// Get returns a copy of the cached items for query when the entry can answer
// a request for limit items. A limit <= 0 asks for every match.
func (c *Cache) Get(query string, limit int) ([]api.SuggestionItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item := c.trie.Get(cacheKey(query))
	if item == nil || !item.(*cacheEntry).covers(limit) {
		c.misses++
		return nil, false
	}
	entry := item.(*cacheEntry)
	entry.lastAccess = c.nextAccessTime()
	c.hits++
	return append([]api.SuggestionItem(nil), entry.items...), true
}

// Put stores items for query as fetched with limit, evicting the oldest
// entry when full.
func (c *Cache) Put(query string, items []api.SuggestionItem, limit int) {
	key := cacheKey(query)
	if len(key) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry := &cacheEntry{
		items:      append([]api.SuggestionItem(nil), items...),
		limit:      limit,
		lastAccess: c.nextAccessTime(),
	}
	if c.trie.Get(key) != nil {
		c.trie.Set(key, entry)
		return
	}
	if c.entries >= c.maxEntries {
		c.evictLRU()
	}
	c.trie.Insert(key, entry)
	c.entries++
}

// Invalidate drops every cached query starting with prefix and returns how
// many were removed. An empty prefix clears the cache.
func (c *Cache) Invalidate(prefix string) int {
	key := cacheKey(prefix)

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(key) == 0 {
		removed := c.entries
		c.trie = patricia.NewTrie()
		c.entries = 0
		return removed
	}

	removed := 0
	c.trie.VisitSubtree(key, func(patricia.Prefix, patricia.Item) error {
		removed++
		return nil
	})
	if removed > 0 {
		c.trie.DeleteSubtree(key)
		c.entries -= removed
	}
	log.Debugf("Invalidated %d cached suggestion queries under '%s'", removed, prefix)
	return removed
}

// InvalidateTerm drops the cached queries a term could have answered: every
// prefix of the folded term and everything under the term itself.
func (c *Cache) InvalidateTerm(term string) int {
	key := cacheKey(term)
	if len(key) == 0 {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	runes := []rune(string(key))
	for i := 1; i < len(runes); i++ {
		// Delete matches partial node prefixes, so require an exact hit first.
		p := patricia.Prefix(string(runes[:i]))
		if c.trie.Get(p) != nil && c.trie.Delete(p) {
			removed++
		}
	}
	c.trie.VisitSubtree(key, func(patricia.Prefix, patricia.Item) error {
		removed++
		return nil
	})
	c.trie.DeleteSubtree(key)
	c.entries -= removed
	log.Debugf("Invalidated %d cached suggestion queries for term '%s'", removed, term)
	return removed
}

// Len returns the number of cached queries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries
}

// Stats reports cache counters.
func (c *Cache) Stats() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return map[string]int{
		"cachedQueries": c.entries,
		"maxQueries":    c.maxEntries,
		"cacheHits":     int(c.hits),
		"cacheMisses":   int(c.misses),
	}
}

func (c *Cache) nextAccessTime() int64 {
	c.accessCount++
	return c.accessCount
}

func (c *Cache) evictLRU() {
	var oldestKey patricia.Prefix
	var oldestTime int64 = math.MaxInt64

	c.trie.Visit(func(p patricia.Prefix, item patricia.Item) error {
		if e := item.(*cacheEntry); e.lastAccess < oldestTime {
			oldestTime = e.lastAccess
			oldestKey = append(oldestKey[:0], p...)
		}
		return nil
	})

	if oldestKey != nil && c.trie.Delete(oldestKey) {
		c.entries--
		log.Debugf("Evicted suggestion query '%s' from cache", string(oldestKey))
	}
}
