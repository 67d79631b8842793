/*
Package search drives the dictionary search box: debounced suggestions,
debounced paginated search with an exact-term fallback, and the selected
word.

Every suggestion and search request is numbered. When a request completes
after a newer one of the same kind was started, its result is dropped and
the caller gets ErrStale. Starting a request also cancels the context of the
one it supersedes.

Failures are returned to the caller and, for searches, also sent to the
configured notify.Notifier.
*/
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bastiangx/wordlens/internal/logger"
	"github.com/bastiangx/wordlens/internal/utils"
	"github.com/bastiangx/wordlens/pkg/api"
	"github.com/bastiangx/wordlens/pkg/game"
	"github.com/bastiangx/wordlens/pkg/notify"
	"github.com/bastiangx/wordlens/pkg/suggest"
	"github.com/charmbracelet/log"
)

const (
	DefaultSuggestDebounce = 300 * time.Millisecond
	DefaultSearchDebounce  = 600 * time.Millisecond
)

var (
	// ErrStale is returned when a newer request of the same kind replaced
	// this one before it completed. Its result was discarded.
	ErrStale = errors.New("search: superseded by a newer request")
	// ErrFallback wraps the failure of the exact-term lookup that follows an
	// empty result page.
	ErrFallback = errors.New("search: exact-term fallback failed")
	// ErrNoSelection is returned by SetGame when no word is selected.
	ErrNoSelection = errors.New("search: no word selected")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("search: controller closed")
)

// API is the part of the REST client the controller needs.
type API interface {
	SearchWords(ctx context.Context, params api.SearchParams) (*api.WordPage, error)
	WordByTerm(ctx context.Context, term string) (*api.Word, error)
}

// Options configures a Controller. Zero values get defaults.
type Options struct {
	PageSize        int
	MinSuggestLen   int
	SuggestLimit    int
	SuggestDebounce time.Duration
	SearchDebounce  time.Duration

	Scheduler Scheduler
	Notifier  notify.Notifier
	Logger    *log.Logger
}

func (o Options) withDefaults() Options {
	if o.PageSize <= 0 {
		o.PageSize = api.DefaultPageSize
	}
	if o.MinSuggestLen <= 0 {
		o.MinSuggestLen = api.MinSuggestLen
	}
	if o.SuggestLimit <= 0 {
		o.SuggestLimit = api.DefaultSuggestLimit
	}
	if o.SuggestDebounce <= 0 {
		o.SuggestDebounce = DefaultSuggestDebounce
	}
	if o.SearchDebounce <= 0 {
		o.SearchDebounce = DefaultSearchDebounce
	}
	if o.Scheduler == nil {
		o.Scheduler = WallClock
	}
	if o.Notifier == nil {
		o.Notifier = notify.Discard
	}
	o.Logger = logger.Or(o.Logger, "search")
	return o
}

// Controller holds one search session. It is safe for concurrent use; the
// debounce timers call back into it from their own goroutines.
type Controller struct {
	api         API
	suggestions suggest.Source
	opts        Options
	log         *log.Logger

	// ctx parents the requests started by debounce timers.
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool

	query           string
	page            int
	total           int
	results         []api.Word
	selected        *api.Word
	loading         bool
	items           []api.SuggestionItem
	showSuggestions bool
	mode            game.Mode

	suggestTimer Timer
	searchTimer  Timer

	suggestSeq    uint64
	searchSeq     uint64
	cancelSuggest context.CancelFunc
	cancelSearch  context.CancelFunc
}

// New creates a controller. suggestions is usually a *suggest.Cached over
// the API client.
func New(client API, suggestions suggest.Source, opts Options) *Controller {
	opts = opts.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		api:         client,
		suggestions: suggestions,
		opts:        opts,
		log:         opts.Logger,
		ctx:         ctx,
		cancel:      cancel,
		page:        1,
	}
}

// SetQuery records what the user typed and restarts both debounces. An
// empty query clears the results and the selection and drops any pending
// or in-flight search.
func (c *Controller) SetQuery(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.query = text
	trimmed := strings.TrimSpace(text)

	stopTimer(c.suggestTimer)
	c.suggestTimer = c.opts.Scheduler.AfterFunc(c.opts.SuggestDebounce, func() {
		c.suggestDue(trimmed)
	})

	stopTimer(c.searchTimer)
	c.searchTimer = nil
	if trimmed == "" {
		c.invalidateSearch()
		c.results = nil
		c.total = 0
		c.selected = nil
		c.mode = game.ModeNone
		return
	}
	c.searchTimer = c.opts.Scheduler.AfterFunc(c.opts.SearchDebounce, c.searchDue)
}

func (c *Controller) suggestDue(text string) {
	if _, err := c.FetchSuggestions(c.ctx, text); err != nil && !errors.Is(err, ErrStale) {
		c.log.Debug("suggestions failed", "query", text, "err", err)
	}
}

func (c *Controller) searchDue() {
	c.mu.Lock()
	c.page = 1
	c.mu.Unlock()

	if err := c.Search(c.ctx, ""); err != nil && !errors.Is(err, ErrStale) {
		c.log.Debug("debounced search failed", "err", err)
	}
}

// FetchSuggestions loads suggestions for text. On success the list is
// replaced and the panel shown; on failure the list is cleared and the
// panel hidden. Text shorter than MinSuggestLen clears the list and hides
// the panel without a request.
func (c *Controller) FetchSuggestions(ctx context.Context, text string) ([]api.SuggestionItem, error) {
	text = strings.TrimSpace(text)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.invalidateSuggest()
	if utils.TrimmedLen(text) < c.opts.MinSuggestLen {
		c.items = nil
		c.showSuggestions = false
		c.mu.Unlock()
		return nil, nil
	}
	seq := c.suggestSeq
	ctx, cancel := context.WithCancel(ctx)
	c.cancelSuggest = cancel
	c.mu.Unlock()
	defer cancel()

	items, err := c.suggestions.Suggestions(ctx, text, c.opts.SuggestLimit)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.suggestSeq {
		return nil, ErrStale
	}
	c.cancelSuggest = nil
	if err != nil {
		c.items = nil
		c.showSuggestions = false
		return nil, err
	}
	c.items = items
	c.showSuggestions = true
	return append([]api.SuggestionItem(nil), items...), nil
}

// Search runs a search for override, or for the current query when
// override is blank, on the current page. A blank term does nothing.
//
// A single result is selected. An empty page falls back to an exact lookup
// of the term, whose word becomes the only result and the selection.
// Failures clear the results, emit an error notification and are returned.
func (c *Controller) Search(ctx context.Context, override string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	term := strings.TrimSpace(override)
	if term == "" {
		term = strings.TrimSpace(c.query)
	}
	if term == "" {
		c.mu.Unlock()
		return nil
	}

	c.invalidateSearch()
	seq := c.searchSeq
	ctx, cancel := context.WithCancel(ctx)
	c.cancelSearch = cancel
	c.loading = true
	c.mode = game.ModeNone
	c.selected = nil
	page := c.page
	c.mu.Unlock()
	defer cancel()

	c.log.Debug("searching", "term", term, "page", page, "seq", seq)
	res, err := c.fetch(ctx, term, page)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.searchSeq {
		c.log.Debug("dropping stale search", "term", term, "seq", seq)
		return ErrStale
	}
	c.cancelSearch = nil
	c.loading = false

	if err != nil {
		c.results = nil
		c.total = 0
		c.opts.Notifier.Notify(notify.New(notify.LevelError, "Search failed", api.Message(err)))
		return err
	}

	c.results = res.Results
	c.total = res.Total
	if len(res.Results) == 1 {
		w := res.Results[0]
		c.selected = &w
	}
	return nil
}

func (c *Controller) fetch(ctx context.Context, term string, page int) (*api.WordPage, error) {
	res, err := c.api.SearchWords(ctx, api.SearchParams{Query: term, Page: page, Limit: c.opts.PageSize})
	if err != nil {
		return nil, err
	}
	if res != nil && len(res.Results) > 0 {
		return res, nil
	}

	word, err := c.api.WordByTerm(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFallback, err)
	}
	// the lookup may have created the word, so cached suggestions can miss it
	if f, ok := c.suggestions.(forgetter); ok {
		f.Forget(term)
	}
	return &api.WordPage{Results: []api.Word{*word}, Total: 1}, nil
}

// forgetter is implemented by suggestion sources that cache, such as
// *suggest.Cached.
type forgetter interface {
	Forget(term string)
}

// invalidateSearch makes any in-flight search stale. Callers hold c.mu.
func (c *Controller) invalidateSearch() {
	c.searchSeq++
	if c.cancelSearch != nil {
		c.cancelSearch()
		c.cancelSearch = nil
	}
	c.loading = false
}

// invalidateSuggest makes any in-flight suggestion request stale. Callers
// hold c.mu.
func (c *Controller) invalidateSuggest() {
	c.suggestSeq++
	if c.cancelSuggest != nil {
		c.cancelSuggest()
		c.cancelSuggest = nil
	}
}

// ChangePage moves to page n and searches again. n is not range checked;
// PageCount gives the bound.
func (c *Controller) ChangePage(ctx context.Context, n int) error {
	c.mu.Lock()
	c.page = n
	c.mu.Unlock()
	return c.Search(ctx, "")
}

// PageCount is the number of result pages for the current total.
func (c *Controller) PageCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return pageCount(c.total, c.opts.PageSize)
}

func pageCount(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// SelectWord shows w and closes any open game.
func (c *Controller) SelectWord(w api.Word) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = &w
	c.mode = game.ModeNone
}

// HidePanel hides the suggestion list without clearing it.
func (c *Controller) HidePanel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.showSuggestions = false
}

// ChooseSuggestion puts item in the search box and searches for it right
// away.
func (c *Controller) ChooseSuggestion(ctx context.Context, item api.SuggestionItem) error {
	c.mu.Lock()
	c.showSuggestions = false
	c.mu.Unlock()
	return c.SearchFor(ctx, item.Term, 1)
}

// SearchFor replaces the query with term and searches the given page
// immediately. Pending debounces are dropped so the term is not searched
// twice.
func (c *Controller) SearchFor(ctx context.Context, term string, page int) error {
	c.mu.Lock()
	c.query = term
	c.page = page
	stopTimer(c.suggestTimer)
	stopTimer(c.searchTimer)
	c.suggestTimer, c.searchTimer = nil, nil
	c.mu.Unlock()
	return c.Search(ctx, term)
}

// SetGame opens a game panel for the selected word. ModeNone closes it.
func (c *Controller) SetGame(mode game.Mode) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch mode {
	case game.ModeNone:
	case game.ModeAnagram, game.ModeImage:
		if c.selected == nil {
			return ErrNoSelection
		}
	case game.ModeSynonym:
		if c.selected == nil {
			return ErrNoSelection
		}
		if len(c.selected.Synonyms) == 0 {
			return game.ErrNoSynonyms
		}
	default:
		return fmt.Errorf("%w: %q", game.ErrUnknownMode, string(mode))
	}
	c.mode = mode
	return nil
}

// Game returns the open game panel, ModeNone when closed.
func (c *Controller) Game() game.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Close stops the debounces and cancels in-flight requests. Late
// completions are dropped.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	stopTimer(c.suggestTimer)
	stopTimer(c.searchTimer)
	c.invalidateSuggest()
	c.invalidateSearch()
	c.cancel()
}
