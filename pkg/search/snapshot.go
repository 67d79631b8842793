package search

import (
	"github.com/bastiangx/wordlens/pkg/api"
	"github.com/bastiangx/wordlens/pkg/game"
)

// Snapshot is a copy of the session state for rendering.
type Snapshot struct {
	Query           string
	Page            int
	PageSize        int
	Total           int
	Results         []api.Word
	Selected        *api.Word
	Loading         bool
	Suggestions     []api.SuggestionItem
	ShowSuggestions bool
	Game            game.Mode
}

// PageCount is the number of result pages.
func (s Snapshot) PageCount() int {
	return pageCount(s.Total, s.PageSize)
}

// Snapshot copies the current state. Words are shared; treat them as read
// only.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Snapshot{
		Query:           c.query,
		Page:            c.page,
		PageSize:        c.opts.PageSize,
		Total:           c.total,
		Results:         append([]api.Word(nil), c.results...),
		Loading:         c.loading,
		Suggestions:     append([]api.SuggestionItem(nil), c.items...),
		ShowSuggestions: c.showSuggestions,
		Game:            c.mode,
	}
	if c.selected != nil {
		w := *c.selected
		s.Selected = &w
	}
	return s
}
