// Package suggest provides typeahead sources for the dictionary: the remote
// API wrapped in a prefix-indexed response cache.
package suggest

import (
	"context"

	"github.com/bastiangx/wordlens/pkg/api"
)

// Source returns typeahead suggestions for a query.
type Source interface {
	Suggestions(ctx context.Context, q string, limit int) ([]api.SuggestionItem, error)
}
