package api

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Word is a dictionary entry as served by the API. Clients treat it as an
// immutable snapshot.
type Word struct {
	ID          int          `json:"id"`
	Term        string       `json:"term"`
	Language    string       `json:"language"`
	Phonetic    *string      `json:"phonetic"`
	AudioURL    *string      `json:"audioUrl"`
	ImageURL    *string      `json:"imageUrl"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	Definitions []Definition `json:"definitions"`
	Synonyms    []Reference  `json:"synonyms"`
	Antonyms    []Reference  `json:"antonyms"`
}

// Definition is one meaning of a word.
type Definition struct {
	ID           int       `json:"id"`
	Meaning      string    `json:"meaning"`
	PartOfSpeech string    `json:"partOfSpeech"`
	WordID       int       `json:"wordId"`
	Examples     []Example `json:"examples"`
}

// Example is a usage sentence attached to a definition.
type Example struct {
	ID           int     `json:"id"`
	Sentence     string  `json:"sentence"`
	Translation  *string `json:"translation"`
	DefinitionID int     `json:"definitionId"`
}

// Reference is the shape shared by synonyms and antonyms.
type Reference struct {
	ID     int    `json:"id"`
	Term   string `json:"term"`
	WordID int    `json:"wordId"`
}

// SuggestionItem is a typeahead hit.
type SuggestionItem struct {
	ID   int    `json:"id"`
	Term string `json:"term"`
}

// WordPage is one page of search results.
type WordPage struct {
	Results []Word `json:"results"`
	Total   int    `json:"total"`
}

// SearchParams are the query parameters of GET /words.
type SearchParams struct {
	Query string
	Page  int
	Limit int
}

// values drops empty parameters the way the API expects.
func (p SearchParams) values() url.Values {
	v := url.Values{}
	if q := strings.TrimSpace(p.Query); q != "" {
		v.Set("query", q)
	}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	return v
}

// CreateWordInput is the body of POST /words.
type CreateWordInput struct {
	Term          string   `json:"term"`
	Translation   string   `json:"translation,omitempty"`
	Pronunciation string   `json:"pronunciation,omitempty"`
	Examples      []string `json:"examples,omitempty"`
	Synonyms      []string `json:"synonyms,omitempty"`
	Antonyms      []string `json:"antonyms,omitempty"`
}

// UpdateWordInput is the body of PUT /words/:id. Nil fields are left as is.
type UpdateWordInput struct {
	Term          *string  `json:"term,omitempty"`
	Translation   *string  `json:"translation,omitempty"`
	Pronunciation *string  `json:"pronunciation,omitempty"`
	Examples      []string `json:"examples,omitempty"`
	Synonyms      []string `json:"synonyms,omitempty"`
	Antonyms      []string `json:"antonyms,omitempty"`
}

// Upload is the response of a file upload.
type Upload struct {
	URL string `json:"url"`
}

// SynonymTerms returns the display terms of the word's synonyms.
func (w *Word) SynonymTerms() []string {
	return referenceTerms(w.Synonyms)
}

// AntonymTerms returns the display terms of the word's antonyms.
func (w *Word) AntonymTerms() []string {
	return referenceTerms(w.Antonyms)
}

// FirstMeaning returns the first definition's meaning, or "".
func (w *Word) FirstMeaning() string {
	if len(w.Definitions) == 0 {
		return ""
	}
	return w.Definitions[0].Meaning
}

func referenceTerms(refs []Reference) []string {
	terms := make([]string, 0, len(refs))
	for _, r := range refs {
		terms = append(terms, r.Term)
	}
	return terms
}
