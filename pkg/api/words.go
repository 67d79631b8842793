package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// SearchWords runs a paginated search.
func (c *Client) SearchWords(ctx context.Context, params SearchParams) (*WordPage, error) {
	var page WordPage
	if _, err := c.do(ctx, request{method: http.MethodGet, path: "/words", query: params.values()}, &page); err != nil {
		return nil, err
	}
	if page.Results == nil {
		page.Results = []Word{}
	}
	return &page, nil
}

// Word fetches a word by id.
func (c *Client) Word(ctx context.Context, id int) (*Word, error) {
	var w Word
	if _, err := c.do(ctx, request{method: http.MethodGet, path: "/words/" + strconv.Itoa(id)}, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// WordByTerm looks a term up exactly. The API may create the word when it
// does not exist yet.
func (c *Client) WordByTerm(ctx context.Context, term string) (*Word, error) {
	var w Word
	path := "/words/word/" + url.PathEscape(term)
	if _, err := c.do(ctx, request{method: http.MethodGet, path: path}, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// Suggestions returns typeahead hits for q. Queries shorter than
// MinSuggestLen after trimming return an empty list without a request.
func (c *Client) Suggestions(ctx context.Context, q string, limit int) ([]SuggestionItem, error) {
	q = strings.TrimSpace(q)
	if len([]rune(q)) < MinSuggestLen {
		return []SuggestionItem{}, nil
	}
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}

	query := url.Values{}
	query.Set("q", q)
	query.Set("limit", strconv.Itoa(limit))

	items := []SuggestionItem{}
	if _, err := c.do(ctx, request{method: http.MethodGet, path: "/util/suggestions", query: query}, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []SuggestionItem{}
	}
	return items, nil
}

// CreateWord creates a word.
func (c *Client) CreateWord(ctx context.Context, in CreateWordInput) (*Word, error) {
	if strings.TrimSpace(in.Term) == "" {
		return nil, fmt.Errorf("api: create word: term is required")
	}
	r, err := c.jsonRequest(http.MethodPost, "/words", in)
	if err != nil {
		return nil, err
	}
	var w Word
	if _, err := c.do(ctx, r, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// UpdateWord updates the word with the given id.
func (c *Client) UpdateWord(ctx context.Context, id int, in UpdateWordInput) (*Word, error) {
	r, err := c.jsonRequest(http.MethodPut, "/words/"+strconv.Itoa(id), in)
	if err != nil {
		return nil, err
	}
	var w Word
	if _, err := c.do(ctx, r, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// DeleteWord deletes a word. The deleted word is returned when the API
// echoes it; a bodiless response yields nil.
func (c *Client) DeleteWord(ctx context.Context, id int) (*Word, error) {
	var w Word
	r := request{method: http.MethodDelete, path: "/words/" + strconv.Itoa(id), allowEmpty: true}
	decoded, err := c.do(ctx, r, &w)
	if err != nil {
		return nil, err
	}
	if !decoded {
		return nil, nil
	}
	return &w, nil
}

// Upload posts a file as multipart form data under the "file" field.
func (c *Client) Upload(ctx context.Context, endpoint, filename string, content io.Reader) (*Upload, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("api: upload %s: %w", filename, err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("api: upload %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("api: upload %s: %w", filename, err)
	}

	r := request{
		method:      http.MethodPost,
		path:        "/" + strings.TrimLeft(endpoint, "/"),
		body:        buf.Bytes(),
		contentType: mw.FormDataContentType(),
	}
	var up Upload
	if _, err := c.do(ctx, r, &up); err != nil {
		return nil, err
	}
	return &up, nil
}
