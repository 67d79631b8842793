package server

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bastiangx/wordlens/internal/logger"
	"github.com/bastiangx/wordlens/pkg/api"
	"github.com/bastiangx/wordlens/pkg/suggest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

const gatoJSON = `{"id": 7, "term": "gato", "language": "pt", "phonetic": "/ˈɡa.tu/",
	"definitions": [{"id": 1, "meaning": "Mamífero felino.", "partOfSpeech": "substantivo", "wordId": 7,
		"examples": [{"id": 3, "sentence": "O gato dorme.", "definitionId": 1}]}],
	"synonyms": [{"id": 11, "term": "bichano", "wordId": 7}], "antonyms": []}`

type fakeAPI struct {
	suggestCalls atomic.Int32
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.URL.Path == "/util/suggestions":
		f.suggestCalls.Add(1)
		io.WriteString(w, `[{"id": 7, "term": "gato"}, {"id": 8, "term": "Gato"}, {"id": 9, "term": "gatinho"}]`)
	case r.URL.Path == "/words" && r.URL.Query().Get("query") == "gato":
		io.WriteString(w, `{"results": [`+gatoJSON+`], "total": 1}`)
	case r.URL.Path == "/words" && r.URL.Query().Get("query") == "ga":
		io.WriteString(w, `{"results": [{"id": 1, "term": "galo"}, {"id": 7, "term": "gato"}], "total": 12}`)
	case r.URL.Path == "/words" && r.URL.Query().Get("query") == "secret":
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"message": "Token expired"}`)
	case r.URL.Path == "/words":
		io.WriteString(w, `{"results": [], "total": 0}`)
	case r.URL.Path == "/words/word/gatos":
		io.WriteString(w, gatoJSON)
	case r.URL.Path == "/words/7":
		io.WriteString(w, gatoJSON)
	case r.URL.Path == "/words/500":
		w.WriteHeader(http.StatusInternalServerError)
	default:
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"message": "Word not found"}`)
	}
}

// run feeds reqs to a fresh server and returns the decoder positioned after
// the ready message.
func run(t *testing.T, reqs ...any) (*msgpack.Decoder, *fakeAPI) {
	t.Helper()
	fake := &fakeAPI{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL, api.WithLogger(logger.Discard()), api.WithRetryDelay(time.Millisecond))
	source := suggest.NewCached(client, suggest.NewCache(8))

	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, r := range reqs {
		require.NoError(t, enc.Encode(r))
	}

	var out bytes.Buffer
	s := NewServer(client, source, &in, &out, Options{APIName: srv.URL, Logger: logger.Discard()})
	require.NoError(t, s.Start(context.Background()))

	dec := msgpack.NewDecoder(&out)
	var ready StatusResponse
	require.NoError(t, dec.Decode(&ready))
	require.Equal(t, "ready", ready.Status)
	return dec, fake
}

func TestServer_Suggest(t *testing.T) {
	dec, fake := run(t,
		Request{ID: "1", Action: "suggest", Query: "ga"},
		Request{ID: "2", Action: "suggest", Query: "GA", Limit: 1},
		Request{ID: "3", Action: "suggest", Query: " g "},
	)

	var first SuggestResponse
	require.NoError(t, dec.Decode(&first))
	assert.Equal(t, "1", first.ID)
	assert.Equal(t, []Suggestion{{ID: 7, Term: "gato"}, {ID: 9, Term: "gatinho"}}, first.Suggestions)
	assert.Equal(t, 2, first.Count)

	var cached SuggestResponse
	require.NoError(t, dec.Decode(&cached))
	assert.Equal(t, []Suggestion{{ID: 7, Term: "gato"}}, cached.Suggestions)

	var short SuggestResponse
	require.NoError(t, dec.Decode(&short))
	assert.Equal(t, "3", short.ID)
	assert.Empty(t, short.Suggestions)

	assert.Equal(t, int32(1), fake.suggestCalls.Load())
}

func TestServer_Search(t *testing.T) {
	dec, _ := run(t,
		Request{ID: "a", Action: "search", Query: "gato"},
		Request{ID: "b", Action: "search", Query: "ga", Page: 2},
		Request{ID: "c", Action: "search", Query: "gatos"},
		Request{ID: "d", Action: "search", Query: "xyz"},
	)

	var single SearchResponse
	require.NoError(t, dec.Decode(&single))
	assert.Equal(t, 1, single.Total)
	require.NotNil(t, single.Selected)
	assert.Equal(t, "gato", single.Selected.Term)
	assert.Equal(t, "/ˈɡa.tu/", single.Selected.Phonetic)
	assert.Equal(t, []string{"bichano"}, single.Selected.Synonyms)
	assert.Equal(t, []string{"O gato dorme."}, single.Selected.Definitions[0].Examples)

	var many SearchResponse
	require.NoError(t, dec.Decode(&many))
	assert.Equal(t, "b", many.ID)
	assert.Len(t, many.Results, 2)
	assert.Equal(t, 2, many.Page)
	assert.Equal(t, 2, many.Pages)
	assert.Nil(t, many.Selected)

	var fallback SearchResponse
	require.NoError(t, dec.Decode(&fallback))
	assert.Equal(t, 1, fallback.Total)
	require.Len(t, fallback.Results, 1)
	assert.Equal(t, "gato", fallback.Results[0].Term)
	require.NotNil(t, fallback.Selected)

	var missing ErrorResponse
	require.NoError(t, dec.Decode(&missing))
	assert.Equal(t, ErrorResponse{ID: "d", Error: "Word not found", Code: 404}, missing)
}

func TestServer_Errors(t *testing.T) {
	dec, _ := run(t,
		Request{ID: "1", Action: "search", Query: "secret"},
		Request{ID: "2", Action: "word", WordID: 500},
		Request{ID: "3", Action: "word"},
		Request{ID: "4", Action: "term"},
		Request{ID: "5", Action: "fly"},
		map[string]any{"id": 6, "action": []int{1}},
	)

	want := []ErrorResponse{
		{ID: "1", Error: "Token expired", Code: 401},
		{ID: "2", Error: api.DefaultErrorMessage, Code: 502},
		{ID: "3", Error: "Missing 'wid' parameter", Code: 400},
		{ID: "4", Error: "Missing 'q' parameter", Code: 400},
		{ID: "5", Error: "Unknown action: fly", Code: 400},
		{ID: "", Error: "Invalid msgpack request", Code: 400},
	}
	for _, w := range want {
		var got ErrorResponse
		require.NoError(t, dec.Decode(&got))
		assert.Equal(t, w, got)
	}
}

func TestServer_WordAndHealth(t *testing.T) {
	dec, _ := run(t,
		Request{ID: "w", Action: "word", WordID: 7},
		Request{ID: "t", Action: "term", Query: "gatos"},
		Request{ID: "h", Action: "health"},
	)

	for _, id := range []string{"w", "t"} {
		var resp WordResponse
		require.NoError(t, dec.Decode(&resp))
		assert.Equal(t, id, resp.ID)
		assert.Equal(t, 7, resp.Word.ID)
		assert.Equal(t, "pt", resp.Word.Language)
	}

	var health StatusResponse
	require.NoError(t, dec.Decode(&health))
	assert.Equal(t, "ok", health.Status)
	assert.Contains(t, health.API, "http://")
	assert.Equal(t, 8, health.Cache["maxQueries"])
}

func TestServer_TermLookupRefreshesSuggestions(t *testing.T) {
	dec, fake := run(t,
		Request{ID: "1", Action: "suggest", Query: "ga"},
		Request{ID: "2", Action: "term", Query: "gatos"},
		Request{ID: "3", Action: "suggest", Query: "ga"},
	)

	var first SuggestResponse
	require.NoError(t, dec.Decode(&first))
	var word WordResponse
	require.NoError(t, dec.Decode(&word))
	assert.Equal(t, "2", word.ID)
	var again SuggestResponse
	require.NoError(t, dec.Decode(&again))
	assert.Equal(t, "3", again.ID)

	assert.Equal(t, int32(2), fake.suggestCalls.Load())
}

func TestServer_StopsOnCancelledContext(t *testing.T) {
	var in, out bytes.Buffer
	require.NoError(t, msgpack.NewEncoder(&in).Encode(Request{ID: "1", Action: "health"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewServer(nil, nil, &in, &out, Options{Logger: logger.Discard()})
	require.NoError(t, s.Start(ctx))

	var ready StatusResponse
	dec := msgpack.NewDecoder(&out)
	require.NoError(t, dec.Decode(&ready))
	assert.Error(t, dec.Decode(&ready))
}
