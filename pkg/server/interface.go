/*
Package server implements msgpack IPC for dictionary lookups.

Editor plugins start the binary with -ipc, write msgpack requests to its
stdin and read msgpack responses from stdout. Requests are handled one at a
time, in order, and every response carries the request id and the time taken
in microseconds.

# IPC

A request names an action and its arguments:

	{"id": "r1", "action": "suggest", "q": "ga", "l": 5}
	{"id": "r2", "action": "search", "q": "gato", "p": 1}
	{"id": "r3", "action": "word", "wid": 42}
	{"id": "r4", "action": "term", "q": "gato"}
	{"id": "r5", "action": "health"}

suggest returns at most l suggestions; queries shorter than two characters
return an empty list without reaching the API.

search returns one page of results. An empty page falls back to an exact
lookup of the term, and a single result is returned as the selected word.

word and term return one full entry.

Failures are reported as

	{"id": "r2", "e": "Unauthorized.", "c": 401}

where c is 400 for a bad request, 401 when the API rejects the credentials,
404 when the word does not exist and 502 for any other upstream failure.

The server writes {"status": "ready"} once it starts reading.
*/
package server

// Request is any client message. Unused fields are omitted by the client.
type Request struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"action"`
	Query  string `msgpack:"q,omitempty"`
	Page   int    `msgpack:"p,omitempty"`
	Limit  int    `msgpack:"l,omitempty"`
	WordID int    `msgpack:"wid,omitempty"`
}

// Suggestion is a typeahead hit.
type Suggestion struct {
	ID   int    `msgpack:"i"`
	Term string `msgpack:"w"`
}

// SuggestResponse answers a suggest request.
type SuggestResponse struct {
	ID          string       `msgpack:"id"`
	Suggestions []Suggestion `msgpack:"s"`
	Count       int          `msgpack:"c"`
	TimeTaken   int64        `msgpack:"t"`
}

// WordSummary is a search hit.
type WordSummary struct {
	ID      int    `msgpack:"i"`
	Term    string `msgpack:"w"`
	Meaning string `msgpack:"m,omitempty"`
}

// SearchResponse answers a search request.
type SearchResponse struct {
	ID        string        `msgpack:"id"`
	Results   []WordSummary `msgpack:"r"`
	Total     int           `msgpack:"n"`
	Page      int           `msgpack:"p"`
	Pages     int           `msgpack:"pp"`
	Selected  *WordEntry    `msgpack:"sel,omitempty"`
	TimeTaken int64         `msgpack:"t"`
}

// DefinitionEntry is one meaning of a word.
type DefinitionEntry struct {
	Meaning      string   `msgpack:"m"`
	PartOfSpeech string   `msgpack:"pos,omitempty"`
	Examples     []string `msgpack:"ex,omitempty"`
}

// WordEntry is a full dictionary entry.
type WordEntry struct {
	ID          int               `msgpack:"i"`
	Term        string            `msgpack:"w"`
	Language    string            `msgpack:"lang,omitempty"`
	Phonetic    string            `msgpack:"ph,omitempty"`
	AudioURL    string            `msgpack:"audio,omitempty"`
	Definitions []DefinitionEntry `msgpack:"d"`
	Synonyms    []string          `msgpack:"syn,omitempty"`
	Antonyms    []string          `msgpack:"ant,omitempty"`
}

// WordResponse answers word and term requests.
type WordResponse struct {
	ID        string    `msgpack:"id"`
	Word      WordEntry `msgpack:"word"`
	TimeTaken int64     `msgpack:"t"`
}

// StatusResponse is sent on startup and for health checks.
type StatusResponse struct {
	ID     string         `msgpack:"id,omitempty"`
	Status string         `msgpack:"status"`
	API    string         `msgpack:"api,omitempty"`
	Cache  map[string]int `msgpack:"cache,omitempty"`
}

// ErrorResponse holds basic error information for any request.
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
