package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bastiangx/wordlens/internal/logger"
	"github.com/bastiangx/wordlens/internal/utils"
	"github.com/bastiangx/wordlens/pkg/api"
	"github.com/bastiangx/wordlens/pkg/search"
	"github.com/bastiangx/wordlens/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Backend is the part of the REST client the server needs.
type Backend interface {
	search.API
	Word(ctx context.Context, id int) (*api.Word, error)
}

// Options tunes request handling. Zero values get defaults.
type Options struct {
	PageSize      int
	SuggestLimit  int
	MinSuggestLen int
	// Timeout bounds each request; zero means no limit beyond the client's.
	Timeout time.Duration
	// APIName is reported by health checks.
	APIName string
	Logger  *log.Logger
}

// Server handles the IPC for dictionary lookups
type Server struct {
	backend     Backend
	suggestions suggest.Source
	searcher    *search.Controller
	opts        Options
	log         *log.Logger

	dec *msgpack.Decoder
	w   *bufio.Writer
	enc *msgpack.Encoder

	handled int
}

// NewServer creates a server reading requests from r and writing responses
// to w, usually stdin and stdout.
func NewServer(backend Backend, suggestions suggest.Source, r io.Reader, w io.Writer, opts Options) *Server {
	if opts.SuggestLimit <= 0 {
		opts.SuggestLimit = api.DefaultSuggestLimit
	}
	if opts.MinSuggestLen <= 0 {
		opts.MinSuggestLen = api.MinSuggestLen
	}
	if opts.PageSize <= 0 {
		opts.PageSize = api.DefaultPageSize
	}
	l := logger.Or(opts.Logger, "ipc")
	bw := bufio.NewWriter(w)
	return &Server{
		backend:     backend,
		suggestions: suggestions,
		searcher: search.New(backend, suggestions, search.Options{
			PageSize:      opts.PageSize,
			MinSuggestLen: opts.MinSuggestLen,
			SuggestLimit:  opts.SuggestLimit,
			Logger:        l,
		}),
		opts: opts,
		log:  l,
		dec:  msgpack.NewDecoder(bufio.NewReader(r)),
		w:    bw,
		enc:  msgpack.NewEncoder(bw),
	}
}

// Start reads requests until EOF or until ctx is done. It returns nil on
// EOF and an error when the input stream is corrupt.
func (s *Server) Start(ctx context.Context) error {
	log.Debug("Starting Server.")
	defer s.searcher.Close()

	if err := s.send(StatusResponse{Status: "ready"}); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		raw, err := s.dec.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Debugf("Input closed after %d requests", s.handled)
				return nil
			}
			s.log.Errorf("Reading request: %v", err)
			return fmt.Errorf("server: reading request: %w", err)
		}

		var req Request
		if err := msgpack.Unmarshal(raw, &req); err != nil {
			s.log.Warnf("Malformed request: %v", err)
			if err := s.sendError("", "Invalid msgpack request", http.StatusBadRequest); err != nil {
				return err
			}
			continue
		}
		if err := s.handleRequest(ctx, req); err != nil {
			return err
		}
		s.handled++
	}
}

// handleRequest dispatches on the action. Only write failures are returned.
func (s *Server) handleRequest(ctx context.Context, req Request) error {
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	s.log.Debug("request", "id", req.ID, "action", req.Action)

	switch req.Action {
	case "suggest":
		return s.handleSuggest(ctx, req, start)
	case "search":
		return s.handleSearch(ctx, req, start)
	case "word":
		if req.WordID <= 0 {
			return s.sendError(req.ID, "Missing 'wid' parameter", http.StatusBadRequest)
		}
		return s.handleWord(req, start, func() (*api.Word, error) {
			return s.backend.Word(ctx, req.WordID)
		})
	case "term":
		term := strings.TrimSpace(req.Query)
		if term == "" {
			return s.sendError(req.ID, "Missing 'q' parameter", http.StatusBadRequest)
		}
		return s.handleWord(req, start, func() (*api.Word, error) {
			w, err := s.backend.WordByTerm(ctx, term)
			if err == nil {
				if f, ok := s.suggestions.(interface{ Forget(string) }); ok {
					f.Forget(term)
				}
			}
			return w, err
		})
	case "health":
		return s.send(s.health(req.ID))
	default:
		return s.sendError(req.ID, fmt.Sprintf("Unknown action: %s", req.Action), http.StatusBadRequest)
	}
}

func (s *Server) handleSuggest(ctx context.Context, req Request, start time.Time) error {
	q := strings.TrimSpace(req.Query)
	limit := req.Limit
	if limit < 1 {
		limit = s.opts.SuggestLimit
	}

	var items []api.SuggestionItem
	if utils.TrimmedLen(q) >= s.opts.MinSuggestLen {
		var err error
		items, err = s.suggestions.Suggestions(ctx, q, limit)
		if err != nil {
			return s.sendFailure(req.ID, err)
		}
	}

	out := make([]Suggestion, 0, len(items))
	for _, it := range items {
		out = append(out, Suggestion{ID: it.ID, Term: it.Term})
	}
	return s.send(SuggestResponse{
		ID:          req.ID,
		Suggestions: out,
		Count:       len(out),
		TimeTaken:   time.Since(start).Microseconds(),
	})
}

func (s *Server) handleSearch(ctx context.Context, req Request, start time.Time) error {
	if strings.TrimSpace(req.Query) == "" {
		return s.sendError(req.ID, "Missing 'q' parameter", http.StatusBadRequest)
	}
	page := req.Page
	if page < 1 {
		page = 1
	}

	if err := s.searcher.SearchFor(ctx, req.Query, page); err != nil {
		return s.sendFailure(req.ID, err)
	}

	snap := s.searcher.Snapshot()
	resp := SearchResponse{
		ID:        req.ID,
		Results:   make([]WordSummary, 0, len(snap.Results)),
		Total:     snap.Total,
		Page:      snap.Page,
		Pages:     snap.PageCount(),
		TimeTaken: time.Since(start).Microseconds(),
	}
	for i := range snap.Results {
		w := &snap.Results[i]
		resp.Results = append(resp.Results, WordSummary{ID: w.ID, Term: w.Term, Meaning: w.FirstMeaning()})
	}
	if snap.Selected != nil {
		entry := toEntry(snap.Selected)
		resp.Selected = &entry
	}
	return s.send(resp)
}

func (s *Server) handleWord(req Request, start time.Time, fetch func() (*api.Word, error)) error {
	w, err := fetch()
	if err != nil {
		return s.sendFailure(req.ID, err)
	}
	return s.send(WordResponse{
		ID:        req.ID,
		Word:      toEntry(w),
		TimeTaken: time.Since(start).Microseconds(),
	})
}

func (s *Server) health(id string) StatusResponse {
	resp := StatusResponse{ID: id, Status: "ok", API: s.opts.APIName}
	if cached, ok := s.suggestions.(interface{ Cache() *suggest.Cache }); ok {
		resp.Cache = cached.Cache().Stats()
	}
	return resp
}

func toEntry(w *api.Word) WordEntry {
	entry := WordEntry{
		ID:          w.ID,
		Term:        w.Term,
		Language:    w.Language,
		Definitions: make([]DefinitionEntry, 0, len(w.Definitions)),
		Synonyms:    w.SynonymTerms(),
		Antonyms:    w.AntonymTerms(),
	}
	if w.Phonetic != nil {
		entry.Phonetic = *w.Phonetic
	}
	if w.AudioURL != nil {
		entry.AudioURL = *w.AudioURL
	}
	for _, d := range w.Definitions {
		def := DefinitionEntry{Meaning: d.Meaning, PartOfSpeech: d.PartOfSpeech}
		for _, ex := range d.Examples {
			def.Examples = append(def.Examples, ex.Sentence)
		}
		entry.Definitions = append(entry.Definitions, def)
	}
	return entry
}

// errorCode maps a client error onto the code reported to the plugin.
func errorCode(err error) int {
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, api.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) sendFailure(id string, err error) error {
	s.log.Debug("request failed", "id", id, "err", err)
	return s.sendError(id, api.Message(err), errorCode(err))
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) error {
	return s.send(ErrorResponse{ID: id, Error: message, Code: code})
}

// send encodes one response and flushes it so the client sees it at once.
func (s *Server) send(v any) error {
	if err := s.enc.Encode(v); err != nil {
		s.log.Errorf("Encoding response: %v", err)
		return fmt.Errorf("server: encoding response: %w", err)
	}
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("server: writing response: %w", err)
	}
	return nil
}
