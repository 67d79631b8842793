package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/bastiangx/wordlens/internal/logger"
	"github.com/bastiangx/wordlens/pkg/api"
	"github.com/bastiangx/wordlens/pkg/game"
	"github.com/bastiangx/wordlens/pkg/notify"
	"github.com/bastiangx/wordlens/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

var feliz = api.Word{
	ID:       4,
	Term:     "feliz",
	Language: "pt",
	Phonetic: ptr("/feˈlis/"),
	Definitions: []api.Definition{
		{ID: 1, Meaning: "Que sente alegria.", PartOfSpeech: "adjetivo",
			Examples: []api.Example{{ID: 1, Sentence: "Ela está feliz.", Translation: ptr("She is happy.")}}},
		{ID: 2, Meaning: "Bem-sucedido."},
	},
	Synonyms: []api.Reference{{ID: 1, Term: "alegre"}, {ID: 2, Term: "contente"}},
	Antonyms: []api.Reference{{ID: 3, Term: "triste"}},
}

type fakeAPI struct{}

func (fakeAPI) SearchWords(ctx context.Context, p api.SearchParams) (*api.WordPage, error) {
	switch p.Query {
	case "feliz":
		return &api.WordPage{Results: []api.Word{feliz}, Total: 1}, nil
	case "fe":
		return &api.WordPage{Results: []api.Word{{ID: 9, Term: "feio"}, feliz}, Total: 2}, nil
	}
	return &api.WordPage{}, nil
}

func (fakeAPI) WordByTerm(ctx context.Context, term string) (*api.Word, error) {
	return nil, &api.Error{Status: 404, Message: "Word not found"}
}

type fakeSuggest struct{}

func (fakeSuggest) Suggestions(ctx context.Context, q string, limit int) ([]api.SuggestionItem, error) {
	return []api.SuggestionItem{{ID: 4, Term: "feliz"}, {ID: 5, Term: "felicidade"}}, nil
}

func runLines(t *testing.T, lines ...string) (string, *InputHandler) {
	t.Helper()
	notes := notify.NewChannel(32, logger.Discard())
	ctrl := search.New(fakeAPI{}, fakeSuggest{}, search.Options{Notifier: notes, Logger: logger.Discard()})
	t.Cleanup(ctrl.Close)

	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	h := NewInputHandler(ctrl, notes, in, &out, Options{Rules: game.DefaultConfig(), Logger: logger.Discard()})
	require.NoError(t, h.Start(context.Background()))
	return out.String(), h
}

func TestRenderer_Word(t *testing.T) {
	r := Renderer{PreviewDefinitions: 1, PreviewSynonyms: 1}
	out := r.Word(&feliz)

	for _, want := range []string{"feliz", "/feˈlis/", "(adjetivo) Que sente alegria.", "Ela está feliz.", "She is happy.", "+1 more", "alegre", "(+1)", "triste"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "Bem-sucedido.")
	assert.NotContains(t, out, "contente")
}

func TestRenderer_Results(t *testing.T) {
	r := Renderer{}
	out := r.Results(search.Snapshot{
		Results:  []api.Word{{ID: 1, Term: "feio"}, feliz},
		Total:    12,
		Page:     1,
		PageSize: 10,
	})
	assert.Contains(t, out, "12 results")
	assert.Contains(t, out, "page 1/2")
	assert.Contains(t, out, " 2. ")
	assert.Contains(t, out, "Que sente alegria.")

	assert.Contains(t, r.Results(search.Snapshot{}), "No results.")
}

func TestShareTextAndPronunciation(t *testing.T) {
	assert.Equal(t, "feliz: Que sente alegria.\n\nVia WordLens", ShareText(&feliz))

	assert.Equal(t, "feliz /feˈlis/", Pronunciation(&feliz).Message)
	withAudio := feliz
	withAudio.AudioURL = ptr("https://cdn.example.com/feliz.mp3")
	assert.Equal(t, "https://cdn.example.com/feliz.mp3", Pronunciation(&withAudio).Message)
	assert.Equal(t, "pedra", Pronunciation(&api.Word{Term: "pedra"}).Message)
}

func TestInputHandler_SearchAndOpen(t *testing.T) {
	out, _ := runLines(t, "fe", ":open 2", ":share")

	assert.Contains(t, out, "2 results")
	assert.Contains(t, out, "feio")
	assert.Contains(t, out, "Que sente alegria.")
	assert.Contains(t, out, "Via WordLens")
}

func TestInputHandler_FallbackFailureNotifies(t *testing.T) {
	out, _ := runLines(t, "xyz")
	assert.Contains(t, out, "Search failed")
	assert.Contains(t, out, "Word not found")
}

func TestInputHandler_SuggestionsAndUse(t *testing.T) {
	out, _ := runLines(t, ":s fe", ":use 1", ":use 7")

	assert.Contains(t, out, " 1. feliz")
	assert.Contains(t, out, "felicidade")
	assert.Contains(t, out, "Que sente alegria.")
	assert.Contains(t, out, "Choose a number between 1 and 2.")
}

func TestInputHandler_ShortSuggestionQuery(t *testing.T) {
	out, h := runLines(t, ":s f")

	assert.Contains(t, out, "No suggestions.")
	assert.NotContains(t, out, "felicidade")
	assert.False(t, h.ctrl.Snapshot().ShowSuggestions)
}

func TestInputHandler_AnagramGame(t *testing.T) {
	out, _ := runLines(t, "feliz", ":guess feliz", ":games", ":play anagram", ":guess zilef", ":guess FELIZ", ":menu")

	assert.Contains(t, out, "Start it first with :play anagram")
	assert.Contains(t, out, "anagram, synonym, image")
	assert.Contains(t, out, "Try again!")
	assert.Contains(t, out, "Anagram solved!")
	assert.Contains(t, out, "solved!")
	assert.Contains(t, out, "score 10")
}

func TestInputHandler_SynonymGame(t *testing.T) {
	out, _ := runLines(t, "feliz", ":play synonym", ":pick alegre", ":pick contente", ":pick alegre", ":again")

	assert.Contains(t, out, `Which are synonyms of "feliz"?`)
	assert.Contains(t, out, "Perfect victory!")
	assert.Contains(t, out, "You won!")
	assert.Contains(t, out, "Nothing changed.")
	assert.Contains(t, out, "0 correct, 0 wrong, score 16")
}

func TestInputHandler_FavoritesAndErrors(t *testing.T) {
	out, h := runLines(t, ":fav", ":bogus", "feliz", ":fav", ":say", ":play chess", ":n")

	assert.Contains(t, out, "No word selected.")
	assert.Contains(t, out, "Unknown command :bogus")
	assert.Contains(t, out, `"feliz" added to favorites!`)
	assert.Contains(t, out, "feliz /feˈlis/")
	assert.Contains(t, out, `Unknown game "chess".`)
	assert.Contains(t, out, "No page 2.")
	assert.True(t, h.IsFavorite(4))
}

func TestInputHandler_Quit(t *testing.T) {
	out, _ := runLines(t, ":q", "feliz")
	assert.NotContains(t, out, "Que sente alegria.")
}
