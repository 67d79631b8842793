package game

import (
	"math/rand/v2"
	"strings"

	"github.com/bastiangx/wordlens/internal/utils"
)

// Synonym is the synonym-matching game for one target word.
type Synonym struct {
	cfg   Config
	rng   *rand.Rand
	board *Scoreboard

	word       string
	synonyms   []string
	correct    map[string]bool
	options    []string
	selections []string
	state      State
}

// NewSynonym creates a game that scores into board. A nil rng gets a
// randomly seeded one.
func NewSynonym(board *Scoreboard, rng *rand.Rand, cfg Config) *Synonym {
	if rng == nil {
		rng = NewRand()
	}
	if board == nil {
		board = &Scoreboard{}
	}
	return &Synonym{
		cfg:   cfg.withDefaults(),
		rng:   rng,
		board: board,
		state: StateNotStarted,
	}
}

// StartRound deals a round for word. It fails with ErrNoSynonyms, leaving
// the game untouched, when synonyms is empty.
func (g *Synonym) StartRound(word string, synonyms []string) error {
	target := utils.Fold(strings.TrimSpace(word))
	correct := make(map[string]bool, len(synonyms))
	unique := make([]string, 0, len(synonyms))
	for _, s := range synonyms {
		s = strings.TrimSpace(s)
		key := utils.Fold(s)
		if s == "" || key == target || correct[key] {
			continue
		}
		correct[key] = true
		unique = append(unique, s)
	}
	if len(unique) == 0 {
		return ErrNoSynonyms
	}

	g.word = word
	g.synonyms = unique
	g.correct = correct
	g.deal()
	return nil
}

// deal draws a fresh option list and starts the round over.
func (g *Synonym) deal() {
	picked := shuffled(g.rng, g.synonyms)
	if len(picked) > g.cfg.RealOptions {
		picked = picked[:g.cfg.RealOptions]
	}

	target := utils.Fold(g.word)
	need := g.cfg.OptionCount - len(picked)
	fakes := make([]string, 0, need)
	seen := make(map[string]bool, need)
	for _, w := range shuffled(g.rng, g.cfg.Distractors) {
		if len(fakes) == need {
			break
		}
		key := utils.Fold(w)
		if g.correct[key] || key == target || seen[key] {
			continue
		}
		seen[key] = true
		fakes = append(fakes, w)
	}

	g.options = shuffled(g.rng, append(picked, fakes...))
	g.selections = nil
	g.state = StateInProgress
}

// Select picks an option. Picks are ignored before a round starts, after it
// ends, for terms already picked and for terms not on the option list.
func (g *Synonym) Select(term string) Verdict {
	if g.state != StateInProgress {
		return VerdictIgnored
	}
	option, ok := g.option(term)
	if !ok || utils.ContainsFold(g.selections, option) {
		return VerdictIgnored
	}

	g.selections = append(g.selections, option)
	if !g.IsCorrect(option) {
		g.state = StateLost
		return VerdictWrong
	}

	g.board.Add(g.cfg.SynonymPoints)
	if g.allCorrectSelected() {
		g.state = StateWon
		return VerdictWon
	}
	return VerdictCorrect
}

// Reset clears the selections and deals a new option list.
func (g *Synonym) Reset() error {
	if g.state == StateNotStarted {
		return ErrNotStarted
	}
	g.deal()
	return nil
}

func (g *Synonym) option(term string) (string, bool) {
	key := utils.Fold(strings.TrimSpace(term))
	for _, opt := range g.options {
		if utils.Fold(opt) == key {
			return opt, true
		}
	}
	return "", false
}

func (g *Synonym) allCorrectSelected() bool {
	for _, opt := range g.options {
		if g.IsCorrect(opt) && !utils.ContainsFold(g.selections, opt) {
			return false
		}
	}
	return true
}

// IsCorrect reports whether term is one of the word's synonyms.
func (g *Synonym) IsCorrect(term string) bool {
	return g.correct[utils.Fold(strings.TrimSpace(term))]
}

// IsSelected reports whether term has been picked this round.
func (g *Synonym) IsSelected(term string) bool {
	return utils.ContainsFold(g.selections, term)
}

// Word returns the target word.
func (g *Synonym) Word() string { return g.word }

// State returns the round state.
func (g *Synonym) State() State { return g.state }

// Options returns the frozen option list in display order.
func (g *Synonym) Options() []string {
	return append([]string(nil), g.options...)
}

// Selections returns the picks in order.
func (g *Synonym) Selections() []string {
	return append([]string(nil), g.selections...)
}

// CorrectCount is the number of correct picks.
func (g *Synonym) CorrectCount() int {
	n := 0
	for _, s := range g.selections {
		if g.IsCorrect(s) {
			n++
		}
	}
	return n
}

// WrongCount is the number of wrong picks.
func (g *Synonym) WrongCount() int {
	return len(g.selections) - g.CorrectCount()
}

// Score returns the shared score.
func (g *Synonym) Score() int {
	return g.board.Total()
}
