/*
Package game implements the word games offered next to a dictionary entry.

# Synonym game

A round shows a fixed set of options mixing real synonyms of the target word
with distractors. Every correct pick scores; a single wrong pick ends the
round.

	board := &game.Scoreboard{}
	g := game.NewSynonym(board, nil, game.DefaultConfig())
	err := g.StartRound("feliz", []string{"alegre", "contente"})
	verdict := g.Select("alegre")

The option list is frozen for the round; Reset deals a new one.

# Anagram

The target word's letters are scrambled; an exact case-insensitive answer
solves it. Wrong answers cost nothing.

# Panel

Panel ties the games of one word together: the active mode, a shared score
and the notifications a front-end shows as toasts.

None of the types here are safe for concurrent use.
*/
package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// State is the lifecycle of a synonym round.
type State string

const (
	StateNotStarted State = "not_started"
	StateInProgress State = "in_progress"
	StateWon        State = "won"
	StateLost       State = "lost"
)

// Over reports whether the round has ended.
func (s State) Over() bool {
	return s == StateWon || s == StateLost
}

// Verdict is the result of a single move.
type Verdict string

const (
	// VerdictIgnored means the move changed nothing.
	VerdictIgnored Verdict = "ignored"
	VerdictCorrect Verdict = "correct"
	VerdictWrong   Verdict = "wrong"
	VerdictWon     Verdict = "won"
	// VerdictRetry is an incorrect anagram answer.
	VerdictRetry  Verdict = "retry"
	VerdictSolved Verdict = "solved"
)

// Mode is a game offered in the word panel.
type Mode string

const (
	ModeNone    Mode = ""
	ModeAnagram Mode = "anagram"
	ModeSynonym Mode = "synonym"
	ModeImage   Mode = "image"
)

var (
	// ErrNoSynonyms is returned when a synonym round has nothing to ask.
	ErrNoSynonyms = errors.New("game: word has no synonyms")
	// ErrNotStarted is returned by Reset before the first round.
	ErrNotStarted = errors.New("game: no round started")
	// ErrUnknownMode is returned for an unrecognised mode name.
	ErrUnknownMode = errors.New("game: unknown mode")
)

// ParseMode maps a name to a Mode.
func ParseMode(name string) (Mode, error) {
	switch m := Mode(name); m {
	case ModeAnagram, ModeSynonym, ModeImage:
		return m, nil
	}
	return ModeNone, fmt.Errorf("%w: %q", ErrUnknownMode, name)
}

// Modes lists the games available for a word. The synonym game needs at
// least one synonym.
func Modes(synonyms []string) []Mode {
	modes := []Mode{ModeAnagram}
	if len(synonyms) > 0 {
		modes = append(modes, ModeSynonym)
	}
	return append(modes, ModeImage)
}

// Config tunes the games.
type Config struct {
	OptionCount   int
	RealOptions   int
	SynonymPoints int
	AnagramPoints int
	// Distractors replaces the built-in pool when non-empty.
	Distractors []string
}

// DefaultConfig returns the standard rules: four options, at most two real
// synonyms, 8 points per synonym and 10 per anagram.
func DefaultConfig() Config {
	return Config{
		OptionCount:   4,
		RealOptions:   2,
		SynonymPoints: 8,
		AnagramPoints: 10,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.OptionCount < 1 {
		c.OptionCount = def.OptionCount
	}
	if c.RealOptions < 1 {
		c.RealOptions = def.RealOptions
	}
	if c.RealOptions > c.OptionCount {
		c.RealOptions = c.OptionCount
	}
	if c.SynonymPoints <= 0 {
		c.SynonymPoints = def.SynonymPoints
	}
	if c.AnagramPoints <= 0 {
		c.AnagramPoints = def.AnagramPoints
	}
	if len(c.Distractors) == 0 {
		c.Distractors = DistractorPool()
	}
	return c
}

// Scoreboard accumulates points across the games of one panel.
type Scoreboard struct {
	total int
}

// Add adds points to the total.
func (s *Scoreboard) Add(points int) {
	s.total += points
}

// Total returns the accumulated points.
func (s *Scoreboard) Total() int {
	return s.total
}

// NewRand returns a randomly seeded source for shuffles.
func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func shuffled(rng *rand.Rand, in []string) []string {
	out := append([]string(nil), in...)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
