package game

import (
	"math/rand/v2"

	"github.com/bastiangx/wordlens/internal/utils"
)

const maxScrambleAttempts = 8

// Anagram asks the player to unscramble a word.
type Anagram struct {
	word      string
	scrambled string
	solved    bool
	points    int
	board     *Scoreboard
}

// NewAnagram scrambles word. A nil rng gets a randomly seeded one.
func NewAnagram(word string, board *Scoreboard, rng *rand.Rand, cfg Config) *Anagram {
	if rng == nil {
		rng = NewRand()
	}
	if board == nil {
		board = &Scoreboard{}
	}
	return &Anagram{
		word:      word,
		scrambled: scramble(rng, word),
		points:    cfg.withDefaults().AnagramPoints,
		board:     board,
	}
}

// scramble shuffles the letters of word, retrying a few times when the
// shuffle happens to return the word itself.
func scramble(rng *rand.Rand, word string) string {
	letters := []rune(word)
	out := word
	for range maxScrambleAttempts {
		rng.Shuffle(len(letters), func(i, j int) { letters[i], letters[j] = letters[j], letters[i] })
		out = string(letters)
		if out != word {
			break
		}
	}
	return out
}

// Submit checks an answer. A case-insensitive exact match solves the
// anagram and scores; anything else asks for a retry and changes nothing.
// Answers after solving are ignored.
func (a *Anagram) Submit(answer string) Verdict {
	if a.solved {
		return VerdictIgnored
	}
	if !utils.EqualFold(answer, a.word) {
		return VerdictRetry
	}
	a.solved = true
	a.board.Add(a.points)
	return VerdictSolved
}

// Reset clears the solved flag, keeping the same scramble.
func (a *Anagram) Reset() {
	a.solved = false
}

// Word returns the answer.
func (a *Anagram) Word() string { return a.word }

// Scrambled returns the shuffled letters.
func (a *Anagram) Scrambled() string { return a.scrambled }

// Solved reports whether the anagram has been solved.
func (a *Anagram) Solved() bool { return a.solved }

// Score returns the shared score.
func (a *Anagram) Score() int { return a.board.Total() }
