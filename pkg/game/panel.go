package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/bastiangx/wordlens/pkg/notify"
)

// Panel holds the games offered for one word and reports their outcomes as
// notifications.
type Panel struct {
	word     string
	synonyms []string
	mode     Mode
	board    *Scoreboard
	anagram  *Anagram
	synonym  *Synonym
	notifier notify.Notifier
}

// NewPanel prepares the games for word. A nil rng gets a randomly seeded
// one; a nil notifier discards notifications.
func NewPanel(word string, synonyms []string, cfg Config, rng *rand.Rand, notifier notify.Notifier) *Panel {
	if rng == nil {
		rng = NewRand()
	}
	if notifier == nil {
		notifier = notify.Discard
	}
	board := &Scoreboard{}
	return &Panel{
		word:     word,
		synonyms: append([]string(nil), synonyms...),
		board:    board,
		anagram:  NewAnagram(word, board, rng, cfg),
		synonym:  NewSynonym(board, rng, cfg),
		notifier: notifier,
	}
}

// Modes lists the games available for the panel's word.
func (p *Panel) Modes() []Mode {
	return Modes(p.synonyms)
}

// Enter switches to mode. The synonym round is dealt on first entry and kept
// across menu visits; the image mode only announces itself.
func (p *Panel) Enter(mode Mode) error {
	switch mode {
	case ModeAnagram:
	case ModeSynonym:
		if p.synonym.State() == StateNotStarted {
			if err := p.synonym.StartRound(p.word, p.synonyms); err != nil {
				return err
			}
		}
	case ModeImage:
		p.notifier.Notify(ImagePlaceholder(p.word))
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, string(mode))
	}
	p.mode = mode
	return nil
}

// Leave returns to the menu. Leaving the anagram clears its solved flag so
// it can be played again.
func (p *Panel) Leave() {
	if p.mode == ModeAnagram {
		p.anagram.Reset()
	}
	p.mode = ModeNone
}

// Guess submits an anagram answer.
func (p *Panel) Guess(answer string) Verdict {
	if p.mode != ModeAnagram {
		return VerdictIgnored
	}
	v := p.anagram.Submit(answer)
	switch v {
	case VerdictSolved:
		p.notifier.Notify(notify.New(notify.LevelSuccess, "Congratulations!", "Anagram solved!"))
	case VerdictRetry:
		p.notifier.Notify(notify.New(notify.LevelError, "Oops!", "Try again!"))
	}
	return v
}

// Pick selects a synonym option.
func (p *Panel) Pick(term string) Verdict {
	if p.mode != ModeSynonym {
		return VerdictIgnored
	}
	v := p.synonym.Select(term)
	switch v {
	case VerdictCorrect:
		p.notifier.Notify(notify.New(notify.LevelSuccess, "Correct!", fmt.Sprintf("%q is a synonym!", term)))
	case VerdictWon:
		p.notifier.Notify(notify.New(notify.LevelSuccess, "Correct!", fmt.Sprintf("%q is a synonym!", term)))
		p.notifier.Notify(notify.New(notify.LevelSuccess, "Perfect victory!", "All synonyms found!"))
	case VerdictWrong:
		p.notifier.Notify(notify.New(notify.LevelError, "Wrong! Game over!", fmt.Sprintf("%q is not a synonym!", term)))
	}
	return v
}

// PlayAgain deals a new synonym round.
func (p *Panel) PlayAgain() error {
	return p.synonym.Reset()
}

// ImagePlaceholder is the notification shown by the image mode until image
// generation exists.
func ImagePlaceholder(word string) notify.Notification {
	return notify.New(notify.LevelInfo, "Image generated!", fmt.Sprintf("Coming soon with AI for %q!", word))
}

// Word returns the panel's word.
func (p *Panel) Word() string { return p.word }

// Mode returns the active game, ModeNone for the menu.
func (p *Panel) Mode() Mode { return p.mode }

// Score returns the points earned in this panel.
func (p *Panel) Score() int { return p.board.Total() }

// Anagram returns the anagram game.
func (p *Panel) Anagram() *Anagram { return p.anagram }

// Synonym returns the synonym game.
func (p *Panel) Synonym() *Synonym { return p.synonym }
