// Package cli is the interactive terminal front-end: a line-based REPL over
// the search controller and the word games.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bastiangx/wordlens/internal/logger"
	"github.com/bastiangx/wordlens/pkg/api"
	"github.com/bastiangx/wordlens/pkg/game"
	"github.com/bastiangx/wordlens/pkg/notify"
	"github.com/bastiangx/wordlens/pkg/search"
	"github.com/charmbracelet/log"
)

const helpText = `Type a word and press Enter to search.
  :s <text>      suggestions for text        :use <n>    search suggestion n
  :n / :p        next / previous page        :page <n>   go to page n
  :open <n>      show result n               :clear      clear the search
  :games         list games for the word     :play <m>   anagram, synonym or image
  :guess <word>  answer the anagram          :pick <n>   pick synonym option n (or its text)
  :again         new synonym round           :menu       back to the word
  :share         text to share the word      :fav        toggle favorite
  :say           pronunciation               :q          quit`

// Options configures an InputHandler.
type Options struct {
	Renderer Renderer
	Rules    game.Config
	Logger   *log.Logger
}

// InputHandler reads commands from a reader and prints to a writer. The
// controller and every game panel report to notes, which is drained after
// each command.
type InputHandler struct {
	ctrl   *search.Controller
	notes  *notify.Channel
	render Renderer
	rules  game.Config
	log    *log.Logger

	in  io.Reader
	out io.Writer

	panel     *game.Panel
	panelID   int
	favorites map[int]bool
}

// NewInputHandler creates a handler. notes must be the notifier the
// controller was built with.
func NewInputHandler(ctrl *search.Controller, notes *notify.Channel, in io.Reader, out io.Writer, opts Options) *InputHandler {
	return &InputHandler{
		ctrl:      ctrl,
		notes:     notes,
		render:    opts.Renderer,
		rules:     opts.Rules,
		log:       logger.Or(opts.Logger, "cli"),
		in:        in,
		out:       out,
		favorites: make(map[int]bool),
	}
}

// Start runs the loop until :q, EOF or ctx is done.
func (h *InputHandler) Start(ctx context.Context) error {
	h.println(termStyle.Render("WordLens") + mutedStyle.Render("  type :help for commands"))
	scanner := bufio.NewScanner(h.in)

	for {
		fmt.Fprint(h.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(h.out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == ":q" || line == ":quit" {
			return nil
		}
		h.handleInput(ctx, line)
		h.drainNotes()
	}
}

// handleInput runs one line: a command when it starts with ':', a search
// otherwise.
func (h *InputHandler) handleInput(ctx context.Context, line string) {
	if !strings.HasPrefix(line, ":") {
		h.search(ctx, line)
		return
	}

	cmd, arg, _ := strings.Cut(line[1:], " ")
	arg = strings.TrimSpace(arg)
	h.log.Debug("command", "cmd", cmd, "arg", arg)

	switch cmd {
	case "help", "h":
		h.println(helpText)
	case "s":
		h.suggest(ctx, arg)
	case "use":
		h.useSuggestion(ctx, arg)
	case "n":
		h.changePage(ctx, h.ctrl.Snapshot().Page+1)
	case "p":
		h.changePage(ctx, h.ctrl.Snapshot().Page-1)
	case "page":
		if n, ok := h.index(arg, h.ctrl.PageCount()); ok {
			h.changePage(ctx, n)
		}
	case "open":
		h.open(arg)
	case "clear":
		h.ctrl.SetQuery("")
		h.panel = nil
		h.println(mutedStyle.Render("Cleared."))
	case "games":
		if p := h.currentPanel(); p != nil {
			h.println(h.render.Menu(p))
		}
	case "play":
		h.play(arg)
	case "guess":
		h.guess(arg)
	case "pick":
		h.pick(arg)
	case "again":
		h.again()
	case "menu":
		h.menu()
	case "share":
		if w := h.selected(); w != nil {
			h.println(ShareText(w))
		}
	case "fav":
		h.toggleFavorite()
	case "say":
		if w := h.selected(); w != nil {
			h.notes.Notify(Pronunciation(w))
		}
	default:
		h.errorf("Unknown command :%s (try :help)", cmd)
	}
}

func (h *InputHandler) search(ctx context.Context, term string) {
	err := h.ctrl.SearchFor(ctx, term, 1)
	if err != nil {
		// the controller already emitted the notification
		h.log.Debug("search failed", "term", term, "err", err)
		return
	}
	h.showSession()
}

func (h *InputHandler) changePage(ctx context.Context, n int) {
	snap := h.ctrl.Snapshot()
	if snap.Query == "" {
		h.errorf("Search for something first.")
		return
	}
	if n < 1 || n > snap.PageCount() {
		h.errorf("No page %d.", n)
		return
	}
	if err := h.ctrl.ChangePage(ctx, n); err == nil {
		h.showSession()
	}
}

func (h *InputHandler) suggest(ctx context.Context, text string) {
	items, err := h.ctrl.FetchSuggestions(ctx, text)
	if err != nil {
		h.errorf("Suggestions unavailable: %s", api.Message(err))
		return
	}
	h.println(h.render.Suggestions(items))
}

func (h *InputHandler) useSuggestion(ctx context.Context, arg string) {
	items := h.ctrl.Snapshot().Suggestions
	n, ok := h.index(arg, len(items))
	if !ok {
		return
	}
	if err := h.ctrl.ChooseSuggestion(ctx, items[n-1]); err == nil {
		h.showSession()
	}
}

func (h *InputHandler) open(arg string) {
	results := h.ctrl.Snapshot().Results
	n, ok := h.index(arg, len(results))
	if !ok {
		return
	}
	h.ctrl.SelectWord(results[n-1])
	h.showSession()
}

func (h *InputHandler) play(arg string) {
	mode, err := game.ParseMode(arg)
	if err != nil {
		h.errorf("Unknown game %q.", arg)
		return
	}
	p := h.currentPanel()
	if p == nil {
		return
	}
	if err := h.ctrl.SetGame(mode); err != nil {
		h.gameError(err)
		return
	}
	if err := p.Enter(mode); err != nil {
		h.ctrl.SetGame(game.ModeNone)
		h.gameError(err)
		return
	}
	h.showGame(p)
}

func (h *InputHandler) guess(answer string) {
	p := h.activePanel(game.ModeAnagram)
	if p == nil {
		return
	}
	p.Guess(answer)
	h.showGame(p)
}

func (h *InputHandler) pick(arg string) {
	p := h.activePanel(game.ModeSynonym)
	if p == nil {
		return
	}
	term := arg
	if n, err := strconv.Atoi(arg); err == nil {
		opts := p.Synonym().Options()
		if n < 1 || n > len(opts) {
			h.errorf("Pick a number between 1 and %d.", len(opts))
			return
		}
		term = opts[n-1]
	}
	if p.Pick(term) == game.VerdictIgnored {
		h.println(mutedStyle.Render("Nothing changed."))
	}
	h.showGame(p)
}

func (h *InputHandler) again() {
	p := h.activePanel(game.ModeSynonym)
	if p == nil {
		return
	}
	if err := p.PlayAgain(); err != nil {
		h.gameError(err)
		return
	}
	h.showGame(p)
}

func (h *InputHandler) menu() {
	p := h.currentPanel()
	if p == nil {
		return
	}
	p.Leave()
	h.ctrl.SetGame(game.ModeNone)
	h.showSession()
	h.println(h.render.Menu(p))
}

func (h *InputHandler) toggleFavorite() {
	w := h.selected()
	if w == nil {
		return
	}
	h.favorites[w.ID] = !h.favorites[w.ID]
	if h.favorites[w.ID] {
		h.notes.Notify(notify.New(notify.LevelSuccess, "Added", fmt.Sprintf("%q added to favorites!", w.Term)))
	} else {
		h.notes.Notify(notify.New(notify.LevelInfo, "Removed", fmt.Sprintf("%q removed from favorites!", w.Term)))
	}
}

// IsFavorite reports whether the word with id was marked this session.
func (h *InputHandler) IsFavorite(id int) bool {
	return h.favorites[id]
}

func (h *InputHandler) selected() *api.Word {
	w := h.ctrl.Snapshot().Selected
	if w == nil {
		h.errorf("No word selected.")
	}
	return w
}

// currentPanel returns the game panel of the selected word, creating a new
// one whenever the selection changes.
func (h *InputHandler) currentPanel() *game.Panel {
	w := h.selected()
	if w == nil {
		return nil
	}
	if h.panel == nil || h.panelID != w.ID {
		h.panel = game.NewPanel(w.Term, w.SynonymTerms(), h.rules, nil, h.notes)
		h.panelID = w.ID
	}
	return h.panel
}

func (h *InputHandler) activePanel(mode game.Mode) *game.Panel {
	p := h.currentPanel()
	if p == nil {
		return nil
	}
	if p.Mode() != mode || h.ctrl.Game() != mode {
		h.errorf("Start it first with :play %s", mode)
		return nil
	}
	return p
}

func (h *InputHandler) showSession() {
	h.println(h.render.Results(h.ctrl.Snapshot()))
}

func (h *InputHandler) showGame(p *game.Panel) {
	switch p.Mode() {
	case game.ModeAnagram:
		h.println(h.render.Anagram(p.Anagram()))
	case game.ModeSynonym:
		h.println(h.render.Synonym(p.Synonym()))
	}
}

func (h *InputHandler) gameError(err error) {
	switch {
	case errors.Is(err, game.ErrNoSynonyms):
		h.errorf("This word has no synonyms to play with.")
	case errors.Is(err, search.ErrNoSelection):
		h.errorf("No word selected.")
	default:
		h.errorf("%v", err)
	}
}

// index parses a 1-based position no greater than limit.
func (h *InputHandler) index(arg string, limit int) (int, bool) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > limit {
		if limit == 0 {
			h.errorf("Nothing to choose from.")
		} else {
			h.errorf("Choose a number between 1 and %d.", limit)
		}
		return 0, false
	}
	return n, true
}

// drainNotes prints whatever notifications are pending.
func (h *InputHandler) drainNotes() {
	for {
		select {
		case n := <-h.notes.C():
			h.println(h.render.Notification(n))
		default:
			return
		}
	}
}

func (h *InputHandler) println(s string) {
	fmt.Fprintln(h.out, s)
}

func (h *InputHandler) errorf(format string, args ...any) {
	h.println(badStyle.Render(fmt.Sprintf(format, args...)))
}
