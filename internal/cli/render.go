package cli

import (
	"fmt"
	"strings"

	"github.com/bastiangx/wordlens/pkg/api"
	"github.com/bastiangx/wordlens/pkg/game"
	"github.com/bastiangx/wordlens/pkg/notify"
	"github.com/bastiangx/wordlens/pkg/search"
	"github.com/charmbracelet/lipgloss"
)

var (
	textColor  = lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}
	pineColor  = lipgloss.AdaptiveColor{Light: "#286983", Dark: "#9ccfd8"}
	goldColor  = lipgloss.AdaptiveColor{Light: "#ea9d34", Dark: "#f6c177"}
	loveColor  = lipgloss.AdaptiveColor{Light: "#b4637a", Dark: "#eb6f92"}
	mutedColor = lipgloss.AdaptiveColor{Light: "#9893a5", Dark: "#6e6a86"}

	termStyle     = lipgloss.NewStyle().Bold(true).Foreground(pineColor)
	phoneticStyle = lipgloss.NewStyle().Italic(true).Foreground(mutedColor)
	labelStyle    = lipgloss.NewStyle().Bold(true).Foreground(goldColor)
	textStyle     = lipgloss.NewStyle().Foreground(textColor)
	mutedStyle    = lipgloss.NewStyle().Foreground(mutedColor)
	goodStyle     = lipgloss.NewStyle().Bold(true).Foreground(pineColor)
	badStyle      = lipgloss.NewStyle().Bold(true).Foreground(loveColor)
	cardStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(mutedColor).Padding(0, 1)
)

// ShareFooter closes the text produced by ShareText.
const ShareFooter = "Via WordLens"

// Renderer turns session state into terminal text.
type Renderer struct {
	// PreviewDefinitions caps the definitions on a word card; 0 shows all.
	PreviewDefinitions int
	// PreviewSynonyms caps the synonyms and antonyms listed; 0 shows all.
	PreviewSynonyms int
}

// Word renders a word card.
func (r Renderer) Word(w *api.Word) string {
	var b strings.Builder
	b.WriteString(termStyle.Render(w.Term))
	if w.Phonetic != nil && *w.Phonetic != "" {
		b.WriteString("  " + phoneticStyle.Render(*w.Phonetic))
	}
	if w.Language != "" {
		b.WriteString("  " + mutedStyle.Render("["+w.Language+"]"))
	}
	b.WriteString("\n")

	defs := w.Definitions
	if r.PreviewDefinitions > 0 && len(defs) > r.PreviewDefinitions {
		defs = defs[:r.PreviewDefinitions]
	}
	for i, d := range defs {
		line := fmt.Sprintf("%d. %s", i+1, d.Meaning)
		if d.PartOfSpeech != "" {
			line = fmt.Sprintf("%d. (%s) %s", i+1, d.PartOfSpeech, d.Meaning)
		}
		b.WriteString("\n" + textStyle.Render(line))
		for _, ex := range d.Examples {
			example := "   “" + ex.Sentence + "”"
			if ex.Translation != nil && *ex.Translation != "" {
				example += " - " + *ex.Translation
			}
			b.WriteString("\n" + mutedStyle.Render(example))
		}
	}
	if hidden := len(w.Definitions) - len(defs); hidden > 0 {
		b.WriteString("\n" + mutedStyle.Render(fmt.Sprintf("   +%d more", hidden)))
	}

	if syn := r.terms(w.SynonymTerms()); syn != "" {
		b.WriteString("\n\n" + labelStyle.Render("Synonyms: ") + syn)
	}
	if ant := r.terms(w.AntonymTerms()); ant != "" {
		b.WriteString("\n" + labelStyle.Render("Antonyms: ") + ant)
	}
	return cardStyle.Render(b.String())
}

func (r Renderer) terms(terms []string) string {
	if len(terms) == 0 {
		return ""
	}
	extra := ""
	if r.PreviewSynonyms > 0 && len(terms) > r.PreviewSynonyms {
		extra = fmt.Sprintf(" (+%d)", len(terms)-r.PreviewSynonyms)
		terms = terms[:r.PreviewSynonyms]
	}
	return textStyle.Render(strings.Join(terms, ", ")) + mutedStyle.Render(extra)
}

// Results renders the result list of a session, or the selected word when
// there is one.
func (r Renderer) Results(s search.Snapshot) string {
	if s.Selected != nil {
		return r.Word(s.Selected)
	}
	if len(s.Results) == 0 {
		return mutedStyle.Render("No results.")
	}

	var b strings.Builder
	b.WriteString(labelStyle.Render(fmt.Sprintf("%d results", s.Total)))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  page %d/%d", s.Page, s.PageCount())))
	for i := range s.Results {
		w := &s.Results[i]
		b.WriteString(fmt.Sprintf("\n%2d. %s", i+1, termStyle.Render(w.Term)))
		if meaning := w.FirstMeaning(); meaning != "" {
			b.WriteString("  " + mutedStyle.Render(meaning))
		}
	}
	return b.String()
}

// Suggestions renders a numbered suggestion list.
func (r Renderer) Suggestions(items []api.SuggestionItem) string {
	if len(items) == 0 {
		return mutedStyle.Render("No suggestions.")
	}
	lines := make([]string, 0, len(items))
	for i, it := range items {
		lines = append(lines, fmt.Sprintf("%2d. %s", i+1, termStyle.Render(it.Term)))
	}
	return strings.Join(lines, "\n")
}

// Menu renders the game menu of a panel.
func (r Renderer) Menu(p *game.Panel) string {
	names := make([]string, 0, 3)
	for _, m := range p.Modes() {
		names = append(names, string(m))
	}
	return labelStyle.Render("Games: ") + textStyle.Render(strings.Join(names, ", ")) +
		mutedStyle.Render(fmt.Sprintf("  score %d", p.Score()))
}

// Anagram renders the scrambled word.
func (r Renderer) Anagram(a *game.Anagram) string {
	status := mutedStyle.Render("unscramble with :guess <word>")
	if a.Solved() {
		status = goodStyle.Render("solved!")
	}
	letters := strings.Join(strings.Split(strings.ToUpper(a.Scrambled()), ""), " ")
	return cardStyle.Render(termStyle.Render(letters) + "\n" + status +
		mutedStyle.Render(fmt.Sprintf("  score %d", a.Score())))
}

// Synonym renders the option list, marking picks once made.
func (r Renderer) Synonym(g *game.Synonym) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render(fmt.Sprintf("Which are synonyms of %q?", g.Word())))
	for i, opt := range g.Options() {
		mark := "  "
		style := textStyle
		switch {
		case g.IsSelected(opt) && g.IsCorrect(opt):
			mark, style = "✓ ", goodStyle
		case g.IsSelected(opt):
			mark, style = "✗ ", badStyle
		case g.State().Over() && g.IsCorrect(opt):
			style = goodStyle
		}
		b.WriteString(fmt.Sprintf("\n%s%d. %s", mark, i+1, style.Render(opt)))
	}

	switch g.State() {
	case game.StateWon:
		b.WriteString("\n" + goodStyle.Render("You won!"))
	case game.StateLost:
		b.WriteString("\n" + badStyle.Render("Game over."))
	}
	if g.State().Over() {
		b.WriteString(mutedStyle.Render("  :again for a new round"))
	}
	b.WriteString(mutedStyle.Render(fmt.Sprintf("\n%d correct, %d wrong, score %d", g.CorrectCount(), g.WrongCount(), g.Score())))
	return cardStyle.Render(b.String())
}

// Notification renders one notification line.
func (r Renderer) Notification(n notify.Notification) string {
	title := labelStyle.Render(n.Title)
	switch n.Level {
	case notify.LevelSuccess:
		title = goodStyle.Render(n.Title)
	case notify.LevelError:
		title = badStyle.Render(n.Title)
	}
	return title + " " + textStyle.Render(n.Message)
}

// ShareText is the text copied when sharing a word: the term, its first
// meaning and a footer.
func ShareText(w *api.Word) string {
	return fmt.Sprintf("%s: %s\n\n%s", w.Term, w.FirstMeaning(), ShareFooter)
}

// Pronunciation describes how to hear a word: its audio URL when the API
// has one, otherwise the phonetic transcription.
func Pronunciation(w *api.Word) notify.Notification {
	switch {
	case w.AudioURL != nil && *w.AudioURL != "":
		return notify.New(notify.LevelInfo, "Pronunciation", *w.AudioURL)
	case w.Phonetic != nil && *w.Phonetic != "":
		return notify.New(notify.LevelInfo, "Pronunciation", w.Term+" "+*w.Phonetic)
	default:
		return notify.New(notify.LevelInfo, "Pronunciation", w.Term)
	}
}
