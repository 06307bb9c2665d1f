package presenter

import (
	"fmt"
	"strconv"
	"strings"

	"yuzu/tutor/internal/activity"
	"yuzu/tutor/internal/toolcall"
)

const (
	msgSentenceCorrect = "The user has built the correct sentence!"
	msgSentenceRetry   = "The user needs to try building the sentence again."
)

// Tile is one draggable piece of a word or sentence game.
type Tile struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

type SentenceBuilderView struct {
	Subject   string `json:"subject"`
	Bank      []Tile `json:"bank"`
	Selected  []Tile `json:"selected"`
	IsCorrect *bool  `json:"isCorrect,omitempty"`
}

// SentenceBuilder has the user assemble a sentence from a shuffled word bank.
type SentenceBuilder struct {
	base
	data      *toolcall.SentenceBuilder
	bank      []Tile
	selected  []Tile
	isCorrect *bool
}

func NewSentenceBuilder(d Deps) *SentenceBuilder {
	p := &SentenceBuilder{}
	p.base = newBase(activity.SentenceBuilder, d, p.reset)
	return p
}

func (p *SentenceBuilder) reset() {
	p.data = nil
	p.bank = nil
	p.selected = nil
	p.isCorrect = nil
}

func (p *SentenceBuilder) Present(args toolcall.SentenceBuilder) {
	p.data = &args
	p.bank = make([]Tile, len(args.WordBank))
	for i, w := range args.WordBank {
		p.bank[i] = Tile{ID: w + "-" + strconv.Itoa(i), Value: w}
	}
	p.shuffle(len(p.bank), func(i, j int) { p.bank[i], p.bank[j] = p.bank[j], p.bank[i] })
	p.selected = nil
	p.isCorrect = nil
	p.activate()
	p.say(fmt.Sprintf("Sentence builder presented. Tell the user they have to build the sentence \"%s\" using the words provided.", args.CorrectSentence))
}

func (p *SentenceBuilder) editable() error {
	if !p.visible() || p.data == nil {
		return ErrNotActive
	}
	return nil
}

// startEdit clears a wrong verdict so the user can fix the sentence at once. It
// reports false after a correct build, while the close is pending.
func (p *SentenceBuilder) startEdit() bool {
	if p.isCorrect != nil && *p.isCorrect {
		return false
	}
	p.isCorrect = nil
	return true
}

// Toggle removes the tile if it is already selected, otherwise appends it.
func (p *SentenceBuilder) Toggle(tileID string) error {
	if err := p.editable(); err != nil {
		return err
	}
	if !p.startEdit() {
		return nil
	}
	for i := len(p.selected) - 1; i >= 0; i-- {
		if p.selected[i].ID == tileID {
			p.selected = append(p.selected[:i:i], p.selected[i+1:]...)
			return nil
		}
	}
	for _, t := range p.bank {
		if t.ID == tileID {
			p.selected = append(p.selected, t)
			return nil
		}
	}
	return fmt.Errorf("unknown tile %q", tileID)
}

// Backspace drops the last selected tile.
func (p *SentenceBuilder) Backspace() error {
	if err := p.editable(); err != nil {
		return err
	}
	if p.startEdit() && len(p.selected) > 0 {
		p.selected = p.selected[:len(p.selected)-1]
	}
	return nil
}

// Clear empties the selection.
func (p *SentenceBuilder) Clear() error {
	if err := p.editable(); err != nil {
		return err
	}
	if p.startEdit() {
		p.selected = nil
	}
	return nil
}

// Check compares the built sentence to the expected one. A trailing period in the
// expected sentence is ignored.
func (p *SentenceBuilder) Check() error {
	if err := p.editable(); err != nil {
		return err
	}
	if len(p.selected) == 0 || p.isCorrect != nil {
		return nil
	}
	words := make([]string, len(p.selected))
	for i, t := range p.selected {
		words[i] = t.Value
	}
	built := strings.Join(words, " ")
	want := strings.TrimSuffix(strings.TrimSpace(p.data.CorrectSentence), ".")

	ok := sameText(built, want)
	p.isCorrect = &ok
	p.record(ok, built)
	if ok {
		p.toast(ToastSuccess, "Correct! 🎉", "You built the sentence perfectly!")
		p.say(msgSentenceCorrect)
		p.later(p.close)
		return nil
	}
	p.toast(ToastError, "Not quite right!", "Try building the sentence again.")
	p.say(msgSentenceRetry)
	p.later(func() { p.isCorrect = nil })
	return nil
}

// Selected returns the selected words in order.
func (p *SentenceBuilder) Selected() []string {
	out := make([]string, len(p.selected))
	for i, t := range p.selected {
		out[i] = t.Value
	}
	return out
}

// Bank returns the shuffled tiles.
func (p *SentenceBuilder) Bank() []Tile { return append([]Tile(nil), p.bank...) }

func (p *SentenceBuilder) View() (any, bool) {
	if !p.visible() || p.data == nil {
		return nil, false
	}
	v := SentenceBuilderView{
		Subject:  p.data.Subject,
		Bank:     append([]Tile(nil), p.bank...),
		Selected: append([]Tile(nil), p.selected...),
	}
	if p.isCorrect != nil {
		ok := *p.isCorrect
		v.IsCorrect = &ok
	}
	return v, true
}

func (p *SentenceBuilder) Close() { p.close() }

func (p *SentenceBuilder) Unmount() { p.unmount() }
