package presenter

import (
	"fmt"
	"strconv"
	"strings"

	"yuzu/tutor/internal/activity"
	"yuzu/tutor/internal/toolcall"
)

type ReorderView struct {
	Type      string `json:"type"`
	Items     []Tile `json:"items"`
	IsCorrect *bool  `json:"isCorrect,omitempty"`
}

// Reorder has the user drag letters of a word, or words of a sentence, back into order.
type Reorder struct {
	base
	data      *toolcall.ReorderGame
	items     []Tile
	isCorrect *bool
}

func NewReorder(d Deps) *Reorder {
	p := &Reorder{}
	p.base = newBase(activity.ReorderGame, d, p.reset)
	return p
}

func (p *Reorder) reset() {
	p.data = nil
	p.items = nil
	p.isCorrect = nil
}

func pieces(args toolcall.ReorderGame) []string {
	if args.Type == toolcall.ReorderWord {
		return strings.Split(args.Text, "")
	}
	return strings.Split(args.Text, " ")
}

func (p *Reorder) separator() string {
	if p.data.Type == toolcall.ReorderWord {
		return ""
	}
	return " "
}

func (p *Reorder) Present(args toolcall.ReorderGame) {
	p.data = &args
	parts := pieces(args)
	p.items = make([]Tile, len(parts))
	for i, v := range parts {
		p.items[i] = Tile{ID: v + "-" + strconv.Itoa(i), Value: v}
	}
	p.shuffleItems()
	p.isCorrect = nil
	p.activate()

	unit := "words"
	if args.Type == toolcall.ReorderWord {
		unit = "letters"
	}
	p.say(fmt.Sprintf("Reorder game presented. You must tell the user to drag and drop the %s to put them in the correct order.", unit))
}

func (p *Reorder) shuffleItems() {
	p.shuffle(len(p.items), func(i, j int) { p.items[i], p.items[j] = p.items[j], p.items[i] })
}

func (p *Reorder) editable() error {
	if !p.visible() || p.data == nil {
		return ErrNotActive
	}
	return nil
}

// Move drags the item at from to position to.
func (p *Reorder) Move(from, to int) error {
	if err := p.editable(); err != nil {
		return err
	}
	if from < 0 || from >= len(p.items) || to < 0 || to >= len(p.items) {
		return fmt.Errorf("move %d->%d out of range", from, to)
	}
	it := p.items[from]
	p.items = append(p.items[:from:from], p.items[from+1:]...)
	p.items = append(p.items[:to], append([]Tile{it}, p.items[to:]...)...)
	return nil
}

// Arrange replaces the order with ids, which must be a permutation of the items.
func (p *Reorder) Arrange(ids []string) error {
	if err := p.editable(); err != nil {
		return err
	}
	if len(ids) != len(p.items) {
		return fmt.Errorf("arrange: got %d ids, want %d", len(ids), len(p.items))
	}
	byID := make(map[string]Tile, len(p.items))
	for _, t := range p.items {
		byID[t.ID] = t
	}
	next := make([]Tile, 0, len(ids))
	for _, id := range ids {
		t, ok := byID[id]
		if !ok {
			return fmt.Errorf("arrange: unknown or repeated item %q", id)
		}
		delete(byID, id)
		next = append(next, t)
	}
	p.items = next
	return nil
}

// Shuffle mixes the items again.
func (p *Reorder) Shuffle() error {
	if err := p.editable(); err != nil {
		return err
	}
	p.shuffleItems()
	p.isCorrect = nil
	return nil
}

// Check compares the current order to the original text.
func (p *Reorder) Check() error {
	if err := p.editable(); err != nil {
		return err
	}
	if p.isCorrect != nil {
		return nil
	}
	vals := make([]string, len(p.items))
	for i, t := range p.items {
		vals[i] = t.Value
	}
	current := strings.Join(vals, p.separator())

	ok := sameText(current, p.data.Text)
	p.isCorrect = &ok
	p.record(ok, current)
	if ok {
		p.toast(ToastSuccess, "Correct! 🎉", "You put everything in the right order!")
		p.say(fmt.Sprintf("The user has correctly arranged the %s!", p.data.Type))
		p.later(p.close)
		return nil
	}
	p.toast(ToastError, "Not quite right!", "Try again!")
	p.say(fmt.Sprintf("The user needs to try again to arrange the %s correctly.", p.data.Type))
	p.later(func() { p.isCorrect = nil })
	return nil
}

// Items returns the current order.
func (p *Reorder) Items() []Tile { return append([]Tile(nil), p.items...) }

func (p *Reorder) View() (any, bool) {
	if !p.visible() || p.data == nil {
		return nil, false
	}
	v := ReorderView{Type: p.data.Type, Items: append([]Tile(nil), p.items...)}
	if p.isCorrect != nil {
		ok := *p.isCorrect
		v.IsCorrect = &ok
	}
	return v, true
}

func (p *Reorder) Close() { p.close() }

func (p *Reorder) Unmount() { p.unmount() }
