package presenter

import (
	"fmt"

	"yuzu/tutor/internal/activity"
	"yuzu/tutor/internal/toolcall"
)

type WordView struct {
	Word       string   `json:"word"`
	Definition string   `json:"definition"`
	Examples   []string `json:"examples"`
}

// Word introduces a new word with its definition and example sentences.
type Word struct {
	base
	data *toolcall.PresentWord
}

func NewWord(d Deps) *Word {
	p := &Word{}
	p.base = newBase(activity.PresentWord, d, p.reset)
	return p
}

func (p *Word) reset() { p.data = nil }

func (p *Word) Present(args toolcall.PresentWord) {
	p.data = &args
	p.activate()
	p.say(fmt.Sprintf("Let me introduce you to the word \"%s\". I'll explain what it means and how to use it.", args.Word))
}

func (p *Word) View() (any, bool) {
	if !p.visible() || p.data == nil {
		return nil, false
	}
	return WordView{
		Word:       p.data.Word,
		Definition: p.data.Definition,
		Examples:   append([]string(nil), p.data.Examples...),
	}, true
}

func (p *Word) Close() { p.close() }

func (p *Word) Unmount() { p.unmount() }
