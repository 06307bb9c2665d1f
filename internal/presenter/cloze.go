package presenter

import (
	"fmt"
	"strings"

	"yuzu/tutor/internal/activity"
	"yuzu/tutor/internal/toolcall"
)

const msgClozePresented = "Fill in the blank exercise presented successfully. You must read the sentence and wait for the user to type their answer."

type ClozeView struct {
	Before      string `json:"before"`
	After       string `json:"after"`
	Hint        string `json:"hint,omitempty"`
	Input       string `json:"input"`
	HasAnswered bool   `json:"hasAnswered"`
	IsCorrect   *bool  `json:"isCorrect,omitempty"`
	Answer      string `json:"answer,omitempty"`
}

// Cloze is a fill-in-the-blank sentence. The first submitted answer is final.
type Cloze struct {
	base
	data        *toolcall.Cloze
	input       string
	hasAnswered bool
	isCorrect   bool
}

func NewCloze(d Deps) *Cloze {
	p := &Cloze{}
	p.base = newBase(activity.Cloze, d, p.reset)
	return p
}

func (p *Cloze) reset() {
	p.data = nil
	p.input = ""
	p.hasAnswered = false
	p.isCorrect = false
}

func (p *Cloze) Present(args toolcall.Cloze) {
	p.data = &args
	p.input = ""
	p.hasAnswered = false
	p.isCorrect = false
	p.activate()
	p.say(msgClozePresented)
}

// Input mirrors what the user is typing.
func (p *Cloze) Input(text string) error {
	if !p.visible() || p.data == nil {
		return ErrNotActive
	}
	if !p.hasAnswered {
		p.input = text
	}
	return nil
}

// Submit checks answer, or the typed input when answer is empty.
func (p *Cloze) Submit(answer string) error {
	if !p.visible() || p.data == nil {
		return ErrNotActive
	}
	if p.hasAnswered {
		return nil
	}
	if answer == "" {
		answer = p.input
	}
	if strings.TrimSpace(answer) == "" {
		return nil
	}
	p.input = answer
	p.hasAnswered = true
	p.isCorrect = sameText(answer, p.data.Answer)

	if p.isCorrect {
		p.toast(ToastSuccess, "Correct! 🎉", "Well done! That's the right answer.")
	} else {
		p.toast(ToastError, "Not quite right!", "The correct answer was: "+p.data.Answer)
	}
	p.record(p.isCorrect, answer)
	p.say(fmt.Sprintf("The user answered \"%s\" and is %s! The correct answer was \"%s\".", answer, correctness(p.isCorrect), p.data.Answer))
	return nil
}

func (p *Cloze) View() (any, bool) {
	if !p.visible() || p.data == nil {
		return nil, false
	}
	before, after, _ := strings.Cut(p.data.Sentence, toolcall.Blank)
	v := ClozeView{
		Before:      before,
		After:       after,
		Hint:        p.data.Hint,
		Input:       p.input,
		HasAnswered: p.hasAnswered,
	}
	if p.hasAnswered {
		ok := p.isCorrect
		v.IsCorrect = &ok
		v.Answer = p.data.Answer
	}
	return v, true
}

func (p *Cloze) Close() { p.close() }

func (p *Cloze) Unmount() { p.unmount() }
