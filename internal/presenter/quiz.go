package presenter

import (
	"fmt"

	"yuzu/tutor/internal/activity"
	"yuzu/tutor/internal/toolcall"
)

const msgQuizPresented = "Quiz game presented successfully. You must read the question and the answers and wait for the user to answer."

type QuizView struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	Selected      string   `json:"selected,omitempty"`
	HasAnswered   bool     `json:"hasAnswered"`
	CorrectAnswer string   `json:"correctAnswer,omitempty"`
}

// Quiz is a multiple choice question. The first answer is final.
type Quiz struct {
	base
	data        *toolcall.Quiz
	selected    string
	hasAnswered bool
}

func NewQuiz(d Deps) *Quiz {
	p := &Quiz{}
	p.base = newBase(activity.Quiz, d, p.reset)
	return p
}

func (p *Quiz) reset() {
	p.data = nil
	p.selected = ""
	p.hasAnswered = false
}

func (p *Quiz) Present(args toolcall.Quiz) {
	p.data = &args
	p.selected = ""
	p.hasAnswered = false
	p.activate()
	p.say(msgQuizPresented)
}

// Answer records the user's choice. Later answers are ignored.
func (p *Quiz) Answer(option string) error {
	if !p.visible() || p.data == nil {
		return ErrNotActive
	}
	if p.hasAnswered {
		return nil
	}
	p.selected = option
	p.hasAnswered = true

	ok := sameText(option, p.data.CorrectAnswer)
	if ok {
		p.toast(ToastSuccess, "Correct! 🎉", "Well done! That's the right answer.")
	} else {
		p.toast(ToastError, "Not quite right!", "The correct answer was: "+p.data.CorrectAnswer)
	}
	p.record(ok, option)
	p.say(fmt.Sprintf("The user answered %s and is %s!", option, correctness(ok)))
	return nil
}

func (p *Quiz) View() (any, bool) {
	if !p.visible() || p.data == nil {
		return nil, false
	}
	v := QuizView{
		Question:    p.data.Question,
		Options:     append([]string(nil), p.data.Options...),
		Selected:    p.selected,
		HasAnswered: p.hasAnswered,
	}
	if p.hasAnswered {
		v.CorrectAnswer = p.data.CorrectAnswer
	}
	return v, true
}

func (p *Quiz) Close() { p.close() }

func (p *Quiz) Unmount() { p.unmount() }
