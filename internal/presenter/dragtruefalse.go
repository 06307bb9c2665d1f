package presenter

import (
	"fmt"
	"math"

	"yuzu/tutor/internal/activity"
	"yuzu/tutor/internal/toolcall"
)

const (
	msgDragPresented = "True/False drag game presented. Drag statements right for True, left for False. You must not read all the statements."
	msgDragNext      = "Just read the next statement, don't say anything else."

	// DragThreshold is the horizontal distance a card must travel to count as an
	// answer. Positive offsets mean true.
	DragThreshold = 100.0
)

type DragView struct {
	Current        *toolcall.Statement `json:"current,omitempty"`
	Remaining      int                 `json:"remaining"`
	Total          int                 `json:"total"`
	CorrectAnswers int                 `json:"correctAnswers"`
	Finished       bool                `json:"finished"`
	Summary        string              `json:"summary,omitempty"`
}

// DragTrueOrFalse is a queue of statements the user swipes right for true and left
// for false. It stays active after the last card so the agent decides when to move on.
type DragTrueOrFalse struct {
	base
	total   int
	queue   []toolcall.Statement
	correct int
	started bool
}

func NewDragTrueOrFalse(d Deps) *DragTrueOrFalse {
	p := &DragTrueOrFalse{}
	p.base = newBase(activity.DragTrueOrFalse, d, p.reset)
	return p
}

func (p *DragTrueOrFalse) reset() {
	p.total = 0
	p.queue = nil
	p.correct = 0
	p.started = false
}

func (p *DragTrueOrFalse) Present(args toolcall.DragTrueOrFalse) {
	p.queue = append([]toolcall.Statement(nil), args.Statements...)
	p.total = len(p.queue)
	p.correct = 0
	p.started = true
	p.activate()
	p.say(msgDragPresented)
}

// Release handles a card dropped at offset. Drops inside the threshold snap back.
func (p *DragTrueOrFalse) Release(offset float64) error {
	if math.Abs(offset) <= DragThreshold {
		if !p.visible() || !p.started {
			return ErrNotActive
		}
		return nil
	}
	return p.Resolve(offset > 0)
}

// Resolve answers the front statement and pops it.
func (p *DragTrueOrFalse) Resolve(answer bool) error {
	if !p.visible() || !p.started {
		return ErrNotActive
	}
	if len(p.queue) == 0 {
		return nil
	}
	st := p.queue[0]
	p.queue = p.queue[1:]

	ok := answer == st.IsTrue
	if ok {
		p.correct++
		p.toast(ToastSuccess, "That's right!", "")
	} else {
		p.toast(ToastError, fmt.Sprintf("This statement is %t!", st.IsTrue), "")
	}
	p.record(ok, st.Word)

	if len(p.queue) > 0 {
		p.say(msgDragNext)
	} else {
		p.say(fmt.Sprintf("The user finished the true or false game with %d out of %d correct.", p.correct, p.total))
	}
	return nil
}

// CorrectAnswers is the running score.
func (p *DragTrueOrFalse) CorrectAnswers() int { return p.correct }

// Remaining is the number of unanswered statements.
func (p *DragTrueOrFalse) Remaining() int { return len(p.queue) }

func (p *DragTrueOrFalse) View() (any, bool) {
	if !p.visible() || !p.started {
		return nil, false
	}
	v := DragView{
		Remaining:      len(p.queue),
		Total:          p.total,
		CorrectAnswers: p.correct,
		Finished:       len(p.queue) == 0,
	}
	if len(p.queue) > 0 {
		cur := p.queue[0]
		v.Current = &cur
	} else {
		v.Summary = fmt.Sprintf("Game completed! You got %d out of %d correct!", p.correct, p.total)
	}
	return v, true
}

func (p *DragTrueOrFalse) Close() { p.close() }

func (p *DragTrueOrFalse) Unmount() { p.unmount() }
