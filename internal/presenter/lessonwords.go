package presenter

import (
	"yuzu/tutor/internal/activity"
	"yuzu/tutor/internal/toolcall"
)

const msgLessonWordsPresented = "Lesson words presented successfully. You must read them to the user and ask them where they want to start."

type LessonWordsView struct {
	Words []string `json:"words"`
}

// LessonWords shows the words of the lesson at its start.
type LessonWords struct {
	base
	words []string
}

func NewLessonWords(d Deps) *LessonWords {
	p := &LessonWords{}
	p.base = newBase(activity.LessonWords, d, p.reset)
	return p
}

func (p *LessonWords) reset() { p.words = nil }

func (p *LessonWords) Present(args toolcall.LessonWords) {
	p.words = append([]string(nil), args.List()...)
	p.activate()
	p.say(msgLessonWordsPresented)
}

func (p *LessonWords) View() (any, bool) {
	if !p.visible() || len(p.words) == 0 {
		return nil, false
	}
	return LessonWordsView{Words: append([]string(nil), p.words...)}, true
}

func (p *LessonWords) Close() { p.close() }

func (p *LessonWords) Unmount() { p.unmount() }
