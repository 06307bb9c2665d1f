package presenter

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/sourcegraph/conc/iter"
	"yuzu/tutor/internal/activity"
	"yuzu/tutor/internal/toolcall"
)

const msgPhotoQuizPresented = "Photo quiz presented successfully. You must read the question and wait for the user to select an answer."

// ErrSuperseded is reported when another activity took over while a presentation
// was still loading.
var ErrSuperseded = errors.New("presentation superseded by another activity")

// Image is a resolved picture for one option.
type Image struct {
	URL         string `json:"url"`
	FallbackURL string `json:"fallbackUrl,omitempty"`
}

// ImageLookup finds the first image for a free-text query.
type ImageLookup interface {
	Lookup(ctx context.Context, query string) (Image, error)
}

type PhotoOptionView struct {
	Text  string `json:"text"`
	Image *Image `json:"image,omitempty"`
	// Placeholder is set when no image could be found.
	Placeholder string `json:"placeholder,omitempty"`
}

type PhotoQuizView struct {
	Question    string            `json:"question"`
	Options     []PhotoOptionView `json:"options"`
	Selected    string            `json:"selected,omitempty"`
	HasAnswered bool              `json:"hasAnswered"`
}

// PhotoQuiz asks the user to pick the picture matching a question. Wrong picks can
// be retried after the retry delay.
type PhotoQuiz struct {
	base
	images      ImageLookup
	question    string
	correct     string
	options     []PhotoOptionView
	selected    string
	hasAnswered bool

	// loads numbers Present calls. Only the latest load may be shown; reset leaves
	// it alone.
	loads uint64
}

func NewPhotoQuiz(d Deps, images ImageLookup) *PhotoQuiz {
	p := &PhotoQuiz{images: images}
	p.base = newBase(activity.PhotoQuiz, d, p.reset)
	return p
}

func (p *PhotoQuiz) reset() {
	p.question = ""
	p.correct = ""
	p.options = nil
	p.selected = ""
	p.hasAnswered = false
}

// Present resolves the option images and then activates the quiz. done is called on
// the loop once the quiz is shown, or with ErrSuperseded when another activity or a
// newer photo quiz was presented in the meantime.
func (p *PhotoQuiz) Present(args toolcall.PhotoQuiz, done func(error)) {
	p.loads++
	load := p.loads
	epoch := p.d.Arbiter.Epoch()
	launch(&p.base,
		func() bool { return p.loads == load && p.d.Arbiter.Epoch() == epoch },
		func(ctx context.Context) []PhotoOptionView { return p.resolve(ctx, args.Options) },
		func(opts []PhotoOptionView) {
			p.question = args.Question
			p.correct = args.CorrectAnswer
			p.options = opts
			p.selected = ""
			p.hasAnswered = false
			p.activate()
			p.say(msgPhotoQuizPresented)
			done(nil)
		},
		func() { done(ErrSuperseded) },
	)
}

func (p *PhotoQuiz) resolve(ctx context.Context, opts []toolcall.PhotoOption) []PhotoOptionView {
	return iter.Map(opts, func(o *toolcall.PhotoOption) PhotoOptionView {
		v := PhotoOptionView{Text: o.Text}
		if p.images == nil {
			v.Placeholder = "Image not available"
			return v
		}
		img, err := p.images.Lookup(ctx, o.ImageSearchQuery)
		if err != nil || img.URL == "" {
			if err != nil {
				log.Printf("[photoquiz] image lookup %q: %v", o.ImageSearchQuery, err)
			}
			v.Placeholder = "Image not available"
			return v
		}
		v.Image = &img
		return v
	})
}

// Select records the option the user tapped.
func (p *PhotoQuiz) Select(text string) error {
	if !p.visible() || p.options == nil {
		return ErrNotActive
	}
	if p.hasAnswered {
		return nil
	}
	p.selected = text
	p.hasAnswered = true

	ok := sameText(text, p.correct)
	if ok {
		p.toast(ToastSuccess, "Correct! 🎉", "Well done! That's the right answer.")
	} else {
		p.toast(ToastError, "Not quite right!", "Try again! Look carefully at the images.")
		p.later(func() {
			p.hasAnswered = false
			p.selected = ""
		})
	}
	p.record(ok, text)
	p.say(fmt.Sprintf("The user selected \"%s\" and is %s!", text, correctness(ok)))
	return nil
}

func (p *PhotoQuiz) View() (any, bool) {
	if !p.visible() || p.options == nil {
		return nil, false
	}
	return PhotoQuizView{
		Question:    p.question,
		Options:     append([]PhotoOptionView(nil), p.options...),
		Selected:    p.selected,
		HasAnswered: p.hasAnswered,
	}, true
}

func (p *PhotoQuiz) Close() { p.close() }

func (p *PhotoQuiz) Unmount() { p.unmount() }
