// Package session runs one tutoring session: an arbiter, the ten activity
// presenters and the loop that serializes everything that touches them.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"yuzu/tutor/internal/activity"
	"yuzu/tutor/internal/eventloop"
	"yuzu/tutor/internal/presenter"
	"yuzu/tutor/internal/progress"
	"yuzu/tutor/internal/store"
	"yuzu/tutor/internal/toolcall"
)

// Recorder persists answer verdicts.
type Recorder interface {
	Record(ctx context.Context, o progress.Outcome) error
}

type Options struct {
	Out      Outbox
	Events   *store.Store
	Recorder Recorder
	Images   ImageSearcher
	Judge    presenter.PhotoJudge

	RetryDelay time.Duration
	// Shuffle overrides the random order of word banks and reorder games.
	Shuffle func(n int, swap func(i, j int))
}

// Result is what a tool call produced: the activity shown and the agent messages
// emitted while presenting it.
type Result struct {
	Activity activity.ID `json:"activity"`
	Messages []string    `json:"messages"`
}

// ErrPresentFailed is returned when presenting an activity panicked.
var ErrPresentFailed = errors.New("activity failed to present")

type Session struct {
	id     string
	loop   *eventloop.Loop
	arb    *activity.Arbiter
	out    Outbox
	events *store.Store
	rec    Recorder

	lessonWords *presenter.LessonWords
	quiz        *presenter.Quiz
	cloze       *presenter.Cloze
	photoQuiz   *presenter.PhotoQuiz
	drag        *presenter.DragTrueOrFalse
	word        *presenter.Word
	sentence    *presenter.SentenceBuilder
	camera      *presenter.CameraActivity
	badge       *presenter.Badge
	reorder     *presenter.Reorder
	all         []presenter.Presenter

	// Loop-owned. said collects the agent messages of the current turn.
	said     []string
	lastView []byte

	closeOnce sync.Once
}

// New builds a session and starts its loop.
func New(id string, opts Options) *Session {
	if opts.Out == nil {
		opts.Out = Discard{}
	}
	if opts.Events == nil {
		opts.Events = store.New()
	}
	if opts.Shuffle == nil {
		opts.Shuffle = rand.Shuffle
	}
	s := &Session{
		id:     id,
		loop:   eventloop.New(id, 256),
		arb:    activity.NewArbiter(),
		out:    opts.Out,
		events: opts.Events,
		rec:    opts.Recorder,
	}
	s.loop.OnPanic = func(r any) {
		log.Printf("[session %s] recovered panic: %v", s.id, r)
		s.events.AppendEvent(s.id, "panic", map[string]any{"error": fmt.Sprint(r)})
	}

	d := presenter.Deps{
		Arbiter:    s.arb,
		Agent:      bridge{s},
		Notify:     notifier{s},
		Sched:      scheduler{s},
		Record:     s.record,
		Shuffle:    opts.Shuffle,
		RetryDelay: opts.RetryDelay,
	}
	var images presenter.ImageLookup
	if opts.Images != nil {
		images = imageLookup{opts.Images}
	}
	s.lessonWords = presenter.NewLessonWords(d)
	s.quiz = presenter.NewQuiz(d)
	s.cloze = presenter.NewCloze(d)
	s.photoQuiz = presenter.NewPhotoQuiz(d, images)
	s.drag = presenter.NewDragTrueOrFalse(d)
	s.word = presenter.NewWord(d)
	s.sentence = presenter.NewSentenceBuilder(d)
	s.camera = presenter.NewCameraActivity(d, camera{s}, opts.Judge)
	s.badge = presenter.NewBadge(d)
	s.reorder = presenter.NewReorder(d)
	s.all = []presenter.Presenter{
		s.lessonWords, s.quiz, s.cloze, s.photoQuiz, s.drag,
		s.word, s.sentence, s.camera, s.badge, s.reorder,
	}

	s.loop.Start()
	metricSessions.Inc()
	return s
}

func (s *Session) ID() string { return s.id }

// turn wraps fn so the view is republished after it runs.
func (s *Session) turn(fn func()) func() {
	return func() {
		s.said = nil
		fn()
		s.publish()
	}
}

type reply struct {
	res Result
	err error
}

// Pending is a tool call queued on the session loop.
type Pending struct {
	s  *Session
	c  toolcall.Call
	ch chan reply
}

// Enqueue queues c behind everything already posted to the session, so calls
// enqueued in order are presented in order. It does not wait for the result.
func (s *Session) Enqueue(c toolcall.Call) (*Pending, error) {
	if c == nil {
		return nil, toolcall.ErrUnknownTool
	}
	p := &Pending{s: s, c: c, ch: make(chan reply, 1)}
	if !s.loop.Post(s.turn(func() { s.present(c, p.ch) })) {
		return nil, eventloop.ErrStopped
	}
	return p, nil
}

// EnqueueRaw decodes a tool call by name and enqueues it.
func (s *Session) EnqueueRaw(name string, args json.RawMessage) (*Pending, error) {
	c, err := toolcall.Decode(name, args)
	if err != nil {
		s.events.AppendEvent(s.id, "tool_call_rejected", map[string]any{"tool": name, "error": err.Error()})
		return nil, err
	}
	return s.Enqueue(c)
}

// Wait blocks until the activity is shown or presenting it failed.
func (p *Pending) Wait(ctx context.Context) (Result, error) {
	select {
	case r := <-p.ch:
		result := "ok"
		if r.err != nil {
			result = "error"
		}
		metricToolCalls.WithLabelValues(p.c.Activity().String(), result).Inc()
		return r.res, r.err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case <-p.s.loop.Done():
		return Result{}, eventloop.ErrStopped
	}
}

// Invoke presents the activity named by c and waits until it is shown.
func (s *Session) Invoke(ctx context.Context, c toolcall.Call) (Result, error) {
	p, err := s.Enqueue(c)
	if err != nil {
		return Result{}, err
	}
	return p.Wait(ctx)
}

// InvokeRaw decodes a tool call by name and invokes it.
func (s *Session) InvokeRaw(ctx context.Context, name string, args json.RawMessage) (Result, error) {
	p, err := s.EnqueueRaw(name, args)
	if err != nil {
		return Result{}, err
	}
	return p.Wait(ctx)
}

// present runs on the loop. The reply carries the messages said in the turn that
// finished the call; for a photo quiz that is the later turn that shows it.
func (s *Session) present(c toolcall.Call, ch chan<- reply) {
	s.events.AppendEvent(s.id, "tool_call", map[string]any{"activity": c.Activity().String()})
	finished := false
	finish := func(err error) {
		if finished {
			return
		}
		finished = true
		// The client sees the view before the tool result.
		s.publish()
		var msgs []string
		if err == nil {
			msgs = append(msgs, s.said...)
		}
		ch <- reply{res: Result{Activity: c.Activity(), Messages: msgs}, err: err}
	}
	defer func() {
		if r := recover(); r != nil {
			finish(fmt.Errorf("%w: %v", ErrPresentFailed, r))
			panic(r)
		}
	}()
	s.dispatch(c, finish)
}

// dispatch must run on the loop. done is called exactly once, possibly later.
func (s *Session) dispatch(c toolcall.Call, done func(error)) {
	switch c := c.(type) {
	case toolcall.LessonWords:
		s.lessonWords.Present(c)
	case toolcall.Quiz:
		s.quiz.Present(c)
	case toolcall.Cloze:
		s.cloze.Present(c)
	case toolcall.PhotoQuiz:
		s.photoQuiz.Present(c, done)
		return
	case toolcall.DragTrueOrFalse:
		s.drag.Present(c)
	case toolcall.PresentWord:
		s.word.Present(c)
	case toolcall.SentenceBuilder:
		s.sentence.Present(c)
	case toolcall.CameraActivity:
		s.camera.Present(c)
	case toolcall.BadgeAward:
		s.badge.Present(c)
	case toolcall.ReorderGame:
		s.reorder.Present(c)
	default:
		done(fmt.Errorf("%w: %T", toolcall.ErrUnknownTool, c))
		return
	}
	done(nil)
}

// CurrentView returns the view of the active activity.
func (s *Session) CurrentView(ctx context.Context) (View, error) {
	var v View
	err := s.loop.Call(ctx, func() { v = s.view() })
	return v, err
}

// Active returns the active activity id.
func (s *Session) Active(ctx context.Context) (activity.ID, error) {
	var id activity.ID
	err := s.loop.Call(ctx, func() { id = s.arb.Active() })
	return id, err
}

// Republish sends the current view even if it has not changed, e.g. after a client
// reconnects.
func (s *Session) Republish(ctx context.Context) error {
	return s.loop.Call(ctx, func() {
		s.lastView = nil
		s.publish()
	})
}

func (s *Session) view() View {
	for _, p := range s.all {
		if data, ok := p.View(); ok {
			return View{Activity: p.ID().String(), Data: data}
		}
	}
	return View{}
}

func (s *Session) publish() {
	v := s.view()
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("[session %s] marshal view: %v", s.id, err)
		return
	}
	if string(b) == string(s.lastView) {
		return
	}
	s.lastView = b
	_ = s.events.SetActiveActivity(s.id, v.Activity)
	s.out.View(s.id, v)
}

func (s *Session) record(o presenter.Outcome) {
	s.events.AppendEvent(s.id, "outcome", map[string]any{
		"activity": o.Activity.String(),
		"correct":  o.Correct,
		"detail":   o.Detail,
	})
	if s.rec == nil {
		return
	}
	out := progress.Outcome{
		SessionID:  s.id,
		Activity:   o.Activity.String(),
		Correct:    o.Correct,
		Detail:     o.Detail,
		RecordedAt: time.Now().UTC(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.rec.Record(ctx, out); err != nil {
			log.Printf("[session %s] record outcome: %v", s.id, err)
		}
	}()
}

// Close unmounts every activity, releasing the camera, and stops the loop.
func (s *Session) Close(ctx context.Context) error {
	var err error
	s.closeOnce.Do(func() {
		err = s.loop.Call(ctx, func() {
			s.arb.CloseActiveTool()
			for _, p := range s.all {
				p.Unmount()
			}
			s.publish()
		})
		s.loop.Stop()
		metricSessions.Dec()
	})
	return err
}
