// Package presenter implements the interactive activities the tutor agent can show.
//
// Every presenter is driven from a single session loop: Present, the interaction
// handlers and the reset callbacks never run concurrently. Timers and network work go
// through the Scheduler and come back to the loop tagged with the activation they
// were started under.
package presenter

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"yuzu/tutor/internal/activity"
)

// DefaultRetryDelay is how long an incorrect verdict stays on screen before the
// activity accepts another attempt.
const DefaultRetryDelay = 2 * time.Second

var ErrNotActive = errors.New("activity is not active")

// AgentBridge carries natural-language status messages back to the voice agent.
type AgentBridge interface {
	SendMessage(text string)
}

type ToastKind string

const (
	ToastSuccess   ToastKind = "success"
	ToastError     ToastKind = "error"
	ToastAlert     ToastKind = "alert"
	ToastCelebrate ToastKind = "celebrate"
)

type Toast struct {
	Kind        ToastKind `json:"kind"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
}

// Notifier shows transient notifications to the user.
type Notifier interface {
	Notify(Toast)
}

// Scheduler runs continuations on the session loop.
type Scheduler interface {
	// Post queues fn on the loop.
	Post(fn func())
	// Go runs fn off the loop with the session context.
	Go(fn func(ctx context.Context))
	// After queues fn on the loop once d has elapsed.
	After(d time.Duration, fn func())
}

// Outcome is one answer verdict.
type Outcome struct {
	Activity activity.ID
	Correct  bool
	Detail   string
}

type Deps struct {
	Arbiter *activity.Arbiter
	Agent   AgentBridge
	Notify  Notifier
	Sched   Scheduler
	// Record is optional.
	Record func(Outcome)
	// Shuffle defaults to math/rand/v2.
	Shuffle    func(n int, swap func(i, j int))
	RetryDelay time.Duration
}

// Presenter is the part of every activity the session needs.
type Presenter interface {
	ID() activity.ID
	// View returns the render snapshot, or false unless this activity is active.
	View() (any, bool)
	Close()
	Unmount()
}

type base struct {
	id activity.ID
	d  Deps
}

func newBase(id activity.ID, d Deps, reset func()) base {
	if d.Shuffle == nil {
		d.Shuffle = rand.Shuffle
	}
	if d.RetryDelay <= 0 {
		d.RetryDelay = DefaultRetryDelay
	}
	d.Arbiter.RegisterResetCallback(id, reset)
	return base{id: id, d: d}
}

func (b *base) ID() activity.ID { return b.id }

func (b *base) visible() bool { return b.d.Arbiter.Active() == b.id }

func (b *base) activate() { b.d.Arbiter.SetActiveTool(b.id) }

// close resets this activity through the arbiter. It never closes another activity.
func (b *base) close() {
	if b.visible() {
		b.d.Arbiter.CloseActiveTool()
	}
}

func (b *base) unmount() { b.d.Arbiter.UnregisterResetCallback(b.id) }

func (b *base) say(msg string) {
	if msg == "" || b.d.Agent == nil {
		return
	}
	b.d.Agent.SendMessage(msg)
}

func (b *base) toast(kind ToastKind, title, desc string) {
	if b.d.Notify == nil {
		return
	}
	b.d.Notify.Notify(Toast{Kind: kind, Title: title, Description: desc})
}

func (b *base) record(correct bool, detail string) {
	verdict := "incorrect"
	if correct {
		verdict = "correct"
	}
	metricVerdicts.WithLabelValues(b.id.String(), verdict).Inc()
	if b.d.Record != nil {
		b.d.Record(Outcome{Activity: b.id, Correct: correct, Detail: detail})
	}
}

// later runs fn after the retry delay if the current activation is still live.
func (b *base) later(fn func()) {
	tok := b.d.Arbiter.Token()
	b.d.Sched.After(b.d.RetryDelay, func() {
		if !b.d.Arbiter.Current(tok) {
			metricStale.WithLabelValues(b.id.String(), "timer").Inc()
			return
		}
		fn()
	})
}

func (b *base) shuffle(n int, swap func(i, j int)) { b.d.Shuffle(n, swap) }

// launch runs work off the loop and applies its result on the loop while live
// still reports true. Otherwise the result is dropped and stale, if set, runs.
func launch[T any](b *base, live func() bool, work func(ctx context.Context) T, apply func(T), stale func()) {
	b.d.Sched.Go(func(ctx context.Context) {
		res := work(ctx)
		b.d.Sched.Post(func() {
			if !live() {
				metricStale.WithLabelValues(b.id.String(), "async").Inc()
				if stale != nil {
					stale()
				}
				return
			}
			apply(res)
		})
	})
}
