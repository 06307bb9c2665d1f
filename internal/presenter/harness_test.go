package presenter

import (
	"context"
	"time"

	"yuzu/tutor/internal/activity"
)

type agentRecorder struct{ msgs []string }

func (a *agentRecorder) SendMessage(text string) { a.msgs = append(a.msgs, text) }

func (a *agentRecorder) last() string {
	if len(a.msgs) == 0 {
		return ""
	}
	return a.msgs[len(a.msgs)-1]
}

type toastRecorder struct{ toasts []Toast }

func (n *toastRecorder) Notify(t Toast) { n.toasts = append(n.toasts, t) }

// inlineSched runs posted and background work immediately and holds timers until fire.
type inlineSched struct {
	timers []func()
	delays []time.Duration
}

func (s *inlineSched) Post(fn func())                  { fn() }
func (s *inlineSched) Go(fn func(ctx context.Context)) { fn(context.Background()) }
func (s *inlineSched) After(d time.Duration, fn func()) {
	s.delays = append(s.delays, d)
	s.timers = append(s.timers, fn)
}

// fire runs every pending timer.
func (s *inlineSched) fire() {
	pending := s.timers
	s.timers = nil
	for _, fn := range pending {
		fn()
	}
}

type harness struct {
	arb      *activity.Arbiter
	agent    *agentRecorder
	toasts   *toastRecorder
	sched    *inlineSched
	outcomes []Outcome
	deps     Deps
}

func newHarness() *harness {
	h := &harness{
		arb:    activity.NewArbiter(),
		agent:  &agentRecorder{},
		toasts: &toastRecorder{},
		sched:  &inlineSched{},
	}
	h.deps = Deps{
		Arbiter: h.arb,
		Agent:   h.agent,
		Notify:  h.toasts,
		Sched:   h.sched,
		Record:  func(o Outcome) { h.outcomes = append(h.outcomes, o) },
		// Reverse so shuffled order is predictable.
		Shuffle: func(n int, swap func(i, j int)) {
			for i := 0; i < n/2; i++ {
				swap(i, n-1-i)
			}
		},
	}
	return h
}
