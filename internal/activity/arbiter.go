package activity

import "errors"

// ErrReentrantTransition is the panic value raised when a reset callback tries to
// switch or close the active activity.
var ErrReentrantTransition = errors.New("activity transition from inside a reset callback")

// Token identifies one activation of an activity. Work started under a token is only
// applied while the token is still current.
type Token struct {
	ID    ID
	Epoch uint64
}

// Arbiter holds at most one active activity and resets the rest on every switch.
//
// An Arbiter is not safe for concurrent use; a session drives it from a single
// event loop.
type Arbiter struct {
	active    ID
	resets    map[ID]func()
	epoch     uint64
	resetting bool
}

func NewArbiter() *Arbiter { return &Arbiter{resets: make(map[ID]func())} }

// Active returns the active activity or None.
func (a *Arbiter) Active() ID { return a.active }

// Epoch increases on every SetActiveTool and every effective CloseActiveTool.
func (a *Arbiter) Epoch() uint64 { return a.epoch }

// Token returns the token of the current activation.
func (a *Arbiter) Token() Token { return Token{ID: a.active, Epoch: a.epoch} }

// Current reports whether tok still names the live activation.
func (a *Arbiter) Current(tok Token) bool {
	return tok.Epoch == a.epoch && tok.ID == a.active && tok.ID != None
}

// RegisterResetCallback installs cb for id, replacing any previous callback.
func (a *Arbiter) RegisterResetCallback(id ID, cb func()) {
	if id == None || cb == nil {
		return
	}
	a.resets[id] = cb
}

// UnregisterResetCallback removes the callback for id. Absent ids are ignored.
func (a *Arbiter) UnregisterResetCallback(id ID) {
	delete(a.resets, id)
}

// SetActiveTool resets every registered activity other than id and then makes id
// active. Re-activating the current id still resets the others and starts a new epoch.
func (a *Arbiter) SetActiveTool(id ID) {
	a.guard()
	from := a.active
	a.resetting = true
	for _, k := range All {
		if k == id {
			continue
		}
		a.reset(k)
	}
	a.resetting = false
	a.active = id
	a.epoch++
	metricTransitions.WithLabelValues(from.String(), id.String()).Inc()
}

// CloseActiveTool resets the active activity and clears the slot. It does nothing
// when no activity is active.
func (a *Arbiter) CloseActiveTool() {
	a.guard()
	if a.active == None {
		return
	}
	from := a.active
	a.resetting = true
	a.reset(from)
	a.resetting = false
	a.active = None
	a.epoch++
	metricTransitions.WithLabelValues(from.String(), None.String()).Inc()
}

func (a *Arbiter) reset(id ID) {
	cb, ok := a.resets[id]
	if !ok {
		return
	}
	// Keep the flag consistent if a callback panics and the loop recovers.
	defer func() {
		if r := recover(); r != nil {
			a.resetting = false
			panic(r)
		}
	}()
	cb()
	metricResets.WithLabelValues(id.String()).Inc()
}

func (a *Arbiter) guard() {
	if a.resetting {
		panic(ErrReentrantTransition)
	}
}
