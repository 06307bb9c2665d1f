package presenter

import (
	"yuzu/tutor/internal/activity"
	"yuzu/tutor/internal/toolcall"
)

const (
	msgBadgePresented = "Congratulations! You've earned a badge for completing activities with this word. Let's celebrate your achievement!"
	msgBadgeContinue  = "The user has received their badge and is ready to continue with the next word."
)

type BadgeView struct {
	Word                string `json:"word"`
	ActivitiesCompleted int    `json:"activitiesCompleted"`
	TotalActivities     int    `json:"totalActivities"`
	Celebrate           bool   `json:"celebrate"`
}

// Badge celebrates the end of a word.
type Badge struct {
	base
	data *toolcall.BadgeAward
}

func NewBadge(d Deps) *Badge {
	p := &Badge{}
	p.base = newBase(activity.BadgeAward, d, p.reset)
	return p
}

func (p *Badge) reset() { p.data = nil }

func (p *Badge) Present(args toolcall.BadgeAward) {
	p.data = &args
	p.activate()
	p.toast(ToastCelebrate, "Badge earned!", args.Word)
	p.say(msgBadgePresented)
}

// Continue acknowledges the badge and closes the activity.
func (p *Badge) Continue() error {
	if !p.visible() {
		return ErrNotActive
	}
	p.say(msgBadgeContinue)
	p.close()
	return nil
}

func (p *Badge) View() (any, bool) {
	if !p.visible() || p.data == nil {
		return nil, false
	}
	return BadgeView{
		Word:                p.data.Word,
		ActivitiesCompleted: p.data.ActivitiesCompleted,
		TotalActivities:     p.data.TotalActivities,
		Celebrate:           true,
	}, true
}

func (p *Badge) Close() { p.close() }

func (p *Badge) Unmount() { p.unmount() }
