package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"yuzu/tutor/internal/activity"
)

var (
	ErrUnknownActivity = errors.New("unknown activity")
	ErrUnknownAction   = errors.New("unknown action")
	ErrBadParams       = errors.New("bad interaction params")
)

// Interaction actions.
const (
	ActionClose     = "close"
	ActionAnswer    = "answer"
	ActionInput     = "input"
	ActionSubmit    = "submit"
	ActionSelect    = "select"
	ActionRelease   = "release"
	ActionResolve   = "resolve"
	ActionToggle    = "toggle"
	ActionBackspace = "backspace"
	ActionClear     = "clear"
	ActionCheck     = "check"
	ActionTakePhoto = "take_photo"
	ActionRetake    = "retake"
	ActionDenied    = "camera_denied"
	ActionContinue  = "continue"
	ActionArrange   = "arrange"
	ActionMove      = "move"
	ActionShuffle   = "shuffle"
)

type interactionParams struct {
	Option string   `json:"option"`
	Text   string   `json:"text"`
	Answer *bool    `json:"answer"`
	Offset float64  `json:"offset"`
	ID     string   `json:"id"`
	IDs    []string `json:"ids"`
	From   int      `json:"from"`
	To     int      `json:"to"`
	Image  string   `json:"image"`
}

// Interact applies one user action to an activity and waits for it to finish.
func (s *Session) Interact(ctx context.Context, activityName, action string, params json.RawMessage) error {
	id, ok := activity.Parse(activityName)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownActivity, activityName)
	}
	var p interactionParams
	if len(params) > 0 && string(params) != "null" {
		if err := json.Unmarshal(params, &p); err != nil {
			return fmt.Errorf("%w: %v", ErrBadParams, err)
		}
	}

	var err error
	callErr := s.loop.Call(ctx, s.turn(func() { err = s.apply(id, action, p) }))
	if callErr != nil {
		return callErr
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	metricInteractions.WithLabelValues(id.String(), action, result).Inc()
	if err == nil {
		s.events.AppendEvent(s.id, "interaction", map[string]any{"activity": id.String(), "action": action})
	}
	return err
}

func (s *Session) apply(id activity.ID, action string, p interactionParams) error {
	if action == ActionClose {
		for _, pr := range s.all {
			if pr.ID() == id {
				pr.Close()
				return nil
			}
		}
	}
	switch id {
	case activity.Quiz:
		if action == ActionAnswer {
			return s.quiz.Answer(p.Option)
		}
	case activity.Cloze:
		switch action {
		case ActionInput:
			return s.cloze.Input(p.Text)
		case ActionSubmit:
			return s.cloze.Submit(p.Text)
		}
	case activity.PhotoQuiz:
		if action == ActionSelect {
			return s.photoQuiz.Select(p.Text)
		}
	case activity.DragTrueOrFalse:
		switch action {
		case ActionRelease:
			return s.drag.Release(p.Offset)
		case ActionResolve:
			if p.Answer == nil {
				return fmt.Errorf("%w: answer is required", ErrBadParams)
			}
			return s.drag.Resolve(*p.Answer)
		}
	case activity.SentenceBuilder:
		switch action {
		case ActionToggle:
			return s.sentence.Toggle(p.ID)
		case ActionBackspace:
			return s.sentence.Backspace()
		case ActionClear:
			return s.sentence.Clear()
		case ActionCheck:
			return s.sentence.Check()
		}
	case activity.CameraActivity:
		switch action {
		case ActionTakePhoto:
			if p.Image == "" {
				return fmt.Errorf("%w: image is required", ErrBadParams)
			}
			return s.camera.TakePhoto(p.Image)
		case ActionRetake:
			return s.camera.Retake()
		case ActionSubmit:
			return s.camera.Submit()
		case ActionDenied:
			s.camera.Denied()
			return nil
		}
	case activity.BadgeAward:
		if action == ActionContinue {
			return s.badge.Continue()
		}
	case activity.ReorderGame:
		switch action {
		case ActionArrange:
			return s.reorder.Arrange(p.IDs)
		case ActionMove:
			return s.reorder.Move(p.From, p.To)
		case ActionShuffle:
			return s.reorder.Shuffle()
		case ActionCheck:
			return s.reorder.Check()
		}
	}
	return fmt.Errorf("%w: %s/%s", ErrUnknownAction, id, action)
}
