package toolcall

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"yuzu/tutor/internal/activity"
)

var (
	ErrUnknownTool = errors.New("unknown tool")
	ErrMalformed   = errors.New("malformed tool arguments")
)

// Tool names as the agent sees them.
const (
	NamePresentLessonWords     = "presentLessonWords"
	NamePresentQuiz            = "presentQuiz"
	NamePresentCloze           = "presentCloze"
	NamePresentPhotoQuiz       = "presentPhotoQuiz"
	NamePresentDragTrueOrFalse = "presentDragTrueOrFalse"
	NamePresentWord            = "presentWord"
	NamePresentSentenceBuilder = "presentSentenceBuilder"
	NamePresentCameraActivity  = "presentCameraActivity"
	NamePresentBadgeAward      = "presentBadgeAward"
	NamePresentReorderGame     = "presentReorderGame"
)

var toolActivities = map[string]activity.ID{
	NamePresentLessonWords:     activity.LessonWords,
	NamePresentQuiz:            activity.Quiz,
	NamePresentCloze:           activity.Cloze,
	NamePresentPhotoQuiz:       activity.PhotoQuiz,
	NamePresentDragTrueOrFalse: activity.DragTrueOrFalse,
	NamePresentWord:            activity.PresentWord,
	NamePresentSentenceBuilder: activity.SentenceBuilder,
	NamePresentCameraActivity:  activity.CameraActivity,
	NamePresentBadgeAward:      activity.BadgeAward,
	NamePresentReorderGame:     activity.ReorderGame,
}

// ActivityFor returns the activity a tool name presents.
func ActivityFor(name string) (activity.ID, bool) {
	id, ok := toolActivities[name]
	return id, ok
}

// Decode turns a tool name and its JSON arguments into a validated Call.
func Decode(name string, raw json.RawMessage) (Call, error) {
	var c Call
	var err error
	switch name {
	case NamePresentLessonWords:
		c, err = decodeInto[LessonWords](raw)
	case NamePresentQuiz:
		c, err = decodeInto[Quiz](raw)
	case NamePresentCloze:
		c, err = decodeInto[Cloze](raw)
	case NamePresentPhotoQuiz:
		c, err = decodeInto[PhotoQuiz](raw)
	case NamePresentDragTrueOrFalse:
		c, err = decodeInto[DragTrueOrFalse](raw)
	case NamePresentWord:
		c, err = decodeInto[PresentWord](raw)
	case NamePresentSentenceBuilder:
		c, err = decodeInto[SentenceBuilder](raw)
	case NamePresentCameraActivity:
		c, err = decodeInto[CameraActivity](raw)
	case NamePresentBadgeAward:
		c, err = decodeInto[BadgeAward](raw)
	case NamePresentReorderGame:
		c, err = decodeInto[ReorderGame](raw)
	default:
		metricDecodes.WithLabelValues("unknown", "unknown_tool").Inc()
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	if err != nil {
		metricDecodes.WithLabelValues(name, "malformed").Inc()
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	metricDecodes.WithLabelValues(name, "ok").Inc()
	return c, nil
}

func decodeInto[T Call](raw json.RawMessage) (Call, error) {
	var v T
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, fmt.Errorf("%w: empty arguments", ErrMalformed)
	}
	// Some agents send the arguments object as a JSON string.
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		raw = json.RawMessage(s)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v, nil
}

func missing(field string) error {
	return fmt.Errorf("%w: %s is required", ErrMalformed, field)
}

func invalid(field, why string) error {
	return fmt.Errorf("%w: %s %s", ErrMalformed, field, why)
}
