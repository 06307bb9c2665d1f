package activity

// ID names one of the fixed interactive activities. The zero value is None.
type ID string

const (
	None            ID = ""
	LessonWords     ID = "lessonWords"
	Quiz            ID = "quiz"
	Cloze           ID = "cloze"
	PhotoQuiz       ID = "photoQuiz"
	DragTrueOrFalse ID = "dragTrueOrFalse"
	PresentWord     ID = "presentWord"
	SentenceBuilder ID = "sentenceBuilder"
	CameraActivity  ID = "cameraActivity"
	BadgeAward      ID = "badgeAward"
	ReorderGame     ID = "reorderGame"
)

// All lists every activity in declaration order. Resets run in this order.
var All = []ID{
	LessonWords,
	Quiz,
	Cloze,
	PhotoQuiz,
	DragTrueOrFalse,
	PresentWord,
	SentenceBuilder,
	CameraActivity,
	BadgeAward,
	ReorderGame,
}

// Parse maps a wire name to an ID. Unknown names report false.
func Parse(s string) (ID, bool) {
	for _, id := range All {
		if string(id) == s {
			return id, true
		}
	}
	return None, false
}

func (id ID) String() string {
	if id == None {
		return "none"
	}
	return string(id)
}
