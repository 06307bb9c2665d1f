package toolcall

import (
	"strings"

	"yuzu/tutor/internal/activity"
)

// Call is one decoded tool invocation. The set of implementations is closed; every
// variant maps to exactly one activity.
type Call interface {
	Activity() activity.ID
	Validate() error
	sealed()
}

type LessonWords struct {
	Words []string `json:"words" jsonschema:"the list of words to present"`
	// Items is accepted as an alias for Words.
	Items []string `json:"items,omitempty" jsonschema:"alias for words"`
}

type Quiz struct {
	Question      string   `json:"question" jsonschema:"the question to ask"`
	Options       []string `json:"options" jsonschema:"the possible answers"`
	CorrectAnswer string   `json:"correctAnswer" jsonschema:"the correct answer"`
}

type Cloze struct {
	Sentence string `json:"sentence" jsonschema:"the sentence with ___ where the blank should be"`
	Answer   string `json:"answer" jsonschema:"the correct answer"`
	Hint     string `json:"hint,omitempty" jsonschema:"optional hint to help the user"`
}

type PhotoOption struct {
	Text             string `json:"text" jsonschema:"the text of the option"`
	ImageSearchQuery string `json:"imageSearchQuery" jsonschema:"the search query to find an image for this option"`
}

type PhotoQuiz struct {
	Question      string        `json:"question" jsonschema:"the question to ask"`
	Options       []PhotoOption `json:"options" jsonschema:"the possible answers with their image search queries"`
	CorrectAnswer string        `json:"correctAnswer" jsonschema:"the correct answer, must match one of the option texts"`
}

type Statement struct {
	Word   string `json:"word" jsonschema:"the statement text"`
	IsTrue bool   `json:"isTrue" jsonschema:"whether the statement is true"`
}

type DragTrueOrFalse struct {
	Statements []Statement `json:"statements" jsonschema:"the statements to classify as true or false"`
}

type PresentWord struct {
	Word       string   `json:"word" jsonschema:"the word to be learned"`
	Definition string   `json:"definition" jsonschema:"the definition or meaning of the word"`
	Examples   []string `json:"examples" jsonschema:"example sentences using the word"`
}

type SentenceBuilder struct {
	Subject         string   `json:"subject" jsonschema:"what the sentence is about"`
	CorrectSentence string   `json:"correctSentence" jsonschema:"the sentence the user has to build"`
	WordBank        []string `json:"wordBank" jsonschema:"the words offered to the user, including distractors"`
}

type CameraActivity struct {
	Object             string `json:"object" jsonschema:"the object the user has to photograph"`
	Prompt             string `json:"prompt" jsonschema:"the prompt shown to the user"`
	CameraInstructions string `json:"camera_instructions" jsonschema:"instruction used to judge whether the photo matches"`
}

type BadgeAward struct {
	Word                string `json:"word" jsonschema:"the word the badge is awarded for"`
	ActivitiesCompleted int    `json:"activitiesCompleted" jsonschema:"number of activities completed with this word"`
	TotalActivities     int    `json:"totalActivities" jsonschema:"number of activities planned for this word"`
}

// Reorder kinds.
const (
	ReorderWord     = "word"
	ReorderSentence = "sentence"
)

type ReorderGame struct {
	Text string `json:"text" jsonschema:"the word or sentence to rebuild"`
	Type string `json:"type" jsonschema:"word to shuffle letters, sentence to shuffle words"`
}

func (LessonWords) Activity() activity.ID     { return activity.LessonWords }
func (Quiz) Activity() activity.ID            { return activity.Quiz }
func (Cloze) Activity() activity.ID           { return activity.Cloze }
func (PhotoQuiz) Activity() activity.ID       { return activity.PhotoQuiz }
func (DragTrueOrFalse) Activity() activity.ID { return activity.DragTrueOrFalse }
func (PresentWord) Activity() activity.ID     { return activity.PresentWord }
func (SentenceBuilder) Activity() activity.ID { return activity.SentenceBuilder }
func (CameraActivity) Activity() activity.ID  { return activity.CameraActivity }
func (BadgeAward) Activity() activity.ID      { return activity.BadgeAward }
func (ReorderGame) Activity() activity.ID     { return activity.ReorderGame }

func (LessonWords) sealed()     {}
func (Quiz) sealed()            {}
func (Cloze) sealed()           {}
func (PhotoQuiz) sealed()       {}
func (DragTrueOrFalse) sealed() {}
func (PresentWord) sealed()     {}
func (SentenceBuilder) sealed() {}
func (CameraActivity) sealed()  {}
func (BadgeAward) sealed()      {}
func (ReorderGame) sealed()     {}

// List returns Words, falling back to Items.
func (a LessonWords) List() []string {
	if len(a.Words) > 0 {
		return a.Words
	}
	return a.Items
}

func (a LessonWords) Validate() error {
	if len(a.List()) == 0 {
		return missing("words")
	}
	return nil
}

func (a Quiz) Validate() error {
	switch {
	case blank(a.Question):
		return missing("question")
	case len(a.Options) == 0:
		return missing("options")
	case blank(a.CorrectAnswer):
		return missing("correctAnswer")
	}
	return nil
}

// Blank is the placeholder a cloze sentence must contain.
const Blank = "___"

func (a Cloze) Validate() error {
	switch {
	case blank(a.Sentence):
		return missing("sentence")
	case !strings.Contains(a.Sentence, Blank):
		return invalid("sentence", "must contain "+Blank)
	case blank(a.Answer):
		return missing("answer")
	}
	return nil
}

func (a PhotoQuiz) Validate() error {
	switch {
	case blank(a.Question):
		return missing("question")
	case len(a.Options) == 0:
		return missing("options")
	case blank(a.CorrectAnswer):
		return missing("correctAnswer")
	}
	for _, o := range a.Options {
		if blank(o.Text) {
			return missing("options[].text")
		}
	}
	return nil
}

func (a DragTrueOrFalse) Validate() error {
	if len(a.Statements) == 0 {
		return missing("statements")
	}
	return nil
}

func (a PresentWord) Validate() error {
	if blank(a.Word) {
		return missing("word")
	}
	if blank(a.Definition) {
		return missing("definition")
	}
	return nil
}

func (a SentenceBuilder) Validate() error {
	switch {
	case blank(a.CorrectSentence):
		return missing("correctSentence")
	case len(a.WordBank) == 0:
		return missing("wordBank")
	}
	return nil
}

func (a CameraActivity) Validate() error {
	if blank(a.Object) && blank(a.CameraInstructions) {
		return missing("object")
	}
	return nil
}

func (a BadgeAward) Validate() error {
	if blank(a.Word) {
		return missing("word")
	}
	if a.ActivitiesCompleted < 0 || a.TotalActivities < 0 {
		return invalid("activitiesCompleted", "must not be negative")
	}
	return nil
}

func (a ReorderGame) Validate() error {
	if blank(a.Text) {
		return missing("text")
	}
	if a.Type != ReorderWord && a.Type != ReorderSentence {
		return invalid("type", `must be "word" or "sentence"`)
	}
	return nil
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
