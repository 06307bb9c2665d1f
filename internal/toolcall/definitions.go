package toolcall

// Definition is a function-tool declaration in the shape realtime voice agents accept.
type Definition struct {
	Type        string         `json:"type"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

func str(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func integer(desc string) map[string]any {
	return map[string]any{"type": "integer", "description": desc}
}

func list(desc string, items map[string]any) map[string]any {
	return map[string]any{"type": "array", "description": desc, "items": items}
}

func object(props map[string]any, required ...string) map[string]any {
	return map[string]any{"type": "object", "properties": props, "required": required}
}

func fn(name, desc string, params map[string]any) Definition {
	return Definition{Type: "function", Name: name, Description: desc, Parameters: params}
}

// Definitions lists every tool the agent may call, in activity order.
func Definitions() []Definition {
	return []Definition{
		fn(NamePresentLessonWords,
			"Present lesson words to the user related to the user's interests at the beginning of the lesson",
			object(map[string]any{
				"words": list("The list of words to present", str("The word to present")),
			}, "words")),
		fn(NamePresentQuiz,
			"Present a quiz question to the user and wait for their answer",
			object(map[string]any{
				"question":      str("The question to ask"),
				"options":       list("The possible answers", str("A possible answer")),
				"correctAnswer": str("The correct answer"),
			}, "question", "options", "correctAnswer")),
		fn(NamePresentCloze,
			"Present a fill-in-the-blank exercise to the user. Use ___ (three underscores) to indicate where the blank should be.",
			object(map[string]any{
				"sentence": str("The sentence with ___ where the blank should be"),
				"answer":   str("The correct answer"),
				"hint":     str("Optional hint to help the user"),
			}, "sentence", "answer")),
		fn(NamePresentPhotoQuiz,
			"Present a photo quiz to the user with image options",
			object(map[string]any{
				"question": str("The question to ask"),
				"options": list("The possible answers with their image search queries", object(map[string]any{
					"text":             str("The text of the option"),
					"imageSearchQuery": str("The search query to find an image for this option"),
				}, "text", "imageSearchQuery")),
				"correctAnswer": str("The correct answer (must match one of the option texts)"),
			}, "question", "options", "correctAnswer")),
		fn(NamePresentDragTrueOrFalse,
			"Present a drag and drop true/false game to the user",
			object(map[string]any{
				"statements": list("The statements to classify as true or false", object(map[string]any{
					"word":   str("The statement text"),
					"isTrue": map[string]any{"type": "boolean", "description": "Whether the statement is true or false"},
				}, "word", "isTrue")),
			}, "statements")),
		fn(NamePresentWord,
			"You must call this tool to introduce a new word to learn with its definition and examples",
			object(map[string]any{
				"word":       str("The word to be learned"),
				"definition": str("The definition or meaning of the word"),
				"examples":   list("Examples of how to use the word in sentences", str("An example sentence using the word")),
			}, "word", "definition", "examples")),
		fn(NamePresentSentenceBuilder,
			"Present a sentence building game where the user builds a sentence from a bank of words",
			object(map[string]any{
				"subject":         str("What the sentence is about"),
				"correctSentence": str("The sentence the user has to build"),
				"wordBank":        list("The words offered to the user, including a few distractors", str("A word")),
			}, "subject", "correctSentence", "wordBank")),
		fn(NamePresentCameraActivity,
			"Ask the user to take a photo of an object related to the word",
			object(map[string]any{
				"object":              str("The object the user has to photograph"),
				"prompt":              str("The prompt shown to the user"),
				"camera_instructions": str("What the photo must show to be accepted"),
			}, "object", "prompt", "camera_instructions")),
		fn(NamePresentBadgeAward,
			"Award a badge to the user after completing the activities for a word",
			object(map[string]any{
				"word":                str("The word the badge is awarded for"),
				"activitiesCompleted": integer("Number of activities completed with this word"),
				"totalActivities":     integer("Number of activities planned for this word"),
			}, "word", "activitiesCompleted", "totalActivities")),
		fn(NamePresentReorderGame,
			"Present a game where the user drags letters or words back into the correct order",
			object(map[string]any{
				"text": str("The word or sentence to rebuild"),
				"type": map[string]any{
					"type":        "string",
					"enum":        []string{ReorderWord, ReorderSentence},
					"description": "word to shuffle letters, sentence to shuffle words",
				},
			}, "text", "type")),
	}
}

// Instructions is the system prompt for the tutor agent.
const Instructions = `Engage students in reading activities as Eddie, the AI tutor bear.

- Introduce yourself as Eddie and ask for the student's name or nickname. Confirm that you heard it correctly. If no name is given, ask again.
- Warm up with small talk about the student's interests to make them feel comfortable.
- Teach 3 words related to the student's interests using the "presentLessonWords" tool immediately. Do not wait for a response before presenting the words. Never disclose the lesson words beforehand.
- Speak as Eddie in a funky, educated tone, similar to Yogi Bear. Ensure you're upbeat, kind, helpful, funny, and responsive to user age and comments.
- Use bear puns and metaphors to keep things fun. Keep messages under 100 characters, and always request user responses.
- Avoid referencing upcoming activities before presenting them.
- You must use available tools to make the lesson more engaging and interactive.
- You must use at least 3 interactive activities per word. Avoid repeating tools unless necessary.
- You must use the "presentWord" tool to introduce a new word to learn with its definition and examples.
- Award a badge with the "presentBadgeAward" tool after each word.
`
