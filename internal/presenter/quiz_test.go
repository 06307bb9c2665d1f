package presenter

import (
	"testing"

	"github.com/stretchr/testify/require"
	"yuzu/tutor/internal/activity"
	"yuzu/tutor/internal/toolcall"
)

func TestQuizFirstAnswerLocks(t *testing.T) {
	h := newHarness()
	q := NewQuiz(h.deps)
	q.Present(toolcall.Quiz{Question: "Which one is a fruit?", Options: []string{"Apple", "Chair"}, CorrectAnswer: "Apple"})
	require.Equal(t, msgQuizPresented, h.agent.last())
	require.Equal(t, activity.Quiz, h.arb.Active())

	require.NoError(t, q.Answer("Chair"))
	require.Equal(t, "The user answered Chair and is incorrect!", h.agent.last())
	require.Equal(t, "The correct answer was: Apple", h.toasts.toasts[0].Description)

	require.NoError(t, q.Answer("Apple"))
	require.Len(t, h.agent.msgs, 2)
	v, ok := q.View()
	require.True(t, ok)
	require.Equal(t, "Chair", v.(QuizView).Selected)
	require.Equal(t, []Outcome{{Activity: activity.Quiz, Correct: false, Detail: "Chair"}}, h.outcomes)
}

func TestQuizComparisonIgnoresCaseAndSpace(t *testing.T) {
	h := newHarness()
	q := NewQuiz(h.deps)
	q.Present(toolcall.Quiz{Question: "q", Options: []string{"Apple"}, CorrectAnswer: "Apple"})
	require.NoError(t, q.Answer("  apple "))
	require.Equal(t, "The user answered   apple  and is correct!", h.agent.last())
}

func TestQuizRequiresActive(t *testing.T) {
	h := newHarness()
	q := NewQuiz(h.deps)
	require.ErrorIs(t, q.Answer("x"), ErrNotActive)

	q.Present(toolcall.Quiz{Question: "q", Options: []string{"a"}, CorrectAnswer: "a"})
	NewCloze(h.deps).Present(toolcall.Cloze{Sentence: "An ___ a day", Answer: "apple"})
	require.ErrorIs(t, q.Answer("a"), ErrNotActive)
	_, ok := q.View()
	require.False(t, ok)
}

func TestSwitchResetsQuizState(t *testing.T) {
	h := newHarness()
	q := NewQuiz(h.deps)
	c := NewCloze(h.deps)
	q.Present(toolcall.Quiz{Question: "q", Options: []string{"a"}, CorrectAnswer: "a"})
	require.NoError(t, q.Answer("a"))

	c.Present(toolcall.Cloze{Sentence: "An ___ a day", Answer: "apple"})
	require.Nil(t, q.data)
	require.False(t, q.hasAnswered)

	// Only one view renders at any time.
	_, qv := q.View()
	_, cv := c.View()
	require.False(t, qv)
	require.True(t, cv)
}

func TestCloseResetsOwnState(t *testing.T) {
	h := newHarness()
	q := NewQuiz(h.deps)
	q.Present(toolcall.Quiz{Question: "q", Options: []string{"a"}, CorrectAnswer: "a"})
	q.Close()
	require.Equal(t, activity.None, h.arb.Active())
	require.Nil(t, q.data)
}

func TestCloseDoesNotCloseOtherActivity(t *testing.T) {
	h := newHarness()
	q := NewQuiz(h.deps)
	w := NewWord(h.deps)
	w.Present(toolcall.PresentWord{Word: "apple", Definition: "a fruit"})
	q.Close()
	require.Equal(t, activity.PresentWord, h.arb.Active())
}
