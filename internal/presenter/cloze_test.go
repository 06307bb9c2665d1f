package presenter

import (
	"testing"

	"github.com/stretchr/testify/require"
	"yuzu/tutor/internal/toolcall"
)

func TestClozeCaseInsensitiveTrimmed(t *testing.T) {
	h := newHarness()
	c := NewCloze(h.deps)
	c.Present(toolcall.Cloze{Sentence: "An ___ a day", Answer: "apple"})
	require.Equal(t, msgClozePresented, h.agent.last())

	require.NoError(t, c.Input(" Apple "))
	require.NoError(t, c.Submit(""))
	require.Equal(t, `The user answered " Apple " and is correct! The correct answer was "apple".`, h.agent.last())

	v, ok := c.View()
	require.True(t, ok)
	cv := v.(ClozeView)
	require.Equal(t, "An ", cv.Before)
	require.Equal(t, " a day", cv.After)
	require.True(t, *cv.IsCorrect)
}

func TestClozeLocksFirstAnswer(t *testing.T) {
	h := newHarness()
	c := NewCloze(h.deps)
	c.Present(toolcall.Cloze{Sentence: "An ___ a day", Answer: "apple"})
	require.NoError(t, c.Submit("pear"))
	require.NoError(t, c.Submit("apple"))
	require.NoError(t, c.Input("apple"))

	require.Len(t, h.agent.msgs, 2)
	require.Contains(t, h.agent.last(), "is incorrect!")
	require.Equal(t, "pear", c.input)
}

func TestClozeIgnoresEmptySubmit(t *testing.T) {
	h := newHarness()
	c := NewCloze(h.deps)
	c.Present(toolcall.Cloze{Sentence: "An ___ a day", Answer: "apple"})
	require.NoError(t, c.Submit("   "))
	require.False(t, c.hasAnswered)
	require.Len(t, h.agent.msgs, 1)
}
