package presenter

import (
	"testing"

	"github.com/stretchr/testify/require"
	"yuzu/tutor/internal/activity"
	"yuzu/tutor/internal/toolcall"
)

func TestDragResolvesQueue(t *testing.T) {
	h := newHarness()
	d := NewDragTrueOrFalse(h.deps)
	d.Present(toolcall.DragTrueOrFalse{Statements: []toolcall.Statement{
		{Word: "A", IsTrue: true},
		{Word: "B", IsTrue: false},
	}})
	require.Equal(t, msgDragPresented, h.agent.last())

	require.NoError(t, d.Resolve(true))
	require.Equal(t, msgDragNext, h.agent.last())
	require.NoError(t, d.Resolve(false))

	require.Equal(t, 2, d.CorrectAnswers())
	require.Equal(t, 0, d.Remaining())
	// The game stays on screen after the last card.
	require.Equal(t, activity.DragTrueOrFalse, h.arb.Active())
	v, ok := d.View()
	require.True(t, ok)
	require.Equal(t, "Game completed! You got 2 out of 2 correct!", v.(DragView).Summary)
	require.Equal(t, "The user finished the true or false game with 2 out of 2 correct.", h.agent.last())

	require.NoError(t, d.Resolve(true))
	require.Equal(t, 2, d.CorrectAnswers())
}

func TestDragReleaseThreshold(t *testing.T) {
	h := newHarness()
	d := NewDragTrueOrFalse(h.deps)
	d.Present(toolcall.DragTrueOrFalse{Statements: []toolcall.Statement{{Word: "A", IsTrue: false}}})

	require.NoError(t, d.Release(DragThreshold))
	require.Equal(t, 1, d.Remaining())

	require.NoError(t, d.Release(150))
	require.Equal(t, 0, d.Remaining())
	require.Equal(t, 0, d.CorrectAnswers())
	require.Equal(t, "This statement is false!", h.toasts.toasts[0].Title)
}
