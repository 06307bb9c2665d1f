package presenter

import (
	"testing"

	"github.com/stretchr/testify/require"
	"yuzu/tutor/internal/activity"
	"yuzu/tutor/internal/toolcall"
)

func ids(tiles []Tile) []string {
	out := make([]string, len(tiles))
	for i, t := range tiles {
		out[i] = t.ID
	}
	return out
}

func TestReorderWordBackToOriginal(t *testing.T) {
	h := newHarness()
	p := NewReorder(h.deps)
	p.Present(toolcall.ReorderGame{Text: "cat", Type: toolcall.ReorderWord})
	require.Equal(t, "Reorder game presented. You must tell the user to drag and drop the letters to put them in the correct order.", h.agent.last())
	require.Equal(t, []string{"t-2", "a-1", "c-0"}, ids(p.Items()))

	require.NoError(t, p.Arrange([]string{"c-0", "a-1", "t-2"}))
	require.NoError(t, p.Check())
	require.Equal(t, "The user has correctly arranged the word!", h.agent.last())

	h.sched.fire()
	require.Equal(t, activity.None, h.arb.Active())
}

func TestReorderSentenceWithMove(t *testing.T) {
	h := newHarness()
	p := NewReorder(h.deps)
	p.Present(toolcall.ReorderGame{Text: "Bears love honey", Type: toolcall.ReorderSentence})
	require.Contains(t, h.agent.last(), "drag and drop the words")

	// honey love Bears -> Bears honey love -> Bears love honey
	require.NoError(t, p.Move(2, 0))
	require.NoError(t, p.Move(2, 1))
	require.NoError(t, p.Check())
	require.Equal(t, "The user has correctly arranged the sentence!", h.agent.last())
}

func TestReorderIncorrectRetries(t *testing.T) {
	h := newHarness()
	p := NewReorder(h.deps)
	p.Present(toolcall.ReorderGame{Text: "cat", Type: toolcall.ReorderWord})
	require.NoError(t, p.Check())
	require.Equal(t, "The user needs to try again to arrange the word correctly.", h.agent.last())
	require.NotNil(t, p.isCorrect)

	h.sched.fire()
	require.Nil(t, p.isCorrect)
	require.Equal(t, activity.ReorderGame, h.arb.Active())
}

func TestReorderArrangeRejectsBadPermutation(t *testing.T) {
	h := newHarness()
	p := NewReorder(h.deps)
	p.Present(toolcall.ReorderGame{Text: "cat", Type: toolcall.ReorderWord})
	require.Error(t, p.Arrange([]string{"c-0", "c-0", "t-2"}))
	require.Error(t, p.Arrange([]string{"c-0"}))
	require.Error(t, p.Move(0, 3))
}
