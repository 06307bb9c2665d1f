package presenter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"yuzu/tutor/internal/activity"
	"yuzu/tutor/internal/toolcall"
)

func buildSentence(t *testing.T, p *SentenceBuilder, words []string) {
	t.Helper()
	used := map[string]bool{}
	for _, w := range words {
		found := false
		for _, tile := range p.Bank() {
			if tile.Value == w && !used[tile.ID] {
				require.NoError(t, p.Toggle(tile.ID))
				used[tile.ID] = true
				found = true
				break
			}
		}
		require.Truef(t, found, "word %q not in bank", w)
	}
}

func TestSentenceBuilderStripsTrailingPeriod(t *testing.T) {
	h := newHarness()
	p := NewSentenceBuilder(h.deps)
	words := strings.Fields("An apple a day keeps the doctor away")
	p.Present(toolcall.SentenceBuilder{
		Subject:         "apples",
		CorrectSentence: "An apple a day keeps the doctor away.",
		WordBank:        append(append([]string(nil), words...), "banana"),
	})
	require.Equal(t, `Sentence builder presented. Tell the user they have to build the sentence "An apple a day keeps the doctor away." using the words provided.`, h.agent.last())

	buildSentence(t, p, words)
	require.Equal(t, words, p.Selected())
	require.NoError(t, p.Check())
	require.Equal(t, msgSentenceCorrect, h.agent.last())
	require.Equal(t, "You built the sentence perfectly!", h.toasts.toasts[0].Description)

	h.sched.fire()
	require.Equal(t, activity.None, h.arb.Active())
	require.Nil(t, p.data)
	require.Nil(t, p.selected)
}

func TestSentenceBuilderTileIDsAndShuffle(t *testing.T) {
	h := newHarness()
	p := NewSentenceBuilder(h.deps)
	p.Present(toolcall.SentenceBuilder{CorrectSentence: "a b", WordBank: []string{"a", "b", "a"}})
	require.Equal(t, []Tile{{ID: "a-2", Value: "a"}, {ID: "b-1", Value: "b"}, {ID: "a-0", Value: "a"}}, p.Bank())
}

func TestSentenceBuilderToggleBackspaceClear(t *testing.T) {
	h := newHarness()
	p := NewSentenceBuilder(h.deps)
	p.Present(toolcall.SentenceBuilder{CorrectSentence: "x y z", WordBank: []string{"x", "y", "z"}})

	require.NoError(t, p.Toggle("x-0"))
	require.NoError(t, p.Toggle("y-1"))
	require.NoError(t, p.Toggle("x-0"))
	require.Equal(t, []string{"y"}, p.Selected())

	require.NoError(t, p.Toggle("z-2"))
	require.NoError(t, p.Backspace())
	require.Equal(t, []string{"y"}, p.Selected())

	require.NoError(t, p.Clear())
	require.Empty(t, p.Selected())
	require.Error(t, p.Toggle("nope-9"))
}

func TestSentenceBuilderRetry(t *testing.T) {
	h := newHarness()
	p := NewSentenceBuilder(h.deps)
	p.Present(toolcall.SentenceBuilder{CorrectSentence: "x y", WordBank: []string{"x", "y"}})
	require.NoError(t, p.Toggle("y-1"))
	require.NoError(t, p.Toggle("x-0"))

	require.NoError(t, p.Check())
	require.Equal(t, msgSentenceRetry, h.agent.last())
	require.False(t, *p.isCorrect)

	// Editing clears a wrong verdict straight away.
	require.NoError(t, p.Toggle("x-0"))
	require.Nil(t, p.isCorrect)
	require.Equal(t, []string{"y"}, p.Selected())

	require.NoError(t, p.Check())
	require.NoError(t, p.Backspace())
	require.Nil(t, p.isCorrect)
	require.Empty(t, p.Selected())

	require.NoError(t, p.Toggle("y-1"))
	require.NoError(t, p.Check())
	require.NoError(t, p.Clear())
	require.Nil(t, p.isCorrect)
	require.Empty(t, p.Selected())

	h.sched.fire()
	require.Nil(t, p.isCorrect)
	require.Equal(t, activity.SentenceBuilder, h.arb.Active())
}

func TestSentenceBuilderLockedAfterCorrect(t *testing.T) {
	h := newHarness()
	p := NewSentenceBuilder(h.deps)
	p.Present(toolcall.SentenceBuilder{CorrectSentence: "x y.", WordBank: []string{"x", "y"}})
	require.NoError(t, p.Toggle("x-0"))
	require.NoError(t, p.Toggle("y-1"))

	require.NoError(t, p.Check())
	require.True(t, *p.isCorrect)
	require.NoError(t, p.Backspace())
	require.NoError(t, p.Clear())
	require.Equal(t, []string{"x", "y"}, p.Selected())

	h.sched.fire()
	require.Equal(t, activity.None, h.arb.Active())
}
