package progress

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecordAndSummary(t *testing.T) {
	st, err := Open(":memory:")
	require.NoError(t, err)
	defer st.Close()
	ctx := context.Background()

	require.NoError(t, st.Record(ctx, Outcome{SessionID: "s1", Activity: "quiz", Correct: true, Detail: "Apple"}))
	require.NoError(t, st.Record(ctx, Outcome{SessionID: "s1", Activity: "quiz", Correct: false, Detail: "Chair"}))
	require.NoError(t, st.Record(ctx, Outcome{SessionID: "s1", Activity: "cloze", Correct: true}))
	require.NoError(t, st.Record(ctx, Outcome{SessionID: "s2", Activity: "quiz", Correct: true}))

	sum, err := st.Summary(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, 3, sum.Attempts)
	require.Equal(t, 2, sum.Correct)
	require.Equal(t, ActivityTally{Attempts: 2, Correct: 1}, sum.ByActivity["quiz"])

	list, err := st.List(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, "Apple", list[0].Detail)
	require.False(t, list[1].Correct)
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.db")
	st, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Record(context.Background(), Outcome{SessionID: "s1", Activity: "quiz", Correct: true}))
	require.NoError(t, st.Close())

	st, err = Open(path)
	require.NoError(t, err)
	defer st.Close()
	sum, err := st.Summary(context.Background(), "s1")
	require.NoError(t, err)
	require.Equal(t, 1, sum.Attempts)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ")
	require.Error(t, err)
}
