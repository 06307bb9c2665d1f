package eventloop

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPostRunsInOrder(t *testing.T) {
	l := New("test", 0)
	l.Start()
	defer l.Stop()

	var got []int
	for i := 0; i < 5; i++ {
		i := i
		require.True(t, l.Post(func() { got = append(got, i) }))
	}
	require.NoError(t, l.Call(context.Background(), func() {}))
	require.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestCallSerializesConcurrentCallers(t *testing.T) {
	l := New("test", 4)
	l.Start()
	defer l.Stop()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.Call(context.Background(), func() { counter++ })
		}()
	}
	wg.Wait()
	require.Equal(t, 50, counter)
}

func TestPanicIsRecovered(t *testing.T) {
	l := New("test", 0)
	var recovered any
	l.OnPanic = func(r any) { recovered = r }
	l.Start()
	defer l.Stop()

	boom := errors.New("boom")
	require.NoError(t, l.Call(context.Background(), func() { panic(boom) }))
	require.NoError(t, l.Call(context.Background(), func() {}))
	require.Equal(t, boom, recovered)
}

func TestStoppedLoopRejects(t *testing.T) {
	l := New("test", 0)
	l.Start()
	l.Stop()
	<-l.Done()

	require.False(t, l.Post(func() {}))
	require.ErrorIs(t, l.Call(context.Background(), func() {}), ErrStopped)
}

func TestAfterFunc(t *testing.T) {
	l := New("test", 0)
	l.Start()
	defer l.Stop()

	fired := make(chan struct{})
	l.AfterFunc(10*time.Millisecond, func() { close(fired) })
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("timer never fired")
	}
}
