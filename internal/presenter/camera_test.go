package presenter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"yuzu/tutor/internal/activity"
	"yuzu/tutor/internal/toolcall"
)

type fakeStream struct{ released int }

func (s *fakeStream) Release() { s.released++ }

type fakeCamera struct {
	streams []*fakeStream
	err     error
}

func (c *fakeCamera) Acquire(ctx context.Context) (Stream, error) {
	if c.err != nil {
		return nil, c.err
	}
	s := &fakeStream{}
	c.streams = append(c.streams, s)
	return s, nil
}

type fakeJudge struct {
	verdict bool
	err     error
	image   string
	prompt  string
}

func (j *fakeJudge) Judge(ctx context.Context, img, instruction string) (bool, error) {
	j.image, j.prompt = img, instruction
	return j.verdict, j.err
}

func cameraArgs() toolcall.CameraActivity {
	return toolcall.CameraActivity{Object: "apple", Prompt: "Show me an apple!", CameraInstructions: "Is there an apple in the photo?"}
}

func TestCameraValidPhotoSubmit(t *testing.T) {
	h := newHarness()
	cam := &fakeCamera{}
	judge := &fakeJudge{verdict: true}
	p := NewCameraActivity(h.deps, cam, judge)

	p.Present(cameraArgs())
	require.Equal(t, msgCameraPresented, h.agent.last())
	require.True(t, p.Streaming())

	require.NoError(t, p.TakePhoto("data:image/jpeg;base64,QUJD"))
	require.Equal(t, 1, cam.streams[0].released)
	require.Equal(t, "QUJD", judge.image)
	require.Equal(t, "Is there an apple in the photo?", judge.prompt)
	require.Equal(t, msgCameraValid, h.agent.last())

	require.NoError(t, p.Submit())
	require.Equal(t, msgCameraSubmitted, h.agent.last())
	require.Equal(t, activity.None, h.arb.Active())
}

func TestCameraJudgeErrorIsInvalid(t *testing.T) {
	h := newHarness()
	p := NewCameraActivity(h.deps, &fakeCamera{}, &fakeJudge{err: errors.New("boom")})
	p.Present(cameraArgs())
	require.NoError(t, p.TakePhoto("QUJD"))
	require.Equal(t, msgCameraInvalid, h.agent.last())

	require.NoError(t, p.Submit())
	require.Equal(t, "Invalid photo", h.toasts.toasts[len(h.toasts.toasts)-1].Title)
	require.Equal(t, activity.CameraActivity, h.arb.Active())

	h.sched.fire()
	require.Nil(t, p.isValid)
}

func TestCameraRetakeRestartsStream(t *testing.T) {
	h := newHarness()
	cam := &fakeCamera{}
	p := NewCameraActivity(h.deps, cam, &fakeJudge{})
	p.Present(cameraArgs())
	require.NoError(t, p.TakePhoto("QUJD"))

	require.NoError(t, p.Retake())
	require.Len(t, cam.streams, 2)
	require.True(t, p.Streaming())
	require.Nil(t, p.isValid)
}

func TestCameraStreamReleasedOnEveryDeactivation(t *testing.T) {
	h := newHarness()
	cam := &fakeCamera{}
	p := NewCameraActivity(h.deps, cam, &fakeJudge{})
	q := NewQuiz(h.deps)

	p.Present(cameraArgs())
	p.Close()
	require.Equal(t, 1, cam.streams[0].released)

	p.Present(cameraArgs())
	q.Present(toolcall.Quiz{Question: "q", Options: []string{"a"}, CorrectAnswer: "a"})
	require.Equal(t, 1, cam.streams[1].released)

	p.Present(cameraArgs())
	p.Unmount()
	require.Equal(t, 1, cam.streams[2].released)
}

func TestCameraDeniedAborts(t *testing.T) {
	h := newHarness()
	p := NewCameraActivity(h.deps, &fakeCamera{err: errors.New("NotAllowedError")}, &fakeJudge{})
	p.Present(cameraArgs())

	require.Equal(t, activity.None, h.arb.Active())
	require.Equal(t, ToastAlert, h.toasts.toasts[0].Kind)
	require.Equal(t, "Camera access denied", h.toasts.toasts[0].Title)
}
