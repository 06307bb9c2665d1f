package presenter

import (
	"context"
	"log"
	"strings"

	"yuzu/tutor/internal/activity"
	"yuzu/tutor/internal/toolcall"
)

const (
	msgCameraPresented = "Camera activity presented. You must wait for the user to take and submit a photo before continuing with the lesson."
	msgCameraValid     = "The user has taken a valid photo that matches the requirements."
	msgCameraInvalid   = "The user's photo doesn't match the requirements. They should try again."
	msgCameraSubmitted = "The user has submitted their photo. You can continue with the lesson."
	msgCameraDenied    = "The user did not allow camera access, so the camera activity was cancelled."

	jpegDataPrefix = "data:image/jpeg;base64,"
)

// Stream is a live camera feed. Release is idempotent.
type Stream interface {
	Release()
}

// Camera acquires the user's camera.
type Camera interface {
	Acquire(ctx context.Context) (Stream, error)
}

// PhotoJudge decides whether a photo satisfies an instruction.
type PhotoJudge interface {
	Judge(ctx context.Context, imageBase64, instruction string) (bool, error)
}

type CameraView struct {
	Object    string `json:"object"`
	Prompt    string `json:"prompt"`
	Streaming bool   `json:"streaming"`
	HasPhoto  bool   `json:"hasPhoto"`
	Checking  bool   `json:"checking"`
	IsValid   *bool  `json:"isValid,omitempty"`
}

// CameraActivity asks the user to photograph something and gates submission on the
// judge's verdict. The camera stream is held only while the activity is active and
// no photo is pending.
type CameraActivity struct {
	base
	camera   Camera
	judge    PhotoJudge
	data     *toolcall.CameraActivity
	stream   Stream
	photo    string
	checking bool
	isValid  *bool
}

func NewCameraActivity(d Deps, camera Camera, judge PhotoJudge) *CameraActivity {
	p := &CameraActivity{camera: camera, judge: judge}
	p.base = newBase(activity.CameraActivity, d, p.reset)
	return p
}

func (p *CameraActivity) reset() {
	p.releaseStream()
	p.data = nil
	p.photo = ""
	p.checking = false
	p.isValid = nil
}

func (p *CameraActivity) releaseStream() {
	if p.stream != nil {
		p.stream.Release()
		p.stream = nil
	}
}

func (p *CameraActivity) Present(args toolcall.CameraActivity) {
	p.releaseStream()
	p.data = &args
	p.photo = ""
	p.checking = false
	p.isValid = nil
	p.activate()
	p.say(msgCameraPresented)
	p.startCamera()
}

func (p *CameraActivity) startCamera() {
	if p.camera == nil {
		return
	}
	s, err := p.camera.Acquire(context.Background())
	if err != nil {
		log.Printf("[camera] acquire: %v", err)
		p.Denied()
		return
	}
	p.stream = s
}

// Denied handles a refused camera permission: the user is alerted and the activity
// is abandoned.
func (p *CameraActivity) Denied() {
	if !p.visible() {
		return
	}
	p.toast(ToastAlert, "Camera access denied", "Please allow camera access to continue")
	p.say(msgCameraDenied)
	p.close()
}

// TakePhoto captures frame, stops the camera and asks the judge about it.
func (p *CameraActivity) TakePhoto(frame string) error {
	if !p.visible() || p.data == nil {
		return ErrNotActive
	}
	if p.photo != "" || frame == "" {
		return nil
	}
	p.photo = frame
	p.releaseStream()
	p.checking = true

	tok := p.d.Arbiter.Token()
	img := strings.TrimPrefix(frame, jpegDataPrefix)
	instruction := p.data.CameraInstructions
	launch(&p.base,
		func() bool { return p.d.Arbiter.Current(tok) && p.photo == frame },
		func(ctx context.Context) bool {
			if p.judge == nil {
				return false
			}
			ok, err := p.judge.Judge(ctx, img, instruction)
			if err != nil {
				log.Printf("[camera] judge: %v", err)
				return false
			}
			return ok
		},
		func(ok bool) {
			p.checking = false
			p.isValid = &ok
			p.record(ok, p.data.Object)
			if ok {
				p.toast(ToastSuccess, "Great photo!", "Your photo matches what we were looking for.")
				p.say(msgCameraValid)
				return
			}
			p.toast(ToastError, "Photo doesn't match", "Try taking another photo.")
			p.say(msgCameraInvalid)
		},
		nil,
	)
	return nil
}

// Retake discards the photo and restarts the camera.
func (p *CameraActivity) Retake() error {
	if !p.visible() || p.data == nil {
		return ErrNotActive
	}
	p.photo = ""
	p.checking = false
	p.isValid = nil
	p.releaseStream()
	p.startCamera()
	return nil
}

// Submit completes the activity when the photo was judged valid.
func (p *CameraActivity) Submit() error {
	if !p.visible() || p.data == nil {
		return ErrNotActive
	}
	if p.isValid == nil || !*p.isValid {
		p.toast(ToastError, "Invalid photo", "Please take a photo that matches the requirements.")
		if p.isValid != nil {
			p.later(func() { p.isValid = nil })
		}
		return nil
	}
	p.toast(ToastSuccess, "Photo submitted!", "")
	p.say(msgCameraSubmitted)
	p.close()
	return nil
}

// Streaming reports whether a camera stream is held.
func (p *CameraActivity) Streaming() bool { return p.stream != nil }

func (p *CameraActivity) View() (any, bool) {
	if !p.visible() || p.data == nil {
		return nil, false
	}
	v := CameraView{
		Object:    p.data.Object,
		Prompt:    p.data.Prompt,
		Streaming: p.stream != nil,
		HasPhoto:  p.photo != "",
		Checking:  p.checking,
	}
	if p.isValid != nil {
		ok := *p.isValid
		v.IsValid = &ok
	}
	return v, true
}

func (p *CameraActivity) Close() { p.close() }

// Unmount releases the camera and deregisters the activity.
func (p *CameraActivity) Unmount() {
	p.releaseStream()
	p.unmount()
}
