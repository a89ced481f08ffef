package driver

import (
	"errors"
	"image"
	"testing"

	"github.com/pion/videoframe/pkg/frame"
	"github.com/pion/videoframe/pkg/video"
)

var (
	errRecord = errors.New("failed to start recording")
	errOpen   = errors.New("failed to open")
)

type adapterMock struct {
	openErr   error
	recordErr error
	opened    int
}

func (a *adapterMock) Open() error {
	if a.openErr != nil {
		return a.openErr
	}
	a.opened++
	return nil
}
func (a *adapterMock) Close() error { return nil }
func (a *adapterMock) Properties() []frame.Format {
	return []frame.Format{frame.NewFormat(image.Pt(2, 2), frame.NV12)}
}

func (a *adapterMock) VideoRecord(frame.Format) (video.Reader, error) {
	if a.recordErr != nil {
		return nil, a.recordErr
	}
	return video.ReaderFunc(func() (video.Frame, func(), error) {
		return video.Frame{}, func() {}, nil
	}), nil
}

var testFormat = frame.NewFormat(image.Pt(2, 2), frame.NV12)

func TestVideoWrapperState(t *testing.T) {
	var a adapterMock
	d := wrapAdapter(&a, Info{})

	if d.Properties() != nil {
		t.Errorf("expected nil, but got %v", d.Properties())
	}

	_, err := d.VideoRecord(testFormat)
	if err == nil {
		t.Errorf("expected to get an invalid state")
	}

	err = d.Open()
	if err != nil {
		t.Errorf("expected to successfully open, but got %v", err)
	}
	if len(d.Properties()) != 1 {
		t.Errorf("expected one property, but got %v", d.Properties())
	}
	if err := d.Open(); err == nil {
		t.Errorf("expected opening twice to fail")
	}
	if a.opened != 1 {
		t.Errorf("expected the adapter to be opened once, but got %d", a.opened)
	}

	r, err := d.VideoRecord(testFormat)
	if err != nil {
		t.Errorf("expected to successfully start recording, but got %v", err)
	}
	if r == nil {
		t.Errorf("expected a reader")
	}
	if d.Status() != StateRunning {
		t.Errorf("expected the status to be %v, but got %v", StateRunning, d.Status())
	}
	if _, err := d.VideoRecord(testFormat); err == nil {
		t.Errorf("expected recording twice to fail")
	}

	if err := d.Close(); err != nil {
		t.Errorf("expected to successfully close, but got %v", err)
	}
	if d.Status() != StateClosed {
		t.Errorf("expected the status to be %v, but got %v", StateClosed, d.Status())
	}
}

func TestVideoWrapperWithBrokenRecorderState(t *testing.T) {
	a := adapterMock{recordErr: errRecord}
	d := wrapAdapter(&a, Info{})

	err := d.Open()
	if err != nil {
		t.Errorf("expected to open successfully")
	}

	_, err = d.VideoRecord(testFormat)
	if err == nil {
		t.Errorf("expected to get an error")
	}

	if err != errRecord {
		t.Errorf("expected to get %v, but got %v", errRecord, err)
	}

	if d.Status() != StateOpened {
		t.Errorf("expected the status to be %v, but got %v", StateOpened, d.Status())
	}
}

func TestVideoWrapperWithBrokenOpen(t *testing.T) {
	a := adapterMock{openErr: errOpen}
	d := wrapAdapter(&a, Info{})

	if err := d.Open(); err != errOpen {
		t.Errorf("expected to get %v, but got %v", errOpen, err)
	}
	if d.Status() != StateClosed {
		t.Errorf("expected the status to be %v, but got %v", StateClosed, d.Status())
	}
}

func TestVideoWrapperInvalidFormat(t *testing.T) {
	var a adapterMock
	d := wrapAdapter(&a, Info{})
	if err := d.Open(); err != nil {
		t.Fatal(err)
	}

	if _, err := d.VideoRecord(frame.Format{}); err == nil {
		t.Errorf("expected an invalid format to be rejected")
	}
	if d.Status() != StateOpened {
		t.Errorf("expected the status to be %v, but got %v", StateOpened, d.Status())
	}
}
