package driver

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/pion/videoframe/internal/logging"
	"github.com/pion/videoframe/pkg/frame"
	"github.com/pion/videoframe/pkg/video"
)

var logger = logging.NewLogger("driver")

func wrapAdapter(a Adapter, info Info) Driver {
	return &adapterWrapper{
		Adapter: a,
		id:      uuid.NewString(),
		info:    info,
		state:   StateClosed,
	}
}

type adapterWrapper struct {
	Adapter
	id   string
	info Info

	mu    sync.Mutex
	state State
}

func (w *adapterWrapper) ID() string {
	return w.id
}

func (w *adapterWrapper) Info() Info {
	return w.info
}

func (w *adapterWrapper) Status() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *adapterWrapper) Open() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.Update(StateOpened, w.Adapter.Open)
}

func (w *adapterWrapper) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.Update(StateClosed, w.Adapter.Close)
}

// Properties returns nil while the driver is closed.
func (w *adapterWrapper) Properties() []frame.Format {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateClosed {
		return nil
	}

	return w.Adapter.Properties()
}

func (w *adapterWrapper) VideoRecord(format frame.Format) (video.Reader, error) {
	if !format.IsValid() {
		return nil, fmt.Errorf("invalid format: %s", format)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	var r video.Reader
	err := w.state.Update(StateRunning, func() error {
		var err error
		r, err = w.Adapter.VideoRecord(format)
		return err
	})
	if err != nil {
		return nil, err
	}
	logger.Debugf("%s %q recording %s", w.info.DeviceType, w.info.Label, format)
	return r, nil
}
