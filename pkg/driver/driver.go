// Package driver is the capture boundary: sources that produce video frames,
// a registry to find them and the state machine guarding their use.
package driver

import (
	"github.com/pion/videoframe/pkg/frame"
	"github.com/pion/videoframe/pkg/video"
)

type OpenCloser interface {
	Open() error
	Close() error
}

type Infoer interface {
	Info() Info
}

type Info struct {
	Label      string
	DeviceType DeviceType
	Priority   Priority
	// Name is a human friendly name of the device, when the platform has one.
	Name string
}

// VideoRecorder starts producing frames of the given format. The format must
// be one of the adapter's Properties, possibly with a frame rate set.
type VideoRecorder interface {
	VideoRecord(format frame.Format) (video.Reader, error)
}

// Adapter is the interface a capture source implements to be registered.
type Adapter interface {
	OpenCloser
	VideoRecorder
	// Properties lists the formats the source can produce. It is only
	// consulted while the source is open.
	Properties() []frame.Format
}

// Driver is a registered Adapter guarded by the open/record state machine.
type Driver interface {
	Adapter
	Infoer
	ID() string
	Status() State
}
