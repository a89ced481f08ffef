package video

import (
	"errors"
	"sync/atomic"
	"time"
)

const (
	maskReading                = 1 << 63
	defaultBroadcasterRingSize = 32
	// Sources faster than 30 fps will see some rate fluctuation.
	defaultBroadcasterRingPollDuration = time.Millisecond * 33
)

var errEmptySource = errors.New("video: source can't be nil")

type broadcasterData struct {
	frame   Frame
	release func()
	count   uint32
	err     error
}

type broadcasterRing struct {
	// reading (1 bit) + reserved (31 bits) + data count (32 bits)
	state        atomic.Uint64
	buffer       []atomic.Pointer[broadcasterData]
	pollDuration time.Duration
}

func newBroadcasterRing(size uint, pollDuration time.Duration) *broadcasterRing {
	return &broadcasterRing{buffer: make([]atomic.Pointer[broadcasterData], size), pollDuration: pollDuration}
}

func (ring *broadcasterRing) index(count uint32) int {
	return int(count) % len(ring.buffer)
}

// acquire lets exactly one reader pull count from the source. The others
// wait for it in get.
func (ring *broadcasterRing) acquire(count uint32) func(*broadcasterData) {
	state := uint64(count)
	if ring.state.CompareAndSwap(state, state|maskReading) {
		return func(data *broadcasterData) {
			old := ring.buffer[ring.index(count)].Swap(data)
			ring.state.Store(uint64(count + 1))
			if old != nil && old.release != nil {
				old.release()
			}
		}
	}
	return nil
}

func (ring *broadcasterRing) get(count uint32) *broadcasterData {
	for {
		reading := uint64(count) | maskReading
		for ring.state.Load() == reading {
			time.Sleep(ring.pollDuration)
		}

		data := ring.buffer[ring.index(count)].Load()
		if data != nil && data.count == count {
			return data
		}
		if data == nil {
			time.Sleep(ring.pollDuration)
			continue
		}
		count++
	}
}

func (ring *broadcasterRing) lastCount() uint32 {
	// state holds the next count.
	return uint32(ring.state.Load()) - 1
}

// Broadcaster fans the frames of one source out to any number of readers.
// Readers can come and go at any time. Frames are shared, not copied: readers
// must map them ReadOnly.
//
// The source's release of a frame runs when its ring slot is overwritten,
// BufferSize frames later, so a frame read from the broadcaster stays valid
// until then. The release returned to readers is a no-op.
type Broadcaster struct {
	source atomic.Pointer[Reader]
	buffer *broadcasterRing
}

// BroadcasterConfig is a config to control broadcaster behaviour
type BroadcasterConfig struct {
	// BufferSize configures the underlying ring buffer size that's being used
	// to avoid data lost for late readers. The default value is 32.
	BufferSize uint
	// PollDuration configures the sleep duration in waiting for new data to come.
	// The default value is 33 ms.
	PollDuration time.Duration
}

// NewBroadcaster creates a new broadcaster. Slow readers miss frames that
// have left the ring.
func NewBroadcaster(source Reader, config *BroadcasterConfig) *Broadcaster {
	pollDuration := defaultBroadcasterRingPollDuration
	var bufferSize uint = defaultBroadcasterRingSize
	if config != nil {
		if config.PollDuration != 0 {
			pollDuration = config.PollDuration
		}

		if config.BufferSize != 0 {
			bufferSize = config.BufferSize
		}
	}

	var broadcaster Broadcaster
	broadcaster.buffer = newBroadcasterRing(bufferSize, pollDuration)
	_ = broadcaster.ReplaceSource(source)

	return &broadcaster
}

// NewReader creates a reader receiving every frame the source produces from
// now on, as long as it keeps up with the ring.
func (broadcaster *Broadcaster) NewReader() Reader {
	currentCount := broadcaster.buffer.lastCount()

	return ReaderFunc(func() (Frame, func(), error) {
		currentCount++
		if push := broadcaster.buffer.acquire(currentCount); push != nil {
			f, release, err := (*broadcaster.source.Load()).Read()
			push(&broadcasterData{frame: f, release: release, err: err, count: currentCount})
			return f, func() {}, err
		}

		data := broadcaster.buffer.get(currentCount)
		currentCount = data.count
		return data.frame, func() {}, data.err
	})
}

// ReplaceSource replaces the underlying source. This operation is thread safe.
func (broadcaster *Broadcaster) ReplaceSource(source Reader) error {
	if source == nil {
		return errEmptySource
	}

	broadcaster.source.Store(&source)
	return nil
}

// Source retrieves the underlying source. This operation is thread safe.
func (broadcaster *Broadcaster) Source() Reader {
	return *broadcaster.source.Load()
}
