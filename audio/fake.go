package audio

import (
	"sync"
	"sync/atomic"
)

// FakeContext hands out FakeCapture devices for tests.
type FakeContext struct {
	StartErr error // next device fails on Start
	OpenErr  error // NewCapture itself fails

	mu      sync.Mutex
	devices []*FakeCapture
}

func NewFakeContext() *FakeContext { return &FakeContext{} }

func (f *FakeContext) Devices() ([]DeviceInfo, error) { return nil, nil }
func (f *FakeContext) Close()                         {}

func (f *FakeContext) NewCapture(_ *DeviceInfo, _ CaptureConfig) (CaptureDevice, error) {
	if f.OpenErr != nil {
		return nil, f.OpenErr
	}
	dev := &FakeCapture{startErr: f.StartErr}
	f.mu.Lock()
	f.devices = append(f.devices, dev)
	f.mu.Unlock()
	return dev, nil
}

// Last returns the most recently created device, or nil.
func (f *FakeContext) Last() *FakeCapture {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.devices) == 0 {
		return nil
	}
	return f.devices[len(f.devices)-1]
}

// FakeCapture is a deterministic capture device: tests push PCM chunks with
// Emit and trigger stream failures with FailNow.
type FakeCapture struct {
	startErr error

	callback atomic.Pointer[DataCallback]
	errCb    atomic.Pointer[ErrorCallback]
	started  atomic.Bool

	mu     sync.Mutex
	starts int
	stops  int
}

func NewFakeCapture() *FakeCapture { return &FakeCapture{} }

// SetStartError makes the next Start fail, simulating a busy/missing device.
func (f *FakeCapture) SetStartError(err error) { f.startErr = err }

func (f *FakeCapture) Start() error {
	if f.startErr != nil {
		return f.startErr
	}
	f.started.Store(true)
	f.mu.Lock()
	f.starts++
	f.mu.Unlock()
	return nil
}

func (f *FakeCapture) Stop() {
	f.started.Store(false)
	f.mu.Lock()
	f.stops++
	f.mu.Unlock()
}

func (f *FakeCapture) Close() {}

func (f *FakeCapture) SetCallback(cb DataCallback)        { f.callback.Store(&cb) }
func (f *FakeCapture) ClearCallback()                     { f.callback.Store(nil) }
func (f *FakeCapture) SetErrorCallback(cb ErrorCallback)  { f.errCb.Store(&cb) }
func (f *FakeCapture) DeviceName() string                 { return "fake" }

// Emit delivers one chunk of zeroed PCM to the data callback, as if the
// device produced frameCount frames. No-op when the device is stopped.
func (f *FakeCapture) Emit(frameCount uint32) {
	if !f.started.Load() {
		return
	}
	cb := f.callback.Load()
	if cb == nil {
		return
	}
	(*cb)(make([]byte, frameCount*2), frameCount)
}

// EmitBytes delivers the given PCM verbatim.
func (f *FakeCapture) EmitBytes(pcm []byte) {
	if !f.started.Load() {
		return
	}
	cb := f.callback.Load()
	if cb == nil {
		return
	}
	(*cb)(pcm, uint32(len(pcm)/2))
}

// FailNow simulates a mid-recording stream failure.
func (f *FakeCapture) FailNow(err error) {
	if cb := f.errCb.Load(); cb != nil {
		(*cb)(err)
	}
}

// Starts reports how many times Start succeeded.
func (f *FakeCapture) Starts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.starts
}

// Stops reports how many times Stop was called.
func (f *FakeCapture) Stops() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stops
}
