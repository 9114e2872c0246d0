package session

import (
	"context"
	"sync"
	"time"

	"murmur/audio"
	"murmur/encoder"
	"murmur/log"
	"murmur/transcriber"
)

type State int

const (
	StateIdle State = iota
	StateRecording
	StateProcessing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateProcessing:
		return "processing"
	}
	return "unknown"
}

// Dispatcher sends a frozen recording to a transcription backend.
type Dispatcher interface {
	Dispatch(ctx context.Context, req transcriber.Request) (*transcriber.Result, error)
}

type Config struct {
	SampleRate       int
	Channels         int
	Language         string
	MaxRecordingTime time.Duration
	MinRecordingTime time.Duration // zero = half a second
}

// Controller is the recording state machine. Each Activate toggles
// between idle and recording; a stop freezes the buffer and hands it to
// the dispatcher while the controller sits in processing. Activations
// during processing are discarded.
type Controller struct {
	cfg        Config
	audioCtx   audio.Context
	dispatcher Dispatcher
	sink       Sink

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	state    State
	capture  audio.CaptureDevice
	gen      int // invalidates timers and error callbacks of finished recordings
	maxTimer *time.Timer

	// bufMu guards the capture buffer separately from mu: the data
	// callback runs while capture.Stop is draining, which happens
	// under mu.
	bufMu   sync.Mutex
	buf     []byte
	stopped bool
	frames  int
}

func NewController(cfg Config, audioCtx audio.Context, dispatcher Dispatcher, sink Sink) *Controller {
	if cfg.MinRecordingTime <= 0 {
		cfg.MinRecordingTime = 500 * time.Millisecond
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		cfg:        cfg,
		audioCtx:   audioCtx,
		dispatcher: dispatcher,
		sink:       sink,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// State reports the current phase.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Activate handles one activation gesture: start when idle, stop when
// recording, ignore when processing.
func (c *Controller) Activate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case StateIdle:
		c.startLocked()
	case StateRecording:
		c.stopLocked("hotkey")
	case StateProcessing:
		log.Debugf("activation discarded while processing")
	}
}

// Close cancels in-flight dispatches and waits for processing to drain.
func (c *Controller) Close() {
	c.cancel()
	c.mu.Lock()
	if c.state == StateRecording {
		c.stopLocked("shutdown")
	}
	c.mu.Unlock()
	c.wg.Wait()
}

func (c *Controller) startLocked() {
	capture, err := c.audioCtx.NewCapture(nil, audio.CaptureConfig{
		SampleRate: uint32(c.cfg.SampleRate),
		Channels:   uint32(c.cfg.Channels),
	})
	if err != nil {
		log.Errorf("failed to open capture device: %v", err)
		c.sink.CaptureFailure(err.Error())
		return
	}

	c.bufMu.Lock()
	c.buf = c.buf[:0]
	c.frames = 0
	c.stopped = false
	c.bufMu.Unlock()

	capture.SetCallback(func(data []byte, frameCount uint32) {
		c.bufMu.Lock()
		if !c.stopped {
			c.buf = append(c.buf, data...)
			c.frames += int(frameCount)
		}
		c.bufMu.Unlock()
	})

	c.gen++
	gen := c.gen
	// Async: the device may raise this while a Stop initiated under mu
	// is draining, and captureFailed needs mu itself.
	capture.SetErrorCallback(func(err error) {
		go c.captureFailed(gen, err)
	})

	if err := capture.Start(); err != nil {
		capture.Close()
		log.Errorf("failed to start capture: %v", err)
		c.sink.CaptureFailure(err.Error())
		return
	}

	c.capture = capture
	c.state = StateRecording
	c.maxTimer = time.AfterFunc(c.cfg.MaxRecordingTime, func() {
		c.maxTimeReached(gen)
	})

	log.Infof("recording started on %s", capture.DeviceName())
	c.sink.RecordingStarted()
}

func (c *Controller) maxTimeReached(gen int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen || c.state != StateRecording {
		return
	}
	log.Warnf("recording ceiling of %v reached, forcing stop", c.cfg.MaxRecordingTime)
	c.stopLocked("max_time")
}

// stopLocked freezes the buffer and either hands it off for processing
// or returns to idle when there is nothing worth transcribing.
func (c *Controller) stopLocked(reason string) {
	if c.maxTimer != nil {
		c.maxTimer.Stop()
		c.maxTimer = nil
	}
	c.gen++

	c.bufMu.Lock()
	c.stopped = true
	c.bufMu.Unlock()

	c.capture.Stop()
	c.capture.ClearCallback()
	c.capture.Close()
	c.capture = nil

	c.bufMu.Lock()
	pcm := make([]byte, len(c.buf))
	copy(pcm, c.buf)
	frames := c.frames
	c.bufMu.Unlock()

	c.sink.RecordingStopped(frames)

	if frames == 0 {
		log.Infof("recording stopped (%s): no audio captured", reason)
		c.state = StateIdle
		return
	}

	duration := encoder.Duration(len(pcm), c.cfg.SampleRate, c.cfg.Channels)
	if time.Duration(duration*float64(time.Second)) < c.cfg.MinRecordingTime {
		log.Infof("recording stopped (%s): %.2fs is too short, discarding", reason, duration)
		c.state = StateIdle
		return
	}

	log.Infof("recording stopped (%s): %.2fs, %d frames", reason, duration, frames)
	c.state = StateProcessing
	c.wg.Add(1)
	go c.process(pcm)
}

// captureFailed handles a stream error raised mid-recording. Partial
// audio already captured is still dispatched when long enough.
func (c *Controller) captureFailed(gen int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen || c.state != StateRecording {
		return
	}
	log.Errorf("capture stream failed mid-recording: %v", err)

	if c.maxTimer != nil {
		c.maxTimer.Stop()
		c.maxTimer = nil
	}
	c.gen++

	c.bufMu.Lock()
	c.stopped = true
	pcm := make([]byte, len(c.buf))
	copy(pcm, c.buf)
	frames := c.frames
	c.bufMu.Unlock()

	c.capture.Stop()
	c.capture.ClearCallback()
	c.capture.Close()
	c.capture = nil

	duration := encoder.Duration(len(pcm), c.cfg.SampleRate, c.cfg.Channels)
	if frames == 0 || time.Duration(duration*float64(time.Second)) < c.cfg.MinRecordingTime {
		c.state = StateIdle
		c.sink.CaptureFailure(err.Error())
		return
	}

	log.Warnf("dispatching %.2fs of partial audio", duration)
	c.sink.RecordingStopped(frames)
	c.state = StateProcessing
	c.wg.Add(1)
	go c.process(pcm)
}

func (c *Controller) process(pcm []byte) {
	defer c.wg.Done()

	wav := encoder.WAV(pcm, c.cfg.SampleRate, c.cfg.Channels)
	req := transcriber.Request{
		Audio:      wav,
		Format:     "wav",
		SampleRate: c.cfg.SampleRate,
		Channels:   c.cfg.Channels,
		Language:   c.cfg.Language,
	}

	res, err := c.dispatcher.Dispatch(c.ctx, req)

	c.mu.Lock()
	c.state = StateIdle
	c.mu.Unlock()

	if err != nil {
		log.TranscriptionFailure(string(transcriber.Kind(err)), err.Error())
		c.sink.TranscriptionFailure(string(transcriber.Kind(err)), err.Error())
		return
	}

	log.Transcription(res.Backend,
		encoder.Duration(len(pcm), c.cfg.SampleRate, c.cfg.Channels),
		float64(len(wav))/1024, float64(res.Elapsed.Milliseconds()), res.Attempts)
	c.sink.TranscriptionSuccess(res.Text)
}
