//go:build linux

package beep

import (
	"sync"

	"github.com/jfreymuth/pulse"
)

var (
	startSamples []int16
	stopSamples  []int16
	errorSamples []int16
	cueOnce      sync.Once
)

func initCues() {
	startSamples = startCue()
	stopSamples = stopCue()
	errorSamples = errorCue()
}

func play(samples []int16) {
	if len(samples) == 0 {
		return
	}
	c, err := pulse.NewClient()
	if err != nil {
		return
	}
	defer c.Close()

	pos := 0
	reader := pulse.Int16Reader(func(buf []int16) (int, error) {
		if pos >= len(samples) {
			return 0, pulse.EndOfData
		}
		n := copy(buf, samples[pos:])
		pos += n
		return n, nil
	})
	stream, err := c.NewPlayback(reader,
		pulse.PlaybackMono,
		pulse.PlaybackSampleRate(cueRate),
		pulse.PlaybackLatency(0.1),
	)
	if err != nil {
		return
	}
	stream.Start()
	stream.Drain()
	stream.Stop()
	stream.Close()
}

func Init() {
	cueOnce.Do(initCues)
}

func Start() {
	if disabled {
		return
	}
	cueOnce.Do(initCues)
	go play(startSamples)
}

func Stop() {
	if disabled {
		return
	}
	cueOnce.Do(initCues)
	go play(stopSamples)
}

func Error() {
	if disabled {
		return
	}
	cueOnce.Do(initCues)
	go play(errorSamples)
}
