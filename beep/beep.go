// Package beep plays short audio cues marking the recording lifecycle:
// a rising tick when recording starts, a falling tick when it stops and
// a low double-buzz on failure.
package beep

import "math"

var disabled bool

// Disable mutes all cues, for -notify=false style headless runs.
func Disable() { disabled = true }

const cueRate = 44100

// tone renders a mono sine burst with an exponential decay envelope.
func tone(freq, duration, volume, decay float64) []int16 {
	n := int(cueRate * duration)
	samples := make([]int16, n)
	for i := range samples {
		t := float64(i) / cueRate
		env := math.Exp(-t * decay)
		samples[i] = int16(math.Sin(2*math.Pi*freq*t) * 32767 * volume * env)
	}
	return samples
}

func startCue() []int16 {
	return append(tone(880, 0.06, 0.4, 25), tone(1320, 0.12, 0.4, 35)...)
}

func stopCue() []int16 {
	return append(tone(1320, 0.06, 0.4, 25), tone(880, 0.12, 0.4, 35)...)
}

func errorCue() []int16 {
	buzz := tone(330, 0.09, 0.5, 20)
	gap := make([]int16, cueRate/20)
	out := make([]int16, 0, len(buzz)*2+len(gap))
	out = append(out, buzz...)
	out = append(out, gap...)
	out = append(out, buzz...)
	return out
}
