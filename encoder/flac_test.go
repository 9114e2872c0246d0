package encoder

import (
	"encoding/binary"
	"math"
	"testing"
)

// sinePCM builds s16le mono PCM of a quiet sine tone.
func sinePCM(nSamples int) []byte {
	pcm := make([]byte, nSamples*2)
	for i := 0; i < nSamples; i++ {
		s := int16(math.Sin(2*math.Pi*440*float64(i)/16000) * 8000)
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(s))
	}
	return pcm
}

func TestFlacEncoder(t *testing.T) {
	enc, err := NewFlac(16000, 1)
	if err != nil {
		t.Fatalf("NewFlac: %v", err)
	}

	pcm := sinePCM(BlockSize * 3)
	samples := make([]int16, len(pcm)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(pcm[i*2:]))
	}

	var totalFed uint64
	for i := 0; i < len(samples); i += BlockSize {
		end := min(i+BlockSize, len(samples))
		if err := enc.EncodeBlock(samples[i:end]); err != nil {
			t.Fatalf("EncodeBlock at offset %d: %v", i, err)
		}
		totalFed += uint64(end - i)
	}

	if err := enc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if enc.TotalFrames() != totalFed {
		t.Errorf("TotalFrames = %d, want %d", enc.TotalFrames(), totalFed)
	}

	flacData := enc.Bytes()
	if len(flacData) < 4 || string(flacData[:4]) != "fLaC" {
		t.Fatal("output does not start with FLAC magic")
	}
}

func TestFlacEncoderEmpty(t *testing.T) {
	enc, err := NewFlac(16000, 1)
	if err != nil {
		t.Fatalf("NewFlac: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close on empty encoder: %v", err)
	}
	if enc.TotalFrames() != 0 {
		t.Errorf("TotalFrames = %d, want 0", enc.TotalFrames())
	}
	if len(enc.Bytes()) == 0 {
		t.Error("expected non-empty FLAC output (at least header)")
	}
}

func TestFlacEncoderPartialBlock(t *testing.T) {
	enc, err := NewFlac(16000, 1)
	if err != nil {
		t.Fatalf("NewFlac: %v", err)
	}

	partial := make([]int16, BlockSize/4)
	for i := range partial {
		partial[i] = int16(i % 1000)
	}

	if err := enc.EncodeBlock(partial); err != nil {
		t.Fatalf("EncodeBlock partial: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if enc.TotalFrames() != uint64(len(partial)) {
		t.Errorf("TotalFrames = %d, want %d", enc.TotalFrames(), len(partial))
	}
}

func TestCompressWAV(t *testing.T) {
	wav := WAV(sinePCM(16000), 16000, 1) // one second of tone
	flacData, err := CompressWAV(wav, 16000, 1)
	if err != nil {
		t.Fatalf("CompressWAV: %v", err)
	}
	if string(flacData[:4]) != "fLaC" {
		t.Fatal("compressed output is not FLAC")
	}
	if len(flacData) >= len(wav) {
		t.Errorf("compression did not shrink payload: %d -> %d", len(wav), len(flacData))
	}
}

func TestCompressWAVRejectsEmpty(t *testing.T) {
	if _, err := CompressWAV([]byte("tiny"), 16000, 1); err == nil {
		t.Error("expected error for payload without sample data")
	}
}
