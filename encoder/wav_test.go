package encoder

import (
	"encoding/binary"
	"testing"
)

func TestWAVHeader(t *testing.T) {
	pcm := make([]byte, 1000)
	wav := WAV(pcm, 44100, 1)

	if len(wav) != WAVHeaderSize+len(pcm) {
		t.Fatalf("len = %d, want %d", len(wav), WAVHeaderSize+len(pcm))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		t.Fatal("missing RIFF/WAVE magic")
	}
	if got := binary.LittleEndian.Uint32(wav[24:]); got != 44100 {
		t.Errorf("sample rate = %d, want 44100", got)
	}
	if got := binary.LittleEndian.Uint16(wav[22:]); got != 1 {
		t.Errorf("channels = %d, want 1", got)
	}
	if got := binary.LittleEndian.Uint32(wav[40:]); got != uint32(len(pcm)) {
		t.Errorf("data size = %d, want %d", got, len(pcm))
	}
	if got := binary.LittleEndian.Uint32(wav[28:]); got != 44100*2 {
		t.Errorf("byte rate = %d, want %d", got, 44100*2)
	}
}

func TestPCMBody(t *testing.T) {
	pcm := []byte{1, 2, 3, 4}
	wav := WAV(pcm, 16000, 1)
	body := PCMBody(wav)
	if len(body) != len(pcm) {
		t.Fatalf("body len = %d, want %d", len(body), len(pcm))
	}
	if body[0] != 1 || body[3] != 4 {
		t.Error("body does not round-trip")
	}
	if PCMBody([]byte("short")) != nil {
		t.Error("expected nil for truncated input")
	}
}

func TestDuration(t *testing.T) {
	// 44100 Hz mono s16le: one second is 88200 bytes.
	if got := Duration(88200, 44100, 1); got != 1.0 {
		t.Errorf("Duration = %v, want 1.0", got)
	}
	if got := Duration(88200, 44100, 2); got != 0.5 {
		t.Errorf("stereo Duration = %v, want 0.5", got)
	}
	if got := Duration(100, 0, 1); got != 0 {
		t.Errorf("zero rate Duration = %v, want 0", got)
	}
}
