package encoder

import "encoding/binary"

const (
	WAVHeaderSize = 44
	BitsPerSample = 16
	BlockSize     = 4096
)

// WAV wraps raw s16le PCM in a RIFF/WAVE container.
func WAV(pcm []byte, sampleRate, channels int) []byte {
	byteRate := sampleRate * channels * BitsPerSample / 8
	blockAlign := channels * BitsPerSample / 8

	out := make([]byte, WAVHeaderSize+len(pcm))
	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:], uint32(36+len(pcm)))
	copy(out[8:12], "WAVE")
	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:], 16) // PCM fmt chunk size
	binary.LittleEndian.PutUint16(out[20:], 1)  // PCM format tag
	binary.LittleEndian.PutUint16(out[22:], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:], BitsPerSample)
	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:], uint32(len(pcm)))
	copy(out[WAVHeaderSize:], pcm)
	return out
}

// PCMBody strips the RIFF header, returning the raw sample data.
func PCMBody(wav []byte) []byte {
	if len(wav) <= WAVHeaderSize {
		return nil
	}
	return wav[WAVHeaderSize:]
}

// Duration returns the audio length in seconds for raw s16le PCM.
func Duration(pcmBytes, sampleRate, channels int) float64 {
	if sampleRate <= 0 || channels <= 0 {
		return 0
	}
	return float64(pcmBytes) / 2 / float64(channels) / float64(sampleRate)
}
