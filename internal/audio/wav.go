package audio

import "encoding/binary"

const (
	wavHeaderSize = 44
	numChannels   = 1 // mono output is fixed
	pcmFormatCode = 1 // uncompressed PCM
)

// PCMToWAV prefixes raw PCM samples with a 44-byte RIFF/WAVE header so the
// result is playable as-is. The samples are appended unmodified; no
// resampling or re-encoding happens here. Non-positive bits/rate fall back
// to the parser defaults.
func PCMToWAV(data []byte, bitsPerSample, sampleRate int) []byte {
	if bitsPerSample <= 0 {
		bitsPerSample = DefaultBitsPerSample
	}
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}

	dataSize := len(data)
	bytesPerSample := bitsPerSample / 8
	blockAlign := numChannels * bytesPerSample
	byteRate := sampleRate * blockAlign

	out := make([]byte, wavHeaderSize, wavHeaderSize+dataSize)

	copy(out[0:4], "RIFF")
	binary.LittleEndian.PutUint32(out[4:8], uint32(36+dataSize))
	copy(out[8:12], "WAVE")

	copy(out[12:16], "fmt ")
	binary.LittleEndian.PutUint32(out[16:20], 16)
	binary.LittleEndian.PutUint16(out[20:22], pcmFormatCode)
	binary.LittleEndian.PutUint16(out[22:24], numChannels)
	binary.LittleEndian.PutUint32(out[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:36], uint16(bitsPerSample))

	copy(out[36:40], "data")
	binary.LittleEndian.PutUint32(out[40:44], uint32(dataSize))

	return append(out, data...)
}
