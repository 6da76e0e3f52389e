package audioproc

import (
	"bytes"
	"encoding/binary"
)

// SampleFormat selects the WAV payload encoding.
type SampleFormat int

const (
	// FormatInt16 scales float32 samples by 32767 and clamps to the int16
	// range, matching original_source's write_samples Int case.
	FormatInt16 SampleFormat = iota
	// FormatFloat32 writes samples through unchanged as IEEE float.
	FormatFloat32
)

func bitsAndTag(format SampleFormat) (bitsPerSample uint16, audioFormatTag uint16) {
	switch format {
	case FormatFloat32:
		return 32, 3 // WAVE_FORMAT_IEEE_FLOAT
	default:
		return 16, 1 // WAVE_FORMAT_PCM
	}
}

// Encode packages samples as a complete RIFF/WAVE file, extending the
// teacher's fixed 16-bit-mono NewWavBuffer with the Int16/Float32 format
// switch original_source's get_wav_format/write_samples perform.
func Encode(samples []float32, sampleRate uint32, channels uint16, format SampleFormat) []byte {
	bitsPerSample, audioFormatTag := bitsAndTag(format)
	bytesPerSample := uint16(bitsPerSample / 8)

	payload := encodeSamples(samples, format)

	buf := new(bytes.Buffer)
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+len(payload)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, audioFormatTag)
	binary.Write(buf, binary.LittleEndian, channels)
	binary.Write(buf, binary.LittleEndian, sampleRate)
	byteRate := sampleRate * uint32(channels) * uint32(bytesPerSample)
	binary.Write(buf, binary.LittleEndian, byteRate)
	blockAlign := channels * bytesPerSample
	binary.Write(buf, binary.LittleEndian, blockAlign)
	binary.Write(buf, binary.LittleEndian, bitsPerSample)

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(len(payload)))
	buf.Write(payload)

	return buf.Bytes()
}

func encodeSamples(samples []float32, format SampleFormat) []byte {
	buf := new(bytes.Buffer)
	switch format {
	case FormatFloat32:
		for _, s := range samples {
			binary.Write(buf, binary.LittleEndian, s)
		}
	default:
		for _, s := range samples {
			scaled := s * 32767.0
			if scaled > 32767.0 {
				scaled = 32767.0
			} else if scaled < -32768.0 {
				scaled = -32768.0
			}
			binary.Write(buf, binary.LittleEndian, int16(scaled))
		}
	}
	return buf.Bytes()
}
