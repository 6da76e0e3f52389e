// Package pipeline wires capture, resampling, VAD, and STT dispatch into
// the recording supervisor, grounded on original_source's perform_stt and
// bin/screenpipe-audio.rs.
package pipeline

import (
	"strings"
	"time"
)

// Encoder persists the original, unresampled capture buffer alongside its
// transcription, matching original_source's encode_single_audio (FFmpeg)
// call. The actual audio container format is out of scope here; callers
// inject a concrete implementation (or NoOpEncoder to skip persistence
// entirely).
type Encoder interface {
	Encode(samples []float32, sampleRate uint32, channels uint16, path string) error
}

// NoOpEncoder discards audio instead of persisting it. NewWorker uses it
// whenever no encoder is given, whether or not an output directory is set.
type NoOpEncoder struct{}

func (NoOpEncoder) Encode(samples []float32, sampleRate uint32, channels uint16, path string) error {
	return nil
}

var filenameReplacer = strings.NewReplacer(" ", "_", ":", "_", "/", "_", "\\", "_")

// SanitizeDeviceName strips characters that are unsafe in a filename,
// matching original_source's sanitized_device_name replace rule.
func SanitizeDeviceName(name string) string {
	return filenameReplacer.Replace(name)
}

// OutputFileName builds the "<device>_<timestamp>.mp4" name
// original_source derives for each persisted utterance.
func OutputFileName(device string, ts time.Time) string {
	return SanitizeDeviceName(device) + "_" + ts.Format("2006-01-02_15-04-05") + ".mp4"
}
