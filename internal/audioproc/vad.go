package audioproc

import "math"

// FrameSize is the 10ms-at-16kHz frame width the gate classifies, matching
// original_source's "frame_size = 160" speech-segmentation loop.
const FrameSize = 160

// VoiceActivityDetector classifies a single frame of samples as voice or
// non-voice. Implementations are expected to be stateless per frame; any
// internal smoothing is the implementation's own concern.
type VoiceActivityDetector interface {
	IsVoice(frame []float32) bool
}

// RMSDetector is a lightweight, dependency-free voice classifier: a frame
// is voice if its root-mean-square energy exceeds a fixed threshold.
// Adapted from the teacher's RMSVAD.calculateRMS energy math, stripped of
// the hysteresis/speech-start-event state machine that math originally fed
// (this module needs a stateless per-frame classifier, not a conversational
// speech-start/end detector).
type RMSDetector struct {
	Threshold float64
}

// NewRMSDetector returns a detector using threshold as its RMS cutoff.
func NewRMSDetector(threshold float64) *RMSDetector {
	return &RMSDetector{Threshold: threshold}
}

// IsVoice reports whether frame's RMS energy exceeds the detector's
// threshold.
func (d *RMSDetector) IsVoice(frame []float32) bool {
	return calculateRMS(frame) > d.Threshold
}

func calculateRMS(frame []float32) float64 {
	if len(frame) == 0 {
		return 0
	}
	var sum float64
	for _, s := range frame {
		f := float64(s)
		sum += f * f
	}
	return math.Sqrt(sum / float64(len(frame)))
}

// Gate splits samples into FrameSize-wide frames, keeps only the frames det
// classifies as voice, and concatenates them. It returns ErrNoSpeech if no
// frame anywhere in samples is classified as voice, matching
// original_source's perform_stt behavior of aborting a whole utterance when
// VAD finds nothing.
func Gate(samples []float32, det VoiceActivityDetector) ([]float32, error) {
	var voiced []float32
	for start := 0; start < len(samples); start += FrameSize {
		end := start + FrameSize
		if end > len(samples) {
			end = len(samples)
		}
		frame := samples[start:end]
		if det.IsVoice(frame) {
			voiced = append(voiced, frame...)
		}
	}
	if len(voiced) == 0 {
		return nil, ErrNoSpeech
	}
	return voiced, nil
}
