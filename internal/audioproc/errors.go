// Package audioproc resamples, packages, and voice-gates raw capture
// samples on their way to an STT engine.
package audioproc

import "errors"

// ErrNoSpeech is returned when the VAD gate finds no voice frames in an
// entire AudioInput.
var ErrNoSpeech = errors.New("no speech detected in the audio")

// ErrUnsupportedFormat names an unrecognized WAV sample format. Encode does
// not return it: any format other than FormatFloat32 is encoded as 16-bit
// PCM.
var ErrUnsupportedFormat = errors.New("unsupported sample format")
