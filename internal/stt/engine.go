// Package stt provides pluggable speech-to-text engines and the primary/
// fallback dispatch between them, grounded on original_source's
// AudioTranscriptionEngine trait and the teacher's pkg/providers/stt
// provider set.
package stt

import (
	"context"
	"errors"
	"fmt"
)

// ErrEmptyTranscript names a call that succeeds but gets back no
// recognizable speech, distinct from a transport/API error. None of the
// engines in this package return it; DeepgramEngine reports an empty result
// as an empty string with a nil error.
var ErrEmptyTranscript = errors.New("stt: empty transcript")

// Engine transcribes a single mono PCM utterance already gated through VAD.
// samples are float32 in [-1, 1]; rate and channels describe the buffer as
// captured (an engine that needs a specific rate resamples internally or
// declares it via ResampleToRate, see RestEngine).
type Engine interface {
	Name() string
	Transcribe(ctx context.Context, samples []float32, rate uint32, channels uint16) (string, error)
}

// Dispatcher tries a primary engine and falls back to a secondary one on
// error, matching original_source's perform_stt primary/fallback selection
// (screenpipe-audio falls back to the local Whisper engine when a remote
// API call fails).
type Dispatcher struct {
	Primary  Engine
	Fallback Engine
}

// NewDispatcher returns a Dispatcher. fallback may be nil to disable
// fallback entirely.
func NewDispatcher(primary, fallback Engine) *Dispatcher {
	return &Dispatcher{Primary: primary, Fallback: fallback}
}

// Transcribe calls Primary, and on error, Fallback if one is configured.
// The primary's error is wrapped into the returned error only when the
// fallback also fails, so callers see the terminal cause.
func (d *Dispatcher) Transcribe(ctx context.Context, samples []float32, rate uint32, channels uint16) (string, error) {
	text, err := d.Primary.Transcribe(ctx, samples, rate, channels)
	if err == nil {
		return text, nil
	}
	if d.Fallback == nil {
		return "", err
	}
	text, fbErr := d.Fallback.Transcribe(ctx, samples, rate, channels)
	if fbErr != nil {
		return "", fmt.Errorf("%w (primary: %w)", fbErr, err)
	}
	return text, nil
}
