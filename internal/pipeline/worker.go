package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/wavecaster/scribed/internal/audioproc"
	"github.com/wavecaster/scribed/internal/capture"
	"github.com/wavecaster/scribed/internal/logx"
	"github.com/wavecaster/scribed/internal/stt"
)

// TargetSampleRate is the rate every utterance is resampled to before VAD
// gating and STT dispatch, matching stt.WhisperSampleRate.
const TargetSampleRate = stt.WhisperSampleRate

// Worker drains AudioInput chunks, resamples/gates/transcribes them, and
// publishes a capture.TranscriptionResult per utterance. Grounded on
// original_source's perform_stt, generalized from a single free function
// into a long-lived goroutine body matching the teacher's worker-loop
// idiom.
type Worker struct {
	Dispatcher *stt.Dispatcher
	Detector   audioproc.VoiceActivityDetector
	Encoder    Encoder
	OutputDir  string // empty disables persistence
	Logger     logx.Logger
	Bus        *capture.StateBus
}

// NewWorker returns a Worker. A nil encoder defaults to NoOpEncoder, a nil
// detector defaults to a RMSDetector with a 0.02 threshold, and a nil
// logger defaults to logx.NoOpLogger. bus may be nil, in which case a
// no-speech utterance is still reported as a TranscriptionResult but no
// RecordingFinished is published.
func NewWorker(dispatcher *stt.Dispatcher, detector audioproc.VoiceActivityDetector, encoder Encoder, outputDir string, logger logx.Logger, bus *capture.StateBus) *Worker {
	if detector == nil {
		detector = audioproc.NewRMSDetector(0.02)
	}
	if encoder == nil {
		encoder = NoOpEncoder{}
	}
	if logger == nil {
		logger = logx.NoOpLogger{}
	}
	return &Worker{Dispatcher: dispatcher, Detector: detector, Encoder: encoder, OutputDir: outputDir, Logger: logger, Bus: bus}
}

// Run drains in until ctx is cancelled, in is closed, or Bus (when set)
// reaches Stopping or Draining, publishing a TranscriptionResult on out for
// every processed chunk.
func (w *Worker) Run(ctx context.Context, in <-chan capture.AudioInput, out chan<- capture.TranscriptionResult) error {
	var states <-chan capture.RecordingState
	if w.Bus != nil {
		subCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		states = w.Bus.Subscribe(subCtx)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case state, ok := <-states:
			if !ok {
				states = nil
			} else if state == capture.Stopping || state == capture.Draining {
				return nil
			}
		case input, ok := <-in:
			if !ok {
				return nil
			}
			w.process(ctx, input, out)
		}
	}
}

func (w *Worker) process(ctx context.Context, input capture.AudioInput, out chan<- capture.TranscriptionResult) {
	result := capture.TranscriptionResult{Input: input, Timestamp: time.Now().Unix()}

	text, err := w.transcribe(ctx, input)
	if err != nil {
		if errors.Is(err, audioproc.ErrNoSpeech) {
			w.Logger.Debug("no speech detected, ending utterance", "device", input.Device)
			if w.Bus != nil {
				w.Bus.Publish(capture.RecordingFinished)
			}
			result.Error = "no speech detected"
			out <- result
			return
		}
		w.Logger.Warn("transcription failed", "device", input.Device, "error", err)
		result.Error = err.Error()
		out <- result
		return
	}
	result.Transcription = &text

	if w.OutputDir != "" {
		path := filepath.Join(w.OutputDir, OutputFileName(input.Device, time.Unix(result.Timestamp, 0)))
		if err := w.Encoder.Encode(input.Data, input.SampleRate, input.Channels, path); err != nil {
			w.Logger.Warn("persisting audio failed", "device", input.Device, "error", err)
		} else {
			result.Path = path
		}
	}

	out <- result
}

func (w *Worker) transcribe(ctx context.Context, input capture.AudioInput) (string, error) {
	data := input.Data
	rate := input.SampleRate
	channels := input.Channels

	if rate != TargetSampleRate {
		data = audioproc.Resample(data, int(channels), rate, TargetSampleRate)
		rate = TargetSampleRate
		channels = 1
	}

	voiced, err := audioproc.Gate(data, w.Detector)
	if err != nil {
		return "", err
	}

	return w.Dispatcher.Transcribe(ctx, voiced, rate, channels)
}
