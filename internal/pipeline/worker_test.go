package pipeline

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/wavecaster/scribed/internal/audioproc"
	"github.com/wavecaster/scribed/internal/capture"
	"github.com/wavecaster/scribed/internal/stt"
)

type fixedEngine struct{ text string }

func (e fixedEngine) Name() string { return "fixed" }
func (e fixedEngine) Transcribe(ctx context.Context, samples []float32, rate uint32, channels uint16) (string, error) {
	return e.text, nil
}

type loudDetector struct{}

func (loudDetector) IsVoice(frame []float32) bool { return true }

func TestWorkerProcessPublishesTranscription(t *testing.T) {
	dispatcher := stt.NewDispatcher(fixedEngine{text: "hello"}, nil)
	w := NewWorker(dispatcher, loudDetector{}, nil, "", nil, nil)

	in := make(chan capture.AudioInput, 1)
	out := make(chan capture.TranscriptionResult, 1)

	in <- capture.AudioInput{
		Data:       make([]float32, audioproc.FrameSize*4),
		SampleRate: TargetSampleRate,
		Channels:   1,
		Device:     "mic (input)",
	}
	close(in)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := w.Run(ctx, in, out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case result := <-out:
		if result.Transcription == nil || *result.Transcription != "hello" {
			t.Fatalf("expected transcription 'hello', got %+v", result)
		}
	default:
		t.Fatal("expected a published result")
	}
}

func TestWorkerReportsNoSpeechAndFinishesRecording(t *testing.T) {
	dispatcher := stt.NewDispatcher(fixedEngine{text: "should not appear"}, nil)
	bus := capture.NewStateBus()
	bus.Publish(capture.Recording)
	w := NewWorker(dispatcher, audioproc.NewRMSDetector(0.9), nil, "", nil, bus)

	in := make(chan capture.AudioInput, 1)
	out := make(chan capture.TranscriptionResult, 1)

	in <- capture.AudioInput{
		Data:       make([]float32, audioproc.FrameSize*4), // all zero, silent
		SampleRate: TargetSampleRate,
		Channels:   1,
		Device:     "mic (input)",
	}
	close(in)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := w.Run(ctx, in, out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case result := <-out:
		if result.Transcription != nil {
			t.Fatalf("expected nil transcription for silent input, got %+v", result)
		}
		if result.Error == "" || !strings.Contains(result.Error, "no speech") {
			t.Fatalf("expected error containing 'no speech', got %q", result.Error)
		}
	default:
		t.Fatal("expected a published result for silent input")
	}

	if bus.Borrow() != capture.RecordingFinished {
		t.Fatalf("expected RecordingFinished on the bus, got %v", bus.Borrow())
	}
}
