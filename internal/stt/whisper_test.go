package stt

import (
	"context"
	"errors"
	"testing"
)

type stubDecoder struct {
	segments []Segment
	err      error
}

func (d *stubDecoder) Decode(ctx context.Context, melSamples []float32, opts DecodeOptions) ([]Segment, error) {
	if d.err != nil {
		return nil, d.err
	}
	if opts.Task != TaskTranscribe {
		return nil, errors.New("unexpected task")
	}
	if opts.Seed != whisperSeed {
		return nil, errors.New("unexpected seed")
	}
	return d.segments, nil
}

func TestLocalWhisperEngineTranscribes(t *testing.T) {
	e, err := NewLocalWhisperEngine(&stubDecoder{segments: []Segment{{Text: "hello"}, {Text: "world"}}}, 80)
	if err != nil {
		t.Fatalf("unexpected error constructing engine: %v", err)
	}

	text, err := e.Transcribe(context.Background(), make([]float32, 160), WhisperSampleRate, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "hello\nworld" {
		t.Errorf("expected segments joined with newline, got %q", text)
	}
}

func TestLocalWhisperEngineRejectsWrongFormat(t *testing.T) {
	e, err := NewLocalWhisperEngine(&stubDecoder{segments: []Segment{{Text: "unused"}}}, 80)
	if err != nil {
		t.Fatalf("unexpected error constructing engine: %v", err)
	}

	if _, err := e.Transcribe(context.Background(), make([]float32, 160), 44100, 2); err == nil {
		t.Fatal("expected error for non-16kHz-mono input")
	}
}

func TestLocalWhisperEngineWrapsDecoderError(t *testing.T) {
	e, err := NewLocalWhisperEngine(&stubDecoder{err: errors.New("decode failed")}, 80)
	if err != nil {
		t.Fatalf("unexpected error constructing engine: %v", err)
	}

	if _, err := e.Transcribe(context.Background(), make([]float32, 160), WhisperSampleRate, 1); err == nil {
		t.Fatal("expected error propagated from decoder")
	}
}

func TestNewLocalWhisperEngineRejectsBadMelBins(t *testing.T) {
	if _, err := NewLocalWhisperEngine(&stubDecoder{}, 64); err == nil {
		t.Fatal("expected error for unsupported num_mel_bins")
	}
}
