package stt

import (
	"context"
	"errors"
	"testing"
)

type stubEngine struct {
	name string
	text string
	err  error
}

func (e *stubEngine) Name() string { return e.name }

func (e *stubEngine) Transcribe(ctx context.Context, samples []float32, rate uint32, channels uint16) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	return e.text, nil
}

func TestDispatcherUsesPrimaryOnSuccess(t *testing.T) {
	d := NewDispatcher(&stubEngine{name: "primary", text: "from primary"}, &stubEngine{name: "fallback", text: "from fallback"})

	text, err := d.Transcribe(context.Background(), nil, 16000, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "from primary" {
		t.Errorf("expected primary result, got %q", text)
	}
}

func TestDispatcherFallsBackOnPrimaryError(t *testing.T) {
	d := NewDispatcher(&stubEngine{name: "primary", err: errors.New("primary down")}, &stubEngine{name: "fallback", text: "from fallback"})

	text, err := d.Transcribe(context.Background(), nil, 16000, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "from fallback" {
		t.Errorf("expected fallback result, got %q", text)
	}
}

func TestDispatcherNoFallbackConfigured(t *testing.T) {
	d := NewDispatcher(&stubEngine{name: "primary", err: errors.New("primary down")}, nil)

	if _, err := d.Transcribe(context.Background(), nil, 16000, 1); err == nil {
		t.Fatal("expected error with no fallback configured")
	}
}

func TestDispatcherFallbackAlsoFails(t *testing.T) {
	d := NewDispatcher(
		&stubEngine{name: "primary", err: errors.New("primary down")},
		&stubEngine{name: "fallback", err: errors.New("fallback down")},
	)

	if _, err := d.Transcribe(context.Background(), nil, 16000, 1); err == nil {
		t.Fatal("expected error when both engines fail")
	}
}
