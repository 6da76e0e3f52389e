package stt

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRestEngineRawBodyJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "audio/wav" {
			t.Errorf("expected raw wav content type, got %s", r.Header.Get("Content-Type"))
		}
		if r.Header.Get("X-Api-Key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"raw transcription"}`))
	}))
	defer server.Close()

	e := NewRestEngine(server.URL, map[string]string{"X-Api-Key": "test-key"}, "", nil)

	text, err := e.Transcribe(context.Background(), []float32{0.1, 0.2, -0.1}, 16000, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "raw transcription" {
		t.Errorf("expected 'raw transcription', got %q", text)
	}
}

func TestRestEngineMultipartPlainText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("expected multipart body: %v", err)
		}
		if _, _, err := r.FormFile("audio"); err != nil {
			t.Fatalf("expected audio field: %v", err)
		}
		w.Write([]byte("plain text transcription"))
	}))
	defer server.Close()

	e := NewRestEngine(server.URL, nil, "audio", nil)

	text, err := e.Transcribe(context.Background(), []float32{0.1, 0.2}, 16000, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "plain text transcription" {
		t.Errorf("expected plain text transcription, got %q", text)
	}
}

func TestRestEngineErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer server.Close()

	e := NewRestEngine(server.URL, nil, "", nil)
	if _, err := e.Transcribe(context.Background(), []float32{0.1}, 16000, 1); err == nil {
		t.Fatal("expected error on non-200 status")
	}
}

func TestRestEngineResamplesBeforeEncoding(t *testing.T) {
	var gotContentLength int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotContentLength = int64(len(body))
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	target := uint32(8000)
	e := NewRestEngine(server.URL, nil, "", &target)

	samples := make([]float32, 1600) // 100ms @ 16kHz
	if _, err := e.Transcribe(context.Background(), samples, 16000, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotContentLength <= 44 {
		t.Errorf("expected a full wav payload, got %d bytes", gotContentLength)
	}
}
