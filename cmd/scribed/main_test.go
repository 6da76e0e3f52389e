package main

import (
	"context"
	"testing"
)

func TestParseHeaders(t *testing.T) {
	headers := parseHeaders("Authorization: Bearer abc123; X-Custom: value with spaces ")

	if headers["Authorization"] != "Bearer abc123" {
		t.Errorf("expected Authorization header, got %q", headers["Authorization"])
	}
	if headers["X-Custom"] != "value with spaces" {
		t.Errorf("expected X-Custom header, got %q", headers["X-Custom"])
	}
}

func TestParseHeadersEmpty(t *testing.T) {
	headers := parseHeaders("")
	if len(headers) != 0 {
		t.Errorf("expected no headers, got %v", headers)
	}
}

func TestResolveDevicesExplicitNames(t *testing.T) {
	devices, err := resolveDevices(context.Background(), []string{"Mic (input)", "Display 1 (output)"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(devices) != 2 {
		t.Fatalf("expected 2 devices, got %d", len(devices))
	}
	if devices[0].Name != "Mic" {
		t.Errorf("expected device name 'Mic', got %q", devices[0].Name)
	}
}

func TestResolveDevicesRejectsInvalidName(t *testing.T) {
	if _, err := resolveDevices(context.Background(), []string{"not a valid name"}); err == nil {
		t.Fatal("expected error for invalid device name")
	}
}

func TestBuildDispatcherRequiresAnEngine(t *testing.T) {
	if _, err := buildDispatcher("", "", ""); err == nil {
		t.Fatal("expected error when no STT engine is configured")
	}
}

func TestBuildDispatcherPrefersDeepgram(t *testing.T) {
	d, err := buildDispatcher("dg-key", "http://localhost:5000/inference", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Primary.Name() != "deepgram" {
		t.Errorf("expected deepgram primary engine, got %s", d.Primary.Name())
	}
}
