package config

import "testing"

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("DEEPGRAM_API_KEY", "dg-key")
	t.Setenv("SCRIBED_API_URL", "http://localhost:5000/inference")
	t.Setenv("SCRIBED_LOCAL_MODEL", "base")

	cfg := Load()

	if cfg.DeepgramAPIKey != "dg-key" {
		t.Errorf("expected DeepgramAPIKey from env, got %q", cfg.DeepgramAPIKey)
	}
	if cfg.RestAPIURL != "http://localhost:5000/inference" {
		t.Errorf("expected RestAPIURL from env, got %q", cfg.RestAPIURL)
	}
	if cfg.LocalModel != "base" {
		t.Errorf("expected LocalModel from env, got %q", cfg.LocalModel)
	}
}
