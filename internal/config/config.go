// Package config loads .env-and-environment-sourced settings, generalized
// from the teacher's cmd/agent/main.go godotenv.Load()/os.Getenv pattern
// into a single struct the CLI populates and passes down.
package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds every environment-sourced credential and default this
// module's STT engines need. CLI flags in cmd/scribed take precedence
// over these when both are set.
type Config struct {
	DeepgramAPIKey string
	RestAPIURL     string
	RestAPIHeaders string
	LocalModel     string
}

// Load reads a .env file if present (missing is not an error, matching
// the teacher's "Note: No .env file found" fallback) and populates Config
// from the environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("note: no .env file found, using system environment variables")
	}

	return Config{
		DeepgramAPIKey: os.Getenv("DEEPGRAM_API_KEY"),
		RestAPIURL:     os.Getenv("SCRIBED_API_URL"),
		RestAPIHeaders: os.Getenv("SCRIBED_API_HEADERS"),
		LocalModel:     os.Getenv("SCRIBED_LOCAL_MODEL"),
	}
}
