// Command scribed records one or more audio devices, transcribes the
// speech in each chunk, and prints the joined transcript wrapped in
// <|transcription|> tags, matching original_source's
// bin/screenpipe-audio.rs CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/wavecaster/scribed/internal/capture"
	"github.com/wavecaster/scribed/internal/config"
	"github.com/wavecaster/scribed/internal/logx"
	"github.com/wavecaster/scribed/internal/pipeline"
	"github.com/wavecaster/scribed/internal/stt"
)

const (
	sampleRate = 44100
	channels   = 1
)

// ClipboardWriter copies finished transcripts somewhere outside this
// process. The real clipboard integration is out of scope for this
// module; the default NoOpClipboard simply discards.
type ClipboardWriter interface {
	Write(text string) error
}

// NoOpClipboard discards the text it's given.
type NoOpClipboard struct{}

func (NoOpClipboard) Write(text string) error { return nil }

func main() {
	var audioDevices []string
	var listDevices bool
	var localModel string
	var deepgramAPIKey string
	var apiURL string
	var apiHeaders string
	var verbose bool
	var veryVerbose bool
	var clipboard bool
	var outFile string
	var outDir string
	var duration uint32

	pflag.StringArrayVarP(&audioDevices, "audio-device", "a", nil, "Audio device name (can be specified multiple times)")
	pflag.BoolVar(&listDevices, "list-audio-devices", false, "List available audio devices")
	// local-model is parsed for flag-surface compatibility but has no wiring
	// here: a local engine needs a stt.Decoder, and providing one means
	// loading real model weights, which is out of scope (see stt.Decoder).
	pflag.StringVar(&localModel, "local-model", "", "Local model to use")
	pflag.StringVar(&deepgramAPIKey, "deepgram-api-key", "", "Deepgram API key")
	pflag.StringVar(&apiURL, "api-url", "http://localhost:5000/inference", "REST transcription API URL")
	pflag.StringVar(&apiHeaders, "api-headers", "", "API headers in the `Name: Value;` format")
	pflag.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	pflag.BoolVarP(&veryVerbose, "very-verbose", "D", false, "Enable very verbose output")
	pflag.BoolVar(&clipboard, "clipboard", false, "Copy the transcript to the clipboard")
	pflag.StringVarP(&outFile, "file", "f", "", "Write the transcript to FILE")
	pflag.StringVar(&outDir, "dir", "", "Recording output directory")
	pflag.Uint32VarP(&duration, "duration", "d", 6, "Duration in seconds to record")
	pflag.Parse()

	logLevel := "error"
	if veryVerbose {
		logLevel = "debug"
	} else if verbose {
		logLevel = "info"
	}
	logger := logx.NewCharmLogger(logLevel)

	ctx := context.Background()

	devices, err := capture.ListDevices(ctx)
	if err != nil {
		logger.Error("listing audio devices failed", "error", err)
		os.Exit(1)
	}

	if listDevices {
		printDevices(devices)
		return
	}

	if outDir != "" {
		if _, err := os.Stat(outDir); err != nil {
			fmt.Fprintf(os.Stderr, "the specified directory does not exist: %s\n", outDir)
			os.Exit(1)
		}
	}

	selected, err := resolveDevices(ctx, audioDevices)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg := config.Load()
	if deepgramAPIKey == "" {
		deepgramAPIKey = cfg.DeepgramAPIKey
	}
	if !pflag.CommandLine.Changed("api-url") && cfg.RestAPIURL != "" {
		apiURL = cfg.RestAPIURL
	}
	if apiHeaders == "" {
		apiHeaders = cfg.RestAPIHeaders
	}

	dispatcher, err := buildDispatcher(deepgramAPIKey, apiURL, apiHeaders)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	worker := pipeline.NewWorker(dispatcher, nil, nil, outDir, logger, nil)
	sup := pipeline.NewSupervisor(selected, sampleRate, channels, worker, logger)
	sup.MaxDuration = time.Duration(duration) * time.Second

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	keys := make(chan pipeline.KeyEvent)
	transcript, err := sup.Run(sigCtx, keys)
	if err != nil {
		logger.Error("recording session failed", "error", err)
		os.Exit(1)
	}

	transcript = strings.TrimSpace(transcript)

	if clipboard && transcript != "" {
		writer := ClipboardWriter(NoOpClipboard{})
		if err := writer.Write(transcript); err != nil {
			logger.Warn("writing to clipboard failed", "error", err)
		} else {
			logger.Info("copied to clipboard", "length", len(transcript))
		}
	}

	if outFile != "" {
		if err := os.WriteFile(outFile, []byte(transcript), 0o644); err != nil {
			logger.Warn("writing transcript file failed", "error", err)
		}
	}

	fmt.Printf("<|transcription|>%s</|transcription|>\n", transcript)
}

func printDevices(devices []capture.AudioDevice) {
	fmt.Println("Available audio devices:")
	for _, d := range devices {
		fmt.Printf("  %s\n", d)
	}
}

func resolveDevices(ctx context.Context, names []string) ([]capture.AudioDevice, error) {
	if len(names) == 0 {
		input, err := capture.DefaultInput(ctx)
		if err != nil {
			return nil, err
		}
		devices := []capture.AudioDevice{input}
		if output, err := capture.DefaultOutput(ctx); err == nil {
			devices = append(devices, output)
		}
		return devices, nil
	}

	devices := make([]capture.AudioDevice, 0, len(names))
	for _, name := range names {
		d, err := capture.ParseDeviceName(name)
		if err != nil {
			return nil, fmt.Errorf("invalid audio device %q: %w", name, err)
		}
		devices = append(devices, d)
	}
	return devices, nil
}

func buildDispatcher(deepgramAPIKey, apiURL, apiHeaders string) (*stt.Dispatcher, error) {
	var primary stt.Engine
	switch {
	case deepgramAPIKey != "":
		primary = stt.NewDeepgramEngine(deepgramAPIKey)
	case apiURL != "":
		primary = stt.NewRestEngine(apiURL, parseHeaders(apiHeaders), "", nil)
	default:
		return nil, errors.New("no STT engine configured: pass --deepgram-api-key or --api-url")
	}
	return stt.NewDispatcher(primary, nil), nil
}

// parseHeaders parses the "Name: Value; Name2: Value2" format
// original_source's --api-headers flag accepts.
func parseHeaders(raw string) map[string]string {
	headers := map[string]string{}
	for _, pair := range strings.Split(raw, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			continue
		}
		headers[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return headers
}
