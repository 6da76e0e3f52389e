package pipeline

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wavecaster/scribed/internal/capture"
	"github.com/wavecaster/scribed/internal/logx"
)

// ChunkDuration is how much audio each recorder buffers before handing a
// chunk to the worker, matching original_source's hardcoded 5-second
// chunk_duration.
const ChunkDuration = 5 * time.Second

const maxConsecutiveTimeouts = 3

// KeyEvent is a single recognized keypress delivered to the supervisor by
// an injected key source, generalized from original_source's device_query
// polling loop into a Go channel so the supervisor stays testable without
// a real keyboard.
type KeyEvent int

const (
	KeyEnter KeyEvent = iota
	KeySpace
)

// Supervisor wires one or more capture.Recorder goroutines, a shared
// StateBus, and a single Worker into the end-to-end recording session,
// grounded on bin/screenpipe-audio.rs's main/spawn_recording_threads/
// run_transcription_loop.
type Supervisor struct {
	Devices      []capture.AudioDevice
	SampleRate   uint32
	Channels     uint16
	Worker       *Worker
	Logger       logx.Logger
	MaxDuration  time.Duration // 0 disables the timer
	DrainTimeout time.Duration // 0 defaults to 10s
}

// NewSupervisor returns a Supervisor. A nil logger defaults to
// logx.NoOpLogger.
func NewSupervisor(devices []capture.AudioDevice, sampleRate uint32, channels uint16, worker *Worker, logger logx.Logger) *Supervisor {
	if logger == nil {
		logger = logx.NoOpLogger{}
	}
	return &Supervisor{
		Devices:      devices,
		SampleRate:   sampleRate,
		Channels:     channels,
		Worker:       worker,
		Logger:       logger,
		DrainTimeout: 10 * time.Second,
	}
}

// Run records from every configured device until the session ends (via
// keys, the max-duration timer, or ctx cancellation), transcribes every
// utterance, and returns the joined transcript, matching
// run_transcription_loop's transcription_buffer accumulation.
func (s *Supervisor) Run(ctx context.Context, keys <-chan KeyEvent) (string, error) {
	bus := capture.NewStateBus()
	s.Worker.Bus = bus
	chunks := make(chan capture.AudioInput, 32)
	results := make(chan capture.TranscriptionResult, 32)

	recorderCtx, cancelRecorders := context.WithCancel(ctx)
	defer cancelRecorders()

	g, gCtx := errgroup.WithContext(recorderCtx)

	for _, device := range s.Devices {
		device := device
		g.Go(func() error {
			rec := capture.NewRecorder(device, s.SampleRate, s.Channels, int(s.SampleRate)*int(s.Channels)*int(ChunkDuration.Seconds()))
			return rec.Run(gCtx, bus, chunks)
		})
	}

	g.Go(func() error {
		return s.Worker.Run(gCtx, chunks, results)
	})

	bus.Publish(capture.Recording)

	if s.MaxDuration > 0 {
		go func() {
			select {
			case <-time.After(s.MaxDuration):
				bus.Publish(capture.RecordingFinished)
			case <-gCtx.Done():
			}
		}()
	}

	go s.runKeyListener(gCtx, bus, keys)

	transcript := s.runTranscriptionLoop(gCtx, bus, results)

	bus.Publish(capture.Stopping)
	transcript = s.drainResults(gCtx, results, transcript)
	bus.Publish(capture.Draining)

	cancelRecorders()
	_ = g.Wait()

	return transcript, nil
}

// drainResults gives recorders/worker a bounded window after Stopping to
// flush any utterance still in flight, matching invariant I4 ("Draining is
// entered only after ingress is closed and signals bounded-time egress
// flush") and spec §5's "hard upper bound of 10s, after which remaining
// egress items are discarded with a warning". Joined text observed during
// the drain window is appended to transcript.
func (s *Supervisor) drainResults(ctx context.Context, results <-chan capture.TranscriptionResult, transcript string) string {
	timeout := s.DrainTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		select {
		case result, ok := <-results:
			if !ok {
				return transcript
			}
			if result.Transcription != nil {
				if transcript != "" {
					transcript += " "
				}
				transcript += *result.Transcription
			}
		case <-deadline.C:
			s.Logger.Warn("drain timeout reached, discarding any remaining transcriptions")
			return transcript
		case <-ctx.Done():
			return transcript
		}
	}
}

func (s *Supervisor) runKeyListener(ctx context.Context, bus *capture.StateBus, keys <-chan KeyEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case key, ok := <-keys:
			if !ok {
				return
			}
			switch key {
			case KeyEnter:
				bus.Publish(capture.RecordingFinished)
				return
			case KeySpace:
				switch bus.Borrow() {
				case capture.Recording:
					bus.Publish(capture.RecordingPaused)
				case capture.RecordingPaused:
					bus.Publish(capture.Recording)
				}
			}
		}
	}
}

func (s *Supervisor) runTranscriptionLoop(ctx context.Context, bus *capture.StateBus, results <-chan capture.TranscriptionResult) string {
	var sb strings.Builder
	consecutiveTimeouts := 0
	stateChanged := bus.Subscribe(ctx)

	for {
		select {
		case result, ok := <-results:
			if !ok {
				return sb.String()
			}
			consecutiveTimeouts = 0
			if result.Transcription != nil {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(*result.Transcription)
				if bus.Borrow() == capture.RecordingFinished {
					s.Logger.Debug("recording finished with no further transcriptions pending")
					return sb.String()
				}
			} else if bus.Borrow() == capture.RecordingFinished {
				return sb.String()
			}
		case state, ok := <-stateChanged:
			if !ok {
				return sb.String()
			}
			if state == capture.Stopping {
				return sb.String()
			}
		case <-time.After(2 * time.Second):
			consecutiveTimeouts++
			s.Logger.Info("no transcriptions received")
			if consecutiveTimeouts >= maxConsecutiveTimeouts {
				s.Logger.Info("no transcriptions received for a while, stopping")
				return sb.String()
			}
		case <-ctx.Done():
			return sb.String()
		}
	}
}
