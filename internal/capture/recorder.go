package capture

import (
	"context"
	"time"
)

// pollInterval governs how often the recorder checks the ring buffer for a
// freshly completed chunk when none is waiting; it is far tighter than the
// 100ms liveness poll original_source uses for its capture thread because
// this loop also owns forwarding chunks, not just an alive flag.
const pollInterval = 10 * time.Millisecond

// Recorder owns one device's Stream for the lifetime of a recording session:
// it starts capture, forwards completed chunks to out, and stops capture as
// soon as the state bus leaves Recording/RecordingPaused.
type Recorder struct {
	device       AudioDevice
	sampleRate   uint32
	channels     uint16
	chunkSamples int
}

// NewRecorder prepares a recorder for device; samples come out of the
// underlying Stream at sampleRate with the given channel count, chunked
// once chunkSamples interleaved samples have been buffered.
func NewRecorder(device AudioDevice, sampleRate uint32, channels uint16, chunkSamples int) *Recorder {
	return &Recorder{device: device, sampleRate: sampleRate, channels: channels, chunkSamples: chunkSamples}
}

// Run opens the device and forwards AudioInput chunks to out until the state
// bus moves out of Recording/RecordingPaused or ctx is cancelled. Paused
// chunks are discarded rather than forwarded, matching the spec's pause
// semantics (capture continues so resuming is seamless, but nothing reaches
// the STT worker while paused).
func (r *Recorder) Run(ctx context.Context, bus *StateBus, out chan<- AudioInput) error {
	stream, err := NewStream(r.device, r.sampleRate, r.channels, r.chunkSamples)
	if err != nil {
		return err
	}
	defer stream.Stop()

	if err := stream.Start(); err != nil {
		return err
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		state := bus.Borrow()
		if state != Recording && state != RecordingPaused {
			return nil
		}
		if stream.Disconnected() {
			return ErrDeviceDisconnected
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			for {
				chunk, ok := stream.Next()
				if !ok {
					break
				}
				if state != Recording {
					continue
				}
				input := AudioInput{
					Data:       chunk,
					SampleRate: r.sampleRate,
					Channels:   r.channels,
					Device:     r.device.String(),
				}
				select {
				case out <- input:
				case <-ctx.Done():
					return nil
				}
			}
		}
	}
}
