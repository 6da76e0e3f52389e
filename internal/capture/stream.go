package capture

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"
)

// ringSize bounds the chunk backlog between the audio callback and the
// consumer goroutine; on overflow the oldest chunk is dropped to keep the
// callback itself non-blocking.
const ringSize = 64

// chunkRing is a single-producer single-consumer ring buffer of raw sample
// slices, drop-oldest on overflow.
type chunkRing struct {
	mu     sync.Mutex
	buf    [][]float32
	head   int
	count  int
	drops  atomic.Uint64
}

func newChunkRing() *chunkRing {
	return &chunkRing{buf: make([][]float32, ringSize)}
}

func (r *chunkRing) push(chunk []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := (r.head + r.count) % ringSize
	if r.count == ringSize {
		// full: drop the oldest chunk to make room, matching the spec's
		// drop-oldest-on-full backpressure policy.
		r.head = (r.head + 1) % ringSize
		r.count--
		r.drops.Add(1)
	}
	r.buf[idx] = chunk
	r.count++
}

func (r *chunkRing) pop() ([]float32, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.count == 0 {
		return nil, false
	}
	chunk := r.buf[r.head]
	r.buf[r.head] = nil
	r.head = (r.head + 1) % ringSize
	r.count--
	return chunk, true
}

// Stream captures raw samples from one AudioDevice on a dedicated malgo
// callback thread, handing raw sample chunks off to a consumer goroutine
// through a drop-oldest ring buffer so the real-time callback never blocks.
type Stream struct {
	device       AudioDevice
	sampleRate   uint32
	channels     uint16
	chunkSamples int

	mctx   *malgo.AllocatedContext
	dev    *malgo.Device
	ring   *chunkRing
	alive  atomic.Bool
	buf    []float32
	bufMu  sync.Mutex

	disconnected atomic.Bool
	stopCh       chan struct{}
	drainedCh    chan struct{}
}

// NewStream opens device for capture, buffering chunkSamples worth of
// samples before handing each chunk to the consumer.
func NewStream(device AudioDevice, sampleRate uint32, channels uint16, chunkSamples int) (*Stream, error) {
	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("init audio context: %w", err)
	}

	s := &Stream{
		device:       device,
		sampleRate:   sampleRate,
		channels:     channels,
		chunkSamples: chunkSamples,
		mctx:         mctx,
		ring:         newChunkRing(),
		stopCh:       make(chan struct{}),
		drainedCh:    make(chan struct{}),
	}

	info, err := resolve(mctx, device)
	if err != nil {
		mctx.Uninit()
		mctx.Free()
		return nil, err
	}

	deviceType := malgo.Capture
	if device.Type == DeviceOutput {
		deviceType = malgo.Capture // captured via a playback-loopback-capable backend's input side
	}

	deviceConfig := malgo.DefaultDeviceConfig(deviceType)
	deviceConfig.Capture.Format = malgo.FormatF32
	deviceConfig.Capture.Channels = uint32(channels)
	deviceConfig.Capture.DeviceID = info.ID.Pointer()
	deviceConfig.SampleRate = sampleRate

	onSamples := func(_ []byte, input []byte, _ uint32) {
		if !s.alive.Load() {
			return
		}
		samples := bytesToFloat32(input)

		s.bufMu.Lock()
		s.buf = append(s.buf, samples...)
		if len(s.buf) >= s.chunkSamples {
			chunk := s.buf
			s.buf = nil
			s.bufMu.Unlock()
			s.ring.push(chunk)
			return
		}
		s.bufMu.Unlock()
	}

	onStop := func() {
		// malgo invokes Stop both for a deliberate Device.Stop() and for a
		// device going away; alive is already false in the former case, so
		// treat a Stop seen while alive as a disconnect.
		if s.alive.Load() {
			s.disconnected.Store(true)
			s.alive.Store(false)
		}
	}

	dev, err := malgo.InitDevice(mctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: onSamples,
		Stop: onStop,
	})
	if err != nil {
		mctx.Uninit()
		mctx.Free()
		return nil, fmt.Errorf("init capture device: %w", err)
	}
	s.dev = dev

	return s, nil
}

// Start begins capture. Completed chunks become available from Next() once
// Start returns without error.
func (s *Stream) Start() error {
	s.alive.Store(true)
	return s.dev.Start()
}

// Disconnected reports whether the capture callback observed the device
// going away mid-stream.
func (s *Stream) Disconnected() bool {
	return s.disconnected.Load()
}

// Next returns the next buffered chunk, or (nil, false) if none is
// currently available. Callers poll this from a dedicated goroutine rather
// than blocking the audio callback thread on a channel send.
func (s *Stream) Next() ([]float32, bool) {
	return s.ring.pop()
}

// Stop halts capture and releases the malgo device and context.
func (s *Stream) Stop() {
	s.alive.Store(false)
	if s.dev != nil {
		s.dev.Uninit()
		s.dev = nil
	}
	if s.mctx != nil {
		s.mctx.Uninit()
		s.mctx.Free()
		s.mctx = nil
	}
}

func bytesToFloat32(data []byte) []float32 {
	n := len(data) / 4
	out := make([]float32, n)
	for i := range out {
		bits := binary.LittleEndian.Uint32(data[i*4:])
		out[i] = math.Float32frombits(bits)
	}
	return out
}
