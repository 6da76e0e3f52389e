package stt

import (
	"context"
	"fmt"
	"strings"
)

// WhisperSampleRate is the sample rate candle_transformers::models::whisper
// expects; audio reaching this engine must already be resampled to this
// rate and mixed to mono by the caller.
const WhisperSampleRate = 16000

// whisperSeed is the fixed decoding seed original_source passes to its
// Decoder::new (greedy sampling reproducibility), not a tunable per call.
const whisperSeed = 42

// Segment is one decoded span of a transcript, mirroring original_source's
// DecodingResult (`s.dr.text`). It carries only the segment text; this
// engine joins Text across segments.
type Segment struct {
	Text string
}

// Decoder is the seam over an actual Whisper model implementation. This
// package only owns mel-bin selection, seed/task/timestamp plumbing, and
// segment-join logic around it; loading model weights, building the
// mel-spectrogram tensor, and running inference is out of scope and left
// opaque, matching SPEC_FULL.md's decision to treat candle_transformers as a
// black box behind an injected interface rather than a reimplementation
// target.
type Decoder interface {
	// Decode runs greedy/beam decoding over 16 kHz mono PCM samples (the
	// Decoder builds the mel spectrogram from them) and returns one segment
	// per decoded span, in original_source's Decoder::run order.
	Decode(ctx context.Context, melSamples []float32, opts DecodeOptions) ([]Segment, error)
}

// DecodeOptions carries the per-call decoding parameters original_source
// passes into Decoder::new: seed, task and timestamps. It has no language
// field.
type DecodeOptions struct {
	Seed       int64
	Task       Task
	Timestamps bool
}

// Task mirrors original_source's Task enum (Transcribe vs Translate); this
// engine only ever issues Transcribe, Translate is reserved for a Decoder
// that supports it.
type Task int

const (
	TaskTranscribe Task = iota
	TaskTranslate
)

// LocalWhisperEngine runs transcription against an in-process Decoder,
// grounded on original_source's WhisperEngine/perform_stt local path. No
// network call; suitable as a fallback engine when remote APIs are
// unreachable.
type LocalWhisperEngine struct {
	decoder Decoder

	// NumMelBins selects the mel filter bank the model was trained with;
	// original_source only ever sees 80 (base/small/medium) or 128
	// (large-v3) and bails on anything else.
	NumMelBins int
	Timestamps bool
}

// NewLocalWhisperEngine wraps decoder as an Engine. numMelBins must be 80 or
// 128, matching original_source's melfilters.bytes/melfilters128.bytes
// selection; any other value is rejected immediately rather than failing
// later inside the decoder.
func NewLocalWhisperEngine(decoder Decoder, numMelBins int) (*LocalWhisperEngine, error) {
	if numMelBins != 80 && numMelBins != 128 {
		return nil, fmt.Errorf("stt: unexpected num_mel_bins %d", numMelBins)
	}
	return &LocalWhisperEngine{decoder: decoder, NumMelBins: numMelBins, Timestamps: true}, nil
}

func (e *LocalWhisperEngine) Name() string {
	return "local-whisper"
}

// Transcribe requires samples already at WhisperSampleRate mono; it does
// not resample itself since resampling is a pipeline-level concern shared
// by every engine (see audioproc.Resample). It decodes with the fixed seed
// and Transcribe task original_source always uses, then joins the decoded
// segments with newlines, matching original_source's
// `segments.iter().map(|s| s.dr.text.clone()).collect::<Vec<_>>().join("\n")`.
func (e *LocalWhisperEngine) Transcribe(ctx context.Context, samples []float32, rate uint32, channels uint16) (string, error) {
	if rate != WhisperSampleRate || channels != 1 {
		return "", fmt.Errorf("stt: local whisper requires %dHz mono, got %dHz/%d channels", WhisperSampleRate, rate, channels)
	}
	segments, err := e.decoder.Decode(ctx, samples, DecodeOptions{
		Seed:       whisperSeed,
		Task:       TaskTranscribe,
		Timestamps: e.Timestamps,
	})
	if err != nil {
		return "", fmt.Errorf("local whisper decode: %w", err)
	}
	texts := make([]string, len(segments))
	for i, s := range segments {
		texts[i] = s.Text
	}
	return strings.Join(texts, "\n"), nil
}
