package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/wavecaster/scribed/internal/audioproc"
)

const deepgramURL = "https://api.deepgram.com/v1/listen?model=nova-2&smart_format=true"

// DeepgramEngine posts a WAV-packaged utterance to Deepgram's prerecorded
// /v1/listen endpoint, grounded on original_source's DeepgramEngine.
type DeepgramEngine struct {
	APIKey string
	Client *http.Client

	url string // defaults to deepgramURL; overridden in tests
}

// NewDeepgramEngine returns a DeepgramEngine authenticating with apiKey.
func NewDeepgramEngine(apiKey string) *DeepgramEngine {
	return &DeepgramEngine{APIKey: apiKey, Client: http.DefaultClient}
}

func (e *DeepgramEngine) Name() string {
	return "deepgram"
}

func (e *DeepgramEngine) Transcribe(ctx context.Context, samples []float32, rate uint32, channels uint16) (string, error) {
	wavData := audioproc.Encode(samples, rate, channels, audioproc.FormatFloat32)

	url := e.url
	if url == "" {
		url = deepgramURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(wavData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "audio/wav")
	req.Header.Set("Authorization", "Token "+e.APIKey)

	client := e.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("deepgram request: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		ErrCode json.RawMessage `json:"err_code"`
		Results struct {
			Channels []struct {
				Alternatives []struct {
					Transcript string `json:"transcript"`
				} `json:"alternatives"`
			} `json:"channels"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("deepgram decode: %w", err)
	}
	if result.ErrCode != nil {
		return "", fmt.Errorf("deepgram api error: %s", string(result.ErrCode))
	}
	if len(result.Results.Channels) == 0 || len(result.Results.Channels[0].Alternatives) == 0 {
		return "", nil
	}
	return result.Results.Channels[0].Alternatives[0].Transcript, nil
}
