package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/wavecaster/scribed/internal/audioproc"
)

// RestEngine posts a WAV-packaged utterance to an arbitrary HTTP endpoint,
// grounded on original_source's RestPipeEngine: generic enough to front
// any self-hosted or third-party transcription API that accepts raw or
// multipart audio.
type RestEngine struct {
	URL            string
	Headers        map[string]string
	PayloadField   string // empty means raw body, not multipart
	ResampleToRate *uint32
	Client         *http.Client
}

// NewRestEngine returns a RestEngine posting to url. headers are sent
// verbatim on every request; payloadField selects multipart mode when
// non-empty, matching restpipe.rs's Option<String> payload_field.
func NewRestEngine(url string, headers map[string]string, payloadField string, resampleToRate *uint32) *RestEngine {
	return &RestEngine{
		URL:            url,
		Headers:        headers,
		PayloadField:   payloadField,
		ResampleToRate: resampleToRate,
		Client:         http.DefaultClient,
	}
}

func (e *RestEngine) Name() string {
	return "rest-pipe"
}

func (e *RestEngine) Transcribe(ctx context.Context, samples []float32, rate uint32, channels uint16) (string, error) {
	data := samples
	outRate := rate
	outChannels := channels
	if e.ResampleToRate != nil && *e.ResampleToRate != rate {
		data = audioproc.Resample(samples, int(channels), rate, *e.ResampleToRate)
		outRate = *e.ResampleToRate
		outChannels = 1
	}
	wavData := audioproc.Encode(data, outRate, outChannels, audioproc.FormatInt16)

	req, err := e.buildRequest(ctx, wavData)
	if err != nil {
		return "", err
	}

	resp, err := e.client().Do(req)
	if err != nil {
		return "", fmt.Errorf("rest-pipe request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("rest-pipe error: HTTP %d: %s", resp.StatusCode, string(body))
	}

	return parseRestResponse(resp)
}

func (e *RestEngine) buildRequest(ctx context.Context, wavData []byte) (*http.Request, error) {
	var body bytes.Buffer
	var contentType string

	if e.PayloadField != "" {
		writer := multipart.NewWriter(&body)
		part, err := writer.CreateFormFile(e.PayloadField, "file.wav")
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(wavData); err != nil {
			return nil, err
		}
		if err := writer.Close(); err != nil {
			return nil, err
		}
		contentType = writer.FormDataContentType()
	} else {
		body.Write(wavData)
		contentType = "audio/wav"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.URL, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	for k, v := range e.Headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

func (e *RestEngine) client() *http.Client {
	if e.Client != nil {
		return e.Client
	}
	return http.DefaultClient
}

func parseRestResponse(resp *http.Response) (string, error) {
	contentType := resp.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		var payload struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return "", fmt.Errorf("rest-pipe decode json: %w", err)
		}
		return payload.Text, nil
	}
	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("rest-pipe read body: %w", err)
	}
	return string(text), nil
}
