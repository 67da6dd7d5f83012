package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/Vovarama1992/voice_agent/internal/ports"
)

const defaultBaseURL = "https://api.assemblyai.com"

type AssemblyAIClient struct {
	apiKey  string
	baseURL string
	client  *http.Client

	pollInterval time.Duration
	pollTimeout  time.Duration
}

func NewAssemblyAIClient() *AssemblyAIClient {
	return &AssemblyAIClient{
		apiKey:       os.Getenv("ASSEMBLYAI_API_KEY"),
		baseURL:      defaultBaseURL,
		client:       &http.Client{Timeout: 60 * time.Second},
		pollInterval: 2 * time.Second,
		pollTimeout:  90 * time.Second,
	}
}

// Transcribe runs the full upload -> submit -> poll protocol and returns the
// recognized text.
func (c *AssemblyAIClient) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("assemblyai: %w", ports.ErrMissingAPIKey)
	}

	uploadURL, err := c.upload(ctx, audio)
	if err != nil {
		return "", err
	}

	jobID, err := c.submit(ctx, uploadURL)
	if err != nil {
		return "", err
	}

	return c.waitForTranscript(ctx, jobID)
}

func (c *AssemblyAIClient) upload(ctx context.Context, audio []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v2/upload", bytes.NewReader(audio))
	if err != nil {
		return "", err
	}
	req.Header.Set("authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("assemblyai upload: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("assemblyai upload: status %d: %s: %w",
			resp.StatusCode, body, ports.ErrRemoteRequest)
	}

	var parsed struct {
		UploadURL string `json:"upload_url"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	return parsed.UploadURL, nil
}

func (c *AssemblyAIClient) submit(ctx context.Context, uploadURL string) (string, error) {
	payload, _ := json.Marshal(map[string]string{
		"audio_url":     uploadURL,
		"language_code": "en_us",
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v2/transcript", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("authorization", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("assemblyai submit: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("assemblyai submit: status %d: %s: %w",
			resp.StatusCode, body, ports.ErrRemoteRequest)
	}

	var parsed struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode submit response: %w", err)
	}
	return parsed.ID, nil
}

// waitForTranscript polls the job status every pollInterval until the job
// completes, errors out, or pollTimeout elapses.
func (c *AssemblyAIClient) waitForTranscript(ctx context.Context, jobID string) (string, error) {
	attempts := int(c.pollTimeout / c.pollInterval)

	for i := 0; i < attempts; i++ {
		text, done, err := c.pollOnce(ctx, jobID)
		if err != nil {
			return "", err
		}
		if done {
			return text, nil
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}

	return "", fmt.Errorf("assemblyai job %s: %w", jobID, ports.ErrPollTimeout)
}

func (c *AssemblyAIClient) pollOnce(ctx context.Context, jobID string) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v2/transcript/"+jobID, nil)
	if err != nil {
		return "", false, err
	}
	req.Header.Set("authorization", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("assemblyai poll: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("assemblyai poll: status %d: %s: %w",
			resp.StatusCode, body, ports.ErrRemoteRequest)
	}

	var parsed struct {
		Status string `json:"status"`
		Text   string `json:"text"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", false, fmt.Errorf("decode poll response: %w", err)
	}

	switch parsed.Status {
	case "completed":
		return parsed.Text, true, nil
	case "error":
		return "", false, fmt.Errorf("assemblyai job %s: %s: %w",
			jobID, parsed.Error, ports.ErrRemoteJob)
	}
	return "", false, nil
}
