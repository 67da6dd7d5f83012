package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
	"unicode/utf8"

	"github.com/Vovarama1992/voice_agent/internal/ports"
)

const (
	defaultBaseURL = "https://api.murf.ai"
	defaultVoiceID = "en-IN-rohan"

	// Murf rejects inputs past 3000 characters.
	maxTextLen = 3000

	emptyTextFallback = "I'm having trouble connecting right now."
)

type MurfClient struct {
	apiKey  string
	voiceID string
	baseURL string
	client  *http.Client
}

func NewMurfClient() *MurfClient {
	voiceID := os.Getenv("MURF_VOICE_ID")
	if voiceID == "" {
		voiceID = defaultVoiceID
	}

	return &MurfClient{
		apiKey:  os.Getenv("MURF_API_KEY"),
		voiceID: voiceID,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Synthesize sends text to Murf and returns the hosted audio URL. Empty text
// is replaced with a spoken fallback phrase so the service never synthesizes
// silence.
func (c *MurfClient) Synthesize(ctx context.Context, text string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("murf: %w", ports.ErrMissingAPIKey)
	}

	if text == "" {
		text = emptyTextFallback
	}
	// Murf's limit is a character count, not bytes.
	if utf8.RuneCountInString(text) > maxTextLen {
		text = string([]rune(text)[:maxTextLen])
	}

	payload, _ := json.Marshal(map[string]string{
		"voiceId": c.voiceID,
		"text":    text,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/speech/generate", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("murf request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("murf: status %d: %s: %w",
			resp.StatusCode, body, ports.ErrRemoteRequest)
	}

	var parsed struct {
		AudioFile string `json:"audioFile"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode murf response: %w", err)
	}
	return parsed.AudioFile, nil
}
