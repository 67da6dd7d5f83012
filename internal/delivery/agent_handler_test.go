package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Vovarama1992/voice_agent/internal/ports"
)

type fakeAgent struct {
	result       ports.TurnResult
	history      []ports.TurnRecord
	clearOK      bool
	gotSessionID string
	gotAudio     []byte
}

func (f *fakeAgent) ProcessTurn(_ context.Context, sessionID string, audio []byte) ports.TurnResult {
	f.gotSessionID = sessionID
	f.gotAudio = audio
	return f.result
}

func (f *fakeAgent) GetHistory(context.Context, string) ([]ports.TurnRecord, error) {
	return f.history, nil
}

func (f *fakeAgent) ClearHistory(context.Context, string) (bool, error) {
	return f.clearOK, nil
}

type fakeClips struct {
	dir string
}

func (f *fakeClips) Save(data []byte) (string, error) {
	name := "clip.webm"
	return name, os.WriteFile(filepath.Join(f.dir, name), data, 0644)
}

func (f *fakeClips) Path(filename string) (string, error) {
	path := filepath.Join(f.dir, filepath.Base(filename))
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return path, nil
}

func newTestRouter(t *testing.T, agent *fakeAgent) (chi.Router, *fakeClips) {
	t.Helper()
	clips := &fakeClips{dir: t.TempDir()}
	zl := logger.NewZapLogger(zap.NewNop().Sugar())

	r := chi.NewRouter()
	RegisterRoutes(r, NewAgentHandler(agent, clips, nil, zl))
	return r, clips
}

func multipartAudio(t *testing.T, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("audio", "clip.webm")
	require.NoError(t, err)
	_, err = fw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestChat_ReturnsTurnResult(t *testing.T) {
	transcript := "hello"
	audioURL := "http://audio/1.mp3"
	agent := &fakeAgent{result: ports.TurnResult{
		Transcript: &transcript,
		AiResponse: "hi there",
		AudioURL:   &audioURL,
		History: []ports.TurnRecord{
			{Transcript: &transcript, AiResponse: "hi there"},
		},
	}}
	r, _ := newTestRouter(t, agent)

	body, contentType := multipartAudio(t, []byte("fake-webm"))
	req := httptest.NewRequest(http.MethodPost, "/agent/chat/s1", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "s1", agent.gotSessionID)
	assert.Equal(t, []byte("fake-webm"), agent.gotAudio)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "hello", got["transcript"])
	assert.Equal(t, "hi there", got["ai_response"])
	assert.Equal(t, "http://audio/1.mp3", got["audio_url"])
	assert.Len(t, got["history"], 1)
}

func TestChat_MissingAudioField(t *testing.T) {
	r, _ := newTestRouter(t, &fakeAgent{})

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("other", "x"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/agent/chat/s1", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistory_ReturnsRecords(t *testing.T) {
	transcript := "hello"
	agent := &fakeAgent{history: []ports.TurnRecord{{Transcript: &transcript, AiResponse: "hi"}}}
	r, _ := newTestRouter(t, agent)

	req := httptest.NewRequest(http.MethodGet, "/agent/history/s1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "hi", got[0]["ai_response"])
}

func TestClear_ExistingAndMissingSession(t *testing.T) {
	agent := &fakeAgent{clearOK: true}
	r, _ := newTestRouter(t, agent)

	req := httptest.NewRequest(http.MethodPost, "/agent/clear/s1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, true, got["ok"])

	agent.clearOK = false
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/agent/clear/unknown", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, false, got["ok"])
	assert.Equal(t, "no history found", got["error"])
}

func TestAudio_ServesSavedClipAnd404s(t *testing.T) {
	r, clips := newTestRouter(t, &fakeAgent{})

	name, err := clips.Save([]byte("mp3-bytes"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/audio/"+name, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "mp3-bytes", rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/audio/missing.mp3", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
