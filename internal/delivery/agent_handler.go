package delivery

import (
	"fmt"
	"io"
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/Vovarama1992/voice_agent/internal/ports"
)

const maxClipBytes = 20 << 20

type AgentHandler struct {
	agent   ports.AgentService
	clips   ports.ClipStore
	archive ports.ClipArchive // nil when S3 is not configured
	log     *logger.ZapLogger
}

func NewAgentHandler(
	agent ports.AgentService,
	clips ports.ClipStore,
	archive ports.ClipArchive,
	log *logger.ZapLogger,
) *AgentHandler {
	return &AgentHandler{
		agent:   agent,
		clips:   clips,
		archive: archive,
		log:     log,
	}
}

// Chat accepts one recorded clip (multipart field "audio") and runs the full
// turn. A processed turn always answers 200, even when every stage degraded.
func (h *AgentHandler) Chat(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")
	if sessionID == "" {
		http.Error(w, "missing session_id", http.StatusBadRequest)
		return
	}

	if err := r.ParseMultipartForm(maxClipBytes); err != nil {
		http.Error(w, "invalid multipart: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		http.Error(w, "missing audio: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read audio: "+err.Error(), http.StatusBadRequest)
		return
	}

	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: fmt.Sprintf("[%s] received audio %s (%d bytes)", sessionID, header.Filename, len(data)),
		Service: "voice-agent",
	})

	// clip persistence is best effort, the turn itself never depends on it
	filename, err := h.clips.Save(data)
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "save clip failed", Service: "voice-agent", Error: err})
	} else if h.archive != nil {
		if url, aerr := h.archive.Archive(r.Context(), sessionID, filename, data); aerr != nil {
			h.log.Log(logger.LogEntry{Level: "error", Message: "archive clip failed", Service: "voice-agent", Error: aerr})
		} else {
			h.log.Log(logger.LogEntry{
				Level:   "info",
				Message: fmt.Sprintf("[%s] clip archived at %s", sessionID, url),
				Service: "voice-agent",
			})
		}
	}

	result := h.agent.ProcessTurn(r.Context(), sessionID, data)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}

func (h *AgentHandler) History(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")

	history, err := h.agent.GetHistory(r.Context(), sessionID)
	if err != nil {
		h.log.Log(logger.LogEntry{Level: "error", Message: "history load failed", Service: "voice-agent", Error: err})
		http.Error(w, "failed to load history: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(history)
}

func (h *AgentHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session_id")

	ok, err := h.agent.ClearHistory(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "failed to clear history: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if ok {
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "no history found"})
}

func (h *AgentHandler) Audio(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	path, err := h.clips.Path(filename)
	if err != nil {
		http.Error(w, "audio not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	http.ServeFile(w, r, path)
}
