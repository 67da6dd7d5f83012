package agent

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Vovarama1992/voice_agent/internal/ports"
)

// Sentinel replies substituted when a stage fails. They flow on into the
// next stage and into history like any genuine value, so a turn always
// completes.
const (
	transcriptErrReply = "(Error: could not get transcript)"
	aiErrReply         = "(Error: could not get AI response)"
)

type Service struct {
	stt      ports.STTClient
	ai       ports.AiService
	tts      ports.TTSClient
	store    ports.HistoryStore
	notifier ports.Notificator
}

func NewService(
	stt ports.STTClient,
	ai ports.AiService,
	tts ports.TTSClient,
	store ports.HistoryStore,
	notifier ports.Notificator,
) *Service {
	return &Service{
		stt:      stt,
		ai:       ai,
		tts:      tts,
		store:    store,
		notifier: notifier,
	}
}

// ProcessTurn runs the three-stage pipeline for one recorded clip. Stages are
// strictly sequential; each failure is absorbed locally and replaced with a
// degraded value, so the result never carries an error.
func (s *Service) ProcessTurn(ctx context.Context, sessionID string, audio []byte) ports.TurnResult {
	start := time.Now()
	log.Printf("[agent] >>> START session=%s bytes=%d", sessionID, len(audio))

	// Prior turns, for history-aware prompting. A read failure here only
	// costs context, never the turn.
	prior, err := s.store.Get(ctx, sessionID)
	if err != nil {
		log.Printf("[agent] [%s] history read failed: %v", sessionID, err)
		prior = nil
	}

	// 1) speech to text
	transcript, err := s.stt.Transcribe(ctx, audio)
	if err != nil {
		log.Printf("[agent] [%s] stt failed: %v", sessionID, err)
		s.notify(ctx, err, fmt.Sprintf("STT failed for session %s", sessionID))
		transcript = transcriptErrReply
	}

	// 2) text generation
	reply, err := s.ai.GetReply(ctx, prior, transcript)
	if err != nil {
		log.Printf("[agent] [%s] ai failed: %v", sessionID, err)
		s.notify(ctx, err, fmt.Sprintf("generation failed for session %s", sessionID))
		reply = aiErrReply
	}

	// 3) text to speech
	var audioURL *string
	if u, err := s.tts.Synthesize(ctx, reply); err != nil {
		log.Printf("[agent] [%s] tts failed: %v", sessionID, err)
		s.notify(ctx, err, fmt.Sprintf("TTS failed for session %s", sessionID))
	} else {
		audioURL = &u
	}

	rec := ports.TurnRecord{
		Transcript: &transcript,
		AiResponse: reply,
	}

	updated, err := s.store.Append(ctx, sessionID, rec)
	if err != nil {
		log.Printf("[agent] [%s] history append failed: %v", sessionID, err)
		s.notify(ctx, err, fmt.Sprintf("history append failed for session %s", sessionID))
		updated = append(prior, rec)
	}

	log.Printf("[agent] [%.1fs] turn done session=%s turns=%d",
		time.Since(start).Seconds(), sessionID, len(updated))

	return ports.TurnResult{
		Transcript: rec.Transcript,
		AiResponse: reply,
		AudioURL:   audioURL,
		History:    updated,
	}
}

func (s *Service) GetHistory(ctx context.Context, sessionID string) ([]ports.TurnRecord, error) {
	return s.store.Get(ctx, sessionID)
}

func (s *Service) ClearHistory(ctx context.Context, sessionID string) (bool, error) {
	return s.store.Clear(ctx, sessionID)
}

func (s *Service) notify(ctx context.Context, err error, details string) {
	if s.notifier == nil {
		return
	}
	if nerr := s.notifier.Notify(ctx, err, details); nerr != nil {
		log.Printf("[agent] notify failed: %v", nerr)
	}
}
