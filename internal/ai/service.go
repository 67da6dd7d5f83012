package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Vovarama1992/voice_agent/internal/ports"
)

// Prompting modes, selected via AI_PROMPT_MODE.
const (
	ModeStateless = "stateless"
	ModeHistory   = "history"
)

const (
	maxHistoryTurns = 12

	noInputReply    = "(No input provided.)"
	missingKeyReply = "I couldn't reach the language model because API key is missing."
)

type Service struct {
	client Client
	mode   string
}

func NewService(client Client, mode string) *Service {
	if mode != ModeHistory {
		mode = ModeStateless
	}
	return &Service{
		client: client,
		mode:   mode,
	}
}

func (s *Service) GetReply(ctx context.Context, history []ports.TurnRecord, userText string) (string, error) {
	if strings.TrimSpace(userText) == "" {
		log.Printf("[ai] empty input, skipping completion")
		return noInputReply, nil
	}

	if !s.client.Configured() {
		log.Printf("[ai] api key missing, returning fallback reply")
		return missingKeyReply, nil
	}

	prompt := userText
	if s.mode == ModeHistory {
		prompt = buildPrompt(history, userText)
	}

	reply, err := s.client.GetCompletion(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("ai completion: %w", err)
	}
	return strings.TrimSpace(reply), nil
}

// buildPrompt folds the last maxHistoryTurns turns into alternating
// User:/Assistant: lines, then appends the new user line and a trailing
// Assistant: cue. The whole conversation goes out as one prompt string.
func buildPrompt(history []ports.TurnRecord, userText string) string {
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}

	// Every turn contributes both lines, even empty ones, so the prompt
	// keeps strict User/Assistant alternation.
	var parts []string
	for _, r := range history {
		transcript := ""
		if r.Transcript != nil {
			transcript = *r.Transcript
		}
		parts = append(parts, "User: "+transcript)
		parts = append(parts, "Assistant: "+r.AiResponse)
	}
	parts = append(parts, "User: "+userText)
	parts = append(parts, "Assistant:")

	return strings.Join(parts, "\n")
}
