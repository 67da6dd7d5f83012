package ports

import "context"

// AgentService drives one voice turn: STT, generation, TTS, history append.
// ProcessTurn never fails from the caller's perspective: every stage failure
// is absorbed into a degraded value inside the returned TurnResult.
type AgentService interface {
	ProcessTurn(ctx context.Context, sessionID string, audio []byte) TurnResult
	GetHistory(ctx context.Context, sessionID string) ([]TurnRecord, error)
	ClearHistory(ctx context.Context, sessionID string) (bool, error)
}
