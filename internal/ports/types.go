package ports

// TurnRecord is one completed exchange in a session's history.
// Immutable after creation.
type TurnRecord struct {
	Transcript *string `json:"transcript"`
	AiResponse string  `json:"ai_response"`
}

// TurnResult is the full outcome of one processed turn, including the
// updated history for the session. The last history entry is always the
// record produced by this turn.
type TurnResult struct {
	Transcript *string      `json:"transcript"`
	AiResponse string       `json:"ai_response"`
	AudioURL   *string      `json:"audio_url"`
	History    []TurnRecord `json:"history"`
}
