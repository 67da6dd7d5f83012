package ports

import "context"

// AiService produces a reply to the user's latest utterance. history holds
// the session's prior turns; whether it is folded into the prompt depends on
// the configured prompting mode.
type AiService interface {
	GetReply(ctx context.Context, history []TurnRecord, userText string) (string, error)
}
