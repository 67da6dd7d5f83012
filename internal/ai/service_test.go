package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vovarama1992/voice_agent/internal/ports"
)

type fakeClient struct {
	configured bool
	reply      string
	err        error
	calls      int
	gotPrompt  string
}

func (f *fakeClient) Configured() bool { return f.configured }

func (f *fakeClient) GetCompletion(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.gotPrompt = prompt
	return f.reply, f.err
}

func turn(user, assistant string) ports.TurnRecord {
	return ports.TurnRecord{Transcript: &user, AiResponse: assistant}
}

func TestGetReply_EmptyInputShortCircuits(t *testing.T) {
	client := &fakeClient{configured: true, reply: "never"}
	svc := NewService(client, ModeStateless)

	for _, input := range []string{"", "   ", "\n\t "} {
		reply, err := svc.GetReply(context.Background(), nil, input)
		require.NoError(t, err)
		assert.Equal(t, noInputReply, reply)
	}
	assert.Equal(t, 0, client.calls)
}

func TestGetReply_MissingKeyReturnsFallback(t *testing.T) {
	client := &fakeClient{configured: false}
	svc := NewService(client, ModeStateless)

	reply, err := svc.GetReply(context.Background(), nil, "hello")
	require.NoError(t, err)
	assert.Equal(t, missingKeyReply, reply)
	assert.Equal(t, 0, client.calls)
}

func TestGetReply_StatelessSendsRawText(t *testing.T) {
	client := &fakeClient{configured: true, reply: "  hi there "}
	svc := NewService(client, ModeStateless)

	reply, err := svc.GetReply(context.Background(), []ports.TurnRecord{turn("old", "stuff")}, "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi there", reply)
	assert.Equal(t, "hello", client.gotPrompt)
}

func TestGetReply_HistoryModeFoldsTurnsIntoPrompt(t *testing.T) {
	client := &fakeClient{configured: true, reply: "ok"}
	svc := NewService(client, ModeHistory)

	hist := []ports.TurnRecord{
		turn("how are you", "fine, thanks"),
		turn("and now", "still fine"),
	}

	_, err := svc.GetReply(context.Background(), hist, "tell me a joke")
	require.NoError(t, err)

	want := strings.Join([]string{
		"User: how are you",
		"Assistant: fine, thanks",
		"User: and now",
		"Assistant: still fine",
		"User: tell me a joke",
		"Assistant:",
	}, "\n")
	assert.Equal(t, want, client.gotPrompt)
}

func TestGetReply_HistoryModeKeepsAlternationForEmptyValues(t *testing.T) {
	client := &fakeClient{configured: true, reply: "ok"}
	svc := NewService(client, ModeHistory)

	hist := []ports.TurnRecord{
		{Transcript: nil, AiResponse: "who is there"},
		turn("", "silence noted"),
	}

	_, err := svc.GetReply(context.Background(), hist, "hello")
	require.NoError(t, err)

	want := strings.Join([]string{
		"User: ",
		"Assistant: who is there",
		"User: ",
		"Assistant: silence noted",
		"User: hello",
		"Assistant:",
	}, "\n")
	assert.Equal(t, want, client.gotPrompt)
}

func TestGetReply_HistoryModeKeepsOnlyLastTwelveTurns(t *testing.T) {
	client := &fakeClient{configured: true, reply: "ok"}
	svc := NewService(client, ModeHistory)

	var hist []ports.TurnRecord
	for i := 0; i < 20; i++ {
		hist = append(hist, turn(fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i)))
	}

	_, err := svc.GetReply(context.Background(), hist, "latest")
	require.NoError(t, err)

	assert.NotContains(t, client.gotPrompt, "User: q7\n")
	assert.Contains(t, client.gotPrompt, "User: q8\n")
	assert.Contains(t, client.gotPrompt, "User: q19\n")
	assert.True(t, strings.HasSuffix(client.gotPrompt, "User: latest\nAssistant:"))
}

func TestGetReply_RemoteFailurePropagates(t *testing.T) {
	client := &fakeClient{configured: true, err: errors.New("boom")}
	svc := NewService(client, ModeStateless)

	_, err := svc.GetReply(context.Background(), nil, "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestNewService_UnknownModeDefaultsToStateless(t *testing.T) {
	client := &fakeClient{configured: true, reply: "ok"}
	svc := NewService(client, "whatever")

	_, err := svc.GetReply(context.Background(), []ports.TurnRecord{turn("a", "b")}, "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", client.gotPrompt)
}
