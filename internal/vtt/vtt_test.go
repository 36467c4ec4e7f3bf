package vtt

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"vtt-bridge/internal/bridge"
)

// fakeCaller replays a canned reply or error and records what was asked.
type fakeCaller struct {
	lastCommand string
	lastPayload any

	reply *bridge.Envelope
	err   error
}

func (f *fakeCaller) Call(
	_ context.Context,
	command string,
	payload any,
	_ time.Duration,
) (*bridge.Envelope, error) {
	f.lastCommand = command
	f.lastPayload = payload
	return f.reply, f.err
}

func envelope(t *testing.T, msgType string, data any) *bridge.Envelope {
	t.Helper()
	env, err := bridge.NewEnvelope(msgType, data, "req-1")
	if err != nil {
		t.Fatalf("build envelope: %v", err)
	}
	return env
}

func TestRemoteError_PrefersErrorField(t *testing.T) {
	env := envelope(t, "error", map[string]string{"error": "creature name too long"})
	assert.Equal(t, "creature name too long", remoteError(env))
}

func TestRemoteError_FallsBackToMessageField(t *testing.T) {
	env := envelope(t, "error", map[string]string{"message": "world is locked"})
	assert.Equal(t, "world is locked", remoteError(env))
}

func TestRemoteError_GenericWhenUnreadable(t *testing.T) {
	env := &bridge.Envelope{Type: "gibberish", Data: json.RawMessage(`"not an object"`)}
	assert.Contains(t, remoteError(env), `unexpected reply "gibberish"`)
}
