// Package vtt contains the typed document adapters for the remote tabletop
// application. Each adapter encodes one family of commands for the bridge
// dispatcher and decodes the matching replies into typed results. Adapters
// hold no connection state and may be constructed freely.
package vtt

import (
	"fmt"

	"vtt-bridge/internal/bridge"
)

// NoConnectionMsg is the failure text reported when a call could not be
// delivered or no reply arrived in time.
const NoConnectionMsg = "No connection or timeout"

// errorPayload is the shape remote clients report failures in.
type errorPayload struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// remoteError extracts the failure text from a reply whose tag did not match
// the expected success tag. A reply with no readable error text yields a
// generic message naming the tag.
func remoteError(env *bridge.Envelope) string {
	var p errorPayload
	if err := env.DecodeData(&p); err == nil {
		if p.Error != "" {
			return p.Error
		}
		if p.Message != "" {
			return p.Message
		}
	}
	return fmt.Sprintf("unexpected reply %q from client", env.Type)
}
