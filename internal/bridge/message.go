package bridge

import "encoding/json"

// Well-known message tags handled by the dispatcher itself. Every other tag
// belongs to a domain adapter or to the remote client.
const (
	TypePing = "ping"
	TypePong = "pong"
)

// Envelope is the wire format exchanged with remote tabletop clients.
// Outbound calls carry a RequestID; replies echo the same RequestID back.
// Messages without a RequestID are unsolicited events.
type Envelope struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
}

// NewEnvelope builds an outbound envelope, marshaling payload into Data.
// A nil payload produces an envelope with no data field.
func NewEnvelope(msgType string, payload any, requestID string) (*Envelope, error) {
	env := &Envelope{
		Type:      msgType,
		RequestID: requestID,
	}

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		env.Data = data
	}

	return env, nil
}

// DecodeData unmarshals the envelope data into v. An envelope with no data
// leaves v untouched.
func (e *Envelope) DecodeData(v any) error {
	if len(e.Data) == 0 {
		return nil
	}
	return json.Unmarshal(e.Data, v)
}
