package audit

import (
	"encoding/json"
	"fmt"
	"time"
)

// Payload is the wire form of an Event published to external sinks.
type Payload struct {
	ID          string            `json:"id"`
	Type        string            `json:"type"`
	Category    string            `json:"category"`
	SovereignID string            `json:"sovereign_id,omitempty"`
	Actor       string            `json:"actor,omitempty"`
	Amounts     map[string]uint64 `json:"amounts,omitempty"`
	RequestID   string            `json:"request_id,omitempty"`
	Timestamp   string            `json:"timestamp"`
}

func (e Event) Payload() Payload {
	return Payload{
		ID:          e.ID,
		Type:        string(e.Type),
		Category:    string(e.Category()),
		SovereignID: e.SovereignID,
		Actor:       e.Actor,
		Amounts:     e.Amounts,
		RequestID:   e.RequestID,
		Timestamp:   e.Timestamp.UTC().Format(time.RFC3339Nano),
	}
}

// Marshal encodes the event payload as JSON.
func Marshal(e Event) ([]byte, error) {
	b, err := json.Marshal(e.Payload())
	if err != nil {
		return nil, fmt.Errorf("marshal audit payload: %w", err)
	}
	return b, nil
}

// Unmarshal decodes a payload produced by Marshal.
func Unmarshal(b []byte) (Event, error) {
	var p Payload
	if err := json.Unmarshal(b, &p); err != nil {
		return Event{}, fmt.Errorf("unmarshal audit payload: %w", err)
	}
	ts, err := time.Parse(time.RFC3339Nano, p.Timestamp)
	if err != nil {
		return Event{}, fmt.Errorf("parse audit timestamp: %w", err)
	}
	return Event{
		ID:          p.ID,
		Type:        EventType(p.Type),
		SovereignID: p.SovereignID,
		Actor:       p.Actor,
		Amounts:     p.Amounts,
		RequestID:   p.RequestID,
		Timestamp:   ts,
	}, nil
}
