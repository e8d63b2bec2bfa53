package event

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNilPayload is returned when an event carries no payload
var ErrNilPayload = errors.New("event has no payload")

// DecodePayload returns payload as T. Payloads published in process are
// already T (or *T). Payloads read back from a dead-letter file arrive as
// JSON maps or raw JSON and are converted through encoding/json.
func DecodePayload[T any](payload any) (T, error) {
	var out T
	switch p := payload.(type) {
	case nil:
		return out, ErrNilPayload
	case T:
		return p, nil
	case *T:
		if p == nil {
			return out, ErrNilPayload
		}
		return *p, nil
	case json.RawMessage:
		return out, unmarshalPayload(p, &out)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return out, fmt.Errorf("failed to re-encode %T payload: %w", payload, err)
	}
	return out, unmarshalPayload(data, &out)
}

func unmarshalPayload(data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %T payload: %w", out, err)
	}
	return nil
}
