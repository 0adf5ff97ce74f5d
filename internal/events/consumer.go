package events

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"storefront/internal/metrics"
)

// Decode parses an envelope read back from a broker. The payload is left
// as raw JSON.
func Decode(body []byte) (Event, json.RawMessage, error) {
	var env struct {
		Event
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return Event{}, nil, fmt.Errorf("decode event: %w", err)
	}
	if env.Type == "" {
		return Event{}, nil, fmt.Errorf("decode event: missing type")
	}
	return env.Event, env.Payload, nil
}

// LogHandler returns a consumer callback that records every event it sees.
// It is the sink used by the worker command until downstream consumers
// (mail, fulfilment) exist.
func LogHandler(log *slog.Logger) func(body []byte) error {
	return func(body []byte) error {
		e, payload, err := Decode(body)
		if err != nil {
			metrics.EventsConsumed.WithLabelValues("unknown", "failed").Inc()
			return err
		}
		log.Info("event received",
			"event_id", e.ID,
			"type", e.Type,
			"key", e.Key,
			"occurred_at", e.OccurredAt,
			"payload", string(payload),
		)
		metrics.EventsConsumed.WithLabelValues(e.Type, "ok").Inc()
		return nil
	}
}
