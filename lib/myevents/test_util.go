package myevents

import (
	"encoding/json"
	"time"
)

// CreatePushRequest wraps an event the way a push subscription delivers it
func CreatePushRequest(topic string, event Event, createdAt time.Time) string {
	eventBytes, _ := json.Marshal(event)
	envelope := EventEnvelope{
		UID:           "123",
		CreatedAt:     createdAt,
		Topic:         topic,
		AggregateUID:  event.GetAggregateName(),
		EventTypeName: event.GetEventTypeName(),
		EventPayload:  string(eventBytes),
	}
	envelopeBytes, _ := json.Marshal(envelope)

	req := PushRequest{
		Message: PushMessage{
			Data: envelopeBytes,
		},
		Subscription: topic,
	}

	reqBytes, _ := json.Marshal(req)

	return string(reqBytes)
}
