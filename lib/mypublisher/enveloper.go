package mypublisher

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/MarcGrol/marketplace/lib/myevents"
	"github.com/MarcGrol/marketplace/lib/mytime"
)

type enveloper struct {
	nower mytime.Nower
}

func newEnveloper(nower mytime.Nower) enveloper {
	return enveloper{
		nower: nower,
	}
}

// wrap puts an event in an unpublished envelope. The envelope uid is derived from its content, so
// a confirmation that is processed twice (webhook and buyer verify) stores and publishes the
// same envelope once.
func (e enveloper) wrap(topic string, event myevents.Event) (myevents.EventEnvelope, error) {
	if topic == "" {
		return myevents.EventEnvelope{}, fmt.Errorf("missing topic for event %s", event.GetEventTypeName())
	}
	if event.GetEventTypeName() == "" || event.GetAggregateName() == "" {
		return myevents.EventEnvelope{}, fmt.Errorf("event on topic %s lacks type or aggregate", topic)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return myevents.EventEnvelope{}, fmt.Errorf("error encoding %s event: %s", event.GetEventTypeName(), err)
	}

	envelope := myevents.EventEnvelope{
		Topic:         topic,
		AggregateUID:  event.GetAggregateName(),
		EventTypeName: event.GetEventTypeName(),
		EventPayload:  string(payload),
	}
	envelope.UID = envelopeUID(envelope)
	envelope.CreatedAt = e.nower.Now()

	return envelope, nil
}

// envelopeUID hashes the identity of an envelope, e.g. checkout/cs_123/CheckoutCompleted plus its payload
func envelopeUID(envelope myevents.EventEnvelope) string {
	sum := sha256.New()
	for _, part := range []string{envelope.Topic, envelope.AggregateUID, envelope.EventTypeName, envelope.EventPayload} {
		sum.Write([]byte(part))
		sum.Write([]byte{0})
	}
	return hex.EncodeToString(sum.Sum(nil))[:32]
}
