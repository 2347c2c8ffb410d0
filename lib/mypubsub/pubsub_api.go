package mypubsub

import "context"

// PubSub fans event envelopes out to push subscribers. Topics are named after the aggregate
// that emits them, e.g. "checkout". A push subscriber receives a myevents.PushRequest as an
// HTTP POST on its push url.
//
//go:generate mockgen -source=pubsub_api.go -package mypubsub -destination pubsub_mock.go PubSub
type PubSub interface {
	// Publish sends one json encoded envelope to every subscriber of the topic
	Publish(c context.Context, topic string, envelope string) error
	// CreateTopic is idempotent
	CreateTopic(c context.Context, topic string) error
	// Subscribe is idempotent per (topic, pushURL), so services can subscribe on every start
	Subscribe(c context.Context, topic string, pushURL string) error
}

// New selects Google Pub/Sub when GOOGLE_CLOUD_PROJECT is set and in-process delivery otherwise
var New func(c context.Context) (PubSub, func(), error)
