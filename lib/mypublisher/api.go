package mypublisher

import (
	"context"

	"github.com/MarcGrol/marketplace/lib/myevents"
)

// Publisher accepts domain events inside the caller's transaction; delivery to subscribers happens
// asynchronously and at least once.
//
//go:generate mockgen -source=api.go -package mypublisher -destination publisher_mock.go Publisher
type Publisher interface {
	Publish(c context.Context, topic string, event myevents.Event) error
}
