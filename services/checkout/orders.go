package checkout

import (
	"context"
	"time"
)

// OrderRecorder turns a paid checkout into orders in the buyer's library
//
//go:generate mockgen -source=orders.go -package checkout -destination orders_mock.go OrderRecorder
type OrderRecorder interface {
	RecordPurchase(c context.Context, sessionID string, userID string, tenantSlug string, productIDs []string, purchasedAt time.Time) error
}
