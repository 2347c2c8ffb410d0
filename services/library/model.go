package library

import (
	"time"

	"github.com/MarcGrol/marketplace/services/catalog"
)

// Order grants a user access to one product; its uid is derived from the checkout session so
// recording the same purchase twice is harmless.
type Order struct {
	UID         string
	SessionID   string
	UserID      string
	TenantSlug  string
	ProductID   string
	PurchasedAt time.Time
}

func orderUID(sessionID string, productID string) string {
	return sessionID + "_" + productID
}

type LibraryProduct struct {
	catalog.Product
	ReviewCount  int     `json:"reviewCount"`
	ReviewRating float64 `json:"reviewRating"`
}

type LibraryPage = catalog.Page[LibraryProduct]

// OwnedProduct exposes the purchased content that the public catalog hides
type OwnedProduct struct {
	catalog.Product
	Content string `json:"content"`
}
