package reviews

import (
	"time"
)

type Review struct {
	UID          string     `json:"id"`
	ProductID    string     `json:"productId"`
	UserID       string     `json:"userId"`
	Rating       int        `json:"rating"`
	Description  string     `json:"description" datastore:",noindex"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastModified *time.Time `json:"lastModified,omitempty"`
}

// Summary aggregates the reviews of one product; Rating is 0 without reviews
type Summary struct {
	Count  int     `json:"reviewCount"`
	Rating float64 `json:"reviewRating"`
}
