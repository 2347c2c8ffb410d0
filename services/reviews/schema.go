package reviews

import (
	"strings"

	"github.com/MarcGrol/marketplace/lib/myrpc"
)

const (
	ProcedureGetOne = "reviews.getOne"
	ProcedureCreate = "reviews.create"
	ProcedureUpdate = "reviews.update"

	minRating = 1
	maxRating = 5
)

type GetOneInput struct {
	ProductID string `form:"productId"`
}

func (i GetOneInput) Validate() error {
	v := myrpc.Violations{}
	v.Check(i.ProductID != "", "productId is required")
	return v.Err()
}

type CreateInput struct {
	ProductID   string `json:"productId"`
	Rating      int    `json:"rating"`
	Description string `json:"description"`
}

func (i CreateInput) Validate() error {
	v := myrpc.Violations{}
	v.Check(i.ProductID != "", "productId is required")
	checkContent(&v, i.Rating, i.Description)
	return v.Err()
}

type UpdateInput struct {
	ReviewID    string `json:"reviewId"`
	Rating      int    `json:"rating"`
	Description string `json:"description"`
}

func (i UpdateInput) Validate() error {
	v := myrpc.Violations{}
	v.Check(i.ReviewID != "", "reviewId is required")
	checkContent(&v, i.Rating, i.Description)
	return v.Err()
}

func checkContent(v *myrpc.Violations, rating int, description string) {
	v.Check(rating >= minRating && rating <= maxRating, "rating must be between %d and %d", minRating, maxRating)
	v.Check(strings.TrimSpace(description) != "", "description is required")
}
