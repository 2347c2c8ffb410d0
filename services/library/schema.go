package library

import (
	"github.com/MarcGrol/marketplace/lib/myrpc"
)

const (
	ProcedureGetMany = "library.getMany"
	ProcedureGetOne  = "library.getOne"
)

type GetManyInput struct {
	Cursor int `form:"cursor"`
	Limit  int `form:"limit"`
}

func (i GetManyInput) Validate() error {
	v := myrpc.Violations{}
	v.Check(i.Cursor >= 0, "cursor must not be negative")
	v.Check(i.Limit >= 0, "limit must not be negative")
	return v.Err()
}

type GetOneInput struct {
	ProductID string `form:"productId"`
}

func (i GetOneInput) Validate() error {
	v := myrpc.Violations{}
	v.Check(i.ProductID != "", "productId is required")
	return v.Err()
}
