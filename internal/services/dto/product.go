package dto

import (
	"mime/multipart"

	"github.com/shopspring/decimal"
)

type CreateProductRequest struct {
	Name        string                  `json:"name" form:"name" validate:"required,max=200"`
	Description string                  `json:"description" form:"description" validate:"required"`
	Price       decimal.Decimal         `json:"price" form:"price" validate:"gt=0"`
	Category    string                  `json:"category" form:"category" validate:"required,max=100"`
	Stock       int                     `json:"stock" form:"stock" validate:"min=0,max=99999"`
	Images      []*multipart.FileHeader `json:"-" form:"-"`
}

// UpdateProductRequest changes only the fields that are set. Images, when present,
// replace the existing ones.
type UpdateProductRequest struct {
	Name        *string                 `json:"name" form:"name" validate:"omitempty,min=1,max=200"`
	Description *string                 `json:"description" form:"description"`
	Price       *decimal.Decimal        `json:"price" form:"price" validate:"omitempty,gt=0"`
	Category    *string                 `json:"category" form:"category" validate:"omitempty,min=1,max=100"`
	Stock       *int                    `json:"stock" form:"stock" validate:"omitempty,min=0,max=99999"`
	Images      []*multipart.FileHeader `json:"-" form:"-"`
}

type ProductQuery struct {
	Keyword  string           `form:"keyword"`
	Category string           `form:"category"`
	MinPrice *decimal.Decimal `form:"price[gte]"`
	MaxPrice *decimal.Decimal `form:"price[lte]"`
	Page     int              `form:"page" validate:"omitempty,min=1"`
	PageSize int              `form:"page_size" validate:"omitempty,min=1,max=100"`
}
