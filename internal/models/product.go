package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Product struct {
	BaseModel    `bson:",inline"`
	Name         string                     `gorm:"size:200;not null" bson:"name" json:"name"`
	Slug         string                     `gorm:"size:255;index" bson:"slug" json:"slug"`
	Description  string                     `gorm:"type:text" bson:"description" json:"description"`
	Price        decimal.Decimal            `gorm:"type:decimal(12,2);not null" bson:"price" json:"price"`
	Category     string                     `gorm:"size:100;index" bson:"category" json:"category"`
	Stock        int                        `gorm:"not null" bson:"stock" json:"stock"`
	Images       datatypes.JSONSlice[Image] `bson:"images" json:"images"`
	Ratings      float64                    `bson:"ratings" json:"ratings"`
	NumOfReviews int                        `bson:"num_of_reviews" json:"numOfReviews"`
	UserID       string                     `gorm:"size:36;index" bson:"user" json:"user"`
}

// MainImage returns the URL of the first image, or "" when the product has none.
func (p *Product) MainImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}
