package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Prices go out as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

type BaseModel struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	m.EnsureID()
	return nil
}

// EnsureID assigns a fresh UUID to records that do not have one yet.
func (m *BaseModel) EnsureID() {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
}

// Touch sets the timestamps for stores that have no autoCreateTime/autoUpdateTime.
func (m *BaseModel) Touch(now time.Time) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
}

// Image is a stored blob reference: Key is the storage path, URL the public link.
type Image struct {
	Key string `bson:"key" json:"key,omitempty"`
	URL string `bson:"url" json:"url"`
}

// IsZero reports whether no image is attached.
func (i Image) IsZero() bool {
	return i.Key == "" && i.URL == ""
}
