package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubscriptionPlan is a purchasable tier. Plans live in configuration, not in the store.
type SubscriptionPlan struct {
	ID           string          `yaml:"id" json:"id"`
	Name         string          `yaml:"name" json:"name"`
	Price        decimal.Decimal `yaml:"-" json:"price"`
	DurationDays int             `yaml:"duration_days" json:"durationDays"`
}

type Subscription struct {
	BaseModel   `bson:",inline"`
	UserID      string             `gorm:"size:36;index;not null" bson:"user" json:"user"`
	Plan        string             `gorm:"size:50;not null" bson:"plan" json:"plan"`
	Price       decimal.Decimal    `gorm:"type:decimal(12,2)" bson:"price" json:"price"`
	Currency    string             `gorm:"size:10" bson:"currency" json:"currency"`
	Status      SubscriptionStatus `gorm:"type:varchar(20);index" bson:"status" json:"status"`
	StartDate   time.Time          `bson:"start_date" json:"startDate"`
	EndDate     time.Time          `gorm:"index" bson:"end_date" json:"endDate"`
	PaymentInfo PaymentInfo        `gorm:"embedded;embeddedPrefix:payment_" bson:"payment_info" json:"paymentInfo"`
	CancelledAt *time.Time         `bson:"cancelled_at,omitempty" json:"cancelledAt,omitempty"`
}

// IsActiveAt reports whether the subscription grants membership at the given time.
func (s *Subscription) IsActiveAt(now time.Time) bool {
	return s.Status == SubscriptionStatusActive && now.Before(s.EndDate)
}
