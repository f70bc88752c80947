package models

import "time"

type User struct {
	BaseModel           `bson:",inline"`
	Name                string     `gorm:"size:100;not null" bson:"name" json:"name"`
	Email               string     `gorm:"size:255;uniqueIndex;not null" bson:"email" json:"email"`
	PasswordHash        string     `gorm:"not null" bson:"password" json:"-"`
	Role                UserRole   `gorm:"type:varchar(20);not null" bson:"role" json:"role"`
	Avatar              Image      `gorm:"embedded;embeddedPrefix:avatar_" bson:"avatar" json:"avatar"`
	PaymentCustomerID   string     `gorm:"size:255" bson:"payment_customer_id,omitempty" json:"paymentCustomerId,omitempty"`
	ResetPasswordToken  string     `gorm:"size:64;index" bson:"reset_password_token,omitempty" json:"-"`
	ResetPasswordExpire *time.Time `bson:"reset_password_expire,omitempty" json:"-"`
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// ClearResetToken drops any pending password-reset token.
func (u *User) ClearResetToken() {
	u.ResetPasswordToken = ""
	u.ResetPasswordExpire = nil
}
