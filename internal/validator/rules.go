package validator

import (
	"storefront_backend/internal/logger"
	"storefront_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			logger.Fatal("failed to register custom validation tag", "tag", tag, "error", err)
		}
	}

	mustRegister("is-user-role", validateUserRole)
	mustRegister("is-order-status", validateOrderStatus)
	mustRegister("is-discount-type", validateDiscountType)
	mustRegister("is-subscription-status", validateSubscriptionStatus)
}

// Empty values pass every rule below; "required" handles presence.

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.UserRole(value).IsValid()
}

func validateOrderStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.OrderStatus(value).IsValid()
}

func validateDiscountType(fl validator.FieldLevel) bool {
	switch models.DiscountType(fl.Field().String()) {
	case "", models.DiscountTypePercent, models.DiscountTypeFixed:
		return true
	}
	return false
}

func validateSubscriptionStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || models.SubscriptionStatus(value).IsValid()
}
