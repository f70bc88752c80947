package apperrors

import "net/http"

// ErrNotFound ошибка отсутствия записи (404).
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists нарушение уникальности (409).
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// ErrPaymentFailed оборачивает любую ошибку провайдера. Сообщение всегда одинаковое.
func ErrPaymentFailed(err error) *AppError {
	return Wrap(err, CodePaymentFailed, "payment", "Payment processing failed", http.StatusInternalServerError)
}

// --- Авторизация ---

var ErrEmailAlreadyExists = New(CodeAlreadyExists, "auth", "Email already in use", http.StatusConflict)

var ErrInvalidCredentials = New(CodeInvalidCredentials, "auth", "Invalid email or password", http.StatusUnauthorized)

var ErrMissingCredentials = New(CodeValidationFailed, "auth", "Please enter email & password", http.StatusBadRequest)

var ErrLoginRequired = New(CodeUnauthorized, "auth", "Please login to access this resource", http.StatusUnauthorized)

var ErrTokenExpired = New(CodeTokenExpired, "auth", "Token has expired", http.StatusUnauthorized)

var ErrInvalidToken = New(CodeInvalidToken, "auth", "Invalid token", http.StatusUnauthorized)

var ErrInvalidResetToken = New(CodeInvalidToken, "auth", "Reset password token is invalid or has been expired", http.StatusBadRequest)

var ErrPasswordMismatch = New(CodeValidationFailed, "auth", "Password does not match", http.StatusBadRequest)

var ErrOldPasswordIncorrect = New(CodeInvalidCredentials, "auth", "Old password is incorrect", http.StatusBadRequest)

var ErrCannotModifySelf = New(CodeForbidden, "user", "Operation on self is not allowed", http.StatusForbidden)

var ErrUserNotFound = New(CodeNotFound, "user", "User not found", http.StatusNotFound)

var ErrEmailNotSent = New(CodeExternalServiceError, "email", "Email could not be sent", http.StatusInternalServerError)

// --- Загрузки ---

var ErrFileTooLarge = New(CodeLimitExceeded, "upload", "File size exceeds the allowed limit", http.StatusRequestEntityTooLarge)

var ErrInvalidFileType = New(CodeUnsupportedMedia, "upload", "Only png, jpg and jpeg images are allowed", http.StatusUnsupportedMediaType)

var ErrTooManyFiles = New(CodeLimitExceeded, "upload", "Too many images", http.StatusBadRequest)

var ErrInvalidImage = New(CodeValidationFailed, "upload", "File is not a valid image", http.StatusBadRequest)

// --- Каталог и заказы ---

var ErrProductNotFound = New(CodeNotFound, "product", "Product not found", http.StatusNotFound)

var ErrInsufficientStock = New(CodeOutOfStock, "product", "Insufficient stock", http.StatusConflict)

var ErrOrderNotFound = New(CodeNotFound, "order", "Order not found with this Id", http.StatusNotFound)

var ErrEmptyOrder = New(CodeValidationFailed, "order", "Order must contain at least one item", http.StatusBadRequest)

var ErrInvalidQuantity = New(CodeValidationFailed, "order", "Quantity must be between 1 and 99999", http.StatusBadRequest)

var ErrInvalidStatusTransition = New(CodeInvalidStatus, "order", "Order status transition is not allowed", http.StatusBadRequest)

// --- Купоны ---

var ErrCouponNotFound = New(CodeNotFound, "coupon", "Coupon not found", http.StatusNotFound)

var ErrCouponCodeExists = New(CodeAlreadyExists, "coupon", "Coupon code already exists", http.StatusConflict)

var ErrCouponInvalid = New(CodeInvalidOperation, "coupon", "Coupon is not valid", http.StatusBadRequest)

var ErrCouponExhausted = New(CodeLimitExceeded, "coupon", "Coupon usage limit reached", http.StatusBadRequest)

var ErrCouponMinOrder = New(CodeInvalidOperation, "coupon", "Order amount is below the coupon minimum", http.StatusBadRequest)

// --- Подписки ---

var ErrSubscriptionNotFound = New(CodeNotFound, "subscription", "Subscription not found", http.StatusNotFound)

var ErrSubscriptionCancelled = New(CodeInvalidOperation, "subscription", "Subscription is not active", http.StatusBadRequest)

var ErrActiveSubscriptionExists = New(CodeConflict, "subscription", "You already have an active subscription", http.StatusConflict)

var ErrUnknownPlan = New(CodeValidationFailed, "subscription", "Unknown subscription plan", http.StatusBadRequest)

// --- Платежи ---

var ErrInvalidPaymentAmount = New(CodeValidationFailed, "payment", "Invalid payment amount", http.StatusBadRequest)
