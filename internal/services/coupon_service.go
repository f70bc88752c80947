package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"storefront_backend/internal/logger"
	"storefront_backend/internal/models"
	"storefront_backend/internal/repositories"
	"storefront_backend/internal/services/dto"
	"storefront_backend/pkg/apperrors"

	"github.com/shopspring/decimal"
)

type CouponService interface {
	// ApplyCoupon рассчитывает скидку для суммы, не расходуя использование купона.
	ApplyCoupon(ctx context.Context, req *dto.ApplyCouponRequest) (*dto.CouponQuote, error)
	ListCoupons(ctx context.Context, query *dto.CouponQuery) ([]models.Coupon, int64, error)
	GetCoupon(ctx context.Context, id string) (*models.Coupon, error)
	CreateCoupon(ctx context.Context, userID string, req *dto.CreateCouponRequest) (*models.Coupon, error)
	UpdateCoupon(ctx context.Context, id string, req *dto.UpdateCouponRequest) (*models.Coupon, error)
	DeleteCoupon(ctx context.Context, id string) error
}

type couponService struct {
	coupons repositories.CouponRepository
}

func NewCouponService(coupons repositories.CouponRepository) CouponService {
	return &couponService{coupons: coupons}
}

func (s *couponService) ApplyCoupon(ctx context.Context, req *dto.ApplyCouponRequest) (*dto.CouponQuote, error) {
	coupon, discount, err := evaluateCoupon(ctx, s.coupons, req.Code, req.Amount, time.Now())
	if err != nil {
		return nil, err
	}
	return &dto.CouponQuote{
		Code:        coupon.Code,
		Amount:      req.Amount,
		Discount:    discount,
		FinalAmount: req.Amount.Sub(discount),
	}, nil
}

func (s *couponService) ListCoupons(ctx context.Context, query *dto.CouponQuery) ([]models.Coupon, int64, error) {
	coupons, total, err := s.coupons.List(ctx, repositories.CouponFilter{
		Active:     query.Active,
		Pagination: pagination(query.Page, query.PageSize),
	})
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return coupons, total, nil
}

func (s *couponService) GetCoupon(ctx context.Context, id string) (*models.Coupon, error) {
	coupon, err := s.coupons.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, apperrors.ErrCouponNotFound)
	}
	return coupon, nil
}

func (s *couponService) CreateCoupon(ctx context.Context, userID string, req *dto.CreateCouponRequest) (*models.Coupon, error) {
	coupon := &models.Coupon{
		Code:          normalizeCode(req.Code),
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		MinOrderValue: req.MinOrderValue,
		MaxUses:       req.MaxUses,
		ValidFrom:     req.ValidFrom,
		ValidTo:       req.ValidTo,
		Active:        true,
		CreatedBy:     userID,
	}
	if req.Active != nil {
		coupon.Active = *req.Active
	}
	if err := validateCoupon(coupon); err != nil {
		return nil, err
	}

	if err := s.coupons.Create(ctx, coupon); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ErrCouponCodeExists
		}
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Coupon created", "coupon_id", coupon.ID, "code", coupon.Code)
	return coupon, nil
}

func (s *couponService) UpdateCoupon(ctx context.Context, id string, req *dto.UpdateCouponRequest) (*models.Coupon, error) {
	coupon, err := s.coupons.FindByID(ctx, id)
	if err != nil {
		return nil, repoError(err, apperrors.ErrCouponNotFound)
	}

	if req.DiscountType != nil {
		coupon.DiscountType = *req.DiscountType
	}
	if req.DiscountValue != nil {
		coupon.DiscountValue = *req.DiscountValue
	}
	if req.MinOrderValue != nil {
		coupon.MinOrderValue = *req.MinOrderValue
	}
	if req.MaxUses != nil {
		coupon.MaxUses = *req.MaxUses
	}
	if req.ValidFrom != nil {
		coupon.ValidFrom = req.ValidFrom
	}
	if req.ValidTo != nil {
		coupon.ValidTo = req.ValidTo
	}
	if req.Active != nil {
		coupon.Active = *req.Active
	}
	if err := validateCoupon(coupon); err != nil {
		return nil, err
	}

	if err := s.coupons.Update(ctx, coupon); err != nil {
		return nil, repoError(err, apperrors.ErrCouponNotFound)
	}
	return coupon, nil
}

func (s *couponService) DeleteCoupon(ctx context.Context, id string) error {
	if err := s.coupons.Delete(ctx, id); err != nil {
		return repoError(err, apperrors.ErrCouponNotFound)
	}
	return nil
}

func validateCoupon(c *models.Coupon) error {
	if c.DiscountType == models.DiscountTypePercent && c.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
		return apperrors.NewBadRequestError("Percent discount cannot exceed 100")
	}
	if c.ValidFrom != nil && c.ValidTo != nil && c.ValidTo.Before(*c.ValidFrom) {
		return apperrors.NewBadRequestError("validTo must be after validFrom")
	}
	return nil
}

// evaluateCoupon проверяет купон для суммы на момент now и возвращает скидку.
func evaluateCoupon(ctx context.Context, coupons repositories.CouponRepository, code string, amount decimal.Decimal, now time.Time) (*models.Coupon, decimal.Decimal, error) {
	coupon, err := coupons.FindByCode(ctx, normalizeCode(code))
	if err != nil {
		return nil, decimal.Zero, repoError(err, apperrors.ErrCouponNotFound)
	}
	if !coupon.IsValidAt(now) {
		return nil, decimal.Zero, apperrors.ErrCouponInvalid
	}
	if coupon.Exhausted() {
		return nil, decimal.Zero, apperrors.ErrCouponExhausted
	}
	if amount.LessThan(coupon.MinOrderValue) {
		return nil, decimal.Zero, apperrors.ErrCouponMinOrder
	}
	return coupon, coupon.DiscountFor(amount), nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
