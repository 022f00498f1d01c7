package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/d60-Lab/gin-storefront/internal/model"
	"github.com/d60-Lab/gin-storefront/internal/repository"
)

// CouponService 优惠券校验。只做资格判定与折扣试算；
// 真正的用券记账（usage 流水 + used_count 递增）发生在结算事务内，
// 结算中途失败不消耗任何用券额度。
type CouponService interface {
	// Validate 校验券码并返回券与按 orderAmount 试算的折扣额
	Validate(ctx context.Context, userID uint, code string, orderAmount decimal.Decimal) (*model.Coupon, decimal.Decimal, error)
}

type couponService struct {
	coupons repository.CouponRepository
}

func NewCouponService(coupons repository.CouponRepository) CouponService {
	return &couponService{coupons: coupons}
}

func (s *couponService) Validate(ctx context.Context, userID uint, code string, orderAmount decimal.Decimal) (*model.Coupon, decimal.Decimal, error) {
	cp, err := s.coupons.GetActiveByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, decimal.Zero, ErrCouponInvalidCode
		}
		return nil, decimal.Zero, err
	}

	now := timeNow()
	if !cp.IsValid(now) {
		return nil, decimal.Zero, ErrCouponExpired
	}
	if orderAmount.LessThan(cp.MinimumOrderAmount) {
		return nil, decimal.Zero, ErrCouponBelowMinimum
	}

	used, err := s.coupons.CountUsagesByUser(ctx, userID, cp.ID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	if used >= int64(cp.UsageLimitPerUser) {
		return nil, decimal.Zero, ErrCouponPerUserLimit
	}

	return cp, cp.CalculateDiscount(orderAmount, now), nil
}
