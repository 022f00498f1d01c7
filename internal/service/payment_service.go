package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/gin-storefront/internal/gateway"
	"github.com/d60-Lab/gin-storefront/internal/model"
	"github.com/d60-Lab/gin-storefront/pkg/logger"
)

// minorUnitFactor 换算到最小货币单位（INR → paise）
var minorUnitFactor = decimal.NewFromInt(100)

// PaymentResult 支付确认的结果。RequiresAction 为真时支付单仍是 pending，
// ClientSecret 交客户端在带外完成验证。
type PaymentResult struct {
	Payment        *model.Payment `json:"payment"`
	RequiresAction bool           `json:"requires_action"`
	ClientSecret   string         `json:"client_secret,omitempty"`
	FailureReason  string         `json:"failure_reason,omitempty"`
}

// PaymentService 支付确认。调用网关创建/确认支付意图并回写订单与支付状态。
// 已完成的支付单直接拒绝重复确认；网关传输失败不改任何状态，可安全重试。
type PaymentService interface {
	Process(ctx context.Context, userID, paymentID uint, paymentMethodToken string) (*PaymentResult, error)
}

type paymentService struct {
	db      *gorm.DB
	gateway gateway.Client
}

func NewPaymentService(db *gorm.DB, gw gateway.Client) PaymentService {
	return &paymentService{db: db, gateway: gw}
}

func (s *paymentService) Process(ctx context.Context, userID, paymentID uint, paymentMethodToken string) (*PaymentResult, error) {
	var payment model.Payment
	err := s.db.WithContext(ctx).
		Joins("JOIN orders ON orders.id = payments.order_id").
		Where("payments.id = ? AND orders.user_id = ?", paymentID, userID).
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	if payment.Status == model.PaymentStatusCompleted {
		return nil, ErrPaymentCompleted
	}

	amountMinor := payment.Amount.Mul(minorUnitFactor).IntPart()
	intent, err := s.gateway.CreatePaymentIntent(ctx, gateway.IntentRequest{
		AmountMinor:   amountMinor,
		Currency:      payment.Currency,
		PaymentMethod: paymentMethodToken,
	})
	if err != nil {
		var decline *gateway.DeclineError
		if errors.As(err, &decline) {
			// 网关明确拒绝：支付单置 failed，订单保持未支付可重试
			if mErr := s.markFailed(ctx, &payment, decline.Error()); mErr != nil {
				return nil, mErr
			}
			logger.Warn("payment declined by gateway",
				zap.Uint("payment_id", payment.ID),
				zap.String("reason", decline.Error()),
			)
			return &PaymentResult{Payment: &payment, FailureReason: decline.Error()}, nil
		}
		// 传输层失败：不落任何状态变更，支付单保持 pending
		logger.Error("payment gateway call failed",
			zap.Uint("payment_id", payment.ID),
			zap.Error(err),
		)
		return nil, err
	}

	switch intent.Status {
	case gateway.IntentStatusSucceeded:
		if err := s.markCompleted(ctx, &payment, intent.ID); err != nil {
			return nil, err
		}
		logger.Info("payment completed",
			zap.Uint("payment_id", payment.ID),
			zap.String("intent_id", intent.ID),
		)
		return &PaymentResult{Payment: &payment}, nil

	case gateway.IntentStatusRequiresAction:
		// 看似终态但不是：保持 pending，把续作凭据交还客户端
		if err := s.db.WithContext(ctx).Model(&payment).Updates(map[string]any{
			"payment_intent_id": intent.ID,
			"transaction_id":    intent.ID,
		}).Error; err != nil {
			return nil, err
		}
		payment.PaymentIntentID = intent.ID
		payment.TransactionID = intent.ID
		return &PaymentResult{
			Payment:        &payment,
			RequiresAction: true,
			ClientSecret:   intent.ClientSecret,
		}, nil

	default:
		reason := "gateway status: " + intent.Status
		if err := s.markFailed(ctx, &payment, reason); err != nil {
			return nil, err
		}
		return &PaymentResult{Payment: &payment, FailureReason: reason}, nil
	}
}

// markCompleted 支付单完成 + 订单置已支付/处理中，三处状态一笔事务写入
func (s *paymentService) markCompleted(ctx context.Context, payment *model.Payment, intentID string) error {
	now := time.Now()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Payment{}).Where("id = ?", payment.ID).Updates(map[string]any{
			"status":            model.PaymentStatusCompleted,
			"payment_intent_id": intentID,
			"transaction_id":    intentID,
			"completed_at":      now,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&model.Order{}).Where("id = ?", payment.OrderID).Updates(map[string]any{
			"payment_status": model.OrderPaymentPaid,
			"order_status":   model.OrderStatusProcessing,
		}).Error
	})
	if err != nil {
		return err
	}
	payment.Status = model.PaymentStatusCompleted
	payment.PaymentIntentID = intentID
	payment.TransactionID = intentID
	payment.CompletedAt = &now
	return nil
}

func (s *paymentService) markFailed(ctx context.Context, payment *model.Payment, reason string) error {
	if err := s.db.WithContext(ctx).Model(&model.Payment{}).Where("id = ?", payment.ID).Updates(map[string]any{
		"status":         model.PaymentStatusFailed,
		"failure_reason": reason,
	}).Error; err != nil {
		return err
	}
	payment.Status = model.PaymentStatusFailed
	payment.FailureReason = reason
	return nil
}
