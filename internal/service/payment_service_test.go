package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/gin-storefront/internal/gateway"
	"github.com/d60-Lab/gin-storefront/internal/model"
)

// fakeGateway 脚本化网关：按预置结果应答并记录收到的请求
type fakeGateway struct {
	intent  *gateway.Intent
	err     error
	lastReq gateway.IntentRequest
	calls   int
}

func (f *fakeGateway) CreatePaymentIntent(_ context.Context, req gateway.IntentRequest) (*gateway.Intent, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.intent, nil
}

func seedPendingPayment(t *testing.T, db *gorm.DB, userID uint, amount string) *model.Payment {
	t.Helper()
	order := &model.Order{
		UserID:               userID,
		OrderNumber:          fmt.Sprintf("ORD-TEST%04d", testDBSeq.Add(1)),
		ShippingName:         "Asha Rao",
		ShippingEmail:        "asha@example.com",
		ShippingPhone:        "+91 98765 43210",
		ShippingAddressLine1: "12 MG Road",
		ShippingCity:         "Bengaluru",
		ShippingState:        "Karnataka",
		ShippingPostalCode:   "560001",
		ShippingCountry:      "India",
		Subtotal:             dec(t, amount),
		TotalAmount:          dec(t, amount),
		OrderStatus:          model.OrderStatusPending,
		PaymentStatus:        model.OrderPaymentPending,
	}
	require.NoError(t, db.Create(order).Error)
	payment := &model.Payment{
		OrderID:       order.ID,
		PaymentMethod: model.PaymentMethodStripe,
		Amount:        dec(t, amount),
		Currency:      "INR",
		Status:        model.PaymentStatusPending,
	}
	require.NoError(t, db.Create(payment).Error)
	return payment
}

func TestProcessPaymentSucceeded(t *testing.T) {
	db := testDB(t)
	gw := &fakeGateway{intent: &gateway.Intent{ID: "pi_123", Status: gateway.IntentStatusSucceeded}}
	svc := NewPaymentService(db, gw)
	payment := seedPendingPayment(t, db, 1, "1416.00")

	result, err := svc.Process(context.Background(), 1, payment.ID, "pm_card")
	require.NoError(t, err)
	assert.False(t, result.RequiresAction)
	assert.Equal(t, model.PaymentStatusCompleted, result.Payment.Status)
	assert.NotNil(t, result.Payment.CompletedAt)

	// 金额换算到最小货币单位
	assert.EqualValues(t, 141600, gw.lastReq.AmountMinor)
	assert.Equal(t, "INR", gw.lastReq.Currency)

	// 订单同笔事务置已支付/处理中
	var order model.Order
	require.NoError(t, db.First(&order, payment.OrderID).Error)
	assert.Equal(t, model.OrderPaymentPaid, order.PaymentStatus)
	assert.Equal(t, model.OrderStatusProcessing, order.OrderStatus)

	var fresh model.Payment
	require.NoError(t, db.First(&fresh, payment.ID).Error)
	assert.Equal(t, "pi_123", fresh.PaymentIntentID)
	assert.NotNil(t, fresh.CompletedAt)
}

func TestProcessPaymentDeclined(t *testing.T) {
	db := testDB(t)
	gw := &fakeGateway{err: &gateway.DeclineError{Code: "card_declined", Message: "insufficient funds"}}
	svc := NewPaymentService(db, gw)
	payment := seedPendingPayment(t, db, 1, "500.00")

	// 网关拒绝是业务结果,不是 error：支付单置 failed,订单保持未支付
	result, err := svc.Process(context.Background(), 1, payment.ID, "pm_card")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusFailed, result.Payment.Status)
	assert.Contains(t, result.FailureReason, "card_declined")

	var order model.Order
	require.NoError(t, db.First(&order, payment.OrderID).Error)
	assert.Equal(t, model.OrderPaymentPending, order.PaymentStatus)
	assert.Equal(t, model.OrderStatusPending, order.OrderStatus)
}

func TestProcessPaymentRequiresAction(t *testing.T) {
	db := testDB(t)
	gw := &fakeGateway{intent: &gateway.Intent{
		ID:           "pi_3ds",
		Status:       gateway.IntentStatusRequiresAction,
		ClientSecret: "pi_3ds_secret_x",
	}}
	svc := NewPaymentService(db, gw)
	payment := seedPendingPayment(t, db, 1, "500.00")

	result, err := svc.Process(context.Background(), 1, payment.ID, "pm_card")
	require.NoError(t, err)
	assert.True(t, result.RequiresAction)
	assert.Equal(t, "pi_3ds_secret_x", result.ClientSecret)

	// 支付单保持 pending，但意图标识已记下
	var fresh model.Payment
	require.NoError(t, db.First(&fresh, payment.ID).Error)
	assert.Equal(t, model.PaymentStatusPending, fresh.Status)
	assert.Equal(t, "pi_3ds", fresh.PaymentIntentID)
}

func TestProcessPaymentTransportErrorKeepsPending(t *testing.T) {
	db := testDB(t)
	gw := &fakeGateway{err: errors.New("connection reset")}
	svc := NewPaymentService(db, gw)
	payment := seedPendingPayment(t, db, 1, "500.00")

	// 传输层失败：错误上抛,状态原封不动,可安全重试
	_, err := svc.Process(context.Background(), 1, payment.ID, "pm_card")
	require.Error(t, err)

	var fresh model.Payment
	require.NoError(t, db.First(&fresh, payment.ID).Error)
	assert.Equal(t, model.PaymentStatusPending, fresh.Status)
	assert.Empty(t, fresh.FailureReason)
}

func TestProcessPaymentDuplicateConfirmRejected(t *testing.T) {
	db := testDB(t)
	gw := &fakeGateway{intent: &gateway.Intent{ID: "pi_123", Status: gateway.IntentStatusSucceeded}}
	svc := NewPaymentService(db, gw)
	payment := seedPendingPayment(t, db, 1, "500.00")

	_, err := svc.Process(context.Background(), 1, payment.ID, "pm_card")
	require.NoError(t, err)

	// 已完成的支付单拒绝再次确认，且不再触网关
	_, err = svc.Process(context.Background(), 1, payment.ID, "pm_card")
	assert.ErrorIs(t, err, ErrPaymentCompleted)
	assert.Equal(t, 1, gw.calls)
}

func TestProcessPaymentOwnershipEnforced(t *testing.T) {
	db := testDB(t)
	gw := &fakeGateway{intent: &gateway.Intent{ID: "pi_123", Status: gateway.IntentStatusSucceeded}}
	svc := NewPaymentService(db, gw)
	payment := seedPendingPayment(t, db, 1, "500.00")

	_, err := svc.Process(context.Background(), 2, payment.ID, "pm_card")
	assert.ErrorIs(t, err, ErrPaymentNotFound)
	assert.Equal(t, 0, gw.calls)
}

func TestProcessPaymentUnexpectedGatewayStatus(t *testing.T) {
	db := testDB(t)
	gw := &fakeGateway{intent: &gateway.Intent{ID: "pi_123", Status: "processing"}}
	svc := NewPaymentService(db, gw)
	payment := seedPendingPayment(t, db, 1, "500.00")

	result, err := svc.Process(context.Background(), 1, payment.ID, "pm_card")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusFailed, result.Payment.Status)
	assert.Contains(t, result.FailureReason, "processing")
}
