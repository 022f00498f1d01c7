package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 支付方式
const (
	PaymentMethodStripe         = "stripe"
	PaymentMethodRazorpay       = "razorpay"
	PaymentMethodPaypal         = "paypal"
	PaymentMethodCard           = "card"
	PaymentMethodCashOnDelivery = "cash_on_delivery"
)

// 支付状态
const (
	PaymentStatusPending    = "pending"
	PaymentStatusProcessing = "processing"
	PaymentStatusCompleted  = "completed"
	PaymentStatusFailed     = "failed"
	PaymentStatusCancelled  = "cancelled"
	PaymentStatusRefunded   = "refunded"
)

// Payment 支付单，与订单一对一。amount 在创建时等于订单 total_amount。
// completed_at 仅在支付成功时写入。
type Payment struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	OrderID       uint            `json:"order" gorm:"uniqueIndex;not null"`
	Order         Order           `json:"-" gorm:"foreignKey:OrderID"`
	PaymentMethod string          `json:"payment_method" gorm:"type:varchar(20);not null"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:decimal(10,2);not null"`
	Currency      string          `json:"currency" gorm:"type:varchar(3);not null;default:INR"`

	// 网关侧关联标识
	TransactionID   string `json:"transaction_id" gorm:"type:varchar(100)"`
	PaymentIntentID string `json:"payment_intent_id" gorm:"type:varchar(100)"`

	Status        string `json:"status" gorm:"type:varchar(20);not null;default:pending;index"`
	FailureReason string `json:"failure_reason" gorm:"type:text"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

func (Payment) TableName() string { return "payments" }
