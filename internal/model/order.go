package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 订单状态流转 pending → processing → shipped → delivered，或 cancelled
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// 订单支付状态
const (
	OrderPaymentPending  = "pending"
	OrderPaymentPaid     = "paid"
	OrderPaymentFailed   = "failed"
	OrderPaymentRefunded = "refunded"
)

// Order 订单头。金额字段在创建时一次性落库，之后不随商品价变动。
type Order struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	UserID      uint   `json:"user" gorm:"index:idx_order_user_created;not null"`
	OrderNumber string `json:"order_number" gorm:"type:varchar(50);uniqueIndex;not null"`

	// 收货信息快照
	ShippingName         string `json:"shipping_name" gorm:"type:varchar(100);not null"`
	ShippingEmail        string `json:"shipping_email" gorm:"type:varchar(254);not null"`
	ShippingPhone        string `json:"shipping_phone" gorm:"type:varchar(20);not null"`
	ShippingAddressLine1 string `json:"shipping_address_line1" gorm:"type:varchar(255);not null"`
	ShippingAddressLine2 string `json:"shipping_address_line2" gorm:"type:varchar(255)"`
	ShippingCity         string `json:"shipping_city" gorm:"type:varchar(100);not null"`
	ShippingState        string `json:"shipping_state" gorm:"type:varchar(100);not null"`
	ShippingPostalCode   string `json:"shipping_postal_code" gorm:"type:varchar(20);not null"`
	ShippingCountry      string `json:"shipping_country" gorm:"type:varchar(100);not null;default:India"`

	// 金额明细
	Subtotal       decimal.Decimal `json:"subtotal" gorm:"type:decimal(10,2);not null"`
	DiscountAmount decimal.Decimal `json:"discount_amount" gorm:"type:decimal(10,2);not null;default:0"`
	CouponID       *uint           `json:"coupon"`
	Coupon         *Coupon         `json:"-" gorm:"foreignKey:CouponID"`
	TaxAmount      decimal.Decimal `json:"tax_amount" gorm:"type:decimal(10,2);not null;default:0"`
	ShippingCost   decimal.Decimal `json:"shipping_cost" gorm:"type:decimal(10,2);not null;default:0"`
	TotalAmount    decimal.Decimal `json:"total_amount" gorm:"type:decimal(10,2);not null"`

	OrderStatus   string `json:"order_status" gorm:"type:varchar(20);not null;default:pending;index"`
	PaymentStatus string `json:"payment_status" gorm:"type:varchar(20);not null;default:pending"`

	Items []OrderItem `json:"items" gorm:"foreignKey:OrderID"`

	CreatedAt   time.Time  `json:"created_at" gorm:"index:idx_order_user_created"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ShippedAt   *time.Time `json:"shipped_at"`
	DeliveredAt *time.Time `json:"delivered_at"`
}

func (Order) TableName() string { return "orders" }

// OrderItem 订单行。price 为下单时点的单价快照，创建后永不回写。
type OrderItem struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	OrderID   uint            `json:"-" gorm:"index;not null"`
	ProductID uint            `json:"product" gorm:"not null"`
	Product   Product         `json:"-" gorm:"foreignKey:ProductID"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Total     decimal.Decimal `json:"total" gorm:"type:decimal(10,2);not null"`
}

func (OrderItem) TableName() string { return "order_items" }
