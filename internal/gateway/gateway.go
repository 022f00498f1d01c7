package gateway

import "context"

// 网关侧意图状态
const (
	IntentStatusSucceeded      = "succeeded"
	IntentStatusRequiresAction = "requires_action"
)

// IntentRequest 创建并确认一笔支付意图。金额为最小货币单位（如 paise）。
type IntentRequest struct {
	AmountMinor   int64
	Currency      string
	PaymentMethod string
}

// Intent 网关返回的意图。requires_action 时 ClientSecret 交给客户端续作。
type Intent struct {
	ID           string
	Status       string
	ClientSecret string
}

// Client 支付网关客户端契约。实现只负责一次"创建并确认"调用，
// 超时边界由调用方通过 ctx 控制。
type Client interface {
	CreatePaymentIntent(ctx context.Context, req IntentRequest) (*Intent, error)
}

// DeclineError 网关明确拒绝（卡被拒、余额不足等），携带网关给出的原因。
// 区别于传输层错误：拒绝是业务结果，传输失败时支付单保持 pending 可重试。
type DeclineError struct {
	Code    string
	Message string
}

func (e *DeclineError) Error() string {
	if e.Code != "" {
		return e.Code + ": " + e.Message
	}
	return e.Message
}
