package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/d60-Lab/gin-storefront/config"
)

// StripeClient Stripe 风格的 payment_intents 客户端。
// 配置在启动时注入，不读全局状态。
type StripeClient struct {
	cfg    config.GatewayConfig
	http   *http.Client
	tracer trace.Tracer
}

func NewStripeClient(cfg config.GatewayConfig) *StripeClient {
	return &StripeClient{
		cfg: cfg,
		http: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
			},
		},
		tracer: otel.Tracer("gateway/stripe"),
	}
}

type intentResponse struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	ClientSecret string `json:"client_secret"`
	Error        *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreatePaymentIntent 创建并立即确认一笔支付意图。
// 网关 4xx 视为拒绝（DeclineError），传输失败原样上抛。
func (c *StripeClient) CreatePaymentIntent(ctx context.Context, reqBody IntentRequest) (*Intent, error) {
	ctx, span := c.tracer.Start(ctx, "gateway.create_payment_intent", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(reqBody.AmountMinor, 10))
	form.Set("currency", strings.ToLower(reqBody.Currency))
	form.Set("payment_method", reqBody.PaymentMethod)
	form.Set("confirmation_method", "manual")
	form.Set("confirm", "true")
	form.Set("return_url", c.cfg.ReturnURL)

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1/payment_intents"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)

	span.SetAttributes(
		attribute.String("http.url", endpoint),
		attribute.Int64("payment.amount_minor", reqBody.AmountMinor),
		attribute.String("payment.currency", reqBody.Currency),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	var parsed intentResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("gateway returned malformed response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode >= 400 {
		decline := &DeclineError{Message: fmt.Sprintf("gateway status %d", resp.StatusCode)}
		if parsed.Error != nil {
			decline.Code = parsed.Error.Code
			decline.Message = parsed.Error.Message
		}
		span.SetStatus(codes.Error, decline.Message)
		return nil, decline
	}

	return &Intent{
		ID:           parsed.ID,
		Status:       parsed.Status,
		ClientSecret: parsed.ClientSecret,
	}, nil
}
