package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/gin-storefront/config"
)

func testClient(t *testing.T, handler http.HandlerFunc) *StripeClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewStripeClient(config.GatewayConfig{
		BaseURL:   srv.URL,
		SecretKey: "sk_test_x",
		ReturnURL: "https://shop.example.com/return",
		Timeout:   5 * time.Second,
	})
}

func TestCreatePaymentIntentSucceeded(t *testing.T) {
	var gotForm map[string]string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/payment_intents", r.URL.Path)
		require.Equal(t, "Bearer sk_test_x", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"amount":         r.PostForm.Get("amount"),
			"currency":       r.PostForm.Get("currency"),
			"payment_method": r.PostForm.Get("payment_method"),
			"confirm":        r.PostForm.Get("confirm"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pi_123","status":"succeeded","client_secret":"pi_123_secret"}`))
	})

	intent, err := client.CreatePaymentIntent(context.Background(), IntentRequest{
		AmountMinor:   141600,
		Currency:      "INR",
		PaymentMethod: "pm_card",
	})
	require.NoError(t, err)
	assert.Equal(t, "pi_123", intent.ID)
	assert.Equal(t, IntentStatusSucceeded, intent.Status)

	// 表单字段：金额为最小货币单位，币种小写
	assert.Equal(t, "141600", gotForm["amount"])
	assert.Equal(t, "inr", gotForm["currency"])
	assert.Equal(t, "pm_card", gotForm["payment_method"])
	assert.Equal(t, "true", gotForm["confirm"])
}

func TestCreatePaymentIntentDeclined(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"code":"card_declined","message":"Your card was declined."}}`))
	})

	_, err := client.CreatePaymentIntent(context.Background(), IntentRequest{
		AmountMinor:   5000,
		Currency:      "INR",
		PaymentMethod: "pm_card",
	})
	var decline *DeclineError
	require.ErrorAs(t, err, &decline)
	assert.Equal(t, "card_declined", decline.Code)
	assert.Contains(t, decline.Message, "declined")
}

func TestCreatePaymentIntentMalformedResponse(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	})

	_, err := client.CreatePaymentIntent(context.Background(), IntentRequest{
		AmountMinor:   5000,
		Currency:      "INR",
		PaymentMethod: "pm_card",
	})
	require.Error(t, err)
	// 解析不出的应答不是拒绝，调用方保持可重试
	var decline *DeclineError
	assert.False(t, errors.As(err, &decline))
}

func TestCreatePaymentIntentTransportError(t *testing.T) {
	client := NewStripeClient(config.GatewayConfig{
		BaseURL:   "http://127.0.0.1:1",
		SecretKey: "sk_test_x",
		Timeout:   time.Second,
	})

	_, err := client.CreatePaymentIntent(context.Background(), IntentRequest{
		AmountMinor:   5000,
		Currency:      "INR",
		PaymentMethod: "pm_card",
	})
	require.Error(t, err)
	var decline *DeclineError
	assert.False(t, errors.As(err, &decline))
}
