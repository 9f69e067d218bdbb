package paypal

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/flaboy/aira-giftcard/pkg/config"
	"github.com/flaboy/aira-giftcard/pkg/errors"
	"github.com/flaboy/aira-giftcard/pkg/extensions/payment/types"
	"github.com/flaboy/pin"
	"github.com/plutov/paypal/v4"
)

func envelopeFromJSON(t *testing.T, payload string) *webhookEnvelope {
	t.Helper()
	var envelope webhookEnvelope
	require.NoError(t, json.Unmarshal([]byte(payload), &envelope))
	return &envelope
}

func TestExtractConfirmationCaptureCompleted(t *testing.T) {
	envelope := envelopeFromJSON(t, `{
		"id": "WH-1",
		"event_type": "PAYMENT.CAPTURE.COMPLETED",
		"resource": {
			"id": "CAP-1",
			"status": "COMPLETED",
			"invoice_id": "ORD-1",
			"custom_id": "ORD-1,ORD-2",
			"amount": {"currency_code": "USD", "value": "150.00"}
		}
	}`)

	conf := ExtractConfirmation(envelope)
	require.Equal(t, "paypal", conf.Provider)
	require.Equal(t, "CAP-1", conf.Reference)
	require.Equal(t, types.StatusComplete, conf.Status)
	require.Equal(t, "ORD-1", conf.OrderNumber)
	require.Equal(t, []string{"ORD-1", "ORD-2"}, conf.BulkOrderNumbers)
	require.Equal(t, "USD", conf.Currency)
	require.Equal(t, "150", conf.GrossAmount.String())
}

func TestExtractConfirmationCaptureDenied(t *testing.T) {
	envelope := envelopeFromJSON(t, `{
		"event_type": "PAYMENT.CAPTURE.DENIED",
		"resource": {"id": "CAP-2", "status": "DENIED", "invoice_id": "ORD-9"}
	}`)

	conf := ExtractConfirmation(envelope)
	require.Equal(t, types.StatusFailed, conf.Status)
	require.False(t, conf.Complete())
}

func TestExtractConfirmationUnknownEventIsPending(t *testing.T) {
	envelope := envelopeFromJSON(t, `{
		"event_type": "CHECKOUT.ORDER.APPROVED",
		"resource": {"id": "ORDER-3", "invoice_id": "ORD-3"}
	}`)

	conf := ExtractConfirmation(envelope)
	require.Equal(t, types.StatusPending, conf.Status)
	require.False(t, conf.Complete())
}

func webhookContext(t *testing.T, body string) *pin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ginCtx, _ := gin.CreateTestContext(httptest.NewRecorder())
	req := httptest.NewRequest("POST", "/payment/paypal/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	ginCtx.Request = req
	return &pin.Context{Context: ginCtx}
}

func TestWebhookRejectedWithoutWebhookID(t *testing.T) {
	cfg := &config.CommenceConfig{}
	cfg.PayPal.ClientID = "client-id"
	config.Config = cfg

	p := &PayPal{}
	c := webhookContext(t, `{
		"event_type": "PAYMENT.CAPTURE.COMPLETED",
		"resource": {"id": "CAP-FORGED", "status": "COMPLETED", "invoice_id": "ORD-1"}
	}`)

	// 未配置WebhookID时无法校验签名，伪造的完成事件必须被拒绝
	conf, err := p.verifyWebhook(c)
	require.ErrorIs(t, err, errors.ErrInvalidSignature)
	require.Nil(t, conf)
}

func TestConfirmationFromOrder(t *testing.T) {
	order := &paypal.Order{
		ID:     "EXT-1",
		Status: "COMPLETED",
		PurchaseUnits: []paypal.PurchaseUnit{{
			InvoiceID: "ORD-1",
			CustomID:  "ORD-1,ORD-2",
			Amount:    &paypal.PurchaseUnitAmount{Currency: "USD", Value: "150.00"},
		}},
	}

	conf := confirmationFromOrder(order, "")
	require.Equal(t, "EXT-1", conf.Reference)
	require.Equal(t, types.StatusComplete, conf.Status)
	require.Equal(t, "ORD-1", conf.OrderNumber)
	require.Equal(t, []string{"ORD-1", "ORD-2"}, conf.BulkOrderNumbers)
	require.Equal(t, "USD", conf.Currency)
	require.Equal(t, "150", conf.GrossAmount.String())
}

func TestMarkCancelledOverridesPendingOnly(t *testing.T) {
	pending := &types.PaymentConfirmation{Status: types.StatusPending, RawStatus: "CREATED"}
	markCancelled(pending)
	require.Equal(t, types.StatusCancelled, pending.Status)
	require.Equal(t, "CANCELLED_BY_USER", pending.RawStatus)

	// 回源已确认完成的订单不因取消跳转而失败
	complete := &types.PaymentConfirmation{Status: types.StatusComplete, RawStatus: "COMPLETED"}
	markCancelled(complete)
	require.Equal(t, types.StatusComplete, complete.Status)
	require.Equal(t, "COMPLETED", complete.RawStatus)
}

func TestNormalizeOrderStatus(t *testing.T) {
	require.Equal(t, types.StatusComplete, normalizeOrderStatus("COMPLETED"))
	require.Equal(t, types.StatusFailed, normalizeOrderStatus("VOIDED"))
	require.Equal(t, types.StatusPending, normalizeOrderStatus("CREATED"))
}
