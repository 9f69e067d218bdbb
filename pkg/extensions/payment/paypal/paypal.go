package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"strings"

	"github.com/flaboy/aira-giftcard/pkg/config"
	"github.com/flaboy/aira-giftcard/pkg/errors"
	"github.com/flaboy/aira-giftcard/pkg/extensions/payment/types"
	"github.com/flaboy/pin"
	"github.com/plutov/paypal/v4"
	"github.com/shopspring/decimal"
)

type PayPal struct {
	client *paypal.Client
}

// Init 初始化PayPal客户端
func (p *PayPal) Init() error {
	client, err := paypal.NewClient(
		config.Config.PayPal.ClientID,
		config.Config.PayPal.ClientSecret,
		paypal.APIBaseSandBox,
	)
	if err != nil {
		return err
	}

	// 获取访问令牌
	_, err = client.GetAccessToken(context.Background())
	if err != nil {
		return err
	}

	p.client = client
	log.Printf("PayPal payment provider initialized successfully")
	return nil
}

func (p *PayPal) GetProviderName() string {
	return "paypal"
}

// webhookEnvelope PayPal webhook事件的最小载荷
type webhookEnvelope struct {
	ID        string `json:"id"`
	EventType string `json:"event_type"`
	Resource  struct {
		ID        string `json:"id"`
		Status    string `json:"status"`
		InvoiceID string `json:"invoice_id"` // 结账时写入的订单编号
		CustomID  string `json:"custom_id"`  // 批量下单的兄弟订单编号列表
		Amount    *struct {
			CurrencyCode string `json:"currency_code"`
			Value        string `json:"value"`
		} `json:"amount"`
	} `json:"resource"`
}

func (p *PayPal) VerifyNotification(c *pin.Context, path string) (*types.PaymentConfirmation, error) {
	switch {
	case path == "webhook" || strings.HasPrefix(path, "webhook"):
		return p.verifyWebhook(c)
	case strings.HasPrefix(path, "callback"):
		return p.verifyCallback(c)
	default:
		return nil, errors.ErrMalformedPayload
	}
}

// verifyWebhook 通过PayPal的签名校验API确认webhook真实性后提取结论。
// 没有WebhookID就无法建立真实性，直接拒绝，不能放行。
func (p *PayPal) verifyWebhook(c *pin.Context) (*types.PaymentConfirmation, error) {
	webhookID := config.Config.PayPal.WebhookID
	if webhookID == "" {
		log.Printf("PayPal webhook rejected: webhook id not configured")
		return nil, errors.ErrInvalidSignature
	}

	raw, err := c.GetRawData()
	if err != nil {
		return nil, errors.ErrMalformedPayload
	}
	// 签名校验会再次读取请求体
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))

	verify, err := p.client.VerifyWebhookSignature(context.Background(), c.Request, webhookID)
	if err != nil {
		log.Printf("PayPal webhook signature verification failed: %v", err)
		return nil, errors.ErrInvalidSignature
	}
	if verify.VerificationStatus != "SUCCESS" {
		log.Printf("PayPal webhook signature not verified: %s", verify.VerificationStatus)
		return nil, errors.ErrInvalidSignature
	}

	var envelope webhookEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, errors.ErrMalformedPayload
	}

	return ExtractConfirmation(&envelope), nil
}

// verifyCallback 用户从PayPal跳回的同步回调。跳转参数一律不信任：
// 取消与否都回源查订单，结论从订单对象提取。
func (p *PayPal) verifyCallback(c *pin.Context) (*types.PaymentConfirmation, error) {
	orderNumber := c.Query("m_payment_id")
	externalOrderID := c.Query("token")

	if externalOrderID == "" {
		return nil, errors.ErrMalformedPayload
	}

	order, err := p.client.GetOrder(context.Background(), externalOrderID)
	if err != nil {
		log.Printf("Failed to get PayPal order %s: %v", externalOrderID, err)
		return nil, errors.ErrRemoteValidateFailed
	}

	conf := confirmationFromOrder(order, orderNumber)
	if c.Query("action") == "cancel" {
		markCancelled(conf)
	}
	return conf, nil
}

// confirmationFromOrder 从回源取到的订单对象提取规范化确认
func confirmationFromOrder(order *paypal.Order, orderNumber string) *types.PaymentConfirmation {
	conf := &types.PaymentConfirmation{
		Provider:    "paypal",
		Reference:   order.ID,
		Method:      "paypal",
		Status:      normalizeOrderStatus(order.Status),
		RawStatus:   order.Status,
		OrderNumber: orderNumber,
	}

	if len(order.PurchaseUnits) > 0 {
		unit := order.PurchaseUnits[0]
		if conf.OrderNumber == "" {
			conf.OrderNumber = unit.InvoiceID
		}
		conf.BulkOrderNumbers = splitOrderNumbers(unit.CustomID)
		if unit.Amount != nil {
			conf.Currency = unit.Amount.Currency
			if amount, err := decimal.NewFromString(unit.Amount.Value); err == nil {
				conf.GrossAmount = amount
			}
		}
	}

	return conf
}

// markCancelled 把未完成的订单结论改写为用户取消。
// 回源已确认完成的订单不因带cancel参数的跳转而失败。
func markCancelled(conf *types.PaymentConfirmation) {
	if conf.Status == types.StatusComplete {
		return
	}
	conf.Status = types.StatusCancelled
	conf.RawStatus = "CANCELLED_BY_USER"
}

// ExtractConfirmation 把webhook载荷转换为规范化的支付确认
func ExtractConfirmation(envelope *webhookEnvelope) *types.PaymentConfirmation {
	conf := &types.PaymentConfirmation{
		Provider:         "paypal",
		Reference:        envelope.Resource.ID,
		Method:           "paypal",
		RawStatus:        envelope.Resource.Status,
		OrderNumber:      envelope.Resource.InvoiceID,
		BulkOrderNumbers: splitOrderNumbers(envelope.Resource.CustomID),
	}

	switch envelope.EventType {
	case "PAYMENT.CAPTURE.COMPLETED":
		conf.Status = types.StatusComplete
	case "PAYMENT.CAPTURE.DENIED", "PAYMENT.CAPTURE.DECLINED":
		conf.Status = types.StatusFailed
	default:
		conf.Status = types.StatusPending
	}

	if envelope.Resource.Amount != nil {
		conf.Currency = envelope.Resource.Amount.CurrencyCode
		if amount, err := decimal.NewFromString(envelope.Resource.Amount.Value); err == nil {
			conf.GrossAmount = amount
		}
	}

	return conf
}

func normalizeOrderStatus(status string) string {
	switch status {
	case "COMPLETED":
		return types.StatusComplete
	case "VOIDED":
		return types.StatusFailed
	default:
		return types.StatusPending
	}
}

func splitOrderNumbers(value string) []string {
	var numbers []string
	for _, number := range strings.Split(value, ",") {
		if number = strings.TrimSpace(number); number != "" {
			numbers = append(numbers, number)
		}
	}
	return numbers
}
