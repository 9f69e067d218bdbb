package shopify

import (
	"encoding/json"
	"log"
	"strings"

	"github.com/flaboy/aira-giftcard/pkg/config"
	"github.com/flaboy/aira-giftcard/pkg/errors"
	"github.com/flaboy/aira-giftcard/pkg/extensions/payment/types"
	"github.com/flaboy/pin"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	shopify "github.com/bold-commerce/go-shopify/v4"
)

var app *shopify.App

// Shopify 店铺内购的orders/paid webhook，按应用密钥做HMAC校验
type Shopify struct{}

func (p *Shopify) Init() error {
	app = &shopify.App{
		ApiKey:    config.Config.Shopify.ApiKey,
		ApiSecret: config.Config.Shopify.ApiSecret,
	}
	log.Printf("Shopify payment provider initialized")
	return nil
}

func (p *Shopify) GetProviderName() string {
	return "shopify"
}

// webhookOrder Shopify订单webhook的最小载荷
type webhookOrder struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"` // 订单编号
	FinancialStatus string `json:"financial_status"`
	TotalPrice      string `json:"total_price"`
	Currency        string `json:"currency"`
	Gateway         string `json:"gateway"`
	NoteAttributes  []struct {
		Name  string      `json:"name"`
		Value interface{} `json:"value"`
	} `json:"note_attributes"`
}

func (p *Shopify) VerifyNotification(c *pin.Context, path string) (*types.PaymentConfirmation, error) {
	raw, err := c.GetRawData()
	if err != nil {
		return nil, errors.ErrMalformedPayload
	}

	messageMAC := c.GetHeader("X-Shopify-Hmac-Sha256")
	if messageMAC == "" || !app.VerifyMessage(string(raw), messageMAC) {
		log.Printf("Shopify webhook HMAC verification failed")
		return nil, errors.ErrInvalidSignature
	}

	if topic := c.GetHeader("X-Shopify-Topic"); topic != "" && topic != "orders/paid" && topic != "orders/updated" {
		return nil, errors.ErrMalformedPayload
	}

	var order webhookOrder
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, errors.ErrMalformedPayload
	}

	status := types.StatusPending
	if order.FinancialStatus == "paid" {
		status = types.StatusComplete
	} else if order.FinancialStatus == "voided" {
		status = types.StatusFailed
	}

	amount, err := decimal.NewFromString(order.TotalPrice)
	if err != nil {
		amount = decimal.Zero
	}

	conf := &types.PaymentConfirmation{
		Provider:    "shopify",
		Reference:   cast.ToString(order.ID),
		Method:      order.Gateway,
		Status:      status,
		RawStatus:   order.FinancialStatus,
		GrossAmount: amount,
		Currency:    strings.ToUpper(order.Currency),
		OrderNumber: order.Name,
	}

	// 批量下单的兄弟订单编号由结账流程写入note attribute
	for _, attr := range order.NoteAttributes {
		if attr.Name != "bulk_order_numbers" {
			continue
		}
		for _, number := range strings.Split(cast.ToString(attr.Value), ",") {
			if number = strings.TrimSpace(number); number != "" {
				conf.BulkOrderNumbers = append(conf.BulkOrderNumbers, number)
			}
		}
	}

	return conf, nil
}
