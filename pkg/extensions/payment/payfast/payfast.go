package payfast

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"log"
	"net/url"
	"strings"

	"github.com/flaboy/aira-giftcard/pkg/config"
	"github.com/flaboy/aira-giftcard/pkg/errors"
	"github.com/flaboy/aira-giftcard/pkg/extensions/payment/types"
	"github.com/flaboy/pin"
	"github.com/shopspring/decimal"
	"github.com/valyala/fasthttp"
)

// PayFast ITN（Instant Transaction Notification）渠道。
// 通知为form编码，签名为按接收顺序url编码后的MD5，另可回源二次确认。
type PayFast struct{}

func (p *PayFast) Init() error {
	log.Printf("PayFast payment provider initialized")
	return nil
}

func (p *PayFast) GetProviderName() string {
	return "payfast"
}

// Param 保留接收顺序的表单字段，签名依赖字段顺序
type Param struct {
	Key   string
	Value string
}

func (p *PayFast) VerifyNotification(c *pin.Context, path string) (*types.PaymentConfirmation, error) {
	raw, err := c.GetRawData()
	if err != nil {
		return nil, errors.ErrMalformedPayload
	}

	params, err := ParseOrderedForm(string(raw))
	if err != nil {
		return nil, errors.ErrMalformedPayload
	}

	conf, err := p.verifyITN(params)
	if err != nil {
		return nil, err
	}

	// 可选：回源到PayFast确认这条通知确实由网关发出
	if config.Config.PayFast.ValidateITN {
		if err := p.remoteValidate(string(raw)); err != nil {
			return nil, err
		}
	}

	return conf, nil
}

// verifyITN 校验签名与商户号，并提取规范化的支付确认
func (p *PayFast) verifyITN(params []Param) (*types.PaymentConfirmation, error) {
	fields := make(map[string]string, len(params))
	for _, param := range params {
		fields[param.Key] = param.Value
	}

	expected := Signature(params, config.Config.PayFast.Passphrase)
	received := fields["signature"]
	if received == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(received)) != 1 {
		log.Printf("PayFast ITN signature mismatch for payment %s", fields["pf_payment_id"])
		return nil, errors.ErrInvalidSignature
	}

	if config.Config.PayFast.MerchantID != "" && fields["merchant_id"] != config.Config.PayFast.MerchantID {
		return nil, errors.ErrInvalidMerchant
	}

	amount, err := decimal.NewFromString(fields["amount_gross"])
	if err != nil {
		amount = decimal.Zero
	}

	conf := &types.PaymentConfirmation{
		Provider:    "payfast",
		Reference:   fields["pf_payment_id"],
		Method:      "payfast",
		Status:      normalizeStatus(fields["payment_status"]),
		RawStatus:   fields["payment_status"],
		GrossAmount: amount,
		Currency:    currencyOrDefault(fields["currency"]),
		OrderNumber: fields["m_payment_id"],
	}

	// 批量下单的兄弟订单编号在custom_str1中以逗号分隔
	if bulk := strings.TrimSpace(fields["custom_str1"]); bulk != "" {
		for _, number := range strings.Split(bulk, ",") {
			if number = strings.TrimSpace(number); number != "" {
				conf.BulkOrderNumbers = append(conf.BulkOrderNumbers, number)
			}
		}
	}

	return conf, nil
}

// Signature 按接收顺序对字段url编码拼接后取MD5，signature字段本身除外
func Signature(params []Param, passphrase string) string {
	var sb strings.Builder
	for _, param := range params {
		if param.Key == "signature" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(param.Key)
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(param.Value))
	}
	if passphrase != "" {
		sb.WriteString("&passphrase=")
		sb.WriteString(url.QueryEscape(passphrase))
	}

	sum := md5.Sum([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

// ParseOrderedForm 解析form编码体并保留字段顺序
func ParseOrderedForm(body string) ([]Param, error) {
	params := make([]Param, 0, 16)
	for _, pair := range strings.Split(body, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		decodedKey, err := url.QueryUnescape(key)
		if err != nil {
			return nil, err
		}
		decodedValue, err := url.QueryUnescape(value)
		if err != nil {
			return nil, err
		}
		params = append(params, Param{Key: decodedKey, Value: decodedValue})
	}
	return params, nil
}

// remoteValidate 把原始通知体原样POST回PayFast校验接口，应答必须是VALID
func (p *PayFast) remoteValidate(body string) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI("https://" + config.Config.PayFast.Host + "/eng/query/validate")
	req.Header.SetMethod("POST")
	req.Header.SetContentType("application/x-www-form-urlencoded")
	req.SetBodyString(body)

	if err := fasthttp.Do(req, resp); err != nil {
		log.Printf("PayFast validate request failed: %v", err)
		return errors.ErrRemoteValidateFailed
	}

	if resp.StatusCode() != 200 || !strings.HasPrefix(strings.TrimSpace(string(resp.Body())), "VALID") {
		log.Printf("PayFast validate rejected notification, status code: %d", resp.StatusCode())
		return errors.ErrRemoteValidateFailed
	}

	return nil
}

func normalizeStatus(status string) string {
	switch strings.ToUpper(status) {
	case "COMPLETE":
		return types.StatusComplete
	case "FAILED":
		return types.StatusFailed
	case "CANCELLED":
		return types.StatusCancelled
	default:
		return types.StatusPending
	}
}

func currencyOrDefault(currency string) string {
	if currency == "" {
		return "ZAR"
	}
	return strings.ToUpper(currency)
}
