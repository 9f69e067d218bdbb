package payment

import (
	"github.com/flaboy/aira-giftcard/pkg/config"
	"github.com/flaboy/aira-giftcard/pkg/extensions/payment/payfast"
	"github.com/flaboy/aira-giftcard/pkg/extensions/payment/paypal"
	"github.com/flaboy/aira-giftcard/pkg/extensions/payment/shopify"
	"github.com/flaboy/aira-giftcard/pkg/extensions/payment/types"
	"github.com/flaboy/pin"
)

type PaymentProvider interface {
	// 验证回调真实性并提取规范化的支付确认 - 纯提取，无任何副作用。
	// 验证失败返回错误；验证通过但状态非完成的回调照常返回，由对账引擎决定丢弃。
	VerifyNotification(c *pin.Context, path string) (*types.PaymentConfirmation, error)

	// 资源初始化
	Init() error

	// 获取渠道名称
	GetProviderName() string
}

func Get(provider string) PaymentProvider {
	return paymentProviders[provider]
}

var paymentProviders map[string]PaymentProvider

// Register 按渠道名登记支付渠道，宿主系统可追加自有渠道
func Register(provider PaymentProvider) {
	if paymentProviders == nil {
		paymentProviders = make(map[string]PaymentProvider)
	}
	paymentProviders[provider.GetProviderName()] = provider
}

func Init() {
	paymentProviders = make(map[string]PaymentProvider)
	Register(&payfast.PayFast{})
	if config.Config.PayPal.ClientID != "" {
		Register(&paypal.PayPal{})
	}
	if config.Config.Shopify.Enabled {
		Register(&shopify.Shopify{})
	}

	for _, provider := range paymentProviders {
		if err := provider.Init(); err != nil {
			panic(err)
		}
	}
}

// GetAvailableProviders 获取所有可用的支付渠道
func GetAvailableProviders() []string {
	providers := make([]string, 0, len(paymentProviders))
	for name := range paymentProviders {
		providers = append(providers, name)
	}
	return providers
}
