package config

type CommenceConfig struct {
	Database struct {
		Driver string `cfg:"DRIVER" default:"mysql"`
		DSN    string `cfg:"DSN"`
	} `cfg:"DATABASE"`

	// 支付服务配置
	PayFast struct {
		MerchantID  string `cfg:"MERCHANT_ID"`
		MerchantKey string `cfg:"MERCHANT_KEY"`
		Passphrase  string `cfg:"PASSPHRASE"`
		// 是否回源到PayFast服务器二次确认ITN
		ValidateITN bool   `cfg:"VALIDATE_ITN" default:"false"`
		Host        string `cfg:"HOST" default:"www.payfast.co.za"`
	} `cfg:"PAYFAST"`

	PayPal struct {
		ClientID     string `cfg:"CLIENT_ID"`
		ClientSecret string `cfg:"CLIENT_SECRET"`
		WebhookID    string `cfg:"WEBHOOK_ID"`
	} `cfg:"PAYPAL"`

	Shopify struct {
		Enabled   bool   `cfg:"ENABLED" default:"false"`
		ApiKey    string `cfg:"API_KEY"`
		ApiSecret string `cfg:"API_SECRET"`
	} `cfg:"SHOPIFY"`

	// 卡券签发配置
	Voucher struct {
		ValidityMonths int    `cfg:"VALIDITY_MONTHS" default:"36"`
		CodeLength     int    `cfg:"CODE_LENGTH" default:"12"`
		BatchSize      int    `cfg:"BATCH_SIZE" default:"100"`
		LinkSalt       string `cfg:"LINK_SALT" default:"aira-giftcard"`
		LinkBaseURL    string `cfg:"LINK_BASE_URL"`
	} `cfg:"VOUCHER"`

	// 定时签发任务配置
	Issuance struct {
		CronSpec      string `cfg:"CRON_SPEC" default:"@daily"`
		Timezone      string `cfg:"TIMEZONE" default:"UTC"`
		BudgetSeconds int    `cfg:"BUDGET_SECONDS" default:"300"`
	} `cfg:"ISSUANCE"`

	// 通知投递配置
	Notify struct {
		Driver       string `cfg:"DRIVER" default:"log"` // log, sqs
		FromAddress  string `cfg:"FROM_ADDRESS"`
		SQSQueueURL  string `cfg:"SQS_QUEUE_URL"`
		AWSRegion    string `cfg:"AWS_REGION"`
		AWSAccessKey string `cfg:"AWS_ACCESS_KEY"`
		AWSSecret    string `cfg:"AWS_SECRET"`
	} `cfg:"NOTIFY"`
}

var Config *CommenceConfig
