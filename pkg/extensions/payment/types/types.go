package types

import "github.com/shopspring/decimal"

// 规范化后的支付状态
const (
	StatusComplete  = "complete"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
	StatusPending   = "pending"
)

// PaymentConfirmation 从网关回调中提取的可信支付结论。
// 仅在验证通过后由支付渠道产出，本身不落库。
type PaymentConfirmation struct {
	Provider    string          `json:"provider"`
	Reference   string          `json:"reference"` // 外部支付流水号
	Method      string          `json:"method"`
	Status      string          `json:"status"` // complete, failed, cancelled, pending
	RawStatus   string          `json:"raw_status"`
	GrossAmount decimal.Decimal `json:"gross_amount"`
	Currency    string          `json:"currency"`

	// 结算目标：单个订单编号，批量下单时附兄弟订单编号列表
	OrderNumber      string   `json:"order_number"`
	BulkOrderNumbers []string `json:"bulk_order_numbers,omitempty"`
}

func (pc *PaymentConfirmation) Complete() bool {
	return pc.Status == StatusComplete
}

func (pc *PaymentConfirmation) HasOrderReference() bool {
	return pc.OrderNumber != "" || len(pc.BulkOrderNumbers) > 0
}
