package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrdersReconciledEvent struct {
	Provider    string            `json:"provider"`
	Reference   string            `json:"reference"` // 网关支付流水号
	Amount      *decimal.Decimal  `json:"amount"`
	Currency    string            `json:"currency"`
	Summary     *ReconcileSummary `json:"summary"`
	CompletedAt time.Time         `json:"completed_at"`
}

type VouchersIssuedEvent struct {
	OrderID      uint             `json:"order_id"`
	OrderNumber  string           `json:"order_number"`
	VoucherCount int              `json:"voucher_count"`
	TotalValue   *decimal.Decimal `json:"total_value"`
	Currency     string           `json:"currency"`
	CreatedAt    time.Time        `json:"created_at"`
}
