package types

type OrderPaymentStatus string

const (
	OrderPaymentStatusPending    OrderPaymentStatus = "pending"
	OrderPaymentStatusProcessing OrderPaymentStatus = "processing"
	OrderPaymentStatusPaid       OrderPaymentStatus = "paid"
	OrderPaymentStatusFailed     OrderPaymentStatus = "failed"
)

// Terminal 终态订单不再接受任何支付状态变更
func (s OrderPaymentStatus) Terminal() bool {
	return s == OrderPaymentStatusPaid || s == OrderPaymentStatusFailed
}

// OrderResult 单个订单的对账结果
type OrderResult struct {
	OrderID     uint   `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
}

// ReconcileSummary 一次支付确认处理的汇总结果
type ReconcileSummary struct {
	Success      bool          `json:"success"`
	MarkedAsPaid int           `json:"markedAsPaid"`
	TotalOrders  int           `json:"totalOrders"`
	Results      []OrderResult `json:"results"`
}

// IssuanceFailure 单个订单签发失败的记录
type IssuanceFailure struct {
	OrderID     uint   `json:"order_id"`
	OrderNumber string `json:"order_number"`
	Error       string `json:"error"`
}

// IssuanceSummary 一轮定时签发的汇总结果
type IssuanceSummary struct {
	ProcessedOrders int               `json:"processed_orders"`
	IssuedVouchers  int               `json:"issued_vouchers"`
	Failures        []IssuanceFailure `json:"failures"`
}
