package models

import (
	"time"

	"github.com/flaboy/aira-giftcard/pkg/database"
	"github.com/flaboy/aira-giftcard/pkg/types"
)

// Order 礼品卡订单，结账时创建，支付对账后由签发任务生成卡券。
// 属于财务审计记录，只追加状态，永不删除。
type Order struct {
	ID              uint    `gorm:"primaryKey"`
	OrderNumber     string  `gorm:"size:64;uniqueIndex"` // 订单编号
	BulkOrderNumber *string `gorm:"size:64;index"`       // 批量下单编号，同一笔支付的兄弟订单共享

	Amount      int64  `gorm:"not null"` // 单价（分）
	TotalAmount int64  `gorm:"not null"` // 实付总额（分）
	Subtotal    int64  `gorm:"not null"` // 商品小计（分），卡券面额之和
	Currency    string `gorm:"size:10;default:'ZAR'"`
	Quantity    int    `gorm:"not null;default:1"`

	PaymentStatus   types.OrderPaymentStatus `gorm:"size:20;index;default:'pending'"`
	PaymentIntentID string                   `gorm:"size:100"` // 网关支付引用，发起支付前为空
	PaymentMethod   string                   `gorm:"size:50"`
	GatewayStatus   string                   `gorm:"size:50"` // 网关回传的原始状态串
	PaidAmount      int64                    // 网关结算总额（分），批量支付时为整笔金额
	PaidCurrency    string                   `gorm:"size:10"`
	PaidAt          *time.Time

	BrandID    uint `gorm:"index"`
	OccasionID uint `gorm:"index"`

	// 收件人信息
	ReceiverName  string `gorm:"size:120"`
	ReceiverEmail string `gorm:"size:255"`
	ReceiverPhone string `gorm:"size:40"`

	VoucherCodes []VoucherCode `gorm:"foreignKey:OrderID"`
	DeliveryLogs []DeliveryLog `gorm:"foreignKey:OrderID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (o *Order) TableName() string {
	return "gc_orders"
}

func init() {
	database.RegisterAutoMigrateModels(&Order{})
}
