package models

import (
	"time"

	"github.com/flaboy/aira-giftcard/pkg/database"
)

// VoucherCode 卡券，仅在所属订单支付完成后由签发任务创建。
// 卡券本身就是“已签发”的持久凭据，签发任务以它的存在与否判重。
type VoucherCode struct {
	ID         uint  `gorm:"primaryKey"`
	OrderID    uint  `gorm:"index;not null"` // 所属订单
	GiftCardID *uint `gorm:"index"`          // 背后的礼品卡账户

	Code      string `gorm:"size:32;uniqueIndex;not null"` // 兑换码
	PIN       string `gorm:"size:10"`
	LinkToken string `gorm:"size:64;index"` // 二维码/链接令牌

	OriginalValue  int64 `gorm:"not null"` // 面额（分）
	RemainingValue int64 `gorm:"not null"` // 余额（分），仅随兑换减少

	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (v *VoucherCode) TableName() string {
	return "gc_voucher_codes"
}

func init() {
	database.RegisterAutoMigrateModels(&VoucherCode{})
}
