package models

import (
	"time"

	"github.com/flaboy/aira-giftcard/pkg/database"
	"github.com/flaboy/aira-giftcard/pkg/errors"
)

// GiftCard 承载价值的礼品卡账户，可独立于订单查询和充值
type GiftCard struct {
	ID           uint   `gorm:"primaryKey"`
	Code         string `gorm:"size:32;uniqueIndex;not null"`
	InitialValue int64  `gorm:"not null"` // 发行面额（分）
	Balance      int64  `gorm:"not null"` // 当前余额（分），不超过面额
	Active       bool   `gorm:"default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (g *GiftCard) TableName() string {
	return "gc_gift_cards"
}

// Redeemed 余额耗尽或停用即视为已兑换（报表口径）
func (g *GiftCard) Redeemed() bool {
	return g.Balance <= 0 || !g.Active
}

// TopUp 充值同时抬高面额，保证余额永不超过面额
func (g *GiftCard) TopUp(amount int64) error {
	if amount <= 0 {
		return errors.ErrGiftCardOverdrawn
	}
	g.InitialValue += amount
	g.Balance += amount
	return nil
}

func init() {
	database.RegisterAutoMigrateModels(&GiftCard{})
}
