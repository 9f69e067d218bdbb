package models

import (
	"time"

	"github.com/flaboy/aira-giftcard/pkg/database"
)

const (
	DeliveryStatusSent   = "sent"
	DeliveryStatusFailed = "failed"
)

// DeliveryLog 投递审计日志，只追加不修改
type DeliveryLog struct {
	ID            uint   `gorm:"primaryKey"`
	OrderID       uint   `gorm:"index;not null"`
	VoucherCodeID *uint  `gorm:"index"`
	Channel       string `gorm:"size:30"` // email, sqs等
	Recipient     string `gorm:"size:255"`
	Subject       string `gorm:"size:255"`
	Status        string `gorm:"size:20"` // sent, failed
	Detail        string `gorm:"type:text"`
	CreatedAt     time.Time
}

func (d *DeliveryLog) TableName() string {
	return "gc_delivery_logs"
}

func init() {
	database.RegisterAutoMigrateModels(&DeliveryLog{})
}
