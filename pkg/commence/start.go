package commence

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/flaboy/aira-giftcard/pkg/config"
	"github.com/flaboy/aira-giftcard/pkg/database"
	"github.com/flaboy/aira-giftcard/pkg/events"
	"github.com/flaboy/aira-giftcard/pkg/extensions/payment"
	"github.com/flaboy/aira-giftcard/pkg/notify"
	"github.com/flaboy/aira-giftcard/pkg/scheduler"
	"github.com/flaboy/aira-giftcard/pkg/voucher"
)

var issuanceTrigger *scheduler.Trigger

func Start(cfg *config.CommenceConfig) error {
	config.Config = cfg

	if cfg.Database.DSN != "" {
		if err := database.Open(cfg.Database.Driver, cfg.Database.DSN); err != nil {
			return err
		}
		if err := database.AutoMigrate(); err != nil {
			return err
		}
	}

	// 启动服务组件
	payment.Init()
	if err := notify.Init(); err != nil {
		return err
	}

	if cfg.Issuance.CronSpec != "" {
		issuer := voucher.NewIssuer(notify.Default())
		budget := time.Duration(cfg.Issuance.BudgetSeconds) * time.Second

		trigger, err := scheduler.Start(cfg.Issuance.CronSpec, cfg.Issuance.Timezone, budget,
			func(ctx context.Context) {
				summary, err := issuer.ProcessPaidOrders(ctx)
				if err != nil {
					slog.Error("[Commence] Issuance pass failed", "error", err)
					return
				}
				slog.Info("[Commence] Issuance pass done",
					"orders", summary.ProcessedOrders, "vouchers", summary.IssuedVouchers)
			})
		if err != nil {
			return fmt.Errorf("failed to start issuance trigger: %w", err)
		}
		issuanceTrigger = trigger
	}

	return nil
}

func Stop() {
	if issuanceTrigger != nil {
		issuanceTrigger.Stop()
	}
}

// IssuanceTrigger 暴露给宿主做观测和手工触发
func IssuanceTrigger() *scheduler.Trigger {
	return issuanceTrigger
}

// 注册业务系统的事件处理器
func RegisterEventHandler(handler events.EventHandler) {
	events.SetEventHandler(handler)
}
