package reconcile

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/flaboy/aira-giftcard/pkg/database"
	"github.com/flaboy/aira-giftcard/pkg/errors"
	"github.com/flaboy/aira-giftcard/pkg/events"
	ptypes "github.com/flaboy/aira-giftcard/pkg/extensions/payment/types"
	"github.com/flaboy/aira-giftcard/pkg/extensions/payment/utils"
	"github.com/flaboy/aira-giftcard/pkg/models"
	"github.com/flaboy/aira-giftcard/pkg/types"
	"github.com/spf13/cast"
)

// Engine 支付对账引擎：把一条支付确认落到它结算的一个或一批订单上。
// 正确性完全依赖“仍处于待支付状态才允许改写”这一条件更新，不依赖锁，
// 因此重复投递、并发投递都是安全的。
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// 可结算状态：尚未到达终态的订单
var settleable = []types.OrderPaymentStatus{
	types.OrderPaymentStatusPending,
	types.OrderPaymentStatusProcessing,
}

// Apply 处理一条支付确认，逐单应用状态迁移并汇总结果。
// 单个订单失败不会中断兄弟订单；空结果集视为良性空操作（重复投递）。
func (e *Engine) Apply(conf *ptypes.PaymentConfirmation) (*types.ReconcileSummary, error) {
	if !conf.Complete() {
		// 非完成态的确认只报告不落库
		slog.Info("[Reconcile] Dropping non-complete confirmation",
			"provider", conf.Provider, "status", conf.Status, "reference", conf.Reference)
		return &types.ReconcileSummary{Success: true, Results: []types.OrderResult{}}, nil
	}

	if !conf.HasOrderReference() {
		return nil, errors.ErrMissingOrderRef
	}

	orders, err := e.resolveOrders(conf)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve target orders: %w", err)
	}

	if len(orders) == 0 {
		// 已处理过或没有匹配的订单，都要让网关停止重试
		slog.Info("[Reconcile] No matching orders for confirmation",
			"provider", conf.Provider, "reference", conf.Reference, "order", conf.OrderNumber)
		return &types.ReconcileSummary{Success: true, Results: []types.OrderResult{}}, nil
	}

	summary := &types.ReconcileSummary{
		TotalOrders: len(orders),
		Results:     make([]types.OrderResult, 0, len(orders)),
	}

	now := time.Now()
	amountMinor := utils.DecimalToMinor(conf.GrossAmount)

	for _, order := range orders {
		if order.PaymentStatus.Terminal() {
			// 已到终态的订单无错排除：这正是重复投递的幂等保护
			slog.Info("[Reconcile] Order already settled, excluding",
				"order", order.OrderNumber, "status", order.PaymentStatus)
			continue
		}

		result := types.OrderResult{OrderID: order.ID, OrderNumber: order.OrderNumber}

		res := database.Database().Model(&models.Order{}).
			Where("id = ? AND payment_status IN ?", order.ID, settleable).
			Updates(map[string]interface{}{
				"payment_status":    types.OrderPaymentStatusPaid,
				"payment_intent_id": conf.Reference,
				"payment_method":    conf.Method,
				"paid_amount":       amountMinor,
				"paid_currency":     conf.Currency,
				"gateway_status":    conf.RawStatus,
				"paid_at":           now,
			})

		switch {
		case res.Error != nil:
			result.Error = res.Error.Error()
			slog.Error("[Reconcile] Order update failed",
				"order", order.OrderNumber, "error", res.Error)
		case res.RowsAffected == 0:
			// 解析和更新之间被并发投递抢先结算，当作已结算吞掉
			result.Success = true
			slog.Info("[Reconcile] Order already settled, skipping",
				"order", order.OrderNumber, "reference", conf.Reference)
		default:
			result.Success = true
			summary.MarkedAsPaid++
		}

		summary.Results = append(summary.Results, result)
	}

	summary.Success = true
	for _, result := range summary.Results {
		if !result.Success {
			summary.Success = false
			break
		}
	}

	slog.Info("[Reconcile] Confirmation applied",
		"provider", conf.Provider, "reference", conf.Reference,
		"marked", summary.MarkedAsPaid, "total", summary.TotalOrders)

	if err := events.EmitOrdersReconciled(&types.OrdersReconciledEvent{
		Provider:    conf.Provider,
		Reference:   conf.Reference,
		Amount:      utils.MinorToDecimal(amountMinor),
		Currency:    conf.Currency,
		Summary:     summary,
		CompletedAt: now,
	}); err != nil {
		slog.Error("[Reconcile] Event handler failed", "error", err)
	}

	return summary, nil
}

// resolveOrders 解析确认所指向的订单集合。状态在这里不过滤，
// 已到终态的订单由调用方无错排除，落库仍由条件更新保护。
func (e *Engine) resolveOrders(conf *ptypes.PaymentConfirmation) ([]models.Order, error) {
	db := database.Database()
	var orders []models.Order

	if len(conf.BulkOrderNumbers) > 0 {
		err := db.Where("order_number IN ?", conf.BulkOrderNumbers).Find(&orders).Error
		return orders, err
	}

	err := db.Where("order_number = ?", conf.OrderNumber).Find(&orders).Error
	if err != nil {
		return nil, err
	}

	// 网关回传的也可能是数据库ID
	if len(orders) == 0 {
		if id := cast.ToUint(conf.OrderNumber); id > 0 {
			err = db.Where("id = ?", id).Find(&orders).Error
			if err != nil {
				return nil, err
			}
		}
	}

	return orders, nil
}

// BeginPaymentAttempt 发起支付时把订单从待支付推进到处理中，并记下网关引用。
// 只允许从待支付状态进入，重复发起不会回退状态。
func (e *Engine) BeginPaymentAttempt(orderID uint, intentID, method string) error {
	res := database.Database().Model(&models.Order{}).
		Where("id = ? AND payment_status = ?", orderID, types.OrderPaymentStatusPending).
		Updates(map[string]interface{}{
			"payment_status":    types.OrderPaymentStatusProcessing,
			"payment_intent_id": intentID,
			"payment_method":    method,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errors.ErrOrderNotPending
	}
	return nil
}

// MarkFailed 显式的失败/取消回调把未到终态的订单置为失败。
// 返回是否真的发生了迁移；订单已到终态时为false且不视为错误。
func (e *Engine) MarkFailed(orderNumber, reason string) (bool, error) {
	if orderNumber == "" {
		return false, errors.ErrMissingOrderRef
	}

	res := database.Database().Model(&models.Order{}).
		Where("order_number = ? AND payment_status IN ?", orderNumber, settleable).
		Updates(map[string]interface{}{
			"payment_status": types.OrderPaymentStatusFailed,
			"gateway_status": reason,
		})
	if res.Error != nil {
		return false, res.Error
	}

	if res.RowsAffected > 0 {
		slog.Info("[Reconcile] Order marked as failed", "order", orderNumber, "reason", reason)
	}
	return res.RowsAffected > 0, nil
}
