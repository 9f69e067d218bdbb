package voucher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/flaboy/aira-giftcard/pkg/config"
	"github.com/flaboy/aira-giftcard/pkg/database"
	"github.com/flaboy/aira-giftcard/pkg/errors"
	"github.com/flaboy/aira-giftcard/pkg/events"
	"github.com/flaboy/aira-giftcard/pkg/extensions/payment/utils"
	"github.com/flaboy/aira-giftcard/pkg/models"
	"github.com/flaboy/aira-giftcard/pkg/notify"
	"github.com/flaboy/aira-giftcard/pkg/types"
	"gorm.io/gorm"
)

const codeGenerationAttempts = 5

// Issuer 卡券签发服务。扫描已支付但还没有卡券的订单，逐单在一个事务里
// 生成兑换码、分摊面额、建礼品卡账户，提交后再尽力触发投递。
// 卡券的存在本身就是判重依据，重复跑一轮是空操作。
type Issuer struct {
	notifier notify.Notifier
}

func NewIssuer(n notify.Notifier) *Issuer {
	return &Issuer{notifier: n}
}

// ProcessPaidOrders 执行一轮签发。单个订单失败只记录不中断，
// ctx到期后停在订单边界，剩余订单等下一轮定时触发。
func (i *Issuer) ProcessPaidOrders(ctx context.Context) (*types.IssuanceSummary, error) {
	summary := &types.IssuanceSummary{Failures: []types.IssuanceFailure{}}
	batchSize := config.Config.Voucher.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}

	var lastID uint
	for {
		orders, err := i.nextBatch(lastID, batchSize)
		if err != nil {
			return summary, fmt.Errorf("failed to query unfulfilled orders: %w", err)
		}
		if len(orders) == 0 {
			break
		}

		for idx := range orders {
			order := &orders[idx]
			lastID = order.ID

			if err := ctx.Err(); err != nil {
				slog.Info("[Voucher] Run budget exhausted, stopping pass",
					"processed", summary.ProcessedOrders)
				return summary, nil
			}

			issued, err := i.issueOrder(order)
			if err != nil {
				slog.Error("[Voucher] Issuance failed", "order", order.OrderNumber, "error", err)
				summary.Failures = append(summary.Failures, types.IssuanceFailure{
					OrderID:     order.ID,
					OrderNumber: order.OrderNumber,
					Error:       err.Error(),
				})
				continue
			}

			if len(issued) == 0 {
				// 事务内发现已被并发轮次签发，空操作不计入本轮产出
				continue
			}

			summary.ProcessedOrders++
			summary.IssuedVouchers += len(issued)
			i.deliver(order, issued)
			i.emitIssued(order, issued)
		}
	}

	slog.Info("[Voucher] Issuance pass finished",
		"orders", summary.ProcessedOrders, "vouchers", summary.IssuedVouchers,
		"failures", len(summary.Failures))
	return summary, nil
}

// nextBatch 取下一批已支付且还没有卡券的订单，按ID做keyset分页
func (i *Issuer) nextBatch(afterID uint, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := database.Database().
		Where("payment_status = ?", types.OrderPaymentStatusPaid).
		Where("id > ?", afterID).
		Where("NOT EXISTS (SELECT 1 FROM gc_voucher_codes WHERE gc_voucher_codes.order_id = gc_orders.id)").
		Order("id").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}

// issueOrder 为一个订单生成全部卡券，整单一个事务
func (i *Issuer) issueOrder(order *models.Order) ([]models.VoucherCode, error) {
	if order.Quantity <= 0 {
		return nil, errors.ErrInvalidQuantity
	}

	validityMonths := config.Config.Voucher.ValidityMonths
	if validityMonths <= 0 {
		validityMonths = 36
	}

	var issued []models.VoucherCode
	err := database.Database().Transaction(func(tx *gorm.DB) error {
		// 事务内再判一次重，防止与并发轮次撞车
		var existing int64
		if err := tx.Model(&models.VoucherCode{}).
			Where("order_id = ?", order.ID).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			slog.Info("[Voucher] Order already fulfilled, skipping", "order", order.OrderNumber)
			return nil
		}

		values := SplitValue(order.Subtotal, order.Quantity)
		expiresAt := time.Now().AddDate(0, validityMonths, 0)

		for _, value := range values {
			code, err := i.uniqueCode(tx)
			if err != nil {
				return err
			}
			pin, err := GeneratePIN()
			if err != nil {
				return err
			}

			giftCard := models.GiftCard{
				Code:         code,
				InitialValue: value,
				Balance:      value,
				Active:       true,
			}
			if err := tx.Create(&giftCard).Error; err != nil {
				return err
			}

			voucher := models.VoucherCode{
				OrderID:        order.ID,
				GiftCardID:     &giftCard.ID,
				Code:           code,
				PIN:            pin,
				OriginalValue:  value,
				RemainingValue: value,
				ExpiresAt:      expiresAt,
			}
			if err := tx.Create(&voucher).Error; err != nil {
				return err
			}

			// 链接令牌由卡券ID编码而来，创建后补写
			if token, err := utils.EncodeVoucherLinkToken(voucher.ID); err == nil {
				voucher.LinkToken = token
				if err := tx.Model(&voucher).Update("link_token", token).Error; err != nil {
					return err
				}
			}

			issued = append(issued, voucher)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return issued, nil
}

// uniqueCode 生成未被卡券或礼品卡占用的兑换码，重试次数用尽报签发错误
func (i *Issuer) uniqueCode(tx *gorm.DB) (string, error) {
	length := config.Config.Voucher.CodeLength
	for attempt := 0; attempt < codeGenerationAttempts; attempt++ {
		code, err := GenerateCode(length)
		if err != nil {
			return "", err
		}

		var count int64
		if err := tx.Model(&models.VoucherCode{}).Where("code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			if err := tx.Model(&models.GiftCard{}).Where("code = ?", code).Count(&count).Error; err != nil {
				return "", err
			}
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", errors.ErrCodeGeneration
}

// deliver 尽力投递，失败只追加审计日志，不回滚已提交的签发
func (i *Issuer) deliver(order *models.Order, issued []models.VoucherCode) {
	if order.ReceiverEmail == "" {
		return
	}

	subject := fmt.Sprintf("Your gift card for order %s", order.OrderNumber)
	body := i.deliveryBody(order, issued)

	entry := models.DeliveryLog{
		OrderID:       order.ID,
		VoucherCodeID: &issued[0].ID,
		Channel:       i.notifier.GetChannelName(),
		Recipient:     order.ReceiverEmail,
		Subject:       subject,
		Status:        models.DeliveryStatusSent,
	}

	if err := i.notifier.Send(order.ReceiverEmail, subject, body); err != nil {
		slog.Error("[Voucher] Delivery failed", "order", order.OrderNumber, "error", err)
		entry.Status = models.DeliveryStatusFailed
		entry.Detail = err.Error()
	}

	if err := database.Database().Create(&entry).Error; err != nil {
		slog.Error("[Voucher] Failed to append delivery log", "order", order.OrderNumber, "error", err)
	}
}

func (i *Issuer) deliveryBody(order *models.Order, issued []models.VoucherCode) string {
	body := fmt.Sprintf("Hi %s,\n\nYour voucher codes for order %s:\n",
		order.ReceiverName, order.OrderNumber)
	for _, voucher := range issued {
		body += fmt.Sprintf("\n  Code: %s  PIN: %s  Value: %s %s",
			voucher.Code, voucher.PIN,
			utils.MinorToDecimal(voucher.OriginalValue).StringFixed(2), order.Currency)
		if voucher.LinkToken != "" {
			body += "\n  Link: " + utils.VoucherLinkURL(voucher.LinkToken)
		}
	}
	return body
}

func (i *Issuer) emitIssued(order *models.Order, issued []models.VoucherCode) {
	var total int64
	for _, voucher := range issued {
		total += voucher.OriginalValue
	}

	if err := events.EmitVouchersIssued(&types.VouchersIssuedEvent{
		OrderID:      order.ID,
		OrderNumber:  order.OrderNumber,
		VoucherCount: len(issued),
		TotalValue:   utils.MinorToDecimal(total),
		Currency:     order.Currency,
		CreatedAt:    time.Now(),
	}); err != nil {
		slog.Error("[Voucher] Event handler failed", "order", order.OrderNumber, "error", err)
	}
}
