package report

import (
	"fmt"
	"io"

	"github.com/flaboy/aira-giftcard/pkg/database"
	"github.com/flaboy/aira-giftcard/pkg/extensions/payment/utils"
	"github.com/flaboy/aira-giftcard/pkg/models"
	"github.com/xuri/excelize/v2"
)

// GiftCardStats 礼品卡统计口径。ValueSum为在用卡的未兑余额之和，
// 即平台当前的未清偿负债。
type GiftCardStats struct {
	TotalCards    int64 `json:"total_cards"`
	ActiveCards   int64 `json:"active_cards"`
	RedeemedCards int64 `json:"redeemed_cards"`
	ValueSum      int64 `json:"value_sum"`
}

func Stats() (*GiftCardStats, error) {
	db := database.Database()
	stats := &GiftCardStats{}

	if err := db.Model(&models.GiftCard{}).Count(&stats.TotalCards).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.GiftCard{}).
		Where("active = ? AND balance > 0", true).
		Count(&stats.ActiveCards).Error; err != nil {
		return nil, err
	}
	stats.RedeemedCards = stats.TotalCards - stats.ActiveCards

	var valueSum *int64
	if err := db.Model(&models.GiftCard{}).
		Where("active = ? AND balance > 0", true).
		Select("COALESCE(SUM(balance), 0)").
		Scan(&valueSum).Error; err != nil {
		return nil, err
	}
	if valueSum != nil {
		stats.ValueSum = *valueSum
	}

	return stats, nil
}

const exportSheet = "GiftCards"

var exportHeaders = []string{"Code", "Initial Value", "Balance", "Active", "Redeemed", "Created At"}

// ExportGiftCards 导出礼品卡报表为xlsx
func ExportGiftCards(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", exportSheet)

	for col, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return err
		}
	}

	var cards []models.GiftCard
	if err := database.Database().Order("id").Find(&cards).Error; err != nil {
		return err
	}

	for row, card := range cards {
		values := []interface{}{
			card.Code,
			utils.MinorToDecimal(card.InitialValue).StringFixed(2),
			utils.MinorToDecimal(card.Balance).StringFixed(2),
			card.Active,
			card.Redeemed(),
			card.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(exportSheet, cell, value); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write gift card report: %w", err)
	}
	return nil
}
