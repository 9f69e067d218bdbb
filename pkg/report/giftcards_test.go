package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/flaboy/aira-giftcard/pkg/database"
	"github.com/flaboy/aira-giftcard/pkg/models"
	"github.com/flaboy/aira-giftcard/pkg/testutil"
)

func seedCards(t *testing.T) {
	t.Helper()
	cards := []models.GiftCard{
		{Code: "CARD-ACTIVE", InitialValue: 5000, Balance: 2000, Active: true},
		{Code: "CARD-EMPTY", InitialValue: 3000, Balance: 0, Active: true},
		{Code: "CARD-DISABLED", InitialValue: 1000, Balance: 1000, Active: false},
	}
	for i := range cards {
		// active列带default:true，GORM创建时会忽略false零值并回填默认值，需先留存再显式回写
		active := cards[i].Active
		require.NoError(t, database.Database().Create(&cards[i]).Error)
		require.NoError(t, database.Database().Model(&cards[i]).Update("active", active).Error)
		cards[i].Active = active
	}
}

func TestStats(t *testing.T) {
	testutil.NewTestDB(t)
	testutil.NewTestConfig(t)
	seedCards(t)

	stats, err := Stats()
	require.NoError(t, err)
	require.Equal(t, int64(3), stats.TotalCards)
	require.Equal(t, int64(1), stats.ActiveCards)
	require.Equal(t, int64(2), stats.RedeemedCards)
	// 未清偿负债只统计在用卡的余额
	require.Equal(t, int64(2000), stats.ValueSum)
}

func TestStatsEmpty(t *testing.T) {
	testutil.NewTestDB(t)
	testutil.NewTestConfig(t)

	stats, err := Stats()
	require.NoError(t, err)
	require.Equal(t, int64(0), stats.TotalCards)
	require.Equal(t, int64(0), stats.ValueSum)
}

func TestExportGiftCards(t *testing.T) {
	testutil.NewTestDB(t)
	testutil.NewTestConfig(t)
	seedCards(t)

	var buf bytes.Buffer
	require.NoError(t, ExportGiftCards(&buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(exportSheet, "A1")
	require.NoError(t, err)
	require.Equal(t, "Code", header)

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4) // 表头 + 3张卡

	value, err := f.GetCellValue(exportSheet, "B2")
	require.NoError(t, err)
	require.Equal(t, "50.00", value)
}
