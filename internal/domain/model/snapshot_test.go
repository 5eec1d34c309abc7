package model

import (
	"fmt"
	"testing"
	"time"

	"github.com/LouYuanbo1/walletagent/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func holdingsFixture(n int) []entity.HoldingEntry {
	holdings := make([]entity.HoldingEntry, 0, n)
	for i := 0; i < n; i++ {
		holdings = append(holdings, entity.HoldingEntry{
			"symbol": fmt.Sprintf("TOK%d", i),
			"amount": float64(i + 1),
			"value":  float64((i + 1) * 10),
		})
	}
	return holdings
}

func TestNewWalletSnapshotDefaultsForMissingFields(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	result := entity.NewExtractionResult(nil, nil)

	snapshot := NewWalletSnapshot("walletA", result, now)

	assert.Equal(t, "walletA", snapshot.WalletAddress)
	assert.Zero(t, snapshot.BalanceSol)
	assert.Zero(t, snapshot.TotalValueUsd)
	assert.Zero(t, snapshot.Winrate)
	// 缺失的时间戳用占位符而不是1970年
	assert.Equal(t, NoDataPlaceholder, snapshot.LastActiveAt)
	assert.Empty(t, snapshot.HoldingsText)
}

func TestNewWalletSnapshotCopiesSummaryFields(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	result := entity.NewExtractionResult(entity.WalletSummary{
		"balance":               1.5,
		"total_value":           200.0,
		"pnl":                   -3.5,
		"winrate":               0.75,
		"token_num":             8.0,
		"last_active_timestamp": float64(now.Unix()),
	}, nil)

	snapshot := NewWalletSnapshot("walletA", result, now)

	assert.Equal(t, 1.5, snapshot.BalanceSol)
	assert.Equal(t, 200.0, snapshot.TotalValueUsd)
	assert.Equal(t, -3.5, snapshot.PnlUsd)
	assert.Equal(t, 0.75, snapshot.Winrate)
	assert.Equal(t, 8.0, snapshot.TokenNum)
	assert.NotEqual(t, NoDataPlaceholder, snapshot.LastActiveAt)
}

func TestFormatHoldingsTextCapsAtFive(t *testing.T) {
	text := FormatHoldingsText(holdingsFixture(7))

	assert.Contains(t, text, "TOK0")
	assert.Contains(t, text, "TOK4")
	// 只展示前五个,其余折叠成计数
	assert.NotContains(t, text, "TOK5")
	assert.Contains(t, text, "和其他 2 个代币")
}

func TestFormatHoldingsTextSmallList(t *testing.T) {
	text := FormatHoldingsText(holdingsFixture(2))

	assert.Contains(t, text, "TOK0")
	assert.Contains(t, text, "TOK1")
	assert.NotContains(t, text, "和其他")
	assert.Empty(t, FormatHoldingsText(nil))
}

func TestWalletSnapshotDatedIndex(t *testing.T) {
	snapshot := &WalletSnapshot{
		WalletAddress: "walletA",
		ScrapedAt:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	assert.Equal(t, "wallet_snapshots-2025-06-01", snapshot.GetIndex())
	assert.Equal(t, fmt.Sprintf("walletA-%d", snapshot.ScrapedAt.Unix()), snapshot.GetID())
}

func TestWalletSnapshotSchemaOnNilReceiver(t *testing.T) {
	// es客户端用nil实例取映射,不能解引用字段
	var schemaDoc *WalletSnapshot

	mapping := schemaDoc.GetTypeMapping()
	require.NotNil(t, mapping)
	assert.Contains(t, mapping.Properties, "wallet_address")
	assert.Contains(t, mapping.Properties, "holdings_text")
	assert.NotEmpty(t, schemaDoc.GetIndex())
}
